package http

import (
	"net/http"

	"github.com/go-chi/render"

	"vgsales/internal/middleware"
	api "vgsales/pkg/contracts/api/v1"
)

// respond writes the success envelope around data.
func respond(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.JSON(w, r, api.Response{Status: "success", Data: data})
}

// respondList writes the success envelope with an item count.
func respondList(w http.ResponseWriter, r *http.Request, data interface{}, count int) {
	render.JSON(w, r, api.Response{Status: "success", Data: data, Count: &count})
}

// recordFailure counts an unexpected handler error in the system error metric.
func recordFailure(r *http.Request, component string) {
	middleware.RecordSystemError(r.Context(), nil, "handler", component)
}
