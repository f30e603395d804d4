package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vgsales/internal/dataprocessing"
	api "vgsales/pkg/contracts/api/v1"
)

func newDatasetRouter(svc *MockDatasetService) http.Handler {
	_, errorHandler := testDeps()
	return NewDatasetHandler(svc, testLogger(), errorHandler).Routes()
}

func TestDatasetHandler_GetDataset(t *testing.T) {
	svc := new(MockDatasetService)
	svc.On("Info").Return(api.DatasetInfo{
		Path:        "data/vgsales.csv",
		Records:     16598,
		LoadedAt:    time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC),
		CachedPaths: []string{"data/vgsales.csv"},
	})

	rr := httptest.NewRecorder()
	newDatasetRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"records":16598`)
	assert.Contains(t, rr.Body.String(), `"fallback":false`)
	svc.AssertExpectations(t)
}

func TestDatasetHandler_Reload(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   []string
	}{
		{
			name:           "reloaded",
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"status":"success"`, `"records":6`},
		},
		{
			name: "missing columns",
			err: &dataprocessing.DataLoadingError{
				Path:    "data/vgsales.csv",
				Kind:    dataprocessing.KindMissingColumns,
				Columns: []string{"Year", "Genre"},
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   []string{`"DATA_LOADING_ERROR"`, `"columns":["Year","Genre"]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockDatasetService)
			svc.On("Reload").Return(api.DatasetInfo{Path: "data/vgsales.csv", Records: 6}, tt.err)

			rr := httptest.NewRecorder()
			newDatasetRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/reload", nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			for _, s := range tt.expectedBody {
				assert.Contains(t, rr.Body.String(), s)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestDatasetHandler_ReloadRequiresPost(t *testing.T) {
	svc := new(MockDatasetService)
	rr := httptest.NewRecorder()
	newDatasetRouter(svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/reload", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
