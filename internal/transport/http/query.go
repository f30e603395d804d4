package http

import (
	"net/http"

	"vgsales/internal/analytics"
	"vgsales/internal/middleware"
	api "vgsales/pkg/contracts/api/v1"
)

// Defaults applied when a request omits top_n.
const defaultTopN = 10

// QueryParser reads and validates the query contracts shared by the data
// endpoints.
type QueryParser struct {
	validator *middleware.Validator
}

// NewQueryParser creates a parser backed by v.
func NewQueryParser(v *middleware.Validator) *QueryParser {
	return &QueryParser{validator: v}
}

func readFilter(q *middleware.QueryParamValidator, r *http.Request) api.FilterQuery {
	return api.FilterQuery{
		StartYear:  q.IntPtr(r, "start_year"),
		EndYear:    q.IntPtr(r, "end_year"),
		Platforms:  q.List(r, "platforms"),
		Genres:     q.List(r, "genres"),
		Publishers: q.Repeated(r, "publishers"),
		MinSales:   q.FloatPtr(r, "min_sales"),
	}
}

func readRanking(q *middleware.QueryParamValidator, r *http.Request) api.RankingQuery {
	return api.RankingQuery{
		FilterQuery: readFilter(q, r),
		TopN:        q.IntPtr(r, "top_n"),
		Metric:      r.URL.Query().Get("metric"),
	}
}

// check returns the parse errors if any, otherwise the validation errors.
func (p *QueryParser) check(q *middleware.QueryParamValidator, v interface{}) error {
	if err := q.Err(); err != nil {
		return err
	}
	return p.validator.ValidateStruct(v)
}

// Filter parses the dataset filter parameters.
func (p *QueryParser) Filter(r *http.Request) (api.FilterQuery, error) {
	q := middleware.NewQueryParamValidator()
	f := readFilter(q, r)
	return f, p.check(q, f)
}

// Analytics parses a ranking request for dimension.
func (p *QueryParser) Analytics(r *http.Request, dimension string) (api.AnalyticsQuery, error) {
	q := middleware.NewQueryParamValidator()
	req := api.AnalyticsQuery{RankingQuery: readRanking(q, r), Dimension: dimension}
	return req, p.check(q, req)
}

// Export parses an export request.
func (p *QueryParser) Export(r *http.Request) (api.ExportQuery, error) {
	q := middleware.NewQueryParamValidator()
	req := api.ExportQuery{
		RankingQuery: readRanking(q, r),
		Format:       r.URL.Query().Get("format"),
		BOM:          q.Bool(r, "bom"),
	}
	return req, p.check(q, req)
}

// LogTail parses a log tail request for name.
func (p *QueryParser) LogTail(r *http.Request, name string) (api.LogTailQuery, error) {
	q := middleware.NewQueryParamValidator()
	req := api.LogTailQuery{Name: name, Lines: q.IntPtr(r, "lines")}
	return req, p.check(q, req)
}

// LogPrune parses a log cleanup request.
func (p *QueryParser) LogPrune(r *http.Request) (api.LogPruneQuery, error) {
	q := middleware.NewQueryParamValidator()
	req := api.LogPruneQuery{KeepDays: q.IntPtr(r, "keep_days")}
	return req, p.check(q, req)
}

// intOr returns *p, or fallback when the parameter was absent.
func intOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

// toFilter converts a validated query into an analytics filter.
func toFilter(f api.FilterQuery) analytics.Filter {
	out := analytics.Filter{
		Platforms:  f.Platforms,
		Genres:     f.Genres,
		Publishers: f.Publishers,
	}
	if f.StartYear != nil {
		out.StartYear = *f.StartYear
	}
	if f.EndYear != nil {
		out.EndYear = *f.EndYear
	}
	if f.MinSales != nil {
		out.MinSales = *f.MinSales
	}
	return out.Normalize()
}
