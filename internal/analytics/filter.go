package analytics

import (
	"fmt"
	"sort"
	"strings"

	"vgsales/pkg/contracts/domain"
)

// Filter selects records. Zero values leave a criterion open.
type Filter struct {
	StartYear  int      `json:"start_year,omitempty"`
	EndYear    int      `json:"end_year,omitempty"`
	Platforms  []string `json:"platforms,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Publishers []string `json:"publishers,omitempty"`
	MinSales   float64  `json:"min_sales,omitempty"`
}

// Normalize swaps a reversed year range and trims, dedupes and sorts the
// category lists. The receiver is not modified.
func (f Filter) Normalize() Filter {
	out := f
	if out.StartYear > 0 && out.EndYear > 0 && out.StartYear > out.EndYear {
		out.StartYear, out.EndYear = out.EndYear, out.StartYear
	}
	out.Platforms = normalizeValues(f.Platforms)
	out.Genres = normalizeValues(f.Genres)
	out.Publishers = normalizeValues(f.Publishers)
	if out.MinSales < 0 {
		out.MinSales = 0
	}
	return out
}

func normalizeValues(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// IsZero reports whether the filter matches every record.
func (f Filter) IsZero() bool {
	return f.StartYear == 0 && f.EndYear == 0 && len(f.Platforms) == 0 &&
		len(f.Genres) == 0 && len(f.Publishers) == 0 && f.MinSales <= 0
}

// Key is a canonical string form of the normalized filter, used as a cache key.
func (f Filter) Key() string {
	n := f.Normalize()
	return fmt.Sprintf("y=%d-%d|p=%s|g=%s|pub=%s|min=%g",
		n.StartYear, n.EndYear,
		strings.Join(n.Platforms, ","),
		strings.Join(n.Genres, ","),
		strings.Join(n.Publishers, ","),
		n.MinSales)
}

// Apply returns the records matching f. The input slice is returned as is when
// the filter is empty.
func Apply(records []domain.Record, f Filter) []domain.Record {
	f = f.Normalize()
	if f.IsZero() {
		return records
	}

	m := newMatcher(f)
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

type matcher struct {
	f          Filter
	platforms  map[string]struct{}
	genres     map[string]struct{}
	publishers map[string]struct{}
}

func newMatcher(f Filter) matcher {
	return matcher{
		f:          f,
		platforms:  toSet(f.Platforms),
		genres:     toSet(f.Genres),
		publishers: toSet(f.Publishers),
	}
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func (m matcher) match(r domain.Record) bool {
	if m.f.StartYear > 0 && r.Year < m.f.StartYear {
		return false
	}
	if m.f.EndYear > 0 && r.Year > m.f.EndYear {
		return false
	}
	if m.f.MinSales > 0 && r.GlobalSales < m.f.MinSales {
		return false
	}
	return inSet(m.platforms, r.Platform) && inSet(m.genres, r.Genre) && inSet(m.publishers, r.Publisher)
}

// inSet matches present values only; a missing category never matches a
// non-empty set.
func inSet(set map[string]struct{}, c domain.Category) bool {
	if set == nil {
		return true
	}
	if !c.Valid {
		return false
	}
	_, ok := set[c.Value]
	return ok
}
