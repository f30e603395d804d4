package services

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"vgsales/pkg/contracts/domain"
)

var loadedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func rec(name, platform string, year int, genre, publisher string, na, eu, jp, other float64) domain.Record {
	r := domain.Record{
		Name:       domain.ParseCategory(name),
		Platform:   domain.ParseCategory(platform),
		Year:       year,
		Genre:      domain.ParseCategory(genre),
		Publisher:  domain.ParseCategory(publisher),
		NASales:    na,
		EUSales:    eu,
		JPSales:    jp,
		OtherSales: other,
	}
	r.GlobalSales = r.RegionalSum()
	return r
}

func sampleRecords() []domain.Record {
	return []domain.Record{
		rec("Wii Sports", "Wii", 2006, "Sports", "Nintendo", 41.49, 29.02, 3.77, 8.46),
		rec("Super Mario Bros.", "NES", 1985, "Platform", "Nintendo", 29.08, 3.58, 6.81, 0.77),
		rec("Mario Kart Wii", "Wii", 2008, "Racing", "Nintendo", 15.85, 12.88, 3.79, 3.31),
		rec("Grand Theft Auto V", "PS3", 2013, "Action", "Take-Two Interactive", 7.01, 9.27, 0.97, 4.14),
		rec("Grand Theft Auto V", "X360", 2013, "Action", "Take-Two Interactive", 9.63, 5.31, 0.06, 1.38),
		rec("Tetris", "GB", 1989, "Puzzle", "", 23.2, 2.26, 4.22, 0.58),
	}
}

func sampleDataset() *domain.Dataset {
	return domain.NewDataset("vgsales.csv", sampleRecords(), domain.CleanReport{Rows: 6}, loadedAt)
}

// staticSource serves a dataset that tests can swap.
type staticSource struct {
	mu sync.Mutex
	ds *domain.Dataset
}

func newSource(ds *domain.Dataset) *staticSource {
	return &staticSource{ds: ds}
}

func (s *staticSource) Current() *domain.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ds
}

func (s *staticSource) set(ds *domain.Dataset) {
	s.mu.Lock()
	s.ds = ds
	s.mu.Unlock()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
