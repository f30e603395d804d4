package analytics

import "vgsales/pkg/contracts/domain"

// rec builds a cleaned record whose regional sales sum to global.
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

// global builds a record with all sales in NA.
func global(name, platform string, year int, sales float64) domain.Record {
	return rec(name, platform, year, "Action", "Pub", sales, 0, 0, 0)
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
