// Package dataprocessing turns the video game sales CSV into a cleaned,
// immutable dataset.
//
// # Components
//
//  1. Loader: reads the file and validates the header and cell types
//  2. Cleaner: repairs years, marks missing categories and recomputes global sales
//  3. Store: caches cleaned datasets by path and swaps them in on reload
//
// # Usage
//
//	logger := infrastructure.GetLogger()
//	store := dataprocessing.NewStore(
//	    dataprocessing.NewLoader(logger),
//	    dataprocessing.NewCleaner(logger),
//	    logger,
//	    "data/vgsales.csv",
//	)
//	ds, err := store.LoadDefault(ctx)
//	if err != nil {
//	    // store.Current() still returns an empty dataset
//	}
//
// # Error Handling
//
// Every loading failure is a *DataLoadingError whose Kind tells a missing
// file, missing columns, a cell that is not numeric, or a read failure apart.
// errors.Is(err, ErrDataLoading) matches all of them.
package dataprocessing
