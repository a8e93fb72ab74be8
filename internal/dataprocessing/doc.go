// Package dataprocessing loads campaign exports and benchmark tables into a
// domain.Dataset.
//
// # Inputs
//
// The post export is a delimited text file (semicolon by default) or an Excel
// workbook. Headers are matched case-insensitively after stripping byte order
// marks and zero-width characters, and German names (Datum, Plattform,
// Impressionen, Interaktionen, Klicks, Videoaufrufe, Titel) are accepted along
// with their English equivalents.
//
// The benchmark file (comma separated by default) has one row per platform.
// Empty cells mean "no benchmark" for that metric.
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger, dataprocessing.DefaultLoaderConfig())
//	ds, err := loader.Load(ctx, "data/posts.csv", "data/benchmarks.csv")
//	if err != nil {
//	    var le *dataprocessing.LoadError
//	    if errors.As(err, &le) {
//	        // le.Source, le.Line, le.Column
//	    }
//	}
//
// Rows whose date cannot be parsed are dropped and logged. Every other
// malformed value fails the load with a *LoadError.
package dataprocessing
