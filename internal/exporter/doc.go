// Package exporter writes campaign reports as downloadable files.
//
// Two formats are supported:
//
// CSV: a summary block and a per-post block separated by an empty line,
// prefixed with a UTF-8 BOM so spreadsheet tools detect the encoding.
//
// XLSX: a workbook with a Summary sheet and one sheet per platform holding
// the top, flop and full post tables. Delta cells are colored by tier.
//
// Example usage:
//
//	exp := exporter.New(logger, exporter.Options{RankSize: 3})
//	format, err := exporter.ParseFormat("xlsx")
//	if err != nil {
//		return err
//	}
//	err = exp.Export(ctx, w, report, format)
package exporter
