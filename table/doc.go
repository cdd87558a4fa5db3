// Package table reads solvent and compound tables and writes match reports.
//
// Inputs are delimited text with a header row. Columns are matched
// case-insensitively and a few aliases are accepted:
//
//	id                                   required
//	name, solvent, compound, drug        optional
//	d_d, dd                              required
//	d_p, dp                              required
//	d_h, dh                              required
//
// Extra columns are ignored. A trailing ".zst" or ".lz4" on a blob name
// selects transparent compression for both reading and writing.
//
// Outputs are chosen by extension: ".csv", ".tsv", ".json" and
// ".db"/".sqlite"/".sqlite3". SQLite outputs hold one table per report
// section, so results, pairs and neighbors can share a single database.
//
//	store := blobstore.NewLocalStore(".")
//	solvents, err := table.LoadSolvents(ctx, store, "solvents.csv.zst")
//	...
//	err = table.SaveResults(ctx, store, "results.json", report.Rows)
package table
