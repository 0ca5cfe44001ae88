// Package export renders vdata records as CSV and drives export runs.
//
// # Line Format
//
// Every line is the record timestamp followed by one field per value:
//
//	1700000000000.450,12.5,,"{""gear"":""3"",""mode"":""eco""}","[1,,3]"
//
// The timestamp is epoch milliseconds with an optional three-digit
// sub-millisecond (microsecond) suffix. Numbers are printed with at most ten
// fractional digits and no grouping. Text fields follow RFC 4180 quoting with
// one extension: inside a quoted field backslashes are doubled as well.
//
// Group values are not escaped, while text array entries are escaped twice.
// Downstream consumers rely on that asymmetry, so it is kept.
//
// # Export Runs
//
// An Exporter writes the header and then pulls records with one of three
// strategies:
//
//	exporter := export.NewExporter(export.Options{
//	    Mode:          export.ModeIterator,
//	    LookAheadRows: 10,
//	})
//	res, err := exporter.Run(ctx, openSource, func() (io.WriteCloser, error) {
//	    return export.OpenSink(export.SinkConfig{Path: "out.csv"})
//	})
//
// Streaming and batch modes yield byte-identical output for the same
// densification settings. The object1s mode skips densification.
//
// # Error Handling
//
// Write failures are returned as *vdata.ExportError carrying the number of
// rows already written; the partial output must be treated as invalid.
package export
