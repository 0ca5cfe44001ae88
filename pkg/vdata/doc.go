// Package vdata defines the record model shared by the record sources and
// the exporters.
//
// # Records
//
// A Record is a timestamp plus an ordered slice of values aligned with the
// source's column list:
//
//	cols := src.Columns(true) // ["time", "speed", "gear", ...]
//	rec.Values[0]             // value of cols[1]
//
// # Values
//
// Value is a closed sum type:
//
//   - Null: absent value
//   - Numeric: int64 or float64
//   - Text: plain string
//   - Group: ordered key/value pairs (struct signals)
//   - NumericArray: sparse numeric arrays
//   - TextArray: sparse string arrays
//
// Renderers switch over exactly these types and treat anything else as a
// programming error.
//
// # Sources
//
// A Source exposes three retrieval strategies:
//
//   - Iterator: lazy, single-pass, densified
//   - Objects: eager, densified
//   - Object1s: eager, raw (no densification)
//
// The storage package provides the sample-store implementation; the export
// package turns records into CSV.
package vdata
