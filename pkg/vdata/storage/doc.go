// Package storage reads decoded signal samples and joins them into records.
//
// Two sample store formats are supported:
//
//   - JSON-lines logs (.jsonl, .ndjson), one sample per line:
//     {"t": 1700000000000000000, "s": "speed", "v": 12.5}
//     Optionally MIME base64 encoded (.txt, .json, .kfk, .b64).
//   - SQLite databases (.db, .sqlite, .vsdb) holding a signal catalog and a
//     sample table, readable through either the cgo driver
//     (github.com/mattn/go-sqlite3) or the pure Go driver (modernc.org/sqlite).
//
// A Frame merges the samples of all inputs by time and assembles one record
// per distinct timestamp. It implements vdata.Source:
//
//	frame, err := storage.Open(ctx, storage.OpenOptions{
//	    Paths:      []string{"run1.jsonl", "run2.db"},
//	    ExpandMode: vdata.ExpandFull,
//	})
//	if err != nil {
//	    return err
//	}
//	defer frame.Close()
//
//	it, err := frame.Iterator(0, 100, 0)
package storage
