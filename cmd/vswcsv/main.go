// vswcsv exports decoded vehicle signal samples as CSV.
//
// It reads one or more sample stores (JSON-lines logs, optionally base64
// encoded, or SQLite sample stores), joins their signals into time-stamped
// rows and writes them as CSV with a leading "time" column.
//
// Usage:
//
//	# Export every signal of a directory of logs to a file
//	vswcsv export -i ./logs -o out.csv
//
//	# Select and order signals, expand structs into qualified columns
//	vswcsv export -i a.jsonl,b.vsdb -s speed,pos -p full -o out.csv
//
//	# Fill leading nulls from the next 10 rows and resample every 100ms
//	vswcsv export -i ./logs -d 10 -e 100 -o out.csv.lz4
//
//	# Print the resolved columns
//	vswcsv columns -i ./logs
//
//	# Re-export whenever inputs change, and every hour
//	vswcsv watch -i ./logs -o out.csv --schedule "0 * * * *"
//
//	# Pack JSON-lines logs into a SQLite sample store
//	vswcsv pack -o store.vsdb ./logs
package main

func main() {
	Execute()
}
