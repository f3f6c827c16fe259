package pipeline

import "time"

// RawRow is one transaction as it appears in a source file, before any
// cleaning. All fields are strings because the upstream export is not
// trustworthy; the truck id is attached by the combiner from the
// filename, not read from the file body.
type RawRow struct {
	Timestamp   string
	TruckID     string
	Total       string
	PaymentType string
}

// RawTable is the unified, uncleaned result of combining all staged
// files. Row order within a file is preserved; file-to-file order is
// immaterial.
type RawTable []RawRow

// NormalizedRow is the canonical row shape after the four column rules.
// PaymentMethod still holds the folded label; the mapping resolver
// replaces it with the integer id when building ledger rows.
type NormalizedRow struct {
	At            time.Time
	TruckID       int
	Total         float64
	PaymentMethod string
}

// NormalizedTable may be strictly smaller than the RawTable it came
// from; rows dropped by the rules are an expected outcome, not an error.
type NormalizedTable []NormalizedRow

// DropCounts records how many rows each rule shed. Surfaced as run
// metrics, never as errors.
type DropCounts struct {
	Timestamp   int
	TruckID     int
	Total       int
	PaymentType int
}
