package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Source file column headers.
const (
	colTimestamp = "timestamp"
	colTotal     = "total"
	colType      = "type"
)

// truckMarker prefixes the truck id segment in source filenames,
// e.g. "trucks/T3_2024-01-01.csv".
const truckMarker = "T"

// TruckIDFromFilename parses the truck id from a source filename: the
// underscore-separated segment immediately before the final one,
// stripped of its marker prefix. Works on both remote keys and staged
// names.
func TruckIDFromFilename(name string) (int, error) {
	base := filepath.Base(name)
	parts := strings.Split(base, "_")
	if len(parts) < 2 {
		return 0, errors.Wrapf(ErrMalformedFilename, "%q has no truck segment", name)
	}
	seg := strings.TrimPrefix(parts[len(parts)-2], truckMarker)
	id, err := strconv.Atoi(seg)
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(ErrMalformedFilename, "%q: truck segment %q is not a positive integer", name, seg)
	}
	return id, nil
}

// Combiner loads staged files into one unified raw table.
type Combiner struct {
	log zerolog.Logger
}

func NewCombiner(log zerolog.Logger) *Combiner {
	return &Combiner{log: log}
}

// Combine parses each staged CSV and concatenates the rows, tagging
// every row with the truck id taken from its filename. File-level
// problems (unparseable filename, unreadable or header-less CSV) skip
// that file and continue with the rest.
func (c *Combiner) Combine(paths []string) (RawTable, error) {
	var table RawTable
	for _, path := range paths {
		rows, err := c.combineFile(path)
		if err != nil {
			c.log.Warn().Err(err).Str("file", path).Msg("skipping source file")
			continue
		}
		table = append(table, rows...)
	}
	return table, nil
}

func (c *Combiner) combineFile(path string) ([]RawRow, error) {
	truckID, err := TruckIDFromFilename(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open staged file %q", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "parse csv %q", path)
	}
	if len(records) == 0 {
		return nil, errors.Errorf("csv %q has no header row", path)
	}

	cols := map[string]int{}
	for i, h := range records[0] {
		cols[strings.TrimSpace(strings.ToLower(h))] = i
	}
	for _, required := range []string{colTimestamp, colTotal, colType} {
		if _, ok := cols[required]; !ok {
			return nil, errors.Errorf("csv %q is missing column %q", path, required)
		}
	}

	rows := make([]RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, RawRow{
			Timestamp:   field(rec, cols[colTimestamp]),
			TruckID:     strconv.Itoa(truckID),
			Total:       field(rec, cols[colTotal]),
			PaymentType: field(rec, cols[colType]),
		})
	}
	return rows, nil
}

func field(rec []string, idx int) string {
	if idx >= len(rec) {
		return ""
	}
	return rec[idx]
}
