package pipeline

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts accepted by the timestamp rule.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// minorUnitThreshold is the cutover for the amount heuristic: absolute
// values at or above it are assumed to be minor units (pence) and are
// divided by 100. The upstream export mixes unit conventions and gives
// no per-row indication; this threshold is a business rule, preserved
// as-is.
const minorUnitThreshold = 100

// Whitelisted payment labels. Anything else (crypto, empty, typos) is
// excluded from the ledger, silently.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

// Normalize applies the four column rules in their fixed order and
// reports how many rows each rule dropped. The output can be strictly
// smaller than the input; that is expected, not an error.
func Normalize(raw RawTable) (NormalizedTable, DropCounts) {
	var drops DropCounts

	rows := timestampRule(raw, &drops)
	rows = truckIDRule(rows, &drops)
	rows = amountRule(rows, &drops)
	rows = paymentTypeRule(rows, &drops)

	out := make(NormalizedTable, 0, len(rows))
	for _, r := range rows {
		out = append(out, NormalizedRow{
			At:            r.at,
			TruckID:       r.truckID,
			Total:         r.total,
			PaymentMethod: r.label,
		})
	}
	return out, drops
}

// workRow carries a row through the rule sequence: raw fields still to
// be cleaned alongside fields already coerced by earlier rules.
type workRow struct {
	at      time.Time
	rawID   string
	truckID int
	rawTot  string
	total   float64
	rawType string
	label   string
}

// Rule 1: map the source timestamp field onto the canonical at field.
// The canonical row is typed, so the value must parse; rows whose
// timestamp fits no accepted layout are dropped like any other failed
// coercion.
func timestampRule(raw RawTable, drops *DropCounts) []workRow {
	out := make([]workRow, 0, len(raw))
	for _, r := range raw {
		at, ok := parseTimestamp(r.Timestamp)
		if !ok {
			drops.Timestamp++
			continue
		}
		out = append(out, workRow{
			at:      at,
			rawID:   r.TruckID,
			rawTot:  r.Total,
			rawType: r.PaymentType,
		})
	}
	return out
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Rule 2: coerce the truck id to an integer, dropping rows where the
// coercion fails. Guards against malformed per-row overrides of the
// filename-derived id.
func truckIDRule(rows []workRow, drops *DropCounts) []workRow {
	out := rows[:0]
	for _, r := range rows {
		id, err := strconv.Atoi(strings.TrimSpace(r.rawID))
		if err != nil {
			drops.TruckID++
			continue
		}
		r.truckID = id
		out = append(out, r)
	}
	return out
}

// Rule 3: coerce the total to a number, dropping rows that fail. Values
// with absolute magnitude below the threshold are already currency
// units; larger values are minor units and are divided by 100. Sign is
// always discarded: refunds and negative entries count as
// magnitude-only sales. A documented business assumption, not a bug.
func amountRule(rows []workRow, drops *DropCounts) []workRow {
	out := rows[:0]
	for _, r := range rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(r.rawTot), 64)
		if err != nil {
			drops.Total++
			continue
		}
		v = math.Abs(v)
		if v >= minorUnitThreshold {
			// round(v/100, 2)
			v = math.Round(v) / minorUnitThreshold
		}
		r.total = v
		out = append(out, r)
	}
	return out
}

// Rule 4: case-fold the payment type and keep only whitelisted labels.
// Everything else is excluded without comment; the whitelist is a
// business rule, not an error condition.
func paymentTypeRule(rows []workRow, drops *DropCounts) []workRow {
	out := rows[:0]
	for _, r := range rows {
		label := strings.ToLower(strings.TrimSpace(r.rawType))
		if label != PaymentCash && label != PaymentCard {
			drops.PaymentType++
			continue
		}
		r.label = label
		out = append(out, r)
	}
	return out
}
