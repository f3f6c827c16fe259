package pipeline

import (
	"github.com/pkg/errors"

	"github.com/streetbite/truck-pipeline/internal/models"
)

// ResolvePaymentMethods replaces each row's payment label with its
// integer id from the reference table, producing the ledger rows to
// insert. A label that survived the whitelist but has no mapping entry
// means the whitelist and the reference table have drifted; inserting
// it would break referential integrity, so the whole batch is rejected.
func ResolvePaymentMethods(table NormalizedTable, mapping map[string]int) ([]models.Transaction, error) {
	rows := make([]models.Transaction, 0, len(table))
	for _, r := range table {
		id, ok := mapping[r.PaymentMethod]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownPaymentMethod, "label %q has no id in the reference table", r.PaymentMethod)
		}
		rows = append(rows, models.Transaction{
			At:              r.At,
			TruckID:         r.TruckID,
			Total:           r.Total,
			PaymentMethodID: id,
		})
	}
	return rows, nil
}
