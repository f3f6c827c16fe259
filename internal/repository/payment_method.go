package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/streetbite/truck-pipeline/internal/models"
)

// PaymentMethodRepository reads the externally owned payment method
// reference table.
type PaymentMethodRepository struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// Mapping returns label -> payment_method_id, fetched fresh from the
// reference table.
func (r *PaymentMethodRepository) Mapping(ctx context.Context) (map[string]int, error) {
	var rows []models.PaymentMethod
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch payment method mapping: %w", err)
	}
	mapping := make(map[string]int, len(rows))
	for _, row := range rows {
		mapping[row.PaymentMethod] = row.PaymentMethodID
	}
	return mapping, nil
}
