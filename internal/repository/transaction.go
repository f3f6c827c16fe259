package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/streetbite/truck-pipeline/internal/models"
)

// TransactionRepository appends normalized rows to the ledger table and
// answers the report's summary queries. The pipeline side is append-only.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const insertBatchSize = 500

// InsertBatch appends all rows in one bulk insert and returns the number
// of rows written. No dedup happens here; that is the file ledger's job.
func (r *TransactionRepository) InsertBatch(ctx context.Context, rows []models.Transaction) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&rows, insertBatchSize).Error; err != nil {
		return 0, fmt.Errorf("insert transactions: %w", err)
	}
	return len(rows), nil
}

// TruckSummary is one truck's aggregate for a report day.
type TruckSummary struct {
	TruckID          int     `gorm:"column:truck_id"`
	Total            float64 `gorm:"column:total"`
	TransactionCount int     `gorm:"column:transaction_count"`
}

// TotalForDay returns the summed transaction value for [day, day+24h).
func (r *TransactionRepository) TotalForDay(ctx context.Context, day time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(total), 0)").
		Where("at >= ? AND at < ?", day, day.AddDate(0, 0, 1)).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum transactions for day: %w", err)
	}
	return total, nil
}

// SummariesForDay returns per-truck value and count for [day, day+24h),
// ordered by truck id.
func (r *TransactionRepository) SummariesForDay(ctx context.Context, day time.Time) ([]TruckSummary, error) {
	var rows []TruckSummary
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("truck_id, SUM(total) AS total, COUNT(*) AS transaction_count").
		Where("at >= ? AND at < ?", day, day.AddDate(0, 0, 1)).
		Group("truck_id").
		Order("truck_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("per-truck summaries for day: %w", err)
	}
	return rows, nil
}
