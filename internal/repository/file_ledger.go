package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/streetbite/truck-pipeline/internal/models"
)

// FileLedgerRepository tracks which source files have been ingested.
// It backs the dedup decision: a filename recorded here is never
// downloaded or loaded again.
type FileLedgerRepository struct {
	db *gorm.DB
}

func NewFileLedgerRepository(db *gorm.DB) *FileLedgerRepository {
	return &FileLedgerRepository{db: db}
}

// ListIngested returns the set of filenames already ingested.
func (r *FileLedgerRepository) ListIngested(ctx context.Context) (map[string]struct{}, error) {
	var rows []models.IngestedFile
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list ingested files: %w", err)
	}
	ingested := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		ingested[row.Filename] = struct{}{}
	}
	return ingested, nil
}

// RecordIngested marks the given filenames as ingested in one statement.
// Callers must only pass filenames whose bytes were durably staged.
func (r *FileLedgerRepository) RecordIngested(ctx context.Context, filenames []string) error {
	if len(filenames) == 0 {
		return nil
	}
	rows := make([]models.IngestedFile, 0, len(filenames))
	for _, name := range filenames {
		rows = append(rows, models.IngestedFile{Filename: name})
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("record ingested files: %w", err)
	}
	return nil
}

// Reset clears the ledger. Only the full-resync mode calls this, and it
// must clear local staging as well before any new download begins.
func (r *FileLedgerRepository) Reset(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.IngestedFile{}).Error; err != nil {
		return fmt.Errorf("reset file ledger: %w", err)
	}
	return nil
}
