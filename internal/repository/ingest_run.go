package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/streetbite/truck-pipeline/internal/models"
)

// IngestRunRepository records one bookkeeping row per pipeline
// invocation. Terminal updates are best-effort on the failure path so a
// bookkeeping problem never masks the pipeline error.
type IngestRunRepository struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewIngestRunRepository(db *gorm.DB, log zerolog.Logger) *IngestRunRepository {
	return &IngestRunRepository{db: db, log: log}
}

// StartRun creates a RUNNING row and returns its id.
func (r *IngestRunRepository) StartRun(ctx context.Context) (uuid.UUID, error) {
	run := models.IngestRun{
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
		Status:    models.RunStatusRunning,
	}
	if err := r.db.WithContext(ctx).Create(&run).Error; err != nil {
		return uuid.Nil, fmt.Errorf("start ingest run: %w", err)
	}
	return run.RunID, nil
}

// RunMetrics are the per-run counters surfaced for observability.
// Dropped* counters are expected outcomes of normalization, not errors.
type RunMetrics struct {
	FilesSelected      int
	RowsCombined       int
	RowsLoaded         int
	DroppedTimestamp   int
	DroppedTruckID     int
	DroppedTotal       int
	DroppedPaymentType int
}

// MarkSucceeded finishes the run with the given terminal status
// (SUCCESS or NO_NEW_FILES) and metrics.
func (r *IngestRunRepository) MarkSucceeded(ctx context.Context, runID uuid.UUID, status string, m RunMetrics) error {
	if err := r.finish(ctx, runID, status, "", m); err != nil {
		return fmt.Errorf("mark ingest run succeeded: %w", err)
	}
	return nil
}

// MarkFailed finishes the run as FAILED. Errors here are logged, not
// returned; the caller is already propagating the pipeline error.
func (r *IngestRunRepository) MarkFailed(ctx context.Context, runID uuid.UUID, runErr error, m RunMetrics) {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
		const maxLen = 2000
		if len(msg) > maxLen {
			msg = msg[:maxLen]
		}
	}
	if err := r.finish(ctx, runID, models.RunStatusFailed, msg, m); err != nil {
		r.log.Error().Err(err).Str("run_id", runID.String()).Msg("failed to mark ingest run failed")
	}
}

func (r *IngestRunRepository) finish(ctx context.Context, runID uuid.UUID, status, errMsg string, m RunMetrics) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&models.IngestRun{}).
		Where("run_id = ?", runID).
		Updates(map[string]interface{}{
			"status":               status,
			"finished_at":          &now,
			"error_message":        errMsg,
			"files_selected":       m.FilesSelected,
			"rows_combined":        m.RowsCombined,
			"rows_loaded":          m.RowsLoaded,
			"dropped_timestamp":    m.DroppedTimestamp,
			"dropped_truck_id":     m.DroppedTruckID,
			"dropped_total":        m.DroppedTotal,
			"dropped_payment_type": m.DroppedPaymentType,
		}).Error
}
