package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/streetbite/truck-pipeline/internal/models"
	"github.com/streetbite/truck-pipeline/internal/repository"
)

// FileLedger is the pipeline's view of the ingestion bookkeeping table.
// This interface enables mocking in tests; the gorm implementation lives
// in internal/repository.
type FileLedger interface {
	ListIngested(ctx context.Context) (map[string]struct{}, error)
	RecordIngested(ctx context.Context, filenames []string) error
	Reset(ctx context.Context) error
}

// PaymentMethodSource fetches the label -> id mapping from the
// externally owned reference table.
type PaymentMethodSource interface {
	Mapping(ctx context.Context) (map[string]int, error)
}

// TransactionSink appends normalized rows to the ledger table.
type TransactionSink interface {
	InsertBatch(ctx context.Context, rows []models.Transaction) (int, error)
}

// RunRecorder keeps the per-invocation bookkeeping row.
type RunRecorder interface {
	StartRun(ctx context.Context) (uuid.UUID, error)
	MarkSucceeded(ctx context.Context, runID uuid.UUID, status string, m repository.RunMetrics) error
	MarkFailed(ctx context.Context, runID uuid.UUID, runErr error, m repository.RunMetrics)
}
