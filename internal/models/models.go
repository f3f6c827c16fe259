package models

import (
	"time"

	"github.com/google/uuid"
)

// Truck is the reference table of known food trucks. It is pre-seeded and
// owned outside the pipeline; the pipeline only reads it.
type Truck struct {
	TruckID   int    `gorm:"column:truck_id;primaryKey"`
	TruckName string `gorm:"column:truck_name"`
}

func (Truck) TableName() string { return "trucks" }

// PaymentMethod maps a canonical payment label ("cash", "card") to its
// integer id. Pre-seeded; read-only from the pipeline.
type PaymentMethod struct {
	PaymentMethodID int    `gorm:"column:payment_method_id;primaryKey"`
	PaymentMethod   string `gorm:"column:payment_method;uniqueIndex"`
}

func (PaymentMethod) TableName() string { return "payment_methods" }

// Transaction is one normalized sale appended to the ledger table.
// Rows are insert-only; the pipeline never updates or deletes them.
type Transaction struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	At              time.Time `gorm:"column:at;index"`
	TruckID         int       `gorm:"column:truck_id;index"`
	Total           float64   `gorm:"column:total"`
	PaymentMethodID int       `gorm:"column:payment_method_id"`
}

func (Transaction) TableName() string { return "transactions" }

// IngestedFile records a source file that has already been downloaded.
// A filename appears at most once; rows are only removed by a full resync.
type IngestedFile struct {
	Filename   string    `gorm:"column:filename;primaryKey"`
	IngestedAt time.Time `gorm:"column:ingested_at;autoCreateTime"`
}

func (IngestedFile) TableName() string { return "ingested_files" }

// Ingest run statuses.
const (
	RunStatusRunning    = "RUNNING"
	RunStatusSuccess    = "SUCCESS"
	RunStatusFailed     = "FAILED"
	RunStatusNoNewFiles = "NO_NEW_FILES"
)

// IngestRun is the bookkeeping row for one pipeline invocation. Drop
// counters are run metrics, not errors: normalization is expected to
// shed rows.
type IngestRun struct {
	RunID      uuid.UUID  `gorm:"column:run_id;type:char(36);primaryKey"`
	StartedAt  time.Time  `gorm:"column:started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at"`
	Status     string     `gorm:"column:status;index"`
	ErrorMsg   string     `gorm:"column:error_message"`

	FilesSelected      int `gorm:"column:files_selected"`
	RowsCombined       int `gorm:"column:rows_combined"`
	RowsLoaded         int `gorm:"column:rows_loaded"`
	DroppedTimestamp   int `gorm:"column:dropped_timestamp"`
	DroppedTruckID     int `gorm:"column:dropped_truck_id"`
	DroppedTotal       int `gorm:"column:dropped_total"`
	DroppedPaymentType int `gorm:"column:dropped_payment_type"`
}

func (IngestRun) TableName() string { return "ingest_runs" }
