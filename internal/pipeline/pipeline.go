package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/streetbite/truck-pipeline/internal/models"
	"github.com/streetbite/truck-pipeline/internal/repository"
	"github.com/streetbite/truck-pipeline/internal/storage"
)

// Runner wires the pipeline stages together for one batch invocation.
// All collaborators are passed in at construction; nothing reads
// ambient state.
type Runner struct {
	store      storage.ObjectStore
	ledger     FileLedger
	methods    PaymentMethodSource
	sink       TransactionSink
	runs       RunRecorder
	prefix     string
	stagingDir string
	log        zerolog.Logger
}

func NewRunner(
	store storage.ObjectStore,
	ledger FileLedger,
	methods PaymentMethodSource,
	sink TransactionSink,
	runs RunRecorder,
	prefix string,
	stagingDir string,
	log zerolog.Logger,
) *Runner {
	return &Runner{
		store:      store,
		ledger:     ledger,
		methods:    methods,
		sink:       sink,
		runs:       runs,
		prefix:     prefix,
		stagingDir: stagingDir,
		log:        log,
	}
}

// Result summarizes one completed run.
type Result struct {
	Status  string
	Metrics repository.RunMetrics
}

// Run processes one snapshot of files not yet ingested, end to end.
// Everything downstream of a successful combine is one atomic
// transform+load unit: either the whole normalized batch loads or none
// of it does. When the selection is empty the run short-circuits with
// status NO_NEW_FILES.
func (r *Runner) Run(ctx context.Context, fullResync bool) (Result, error) {
	runID, err := r.runs.StartRun(ctx)
	if err != nil {
		return Result{}, err
	}

	state := &State{FullResync: fullResync}

	selection := r.selectionSteps(fullResync)
	if err := selection.Execute(ctx, state); err != nil {
		r.runs.MarkFailed(ctx, runID, err, metricsFrom(state))
		return Result{Status: models.RunStatusFailed}, err
	}

	if len(state.Selected) == 0 {
		r.log.Info().Msg("no new files")
		result := Result{Status: models.RunStatusNoNewFiles}
		if err := r.runs.MarkSucceeded(ctx, runID, result.Status, repository.RunMetrics{}); err != nil {
			return result, err
		}
		return result, nil
	}

	r.log.Info().Int("files", len(state.Selected)).Msg("selected files for transform")

	transform := NewPipeline(
		&FetchStep{Fetcher: NewFetcher(r.store, r.ledger, r.stagingDir, r.log)},
		&CombineStep{Combiner: NewCombiner(r.log)},
		&NormalizeStep{},
		&ResolveStep{Methods: r.methods},
		&LoadStep{Sink: r.sink},
		&CleanupStagingStep{StagingDir: r.stagingDir},
	)
	if err := transform.Execute(ctx, state); err != nil {
		r.runs.MarkFailed(ctx, runID, err, metricsFrom(state))
		return Result{Status: models.RunStatusFailed, Metrics: metricsFrom(state)}, err
	}

	metrics := metricsFrom(state)
	r.log.Info().
		Int("files_selected", metrics.FilesSelected).
		Int("rows_combined", metrics.RowsCombined).
		Int("rows_loaded", metrics.RowsLoaded).
		Int("dropped_timestamp", metrics.DroppedTimestamp).
		Int("dropped_truck_id", metrics.DroppedTruckID).
		Int("dropped_total", metrics.DroppedTotal).
		Int("dropped_payment_type", metrics.DroppedPaymentType).
		Msg("run complete")

	result := Result{Status: models.RunStatusSuccess, Metrics: metrics}
	if err := r.runs.MarkSucceeded(ctx, runID, result.Status, metrics); err != nil {
		return result, err
	}
	return result, nil
}

func (r *Runner) selectionSteps(fullResync bool) *Pipeline {
	steps := []Step{}
	if fullResync {
		steps = append(steps, &ResetStep{Ledger: r.ledger, StagingDir: r.stagingDir})
	}
	steps = append(steps,
		&ListCandidatesStep{Lister: NewLister(r.store, r.prefix)},
		&ListIngestedStep{Ledger: r.ledger},
		&SelectStep{},
	)
	return NewPipeline(steps...)
}

func metricsFrom(state *State) repository.RunMetrics {
	return repository.RunMetrics{
		FilesSelected:      len(state.Selected),
		RowsCombined:       len(state.Raw),
		RowsLoaded:         state.Inserted,
		DroppedTimestamp:   state.Drops.Timestamp,
		DroppedTruckID:     state.Drops.TruckID,
		DroppedTotal:       state.Drops.Total,
		DroppedPaymentType: state.Drops.PaymentType,
	}
}
