package pipeline

import (
	"context"
	"fmt"

	"github.com/streetbite/truck-pipeline/internal/models"
)

// Step is a single stage in the ingestion pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline steps. Each stage
// consumes the full output of the prior stage; the pipeline is batch,
// not streaming.
type State struct {
	FullResync bool

	Candidates  []string
	Ingested    map[string]struct{}
	Selected    []string
	StagedPaths []string

	Raw        RawTable
	Normalized NormalizedTable
	Drops      DropCounts
	LedgerRows []models.Transaction
	Inserted   int
}

// ResetStep clears the file ledger and the staging directory. Only part
// of the full-resync pipeline; it must run before any listing or
// download so stale and fresh state never mix.
type ResetStep struct {
	Ledger     FileLedger
	StagingDir string
}

func (s *ResetStep) Execute(ctx context.Context, state *State) error {
	if err := ResetStaging(s.StagingDir); err != nil {
		return err
	}
	return s.Ledger.Reset(ctx)
}

// ListCandidatesStep enumerates remote files under the data namespace.
type ListCandidatesStep struct {
	Lister *Lister
}

func (s *ListCandidatesStep) Execute(ctx context.Context, state *State) error {
	candidates, err := s.Lister.ListRemoteCandidates(ctx)
	if err != nil {
		return err
	}
	state.Candidates = candidates
	return nil
}

// ListIngestedStep loads the set of already-ingested filenames.
type ListIngestedStep struct {
	Ledger FileLedger
}

func (s *ListIngestedStep) Execute(ctx context.Context, state *State) error {
	ingested, err := s.Ledger.ListIngested(ctx)
	if err != nil {
		return err
	}
	state.Ingested = ingested
	return nil
}

// SelectStep picks the candidates not yet ingested.
type SelectStep struct{}

func (s *SelectStep) Execute(ctx context.Context, state *State) error {
	state.Selected = SelectForTransform(state.Ingested, state.Candidates, state.FullResync)
	return nil
}

// FetchStep downloads the selection to staging and ledgers the batch.
type FetchStep struct {
	Fetcher *Fetcher
}

func (s *FetchStep) Execute(ctx context.Context, state *State) error {
	paths, err := s.Fetcher.Fetch(ctx, state.Selected)
	if err != nil {
		return err
	}
	state.StagedPaths = paths
	return nil
}

// CombineStep parses the staged files into one raw table.
type CombineStep struct {
	Combiner *Combiner
}

func (s *CombineStep) Execute(ctx context.Context, state *State) error {
	raw, err := s.Combiner.Combine(state.StagedPaths)
	if err != nil {
		return err
	}
	state.Raw = raw
	return nil
}

// NormalizeStep applies the four column rules.
type NormalizeStep struct{}

func (s *NormalizeStep) Execute(ctx context.Context, state *State) error {
	state.Normalized, state.Drops = Normalize(state.Raw)
	return nil
}

// ResolveStep swaps payment labels for reference-table ids. The mapping
// is fetched fresh from the reference table each run.
type ResolveStep struct {
	Methods PaymentMethodSource
}

func (s *ResolveStep) Execute(ctx context.Context, state *State) error {
	mapping, err := s.Methods.Mapping(ctx)
	if err != nil {
		return err
	}
	rows, err := ResolvePaymentMethods(state.Normalized, mapping)
	if err != nil {
		return err
	}
	state.LedgerRows = rows
	return nil
}

// LoadStep appends the resolved rows to the ledger table.
type LoadStep struct {
	Sink TransactionSink
}

func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	n, err := s.Sink.InsertBatch(ctx, state.LedgerRows)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	state.Inserted = n
	return nil
}

// CleanupStagingStep clears staged files after a successful load.
// Housekeeping, not a correctness requirement: a leftover staged file
// is harmless because dedup is decided by the file ledger.
type CleanupStagingStep struct {
	StagingDir string
}

func (s *CleanupStagingStep) Execute(ctx context.Context, state *State) error {
	return ResetStaging(s.StagingDir)
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}
