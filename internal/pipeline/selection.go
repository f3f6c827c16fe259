package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/streetbite/truck-pipeline/internal/storage"
)

// Lister enumerates candidate files in the remote store.
type Lister struct {
	store  storage.ObjectStore
	prefix string
}

func NewLister(store storage.ObjectStore, prefix string) *Lister {
	return &Lister{store: store, prefix: prefix}
}

// ListRemoteCandidates returns every key under the transactional-data
// namespace, in listing order. A transport failure is fatal for the run.
func (l *Lister) ListRemoteCandidates(ctx context.Context) ([]string, error) {
	keys, err := l.store.List(ctx, l.prefix)
	if err != nil {
		return nil, errors.Wrapf(ErrRemoteUnavailable, "listing %q: %v", l.prefix, err)
	}
	return keys, nil
}

// SelectForTransform returns the candidates to process this run,
// preserving candidate order. In full-resync mode the ledger has already
// been reset, so every candidate is selected; otherwise a file already
// recorded as ingested is never selected again.
func SelectForTransform(ingested map[string]struct{}, candidates []string, fullResync bool) []string {
	if fullResync {
		return candidates
	}
	selected := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if _, ok := ingested[name]; !ok {
			selected = append(selected, name)
		}
	}
	return selected
}
