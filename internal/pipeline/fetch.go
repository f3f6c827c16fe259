package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/streetbite/truck-pipeline/internal/storage"
)

// Fetcher downloads selected files to local staging and records them in
// the file ledger once the whole batch has landed.
type Fetcher struct {
	store      storage.ObjectStore
	ledger     FileLedger
	stagingDir string
	log        zerolog.Logger
}

func NewFetcher(store storage.ObjectStore, ledger FileLedger, stagingDir string, log zerolog.Logger) *Fetcher {
	return &Fetcher{store: store, ledger: ledger, stagingDir: stagingDir, log: log}
}

// StagedName derives the local filename for a remote key. Slashes become
// underscores so nested keys from different truck partitions cannot
// collide in the flat staging directory.
func StagedName(key string) string {
	return strings.ReplaceAll(key, "/", "_")
}

// Fetch downloads each file to the staging directory and, only after
// every download has completed, records the batch in the file ledger.
// If any single download fails the batch is abandoned and nothing is
// recorded: the next run re-attempts the whole selection rather than
// risking a file that is ledgered but never staged.
func (f *Fetcher) Fetch(ctx context.Context, filenames []string) ([]string, error) {
	if err := os.MkdirAll(f.stagingDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create staging dir %q", f.stagingDir)
	}

	paths := make([]string, 0, len(filenames))
	for _, name := range filenames {
		data, err := f.store.Download(ctx, name)
		if err != nil {
			return nil, errors.Wrapf(ErrDownloadFailed, "downloading %q: %v", name, err)
		}
		local := filepath.Join(f.stagingDir, StagedName(name))
		if err := os.WriteFile(local, data, 0o644); err != nil {
			return nil, errors.Wrapf(ErrDownloadFailed, "staging %q: %v", name, err)
		}
		f.log.Debug().Str("key", name).Str("local", local).Msg("staged file")
		paths = append(paths, local)
	}

	// Every file in the batch is durably staged; only now is it safe to
	// mark the whole batch ingested.
	if err := f.ledger.RecordIngested(ctx, filenames); err != nil {
		return nil, err
	}
	return paths, nil
}

// ResetStaging clears and recreates the staging directory. Full-resync
// mode calls this before any download so stale and fresh files never mix.
func ResetStaging(stagingDir string) error {
	if err := os.RemoveAll(stagingDir); err != nil {
		return errors.Wrapf(err, "clear staging dir %q", stagingDir)
	}
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return errors.Wrapf(err, "recreate staging dir %q", stagingDir)
	}
	return nil
}
