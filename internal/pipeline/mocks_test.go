package pipeline

import (
	"context"
	"errors"
)

var errTransport = errors.New("transport down")

func isErr(err, target error) bool {
	return errors.Is(err, target)
}

// mockObjectStore is a func-field mock of storage.ObjectStore.
type mockObjectStore struct {
	ListFunc     func(ctx context.Context, prefix string) ([]string, error)
	DownloadFunc func(ctx context.Context, key string) ([]byte, error)
}

func (m *mockObjectStore) List(ctx context.Context, prefix string) ([]string, error) {
	return m.ListFunc(ctx, prefix)
}

func (m *mockObjectStore) Download(ctx context.Context, key string) ([]byte, error) {
	return m.DownloadFunc(ctx, key)
}

// mockFileLedger records calls in memory.
type mockFileLedger struct {
	ingested  map[string]struct{}
	recorded  [][]string
	resets    int
	listErr   error
	recordErr error
}

func newMockFileLedger() *mockFileLedger {
	return &mockFileLedger{ingested: map[string]struct{}{}}
}

func (m *mockFileLedger) ListIngested(ctx context.Context) (map[string]struct{}, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make(map[string]struct{}, len(m.ingested))
	for k := range m.ingested {
		out[k] = struct{}{}
	}
	return out, nil
}

func (m *mockFileLedger) RecordIngested(ctx context.Context, filenames []string) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.recorded = append(m.recorded, filenames)
	for _, name := range filenames {
		m.ingested[name] = struct{}{}
	}
	return nil
}

func (m *mockFileLedger) Reset(ctx context.Context) error {
	m.resets++
	m.ingested = map[string]struct{}{}
	return nil
}
