package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func TestStagedName(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"trucks/T1_2024-01-01.csv", "trucks_T1_2024-01-01.csv"},
		{"trucks/2024/T1_x.csv", "trucks_2024_T1_x.csv"},
		{"flat.csv", "flat.csv"},
	}
	for _, tt := range tests {
		if got := StagedName(tt.key); got != tt.want {
			t.Errorf("StagedName(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFetcher_Fetch(t *testing.T) {
	dir := t.TempDir()
	store := &mockObjectStore{
		DownloadFunc: func(ctx context.Context, key string) ([]byte, error) {
			return []byte("payload:" + key), nil
		},
	}
	ledger := newMockFileLedger()

	files := []string{"trucks/T1_a.csv", "trucks/T2_a.csv"}
	paths, err := NewFetcher(store, ledger, dir, zerolog.Nop()).Fetch(context.Background(), files)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Fetch() staged %d files, want 2", len(paths))
	}

	data, err := os.ReadFile(filepath.Join(dir, "trucks_T1_a.csv"))
	if err != nil {
		t.Fatalf("staged file missing: %v", err)
	}
	if string(data) != "payload:trucks/T1_a.csv" {
		t.Errorf("staged contents = %q", data)
	}

	// The whole batch is recorded in one call, in download order.
	if len(ledger.recorded) != 1 || !reflect.DeepEqual(ledger.recorded[0], files) {
		t.Errorf("recorded = %v, want one batch %v", ledger.recorded, files)
	}
}

// A mid-batch failure must leave the ledger untouched: a file that was
// staged but not recorded is re-fetched next run, never lost.
func TestFetcher_Fetch_FailClosed(t *testing.T) {
	dir := t.TempDir()
	store := &mockObjectStore{
		DownloadFunc: func(ctx context.Context, key string) ([]byte, error) {
			if key == "trucks/T2_a.csv" {
				return nil, errTransport
			}
			return []byte("ok"), nil
		},
	}
	ledger := newMockFileLedger()

	_, err := NewFetcher(store, ledger, dir, zerolog.Nop()).
		Fetch(context.Background(), []string{"trucks/T1_a.csv", "trucks/T2_a.csv", "trucks/T3_a.csv"})
	if !isErr(err, ErrDownloadFailed) {
		t.Fatalf("expected ErrDownloadFailed, got %v", err)
	}
	if len(ledger.recorded) != 0 {
		t.Errorf("recorded = %v, want nothing ledgered", ledger.recorded)
	}
}

func TestFetcher_Fetch_LedgerErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	store := &mockObjectStore{
		DownloadFunc: func(ctx context.Context, key string) ([]byte, error) {
			return []byte("ok"), nil
		},
	}
	ledger := newMockFileLedger()
	ledger.recordErr = errTransport

	_, err := NewFetcher(store, ledger, dir, zerolog.Nop()).
		Fetch(context.Background(), []string{"trucks/T1_a.csv"})
	if !isErr(err, errTransport) {
		t.Errorf("expected ledger error to propagate, got %v", err)
	}
}

func TestResetStaging(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "staging")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "stale.csv")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ResetStaging(dir); err != nil {
		t.Fatalf("ResetStaging() error = %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file survived reset")
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Error("staging dir was not recreated")
	}
}
