package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestTruckIDFromFilename(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    int
		wantErr bool
	}{
		{"staged name", "trucks_T3_2024-01-01.csv", 3, false},
		{"remote key", "trucks/T12_2024-01-01.csv", 12, false},
		{"no truck segment", "report.csv", 0, true},
		{"non-numeric id", "trucks_Tx_2024-01-01.csv", 0, true},
		{"missing marker still parses digits", "trucks_7_2024-01-01.csv", 7, false},
		{"zero id rejected", "trucks_T0_2024-01-01.csv", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TruckIDFromFilename(tt.file)
			if tt.wantErr {
				if !isErr(err, ErrMalformedFilename) {
					t.Errorf("TruckIDFromFilename(%q) error = %v, want ErrMalformedFilename", tt.file, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("TruckIDFromFilename(%q) error = %v", tt.file, err)
			}
			if got != tt.want {
				t.Errorf("TruckIDFromFilename(%q) = %d, want %d", tt.file, got, tt.want)
			}
		})
	}
}

func writeStaged(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCombine(t *testing.T) {
	dir := t.TempDir()
	p1 := writeStaged(t, dir, "trucks_T1_2024-01-01.csv",
		"timestamp,total,type\n2024-01-01 09:00:00,150,cash\n2024-01-01 09:05:00,20,card\n")
	p2 := writeStaged(t, dir, "trucks_T2_2024-01-01.csv",
		"timestamp,total,type\n2024-01-01 10:00:00,7.50,card\n")

	table, err := NewCombiner(zerolog.Nop()).Combine([]string{p1, p2})
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("Combine() produced %d rows, want 3", len(table))
	}

	// Row order within a file is preserved and every row carries its
	// file's truck id.
	if table[0].TruckID != "1" || table[1].TruckID != "1" || table[2].TruckID != "2" {
		t.Errorf("truck ids = %q, %q, %q", table[0].TruckID, table[1].TruckID, table[2].TruckID)
	}
	if table[0].Total != "150" || table[0].PaymentType != "cash" {
		t.Errorf("row 0 = %+v", table[0])
	}
}

func TestCombine_SkipsMalformedFilename(t *testing.T) {
	dir := t.TempDir()
	good := writeStaged(t, dir, "trucks_T1_2024-01-01.csv",
		"timestamp,total,type\n2024-01-01 09:00:00,10,cash\n")
	bad := writeStaged(t, dir, "notes.csv",
		"timestamp,total,type\n2024-01-01 09:00:00,10,cash\n")

	table, err := NewCombiner(zerolog.Nop()).Combine([]string{bad, good})
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if len(table) != 1 {
		t.Fatalf("Combine() produced %d rows, want 1 (bad file skipped)", len(table))
	}
	if table[0].TruckID != "1" {
		t.Errorf("truck id = %q, want %q", table[0].TruckID, "1")
	}
}

func TestCombine_SkipsFileWithMissingColumns(t *testing.T) {
	dir := t.TempDir()
	missing := writeStaged(t, dir, "trucks_T1_2024-01-01.csv",
		"timestamp,amount\n2024-01-01 09:00:00,10\n")
	good := writeStaged(t, dir, "trucks_T2_2024-01-01.csv",
		"timestamp,total,type\n2024-01-01 09:00:00,10,card\n")

	table, err := NewCombiner(zerolog.Nop()).Combine([]string{missing, good})
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if len(table) != 1 {
		t.Fatalf("Combine() produced %d rows, want 1", len(table))
	}
}

func TestCombine_HeaderCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	p := writeStaged(t, dir, "trucks_T4_2024-01-01.csv",
		"Timestamp,Total,Type\n2024-01-01 09:00:00,33,cash\n")

	table, err := NewCombiner(zerolog.Nop()).Combine([]string{p})
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if len(table) != 1 || table[0].Total != "33" {
		t.Errorf("table = %+v", table)
	}
}

func TestCombine_NoFiles(t *testing.T) {
	table, err := NewCombiner(zerolog.Nop()).Combine(nil)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if len(table) != 0 {
		t.Errorf("Combine(nil) = %v, want empty", table)
	}
}
