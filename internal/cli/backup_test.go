// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/store"
)

func TestBackup_ExportImportRoundTrip(t *testing.T) {
	catalog := writeCatalog(t, testCatalog)
	state := t.TempDir()

	out, err := runCLI(t, "backup", "info", "--state", state)
	if err != nil {
		t.Fatalf("backup info error = %v", err)
	}
	if info := decodeOutput[backupInfo](t, out); info.Snapshot != nil {
		t.Errorf("empty store snapshot = %+v, want nil", info.Snapshot)
	}

	if _, err := runCLI(t, "order", "--catalog", catalog, "--state", state,
		"--user", "newcomer", "--item", "tikka"); err != nil {
		t.Fatalf("order error = %v", err)
	}

	file := filepath.Join(t.TempDir(), "state.backup.gz")
	out, err = runCLI(t, "backup", "export", "--state", state, "--out", file)
	if err != nil {
		t.Fatalf("backup export error = %v", err)
	}
	exported := decodeOutput[store.ExportInfo](t, out)
	st, err := os.Stat(file)
	if err != nil {
		t.Fatalf("stat backup: %v", err)
	}
	if exported.Bytes != st.Size() || exported.Checksum == "" {
		t.Errorf("export info = %+v, file size %d", exported, st.Size())
	}

	restored := t.TempDir()
	out, err = runCLI(t, "backup", "import", "--state", restored, "--in", file)
	if err != nil {
		t.Fatalf("backup import error = %v", err)
	}
	info := decodeOutput[backupInfo](t, out)
	if info.Snapshot == nil || info.Snapshot.Orders == 0 {
		t.Fatalf("imported snapshot = %+v, want orders", info.Snapshot)
	}

	// The imported order history ends cold start for the user.
	out, err = runCLI(t, "recommend", "--catalog", catalog, "--state", restored, "--user", "newcomer")
	if err != nil {
		t.Fatalf("recommend error = %v", err)
	}
	if got := decodeOutput[*recommend.Outcome](t, out); got.Algorithm != recommend.AlgorithmHybrid {
		t.Errorf("algorithm after import = %s, want %s", got.Algorithm, recommend.AlgorithmHybrid)
	}
}

func TestBackup_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.gz")
	if err := os.WriteFile(garbage, []byte("not a backup"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no store", []string{"backup", "info"}, "no state store"},
		{"export without out", []string{"backup", "export", "--state", dir + "/s1"}, "out"},
		{"missing input", []string{"backup", "import", "--state", dir + "/s2", "--in", dir + "/missing.gz"}, "open backup file"},
		{"garbage input", []string{"backup", "import", "--state", dir + "/s3", "--in", garbage}, "backup stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
