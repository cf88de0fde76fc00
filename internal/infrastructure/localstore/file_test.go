package localstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mzansishield/internal/config"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	payload := []byte(`{"version":1,"reports":[]}`)
	if err := store.Save(ctx, KeyReports, payload); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, KeyReports)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Load = %q, want %q", got, payload)
	}
}

func TestFileStoreMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if _, err := store.Load(context.Background(), KeyHistory); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreOverwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	store.Save(ctx, KeyReports, []byte("old"))
	store.Save(ctx, KeyReports, []byte("new"))

	got, err := store.Load(ctx, KeyReports)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("Load = %q, want %q", got, "new")
	}
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	store.Save(ctx, KeyReports, []byte("data"))
	if err := store.Delete(ctx, KeyReports); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, KeyReports); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after Delete, got %v", err)
	}

	// Deleting a missing key is not an error
	if err := store.Delete(ctx, KeyReports); err != nil {
		t.Errorf("Delete of missing key failed: %v", err)
	}
}

func TestFileStoreFilenames(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	store.Save(context.Background(), KeyReports, []byte("{}"))

	// Namespace separators must not leak into filenames
	if _, err := os.Stat(filepath.Join(dir, "mzansishield_reports.json")); err != nil {
		t.Errorf("expected snapshot file on disk: %v", err)
	}
}

func TestNewSelectsDriver(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		driver string
		desc   string
	}{
		{"file", "file driver"},
		{"memory", "memory driver"},
		{"", "empty driver defaults to file"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			store, err := New(config.StorageConfig{Driver: tc.driver, Dir: dir})
			if err != nil {
				t.Fatalf("New(%q) failed: %v", tc.driver, err)
			}
			defer store.Close()

			if err := store.Ping(context.Background()); err != nil {
				t.Errorf("Ping failed: %v", err)
			}
		})
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	if _, err := New(config.StorageConfig{Driver: "etcd"}); err == nil {
		t.Error("expected an error for an unknown driver")
	}
}
