package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"mzansishield/internal/domain/models"
	"mzansishield/internal/infrastructure/localstore"
	"mzansishield/pkg/logger"
)

func newTestHistoryStore(store localstore.Store) *CheckHistoryStore {
	return NewCheckHistoryStore(store, logger.Nop())
}

func warningResult() models.AnalysisResult {
	return models.AnalysisResult{
		Status:    models.VerdictWarning,
		RiskLevel: 5,
		Summary:   "looks suspicious",
	}
}

func TestRecordKeepsNewestFirst(t *testing.T) {
	hs := newTestHistoryStore(localstore.NewMemoryStore())
	ctx := context.Background()

	hs.Record(ctx, "first input", models.InputKindText, warningResult())
	hs.Record(ctx, "second input", models.InputKindText, warningResult())

	entries := hs.List()
	if len(entries) != 2 {
		t.Fatalf("history size = %d, want 2", len(entries))
	}
	if entries[0].InputPreview != "second input" {
		t.Errorf("newest entry = %q, want %q", entries[0].InputPreview, "second input")
	}
}

func TestRecordEnforcesBound(t *testing.T) {
	hs := newTestHistoryStore(localstore.NewMemoryStore())
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		hs.Record(ctx, fmt.Sprintf("input %d", i), models.InputKindText, warningResult())
	}

	entries := hs.List()
	if len(entries) != maxHistoryEntries {
		t.Fatalf("history size = %d, want %d", len(entries), maxHistoryEntries)
	}
	if entries[0].InputPreview != "input 7" {
		t.Errorf("newest entry = %q, want %q", entries[0].InputPreview, "input 7")
	}
	if entries[len(entries)-1].InputPreview != "input 3" {
		t.Errorf("oldest entry = %q, want %q", entries[len(entries)-1].InputPreview, "input 3")
	}
}

func TestRecordTruncatesPreview(t *testing.T) {
	hs := newTestHistoryStore(localstore.NewMemoryStore())
	ctx := context.Background()

	long := strings.Repeat("a", 60)
	entry := hs.Record(ctx, long, models.InputKindText, warningResult())

	want := strings.Repeat("a", previewMaxLen) + "..."
	if entry.InputPreview != want {
		t.Errorf("preview = %q, want %q", entry.InputPreview, want)
	}
}

func TestRecordPreviewCountsRunes(t *testing.T) {
	hs := newTestHistoryStore(localstore.NewMemoryStore())
	ctx := context.Background()

	// 41 multi-byte runes must truncate to 40 without splitting one
	input := strings.Repeat("ü", previewMaxLen+1)
	entry := hs.Record(ctx, input, models.InputKindText, warningResult())

	want := strings.Repeat("ü", previewMaxLen) + "..."
	if entry.InputPreview != want {
		t.Errorf("preview = %q, want %q", entry.InputPreview, want)
	}
}

func TestRecordShortInputUntouched(t *testing.T) {
	hs := newTestHistoryStore(localstore.NewMemoryStore())

	entry := hs.Record(context.Background(), "short", models.InputKindText, warningResult())
	if entry.InputPreview != "short" {
		t.Errorf("preview = %q, want %q", entry.InputPreview, "short")
	}
}

func TestRemoveOne(t *testing.T) {
	hs := newTestHistoryStore(localstore.NewMemoryStore())
	ctx := context.Background()

	hs.Record(ctx, "first", models.InputKindText, warningResult())
	target := hs.Record(ctx, "second", models.InputKindText, warningResult())
	hs.Record(ctx, "third", models.InputKindText, warningResult())

	if err := hs.RemoveOne(ctx, target.ID); err != nil {
		t.Fatalf("RemoveOne failed: %v", err)
	}

	entries := hs.List()
	if len(entries) != 2 {
		t.Fatalf("history size = %d, want 2", len(entries))
	}
	if entries[0].InputPreview != "third" || entries[1].InputPreview != "first" {
		t.Errorf("order not preserved after RemoveOne: %q, %q", entries[0].InputPreview, entries[1].InputPreview)
	}

	if err := hs.RemoveOne(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestClearHistory(t *testing.T) {
	hs := newTestHistoryStore(localstore.NewMemoryStore())
	ctx := context.Background()

	hs.Record(ctx, "input", models.InputKindText, warningResult())
	hs.Clear(ctx)

	if got := len(hs.List()); got != 0 {
		t.Errorf("history size after Clear = %d, want 0", got)
	}
}

func TestRecordSwallowsPersistenceFailure(t *testing.T) {
	store := localstore.NewMemoryStore()
	store.FailSaves = true
	hs := newTestHistoryStore(store)

	entry := hs.Record(context.Background(), "input", models.InputKindText, warningResult())
	if entry.ID == uuid.Nil {
		t.Fatal("expected a recorded entry despite persistence failure")
	}
	if got := len(hs.List()); got != 1 {
		t.Errorf("history size = %d, want 1", got)
	}
}

func TestHistoryLoadReappliesBound(t *testing.T) {
	store := localstore.NewMemoryStore()
	ctx := context.Background()

	hs := newTestHistoryStore(store)
	for i := 0; i < maxHistoryEntries; i++ {
		hs.Record(ctx, fmt.Sprintf("input %d", i), models.InputKindText, warningResult())
	}

	restored := newTestHistoryStore(store)
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := len(restored.List()); got != maxHistoryEntries {
		t.Errorf("restored history size = %d, want %d", got, maxHistoryEntries)
	}
}
