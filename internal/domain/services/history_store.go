package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"mzansishield/internal/domain/models"
	"mzansishield/internal/infrastructure/localstore"
	"mzansishield/pkg/logger"
)

const (
	// maxHistoryEntries bounds the check history; the oldest entry
	// falls off when a sixth is recorded
	maxHistoryEntries = 5

	// previewMaxLen is measured in runes so multi-byte text is never
	// split mid-character
	previewMaxLen = 40
)

// CheckHistoryStore keeps the bounded, newest-first log of recent
// content checks. Unlike the report store, a failed persist here is
// logged and swallowed: history is a convenience, not a record.
type CheckHistoryStore struct {
	store  localstore.Store
	logger *logger.Logger

	mu      sync.RWMutex
	entries []models.CheckHistoryEntry // newest first
}

// NewCheckHistoryStore creates an empty CheckHistoryStore
func NewCheckHistoryStore(store localstore.Store, log *logger.Logger) *CheckHistoryStore {
	return &CheckHistoryStore{
		store:   store,
		logger:  log.WithComponent("check-history"),
		entries: make([]models.CheckHistoryEntry, 0, maxHistoryEntries),
	}
}

// Load restores history from the snapshot store, re-applying the size
// bound in case an older snapshot carried more entries.
func (hs *CheckHistoryStore) Load(ctx context.Context) error {
	data, err := hs.store.Load(ctx, localstore.KeyHistory)
	if errors.Is(err, localstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load check history: %w", err)
	}

	var entries []models.CheckHistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("decode check history: %w", err)
	}
	if len(entries) > maxHistoryEntries {
		entries = entries[:maxHistoryEntries]
	}

	hs.mu.Lock()
	hs.entries = entries
	hs.mu.Unlock()

	hs.logger.Info().Int("count", len(entries)).Msg("loaded check history")
	return nil
}

// Record prepends a history entry for a completed check. The raw
// input is truncated to a short preview; the full content is never
// stored.
func (hs *CheckHistoryStore) Record(ctx context.Context, input string, kind models.InputKind, result models.AnalysisResult) models.CheckHistoryEntry {
	entry := models.CheckHistoryEntry{
		ID:           uuid.New(),
		InputPreview: previewOf(input),
		InputKind:    kind,
		Result:       result,
		Timestamp:    time.Now(),
	}

	hs.mu.Lock()
	hs.entries = append([]models.CheckHistoryEntry{entry}, hs.entries...)
	if len(hs.entries) > maxHistoryEntries {
		hs.entries = hs.entries[:maxHistoryEntries]
	}
	hs.persistLocked(ctx)
	hs.mu.Unlock()

	return entry
}

// List returns the history, newest first
func (hs *CheckHistoryStore) List() []models.CheckHistoryEntry {
	hs.mu.RLock()
	defer hs.mu.RUnlock()

	out := make([]models.CheckHistoryEntry, len(hs.entries))
	copy(out, hs.entries)
	return out
}

// RemoveOne deletes a single entry by id, keeping the rest in order
func (hs *CheckHistoryStore) RemoveOne(ctx context.Context, id uuid.UUID) error {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	idx := -1
	for i, e := range hs.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}

	hs.entries = append(hs.entries[:idx], hs.entries[idx+1:]...)
	hs.persistLocked(ctx)
	return nil
}

// Clear empties the history
func (hs *CheckHistoryStore) Clear(ctx context.Context) {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	hs.entries = make([]models.CheckHistoryEntry, 0, maxHistoryEntries)
	hs.persistLocked(ctx)
}

func (hs *CheckHistoryStore) persistLocked(ctx context.Context) {
	data, err := json.Marshal(hs.entries)
	if err == nil {
		err = hs.store.Save(ctx, localstore.KeyHistory, data)
	}
	if err != nil {
		hs.logger.Warn().Err(err).Msg("failed to persist check history")
	}
}

// previewOf truncates input to previewMaxLen runes, appending an
// ellipsis marker when anything was cut.
func previewOf(input string) string {
	runes := []rune(input)
	if len(runes) <= previewMaxLen {
		return input
	}
	return string(runes[:previewMaxLen]) + "..."
}
