package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mzansishield/internal/domain/models"
	"mzansishield/internal/infrastructure/localstore"
	"mzansishield/pkg/logger"
)

// Validation and durability errors surfaced by the stores
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("report not found")

	// ErrNotPersisted signals that a mutation was applied in memory
	// but could not be made durable. The returned record is still
	// valid for the current session; callers surface a warning.
	ErrNotPersisted = errors.New("change not persisted")
)

// Identifiers shorter than this are rejected before any mutation
const minIdentifierLength = 3

// WritePublisher broadcasts the cross-view "a write happened" signal
type WritePublisher interface {
	PublishWrite(ctx context.Context)
}

// ReportStore owns the scam report collection. All access goes through
// a single mutex so two views submitting the same identifier
// back-to-back can never both read the pre-update record; the
// lost-update race of uncoordinated writers is resolved by ownership.
// State is mirrored to the local snapshot store on every mutation.
type ReportStore struct {
	matcher   *Matcher
	scorer    *Scorer
	store     localstore.Store
	publisher WritePublisher
	logger    *logger.Logger

	mu      sync.RWMutex
	reports []*models.ScamReport // most recent first
	version int64
}

// reportSnapshot is the persisted form of the collection
type reportSnapshot struct {
	Version int64                `json:"version"`
	Reports []*models.ScamReport `json:"reports"`
}

// NewReportStore creates an empty ReportStore
func NewReportStore(matcher *Matcher, scorer *Scorer, store localstore.Store, publisher WritePublisher, log *logger.Logger) *ReportStore {
	return &ReportStore{
		matcher:   matcher,
		scorer:    scorer,
		store:     store,
		publisher: publisher,
		logger:    log.WithComponent("report-store"),
		reports:   make([]*models.ScamReport, 0),
	}
}

// Load restores the collection from the snapshot store. A missing
// snapshot means first use and leaves the collection empty.
func (rs *ReportStore) Load(ctx context.Context) error {
	data, err := rs.store.Load(ctx, localstore.KeyReports)
	if errors.Is(err, localstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}

	var snap reportSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode reports snapshot: %w", err)
	}

	rs.mu.Lock()
	rs.reports = snap.Reports
	if rs.reports == nil {
		rs.reports = make([]*models.ScamReport, 0)
	}
	rs.version = snap.Version
	rs.mu.Unlock()

	rs.logger.Info().Int("count", len(snap.Reports)).Int64("version", snap.Version).Msg("loaded report collection")
	return nil
}

// Submit records a scam report. A submission whose identifier matches
// an existing record case-insensitively collapses into that record;
// otherwise a new record is created, linked to similar ones and
// scored. The returned record is valid even when err wraps
// ErrNotPersisted.
func (rs *ReportStore) Submit(ctx context.Context, req models.SubmitReportRequest) (*models.ScamReport, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if len(identifier) < minIdentifierLength {
		return nil, fmt.Errorf("%w: identifier must be at least %d characters", ErrInvalidInput, minIdentifierLength)
	}
	if req.Category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, req.Category)
	}
	language := req.Language
	if language == "" {
		language = models.LanguageEnglish
	}
	if !language.IsValid() {
		return nil, fmt.Errorf("%w: unknown language %q", ErrInvalidInput, language)
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	if existing := rs.findByIdentifierLocked(identifier); existing != nil {
		existing.ReportsCount++
		existing.ConfidenceScore = rs.scorer.ScoreForDuplicate(existing.ConfidenceScore)
		existing.AddRelated(rs.matcher.FindRelated(identifier, rs.reports))
		rs.scorer.ApplyAutoTransition(existing)

		err := rs.persistAndNotifyLocked(ctx)
		return cloneReport(existing), err
	}

	relatedIDs := rs.matcher.FindRelated(identifier, rs.reports)
	related := rs.byIDsLocked(relatedIDs)

	now := time.Now()
	report := &models.ScamReport{
		ID:               uuid.New(),
		Identifier:       identifier,
		Description:      strings.TrimSpace(req.Description),
		Category:         req.Category,
		Language:         language,
		CreatedAt:        now,
		ISODate:          now.Format("2006-01-02"),
		ReportsCount:     1,
		ConfidenceScore:  rs.scorer.ScoreForNewReport(related),
		Status:           models.ReportStatusPending,
		RelatedReportIDs: relatedIDs,
	}
	rs.scorer.ApplyAutoTransition(report)

	rs.reports = append([]*models.ScamReport{report}, rs.reports...)

	err := rs.persistAndNotifyLocked(ctx)
	return cloneReport(report), err
}

// Verify marks a record as confirmed: score 100, status verified, and
// the verification itself counts as one more corroborating report.
func (rs *ReportStore) Verify(ctx context.Context, id uuid.UUID) (*models.ScamReport, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	report := rs.findByIDLocked(id)
	if report == nil {
		return nil, ErrNotFound
	}

	report.ConfidenceScore = 100
	report.Status = models.ReportStatusVerified
	report.ReportsCount++

	err := rs.persistAndNotifyLocked(ctx)
	return cloneReport(report), err
}

// MarkFalsePositive rules a record out. The ruling is terminal: no
// later score can auto-transition the record back.
func (rs *ReportStore) MarkFalsePositive(ctx context.Context, id uuid.UUID) (*models.ScamReport, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	report := rs.findByIDLocked(id)
	if report == nil {
		return nil, ErrNotFound
	}

	report.Status = models.ReportStatusFalsePositive

	err := rs.persistAndNotifyLocked(ctx)
	return cloneReport(report), err
}

// Remove deletes exactly one record by id, preserving the order of
// the rest.
func (rs *ReportStore) Remove(ctx context.Context, id uuid.UUID) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	idx := -1
	for i, r := range rs.reports {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}

	rs.reports = append(rs.reports[:idx], rs.reports[idx+1:]...)
	return rs.persistAndNotifyLocked(ctx)
}

// Clear empties the collection
func (rs *ReportStore) Clear(ctx context.Context) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.reports = make([]*models.ScamReport, 0)
	return rs.persistAndNotifyLocked(ctx)
}

// List returns the collection, most recent first
func (rs *ReportStore) List() []*models.ScamReport {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	out := make([]*models.ScamReport, len(rs.reports))
	for i, r := range rs.reports {
		out[i] = cloneReport(r)
	}
	return out
}

// Get returns one record by id
func (rs *ReportStore) Get(id uuid.UUID) (*models.ScamReport, error) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	report := rs.findByIDLocked(id)
	if report == nil {
		return nil, ErrNotFound
	}
	return cloneReport(report), nil
}

// Stats recomputes the aggregate view from a full scan. O(n) per call,
// fine while the collection stays device-sized.
func (rs *ReportStore) Stats() models.ReportStats {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	stats := models.ReportStats{Total: len(rs.reports)}
	today := time.Now().Format("2006-01-02")

	for _, r := range rs.reports {
		if r.ISODate == today {
			stats.TodayCount++
		}
		if r.Status == models.ReportStatusVerified {
			stats.VerifiedCount++
		}
		stats.TotalReportsAcross += r.ReportsCount
	}

	if stats.Total > 0 {
		stats.VerificationRatePercent = stats.VerifiedCount * 100 / stats.Total
	}
	return stats
}

// persistAndNotifyLocked mirrors the collection to the snapshot store
// and broadcasts the write signal. The signal fires even when the save
// fails: the in-memory state did change and views must refresh to see
// it. Callers translate the returned ErrNotPersisted into a user
// warning.
func (rs *ReportStore) persistAndNotifyLocked(ctx context.Context) error {
	rs.version++
	snap := reportSnapshot{Version: rs.version, Reports: rs.reports}

	var saveErr error
	data, err := json.Marshal(snap)
	if err != nil {
		saveErr = err
	} else if err := rs.store.Save(ctx, localstore.KeyReports, data); err != nil {
		saveErr = err
	}

	if rs.publisher != nil {
		rs.publisher.PublishWrite(ctx)
	}

	if saveErr != nil {
		rs.logger.Error().Err(saveErr).Int64("version", rs.version).Msg("failed to persist report collection")
		return fmt.Errorf("%w: %w", ErrNotPersisted, saveErr)
	}
	return nil
}

func (rs *ReportStore) findByIdentifierLocked(identifier string) *models.ScamReport {
	for _, r := range rs.reports {
		if strings.EqualFold(r.Identifier, identifier) {
			return r
		}
	}
	return nil
}

func (rs *ReportStore) findByIDLocked(id uuid.UUID) *models.ScamReport {
	for _, r := range rs.reports {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (rs *ReportStore) byIDsLocked(ids []uuid.UUID) []*models.ScamReport {
	out := make([]*models.ScamReport, 0, len(ids))
	for _, id := range ids {
		if r := rs.findByIDLocked(id); r != nil {
			out = append(out, r)
		}
	}
	return out
}

func cloneReport(r *models.ScamReport) *models.ScamReport {
	cp := *r
	if r.RelatedReportIDs != nil {
		cp.RelatedReportIDs = make([]uuid.UUID, len(r.RelatedReportIDs))
		copy(cp.RelatedReportIDs, r.RelatedReportIDs)
	}
	return &cp
}
