package services

import (
	"strings"

	"github.com/google/uuid"

	"mzansishield/internal/domain/models"
	"mzansishield/pkg/logger"
)

// Matcher decides whether two reported identifiers refer to the same
// scam. The predicate is deliberately permissive: catching variants of
// a scam URL matters more here than precision, since a related match
// only adds corroborating weight and never collapses records.
type Matcher struct {
	logger *logger.Logger
}

// NewMatcher creates a new Matcher
func NewMatcher(log *logger.Logger) *Matcher {
	return &Matcher{
		logger: log.WithComponent("matcher"),
	}
}

// Normalize lowercases the identifier and strips the URL scheme and a
// leading www. prefix so protocol and host decoration never defeat a
// match.
func (m *Matcher) Normalize(identifier string) string {
	s := strings.ToLower(strings.TrimSpace(identifier))
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "www.")
	return s
}

// IsSimilar reports whether a and b refer to the same scam: after
// normalization one must be a non-empty substring of the other. An
// empty identifier never matches anything.
func (m *Matcher) IsSimilar(a, b string) bool {
	na := m.Normalize(a)
	nb := m.Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// FindRelated returns the IDs of every stored report whose identifier
// is similar to the given one. Exact case-insensitive matches are the
// dedup path and are skipped here.
func (m *Matcher) FindRelated(identifier string, reports []*models.ScamReport) []uuid.UUID {
	related := make([]uuid.UUID, 0)
	for _, r := range reports {
		if strings.EqualFold(identifier, r.Identifier) {
			continue
		}
		if m.IsSimilar(identifier, r.Identifier) {
			related = append(related, r.ID)
		}
	}
	return related
}
