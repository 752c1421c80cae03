// Package picker implements the adaptive item-selection algorithm that
// decides which painting a learner should practice next.
package picker

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/woklearn/woklearn-api/internal/domain"
)

// Common errors
var (
	// ErrAllLearned signals that every painting in the catalog has been
	// mastered by the user. It is a terminal state rather than a fault:
	// no further practice is possible until progress is cleared or the
	// catalog grows.
	ErrAllLearned = errors.New("all paintings have been learned")

	// ErrEmptyCatalog is returned when selection is attempted against an
	// empty catalog.
	ErrEmptyCatalog = errors.New("painting catalog is empty")
)

// Service defines the interface for next-painting selection.
type Service interface {
	// SelectNext picks the next painting to present to a user, excluding
	// paintings whose correct-answer count has reached skipLevel.
	// A painting absent from progress counts as never attempted (zero).
	// Returns ErrAllLearned when no eligible painting remains and
	// ErrEmptyCatalog when the catalog has no entries at all.
	SelectNext(catalog []domain.Painting, progress map[string]int, skipLevel int) (*domain.Painting, error)
}

// defaultService is the standard implementation of the Service interface.
// It shuffles the catalog once per call and scans for the first eligible
// painting; a single pass bounds the work even when most of the catalog is
// already mastered.
type defaultService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDefaultService creates a selection service seeded from the clock.
func NewDefaultService() Service {
	return &defaultService{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewServiceWithSource creates a selection service with a caller-provided
// random source, used by tests for deterministic permutations.
func NewServiceWithSource(src rand.Source) Service {
	return &defaultService{
		rng: rand.New(src),
	}
}

// SelectNext implements the Service interface.
func (s *defaultService) SelectNext(
	catalog []domain.Painting,
	progress map[string]int,
	skipLevel int,
) (*domain.Painting, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}

	// Fast-path exhaustion check: every catalog entry already tracked and
	// mastered, and the catalog has not outgrown the progress map.
	if allLearned(catalog, progress, skipLevel) {
		return nil, ErrAllLearned
	}

	// One uniform Fisher-Yates shuffle over a copy, then a linear scan for
	// the first eligible painting. The shared source needs the lock because
	// the engine serves concurrent requests.
	shuffled := make([]domain.Painting, len(catalog))
	copy(shuffled, catalog)

	s.mu.Lock()
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	s.mu.Unlock()

	for i := range shuffled {
		if progress[shuffled[i].ID.String()] < skipLevel {
			return &shuffled[i], nil
		}
	}

	// Reachable when skipLevel is zero: untracked paintings are mastered at
	// count zero without appearing in progress, so the fast path above can
	// miss them. The scan inspected every painting, so retrying another
	// shuffle would never succeed either.
	return nil, ErrAllLearned
}

// allLearned reports whether every catalog entry is present in progress with
// a count at or above skipLevel, and the catalog is no larger than the
// progress map.
func allLearned(catalog []domain.Painting, progress map[string]int, skipLevel int) bool {
	if len(catalog) > len(progress) {
		return false
	}
	for i := range catalog {
		count, tracked := progress[catalog[i].ID.String()]
		if !tracked || count < skipLevel {
			return false
		}
	}
	return true
}
