// Package progress implements the learning-progress tracker: per-user
// correct-answer counts, mastery thresholds and next-painting selection.
package progress

import (
	"context"

	"github.com/google/uuid"

	"github.com/woklearn/woklearn-api/internal/domain"
)

// Service defines the operations of the learning-progress tracker. The user
// is always the authenticated caller; handlers pass the user ID decoded from
// the bearer token.
type Service interface {
	// RecordCorrectAnswer increments the user's correct-answer count for the
	// painting and returns the new count. The painting ID must be a
	// well-formed UUID (domain.ErrInvalidID otherwise) and must identify
	// exactly one catalog entry (store.ErrPaintingNotFound or
	// store.ErrAmbiguousMatch otherwise). An untracked painting is inserted
	// at zero before the increment.
	RecordCorrectAnswer(ctx context.Context, userID uuid.UUID, paintingID string) (int, error)

	// GetGuessCount returns the user's correct-answer count for the painting.
	// An absent entry is persisted at zero as a side effect of the read, so
	// two consecutive calls observe the same stored state. The id is not
	// resolved against the catalog; any key can be read and becomes tracked.
	GetGuessCount(ctx context.Context, userID uuid.UUID, paintingID string) (int, error)

	// CountMastered returns the number of tracked paintings whose count has
	// reached the user's skip level.
	CountMastered(ctx context.Context, userID uuid.UUID) (int, error)

	// ClearAll resets the user's progress to an empty map. Mastery state and
	// counts are discarded; the skip level is untouched.
	ClearAll(ctx context.Context, userID uuid.UUID) error

	// GetSkipLevel returns the user's mastery threshold.
	GetSkipLevel(ctx context.Context, userID uuid.UUID) (int, error)

	// SetSkipLevel overwrites the user's mastery threshold.
	// Returns domain.ErrInvalidArgument for negative levels.
	SetSkipLevel(ctx context.Context, userID uuid.UUID, level int) error

	// NextPainting selects the painting the user should practice next,
	// excluding mastered ones. Returns picker.ErrAllLearned when the whole
	// catalog is mastered and picker.ErrEmptyCatalog when there is nothing
	// to learn from.
	NextPainting(ctx context.Context, userID uuid.UUID) (*domain.Painting, error)
}
