package progress

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/woklearn/woklearn-api/internal/domain"
	"github.com/woklearn/woklearn-api/internal/domain/picker"
	"github.com/woklearn/woklearn-api/internal/platform/logger"
	"github.com/woklearn/woklearn-api/internal/store"
)

// trackerService is the standard implementation of Service.
type trackerService struct {
	userStore     store.UserStore
	paintingStore store.PaintingStore
	picker        picker.Service
}

// Ensure trackerService implements Service interface
var _ Service = (*trackerService)(nil)

// NewService creates a progress tracker backed by the given stores and
// selection engine.
func NewService(
	userStore store.UserStore,
	paintingStore store.PaintingStore,
	pickerService picker.Service,
) (Service, error) {
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if paintingStore == nil {
		return nil, fmt.Errorf("paintingStore cannot be nil")
	}
	if pickerService == nil {
		return nil, fmt.Errorf("pickerService cannot be nil")
	}

	return &trackerService{
		userStore:     userStore,
		paintingStore: paintingStore,
		picker:        pickerService,
	}, nil
}

// resolvePainting parses and resolves a painting ID against the catalog. Both
// an unknown and an ambiguous ID abort the operation before any write.
func (s *trackerService) resolvePainting(ctx context.Context, paintingID string) (uuid.UUID, error) {
	id, err := uuid.Parse(paintingID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed painting id %q", domain.ErrInvalidID, paintingID)
	}
	if _, err := s.paintingStore.GetByID(ctx, id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// RecordCorrectAnswer implements Service.RecordCorrectAnswer.
func (s *trackerService) RecordCorrectAnswer(ctx context.Context, userID uuid.UUID, paintingID string) (int, error) {
	log := logger.FromContext(ctx)

	id, err := s.resolvePainting(ctx, paintingID)
	if err != nil {
		return 0, err
	}

	count, err := s.userStore.IncrementProgress(ctx, userID, id.String())
	if err != nil {
		return 0, fmt.Errorf("failed to record answer: %w", err)
	}

	log.Debug("correct answer recorded",
		"user_id", userID,
		"painting_id", id,
		"count", count)
	return count, nil
}

// GetGuessCount implements Service.GetGuessCount. The id is taken as-is,
// with no catalog lookup: reading any key tracks it at zero, so the read has
// no failure mode beyond an unknown user.
func (s *trackerService) GetGuessCount(ctx context.Context, userID uuid.UUID, paintingID string) (int, error) {
	count, err := s.userStore.EnsureProgressEntry(ctx, userID, paintingID)
	if err != nil {
		return 0, fmt.Errorf("failed to read guess count: %w", err)
	}
	return count, nil
}

// CountMastered implements Service.CountMastered.
func (s *trackerService) CountMastered(ctx context.Context, userID uuid.UUID) (int, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load user: %w", err)
	}
	return user.MasteredCount(), nil
}

// ClearAll implements Service.ClearAll.
func (s *trackerService) ClearAll(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContext(ctx)

	if err := s.userStore.ClearProgress(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear progress: %w", err)
	}

	log.Info("learning progress cleared", "user_id", userID)
	return nil
}

// GetSkipLevel implements Service.GetSkipLevel.
func (s *trackerService) GetSkipLevel(ctx context.Context, userID uuid.UUID) (int, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load user: %w", err)
	}
	return user.SkipLevel, nil
}

// SetSkipLevel implements Service.SetSkipLevel.
func (s *trackerService) SetSkipLevel(ctx context.Context, userID uuid.UUID, level int) error {
	if level < 0 {
		return fmt.Errorf("%w: skip level cannot be negative", domain.ErrInvalidArgument)
	}

	if err := s.userStore.SetSkipLevel(ctx, userID, level); err != nil {
		return fmt.Errorf("failed to set skip level: %w", err)
	}
	return nil
}

// NextPainting implements Service.NextPainting.
func (s *trackerService) NextPainting(ctx context.Context, userID uuid.UUID) (*domain.Painting, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	catalog, err := s.paintingStore.List(ctx, store.PaintingFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	return s.picker.SelectNext(catalog, user.Progress, user.SkipLevel)
}
