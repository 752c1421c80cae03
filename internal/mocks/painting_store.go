package mocks

import (
	"context"
	"database/sql"
	"math/rand"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/woklearn/woklearn-api/internal/domain"
	"github.com/woklearn/woklearn-api/internal/store"
)

// MemoryPaintingStore is a thread-safe in-memory store.PaintingStore.
type MemoryPaintingStore struct {
	mu        sync.Mutex
	paintings map[uuid.UUID]domain.Painting
}

// NewMemoryPaintingStore creates an empty in-memory painting store.
func NewMemoryPaintingStore() *MemoryPaintingStore {
	return &MemoryPaintingStore{
		paintings: make(map[uuid.UUID]domain.Painting),
	}
}

// Ensure MemoryPaintingStore implements store.PaintingStore
var _ store.PaintingStore = (*MemoryPaintingStore)(nil)

// Create implements store.PaintingStore.Create.
func (s *MemoryPaintingStore) Create(ctx context.Context, painting *domain.Painting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.paintings {
		if existing.Author == painting.Author &&
			existing.Style == painting.Style &&
			existing.FileName == painting.FileName {
			return store.ErrPaintingExists
		}
	}
	s.paintings[painting.ID] = *painting
	return nil
}

// GetByID implements store.PaintingStore.GetByID.
func (s *MemoryPaintingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Painting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	painting, ok := s.paintings[id]
	if !ok {
		return nil, store.ErrPaintingNotFound
	}
	return &painting, nil
}

// List implements store.PaintingStore.List.
func (s *MemoryPaintingStore) List(ctx context.Context, filter store.PaintingFilter) ([]domain.Painting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]domain.Painting, 0, len(s.paintings))
	for _, painting := range s.paintings {
		if filter.Author != "" && painting.Author != filter.Author {
			continue
		}
		if filter.Style != "" && painting.Style != filter.Style {
			continue
		}
		result = append(result, painting)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	if filter.Random {
		if len(result) == 0 {
			return result, nil
		}
		return []domain.Painting{result[rand.Intn(len(result))]}, nil
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filter.PageSize
		if start >= len(result) {
			return []domain.Painting{}, nil
		}
		end := start + filter.PageSize
		if end > len(result) {
			end = len(result)
		}
		result = result[start:end]
	}

	return result, nil
}

// Update implements store.PaintingStore.Update.
func (s *MemoryPaintingStore) Update(ctx context.Context, painting *domain.Painting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.paintings[painting.ID]; !ok {
		return store.ErrPaintingNotFound
	}
	s.paintings[painting.ID] = *painting
	return nil
}

// Delete implements store.PaintingStore.Delete.
func (s *MemoryPaintingStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.paintings[id]; !ok {
		return store.ErrPaintingNotFound
	}
	delete(s.paintings, id)
	return nil
}

// Styles implements store.PaintingStore.Styles.
func (s *MemoryPaintingStore) Styles(ctx context.Context, author string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]bool{}
	var styles []string
	for _, painting := range s.paintings {
		if author != "" && painting.Author != author {
			continue
		}
		if !seen[painting.Style] {
			seen[painting.Style] = true
			styles = append(styles, painting.Style)
		}
	}
	sort.Strings(styles)
	return styles, nil
}

// Authors implements store.PaintingStore.Authors.
func (s *MemoryPaintingStore) Authors(ctx context.Context, style string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]bool{}
	var authors []string
	for _, painting := range s.paintings {
		if style != "" && painting.Style != style {
			continue
		}
		if !seen[painting.Author] {
			seen[painting.Author] = true
			authors = append(authors, painting.Author)
		}
	}
	sort.Strings(authors)
	return authors, nil
}

// WithTx implements store.PaintingStore.WithTx. The in-memory store has no
// transactions; it returns itself.
func (s *MemoryPaintingStore) WithTx(tx *sql.Tx) store.PaintingStore {
	return s
}
