package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/woklearn/woklearn-api/internal/domain"
	"github.com/woklearn/woklearn-api/internal/store"
)

// MemoryUserStore is a thread-safe in-memory store.UserStore.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

// NewMemoryUserStore creates an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users: make(map[uuid.UUID]*domain.User),
	}
}

// Ensure MemoryUserStore implements store.UserStore
var _ store.UserStore = (*MemoryUserStore)(nil)

// clone copies a user so callers never share map references with the store.
func clone(u *domain.User) *domain.User {
	cp := *u
	cp.Roles = append([]string(nil), u.Roles...)
	cp.Progress = make(map[string]int, len(u.Progress))
	for k, v := range u.Progress {
		cp.Progress[k] = v
	}
	return &cp
}

// Create implements store.UserStore.Create.
func (s *MemoryUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	s.users[user.ID] = clone(user)
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *MemoryUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return clone(user), nil
}

// GetByUsername implements store.UserStore.GetByUsername.
func (s *MemoryUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found *domain.User
	for _, user := range s.users {
		if user.Username == username {
			if found != nil {
				return nil, store.ErrAmbiguousMatch
			}
			found = user
		}
	}
	if found == nil {
		return nil, store.ErrUserNotFound
	}
	return clone(found), nil
}

// Update implements store.UserStore.Update.
func (s *MemoryUserStore) Update(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	for id, existing := range s.users {
		if id != user.ID && existing.Username == user.Username {
			return store.ErrUsernameExists
		}
	}

	updated := clone(user)
	// Progress and skip level are owned by the dedicated operations.
	updated.Progress = current.Progress
	updated.SkipLevel = current.SkipLevel
	s.users[user.ID] = updated
	return nil
}

// Delete implements store.UserStore.Delete.
func (s *MemoryUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// List implements store.UserStore.List.
func (s *MemoryUserStore) List(ctx context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*domain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, clone(user))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// RecordFailedLogin implements store.UserStore.RecordFailedLogin.
func (s *MemoryUserStore) RecordFailedLogin(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.FailedLoginAttempts++
	return nil
}

// IncrementProgress implements store.UserStore.IncrementProgress.
func (s *MemoryUserStore) IncrementProgress(ctx context.Context, id uuid.UUID, paintingID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return 0, store.ErrUserNotFound
	}
	if user.Progress == nil {
		user.Progress = make(map[string]int)
	}
	user.Progress[paintingID]++
	return user.Progress[paintingID], nil
}

// EnsureProgressEntry implements store.UserStore.EnsureProgressEntry.
func (s *MemoryUserStore) EnsureProgressEntry(ctx context.Context, id uuid.UUID, paintingID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return 0, store.ErrUserNotFound
	}
	if user.Progress == nil {
		user.Progress = make(map[string]int)
	}
	if _, tracked := user.Progress[paintingID]; !tracked {
		user.Progress[paintingID] = 0
	}
	return user.Progress[paintingID], nil
}

// ClearProgress implements store.UserStore.ClearProgress.
func (s *MemoryUserStore) ClearProgress(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.Progress = make(map[string]int)
	return nil
}

// SetSkipLevel implements store.UserStore.SetSkipLevel.
func (s *MemoryUserStore) SetSkipLevel(ctx context.Context, id uuid.UUID, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.SkipLevel = level
	return nil
}

// WithTx implements store.UserStore.WithTx. The in-memory store has no
// transactions; it returns itself.
func (s *MemoryUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return s
}
