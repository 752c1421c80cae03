package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/woklearn/woklearn-api/internal/domain"
)

// PaintingFilter narrows List results. Zero values mean "no filter".
type PaintingFilter struct {
	Author string
	Style  string

	// Page and PageSize paginate the listing when PageSize > 0.
	// Page is 1-based; values below 1 read as the first page.
	Page     int
	PageSize int

	// Random returns a single uniformly chosen matching painting instead
	// of the ordered listing. Pagination is ignored when set.
	Random bool
}

// PaintingStore defines the interface for painting catalog persistence.
// The learning core only reads from it; the administrative surface also
// creates, updates and deletes entries.
type PaintingStore interface {
	// Create saves a new painting. Returns ErrPaintingExists when an entry
	// with the same author, style and file name is already present.
	Create(ctx context.Context, painting *domain.Painting) error

	// GetByID retrieves a painting by its unique ID.
	// Returns ErrPaintingNotFound if no painting matches, and
	// ErrAmbiguousMatch if more than one row matches the id. That is a
	// data-integrity failure and is surfaced, never resolved silently.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Painting, error)

	// List returns paintings matching the filter, ordered by creation time
	// unless the filter requests a random pick.
	List(ctx context.Context, filter PaintingFilter) ([]domain.Painting, error)

	// Update replaces an existing painting's metadata.
	// Returns ErrPaintingNotFound if the painting does not exist.
	Update(ctx context.Context, painting *domain.Painting) error

	// Delete removes a painting by its ID.
	// Returns ErrPaintingNotFound if the painting does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Styles returns the distinct styles in the catalog, optionally limited
	// to a single author.
	Styles(ctx context.Context, author string) ([]string, error)

	// Authors returns the distinct authors in the catalog, optionally
	// limited to a single style.
	Authors(ctx context.Context, style string) ([]string, error)

	// WithTx returns a PaintingStore bound to the provided transaction.
	WithTx(tx *sql.Tx) PaintingStore
}
