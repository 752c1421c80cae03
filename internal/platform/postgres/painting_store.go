package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/woklearn/woklearn-api/internal/domain"
	"github.com/woklearn/woklearn-api/internal/platform/logger"
	"github.com/woklearn/woklearn-api/internal/store"
)

// PostgresPaintingStore implements the store.PaintingStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPaintingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPaintingStore creates a new PostgreSQL implementation of the
// PaintingStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil,
// the default logger is used.
func NewPostgresPaintingStore(db store.DBTX, log *slog.Logger) *PostgresPaintingStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresPaintingStore{
		db:     db,
		logger: log.With(slog.String("component", "painting_store")),
	}
}

// Ensure PostgresPaintingStore implements store.PaintingStore interface
var _ store.PaintingStore = (*PostgresPaintingStore)(nil)

const paintingColumns = `id, author, style, file_name, created_at, updated_at`

func scanPainting(scanner interface{ Scan(dest ...any) error }) (*domain.Painting, error) {
	var painting domain.Painting
	err := scanner.Scan(
		&painting.ID,
		&painting.Author,
		&painting.Style,
		&painting.FileName,
		&painting.CreatedAt,
		&painting.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &painting, nil
}

// Create implements store.PaintingStore.Create
func (s *PostgresPaintingStore) Create(ctx context.Context, painting *domain.Painting) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := painting.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO paintings (id, author, style, file_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		painting.ID,
		painting.Author,
		painting.Style,
		painting.FileName,
		painting.CreatedAt,
		painting.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("painting creation failed: duplicate entry",
				"author", painting.Author,
				"style", painting.Style,
				"file_name", painting.FileName)
			return fmt.Errorf("%w: %v", store.ErrPaintingExists, err)
		}
		log.Error("failed to create painting", "error", err)
		return fmt.Errorf("failed to create painting: %w", MapError(err))
	}

	return nil
}

// GetByID implements store.PaintingStore.GetByID. A multi-row match on the
// primary key cannot normally happen; when it does it indicates corrupted
// data and is surfaced as ErrAmbiguousMatch rather than resolved silently.
func (s *PostgresPaintingStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Painting, error) {
	query := fmt.Sprintf(`SELECT %s FROM paintings WHERE id = $1`, paintingColumns)

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get painting by id: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var painting *domain.Painting
	for rows.Next() {
		if painting != nil {
			return nil, fmt.Errorf("%w: multiple paintings with id %s", store.ErrAmbiguousMatch, id)
		}
		painting, err = scanPainting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan painting row: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating painting rows: %w", err)
	}
	if painting == nil {
		return nil, fmt.Errorf("%w: id %s", store.ErrPaintingNotFound, id)
	}

	return painting, nil
}

// List implements store.PaintingStore.List
func (s *PostgresPaintingStore) List(ctx context.Context, filter store.PaintingFilter) ([]domain.Painting, error) {
	query := fmt.Sprintf(`SELECT %s FROM paintings`, paintingColumns)
	var args []any

	switch {
	case filter.Author != "" && filter.Style != "":
		query += ` WHERE author = $1 AND style = $2`
		args = []any{filter.Author, filter.Style}
	case filter.Author != "":
		query += ` WHERE author = $1`
		args = []any{filter.Author}
	case filter.Style != "":
		query += ` WHERE style = $1`
		args = []any{filter.Style}
	}

	switch {
	case filter.Random:
		query += ` ORDER BY random() LIMIT 1`
	case filter.PageSize > 0:
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(` ORDER BY created_at ASC LIMIT %d OFFSET %d`,
			filter.PageSize, (page-1)*filter.PageSize)
	default:
		query += ` ORDER BY created_at ASC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list paintings: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var paintings []domain.Painting
	for rows.Next() {
		painting, err := scanPainting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan painting row: %w", err)
		}
		paintings = append(paintings, *painting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating painting rows: %w", err)
	}

	return paintings, nil
}

// Update implements store.PaintingStore.Update
func (s *PostgresPaintingStore) Update(ctx context.Context, painting *domain.Painting) error {
	if err := painting.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE paintings
		SET author = $2, style = $3, file_name = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		painting.ID,
		painting.Author,
		painting.Style,
		painting.FileName,
		time.Now().UTC(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrPaintingExists, err)
		}
		return fmt.Errorf("failed to update painting: %w", MapError(err))
	}

	return s.checkPaintingAffected(result)
}

// Delete implements store.PaintingStore.Delete
func (s *PostgresPaintingStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM paintings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete painting: %w", MapError(err))
	}
	return s.checkPaintingAffected(result)
}

// Styles implements store.PaintingStore.Styles
func (s *PostgresPaintingStore) Styles(ctx context.Context, author string) ([]string, error) {
	query := `SELECT DISTINCT style FROM paintings`
	var args []any
	if author != "" {
		query += ` WHERE author = $1`
		args = []any{author}
	}
	query += ` ORDER BY style ASC`

	return s.queryStrings(ctx, query, args...)
}

// Authors implements store.PaintingStore.Authors
func (s *PostgresPaintingStore) Authors(ctx context.Context, style string) ([]string, error) {
	query := `SELECT DISTINCT author FROM paintings`
	var args []any
	if style != "" {
		query += ` WHERE style = $1`
		args = []any{style}
	}
	query += ` ORDER BY author ASC`

	return s.queryStrings(ctx, query, args...)
}

// WithTx implements store.PaintingStore.WithTx
func (s *PostgresPaintingStore) WithTx(tx *sql.Tx) store.PaintingStore {
	return &PostgresPaintingStore{
		db:     tx,
		logger: s.logger,
	}
}

// queryStrings runs a single-column string query.
func (s *PostgresPaintingStore) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog values: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan catalog value: %w", err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog values: %w", err)
	}

	return values, nil
}

// checkPaintingAffected converts a zero-rows-affected result into
// ErrPaintingNotFound.
func (s *PostgresPaintingStore) checkPaintingAffected(result sql.Result) error {
	if err := CheckRowsAffected(result, "painting"); err != nil {
		if store.IsNotFoundError(err) {
			return fmt.Errorf("%w: %v", store.ErrPaintingNotFound, err)
		}
		return err
	}
	return nil
}
