package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Painting
var (
	ErrEmptyPaintingID = errors.New("painting ID cannot be empty")
	ErrEmptyAuthor     = errors.New("painting author cannot be empty")
	ErrEmptyStyle      = errors.New("painting style cannot be empty")
	ErrEmptyFileName   = errors.New("painting file name cannot be empty")
)

// Painting is a catalog entry learners practice against. Only metadata is
// kept here; the image asset itself lives outside this service.
type Painting struct {
	ID        uuid.UUID `json:"id"`
	Author    string    `json:"author"`
	Style     string    `json:"style"`
	FileName  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPainting creates a new Painting with a fresh UUID.
// Returns an error if validation fails.
func NewPainting(author, style, fileName string) (*Painting, error) {
	now := time.Now().UTC()
	painting := &Painting{
		ID:        uuid.New(),
		Author:    author,
		Style:     style,
		FileName:  fileName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := painting.Validate(); err != nil {
		return nil, err
	}

	return painting, nil
}

// Validate checks if the Painting has valid data.
func (p *Painting) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyPaintingID
	}
	if p.Author == "" {
		return ErrEmptyAuthor
	}
	if p.Style == "" {
		return ErrEmptyStyle
	}
	if p.FileName == "" {
		return ErrEmptyFileName
	}
	return nil
}
