package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPainting(t *testing.T) {
	t.Parallel()

	t.Run("valid painting", func(t *testing.T) {
		t.Parallel()
		painting, err := NewPainting("Hokusai", "Ukiyo-e", "great-wave.jpg")
		require.NoError(t, err)
		assert.Equal(t, "Hokusai", painting.Author)
		assert.Equal(t, "Ukiyo-e", painting.Style)
	})

	tests := []struct {
		name     string
		author   string
		style    string
		fileName string
		wantErr  error
	}{
		{"missing author", "", "Ukiyo-e", "wave.jpg", ErrEmptyAuthor},
		{"missing style", "Hokusai", "", "wave.jpg", ErrEmptyStyle},
		{"missing file name", "Hokusai", "Ukiyo-e", "", ErrEmptyFileName},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewPainting(tc.author, tc.style, tc.fileName)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}
