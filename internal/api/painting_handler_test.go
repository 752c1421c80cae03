package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woklearn/woklearn-api/internal/api"
	"github.com/woklearn/woklearn-api/internal/domain"
	"github.com/woklearn/woklearn-api/internal/mocks"
	"github.com/woklearn/woklearn-api/internal/store"
)

func newPaintingHandler(t *testing.T) (*api.PaintingHandler, *mocks.MemoryPaintingStore) {
	t.Helper()

	paintings := mocks.NewMemoryPaintingStore()
	return api.NewPaintingHandler(paintings), paintings
}

func seedPainting(t *testing.T, paintings *mocks.MemoryPaintingStore, author, style, fileName string) *domain.Painting {
	t.Helper()

	painting, err := domain.NewPainting(author, style, fileName)
	require.NoError(t, err)
	require.NoError(t, paintings.Create(context.Background(), painting))
	return painting
}

func TestPaintingCreate(t *testing.T) {
	t.Parallel()

	handler, paintings := newPaintingHandler(t)

	req := jsonRequest(t, http.MethodPost, "/api/paintings", api.PaintingRequest{
		Author:   "Vermeer",
		Style:    "Baroque",
		FileName: "pearl-earring.jpg",
	})
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp api.PaintingResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Vermeer", resp.Author)
	assert.NotEqual(t, uuid.Nil, resp.ID)

	stored, err := paintings.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "pearl-earring.jpg", stored.FileName)
}

func TestPaintingCreate_Failures(t *testing.T) {
	t.Parallel()

	handler, paintings := newPaintingHandler(t)
	seedPainting(t, paintings, "Vermeer", "Baroque", "milkmaid.jpg")

	cases := []struct {
		name string
		req  api.PaintingRequest
	}{
		{"duplicate entry", api.PaintingRequest{Author: "Vermeer", Style: "Baroque", FileName: "milkmaid.jpg"}},
		{"missing author", api.PaintingRequest{Style: "Baroque", FileName: "astronomer.jpg"}},
		{"missing filename", api.PaintingRequest{Author: "Vermeer", Style: "Baroque"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			handler.Create(rec, jsonRequest(t, http.MethodPost, "/api/paintings", tc.req))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPaintingGet(t *testing.T) {
	t.Parallel()

	handler, paintings := newPaintingHandler(t)
	painting := seedPainting(t, paintings, "Goya", "Romanticism", "third-of-may.jpg")

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/paintings/"+painting.ID.String(), nil),
		"id", painting.ID.String())
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.PaintingResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, painting.ID, resp.ID)
	assert.Equal(t, "Romanticism", resp.Style)
}

func TestPaintingGet_Failures(t *testing.T) {
	t.Parallel()

	handler, _ := newPaintingHandler(t)

	t.Run("malformed id", func(t *testing.T) {
		t.Parallel()
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/paintings/xyz", nil), "id", "xyz")
		rec := httptest.NewRecorder()
		handler.Get(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		missing := uuid.NewString()
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/paintings/"+missing, nil), "id", missing)
		rec := httptest.NewRecorder()
		handler.Get(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Painting not found")
	})
}

func TestPaintingList_Filters(t *testing.T) {
	t.Parallel()

	handler, paintings := newPaintingHandler(t)
	seedPainting(t, paintings, "Monet", "Impressionism", "sunrise.jpg")
	seedPainting(t, paintings, "Monet", "Impressionism", "poppies.jpg")
	seedPainting(t, paintings, "Goya", "Romanticism", "third-of-may.jpg")

	cases := []struct {
		name   string
		target string
		want   int
	}{
		{"no filter", "/api/paintings", 3},
		{"by author", "/api/paintings?author=Monet", 2},
		{"by style", "/api/paintings?style=Romanticism", 1},
		{"author and style", "/api/paintings?author=Monet&style=Romanticism", 0},
		{"first page", "/api/paintings?page=1&size=2", 2},
		{"second page", "/api/paintings?page=2&size=2", 1},
		{"page past the end", "/api/paintings?page=5&size=2", 0},
		{"random pick", "/api/paintings?random=true", 1},
		{"random respects filter", "/api/paintings?random=true&style=Romanticism", 1},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			handler.List(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))

			require.Equal(t, http.StatusOK, rec.Code)

			var resp []api.PaintingResponse
			decodeBody(t, rec, &resp)
			assert.Len(t, resp, tc.want)
		})
	}
}

func TestPaintingList_BadPagination(t *testing.T) {
	t.Parallel()

	handler, _ := newPaintingHandler(t)

	for _, target := range []string{
		"/api/paintings?page=abc",
		"/api/paintings?size=-1",
	} {
		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestPaintingUpdate(t *testing.T) {
	t.Parallel()

	handler, paintings := newPaintingHandler(t)
	painting := seedPainting(t, paintings, "Monet", "Impressionism", "sunrise.jpg")

	req := jsonRequest(t, http.MethodPut, "/api/paintings/"+painting.ID.String(), api.PaintingRequest{
		Author:   "Claude Monet",
		Style:    "Impressionism",
		FileName: "impression-sunrise.jpg",
	})
	req = withURLParam(req, "id", painting.ID.String())
	rec := httptest.NewRecorder()
	handler.Update(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := paintings.GetByID(context.Background(), painting.ID)
	require.NoError(t, err)
	assert.Equal(t, "Claude Monet", stored.Author)
	assert.Equal(t, "impression-sunrise.jpg", stored.FileName)
}

func TestPaintingDelete(t *testing.T) {
	t.Parallel()

	handler, paintings := newPaintingHandler(t)
	painting := seedPainting(t, paintings, "Goya", "Romanticism", "saturn.jpg")

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/paintings/"+painting.ID.String(), nil),
		"id", painting.ID.String())
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := paintings.GetByID(context.Background(), painting.ID)
	assert.ErrorIs(t, err, store.ErrPaintingNotFound)
}

func TestPaintingStylesAndAuthors(t *testing.T) {
	t.Parallel()

	handler, paintings := newPaintingHandler(t)
	seedPainting(t, paintings, "Monet", "Impressionism", "sunrise.jpg")
	seedPainting(t, paintings, "Degas", "Impressionism", "dancers.jpg")
	seedPainting(t, paintings, "Goya", "Romanticism", "third-of-may.jpg")

	t.Run("styles", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		handler.Styles(rec, httptest.NewRequest(http.MethodGet, "/api/paintings/styles", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var styles []string
		decodeBody(t, rec, &styles)
		assert.ElementsMatch(t, []string{"Impressionism", "Romanticism"}, styles)
	})

	t.Run("styles filtered by author", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		handler.Styles(rec, httptest.NewRequest(http.MethodGet, "/api/paintings/styles?author=Goya", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var styles []string
		decodeBody(t, rec, &styles)
		assert.Equal(t, []string{"Romanticism"}, styles)
	})

	t.Run("authors filtered by style", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		handler.Authors(rec, httptest.NewRequest(http.MethodGet, "/api/paintings/authors?style=Impressionism", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var authors []string
		decodeBody(t, rec, &authors)
		assert.ElementsMatch(t, []string{"Monet", "Degas"}, authors)
	})
}

func TestPaintingEmptyCollections(t *testing.T) {
	t.Parallel()

	handler, _ := newPaintingHandler(t)

	rec := httptest.NewRecorder()
	handler.Styles(rec, httptest.NewRequest(http.MethodGet, "/api/paintings/styles", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
