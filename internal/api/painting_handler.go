package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/woklearn/woklearn-api/internal/api/shared"
	"github.com/woklearn/woklearn-api/internal/domain"
	"github.com/woklearn/woklearn-api/internal/store"
)

// PaintingHandler handles the catalog API requests. Reads are open to any
// authenticated user; writes are restricted to administrators at the router.
type PaintingHandler struct {
	paintingStore store.PaintingStore
	validator     *validator.Validate
}

// NewPaintingHandler creates a new PaintingHandler with the given dependencies.
func NewPaintingHandler(paintingStore store.PaintingStore) *PaintingHandler {
	return &PaintingHandler{
		paintingStore: paintingStore,
		validator:     validator.New(),
	}
}

// Create handles POST /api/paintings.
func (h *PaintingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PaintingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	painting, err := domain.NewPainting(req.Author, req.Style, req.FileName)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid painting data")
		return
	}

	if err := h.paintingStore.Create(r.Context(), painting); err != nil {
		h.respondWithStoreError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewPaintingResponse(painting))
}

// Get handles GET /api/paintings/{id}.
func (h *PaintingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Malformed painting id")
		return
	}

	painting, err := h.paintingStore.GetByID(r.Context(), id)
	if err != nil {
		h.respondWithStoreError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewPaintingResponse(painting))
}

// List handles GET /api/paintings. Query parameters: author and style narrow
// the listing, page and size paginate it, and random=true returns a single
// uniformly chosen entry.
func (h *PaintingHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.PaintingFilter{
		Author: query.Get("author"),
		Style:  query.Get("style"),
		Random: query.Get("random") == "true",
	}

	var err error
	if filter.Page, err = parseQueryInt(query.Get("page")); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid page parameter")
		return
	}
	if filter.PageSize, err = parseQueryInt(query.Get("size")); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid size parameter")
		return
	}

	paintings, err := h.paintingStore.List(r.Context(), filter)
	if err != nil {
		h.respondWithStoreError(w, r, err)
		return
	}

	responses := make([]PaintingResponse, 0, len(paintings))
	for i := range paintings {
		responses = append(responses, NewPaintingResponse(&paintings[i]))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Update handles PUT /api/paintings/{id}.
func (h *PaintingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Malformed painting id")
		return
	}

	var req PaintingRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	painting, err := h.paintingStore.GetByID(r.Context(), id)
	if err != nil {
		h.respondWithStoreError(w, r, err)
		return
	}

	painting.Author = req.Author
	painting.Style = req.Style
	painting.FileName = req.FileName
	if err := h.paintingStore.Update(r.Context(), painting); err != nil {
		h.respondWithStoreError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewPaintingResponse(painting))
}

// Delete handles DELETE /api/paintings/{id}.
func (h *PaintingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Malformed painting id")
		return
	}

	if err := h.paintingStore.Delete(r.Context(), id); err != nil {
		h.respondWithStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Styles handles GET /api/paintings/styles with an optional author filter.
func (h *PaintingHandler) Styles(w http.ResponseWriter, r *http.Request) {
	styles, err := h.paintingStore.Styles(r.Context(), r.URL.Query().Get("author"))
	if err != nil {
		h.respondWithStoreError(w, r, err)
		return
	}
	if styles == nil {
		styles = []string{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, styles)
}

// Authors handles GET /api/paintings/authors with an optional style filter.
func (h *PaintingHandler) Authors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.paintingStore.Authors(r.Context(), r.URL.Query().Get("style"))
	if err != nil {
		h.respondWithStoreError(w, r, err)
		return
	}
	if authors == nil {
		authors = []string{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, authors)
}

func (h *PaintingHandler) respondWithStoreError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// parseQueryInt parses an optional non-negative integer query parameter.
func parseQueryInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid integer parameter %q", value)
	}
	return n, nil
}
