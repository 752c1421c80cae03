package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/woklearn/woklearn-api/internal/api/middleware"
	"github.com/woklearn/woklearn-api/internal/api/shared"
	"github.com/woklearn/woklearn-api/internal/service/progress"
)

// LearningHandler handles the learning-progress API requests. Every endpoint
// operates on the authenticated caller's own progress.
type LearningHandler struct {
	progressService progress.Service
	validator       *validator.Validate
}

// NewLearningHandler creates a new LearningHandler with the given dependencies.
func NewLearningHandler(progressService progress.Service) *LearningHandler {
	return &LearningHandler{
		progressService: progressService,
		validator:       validator.New(),
	}
}

// Answer handles POST /api/learning/answer: records one correct answer for
// the given painting and returns the updated count.
func (h *LearningHandler) Answer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	count, err := h.progressService.RecordCorrectAnswer(r.Context(), userID, req.PaintingID)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GuessCountResponse{
		PaintingID: req.PaintingID,
		Count:      count,
	})
}

// GuessCount handles GET /api/learning/guesses/{paintingID}. Reading an
// untracked painting persists a zero entry before returning it.
func (h *LearningHandler) GuessCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	paintingID := chi.URLParam(r, "paintingID")
	count, err := h.progressService.GetGuessCount(r.Context(), userID, paintingID)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	// Bare integer on the wire, as with the other progress reads.
	shared.RespondWithJSON(w, r, http.StatusOK, count)
}

// Mastered handles GET /api/learning/guesses: the number of paintings the
// caller has learned.
func (h *LearningHandler) Mastered(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	mastered, err := h.progressService.CountMastered(r.Context(), userID)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, mastered)
}

// ClearLearned handles POST /api/learning/clear-learned: wipes the caller's
// progress so every painting becomes selectable again.
func (h *LearningHandler) ClearLearned(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.progressService.ClearAll(r.Context(), userID); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetSkipLevel handles GET /api/learning/skip-level.
func (h *LearningHandler) GetSkipLevel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	level, err := h.progressService.GetSkipLevel(r.Context(), userID)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, level)
}

// SetSkipLevel handles POST /api/learning/skip-level.
func (h *LearningHandler) SetSkipLevel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SkipLevelRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.progressService.SetSkipLevel(r.Context(), userID, *req.SkipLevel); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, *req.SkipLevel)
}

// Learn handles GET /api/learning/learn: picks the next painting to present.
// A fully mastered catalog answers 400 with a terminal message rather than
// an empty payload.
func (h *LearningHandler) Learn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	painting, err := h.progressService.NextPainting(r.Context(), userID)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewPaintingResponse(painting))
}

func (h *LearningHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
