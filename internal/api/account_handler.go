package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/woklearn/woklearn-api/internal/api/middleware"
	"github.com/woklearn/woklearn-api/internal/api/shared"
	"github.com/woklearn/woklearn-api/internal/service"
)

// AccountHandler handles account lifecycle API requests: registration,
// removal, renames, password changes and the administrative endpoints.
type AccountHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

// NewAccountHandler creates a new AccountHandler with the given dependencies.
func NewAccountHandler(userService service.UserService) *AccountHandler {
	return &AccountHandler{
		userService: userService,
		validator:   validator.New(),
	}
}

// Create handles POST /api/account/create. Registration is open; new
// accounts start with no roles and the default skip level.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// Remove handles DELETE /api/account/remove. The authenticated caller
// deletes their own account.
func (h *AccountHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.userService.Delete(r.Context(), userID); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// ChangeUsername handles PUT /api/account/change-username for the
// authenticated caller.
func (h *AccountHandler) ChangeUsername(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	h.changeUsername(w, r, userID)
}

// ChangePassword handles POST /api/account/change-password. The current
// password must verify and the new password must be confirmed.
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	err := h.userService.ChangePassword(r.Context(),
		userID, req.OldPassword, req.NewPassword, req.RepeatedPassword)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// AdminRemove handles DELETE /api/account/admin/{id}. A missing target is a
// 404, unlike self-removal where the account always exists.
func (h *AccountHandler) AdminRemove(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Malformed user id")
		return
	}

	if err := h.userService.Delete(r.Context(), targetID); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// AdminChangeUsername handles PUT /api/account/admin/{id}/change-username.
func (h *AccountHandler) AdminChangeUsername(w http.ResponseWriter, r *http.Request) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Malformed user id")
		return
	}

	h.changeUsername(w, r, targetID)
}

// AdminListUsers handles GET /api/account/admin/users.
func (h *AccountHandler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// changeUsername performs the shared rename flow for both the self-service
// and administrative endpoints.
func (h *AccountHandler) changeUsername(w http.ResponseWriter, r *http.Request, targetID uuid.UUID) {
	var req ChangeUsernameRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.userService.ChangeUsername(r.Context(), targetID, req.NewUsername); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// respondWithServiceError maps a service error onto the wire.
func (h *AccountHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
