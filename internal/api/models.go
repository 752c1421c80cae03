package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/woklearn/woklearn-api/internal/domain"
)

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// CreateAccountRequest is the payload for POST /api/account/create.
type CreateAccountRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ChangeUsernameRequest is the payload for the rename endpoints.
type ChangeUsernameRequest struct {
	NewUsername string `json:"new_username" validate:"required"`
}

// ChangePasswordRequest is the payload for POST /api/account/change-password.
// The new password must be supplied twice and both copies must match.
type ChangePasswordRequest struct {
	OldPassword      string `json:"old_password"      validate:"required"`
	NewPassword      string `json:"new_password"      validate:"required,min=8,max=72"`
	RepeatedPassword string `json:"repeated_password" validate:"required"`
}

// UserResponse is the public view of an account. Password material is never
// included.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	SkipLevel int       `json:"skip_level"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse builds a UserResponse from a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Roles:     roles,
		SkipLevel: user.SkipLevel,
		CreatedAt: user.CreatedAt,
	}
}

// AnswerRequest is the payload for POST /api/learning/answer.
type AnswerRequest struct {
	PaintingID string `json:"painting_id" validate:"required"`
}

// GuessCountResponse carries the updated count after an accepted answer.
// The progress reads return bare integers instead.
type GuessCountResponse struct {
	PaintingID string `json:"painting_id"`
	Count      int    `json:"count"`
}

// SkipLevelRequest is the payload for POST /api/learning/skip-level.
// The pointer distinguishes a missing field from an explicit zero.
type SkipLevelRequest struct {
	SkipLevel *int `json:"skip_level" validate:"required"`
}

// PaintingRequest is the payload for painting create/update endpoints.
type PaintingRequest struct {
	Author   string `json:"author"   validate:"required"`
	Style    string `json:"style"    validate:"required"`
	FileName string `json:"filename" validate:"required"`
}

// PaintingResponse is the public view of a catalog entry.
type PaintingResponse struct {
	ID       uuid.UUID `json:"id"`
	Author   string    `json:"author"`
	Style    string    `json:"style"`
	FileName string    `json:"filename"`
}

// NewPaintingResponse builds a PaintingResponse from a domain painting.
func NewPaintingResponse(painting *domain.Painting) PaintingResponse {
	return PaintingResponse{
		ID:       painting.ID,
		Author:   painting.Author,
		Style:    painting.Style,
		FileName: painting.FileName,
	}
}
