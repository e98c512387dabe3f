package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/services"
	"github.com/nedirbay/project-management-own-version/internal/utils"
)

// ListResponse is the envelope of every paginated list
type ListResponse[T any] struct {
	Items      []T                      `json:"items"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// NewListResponse converts items with convert and attaches pagination metadata
func NewListResponse[M any, T any](items []M, params utils.PaginationParams, total int64, convert func(M) T) ListResponse[T] {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = convert(item)
	}
	return ListResponse[T]{Items: out, Pagination: params.Response(total)}
}

// Map converts a slice without pagination
func Map[M any, T any](items []M, convert func(M) T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = convert(item)
	}
	return out
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uuid.UUID   `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FullName  string      `json:"full_name"`
	Role      models.Role `json:"role"`
	Avatar    string      `json:"avatar,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	Bio       string      `json:"bio,omitempty"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"created_at"`
}

// UserRefDTO is the short form of a user embedded in other resources
type UserRefDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Avatar   string    `json:"avatar,omitempty"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

// SettingsDTO represents user settings in API responses
type SettingsDTO struct {
	Theme         string                      `json:"theme"`
	Language      string                      `json:"language"`
	Timezone      string                      `json:"timezone"`
	DateFormat    string                      `json:"date_format"`
	TimeFormat    string                      `json:"time_format"`
	Notifications models.NotificationSettings `json:"notifications"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		Avatar:    user.Avatar,
		Phone:     user.Phone,
		Bio:       user.Bio,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}
}

// toUserRef returns nil when the relation was not preloaded
func toUserRef(user models.User) *UserRefDTO {
	if user.ID == uuid.Nil {
		return nil
	}
	return &UserRefDTO{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Avatar:   user.Avatar,
	}
}

// ToAuthResponse converts a login session
func ToAuthResponse(session *services.Session) AuthResponse {
	return AuthResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      ToUserDTO(*session.User),
	}
}

// ToSettingsDTO converts UserSettings to SettingsDTO
func ToSettingsDTO(settings *models.UserSettings) SettingsDTO {
	return SettingsDTO{
		Theme:         settings.Theme,
		Language:      settings.Language,
		Timezone:      settings.Timezone,
		DateFormat:    settings.DateFormat,
		TimeFormat:    settings.TimeFormat,
		Notifications: settings.Notifications.Data(),
	}
}
