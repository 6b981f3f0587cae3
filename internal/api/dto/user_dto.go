package dto

import (
	"time"

	"github.com/spec-kit/pizza-service/internal/domain"
)

// RegisterRequest payload for new accounts, customer or administrator.
type RegisterRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	AdminCode string `json:"adminCode"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// NotificationsPayload carries the contact channel preferences.
type NotificationsPayload struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

// ProfileUpdateRequest only touches the fields present in the body.
type ProfileUpdateRequest struct {
	Name          *string               `json:"name"`
	Phone         *string               `json:"phone"`
	Address       *string               `json:"address"`
	Notifications *NotificationsPayload `json:"notifications"`
}

// ToDomain converts the payload into a partial profile update.
func (r ProfileUpdateRequest) ToDomain() domain.ProfileUpdate {
	update := domain.ProfileUpdate{Name: r.Name, Phone: r.Phone, Address: r.Address}
	if r.Notifications != nil {
		update.Notifications = &domain.NotificationPreferences{
			Email: r.Notifications.Email,
			SMS:   r.Notifications.SMS,
			Push:  r.Notifications.Push,
		}
	}
	return update
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// UserResponse is the public view of an account. The hash and reset token
// never leave the service.
type UserResponse struct {
	MongoID       string               `json:"_id"`
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Phone         string               `json:"phone"`
	Address       string               `json:"address"`
	Role          domain.Role          `json:"role"`
	Notifications NotificationsPayload `json:"notifications"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		MongoID: u.ID,
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Address: u.Address,
		Role:    u.Role,
		Notifications: NotificationsPayload{
			Email: u.Notifications.Email,
			SMS:   u.Notifications.SMS,
			Push:  u.Notifications.Push,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AuthResponse standard response for register and login.
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

type ProfileResponse struct {
	User UserResponse `json:"user"`
}

// MessageResponse acknowledges operations that return no resource.
type MessageResponse struct {
	Message string `json:"message"`
}
