package dto

import (
	"time"

	"github.com/spec-kit/pizza-service/internal/domain"
)

// ContactRequest payload for the contact form.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required"`
}

type ContactResponse struct {
	MongoID   string    `json:"_id"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewContactResponse(m *domain.ContactMessage) ContactResponse {
	return ContactResponse{
		MongoID:   m.ID,
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Message:   m.Message,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}
