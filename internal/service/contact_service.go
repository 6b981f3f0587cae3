package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/repository"
	"github.com/spec-kit/pizza-service/pkg/sanitize"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

// ContactService records contact-form submissions.
type ContactService struct {
	contacts repository.ContactRepository
	logger   *zap.Logger
}

// NewContactService builds the service.
func NewContactService(contacts repository.ContactRepository, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{contacts: contacts, logger: logger}
}

// ContactInput describes a submission.
type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Submit stores the message against the caller.
func (s *ContactService) Submit(ctx context.Context, caller Caller, in ContactInput) (*domain.ContactMessage, error) {
	msg := &domain.ContactMessage{
		Name:    strings.TrimSpace(sanitize.Text(in.Name)),
		Email:   sanitize.Email(in.Email),
		Phone:   strings.TrimSpace(sanitize.Text(in.Phone)),
		Message: strings.TrimSpace(sanitize.Text(in.Message)),
		UserID:  caller.UserID,
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return nil, apperrors.NewValidationError("Name, email and message are required", nil)
	}

	if err := s.contacts.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.logger.Info("contact message received", zap.String("contact_id", msg.ID), zap.String("user_id", caller.UserID))
	return msg, nil
}
