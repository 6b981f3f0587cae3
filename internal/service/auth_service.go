package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/spec-kit/pizza-service/internal/auth"
	"github.com/spec-kit/pizza-service/internal/config"
	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/mail"
	"github.com/spec-kit/pizza-service/internal/repository"
	"github.com/spec-kit/pizza-service/pkg/sanitize"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

// AuthService coordinates registration, login and password flows.
type AuthService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	mail        *asyncMailer
	logger      *zap.Logger
	passwords   *auth.PasswordHasher
	resetTTL    time.Duration
	frontendURL string
	adminCode   string
	now         func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Mailer   mail.Mailer
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:       deps.UserRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		mail:        newAsyncMailer(deps.Mailer, logger),
		logger:      logger,
		passwords:   auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		resetTTL:    cfg.Auth.PasswordResetTTL(),
		frontendURL: cfg.Mail.FrontendURL,
		adminCode:   cfg.Auth.AdminRegistrationCode,
		now:         time.Now,
	}
}

// RegisterInput describes a sign-up request.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Phone     string
	Address   string
	Role      domain.Role
	AdminCode string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Register creates a new account and signs a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(sanitize.Text(in.Name))
	email := sanitize.Email(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, apperrors.NewValidationError("Name, email and password are required", nil)
	}

	role := domain.ParseRole(string(in.Role))
	if role == domain.RoleAdmin && s.adminCode != "" && in.AdminCode != s.adminCode {
		return nil, apperrors.NewForbidden("Invalid admin registration code")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("Email already registered", nil)
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:          name,
		Email:         email,
		PasswordHash:  hash,
		Phone:         sanitize.Text(in.Phone),
		Address:       sanitize.Text(in.Address),
		Role:          role,
		Notifications: domain.DefaultNotificationPreferences(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("Email already registered", nil)
		}
		return nil, err
	}

	s.logger.Info("account registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return s.issue(user)
}

// Login verifies credentials. With requireAdmin set, non-admin accounts are
// rejected exactly like a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string, requireAdmin bool) (*AuthResult, error) {
	invalid := apperrors.NewUnauthorized("Invalid credentials")

	user, err := s.users.GetByEmail(ctx, sanitize.Email(email))
	if errors.Is(err, mongo.ErrNoDocuments) {
		s.passwords.Burn(password)
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if !s.passwords.Matches(user.PasswordHash, password) {
		return nil, invalid
	}
	if requireAdmin && !user.IsAdmin() {
		return nil, invalid
	}
	return s.issue(user)
}

func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := s.passwords.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", apperrors.NewValidationError(
			fmt.Sprintf("Password must be at most %d bytes", auth.MaxPasswordBytes), nil)
	}
	return hash, err
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// GetProfile loads the caller's account.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFound("User", nil)
	}
	return user, err
}

// UpdateProfile applies the supplied fields only.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	update.Name = sanitizePtr(update.Name)
	update.Phone = sanitizePtr(update.Phone)
	update.Address = sanitizePtr(update.Address)
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, apperrors.NewValidationError("Name cannot be empty", nil)
	}

	user, err := s.users.UpdateProfile(ctx, userID, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NewNotFound("User", nil)
	}
	return user, err
}

func sanitizePtr(v *string) *string {
	if v == nil {
		return nil
	}
	clean := sanitize.Text(*v)
	return &clean
}

// ForgotPassword stores a fresh reset token and mails the link in the
// background. Unknown emails succeed silently.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, sanitize.Email(email))
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return err
	}

	token, err := auth.NewResetToken()
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(ctx, user.ID, token, s.now().Add(s.resetTTL)); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	s.mail.send(mail.Message{
		To:      user.Email,
		Subject: "Password Reset Request",
		Body: fmt.Sprintf("Hello %s,\n\nYou requested a password reset. Open the link below to choose a new password:\n\n%s\n\n"+
			"The link expires in %s. If you did not request this, you can ignore this email.",
			user.Name, link, s.resetTTL),
	})
	return nil
}

// ResetPassword redeems a reset token. A token works once, before it expires.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return apperrors.NewValidationError("Password is required", nil)
	}
	if token == "" {
		return apperrors.NewValidationError("Invalid or expired reset token", nil)
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}
	user, err := s.users.ConsumeResetToken(ctx, token, s.now(), hash)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.NewValidationError("Invalid or expired reset token", nil)
	}
	if err != nil {
		return err
	}
	s.logger.Info("password reset", zap.String("user_id", user.ID))
	return nil
}

// ChangePassword verifies the current password before storing the new hash.
// Previously issued tokens stay valid.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return apperrors.NewValidationError("New password is required", nil)
	}
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.NewNotFound("User", nil)
	}
	if err != nil {
		return err
	}
	if !s.passwords.Matches(user.PasswordHash, currentPassword) {
		return apperrors.NewUnauthorized("Current password is incorrect")
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.NewNotFound("User", nil)
		}
		return err
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Wait blocks until background mail sends have finished.
func (s *AuthService) Wait() {
	s.mail.wait()
}
