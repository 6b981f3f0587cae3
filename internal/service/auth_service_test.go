package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/pizza-service/internal/auth"
	"github.com/spec-kit/pizza-service/internal/config"
	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/mail"
	"github.com/spec-kit/pizza-service/internal/repository"
	apperrors "github.com/spec-kit/pizza-service/pkg/util"
)

var fixedNow = time.Date(2024, 5, 1, 12, 30, 15, 123456789, time.UTC)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLHours:     168,
			PasswordResetTTLMinutes: 60,
			BcryptCost:              4,
		},
		Mail: config.MailConfig{FrontendURL: "http://shop.test"},
	}
}

func newAuthService(cfg config.Config, users *UserRepoMock, mailer *MailerMock) *AuthService {
	deps := AuthDependencies{UserRepo: users}
	if mailer != nil {
		deps.Mailer = mailer
	}
	svc := NewAuthService(cfg, deps)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func assertStatus(t *testing.T, err error, status int, message string) {
	t.Helper()
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, status, de.HTTPStatus)
	if message != "" {
		assert.Equal(t, message, de.Message)
	}
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := auth.NewPasswordHasher(4).Hash(password)
	require.NoError(t, err)
	return h
}

func TestAuthService_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, mongo.ErrNoDocuments).Once()
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "a@b.com" &&
				u.Name == "Ann" &&
				u.Role == domain.RoleCustomer &&
				u.Notifications == domain.DefaultNotificationPreferences() &&
				auth.NewPasswordHasher(4).Matches(u.PasswordHash, "secret1")
		})).Return(nil).Once()

		svc := newAuthService(testConfig(), users, nil)
		res, err := svc.Register(context.Background(), RegisterInput{Name: "Ann", Email: "  A@B.com ", Password: "secret1"})
		require.NoError(t, err)
		users.AssertExpectations(t)

		claims, err := svc.TokenManager().ParseToken(res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.User.ID, claims.UserID)
		assert.Equal(t, "a@b.com", claims.Email)
		assert.Empty(t, claims.Role)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), res.ExpiresAt, time.Minute)
	})

	t.Run("missing fields", func(t *testing.T) {
		users := new(UserRepoMock)
		svc := newAuthService(testConfig(), users, nil)

		_, err := svc.Register(context.Background(), RegisterInput{Name: " ", Email: "a@b.com", Password: "x"})
		assertStatus(t, err, http.StatusBadRequest, "")
		users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("email taken", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetByEmail", mock.Anything, "a@b.com").Return(&domain.User{ID: "u1"}, nil).Once()
		svc := newAuthService(testConfig(), users, nil)

		_, err := svc.Register(context.Background(), RegisterInput{Name: "Ann", Email: "A@b.com", Password: "secret1"})
		assertStatus(t, err, http.StatusConflict, "Email already registered")
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unique index race", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, mongo.ErrNoDocuments).Once()
		users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEmail).Once()
		svc := newAuthService(testConfig(), users, nil)

		_, err := svc.Register(context.Background(), RegisterInput{Name: "Ann", Email: "a@b.com", Password: "secret1"})
		assertStatus(t, err, http.StatusConflict, "Email already registered")
	})

	t.Run("admin code mismatch", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.AdminRegistrationCode = "sesame"
		users := new(UserRepoMock)
		svc := newAuthService(cfg, users, nil)

		_, err := svc.Register(context.Background(), RegisterInput{
			Name: "Boss", Email: "boss@b.com", Password: "pw", Role: domain.RoleAdmin, AdminCode: "guess",
		})
		assertStatus(t, err, http.StatusForbidden, "")
	})

	t.Run("admin with code gets role claim", func(t *testing.T) {
		cfg := testConfig()
		cfg.Auth.AdminRegistrationCode = "sesame"
		users := new(UserRepoMock)
		users.On("GetByEmail", mock.Anything, "boss@b.com").Return(nil, mongo.ErrNoDocuments).Once()
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Role == domain.RoleAdmin
		})).Return(nil).Once()
		svc := newAuthService(cfg, users, nil)

		res, err := svc.Register(context.Background(), RegisterInput{
			Name: "Boss", Email: "boss@b.com", Password: "pw", Role: domain.RoleAdmin, AdminCode: "sesame",
		})
		require.NoError(t, err)
		claims, err := svc.TokenManager().ParseToken(res.Token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})
}

func TestAuthService_Login(t *testing.T) {
	customer := &domain.User{ID: "u1", Email: "a@b.com", PasswordHash: hashed(t, "secret1"), Role: domain.RoleCustomer}
	admin := &domain.User{ID: "u2", Email: "boss@b.com", PasswordHash: hashed(t, "pw"), Role: domain.RoleAdmin}

	tests := []struct {
		name         string
		email        string
		password     string
		requireAdmin bool
		setup        func(u *UserRepoMock)
		wantErr      bool
	}{
		{
			name: "customer ok", email: "A@B.com", password: "secret1",
			setup: func(u *UserRepoMock) { u.On("GetByEmail", mock.Anything, "a@b.com").Return(customer, nil) },
		},
		{
			name: "wrong password", email: "a@b.com", password: "nope", wantErr: true,
			setup: func(u *UserRepoMock) { u.On("GetByEmail", mock.Anything, "a@b.com").Return(customer, nil) },
		},
		{
			name: "unknown email", email: "x@b.com", password: "secret1", wantErr: true,
			setup: func(u *UserRepoMock) { u.On("GetByEmail", mock.Anything, "x@b.com").Return(nil, mongo.ErrNoDocuments) },
		},
		{
			name: "customer on admin login", email: "a@b.com", password: "secret1", requireAdmin: true, wantErr: true,
			setup: func(u *UserRepoMock) { u.On("GetByEmail", mock.Anything, "a@b.com").Return(customer, nil) },
		},
		{
			name: "admin on admin login", email: "boss@b.com", password: "pw", requireAdmin: true,
			setup: func(u *UserRepoMock) { u.On("GetByEmail", mock.Anything, "boss@b.com").Return(admin, nil) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			tt.setup(users)
			svc := newAuthService(testConfig(), users, nil)

			res, err := svc.Login(context.Background(), tt.email, tt.password, tt.requireAdmin)
			if tt.wantErr {
				assertStatus(t, err, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, res.Token)
		})
	}

	t.Run("storage failure surfaces", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, errors.New("connection reset"))
		svc := newAuthService(testConfig(), users, nil)

		_, err := svc.Login(context.Background(), "a@b.com", "secret1", false)
		assert.EqualError(t, err, "connection reset")
	})
}

func TestAuthService_Profile(t *testing.T) {
	t.Run("missing user", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetByID", mock.Anything, "u1").Return(nil, mongo.ErrNoDocuments)
		svc := newAuthService(testConfig(), users, nil)

		_, err := svc.GetProfile(context.Background(), "u1")
		assertStatus(t, err, http.StatusNotFound, "User not found")
	})

	t.Run("update sanitizes supplied fields only", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("UpdateProfile", mock.Anything, "u1", mock.MatchedBy(func(u domain.ProfileUpdate) bool {
			return u.Name != nil && *u.Name == "Ann Lee" &&
				u.Address != nil && *u.Address == "1 Main St  Flat 2" &&
				u.Phone == nil && u.Notifications == nil
		})).Return(&domain.User{ID: "u1", Name: "Ann Lee"}, nil).Once()
		svc := newAuthService(testConfig(), users, nil)

		name, addr := "Ann\tLee<>", "1 Main St\r\nFlat 2"
		user, err := svc.UpdateProfile(context.Background(), "u1", domain.ProfileUpdate{Name: &name, Address: &addr})
		require.NoError(t, err)
		assert.Equal(t, "Ann Lee", user.Name)
		users.AssertExpectations(t)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		users := new(UserRepoMock)
		svc := newAuthService(testConfig(), users, nil)
		name := "<>"
		_, err := svc.UpdateProfile(context.Background(), "u1", domain.ProfileUpdate{Name: &name})
		assertStatus(t, err, http.StatusBadRequest, "")
	})
}

func TestAuthService_ForgotPassword(t *testing.T) {
	user := &domain.User{ID: "u1", Name: "Ann", Email: "a@b.com"}

	t.Run("stores token and mails link", func(t *testing.T) {
		users := new(UserRepoMock)
		mailer := new(MailerMock)

		var token string
		users.On("GetByEmail", mock.Anything, "a@b.com").Return(user, nil).Once()
		users.On("SetResetToken", mock.Anything, "u1", mock.AnythingOfType("string"), fixedNow.Add(time.Hour)).
			Run(func(args mock.Arguments) { token = args.String(2) }).
			Return(nil).Once()

		var sent mail.Message
		mailer.On("Send", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { sent = args.Get(1).(mail.Message) }).
			Return(nil).Once()

		svc := newAuthService(testConfig(), users, mailer)
		require.NoError(t, svc.ForgotPassword(context.Background(), "A@b.com"))
		svc.Wait()

		users.AssertExpectations(t)
		mailer.AssertExpectations(t)
		assert.Len(t, token, 64)
		assert.Equal(t, "a@b.com", sent.To)
		assert.True(t, strings.Contains(sent.Body, "http://shop.test/reset-password/"+token))
	})

	t.Run("unknown email is acknowledged", func(t *testing.T) {
		users := new(UserRepoMock)
		mailer := new(MailerMock)
		users.On("GetByEmail", mock.Anything, "x@b.com").Return(nil, mongo.ErrNoDocuments).Once()

		svc := newAuthService(testConfig(), users, mailer)
		require.NoError(t, svc.ForgotPassword(context.Background(), "x@b.com"))
		svc.Wait()
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("mail failure is not surfaced", func(t *testing.T) {
		users := new(UserRepoMock)
		mailer := new(MailerMock)
		users.On("GetByEmail", mock.Anything, "a@b.com").Return(user, nil).Once()
		users.On("SetResetToken", mock.Anything, "u1", mock.Anything, mock.Anything).Return(nil).Once()
		mailer.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

		svc := newAuthService(testConfig(), users, mailer)
		require.NoError(t, svc.ForgotPassword(context.Background(), "a@b.com"))
		svc.Wait()
		mailer.AssertExpectations(t)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		users := new(UserRepoMock)
		var newHash string
		users.On("ConsumeResetToken", mock.Anything, "tok", fixedNow, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) { newHash = args.String(3) }).
			Return(&domain.User{ID: "u1"}, nil).Once()

		svc := newAuthService(testConfig(), users, nil)
		require.NoError(t, svc.ResetPassword(context.Background(), "tok", "brand-new"))
		assert.True(t, auth.NewPasswordHasher(4).Matches(newHash, "brand-new"))
	})

	t.Run("expired or reused token", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("ConsumeResetToken", mock.Anything, "tok", fixedNow, mock.Anything).Return(nil, mongo.ErrNoDocuments).Once()

		svc := newAuthService(testConfig(), users, nil)
		err := svc.ResetPassword(context.Background(), "tok", "brand-new")
		assertStatus(t, err, http.StatusBadRequest, "Invalid or expired reset token")
	})

	t.Run("missing password", func(t *testing.T) {
		svc := newAuthService(testConfig(), new(UserRepoMock), nil)
		err := svc.ResetPassword(context.Background(), "tok", "")
		assertStatus(t, err, http.StatusBadRequest, "")
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	user := &domain.User{ID: "u1", Email: "a@b.com", PasswordHash: hashed(t, "old-pass")}

	t.Run("wrong current password", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetByID", mock.Anything, "u1").Return(user, nil).Once()
		svc := newAuthService(testConfig(), users, nil)

		err := svc.ChangePassword(context.Background(), "u1", "nope", "new-pass")
		assertStatus(t, err, http.StatusUnauthorized, "Current password is incorrect")
		users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success", func(t *testing.T) {
		users := new(UserRepoMock)
		users.On("GetByID", mock.Anything, "u1").Return(user, nil).Once()
		users.On("UpdatePassword", mock.Anything, "u1", mock.MatchedBy(func(h string) bool {
			return auth.NewPasswordHasher(4).Matches(h, "new-pass")
		})).Return(nil).Once()
		svc := newAuthService(testConfig(), users, nil)

		require.NoError(t, svc.ChangePassword(context.Background(), "u1", "old-pass", "new-pass"))
		users.AssertExpectations(t)
	})
}
