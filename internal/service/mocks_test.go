package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/mail"
)

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == "" {
		user.ID = "507f1f77bcf86cd799439011"
	}
	return args.Error(0)
}

func (m *UserRepoMock) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepoMock) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepoMock) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *UserRepoMock) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	return m.Called(ctx, id, token, expiresAt).Error(0)
}

func (m *UserRepoMock) ConsumeResetToken(ctx context.Context, token string, now time.Time, passwordHash string) (*domain.User, error) {
	args := m.Called(ctx, token, now, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	if args.Error(0) == nil && order.ID == "" {
		order.ID = "65a000000000000000000001"
	}
	return args.Error(0)
}

func (m *OrderRepoMock) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepoMock) GetForUser(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepoMock) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *OrderRepoMock) ListAll(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *OrderRepoMock) CancelForUser(ctx context.Context, userID, orderID, reason string) (*domain.Order, error) {
	args := m.Called(ctx, userID, orderID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepoMock) DeleteForUser(ctx context.Context, userID, orderID string) error {
	return m.Called(ctx, userID, orderID).Error(0)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepoMock) SetCourier(ctx context.Context, orderID string, courier domain.Courier) (*domain.Order, error) {
	args := m.Called(ctx, orderID, courier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

type ContactRepoMock struct{ mock.Mock }

func (m *ContactRepoMock) Create(ctx context.Context, msg *domain.ContactMessage) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		msg.ID = "65c000000000000000000001"
	}
	return args.Error(0)
}

type MailerMock struct{ mock.Mock }

func (m *MailerMock) Send(ctx context.Context, msg mail.Message) error {
	return m.Called(ctx, msg).Error(0)
}
