package http

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/mail"
	"github.com/spec-kit/pizza-service/internal/repository"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]domain.User)}
}

func (m *memoryUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID().Hex()
	user.CreatedAt, user.UpdatedAt = now, now
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memoryUsers) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	if update.Address != nil {
		u.Address = *update.Address
	}
	if update.Notifications != nil {
		u.Notifications = *update.Notifications
	}
	m.users[id] = u
	return &u, nil
}

func (m *memoryUsers) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.PasswordHash = passwordHash
	m.users[id] = u
	return nil
}

func (m *memoryUsers) SetResetToken(_ context.Context, id, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.ResetPasswordToken = token
	u.ResetPasswordExpires = &expiresAt
	m.users[id] = u
	return nil
}

func (m *memoryUsers) ConsumeResetToken(_ context.Context, token string, now time.Time, passwordHash string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.users {
		if u.ResetPasswordToken != token || u.ResetPasswordExpires == nil || !u.ResetPasswordExpires.After(now) {
			continue
		}
		u.PasswordHash = passwordHash
		u.ResetPasswordToken = ""
		u.ResetPasswordExpires = nil
		m.users[id] = u
		return &u, nil
	}
	return nil, mongo.ErrNoDocuments
}

// ageResetTokens moves every pending reset expiry back by d.
func (m *memoryUsers) ageResetTokens(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.users {
		if u.ResetPasswordExpires != nil {
			aged := u.ResetPasswordExpires.Add(-d)
			u.ResetPasswordExpires = &aged
			m.users[id] = u
		}
	}
}

type memoryOrders struct {
	mu     sync.Mutex
	orders map[string]domain.Order
}

func newMemoryOrders() *memoryOrders {
	return &memoryOrders{orders: make(map[string]domain.Order)}
}

func (m *memoryOrders) Create(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = primitive.NewObjectID().Hex()
	m.orders[order.ID] = *order
	return nil
}

func (m *memoryOrders) GetByID(_ context.Context, orderID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &o, nil
}

func (m *memoryOrders) GetForUser(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := m.GetByID(ctx, orderID)
	if err != nil || o.UserID != userID {
		return nil, mongo.ErrNoDocuments
	}
	return o, nil
}

func (m *memoryOrders) list(match func(domain.Order) bool) []domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Order{}
	for _, o := range m.orders {
		if match(o) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out
}

func (m *memoryOrders) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	return m.list(func(o domain.Order) bool { return o.UserID == userID }), nil
}

func (m *memoryOrders) ListAll(_ context.Context) ([]domain.Order, error) {
	return m.list(func(domain.Order) bool { return true }), nil
}

func (m *memoryOrders) mutate(orderID string, match func(domain.Order) bool, apply func(*domain.Order)) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || !match(o) {
		return nil, mongo.ErrNoDocuments
	}
	apply(&o)
	o.UpdatedAt = time.Now().UTC()
	m.orders[orderID] = o
	return &o, nil
}

func (m *memoryOrders) CancelForUser(_ context.Context, userID, orderID, reason string) (*domain.Order, error) {
	return m.mutate(orderID,
		func(o domain.Order) bool { return o.UserID == userID && o.Status != domain.OrderStatusDelivered },
		func(o *domain.Order) {
			o.Status = domain.OrderStatusCancelled
			o.CancelReason = reason
		})
}

func (m *memoryOrders) DeleteForUser(_ context.Context, userID, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.UserID != userID {
		return mongo.ErrNoDocuments
	}
	delete(m.orders, orderID)
	return nil
}

func (m *memoryOrders) UpdateStatus(_ context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	return m.mutate(orderID, func(domain.Order) bool { return true }, func(o *domain.Order) { o.Status = status })
}

func (m *memoryOrders) SetCourier(_ context.Context, orderID string, courier domain.Courier) (*domain.Order, error) {
	return m.mutate(orderID, func(domain.Order) bool { return true }, func(o *domain.Order) { o.DeliveryBoy = &courier })
}

type memoryContacts struct {
	mu       sync.Mutex
	messages []domain.ContactMessage
}

func (m *memoryContacts) Create(_ context.Context, msg *domain.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = primitive.NewObjectID().Hex()
	m.messages = append(m.messages, *msg)
	return nil
}

type outbox struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (o *outbox) Send(_ context.Context, msg mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) messages() []mail.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]mail.Message(nil), o.sent...)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }
