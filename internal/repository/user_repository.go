package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/persistence"
)

// ErrDuplicateEmail is returned when the unique email index rejects a write.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token string, now time.Time, passwordHash string) (*domain.User, error)
}

type notificationsDocument struct {
	Email bool `bson:"email"`
	SMS   bool `bson:"sms"`
	Push  bool `bson:"push"`
}

type userDocument struct {
	ID                   primitive.ObjectID     `bson:"_id,omitempty"`
	Name                 string                 `bson:"name"`
	Email                string                 `bson:"email"`
	PasswordHash         string                 `bson:"passwordHash"`
	Phone                string                 `bson:"phone,omitempty"`
	Address              string                 `bson:"address,omitempty"`
	Role                 string                 `bson:"role,omitempty"`
	Notifications        *notificationsDocument `bson:"notifications,omitempty"`
	ResetPasswordToken   string                 `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires *time.Time             `bson:"resetPasswordExpires,omitempty"`
	CreatedAt            time.Time              `bson:"createdAt"`
	UpdatedAt            time.Time              `bson:"updatedAt"`
}

func (d *userDocument) toDomain() *domain.User {
	prefs := domain.DefaultNotificationPreferences()
	if d.Notifications != nil {
		prefs = domain.NotificationPreferences{Email: d.Notifications.Email, SMS: d.Notifications.SMS, Push: d.Notifications.Push}
	}
	return &domain.User{
		ID:                   d.ID.Hex(),
		Name:                 d.Name,
		Email:                d.Email,
		PasswordHash:         d.PasswordHash,
		Phone:                d.Phone,
		Address:              d.Address,
		Role:                 domain.ParseRole(d.Role),
		Notifications:        prefs,
		ResetPasswordToken:   d.ResetPasswordToken,
		ResetPasswordExpires: d.ResetPasswordExpires,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

func notificationsFromDomain(p domain.NotificationPreferences) *notificationsDocument {
	return &notificationsDocument{Email: p.Email, SMS: p.SMS, Push: p.Push}
}

type userRepository struct {
	coll *mongo.Collection
}

// NewUserRepository returns a MongoDB-backed implementation.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{coll: db.Collection(persistence.UsersCollection)}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := userDocument{
		ID:            primitive.NewObjectID(),
		Name:          user.Name,
		Email:         user.Email,
		PasswordHash:  user.PasswordHash,
		Phone:         user.Phone,
		Address:       user.Address,
		Role:          string(user.Role),
		Notifications: notificationsFromDomain(user.Notifications),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	user.ID = doc.ID.Hex()
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.Notifications != nil {
		set["notifications"] = notificationsFromDomain(*update.Notifications)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"passwordHash": passwordHash,
		"updatedAt":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *userRepository) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": expiresAt.UTC(),
		"updatedAt":            time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ConsumeResetToken swaps the password and clears the token in one write, so
// a token can only ever be redeemed once.
func (r *userRepository) ConsumeResetToken(ctx context.Context, token string, now time.Time, passwordHash string) (*domain.User, error) {
	filter := bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": bson.M{"$gt": now.UTC()},
	}
	update := bson.M{
		"$set":   bson.M{"passwordHash": passwordHash, "updatedAt": now.UTC()},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}
