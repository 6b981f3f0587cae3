package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/persistence"
)

// ContactRepository stores contact-form submissions. Records are never
// updated or deleted.
type ContactRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) error
}

type contactDocument struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Name      string              `bson:"name"`
	Email     string              `bson:"email"`
	Phone     string              `bson:"phone,omitempty"`
	Message   string              `bson:"message"`
	UserID    *primitive.ObjectID `bson:"userId,omitempty"`
	CreatedAt time.Time           `bson:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt"`
}

type contactRepository struct {
	coll *mongo.Collection
}

// NewContactRepository returns a MongoDB-backed implementation.
func NewContactRepository(db *mongo.Database) ContactRepository {
	return &contactRepository{coll: db.Collection(persistence.ContactsCollection)}
}

func (r *contactRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	doc := contactDocument{
		ID:        primitive.NewObjectID(),
		Name:      msg.Name,
		Email:     msg.Email,
		Phone:     msg.Phone,
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt,
		UpdatedAt: msg.CreatedAt,
	}
	if uid, err := primitive.ObjectIDFromHex(msg.UserID); err == nil {
		doc.UserID = &uid
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	msg.ID = doc.ID.Hex()
	return nil
}
