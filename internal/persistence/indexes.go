package persistence

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names shared by the repositories.
const (
	UsersCollection    = "users"
	OrdersCollection   = "orders"
	ContactsCollection = "contacts"
)

type indexSpec struct {
	collection string
	model      mongo.IndexModel
}

func indexSpecs() []indexSpec {
	return []indexSpec{
		{
			collection: UsersCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("users_email_unique").SetUnique(true),
			},
		},
		{
			collection: UsersCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "resetPasswordToken", Value: 1}},
				Options: options.Index().SetName("users_reset_token").SetSparse(true),
			},
		},
		{
			collection: OrdersCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "user", Value: 1}, {Key: "orderDate", Value: -1}},
				Options: options.Index().SetName("orders_user_date"),
			},
		},
		{
			collection: ContactsCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "userId", Value: 1}},
				Options: options.Index().SetName("contacts_user"),
			},
		},
	}
}

// EnsureIndexes creates the indexes the repositories rely on. Creating an
// index that already exists with the same definition is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if db == nil {
		logger.Warn("no mongodb database available; skipping index creation")
		return nil
	}

	specs := indexSpecs()
	for _, spec := range specs {
		name, err := db.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model)
		if err != nil {
			return fmt.Errorf("create index on %s: %w", spec.collection, err)
		}
		logger.Info("index ensured", zap.String("collection", spec.collection), zap.String("index", name))
	}

	logger.Info("indexes ensured", zap.Int("count", len(specs)))
	return nil
}
