package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/spec-kit/pizza-service/internal/domain"
)

const ordersNS = "pizza.orders"

func sampleOrderDocument(userID primitive.ObjectID, status domain.OrderStatus, placed time.Time) orderDocument {
	return orderDocument{
		ID:   primitive.NewObjectID(),
		User: userID,
		UserDetails: contactDetailsDocument{
			Name:    "Ann",
			Email:   "a@b.com",
			Phone:   "555",
			Address: "1 Main St",
		},
		Items: []lineItemDocument{
			{Name: "Margherita", Size: "medium", Quantity: 2, Price: 200},
			{Name: "Pepperoni", Size: "large", Quantity: 1, Price: 250},
		},
		Total:             650,
		DeliveryAddress:   "1 Main St",
		Status:            string(status),
		OrderDate:         placed,
		EstimatedDelivery: placed.Add(domain.EstimatedDeliveryWindow),
	}
}

func TestOrderRepository_Create(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("assigns id", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		order := &domain.Order{UserID: primitive.NewObjectID().Hex(), Status: domain.OrderStatusPreparing, Total: 10}
		require.NoError(mt, repo.Create(context.Background(), order))
		assert.True(mt, primitive.IsValidObjectID(order.ID))
	})

	mt.Run("rejects malformed owner", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB)
		err := repo.Create(context.Background(), &domain.Order{UserID: "nope"})
		assert.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})
}

func TestOrderRepository_ListByUser(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("decodes and keeps server order", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB)
		userID := primitive.NewObjectID()
		now := time.Now().UTC().Truncate(time.Millisecond)
		newer := sampleOrderDocument(userID, domain.OrderStatusPreparing, now)
		older := sampleOrderDocument(userID, domain.OrderStatusDelivered, now.Add(-time.Hour))
		older.DeliveryBoy = &courierDocument{Name: "Raj", Phone: "999"}

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch,
			asDoc(mt.T, newer), asDoc(mt.T, older)))

		orders, err := repo.ListByUser(context.Background(), userID.Hex())
		require.NoError(mt, err)
		require.Len(mt, orders, 2)
		assert.Equal(mt, newer.ID.Hex(), orders[0].ID)
		assert.Equal(mt, userID.Hex(), orders[0].UserID)
		assert.Equal(mt, 650.0, orders[0].Total)
		assert.Len(mt, orders[0].Items, 2)
		assert.Equal(mt, domain.OrderStatusDelivered, orders[1].Status)
		require.NotNil(mt, orders[1].DeliveryBoy)
		assert.Equal(mt, "Raj", orders[1].DeliveryBoy.Name)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
		sort := evt.Command.Lookup("sort").Document()
		assert.Equal(mt, int32(-1), sort.Lookup("orderDate").Int32())
	})

	mt.Run("empty", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch))

		orders, err := repo.ListByUser(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		assert.NotNil(mt, orders)
		assert.Empty(mt, orders)
	})
}

func TestOrderRepository_GetForUser(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("foreign order looks missing", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch))

		_, err := repo.GetForUser(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})

	mt.Run("malformed order id", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB)
		_, err := repo.GetForUser(context.Background(), primitive.NewObjectID().Hex(), "xyz")
		assert.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})
}

func TestOrderRepository_CancelForUser(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("sets status and reason", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB)
		userID := primitive.NewObjectID()
		doc := sampleOrderDocument(userID, domain.OrderStatusCancelled, time.Now().UTC())
		doc.CancelReason = "changed mind"
		mt.AddMockResponses(findAndModifyReply(asDoc(mt.T, doc)))

		order, err := repo.CancelForUser(context.Background(), userID.Hex(), doc.ID.Hex(), "changed mind")
		require.NoError(mt, err)
		assert.Equal(mt, domain.OrderStatusCancelled, order.Status)
		assert.Equal(mt, "changed mind", order.CancelReason)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		query := evt.Command.Lookup("query").Document()
		assert.Equal(mt, userID, query.Lookup("user").ObjectID())
		assert.Equal(mt, "delivered", query.Lookup("status").Document().Lookup("$ne").StringValue())
	})
}

func TestOrderRepository_DeleteForUser(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("deleted", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB)
		mt.AddMockResponses(writeReply(1))
		err := repo.DeleteForUser(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
		assert.NoError(mt, err)
	})

	mt.Run("nothing matched", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB)
		mt.AddMockResponses(writeReply(0))
		err := repo.DeleteForUser(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})
}

func TestOrderRepository_UpdateStatusAndCourier(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("status", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB)
		doc := sampleOrderDocument(primitive.NewObjectID(), domain.OrderStatusOutForDelivery, time.Now().UTC())
		mt.AddMockResponses(findAndModifyReply(asDoc(mt.T, doc)))

		order, err := repo.UpdateStatus(context.Background(), doc.ID.Hex(), domain.OrderStatusOutForDelivery)
		require.NoError(mt, err)
		assert.Equal(mt, domain.OrderStatusOutForDelivery, order.Status)
	})

	mt.Run("courier", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB)
		doc := sampleOrderDocument(primitive.NewObjectID(), domain.OrderStatusPreparing, time.Now().UTC())
		doc.DeliveryBoy = &courierDocument{Name: "Raj", Phone: "999"}
		mt.AddMockResponses(findAndModifyReply(asDoc(mt.T, doc)))

		order, err := repo.SetCourier(context.Background(), doc.ID.Hex(), domain.Courier{Name: "Raj", Phone: "999"})
		require.NoError(mt, err)
		require.NotNil(mt, order.DeliveryBoy)
		assert.Equal(mt, "999", order.DeliveryBoy.Phone)
	})

	mt.Run("missing order", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB)
		mt.AddMockResponses(findAndModifyReply(nil))

		_, err := repo.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), domain.OrderStatusDelivered)
		assert.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})
}
