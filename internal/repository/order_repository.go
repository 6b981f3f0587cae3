package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/pizza-service/internal/domain"
	"github.com/spec-kit/pizza-service/internal/persistence"
)

// OrderRepository persists orders. Methods taking a userID only match
// orders owned by that user; a malformed id behaves like a missing one.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, orderID string) (*domain.Order, error)
	GetForUser(ctx context.Context, userID, orderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	CancelForUser(ctx context.Context, userID, orderID, reason string) (*domain.Order, error)
	DeleteForUser(ctx context.Context, userID, orderID string) error
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
	SetCourier(ctx context.Context, orderID string, courier domain.Courier) (*domain.Order, error)
}

type contactDetailsDocument struct {
	Name    string `bson:"name"`
	Email   string `bson:"email"`
	Phone   string `bson:"phone"`
	Address string `bson:"address"`
}

type lineItemDocument struct {
	Name     string  `bson:"name"`
	Size     string  `bson:"size"`
	Quantity int     `bson:"quantity"`
	Price    float64 `bson:"price"`
}

type courierDocument struct {
	Name  string `bson:"name"`
	Phone string `bson:"phone"`
}

type paymentDocument struct {
	Method        string `bson:"method"`
	Status        string `bson:"status"`
	TransactionID string `bson:"transactionId,omitempty"`
}

type orderDocument struct {
	ID                primitive.ObjectID     `bson:"_id,omitempty"`
	User              primitive.ObjectID     `bson:"user"`
	UserDetails       contactDetailsDocument `bson:"userDetails"`
	Items             []lineItemDocument     `bson:"items"`
	Total             float64                `bson:"total"`
	DeliveryAddress   string                 `bson:"deliveryAddress"`
	EstimatedDelivery time.Time              `bson:"estimatedDelivery"`
	Status            string                 `bson:"status"`
	CancelReason      string                 `bson:"cancelReason,omitempty"`
	DeliveryBoy       *courierDocument       `bson:"deliveryBoy,omitempty"`
	Payment           *paymentDocument       `bson:"payment,omitempty"`
	OrderDate         time.Time              `bson:"orderDate"`
	CreatedAt         time.Time              `bson:"createdAt"`
	UpdatedAt         time.Time              `bson:"updatedAt"`
}

func orderFromDomain(o *domain.Order, userID primitive.ObjectID) orderDocument {
	items := make([]lineItemDocument, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, lineItemDocument{Name: it.Name, Size: it.Size, Quantity: it.Quantity, Price: it.Price})
	}
	doc := orderDocument{
		User: userID,
		UserDetails: contactDetailsDocument{
			Name:    o.UserDetails.Name,
			Email:   o.UserDetails.Email,
			Phone:   o.UserDetails.Phone,
			Address: o.UserDetails.Address,
		},
		Items:             items,
		Total:             o.Total,
		DeliveryAddress:   o.DeliveryAddress,
		EstimatedDelivery: o.EstimatedDelivery,
		Status:            string(o.Status),
		CancelReason:      o.CancelReason,
		OrderDate:         o.OrderDate,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	if o.DeliveryBoy != nil {
		doc.DeliveryBoy = &courierDocument{Name: o.DeliveryBoy.Name, Phone: o.DeliveryBoy.Phone}
	}
	if o.Payment != nil {
		doc.Payment = &paymentDocument{Method: o.Payment.Method, Status: string(o.Payment.Status), TransactionID: o.Payment.TransactionID}
	}
	return doc
}

func (d *orderDocument) toDomain() domain.Order {
	items := make([]domain.LineItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, domain.LineItem{Name: it.Name, Size: it.Size, Quantity: it.Quantity, Price: it.Price})
	}
	o := domain.Order{
		ID:     d.ID.Hex(),
		UserID: d.User.Hex(),
		UserDetails: domain.ContactDetails{
			Name:    d.UserDetails.Name,
			Email:   d.UserDetails.Email,
			Phone:   d.UserDetails.Phone,
			Address: d.UserDetails.Address,
		},
		Items:             items,
		Total:             d.Total,
		DeliveryAddress:   d.DeliveryAddress,
		EstimatedDelivery: d.EstimatedDelivery,
		Status:            domain.OrderStatus(d.Status),
		CancelReason:      d.CancelReason,
		OrderDate:         d.OrderDate,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
	if d.DeliveryBoy != nil {
		o.DeliveryBoy = &domain.Courier{Name: d.DeliveryBoy.Name, Phone: d.DeliveryBoy.Phone}
	}
	if d.Payment != nil {
		o.Payment = &domain.Payment{Method: d.Payment.Method, Status: domain.PaymentStatus(d.Payment.Status), TransactionID: d.Payment.TransactionID}
	}
	return o
}

type orderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository returns a MongoDB-backed implementation.
func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepository{coll: db.Collection(persistence.OrdersCollection)}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	userID, err := primitive.ObjectIDFromHex(order.UserID)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	doc := orderFromDomain(order, userID)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	order.ID = doc.ID.Hex()
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID string) (*domain.Order, error) {
	filter, ok := orderFilter("", orderID)
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return r.findOne(ctx, filter)
}

func (r *orderRepository) GetForUser(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	filter, ok := orderFilter(userID, orderID)
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return r.findOne(ctx, filter)
}

func (r *orderRepository) findOne(ctx context.Context, filter bson.M) (*domain.Order, error) {
	var doc orderDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, err
	}
	order := doc.toDomain()
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []domain.Order{}, nil
	}
	return r.list(ctx, bson.M{"user": oid})
}

func (r *orderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *orderRepository) list(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []orderDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, docs[i].toDomain())
	}
	return orders, nil
}

// CancelForUser never touches a delivered order; callers that need to tell
// "missing" from "delivered" look the order up first.
func (r *orderRepository) CancelForUser(ctx context.Context, userID, orderID, reason string) (*domain.Order, error) {
	filter, ok := orderFilter(userID, orderID)
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	filter["status"] = bson.M{"$ne": string(domain.OrderStatusDelivered)}
	return r.findOneAndSet(ctx, filter, bson.M{
		"status":       string(domain.OrderStatusCancelled),
		"cancelReason": reason,
	})
}

func (r *orderRepository) DeleteForUser(ctx context.Context, userID, orderID string) error {
	filter, ok := orderFilter(userID, orderID)
	if !ok {
		return mongo.ErrNoDocuments
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	filter, ok := orderFilter("", orderID)
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return r.findOneAndSet(ctx, filter, bson.M{"status": string(status)})
}

func (r *orderRepository) SetCourier(ctx context.Context, orderID string, courier domain.Courier) (*domain.Order, error) {
	filter, ok := orderFilter("", orderID)
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return r.findOneAndSet(ctx, filter, bson.M{
		"deliveryBoy": courierDocument{Name: courier.Name, Phone: courier.Phone},
	})
}

func (r *orderRepository) findOneAndSet(ctx context.Context, filter, set bson.M) (*domain.Order, error) {
	set["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc orderDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, err
	}
	order := doc.toDomain()
	return &order, nil
}

// orderFilter builds an _id (and optional owner) filter. ok is false when
// either id is not a valid ObjectID.
func orderFilter(userID, orderID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, false
	}
	filter := bson.M{"_id": oid}
	if userID != "" {
		uid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return nil, false
		}
		filter["user"] = uid
	}
	return filter, true
}
