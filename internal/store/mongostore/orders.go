package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ViacheslavGIT/MegaMart/internal/models"
	"github.com/ViacheslavGIT/MegaMart/internal/store"
)

type Orders struct {
	collection *mongo.Collection
}

func NewOrders(db *mongo.Database) *Orders {
	return &Orders{collection: db.Collection(store.OrdersCollection)}
}

func (s *Orders) Create(ctx context.Context, o *models.Order) error {
	res, err := s.collection.InsertOne(ctx, o)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		o.ID = oid
	}
	return nil
}

// newestFirst orders by createdAt, then by _id for orders placed within
// the same millisecond.
func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
}

func (s *Orders) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cur, err := s.collection.Find(ctx, bson.M{"user": userID}, newestFirst())
	if err != nil {
		return nil, fmt.Errorf("find orders for user %s: %w", userID.Hex(), err)
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders for user %s: %w", userID.Hex(), err)
	}
	return orders, nil
}

func (s *Orders) GetForUser(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	err := s.collection.FindOne(ctx, bson.M{"_id": orderID, "user": userID}).Decode(&o)
	if err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}
