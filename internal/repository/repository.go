package repository

import (
	"context"
	"errors"
	"fmt"

	"order-tracking-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrDuplicate       = errors.New("document already exists")
	ErrNotAcknowledged = errors.New("write was not acknowledged")
)

const ordersCollection = "order"

// Mongo implementation
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection(ordersCollection)}
}

// EnsureIndexes crea los índices únicos sobre tracking_id y el de búsqueda por dueño.
func (m *MongoOrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tracking_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "owner_email", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create order indexes: %w", err)
	}
	return nil
}

func (m *MongoOrderRepository) Insert(ctx context.Context, o *model.Order) error {
	_, err := m.col.InsertOne(ctx, o)
	return mapWriteError(err)
}

func (m *MongoOrderRepository) FindByTrackingID(ctx context.Context, trackingID string) (*model.Order, error) {
	var res model.Order
	err := m.col.FindOne(ctx, bson.M{"tracking_id": trackingID}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (m *MongoOrderRepository) FindByOwnerEmail(ctx context.Context, ownerEmail string) ([]*model.Order, error) {
	cur, err := m.col.Find(ctx, bson.M{"owner_email": ownerEmail})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []*model.Order{}
	for cur.Next(ctx) {
		var v model.Order
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

// ReplaceFields reemplaza estado, historial y fecha de entrega en un único $set.
func (m *MongoOrderRepository) ReplaceFields(ctx context.Context, trackingID string, fields model.OrderFields) error {
	res, err := m.col.UpdateOne(ctx,
		bson.M{"tracking_id": trackingID},
		bson.M{"$set": fields},
	)
	if err != nil {
		return mapWriteError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoOrderRepository) Delete(ctx context.Context, trackingID string) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"tracking_id": trackingID})
	if err != nil {
		return mapWriteError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, mongo.ErrUnacknowledgedWrite):
		return ErrNotAcknowledged
	}
	return err
}
