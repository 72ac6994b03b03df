package booking

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, booking Booking) error
	GetByID(ctx context.Context, id string) (Booking, error)
	ListByUser(ctx context.Context, userID string) ([]Booking, error)
	ListAll(ctx context.Context) ([]Booking, error)
	Decide(ctx context.Context, id, status, adminNotes string, now time.Time) (Booking, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, booking Booking) error {
	_, err := r.col.InsertOne(ctx, booking)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Booking, error) {
	var b Booking
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return Booking{}, err
	}
	return b, nil
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]Booking, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *MongoRepository) ListAll(ctx context.Context) ([]Booking, error) {
	return r.list(ctx, bson.M{})
}

func (r *MongoRepository) list(ctx context.Context, filter bson.M) ([]Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Booking, 0)
	for cursor.Next(ctx) {
		var b Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Decide flips a pending booking into a terminal state. The filter on
// status makes the check-and-set atomic: a booking that has already
// been decided matches nothing and mongo.ErrNoDocuments is returned.
func (r *MongoRepository) Decide(ctx context.Context, id, status, adminNotes string, now time.Time) (Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{
		"$set": bson.M{
			"status":      status,
			"admin_notes": adminNotes,
			"updated_at":  now,
		},
	}

	var updated Booking
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": StatusPending},
		update, opts,
	).Decode(&updated)
	if err != nil {
		return Booking{}, err
	}
	return updated, nil
}

func (r *MongoRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
