package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"itinerary-watch-service/internal/domain"
	"itinerary-watch-service/internal/timeutil"
)

// MongoDocumentStore keeps one document per traveler in the travelers
// collection, keyed by traveler id.
//
// Writes are merge updates: each save touches only its own field plus
// updatedAt, and optional fields absent from the structs are omitted from the
// stored document via their omitempty tags (never written as null). Clearing
// the failure record removes the field itself.
type MongoDocumentStore struct {
	coll  *mongo.Collection
	nowFn func() time.Time
}

func NewMongoDocumentStore(db *mongo.Database) *MongoDocumentStore {
	return &MongoDocumentStore{
		coll:  db.Collection("travelers"),
		nowFn: time.Now,
	}
}

type travelerRecord struct {
	ID            string                `bson:"_id"`
	Itinerary     *domain.Itinerary     `bson:"itinerary,omitempty"`
	FailureRecord *domain.FailureRecord `bson:"failureRecord,omitempty"`
	UpdatedAt     timeutil.Instant      `bson:"updatedAt"`
}

func (s *MongoDocumentStore) Load(ctx context.Context, travelerID string) (*domain.TravelerDoc, error) {
	var rec travelerRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": travelerID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load traveler doc %q: %w", travelerID, err)
	}

	return &domain.TravelerDoc{
		Itinerary:     rec.Itinerary,
		FailureRecord: rec.FailureRecord,
		UpdatedAt:     rec.UpdatedAt,
	}, nil
}

func (s *MongoDocumentStore) SaveItinerary(ctx context.Context, travelerID string, itin *domain.Itinerary) error {
	update := bson.M{"$set": bson.M{
		"itinerary": itin,
		"updatedAt": timeutil.FromTime(s.nowFn()),
	}}

	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": travelerID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save itinerary for %q: %w", travelerID, err)
	}
	return nil
}

func (s *MongoDocumentStore) SaveFailureRecord(ctx context.Context, travelerID string, rec *domain.FailureRecord) error {
	update := bson.M{"$set": bson.M{
		"failureRecord": rec,
		"updatedAt":     timeutil.FromTime(s.nowFn()),
	}}

	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": travelerID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save failure record for %q: %w", travelerID, err)
	}
	return nil
}

func (s *MongoDocumentStore) ClearFailureRecord(ctx context.Context, travelerID string) error {
	// No upsert: clearing for an unknown traveler is a no-op, not an error.
	update := bson.M{
		"$unset": bson.M{"failureRecord": ""},
		"$set":   bson.M{"updatedAt": timeutil.FromTime(s.nowFn())},
	}

	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": travelerID}, update)
	if err != nil {
		return fmt.Errorf("clear failure record for %q: %w", travelerID, err)
	}
	return nil
}
