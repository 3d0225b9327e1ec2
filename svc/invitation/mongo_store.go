package invitation

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore keeps invitations in a MongoDB collection. The collection
// handle is acquired once and reused for the lifetime of the store.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore wraps the given collection.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Insert(ctx context.Context, doc Document) error {
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Join(ErrDuplicate, err)
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, id bson.ObjectID) (Document, error) {
	var doc Document
	err := s.coll.FindOne(ctx, bson.D{{Key: fieldID, Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find invitation %s: %w", id.Hex(), err)
	}
	return doc, nil
}

func (s *MongoStore) FindRange(ctx context.Context, offset, limit int) ([]Document, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return []Document{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: fieldID, Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}

	docs := []Document{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode invitations: %w", err)
	}
	return docs, nil
}

func (s *MongoStore) Update(ctx context.Context, id bson.ObjectID, doc Document) error {
	replacement := make(Document, len(doc))
	for k, v := range doc {
		if k != fieldID {
			replacement[k] = v
		}
	}

	res, err := s.coll.ReplaceOne(ctx, bson.D{{Key: fieldID, Value: id}}, replacement)
	if err != nil {
		return fmt.Errorf("update invitation %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id.Hex())
	}
	return nil
}

func (s *MongoStore) DeleteByID(ctx context.Context, id bson.ObjectID) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: fieldID, Value: id}})
	if err != nil {
		return false, fmt.Errorf("delete invitation %s: %w", id.Hex(), err)
	}
	return res.DeletedCount > 0, nil
}
