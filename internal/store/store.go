// Package store is the document-store layer. Handlers receive a Database
// through their constructors; there are no package-level client handles.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names.
const (
	Users    = "users"
	Shops    = "shops"
	Products = "products"
	Sales    = "sales"
	Reviews  = "reviews"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidID    = errors.New("invalid object id")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Collection is the subset of document-store operations the handlers use.
// Each call is a single atomic operation on one document or one query.
type Collection interface {
	// FindOne decodes the first match into out, or returns ErrNotFound.
	FindOne(ctx context.Context, filter bson.M, out any) error
	// Find returns every match. It never returns a nil slice.
	Find(ctx context.Context, filter bson.M) ([]bson.M, error)
	InsertOne(ctx context.Context, doc bson.M) (*InsertResult, error)
	UpdateOne(ctx context.Context, filter, update bson.M, upsert bool) (*UpdateResult, error)
	DeleteOne(ctx context.Context, filter bson.M) (*DeleteResult, error)
}

type Database interface {
	Collection(name string) Collection
	// EnsureIndexes creates the unique email index on users.
	EnsureIndexes(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// InsertResult mirrors the driver's insert result on the wire.
type InsertResult struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
	UpsertedCount int64 `json:"upsertedCount"`
	UpsertedID    any   `json:"upsertedId"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// ParseID converts a hex string into an ObjectID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, hex)
	}
	return id, nil
}

// ByID returns an _id filter for hex.
func ByID(hex string) (bson.M, error) {
	id, err := ParseID(hex)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": id}, nil
}

// ByEmail returns an email equality filter.
func ByEmail(email string) bson.M {
	return bson.M{"email": email}
}
