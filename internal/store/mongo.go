package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ Database = (*MongoDatabase)(nil)

type MongoDatabase struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDatabase connects to uri with the stable v1 server API and pings
// the deployment before returning.
func NewMongoDatabase(ctx context.Context, uri, name string) (*MongoDatabase, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	d := &MongoDatabase{client: client, db: client.Database(name)}
	if err := d.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	slog.Info("connected to mongodb", slog.String("database", name))
	return d, nil
}

func (d *MongoDatabase) Collection(name string) Collection {
	return &mongoCollection{coll: d.db.Collection(name)}
}

func (d *MongoDatabase) EnsureIndexes(ctx context.Context) error {
	_, err := d.db.Collection(Users).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func (d *MongoDatabase) Ping(ctx context.Context) error {
	if err := d.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return fmt.Errorf("mongodb ping: %w", err)
	}
	return nil
}

func (d *MongoDatabase) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) FindOne(ctx context.Context, filter bson.M, out any) error {
	err := c.coll.FindOne(ctx, nonNil(filter)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%s findOne: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *mongoCollection) Find(ctx context.Context, filter bson.M) ([]bson.M, error) {
	cur, err := c.coll.Find(ctx, nonNil(filter))
	if err != nil {
		return nil, fmt.Errorf("%s find: %w", c.coll.Name(), err)
	}

	docs := []bson.M{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s find: %w", c.coll.Name(), err)
	}
	return docs, nil
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc bson.M) (*InsertResult, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, c.wrap("insertOne", err)
	}
	return &InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter, update bson.M, upsert bool) (*UpdateResult, error) {
	res, err := c.coll.UpdateOne(ctx, nonNil(filter), update, options.Update().SetUpsert(upsert))
	if err != nil {
		return nil, c.wrap("updateOne", err)
	}
	return &UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter bson.M) (*DeleteResult, error) {
	res, err := c.coll.DeleteOne(ctx, nonNil(filter))
	if err != nil {
		return nil, c.wrap("deleteOne", err)
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (c *mongoCollection) wrap(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s %s: %w: %v", c.coll.Name(), op, ErrDuplicateKey, err)
	}
	return fmt.Errorf("%s %s: %w", c.coll.Name(), op, err)
}

func nonNil(filter bson.M) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return filter
}
