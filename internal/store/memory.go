package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryDatabase is an in-process Database for local runs and tests.
// Filters support top-level equality only; updates support $set, $inc and
// $setOnInsert.
type MemoryDatabase struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
}

var _ Database = (*MemoryDatabase)(nil)

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{collections: make(map[string]*memoryCollection)}
}

func (d *MemoryDatabase) Collection(name string) Collection {
	return d.collection(name)
}

func (d *MemoryDatabase) collection(name string) *memoryCollection {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.collections[name]
	if !ok {
		c = &memoryCollection{name: name}
		d.collections[name] = c
	}
	return c
}

func (d *MemoryDatabase) EnsureIndexes(ctx context.Context) error {
	c := d.collection(Users)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unique = "email"
	return nil
}

func (d *MemoryDatabase) Ping(ctx context.Context) error  { return ctx.Err() }
func (d *MemoryDatabase) Close(ctx context.Context) error { return nil }

type memoryCollection struct {
	name   string
	unique string

	mu   sync.RWMutex
	docs []bson.M
}

func (c *memoryCollection) FindOne(ctx context.Context, filter bson.M, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, doc := range c.docs {
		if matches(doc, filter) {
			raw, err := bson.Marshal(doc)
			if err != nil {
				return fmt.Errorf("%s findOne: %w", c.name, err)
			}
			return bson.Unmarshal(raw, out)
		}
	}
	return ErrNotFound
}

func (c *memoryCollection) Find(ctx context.Context, filter bson.M) ([]bson.M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	docs := []bson.M{}
	for _, doc := range c.docs {
		if matches(doc, filter) {
			cp, err := clone(doc)
			if err != nil {
				return nil, fmt.Errorf("%s find: %w", c.name, err)
			}
			docs = append(docs, cp)
		}
	}
	return docs, nil
}

func (c *memoryCollection) InsertOne(ctx context.Context, doc bson.M) (*InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cp, err := clone(doc)
	if err != nil {
		return nil, fmt.Errorf("%s insertOne: %w", c.name, err)
	}
	if _, ok := cp["_id"]; !ok {
		cp["_id"] = primitive.NewObjectID()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkUnique(cp, -1); err != nil {
		return nil, err
	}
	c.docs = append(c.docs, cp)
	return &InsertResult{Acknowledged: true, InsertedID: cp["_id"]}, nil
}

func (c *memoryCollection) UpdateOne(ctx context.Context, filter, update bson.M, upsert bool) (*UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, doc := range c.docs {
		if !matches(doc, filter) {
			continue
		}
		next, err := clone(doc)
		if err != nil {
			return nil, fmt.Errorf("%s updateOne: %w", c.name, err)
		}
		if err := applyUpdate(next, update, false); err != nil {
			return nil, fmt.Errorf("%s updateOne: %w", c.name, err)
		}
		if next, err = clone(next); err != nil {
			return nil, fmt.Errorf("%s updateOne: %w", c.name, err)
		}
		if err := c.checkUnique(next, i); err != nil {
			return nil, err
		}

		res := &UpdateResult{Acknowledged: true, MatchedCount: 1}
		if !reflect.DeepEqual(doc, next) {
			c.docs[i] = next
			res.ModifiedCount = 1
		}
		return res, nil
	}

	if !upsert {
		return &UpdateResult{Acknowledged: true}, nil
	}

	doc := bson.M{}
	for k, v := range filter {
		if !strings.HasPrefix(k, "$") {
			doc[k] = v
		}
	}
	if err := applyUpdate(doc, update, true); err != nil {
		return nil, fmt.Errorf("%s updateOne: %w", c.name, err)
	}
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	doc, err := clone(doc)
	if err != nil {
		return nil, fmt.Errorf("%s updateOne: %w", c.name, err)
	}
	if err := c.checkUnique(doc, -1); err != nil {
		return nil, err
	}
	c.docs = append(c.docs, doc)

	return &UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: doc["_id"]}, nil
}

func (c *memoryCollection) DeleteOne(ctx context.Context, filter bson.M) (*DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, doc := range c.docs {
		if matches(doc, filter) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return &DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return &DeleteResult{Acknowledged: true}, nil
}

// checkUnique must be called with c.mu held. skip is the index of the
// document being replaced, or -1.
func (c *memoryCollection) checkUnique(doc bson.M, skip int) error {
	for i, other := range c.docs {
		if i == skip {
			continue
		}
		if valuesEqual(other["_id"], doc["_id"]) {
			return fmt.Errorf("%s: %w: _id %v", c.name, ErrDuplicateKey, doc["_id"])
		}
		if c.unique == "" {
			continue
		}
		v, ok := doc[c.unique]
		if ok && valuesEqual(other[c.unique], v) {
			return fmt.Errorf("%s: %w: %s %v", c.name, ErrDuplicateKey, c.unique, v)
		}
	}
	return nil
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if want == nil {
			if ok && got != nil {
				return false
			}
			continue
		}
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

func applyUpdate(doc, update bson.M, inserting bool) error {
	for op, arg := range update {
		fields, ok := asDocument(arg)
		if !ok {
			return fmt.Errorf("%s expects a document, got %T", op, arg)
		}
		switch op {
		case "$set":
			for k, v := range fields {
				doc[k] = v
			}
		case "$setOnInsert":
			if !inserting {
				continue
			}
			for k, v := range fields {
				doc[k] = v
			}
		case "$inc":
			for k, v := range fields {
				sum, err := increment(doc[k], v)
				if err != nil {
					return fmt.Errorf("$inc %s: %w", k, err)
				}
				doc[k] = sum
			}
		default:
			return fmt.Errorf("unsupported update operator %q", op)
		}
	}
	return nil
}

func asDocument(v any) (map[string]any, bool) {
	switch d := v.(type) {
	case bson.M:
		return d, true
	case map[string]any:
		return d, true
	}
	return nil, false
}

func increment(cur, by any) (any, error) {
	if cur == nil {
		if _, ok := toFloat(by); !ok {
			return nil, fmt.Errorf("non-numeric increment %T", by)
		}
		return by, nil
	}
	ci, cInt := toInt(cur)
	bi, bInt := toInt(by)
	if cInt && bInt {
		return ci + bi, nil
	}
	cf, ok := toFloat(cur)
	if !ok {
		return nil, fmt.Errorf("cannot increment non-numeric field of type %T", cur)
	}
	bf, ok := toFloat(by)
	if !ok {
		return nil, fmt.Errorf("non-numeric increment %T", by)
	}
	return cf + bf, nil
}

func valuesEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
	}
	return reflect.DeepEqual(a, b)
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	if i, ok := toInt(v); ok {
		return float64(i), true
	}
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// clone deep-copies a document through its BSON encoding so stored state
// never aliases caller maps.
func clone(doc bson.M) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
