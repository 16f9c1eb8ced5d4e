package user

import (
	"context"
	"errors"

	"github.com/nookcoder/inventory-gateway/internal/store"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// Record is the typed view of a users document. Other submitted fields are
// kept in the document but not decoded here.
type Record struct {
	Email    string  `bson:"email" json:"email"`
	Role     string  `bson:"role,omitempty" json:"role,omitempty"`
	ShopID   any     `bson:"shop_id,omitempty" json:"shop_id,omitempty"`
	ShopName string  `bson:"shop_name,omitempty" json:"shop_name,omitempty"`
	ShopLogo string  `bson:"shop_logo,omitempty" json:"shop_logo,omitempty"`
	Income   float64 `bson:"income,omitempty" json:"income,omitempty"`
}

// CreateResult is the outcome of Create. InsertedID is nil when a record
// with the same email already existed.
type CreateResult struct {
	InsertedID any
}

func (r *CreateResult) Created() bool { return r.InsertedID != nil }

type Repository struct {
	users store.Collection
}

func NewRepository(db store.Database) *Repository {
	return &Repository{users: db.Collection(store.Users)}
}

// FindByEmail returns store.ErrNotFound when there is no such user.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*Record, error) {
	var rec Record
	if err := r.users.FindOne(ctx, store.ByEmail(email), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) FindRole(ctx context.Context, email string) (string, bool, error) {
	rec, err := r.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.Role, true, nil
}

func (r *Repository) HasRole(ctx context.Context, email, role string) (bool, error) {
	stored, found, err := r.FindRole(ctx, email)
	return found && stored == role, err
}

func (r *Repository) ListByEmail(ctx context.Context, email string) ([]bson.M, error) {
	return r.users.Find(ctx, store.ByEmail(email))
}

func (r *Repository) List(ctx context.Context) ([]bson.M, error) {
	return r.users.Find(ctx, bson.M{})
}

// Create inserts doc unless a user with the same email exists. It is a
// single upsert, so concurrent sign-ins cannot create duplicates.
func (r *Repository) Create(ctx context.Context, doc bson.M) (*CreateResult, error) {
	email, _ := doc["email"].(string)
	if email == "" {
		return nil, errors.New("user document has no email")
	}

	fields := bson.M{}
	for k, v := range doc {
		if k != "_id" {
			fields[k] = v
		}
	}

	res, err := r.users.UpdateOne(ctx, store.ByEmail(email), bson.M{"$setOnInsert": fields}, true)
	if errors.Is(err, store.ErrDuplicateKey) {
		// lost a race against an identical sign-in
		return &CreateResult{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &CreateResult{InsertedID: res.UpsertedID}, nil
}

// PromoteToManager sets the manager role and shop fields on the user with
// email, creating the record if needed.
func (r *Repository) PromoteToManager(ctx context.Context, email string, shop bson.M) (*store.UpdateResult, error) {
	set := bson.M{"role": RoleManager}
	for k, v := range shop {
		set[k] = v
	}
	return r.users.UpdateOne(ctx, store.ByEmail(email), bson.M{"$set": set}, true)
}

func (r *Repository) Delete(ctx context.Context, id string) (*store.DeleteResult, error) {
	filter, err := store.ByID(id)
	if err != nil {
		return nil, err
	}
	return r.users.DeleteOne(ctx, filter)
}

// AddIncome atomically increments the income accumulator of user id.
func (r *Repository) AddIncome(ctx context.Context, id string, amount float64) (*store.UpdateResult, error) {
	filter, err := store.ByID(id)
	if err != nil {
		return nil, err
	}
	return r.users.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"income": amount}}, false)
}
