package user_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/nookcoder/inventory-gateway/internal/store"
	"github.com/nookcoder/inventory-gateway/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func newRepo(t *testing.T) (*user.Repository, store.Database) {
	t.Helper()
	db := store.NewMemoryDatabase()
	require.NoError(t, db.EnsureIndexes(context.Background()))
	return user.NewRepository(db), db
}

// failingUpserts is a users collection whose upserts fail with err, as
// MongoDB does when a concurrent upsert on the same email wins.
type failingUpserts struct {
	store.Collection
	err error
}

func (c failingUpserts) UpdateOne(context.Context, bson.M, bson.M, bool) (*store.UpdateResult, error) {
	return nil, c.err
}

type failingDatabase struct {
	store.Database
	users store.Collection
}

func (d failingDatabase) Collection(string) store.Collection { return d.users }

func TestRepository_CreateLostUpsertRace(t *testing.T) {
	dup := fmt.Errorf("users updateOne: %w: E11000", store.ErrDuplicateKey)
	db := failingDatabase{Database: store.NewMemoryDatabase(), users: failingUpserts{err: dup}}
	repo := user.NewRepository(db)

	res, err := repo.Create(context.Background(), bson.M{"email": "a@x.com"})

	require.NoError(t, err)
	assert.False(t, res.Created())
	assert.Nil(t, res.InsertedID)
}

func TestRepository_CreateStoreError(t *testing.T) {
	down := errors.New("no reachable servers")
	db := failingDatabase{Database: store.NewMemoryDatabase(), users: failingUpserts{err: down}}
	repo := user.NewRepository(db)

	_, err := repo.Create(context.Background(), bson.M{"email": "a@x.com"})

	assert.ErrorIs(t, err, down)
}

func TestRepository_CreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, db := newRepo(t)

	first, err := repo.Create(ctx, bson.M{"email": "a@x.com", "name": "Ada"})
	require.NoError(t, err)
	assert.True(t, first.Created())

	second, err := repo.Create(ctx, bson.M{"email": "a@x.com", "name": "Imposter"})
	require.NoError(t, err)
	assert.False(t, second.Created())
	assert.Nil(t, second.InsertedID)

	docs, err := db.Collection(store.Users).Find(ctx, store.ByEmail("a@x.com"))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Ada", docs[0]["name"])
}

func TestRepository_CreateConcurrent(t *testing.T) {
	ctx := context.Background()
	repo, db := newRepo(t)

	var wg sync.WaitGroup
	created := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := repo.Create(ctx, bson.M{"email": "race@x.com"})
			assert.NoError(t, err)
			created <- res != nil && res.Created()
		}()
	}
	wg.Wait()
	close(created)

	n := 0
	for ok := range created {
		if ok {
			n++
		}
	}
	assert.Equal(t, 1, n)
	docs, err := db.Collection(store.Users).Find(ctx, store.ByEmail("race@x.com"))
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestRepository_FindRole(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	_, err := repo.Create(ctx, bson.M{"email": "admin@x.com", "role": "admin"})
	require.NoError(t, err)

	role, found, err := repo.FindRole(ctx, "admin@x.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "admin", role)

	_, found, err = repo.FindRole(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.False(t, found)

	isManager, err := repo.HasRole(ctx, "admin@x.com", user.RoleManager)
	require.NoError(t, err)
	assert.False(t, isManager)
}

func TestRepository_PromoteToManager(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	_, err := repo.Create(ctx, bson.M{"email": "m@x.com"})
	require.NoError(t, err)

	res, err := repo.PromoteToManager(ctx, "m@x.com", bson.M{"shop_id": "s1", "shop_name": "Corner", "shop_logo": "logo.png"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)

	rec, err := repo.FindByEmail(ctx, "m@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, rec.Role)
	assert.Equal(t, "s1", rec.ShopID)
	assert.Equal(t, "Corner", rec.ShopName)
	assert.Equal(t, "logo.png", rec.ShopLogo)
}

func TestRepository_AddIncome(t *testing.T) {
	ctx := context.Background()
	repo, db := newRepo(t)
	ins, err := db.Collection(store.Users).InsertOne(ctx, bson.M{"email": "admin@x.com", "role": "admin", "income": float64(100)})
	require.NoError(t, err)
	id := ins.InsertedID.(interface{ Hex() string }).Hex()

	res, err := repo.AddIncome(ctx, id, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)

	rec, err := repo.FindByEmail(ctx, "admin@x.com")
	require.NoError(t, err)
	assert.Equal(t, float64(150), rec.Income)

	_, err = repo.AddIncome(ctx, "bogus", 1)
	assert.ErrorIs(t, err, store.ErrInvalidID)
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, db := newRepo(t)
	ins, err := db.Collection(store.Users).InsertOne(ctx, bson.M{"email": "gone@x.com"})
	require.NoError(t, err)
	id := ins.InsertedID.(interface{ Hex() string }).Hex()

	res, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DeletedCount)

	_, err = repo.FindByEmail(ctx, "gone@x.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
