package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ViacheslavGIT/MegaMart/internal/models"
)

// testDB connects to MEGAMART_TEST_MONGO_URL and hands out a throwaway
// database, dropped on cleanup.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MEGAMART_TEST_MONGO_URL")
	if uri == "" {
		t.Skip("MEGAMART_TEST_MONGO_URL not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, uri)
	require.NoError(t, err)
	db := client.Database("megamart_test_" + primitive.NewObjectID().Hex())
	require.NoError(t, EnsureIndexes(ctx, db))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestProductsPaging(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	products := NewProducts(db)

	var all []models.Product
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		all = append(all, models.Product{Name: name, Category: "Phones", Brand: "Acme"})
	}
	require.NoError(t, products.ReplaceAll(ctx, all))

	page, total, err := products.List(ctx, models.ProductFilter{Category: "phone"}, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].Name)

	p, err := products.At(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "e", p.Name)

	_, err = products.At(ctx, 5)
	assert.Error(t, err)
}

func TestOrdersNewestFirstOnTies(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	orders := NewOrders(db)
	user := primitive.NewObjectID()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	var placed []primitive.ObjectID
	for range 4 {
		o := &models.Order{UserID: user, CreatedAt: at}
		require.NoError(t, orders.Create(ctx, o))
		placed = append(placed, o.ID)
	}

	list, err := orders.ListByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i, o := range list {
		assert.Equal(t, placed[len(placed)-1-i], o.ID, "position %d", i)
	}
}
