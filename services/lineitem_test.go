package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"du-electronics-server/models"
	"du-electronics-server/repository"
)

func newTestLineItemService(t *testing.T) (*LineItemService, models.Product) {
	t.Helper()

	svc := &LineItemService{
		Products:   repository.NewMemory(),
		Carts:      repository.NewMemory(),
		Favourites: repository.NewMemory(),
	}
	product := models.Product{
		ID:       primitive.NewObjectID(),
		Name:     "Noise-cancelling headphones",
		Brand:    "Sonica",
		Category: "audio",
		Price:    129.99,
	}
	_, err := svc.Products.InsertOne(context.Background(), product)
	require.NoError(t, err)
	return svc, product
}

func TestLineItemService_AddOrIncrement_CartCountsRepeats(t *testing.T) {
	t.Parallel()

	svc, product := newTestLineItemService(t)
	ctx := context.Background()

	var item *models.LineItem
	for i := 0; i < 5; i++ {
		var err error
		item, err = svc.AddOrIncrement(ctx, KindCart, "a@x.com", product.ID.Hex())
		require.NoError(t, err)
	}

	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, product.Name, item.Name)
	assert.Equal(t, product.Price, item.Price)

	items, _, err := svc.List(ctx, KindCart, "a@x.com")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestLineItemService_AddOrIncrement_FavouritesIsASet(t *testing.T) {
	t.Parallel()

	svc, product := newTestLineItemService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		item, err := svc.AddOrIncrement(ctx, KindFavourites, "a@x.com", product.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, 1, item.Quantity)
	}

	items, _, err := svc.List(ctx, KindFavourites, "a@x.com")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestLineItemService_AddOrIncrement_ConcurrentAddsStayUnique(t *testing.T) {
	t.Parallel()

	svc, product := newTestLineItemService(t)
	ctx := context.Background()

	const adds = 32
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddOrIncrement(ctx, KindCart, "a@x.com", product.ID.Hex())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, _, err := svc.List(ctx, KindCart, "a@x.com")
	require.NoError(t, err)
	require.Len(t, items, 1, "concurrent adds must not duplicate the line item")
	assert.Equal(t, adds, items[0].Quantity)
}

func TestLineItemService_AddOrIncrement_Validation(t *testing.T) {
	t.Parallel()

	svc, product := newTestLineItemService(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		kind       Kind
		email      string
		productRef string
		wantErr    error
	}{
		{name: "unknown product", kind: KindCart, email: "a@x.com", productRef: primitive.NewObjectID().Hex(), wantErr: ErrNotFound},
		{name: "malformed product ref", kind: KindCart, email: "a@x.com", productRef: "not-an-id", wantErr: ErrValidation},
		{name: "missing email", kind: KindCart, email: "", productRef: product.ID.Hex(), wantErr: ErrValidation},
		{name: "unknown collection", kind: Kind("wishlists"), email: "a@x.com", productRef: product.ID.Hex(), wantErr: ErrValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddOrIncrement(ctx, tc.kind, tc.email, tc.productRef)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestLineItemService_Remove(t *testing.T) {
	t.Parallel()

	svc, product := newTestLineItemService(t)
	ctx := context.Background()

	item, err := svc.AddOrIncrement(ctx, KindCart, "a@x.com", product.ID.Hex())
	require.NoError(t, err)

	deleted, err := svc.Remove(ctx, KindCart, item.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// Removing an id that no longer exists is a zero-affected result.
	deleted, err = svc.Remove(ctx, KindCart, item.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	_, err = svc.Remove(ctx, KindCart, "garbage")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLineItemService_Clear(t *testing.T) {
	t.Parallel()

	svc, product := newTestLineItemService(t)
	ctx := context.Background()

	_, err := svc.AddOrIncrement(ctx, KindCart, "a@x.com", product.ID.Hex())
	require.NoError(t, err)
	_, err = svc.AddOrIncrement(ctx, KindCart, "b@x.com", product.ID.Hex())
	require.NoError(t, err)

	deleted, err := svc.Clear(ctx, KindCart)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, count, err := svc.List(ctx, KindCart, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = svc.Clear(ctx, KindFavourites)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLineItemService_List_CountIsCollectionWide(t *testing.T) {
	t.Parallel()

	svc, product := newTestLineItemService(t)
	ctx := context.Background()

	_, err := svc.AddOrIncrement(ctx, KindCart, "a@x.com", product.ID.Hex())
	require.NoError(t, err)
	_, err = svc.AddOrIncrement(ctx, KindCart, "b@x.com", product.ID.Hex())
	require.NoError(t, err)

	items, count, err := svc.List(ctx, KindCart, "a@x.com")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a@x.com", items[0].Email)
	assert.Equal(t, int64(2), count)
}
