package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gudang/internal/cache"
	"gudang/internal/models"
	"gudang/internal/services"
)

// countingProductService records how often each method reaches the
// backing service, so tests can tell hits from misses.
type countingProductService struct {
	fetchAllCalls  int
	fetchByIDCalls int
	products       []models.Product
}

func (s *countingProductService) FetchAll(userID string) ([]models.Product, error) {
	s.fetchAllCalls++
	return s.products, nil
}

func (s *countingProductService) FetchByID(userID, id string) (*models.Product, error) {
	s.fetchByIDCalls++
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, nil
}

func (s *countingProductService) Create(userID string, payload *models.ProductInsert) (*models.Product, error) {
	product := models.Product{ID: "new-id", UserID: userID, Name: payload.Name}
	s.products = append(s.products, product)
	return &product, nil
}

func (s *countingProductService) Update(userID, id string, updates *models.ProductUpdate) (*models.Product, error) {
	return &models.Product{ID: id, UserID: userID}, nil
}

func (s *countingProductService) Delete(userID, id string) (string, error) {
	return id, nil
}

func setupCached(products ...models.Product) (*services.CachedProductService, *countingProductService, *cache.MemoryStore) {
	next := &countingProductService{products: products}
	store := cache.NewMemoryStore()
	return services.NewCachedProductService(next, store), next, store
}

func TestCachedFetchAllCachesPerUser(t *testing.T) {
	cached, next, _ := setupCached(models.Product{ID: "p1", Name: "Widget"})

	first, err := cached.FetchAll(testUserID)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, next.fetchAllCalls)

	second, err := cached.FetchAll(testUserID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.fetchAllCalls, "second read must be served from cache")

	_, err = cached.FetchAll("another-user")
	require.NoError(t, err)
	assert.Equal(t, 2, next.fetchAllCalls, "cache entries are scoped per user")
}

func TestCachedFetchByID(t *testing.T) {
	cached, next, _ := setupCached(models.Product{ID: "p1", Name: "Widget"})

	product, err := cached.FetchByID(testUserID, "p1")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, 1, next.fetchByIDCalls)

	_, err = cached.FetchByID(testUserID, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, next.fetchByIDCalls)
}

func TestCachedFetchByIDDoesNotCacheAbsence(t *testing.T) {
	cached, next, _ := setupCached()

	product, err := cached.FetchByID(testUserID, "missing")
	require.NoError(t, err)
	assert.Nil(t, product)

	_, err = cached.FetchByID(testUserID, "missing")
	require.NoError(t, err)
	assert.Equal(t, 2, next.fetchByIDCalls, "absence must be re-checked, not cached")
}

func TestCachedFetchRequiresUser(t *testing.T) {
	cached, next, _ := setupCached()

	_, err := cached.FetchAll("")
	assert.ErrorIs(t, err, services.ErrNoActiveUser)

	_, err = cached.FetchByID("", "p1")
	assert.ErrorIs(t, err, services.ErrNoActiveUser)

	assert.Zero(t, next.fetchAllCalls)
	assert.Zero(t, next.fetchByIDCalls)
}

func TestCreateInvalidatesCollection(t *testing.T) {
	cached, next, _ := setupCached(models.Product{ID: "p1", Name: "Widget"})

	_, err := cached.FetchAll(testUserID)
	require.NoError(t, err)

	_, err = cached.Create(testUserID, validInsert())
	require.NoError(t, err)

	products, err := cached.FetchAll(testUserID)
	require.NoError(t, err)
	assert.Len(t, products, 2, "read after create must see the new product")
	assert.Equal(t, 2, next.fetchAllCalls)
}

func TestUpdateInvalidatesCollectionAndRecord(t *testing.T) {
	cached, next, _ := setupCached(models.Product{ID: "p1", Name: "Widget"})

	_, err := cached.FetchAll(testUserID)
	require.NoError(t, err)
	_, err = cached.FetchByID(testUserID, "p1")
	require.NoError(t, err)

	quantity := int64(10)
	_, err = cached.Update(testUserID, "p1", &models.ProductUpdate{Quantity: &quantity})
	require.NoError(t, err)

	_, err = cached.FetchAll(testUserID)
	require.NoError(t, err)
	_, err = cached.FetchByID(testUserID, "p1")
	require.NoError(t, err)

	assert.Equal(t, 2, next.fetchAllCalls)
	assert.Equal(t, 2, next.fetchByIDCalls)
}

func TestDeleteInvalidatesCollectionAndRecord(t *testing.T) {
	cached, _, store := setupCached(models.Product{ID: "p1", Name: "Widget"})

	_, err := cached.FetchAll(testUserID)
	require.NoError(t, err)
	_, err = cached.FetchByID(testUserID, "p1")
	require.NoError(t, err)

	id, err := cached.Delete(testUserID, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", id)

	var scratch []models.Product
	hit, err := store.Get(context.Background(), cache.ProductsKey(testUserID), &scratch)
	require.NoError(t, err)
	assert.False(t, hit, "collection key must be dropped")

	var one models.Product
	hit, err = store.Get(context.Background(), cache.ProductKey(testUserID, "p1"), &one)
	require.NoError(t, err)
	assert.False(t, hit, "record key must be dropped")
}
