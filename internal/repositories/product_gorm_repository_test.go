package repositories_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gudang/internal/apperrors"
	"gudang/internal/models"
	"gudang/internal/repositories"
)

const (
	ownerID = "11111111-1111-1111-1111-111111111111"
	otherID = "22222222-2222-2222-2222-222222222222"
)

// memoryDSN names the in-memory database after the test so parallel
// connections share one database without leaking state between tests.
func memoryDSN(t *testing.T) string {
	t.Helper()
	return "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
}

func setupRepo(t *testing.T) *repositories.GORMProductRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(memoryDSN(t)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))

	return repositories.NewGORMProductRepository(db)
}

func newProduct(name string, quantity int64, purchase, sale float64) *models.Product {
	return &models.Product{
		UserID:        ownerID,
		Name:          name,
		Quantity:      quantity,
		PurchasePrice: purchase,
		SalePrice:     sale,
	}
}

func int64p(v int64) *int64       { return &v }
func float64p(v float64) *float64 { return &v }
func stringp(v string) *string    { return &v }

func TestCreateThenGetByID(t *testing.T) {
	repo := setupRepo(t)

	created := newProduct("Widget", 5, 2.5, 4.0)
	require.NoError(t, repo.Create(created))

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())

	fetched, err := repo.GetByID(ownerID, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)

	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Widget", fetched.Name)
	assert.Equal(t, int64(5), fetched.Quantity)
	assert.Equal(t, 2.5, fetched.PurchasePrice)
	assert.Equal(t, 4.0, fetched.SalePrice)
	assert.False(t, fetched.DeletedAt.Valid)
}

func TestGetByIDAbsenceIsNotAnError(t *testing.T) {
	repo := setupRepo(t)

	fetched, err := repo.GetByID(ownerID, "no-such-id")
	assert.NoError(t, err)
	assert.Nil(t, fetched)
}

func TestGetAllSortedByName(t *testing.T) {
	repo := setupRepo(t)

	for _, name := range []string{"Zebra", "Apple", "Mango"} {
		require.NoError(t, repo.Create(newProduct(name, 1, 1, 1)))
	}

	products, err := repo.GetAll(ownerID)
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, "Apple", products[0].Name)
	assert.Equal(t, "Mango", products[1].Name)
	assert.Equal(t, "Zebra", products[2].Name)
}

func TestGetAllScopedToOwner(t *testing.T) {
	repo := setupRepo(t)

	mine := newProduct("Mine", 1, 1, 1)
	require.NoError(t, repo.Create(mine))

	theirs := newProduct("Theirs", 1, 1, 1)
	theirs.UserID = otherID
	require.NoError(t, repo.Create(theirs))

	products, err := repo.GetAll(ownerID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Mine", products[0].Name)

	fetched, err := repo.GetByID(ownerID, theirs.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched, "another user's product must be invisible")
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	repo := setupRepo(t)

	created := newProduct("Widget", 5, 2.5, 4.0)
	require.NoError(t, repo.Create(created))
	createdAt := created.CreatedAt

	time.Sleep(10 * time.Millisecond)

	updated, err := repo.Update(ownerID, created.ID, &models.ProductUpdate{Quantity: int64p(10)})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, int64(10), updated.Quantity)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, 2.5, updated.PurchasePrice)
	assert.Equal(t, 4.0, updated.SalePrice)
	assert.Equal(t, createdAt.Unix(), updated.CreatedAt.Unix())
	assert.True(t, updated.UpdatedAt.After(createdAt), "update timestamp must advance")
}

func TestUpdateSeveralFields(t *testing.T) {
	repo := setupRepo(t)

	created := newProduct("Widget", 5, 2.5, 4.0)
	require.NoError(t, repo.Create(created))

	updated, err := repo.Update(ownerID, created.ID, &models.ProductUpdate{
		Name:      stringp("Gadget"),
		SalePrice: float64p(9.99),
		Code:      stringp("WID-01"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Gadget", updated.Name)
	assert.Equal(t, 9.99, updated.SalePrice)
	require.NotNil(t, updated.Code)
	assert.Equal(t, "WID-01", *updated.Code)
	assert.Equal(t, int64(5), updated.Quantity)
}

func TestUpdateMissingRow(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.Update(ownerID, "no-such-id", &models.ProductUpdate{Quantity: int64p(1)})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteIsSoft(t *testing.T) {
	repo := setupRepo(t)

	created := newProduct("Widget", 5, 2.5, 4.0)
	require.NoError(t, repo.Create(created))

	require.NoError(t, repo.Delete(ownerID, created.ID))

	fetched, err := repo.GetByID(ownerID, created.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched, "deleted product must read as absent")

	products, err := repo.GetAll(ownerID)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestDeleteKeepsTheRow(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(memoryDSN(t)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	repo := repositories.NewGORMProductRepository(db)

	created := newProduct("Widget", 5, 2.5, 4.0)
	require.NoError(t, repo.Create(created))
	require.NoError(t, repo.Delete(ownerID, created.ID))

	var row models.Product
	require.NoError(t, db.Unscoped().Where("id = ?", created.ID).First(&row).Error)
	assert.True(t, row.DeletedAt.Valid, "deletion timestamp must be set, row not removed")
}

func TestUpdateSoftDeletedRowIsNotFound(t *testing.T) {
	repo := setupRepo(t)

	created := newProduct("Widget", 5, 2.5, 4.0)
	require.NoError(t, repo.Create(created))
	require.NoError(t, repo.Delete(ownerID, created.ID))

	_, err := repo.Update(ownerID, created.ID, &models.ProductUpdate{Quantity: int64p(1)})
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "update must not resurrect a deleted row")

	err = repo.Delete(ownerID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// Full lifecycle: insert, patch, delete.
func TestWidgetLifecycle(t *testing.T) {
	repo := setupRepo(t)

	created := newProduct("Widget", 5, 2.5, 4.0)
	require.NoError(t, repo.Create(created))
	assert.False(t, created.DeletedAt.Valid)

	updated, err := repo.Update(ownerID, created.ID, &models.ProductUpdate{Quantity: int64p(10)})
	require.NoError(t, err)
	assert.Equal(t, int64(10), updated.Quantity)
	assert.Equal(t, 2.5, updated.PurchasePrice)

	require.NoError(t, repo.Delete(ownerID, created.ID))

	fetched, err := repo.GetByID(ownerID, created.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched)

	products, err := repo.GetAll(ownerID)
	require.NoError(t, err)
	assert.Empty(t, products)
}
