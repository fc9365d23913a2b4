package repository

import (
	"errors"
	"testing"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) (*gorm.DB, CartRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewCartRepository(testDB)
	return testDB, repo
}

func TestCartRepository_GetOrCreateByUserID(t *testing.T) {
	testDB, repo := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	user := createTestSeller(t, testDB, "buyer1")

	cart, err := repo.GetOrCreateByUserID(user.ID)
	require.NoError(t, err)
	assert.NotZero(t, cart.ID)

	// Second call returns the same cart
	again, err := repo.GetOrCreateByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartRepository_AddItem_MergesLines(t *testing.T) {
	testDB, repo := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	user := createTestSeller(t, testDB, "buyer1")
	seller := createTestSeller(t, testDB, "seller1")

	item := model.Item{
		Name: "Mug", Price: 9.99, Quantity: 20,
		Category: model.CategoryHomeKitchen, Condition: model.ConditionNew,
		SKU: "HOM000001", SellerID: seller.ID, IsAvailable: true,
	}
	require.NoError(t, testDB.Create(&item).Error)

	cart, err := repo.GetOrCreateByUserID(user.ID)
	require.NoError(t, err)

	line, err := repo.AddItem(cart.ID, item.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)

	// Adding again merges into the existing line
	line, err = repo.AddItem(cart.ID, item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)

	var count int64
	require.NoError(t, testDB.Model(&model.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCartRepository_UpdateItemQuantity_NotFound(t *testing.T) {
	testDB, repo := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	user := createTestSeller(t, testDB, "buyer1")
	cart, err := repo.GetOrCreateByUserID(user.ID)
	require.NoError(t, err)

	err = repo.UpdateItemQuantity(cart.ID, 999, 3)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCartRepository_Clear(t *testing.T) {
	testDB, repo := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	user := createTestSeller(t, testDB, "buyer1")
	seller := createTestSeller(t, testDB, "seller1")

	item := model.Item{
		Name: "Mug", Price: 9.99, Quantity: 20,
		Category: model.CategoryHomeKitchen, Condition: model.ConditionNew,
		SKU: "HOM000001", SellerID: seller.ID, IsAvailable: true,
	}
	require.NoError(t, testDB.Create(&item).Error)

	cart, err := repo.GetOrCreateByUserID(user.ID)
	require.NoError(t, err)
	_, err = repo.AddItem(cart.ID, item.ID, 2)
	require.NoError(t, err)

	require.NoError(t, repo.Clear(nil, cart.ID))

	var count int64
	require.NoError(t, testDB.Model(&model.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
