package service

import (
	"testing"

	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCartServiceForTest(testDB *gorm.DB) CartService {
	cartRepo := repository.NewCartRepository(testDB)
	itemRepo := repository.NewItemRepository(testDB)
	return NewCartService(cartRepo, itemRepo)
}

func TestCartService_AddItem(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc := newCartServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)
	buyer := createServiceUser(t, testDB, "buyer", false)
	item := createServiceItem(t, testDB, seller.ID, "Widget", "ELE000001", 25.00, 5)

	cart, err := svc.AddItem(buyer.ID, item.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	// adding more merges and caps at stock
	cart, err = svc.AddItem(buyer.ID, item.ID, 10)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCartService_AddItem_OwnItem(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc := newCartServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)
	item := createServiceItem(t, testDB, seller.ID, "Widget", "ELE000001", 25.00, 5)

	_, err := svc.AddItem(seller.ID, item.ID, 1)
	assert.ErrorIs(t, err, ErrOwnItem)
}

func TestCartService_AddItem_Unavailable(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc := newCartServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)
	buyer := createServiceUser(t, testDB, "buyer", false)
	item := createServiceItem(t, testDB, seller.ID, "Out", "ELE000001", 25.00, 0)

	_, err := svc.AddItem(buyer.ID, item.ID, 1)
	assert.ErrorIs(t, err, ErrItemUnavailable)

	_, err = svc.AddItem(buyer.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = svc.AddItem(buyer.ID, item.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc := newCartServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)
	buyer := createServiceUser(t, testDB, "buyer", false)
	item := createServiceItem(t, testDB, seller.ID, "Widget", "ELE000001", 25.00, 5)

	_, err := svc.AddItem(buyer.ID, item.ID, 1)
	require.NoError(t, err)

	cart, err := svc.UpdateItemQuantity(buyer.ID, item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	_, err = svc.UpdateItemQuantity(buyer.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrItemNotFound)

	cart, err = svc.RemoveItem(buyer.ID, item.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = svc.RemoveItem(buyer.ID, item.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}
