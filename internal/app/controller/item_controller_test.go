package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/internal/app/service"
	"github.com/bazaarhq/bazaar-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubBrowsingCache satisfies service.BrowsingCache for routes that never
// carry a browsing session.
type stubBrowsingCache struct{}

func (stubBrowsingCache) TrackItemView(context.Context, string, uint, int) error {
	return nil
}

func (stubBrowsingCache) RecentlyViewed(context.Context, string, int) ([]uint, error) {
	return nil, nil
}

func (stubBrowsingCache) SetTrending(context.Context, []uint, time.Duration) error {
	return nil
}

func (stubBrowsingCache) Trending(context.Context) ([]uint, error) {
	return nil, nil
}

func setupItemControllerTest(t *testing.T) (*ItemController, *gin.Engine, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	itemRepo := repository.NewItemRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	itemService := service.NewItemService(itemRepo)
	reviewService := service.NewReviewService(reviewRepo, orderRepo, itemRepo)
	homepageService := service.NewHomepageService(itemRepo, stubBrowsingCache{})
	itemController := NewItemController(itemService, reviewService, homepageService)

	seller := &model.User{
		Email:        "itemseller@example.com",
		PasswordHash: "hash",
		Username:     "itemseller",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(seller).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/items", itemController.SearchItems)
	router.GET("/items/:id", itemController.GetItemByID)
	router.POST("/items", authAs(seller.ID), itemController.CreateItem)
	router.PUT("/items/:id", authAs(seller.ID), itemController.UpdateItem)

	return itemController, router, testDB, seller
}

func createTestItem(t *testing.T, testDB *gorm.DB, sellerID uint, name string, price float64) *model.Item {
	item := &model.Item{
		Name:        name,
		Price:       price,
		Quantity:    10,
		Category:    model.CategoryElectronics,
		Condition:   model.ConditionNew,
		SKU:         fmt.Sprintf("ELE%06d", time.Now().UnixNano()%1000000),
		SellerID:    sellerID,
		IsAvailable: true,
	}
	require.NoError(t, testDB.Create(item).Error)
	return item
}

func TestItemController_SearchItems(t *testing.T) {
	_, router, testDB, seller := setupItemControllerTest(t)

	createTestItem(t, testDB, seller.ID, "USB Cable", 9.99)
	createTestItem(t, testDB, seller.ID, "USB Hub", 24.99)
	createTestItem(t, testDB, seller.ID, "Desk Lamp", 34.99)

	req := httptest.NewRequest(http.MethodGet, "/items?search=usb", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []model.Item `json:"items"`
		Count int          `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	for _, item := range resp.Items {
		assert.Contains(t, item.Name, "USB")
	}
}

func TestItemController_SearchItems_PriceRange(t *testing.T) {
	_, router, testDB, seller := setupItemControllerTest(t)

	createTestItem(t, testDB, seller.ID, "Cheap Thing", 5.00)
	createTestItem(t, testDB, seller.ID, "Mid Thing", 50.00)
	createTestItem(t, testDB, seller.ID, "Pricey Thing", 500.00)

	req := httptest.NewRequest(http.MethodGet, "/items?min_price=10&max_price=100", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []model.Item `json:"items"`
		Count int          `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Mid Thing", resp.Items[0].Name)
}

func TestItemController_GetItemByID(t *testing.T) {
	_, router, testDB, seller := setupItemControllerTest(t)

	item := createTestItem(t, testDB, seller.ID, "Detail Widget", 42.00)
	related := createTestItem(t, testDB, seller.ID, "Related Widget", 39.00)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/items/%d", item.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Detail Widget")
	assert.Contains(t, w.Body.String(), "current_price")
	assert.Contains(t, w.Body.String(), "review_stats")

	// same-category items surface as suggestions, never the item itself
	var resp struct {
		Suggestions []model.Item `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, related.ID, resp.Suggestions[0].ID)

	// the detail view counts as an item view
	var reloaded model.Item
	require.NoError(t, testDB.First(&reloaded, item.ID).Error)
	assert.Equal(t, 1, reloaded.ViewCount)
}

func TestItemController_GetItemByID_NotFound(t *testing.T) {
	_, router, _, _ := setupItemControllerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/items/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ITEM_NOT_FOUND")

	req = httptest.NewRequest(http.MethodGet, "/items/not-a-number", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItemController_CreateItem(t *testing.T) {
	_, router, testDB, seller := setupItemControllerTest(t)

	body, _ := json.Marshal(ItemRequest{
		Name:      "Handmade Mug",
		Price:     18.50,
		Quantity:  3,
		Category:  "home_kitchen",
		Condition: "new",
		ImageURLs: []string{"https://cdn.example.com/mug.jpg"},
	})
	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Item model.Item `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, seller.ID, resp.Item.SellerID)
	assert.NotEmpty(t, resp.Item.SKU)
	assert.True(t, resp.Item.IsAvailable)

	var imageCount int64
	require.NoError(t, testDB.Model(&model.ItemImage{}).
		Where("item_id = ?", resp.Item.ID).Count(&imageCount).Error)
	assert.Equal(t, int64(1), imageCount)
}

func TestItemController_CreateItem_InvalidCategory(t *testing.T) {
	_, router, _, _ := setupItemControllerTest(t)

	body, _ := json.Marshal(ItemRequest{
		Name:      "Mystery Box",
		Price:     10.00,
		Category:  "no_such_category",
		Condition: "new",
	})
	req := httptest.NewRequest(http.MethodPost, "/items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "category")
}

func TestItemController_UpdateItem_NotSeller(t *testing.T) {
	_, router, testDB, _ := setupItemControllerTest(t)

	otherSeller := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Username:     "otherseller",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(otherSeller).Error)
	item := createTestItem(t, testDB, otherSeller.ID, "Not Yours", 15.00)

	body, _ := json.Marshal(ItemRequest{
		Name:      "Hijacked",
		Price:     1.00,
		Category:  "electronics",
		Condition: "new",
	})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/items/%d", item.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}
