package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/internal/app/service"
	"github.com/bazaarhq/bazaar-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewControllerTest(t *testing.T) (*gin.Engine, *gorm.DB, *model.User, *model.Order, *model.Item) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	itemRepo := repository.NewItemRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	reviewService := service.NewReviewService(reviewRepo, orderRepo, itemRepo)
	reviewController := NewReviewController(reviewService)

	seller := &model.User{
		Email:        "reviewseller@example.com",
		PasswordHash: "hash",
		Username:     "reviewseller",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(seller).Error)

	buyer := &model.User{
		Email:        "reviewbuyer@example.com",
		PasswordHash: "hash",
		Username:     "reviewbuyer",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(buyer).Error)

	item := &model.Item{
		Name:        "Reviewed Widget",
		Price:       30.00,
		Quantity:    5,
		Category:    model.CategoryElectronics,
		Condition:   model.ConditionNew,
		SKU:         "ELE900001",
		SellerID:    seller.ID,
		IsAvailable: true,
	}
	require.NoError(t, testDB.Create(item).Error)

	order := &model.Order{
		UserID:             buyer.ID,
		Status:             model.OrderStatusDelivered,
		TotalPrice:         30.00,
		ShippingAddress:    "1 Market St",
		ShippingCity:       "Springfield",
		ShippingPostalCode: "12345",
		ShippingCountry:    "USA",
		PaymentStatus:      "paid",
		OrderItems: []model.OrderItem{
			{ItemID: item.ID, Quantity: 1, Price: 30.00},
		},
	}
	require.NoError(t, testDB.Omit("OrderItems.Item").Create(order).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/reviews", authAs(buyer.ID), reviewController.CreateReview)
	router.GET("/reviews/me", authAs(buyer.ID), reviewController.GetMyReviews)

	return router, testDB, buyer, order, item
}

func TestReviewController_CreateReview(t *testing.T) {
	router, _, _, order, item := setupReviewControllerTest(t)

	body, _ := json.Marshal(CreateReviewRequest{
		OrderID: order.ID,
		ItemID:  item.ID,
		Rating:  5,
		Comment: "Works great",
	})
	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "is_verified_purchase")
}

func TestReviewController_CreateReview_Duplicate(t *testing.T) {
	router, _, _, order, item := setupReviewControllerTest(t)

	body, _ := json.Marshal(CreateReviewRequest{
		OrderID: order.ID,
		ItemID:  item.ID,
		Rating:  4,
		Comment: "Solid",
	})
	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// a second review of the same order line is a 400, not a 409
	req = httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "REVIEW_ALREADY_EXISTS")
}

func TestReviewController_GetMyReviews(t *testing.T) {
	router, _, _, order, item := setupReviewControllerTest(t)

	body, _ := json.Marshal(CreateReviewRequest{
		OrderID: order.ID,
		ItemID:  item.ID,
		Rating:  5,
		Comment: "Five stars",
	})
	req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/reviews/me?limit=10", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Reviews []model.Review `json:"reviews"`
		Count   int            `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Five stars", resp.Reviews[0].Comment)
}
