package service

import (
	"testing"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewServiceForTest(testDB *gorm.DB) ReviewService {
	reviewRepo := repository.NewReviewRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	itemRepo := repository.NewItemRepository(testDB)
	return NewReviewService(reviewRepo, orderRepo, itemRepo)
}

func createDeliveredOrder(t *testing.T, testDB *gorm.DB, buyerID uint, items ...*model.Item) *model.Order {
	t.Helper()
	order := &model.Order{
		UserID:             buyerID,
		Status:             model.OrderStatusDelivered,
		TotalPrice:         10,
		ShippingAddress:    "1 Market St",
		ShippingCity:       "Springfield",
		ShippingPostalCode: "12345",
		ShippingCountry:    "USA",
		PaymentStatus:      "paid",
	}
	for _, item := range items {
		order.OrderItems = append(order.OrderItems, model.OrderItem{
			ItemID:   item.ID,
			Quantity: 1,
			Price:    item.Price,
		})
	}
	require.NoError(t, testDB.Omit("OrderItems.Item").Create(order).Error)
	return order
}

func TestReviewService_Create(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc := newReviewServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)
	buyer := createServiceUser(t, testDB, "buyer", false)
	item := createServiceItem(t, testDB, seller.ID, "Widget", "ELE000001", 25.00, 10)
	order := createDeliveredOrder(t, testDB, buyer.ID, item)

	review, err := svc.Create(buyer.ID, CreateReviewInput{
		OrderID:   order.ID,
		ItemID:    item.ID,
		Rating:    5,
		Comment:   "  Works great  ",
		ImageURLs: []string{"https://cdn.example.com/r/1.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, review.Rating)
	assert.Equal(t, "Works great", review.Comment)
	assert.True(t, review.IsVerifiedPurchase)
	assert.Len(t, review.Images, 1)
}

func TestReviewService_Create_Eligibility(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc := newReviewServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)
	buyer := createServiceUser(t, testDB, "buyer", false)
	stranger := createServiceUser(t, testDB, "stranger", false)

	item := createServiceItem(t, testDB, seller.ID, "Widget", "ELE000001", 25.00, 10)
	other := createServiceItem(t, testDB, seller.ID, "Other", "ELE000002", 10.00, 5)
	delivered := createDeliveredOrder(t, testDB, buyer.ID, item)

	pending := createDeliveredOrder(t, testDB, buyer.ID, item)
	require.NoError(t, testDB.Model(&model.Order{}).Where("id = ?", pending.ID).
		Update("status", model.OrderStatusProcessing).Error)

	tests := []struct {
		name       string
		reviewerID uint
		orderID    uint
		itemID     uint
	}{
		{"order belongs to someone else", stranger.ID, delivered.ID, item.ID},
		{"order not delivered", buyer.ID, pending.ID, item.ID},
		{"item not in order", buyer.ID, delivered.ID, other.ID},
		{"order does not exist", buyer.ID, 9999, item.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(tt.reviewerID, CreateReviewInput{
				OrderID: tt.orderID,
				ItemID:  tt.itemID,
				Rating:  4,
			})
			assert.ErrorIs(t, err, ErrReviewNotEligible)
		})
	}
}

func TestReviewService_Create_SellerCannotReviewOwnItem(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc := newReviewServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)
	item := createServiceItem(t, testDB, seller.ID, "Widget", "ELE000001", 25.00, 10)
	order := createDeliveredOrder(t, testDB, seller.ID, item)

	_, err := svc.Create(seller.ID, CreateReviewInput{
		OrderID: order.ID,
		ItemID:  item.ID,
		Rating:  5,
	})
	assert.ErrorIs(t, err, ErrReviewNotEligible)
}

func TestReviewService_Create_Duplicate(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc := newReviewServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)
	buyer := createServiceUser(t, testDB, "buyer", false)
	item := createServiceItem(t, testDB, seller.ID, "Widget", "ELE000001", 25.00, 10)
	order := createDeliveredOrder(t, testDB, buyer.ID, item)

	input := CreateReviewInput{OrderID: order.ID, ItemID: item.ID, Rating: 4}
	_, err := svc.Create(buyer.ID, input)
	require.NoError(t, err)

	_, err = svc.Create(buyer.ID, input)
	assert.ErrorIs(t, err, ErrReviewAlreadyExists)
}

func TestReviewService_Create_InvalidRating(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc := newReviewServiceForTest(testDB)

	_, err := svc.Create(1, CreateReviewInput{OrderID: 1, ItemID: 1, Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.Create(1, CreateReviewInput{OrderID: 1, ItemID: 1, Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestReviewService_Update_AuthorOnly(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc := newReviewServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)
	buyer := createServiceUser(t, testDB, "buyer", false)
	other := createServiceUser(t, testDB, "other", false)
	item := createServiceItem(t, testDB, seller.ID, "Widget", "ELE000001", 25.00, 10)
	order := createDeliveredOrder(t, testDB, buyer.ID, item)

	review, err := svc.Create(buyer.ID, CreateReviewInput{
		OrderID: order.ID, ItemID: item.ID, Rating: 3, Comment: "ok",
	})
	require.NoError(t, err)

	_, err = svc.Update(other.ID, review.ID, 1, "bad")
	assert.ErrorIs(t, err, ErrNotReviewAuthor)

	updated, err := svc.Update(buyer.ID, review.ID, 4, "better than expected")
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	assert.Equal(t, "better than expected", updated.Comment)
}

func TestReviewService_ToggleUpvote(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc := newReviewServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)
	buyer := createServiceUser(t, testDB, "buyer", false)
	voter := createServiceUser(t, testDB, "voter", false)
	item := createServiceItem(t, testDB, seller.ID, "Widget", "ELE000001", 25.00, 10)
	order := createDeliveredOrder(t, testDB, buyer.ID, item)

	review, err := svc.Create(buyer.ID, CreateReviewInput{
		OrderID: order.ID, ItemID: item.ID, Rating: 5,
	})
	require.NoError(t, err)

	upvoted, refreshed, err := svc.ToggleUpvote(review.ID, voter.ID)
	require.NoError(t, err)
	assert.True(t, upvoted)
	assert.Equal(t, 1, refreshed.HelpfulCount)

	upvoted, refreshed, err = svc.ToggleUpvote(review.ID, voter.ID)
	require.NoError(t, err)
	assert.False(t, upvoted)
	assert.Equal(t, 0, refreshed.HelpfulCount)
}

func TestReviewService_SellerRespond(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc := newReviewServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)
	buyer := createServiceUser(t, testDB, "buyer", false)
	other := createServiceUser(t, testDB, "other", true)
	item := createServiceItem(t, testDB, seller.ID, "Widget", "ELE000001", 25.00, 10)
	order := createDeliveredOrder(t, testDB, buyer.ID, item)

	review, err := svc.Create(buyer.ID, CreateReviewInput{
		OrderID: order.ID, ItemID: item.ID, Rating: 2, Comment: "arrived late",
	})
	require.NoError(t, err)

	_, err = svc.SellerRespond(other.ID, review.ID, "sorry")
	assert.ErrorIs(t, err, ErrNotItemSellerReply)

	responded, err := svc.SellerRespond(seller.ID, review.ID, "Apologies, courier delay.")
	require.NoError(t, err)
	assert.Equal(t, "Apologies, courier delay.", responded.SellerResponse)
	require.NotNil(t, responded.ResponseAt)
}
