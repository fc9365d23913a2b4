package service

import (
	"errors"
	"strings"
	"time"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewNotEligible   = errors.New("not eligible to review this item")
	ErrReviewAlreadyExists = errors.New("this order item has already been reviewed")
	ErrNotReviewAuthor     = errors.New("only the review's author may do this")
	ErrNotItemSellerReply  = errors.New("only the item's seller may respond")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)

type CreateReviewInput struct {
	OrderID   uint
	ItemID    uint
	Rating    int
	Comment   string
	ImageURLs []string
}

type ReviewService interface {
	Create(reviewerID uint, input CreateReviewInput) (*model.Review, error)
	GetByID(id uint) (*model.Review, error)
	ListForItem(itemID uint, filter repository.ReviewFilter) ([]model.Review, error)
	ListByReviewer(reviewerID uint, limit int) ([]model.Review, error)
	Update(reviewerID, reviewID uint, rating int, comment string) (*model.Review, error)
	Delete(reviewerID, reviewID uint, isAdmin bool) error
	ToggleUpvote(reviewID, userID uint) (bool, *model.Review, error)
	Stats(itemID uint) (*model.ReviewStats, error)
	SellerRespond(sellerID, reviewID uint, response string) (*model.Review, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	orderRepo  repository.OrderRepository
	itemRepo   repository.ItemRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	orderRepo repository.OrderRepository,
	itemRepo repository.ItemRepository,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		itemRepo:   itemRepo,
	}
}

// Create checks purchase eligibility before writing the review: the order
// must belong to the reviewer, be delivered, and contain the item; sellers
// cannot review their own items; each order line is reviewable once.
func (s *reviewService) Create(reviewerID uint, input CreateReviewInput) (*model.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}

	order, err := s.orderRepo.FindByID(input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotEligible
		}
		return nil, err
	}
	if order.UserID != reviewerID {
		logger.Warn("Review rejected: order belongs to another user", map[string]interface{}{
			"order_id":    input.OrderID,
			"reviewer_id": reviewerID,
		})
		return nil, ErrReviewNotEligible
	}
	if order.Status != model.OrderStatusDelivered {
		logger.Warn("Review rejected: order not delivered", map[string]interface{}{
			"order_id": input.OrderID,
			"status":   order.Status,
		})
		return nil, ErrReviewNotEligible
	}

	var inOrder bool
	for _, line := range order.OrderItems {
		if line.ItemID == input.ItemID {
			inOrder = true
			break
		}
	}
	if !inOrder {
		return nil, ErrReviewNotEligible
	}

	item, err := s.itemRepo.FindByID(input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotEligible
		}
		return nil, err
	}
	if item.SellerID == reviewerID {
		return nil, ErrReviewNotEligible
	}

	if _, err := s.reviewRepo.FindByOrderAndItem(input.OrderID, input.ItemID); err == nil {
		return nil, ErrReviewAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &model.Review{
		OrderID:            input.OrderID,
		ItemID:             input.ItemID,
		ReviewerID:         reviewerID,
		Rating:             input.Rating,
		Comment:            strings.TrimSpace(input.Comment),
		IsVerifiedPurchase: true,
	}
	for _, url := range input.ImageURLs {
		review.Images = append(review.Images, model.ReviewImage{URL: url})
	}

	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":   review.ID,
		"item_id":     input.ItemID,
		"reviewer_id": reviewerID,
		"rating":      input.Rating,
	})
	return s.reviewRepo.FindByID(review.ID)
}

func (s *reviewService) GetByID(id uint) (*model.Review, error) {
	review, err := s.reviewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListForItem(itemID uint, filter repository.ReviewFilter) ([]model.Review, error) {
	return s.reviewRepo.FindForItem(itemID, filter)
}

func (s *reviewService) ListByReviewer(reviewerID uint, limit int) ([]model.Review, error) {
	return s.reviewRepo.FindByReviewer(reviewerID, limit)
}

func (s *reviewService) Update(reviewerID, reviewID uint, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	review, err := s.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review.ReviewerID != reviewerID {
		return nil, ErrNotReviewAuthor
	}

	review.Rating = rating
	review.Comment = strings.TrimSpace(comment)

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return s.reviewRepo.FindByID(reviewID)
}

func (s *reviewService) Delete(reviewerID, reviewID uint, isAdmin bool) error {
	review, err := s.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review.ReviewerID != reviewerID && !isAdmin {
		return ErrNotReviewAuthor
	}

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		return err
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id": reviewID,
	})
	return nil
}

// ToggleUpvote flips the caller's helpful vote; returns whether the vote is
// now present and the refreshed review.
func (s *reviewService) ToggleUpvote(reviewID, userID uint) (bool, *model.Review, error) {
	if _, err := s.GetByID(reviewID); err != nil {
		return false, nil, err
	}

	upvoted, err := s.reviewRepo.ToggleUpvote(reviewID, userID)
	if err != nil {
		return false, nil, err
	}

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		return false, nil, err
	}
	return upvoted, review, nil
}

func (s *reviewService) Stats(itemID uint) (*model.ReviewStats, error) {
	return s.reviewRepo.Stats(itemID)
}

// SellerRespond records a single public reply from the item's seller
func (s *reviewService) SellerRespond(sellerID, reviewID uint, response string) (*model.Review, error) {
	review, err := s.GetByID(reviewID)
	if err != nil {
		return nil, err
	}

	item, err := s.itemRepo.FindByID(review.ItemID)
	if err != nil {
		return nil, err
	}
	if item.SellerID != sellerID {
		logger.Warn("Seller response rejected: not the item's seller", map[string]interface{}{
			"review_id": reviewID,
			"seller_id": item.SellerID,
			"user_id":   sellerID,
		})
		return nil, ErrNotItemSellerReply
	}

	now := time.Now()
	review.SellerResponse = strings.TrimSpace(response)
	review.ResponseAt = &now

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	logger.Info("Seller responded to review", map[string]interface{}{
		"review_id": reviewID,
		"seller_id": sellerID,
	})
	return s.reviewRepo.FindByID(reviewID)
}
