package repository

import (
	"errors"
	"math"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"gorm.io/gorm"
)

// ReviewFilter narrows a review listing for one item
type ReviewFilter struct {
	Rating       *int
	VerifiedOnly bool
	MostHelpful  bool
	Limit        int
}

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	FindByOrderAndItem(orderID, itemID uint) (*model.Review, error)
	FindForItem(itemID uint, filter ReviewFilter) ([]model.Review, error)
	FindByReviewer(reviewerID uint, limit int) ([]model.Review, error)
	Update(review *model.Review) error
	Delete(id uint) error
	Stats(itemID uint) (*model.ReviewStats, error)
	ToggleUpvote(reviewID, userID uint) (bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"order_id":    review.OrderID,
		"item_id":     review.ItemID,
		"reviewer_id": review.ReviewerID,
		"rating":      review.Rating,
	})

	if err := r.db.Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"order_id": review.OrderID,
			"item_id":  review.ItemID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Preload("Reviewer").Preload("Images").First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByOrderAndItem(orderID, itemID uint) (*model.Review, error) {
	var review model.Review
	err := r.db.Where("order_id = ? AND item_id = ?", orderID, itemID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindForItem(itemID uint, filter ReviewFilter) ([]model.Review, error) {
	query := r.db.Model(&model.Review{}).
		Preload("Reviewer").
		Preload("Images").
		Where("item_id = ?", itemID)

	if filter.Rating != nil {
		query = query.Where("rating = ?", *filter.Rating)
	}
	if filter.VerifiedOnly {
		query = query.Where("is_verified_purchase = ?", true)
	}

	if filter.MostHelpful {
		query = query.Order("helpful_count DESC").Order("created_at DESC")
	} else {
		query = query.Order("created_at DESC")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var reviews []model.Review
	if err := query.Find(&reviews).Error; err != nil {
		logger.Error("Failed to find reviews for item", err, map[string]interface{}{
			"item_id": itemID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) FindByReviewer(reviewerID uint, limit int) ([]model.Review, error) {
	query := r.db.Preload("Item").
		Where("reviewer_id = ?", reviewerID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var reviews []model.Review
	if err := query.Find(&reviews).Error; err != nil {
		logger.Error("Failed to find reviews by reviewer", err, map[string]interface{}{
			"reviewer_id": reviewerID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Update(review *model.Review) error {
	if err := r.db.Save(review).Error; err != nil {
		logger.Error("Failed to update review in database", err, map[string]interface{}{
			"review_id": review.ID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Review{}, id).Error; err != nil {
		logger.Error("Failed to delete review in database", err, map[string]interface{}{
			"review_id": id,
		})
		return err
	}
	return nil
}

// Stats aggregates review data for an item. Items without reviews get the
// zero-filled struct.
func (r *reviewRepository) Stats(itemID uint) (*model.ReviewStats, error) {
	var agg struct {
		TotalReviews  int64
		AverageRating float64
		VerifiedCount int64
		FourPlusCount int64
	}
	err := r.db.Model(&model.Review{}).
		Where("item_id = ?", itemID).
		Select(
			"COUNT(*) AS total_reviews, " +
				"COALESCE(AVG(rating), 0) AS average_rating, " +
				"COALESCE(SUM(CASE WHEN is_verified_purchase THEN 1 ELSE 0 END), 0) AS verified_count, " +
				"COALESCE(SUM(CASE WHEN rating >= 4 THEN 1 ELSE 0 END), 0) AS four_plus_count").
		Scan(&agg).Error
	if err != nil {
		logger.Error("Failed to aggregate review stats", err, map[string]interface{}{
			"item_id": itemID,
		})
		return nil, err
	}

	stats := model.EmptyReviewStats()
	if agg.TotalReviews == 0 {
		return stats, nil
	}

	stats.TotalReviews = agg.TotalReviews
	stats.AverageRating = math.Round(agg.AverageRating*10) / 10
	stats.VerifiedCount = agg.VerifiedCount
	stats.PercentageRecommend = math.Round(float64(agg.FourPlusCount)/float64(agg.TotalReviews)*1000) / 10

	var distribution []struct {
		Rating int
		Count  int64
	}
	err = r.db.Model(&model.Review{}).
		Where("item_id = ?", itemID).
		Select("rating, COUNT(*) AS count").
		Group("rating").
		Scan(&distribution).Error
	if err != nil {
		logger.Error("Failed to aggregate rating distribution", err, map[string]interface{}{
			"item_id": itemID,
		})
		return nil, err
	}
	for _, entry := range distribution {
		stats.RatingDistribution[entry.Rating] = entry.Count
	}

	err = r.db.Model(&model.ReviewImage{}).
		Joins("JOIN reviews ON reviews.id = review_images.review_id").
		Where("reviews.item_id = ? AND reviews.deleted_at IS NULL", itemID).
		Distinct("review_images.review_id").
		Count(&stats.WithMediaCount).Error
	if err != nil {
		logger.Error("Failed to count reviews with media", err, map[string]interface{}{
			"item_id": itemID,
		})
		return nil, err
	}

	return stats, nil
}

// ToggleUpvote inserts or removes the user's upvote and keeps helpful_count
// in sync within one transaction. Returns whether the review is upvoted after
// the call.
func (r *reviewRepository) ToggleUpvote(reviewID, userID uint) (bool, error) {
	var upvoted bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var upvote model.ReviewUpvote
		err := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).First(&upvote).Error

		switch {
		case err == nil:
			if err := tx.Delete(&upvote).Error; err != nil {
				return err
			}
			err = tx.Model(&model.Review{}).Where("id = ? AND helpful_count > 0", reviewID).
				UpdateColumn("helpful_count", gorm.Expr("helpful_count - 1")).Error
			if err != nil {
				return err
			}
			upvoted = false
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			upvote = model.ReviewUpvote{ReviewID: reviewID, UserID: userID}
			if err := tx.Create(&upvote).Error; err != nil {
				return err
			}
			err = tx.Model(&model.Review{}).Where("id = ?", reviewID).
				UpdateColumn("helpful_count", gorm.Expr("helpful_count + 1")).Error
			if err != nil {
				return err
			}
			upvoted = true
			return nil

		default:
			return err
		}
	})
	if err != nil {
		logger.Error("Failed to toggle review upvote", err, map[string]interface{}{
			"review_id": reviewID,
			"user_id":   userID,
		})
		return false, err
	}
	return upvoted, nil
}
