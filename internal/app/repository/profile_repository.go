package repository

import (
	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"gorm.io/gorm"
)

// SellerAggregates holds the derived seller stats computed from orders and
// reviews.
type SellerAggregates struct {
	TotalSales    int64
	AverageRating float64
}

type ProfileRepository interface {
	Create(profile *model.Profile) error
	FindByUserID(userID uint) (*model.Profile, error)
	FindByUsername(username string) (*model.Profile, error)
	Update(profile *model.Profile) error
	SellerAggregates(sellerID uint) (*SellerAggregates, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *model.Profile) error {
	if err := r.db.Create(profile).Error; err != nil {
		logger.Error("Failed to create profile in database", err, map[string]interface{}{
			"user_id": profile.UserID,
		})
		return err
	}
	return nil
}

func (r *profileRepository) FindByUserID(userID uint) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) FindByUsername(username string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Preload("User").
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.username = ? AND users.deleted_at IS NULL", username).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) Update(profile *model.Profile) error {
	if err := r.db.Save(profile).Error; err != nil {
		logger.Error("Failed to update profile in database", err, map[string]interface{}{
			"profile_id": profile.ID,
			"user_id":    profile.UserID,
		})
		return err
	}
	return nil
}

// SellerAggregates computes total distinct delivered orders containing the
// seller's items and the average rating across all their items' reviews.
func (r *profileRepository) SellerAggregates(sellerID uint) (*SellerAggregates, error) {
	logger.Debug("Computing seller aggregates", map[string]interface{}{
		"seller_id": sellerID,
	})

	agg := &SellerAggregates{}

	err := r.db.Model(&model.OrderItem{}).
		Joins("JOIN items ON items.id = order_items.item_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("items.seller_id = ? AND orders.status = ?", sellerID, model.OrderStatusDelivered).
		Distinct("order_items.order_id").
		Count(&agg.TotalSales).Error
	if err != nil {
		logger.Error("Failed to count seller sales", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}

	err = r.db.Model(&model.Review{}).
		Joins("JOIN items ON items.id = reviews.item_id").
		Where("items.seller_id = ?", sellerID).
		Select("COALESCE(AVG(reviews.rating), 0)").
		Scan(&agg.AverageRating).Error
	if err != nil {
		logger.Error("Failed to average seller rating", err, map[string]interface{}{
			"seller_id": sellerID,
		})
		return nil, err
	}

	return agg, nil
}
