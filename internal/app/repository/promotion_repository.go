package repository

import (
	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"gorm.io/gorm"
)

type PromotionRepository interface {
	Create(promotion *model.Promotion) error
	FindByID(id uint) (*model.Promotion, error)
	FindByCodes(codes []string) ([]model.Promotion, error)
	FindAll() ([]model.Promotion, error)
	Update(promotion *model.Promotion) error
	Delete(id uint) error
	ReplaceItems(promotion *model.Promotion, items []model.Item) error
	ReplaceSellers(promotion *model.Promotion, sellers []model.User) error
}

type promotionRepository struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) PromotionRepository {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) Create(promotion *model.Promotion) error {
	logger.Debug("Creating promotion in database", map[string]interface{}{
		"code":       promotion.Code,
		"promo_type": promotion.PromoType,
	})

	if err := r.db.Create(promotion).Error; err != nil {
		logger.Error("Failed to create promotion in database", err, map[string]interface{}{
			"code": promotion.Code,
		})
		return err
	}
	return nil
}

func (r *promotionRepository) FindByID(id uint) (*model.Promotion, error) {
	var promotion model.Promotion
	err := r.db.Preload("Items").Preload("Sellers").First(&promotion, id).Error
	if err != nil {
		return nil, err
	}
	return &promotion, nil
}

func (r *promotionRepository) FindByCodes(codes []string) ([]model.Promotion, error) {
	if len(codes) == 0 {
		return []model.Promotion{}, nil
	}
	var promotions []model.Promotion
	err := r.db.Preload("Items").Preload("Sellers").
		Where("code IN ?", codes).
		Find(&promotions).Error
	if err != nil {
		logger.Error("Failed to find promotions by codes", err, map[string]interface{}{
			"count": len(codes),
		})
		return nil, err
	}
	return promotions, nil
}

func (r *promotionRepository) FindAll() ([]model.Promotion, error) {
	var promotions []model.Promotion
	err := r.db.Preload("Items").Preload("Sellers").
		Order("start_at DESC").
		Find(&promotions).Error
	if err != nil {
		logger.Error("Failed to list promotions", err, nil)
		return nil, err
	}
	return promotions, nil
}

func (r *promotionRepository) Update(promotion *model.Promotion) error {
	if err := r.db.Save(promotion).Error; err != nil {
		logger.Error("Failed to update promotion in database", err, map[string]interface{}{
			"promotion_id": promotion.ID,
		})
		return err
	}
	return nil
}

func (r *promotionRepository) Delete(id uint) error {
	if err := r.db.Select("Items", "Sellers").Delete(&model.Promotion{ID: id}).Error; err != nil {
		logger.Error("Failed to delete promotion in database", err, map[string]interface{}{
			"promotion_id": id,
		})
		return err
	}
	return nil
}

func (r *promotionRepository) ReplaceItems(promotion *model.Promotion, items []model.Item) error {
	if err := r.db.Model(promotion).Association("Items").Replace(items); err != nil {
		logger.Error("Failed to replace promotion items", err, map[string]interface{}{
			"promotion_id": promotion.ID,
		})
		return err
	}
	return nil
}

func (r *promotionRepository) ReplaceSellers(promotion *model.Promotion, sellers []model.User) error {
	if err := r.db.Model(promotion).Association("Sellers").Replace(sellers); err != nil {
		logger.Error("Failed to replace promotion sellers", err, map[string]interface{}{
			"promotion_id": promotion.ID,
		})
		return err
	}
	return nil
}
