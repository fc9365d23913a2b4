package repository

import (
	"errors"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	GetOrCreateByUserID(userID uint) (*model.Cart, error)
	FindItem(cartID, itemID uint) (*model.CartItem, error)
	AddItem(cartID, itemID uint, quantity int) (*model.CartItem, error)
	UpdateItemQuantity(cartID, itemID uint, quantity int) error
	RemoveItem(cartID, itemID uint) error
	Clear(tx *gorm.DB, cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// GetOrCreateByUserID returns the user's cart, creating it on first access
func (r *cartRepository) GetOrCreateByUserID(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Item").
		Preload("Items.Item.Images").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to find cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	cart = model.Cart{UserID: userID}
	if err := r.db.Create(&cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart created for user", map[string]interface{}{
		"user_id": userID,
		"cart_id": cart.ID,
	})
	return &cart, nil
}

func (r *cartRepository) FindItem(cartID, itemID uint) (*model.CartItem, error) {
	var line model.CartItem
	err := r.db.Preload("Item").
		Where("cart_id = ? AND item_id = ?", cartID, itemID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// AddItem merges into an existing line or creates a new one
func (r *cartRepository) AddItem(cartID, itemID uint, quantity int) (*model.CartItem, error) {
	var line model.CartItem
	err := r.db.Where("cart_id = ? AND item_id = ?", cartID, itemID).First(&line).Error
	if err == nil {
		line.Quantity += quantity
		if err := r.db.Save(&line).Error; err != nil {
			logger.Error("Failed to merge cart line", err, map[string]interface{}{
				"cart_id": cartID,
				"item_id": itemID,
			})
			return nil, err
		}
		return &line, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	line = model.CartItem{CartID: cartID, ItemID: itemID, Quantity: quantity}
	if err := r.db.Create(&line).Error; err != nil {
		logger.Error("Failed to add cart line", err, map[string]interface{}{
			"cart_id": cartID,
			"item_id": itemID,
		})
		return nil, err
	}
	return &line, nil
}

func (r *cartRepository) UpdateItemQuantity(cartID, itemID uint, quantity int) error {
	result := r.db.Model(&model.CartItem{}).
		Where("cart_id = ? AND item_id = ?", cartID, itemID).
		Update("quantity", quantity)
	if result.Error != nil {
		logger.Error("Failed to update cart line quantity", result.Error, map[string]interface{}{
			"cart_id": cartID,
			"item_id": itemID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cartRepository) RemoveItem(cartID, itemID uint) error {
	result := r.db.Where("cart_id = ? AND item_id = ?", cartID, itemID).
		Delete(&model.CartItem{})
	if result.Error != nil {
		logger.Error("Failed to remove cart line", result.Error, map[string]interface{}{
			"cart_id": cartID,
			"item_id": itemID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Clear deletes all lines. Pass a transaction during checkout so the clear
// rolls back with everything else; pass nil otherwise.
func (r *cartRepository) Clear(tx *gorm.DB, cartID uint) error {
	db := tx
	if db == nil {
		db = r.db
	}
	if err := db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}
