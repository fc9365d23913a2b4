package repository

import (
	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	Update(order *model.Order) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order with its lines and promotion links. Pass the
// checkout transaction so the order rolls back with stock changes.
func (r *orderRepository) Create(tx *gorm.DB, order *model.Order) error {
	db := tx
	if db == nil {
		db = r.db
	}

	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":    order.UserID,
		"line_count": len(order.OrderItems),
	})

	// omit association upserts; only the order, its lines and the promotion
	// join rows are written
	err := db.
		Omit("User", "OrderItems.Item", "Promotions.Items", "Promotions.Sellers").
		Create(order).Error
	if err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id": order.UserID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.
		Preload("OrderItems").
		Preload("OrderItems.Item").
		Preload("OrderItems.Item.Images").
		Preload("Promotions").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.
		Preload("OrderItems").
		Preload("OrderItems.Item").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by user in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}
	return nil
}
