package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrNotOrderOwner      = errors.New("order belongs to another user")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// StockShortError reports a checkout line whose requested quantity exceeds
// the stock held at lock time.
type StockShortError struct {
	ItemName string
}

func (e *StockShortError) Error() string {
	return fmt.Sprintf("Not enough stock for %s", e.ItemName)
}

func (e *StockShortError) Unwrap() error {
	return ErrInsufficientStock
}

// UnavailableItemError reports a cart line whose item was delisted between
// adding to cart and checkout.
type UnavailableItemError struct {
	ItemID uint
}

func (e *UnavailableItemError) Error() string {
	return fmt.Sprintf("Item %d is not available", e.ItemID)
}

func (e *UnavailableItemError) Unwrap() error {
	return ErrItemUnavailable
}

type CheckoutInput struct {
	ShippingAddress    string
	ShippingCity       string
	ShippingPostalCode string
	ShippingCountry    string
	PaymentMethod      string
	Notes              string
	PromoCodes         []string
}

// validate reports missing shipping fields by name
func (in *CheckoutInput) validate() map[string]string {
	fields := make(map[string]string)
	if in.ShippingAddress == "" {
		fields["shipping_address"] = "Shipping address is required"
	}
	if in.ShippingCity == "" {
		fields["shipping_city"] = "Shipping city is required"
	}
	if in.ShippingPostalCode == "" {
		fields["shipping_postal_code"] = "Shipping postal code is required"
	}
	if in.ShippingCountry == "" {
		fields["shipping_country"] = "Shipping country is required"
	}
	return fields
}

type OrderService interface {
	Checkout(userID uint, input CheckoutInput) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint, isAdmin bool) (*model.Order, error)
	CancelOrder(userID, orderID uint) (*model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus, trackingNumber string, estimatedDelivery *time.Time) (*model.Order, error)
}

type orderService struct {
	db        *gorm.DB
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	itemRepo  repository.ItemRepository
	promoSvc  PromotionService
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	itemRepo repository.ItemRepository,
	promoSvc PromotionService,
) OrderService {
	return &orderService{
		db:        db,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		itemRepo:  itemRepo,
		promoSvc:  promoSvc,
	}
}

// Checkout turns the user's cart into an order in a single transaction.
// Every item row is locked before any stock check, in ascending item ID
// order so concurrent checkouts cannot deadlock. Any failed line rolls the
// whole order back; stock and cart are untouched on failure.
func (s *orderService) Checkout(userID uint, input CheckoutInput) (*model.Order, error) {
	logger.Info("Starting checkout", map[string]interface{}{
		"user_id": userID,
	})

	if fields := input.validate(); len(fields) > 0 {
		return nil, &ValidationFieldsError{Fields: fields}
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = "mock"
	}

	cart, err := s.cartRepo.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		logger.Warn("Checkout rejected: empty cart", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	now := time.Now()

	promotions, err := s.promoSvc.ResolveCodes(input.PromoCodes, now)
	if err != nil {
		return nil, err
	}

	lines := make([]model.CartItem, len(cart.Items))
	copy(lines, cart.Items)
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].ItemID < lines[j].ItemID
	})

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Checkout panicked", fmt.Errorf("%v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	order := &model.Order{
		UserID:             userID,
		Status:             model.OrderStatusProcessing,
		ShippingAddress:    input.ShippingAddress,
		ShippingCity:       input.ShippingCity,
		ShippingPostalCode: input.ShippingPostalCode,
		ShippingCountry:    input.ShippingCountry,
		PaymentMethod:      input.PaymentMethod,
		PaymentStatus:      "paid",
		Notes:              input.Notes,
		Promotions:         promotions,
	}

	for _, line := range lines {
		var item model.Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, line.ItemID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Checkout failed: item disappeared", map[string]interface{}{
					"user_id": userID,
					"item_id": line.ItemID,
				})
				return nil, &UnavailableItemError{ItemID: line.ItemID}
			}
			return nil, err
		}

		if !item.IsAvailable {
			tx.Rollback()
			logger.Warn("Checkout failed: item not available", map[string]interface{}{
				"user_id": userID,
				"item_id": item.ID,
			})
			return nil, &UnavailableItemError{ItemID: item.ID}
		}
		if item.Quantity < line.Quantity {
			tx.Rollback()
			logger.Warn("Checkout failed: insufficient stock", map[string]interface{}{
				"user_id":   userID,
				"item_id":   item.ID,
				"requested": line.Quantity,
				"in_stock":  item.Quantity,
			})
			return nil, &StockShortError{ItemName: item.Name}
		}

		// Item is attached so seller promotions can match the line
		order.OrderItems = append(order.OrderItems, model.OrderItem{
			ItemID:   item.ID,
			Quantity: line.Quantity,
			Price:    item.CurrentPrice(now),
			Item:     item,
		})

		ok, err := s.itemRepo.ReduceStock(tx, item.ID, line.Quantity)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if !ok {
			tx.Rollback()
			return nil, &StockShortError{ItemName: item.Name}
		}
	}

	order.TotalPrice = s.promoSvc.ApplyToOrder(order, now)

	if err := s.orderRepo.Create(tx, order); err != nil {
		tx.Rollback()
		logger.Error("Checkout failed: could not create order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := s.cartRepo.Clear(tx, cart.ID); err != nil {
		tx.Rollback()
		logger.Error("Checkout failed: could not clear cart", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": cart.ID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Checkout failed: commit error", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Checkout completed", map[string]interface{}{
		"user_id":     userID,
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
		"line_count":  len(order.OrderItems),
	})
	return s.orderRepo.FindByID(order.ID)
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) GetOrderByID(userID, orderID uint, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID && !isAdmin {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

// CancelOrder lets the buyer cancel while the order is still processing.
// Stock is restored for every line.
func (s *orderService) CancelOrder(userID, orderID uint) (*model.Order, error) {
	order, err := s.GetOrderByID(userID, orderID, false)
	if err != nil {
		return nil, err
	}
	if !order.CanCancel() {
		logger.Warn("Cancellation rejected: order already shipped", map[string]interface{}{
			"order_id": orderID,
			"status":   order.Status,
		})
		return nil, ErrInvalidOrderStatus
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, line := range order.OrderItems {
			updates := map[string]interface{}{
				"quantity":        gorm.Expr("quantity + ?", line.Quantity),
				"times_purchased": gorm.Expr("times_purchased - ?", line.Quantity),
				"is_available":    true,
			}
			if err := tx.Model(&model.Item{}).Where("id = ?", line.ItemID).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"status":         model.OrderStatusCancelled,
				"payment_status": "refunded",
			}).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Order cancelled", map[string]interface{}{
		"order_id": orderID,
		"user_id":  userID,
	})
	return s.orderRepo.FindByID(orderID)
}

// UpdateOrderStatus is the admin transition; tracking details are optional
// and only overwritten when provided.
func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus, trackingNumber string, estimatedDelivery *time.Time) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order.Status = status
	if trackingNumber != "" {
		order.TrackingNumber = trackingNumber
	}
	if estimatedDelivery != nil {
		order.EstimatedDelivery = estimatedDelivery
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return s.orderRepo.FindByID(orderID)
}
