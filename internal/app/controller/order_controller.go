package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/app/service"
	apperrors "github.com/bazaarhq/bazaar-backend/internal/errors"
	"github.com/bazaarhq/bazaar-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type CheckoutRequest struct {
	ShippingAddress    string   `json:"shipping_address"`
	ShippingCity       string   `json:"shipping_city"`
	ShippingPostalCode string   `json:"shipping_postal_code"`
	ShippingCountry    string   `json:"shipping_country"`
	PaymentMethod      string   `json:"payment_method"`
	Notes              string   `json:"notes"`
	PromoCodes         []string `json:"promo_codes"`
}

type UpdateOrderStatusRequest struct {
	Status            model.OrderStatus `json:"status" binding:"required"`
	TrackingNumber    string            `json:"tracking_number"`
	EstimatedDelivery *time.Time        `json:"estimated_delivery"`
}

// Checkout converts the cart into an order
// POST /api/v1/orders/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid checkout data")
		return
	}

	order, err := ctrl.orderService.Checkout(userID, service.CheckoutInput{
		ShippingAddress:    req.ShippingAddress,
		ShippingCity:       req.ShippingCity,
		ShippingPostalCode: req.ShippingPostalCode,
		ShippingCountry:    req.ShippingCountry,
		PaymentMethod:      req.PaymentMethod,
		Notes:              req.Notes,
		PromoCodes:         req.PromoCodes,
	})
	if err != nil {
		var vErr *service.ValidationFieldsError
		var stockErr *service.StockShortError
		var unavailErr *service.UnavailableItemError
		switch {
		case errors.As(err, &vErr):
			apperrors.RespondWithValidationDetail(c, vErr.Fields, "Missing required shipping information")
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.RespondWithDetail(c, http.StatusBadRequest, apperrors.CheckoutEmptyCart,
				"Checkout failed", "Your cart is empty")
		case errors.As(err, &stockErr):
			apperrors.RespondWithDetail(c, http.StatusBadRequest, apperrors.CheckoutOutOfStock,
				"Checkout failed", stockErr.Error())
		case errors.As(err, &unavailErr):
			apperrors.RespondWithDetail(c, http.StatusBadRequest, apperrors.CheckoutItemDelisted,
				"Checkout failed", unavailErr.Error())
		default:
			log.Error("Checkout failed", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	log.Info("Checkout succeeded", map[string]interface{}{
		"user_id":  userID,
		"order_id": order.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

// GetOrders returns the caller's order history
// GET /api/v1/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrderByID returns one of the caller's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	role, _ := middleware.GetUserRole(c)
	order, err := ctrl.orderService.GetOrderByID(userID, id, role == model.RoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrNotOrderOwner):
			apperrors.Forbidden(c, "This order belongs to another user")
		default:
			log.Error("Failed to fetch order", err, map[string]interface{}{
				"user_id":  userID,
				"order_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// CancelOrder cancels a processing order and restores stock
// POST /api/v1/orders/:id/cancel
func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.CancelOrder(userID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrNotOrderOwner):
			apperrors.Forbidden(c, "This order belongs to another user")
		case errors.Is(err, service.ErrInvalidOrderStatus):
			apperrors.Conflict(c, apperrors.OrderNotCancellable, "This order can no longer be cancelled")
		default:
			log.Error("Failed to cancel order", err, map[string]interface{}{
				"user_id":  userID,
				"order_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// UpdateOrderStatus is the admin status transition
// PUT /api/v1/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Status is required")
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(id, req.Status, req.TrackingNumber, req.EstimatedDelivery)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrInvalidOrderStatus):
			apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Unknown order status")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": id,
				"status":   req.Status,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}
