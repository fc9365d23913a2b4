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

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddCartItemRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func cartPayload(cart *model.Cart) gin.H {
	now := time.Now()
	return gin.H{
		"cart":           cart,
		"total":          cart.Total(now),
		"total_quantity": cart.TotalQuantity(),
	}
}

// GetCart returns the caller's cart with totals
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	cart, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, cartPayload(cart))
}

// AddItem adds or merges a cart line
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Item ID and a positive quantity are required")
		return
	}

	cart, err := ctrl.cartService.AddItem(userID, req.ItemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			apperrors.NotFound(c, apperrors.ItemNotFound, "Item not found")
		case errors.Is(err, service.ErrOwnItem):
			apperrors.BadRequest(c, apperrors.CartOwnItem, "You cannot add your own item to the cart")
		case errors.Is(err, service.ErrItemUnavailable):
			apperrors.BadRequest(c, apperrors.ItemUnavailable, "This item is not available")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Quantity must be at least 1")
		default:
			log.Error("Failed to add item to cart", err, map[string]interface{}{
				"user_id": userID,
				"item_id": req.ItemID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, cartPayload(cart))
}

// UpdateItem changes a cart line's quantity
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "A positive quantity is required")
		return
	}

	cart, err := ctrl.cartService.UpdateItemQuantity(userID, itemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			apperrors.NotFound(c, apperrors.ItemNotFound, "Item not found")
		case errors.Is(err, service.ErrCartItemNotFound):
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Item is not in your cart")
		case errors.Is(err, service.ErrItemUnavailable):
			apperrors.BadRequest(c, apperrors.ItemUnavailable, "This item is not available")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Quantity must be at least 1")
		default:
			log.Error("Failed to update cart item", err, map[string]interface{}{
				"user_id": userID,
				"item_id": itemID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, cartPayload(cart))
}

// RemoveItem deletes a cart line
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cart, err := ctrl.cartService.RemoveItem(userID, itemID)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Item is not in your cart")
			return
		}
		log.Error("Failed to remove cart item", err, map[string]interface{}{
			"user_id": userID,
			"item_id": itemID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, cartPayload(cart))
}

// Clear empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) Clear(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.cartService.Clear(userID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}
