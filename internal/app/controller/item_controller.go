package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/internal/app/service"
	apperrors "github.com/bazaarhq/bazaar-backend/internal/errors"
	"github.com/bazaarhq/bazaar-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	defaultSearchLimit = 20
	suggestionLimit    = 6
)

type ItemController struct {
	itemService     service.ItemService
	reviewService   service.ReviewService
	homepageService service.HomepageService
}

func NewItemController(
	itemService service.ItemService,
	reviewService service.ReviewService,
	homepageService service.HomepageService,
) *ItemController {
	return &ItemController{
		itemService:     itemService,
		reviewService:   reviewService,
		homepageService: homepageService,
	}
}

type SearchItemsRequest struct {
	Search    string   `form:"search"`
	Category  string   `form:"category"`
	MinPrice  *float64 `form:"min_price"`
	MaxPrice  *float64 `form:"max_price"`
	Condition string   `form:"condition"`
	IsOnSale  *bool    `form:"is_on_sale"`
	Featured  *bool    `form:"is_featured"`
	MinRating *int     `form:"min_rating"`
	SellerID  *uint    `form:"seller_id"`
	Limit     int      `form:"limit"`
	Offset    int      `form:"offset"`
}

type ItemRequest struct {
	Name           string     `json:"name" binding:"required"`
	Summary        string     `json:"summary"`
	Description    string     `json:"description"`
	Price          float64    `json:"price" binding:"required"`
	Quantity       int        `json:"quantity"`
	Category       string     `json:"category" binding:"required"`
	CustomCategory string     `json:"custom_category"`
	Origin         string     `json:"origin"`
	Condition      string     `json:"condition" binding:"required"`
	Weight         float64    `json:"weight"`
	IsFeatured     bool       `json:"is_featured"`
	IsAvailable    *bool      `json:"is_available"`
	IsOnSale       bool       `json:"is_on_sale"`
	IsDigital      bool       `json:"is_digital"`
	SalePrice      *float64   `json:"sale_price"`
	SaleStartAt    *time.Time `json:"sale_start_at"`
	SaleEndAt      *time.Time `json:"sale_end_at"`
	ImageURLs      []string   `json:"image_urls"`
}

func (req *ItemRequest) toModel() *model.Item {
	item := &model.Item{
		Name:           req.Name,
		Summary:        req.Summary,
		Description:    req.Description,
		Price:          req.Price,
		Quantity:       req.Quantity,
		Category:       model.ItemCategory(req.Category),
		CustomCategory: req.CustomCategory,
		Origin:         req.Origin,
		Condition:      model.ItemCondition(req.Condition),
		Weight:         req.Weight,
		IsFeatured:     req.IsFeatured,
		IsOnSale:       req.IsOnSale,
		IsDigital:      req.IsDigital,
		SalePrice:      req.SalePrice,
		SaleStartAt:    req.SaleStartAt,
		SaleEndAt:      req.SaleEndAt,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	} else {
		item.IsAvailable = true
	}
	return item
}

// SearchItems lists available items with filters
// GET /api/v1/items
func (ctrl *ItemController) SearchItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SearchItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid search parameters")
		return
	}

	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = defaultSearchLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	filter := repository.ItemFilter{
		Search:     req.Search,
		Category:   req.Category,
		MinPrice:   req.MinPrice,
		MaxPrice:   req.MaxPrice,
		IsOnSale:   req.IsOnSale,
		IsFeatured: req.Featured,
		MinRating:  req.MinRating,
		SellerID:   req.SellerID,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}
	if req.Condition != "" {
		condition := model.ItemCondition(req.Condition)
		filter.Condition = &condition
	}

	items, err := ctrl.itemService.Search(filter)
	if err != nil {
		log.Error("Failed to search items", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetItemByID returns the item detail page payload: the item, its reviews
// and stats, and related suggestions. The view is also recorded against the
// browsing session.
// GET /api/v1/items/:id
func (ctrl *ItemController) GetItemByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := ctrl.itemService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			apperrors.NotFound(c, apperrors.ItemNotFound, "Item not found")
			return
		}
		log.Error("Failed to fetch item", err, map[string]interface{}{
			"item_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	if err := ctrl.itemService.RecordView(id); err != nil {
		log.Warn("Failed to record item view", map[string]interface{}{
			"item_id": id,
			"error":   err.Error(),
		})
	}
	if sessionID := middleware.GetSessionID(c); sessionID != "" {
		_ = ctrl.homepageService.RecordItemView(c.Request.Context(), sessionID, id)
	}

	reviews, err := ctrl.reviewService.ListForItem(id, repository.ReviewFilter{Limit: 10})
	if err != nil {
		log.Error("Failed to fetch item reviews", err, map[string]interface{}{
			"item_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	stats, err := ctrl.reviewService.Stats(id)
	if err != nil {
		log.Error("Failed to fetch review stats", err, map[string]interface{}{
			"item_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	// suggestions are decoration; serve the page without them on failure
	suggestions, err := ctrl.itemService.RelatedItems(item, suggestionLimit)
	if err != nil {
		log.Warn("Failed to fetch related items", map[string]interface{}{
			"item_id": id,
			"error":   err.Error(),
		})
		suggestions = []model.Item{}
	}

	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"item":             item,
		"current_price":    item.CurrentPrice(now),
		"discount_percent": item.DiscountPercentage(now),
		"reviews":          reviews,
		"review_stats":     stats,
		"suggestions":      suggestions,
	})
}

// CreateItem lists a new item for the authenticated seller
// POST /api/v1/items
func (ctrl *ItemController) CreateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create item request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid item data")
		return
	}

	item, err := ctrl.itemService.Create(userID, req.toModel(), req.ImageURLs)
	if err != nil {
		var vErr *service.ValidationFieldsError
		if errors.As(err, &vErr) {
			apperrors.RespondWithValidationError(c, vErr.Fields)
			return
		}
		log.Error("Failed to create item", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"item": item,
	})
}

// UpdateItem updates a listing owned by the caller
// PUT /api/v1/items/:id
func (ctrl *ItemController) UpdateItem(c *gin.Context) {
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

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid item data")
		return
	}

	item, err := ctrl.itemService.Update(userID, id, req.toModel(), req.ImageURLs)
	if err != nil {
		var vErr *service.ValidationFieldsError
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			apperrors.NotFound(c, apperrors.ItemNotFound, "Item not found")
		case errors.Is(err, service.ErrNotItemSeller):
			apperrors.Forbidden(c, "Only the seller may update this item")
		case errors.As(err, &vErr):
			apperrors.RespondWithValidationError(c, vErr.Fields)
		default:
			log.Error("Failed to update item", err, map[string]interface{}{
				"item_id": id,
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item": item,
	})
}

// DeleteItem removes a listing owned by the caller
// DELETE /api/v1/items/:id
func (ctrl *ItemController) DeleteItem(c *gin.Context) {
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
	err := ctrl.itemService.Delete(userID, id, role == model.RoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			apperrors.NotFound(c, apperrors.ItemNotFound, "Item not found")
		case errors.Is(err, service.ErrNotItemSeller):
			apperrors.Forbidden(c, "Only the seller may delete this item")
		case errors.Is(err, service.ErrItemHasPurchases):
			apperrors.Conflict(c, apperrors.ResourceConflict, "Items with purchases cannot be deleted")
		default:
			log.Error("Failed to delete item", err, map[string]interface{}{
				"item_id": id,
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item deleted successfully",
	})
}

// parseIDParam parses a numeric path parameter, writing the error response
// itself on failure
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}
