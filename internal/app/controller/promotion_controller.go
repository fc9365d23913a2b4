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

// PromotionController holds the admin-only promotion endpoints; routing
// guards them with RequireRole("admin").
type PromotionController struct {
	promotionService service.PromotionService
}

func NewPromotionController(promotionService service.PromotionService) *PromotionController {
	return &PromotionController{
		promotionService: promotionService,
	}
}

type PromotionRequest struct {
	Code           string    `json:"code" binding:"required"`
	PromoType      string    `json:"promo_type" binding:"required"`
	DiscountMethod string    `json:"discount_method" binding:"required"`
	DiscountAmount float64   `json:"discount_amount" binding:"required"`
	StartAt        time.Time `json:"start_at" binding:"required"`
	EndAt          time.Time `json:"end_at" binding:"required"`
	Description    string    `json:"description"`
	ItemIDs        []uint    `json:"item_ids"`
	SellerIDs      []uint    `json:"seller_ids"`
}

func (req *PromotionRequest) toModel() *model.Promotion {
	return &model.Promotion{
		Code:           req.Code,
		PromoType:      model.PromoType(req.PromoType),
		DiscountMethod: model.DiscountMethod(req.DiscountMethod),
		DiscountAmount: req.DiscountAmount,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		Description:    req.Description,
	}
}

// CreatePromotion creates a promotion
// POST /api/v1/admin/promotions
func (ctrl *PromotionController) CreatePromotion(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid promotion data")
		return
	}

	promotion, err := ctrl.promotionService.Create(req.toModel(), req.ItemIDs, req.SellerIDs)
	if err != nil {
		var vErr *service.ValidationFieldsError
		if errors.As(err, &vErr) {
			apperrors.RespondWithValidationError(c, vErr.Fields)
			return
		}
		log.Error("Failed to create promotion", err, map[string]interface{}{
			"code": req.Code,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"promotion": promotion,
	})
}

// ListPromotions returns all promotions, newest window first
// GET /api/v1/admin/promotions
func (ctrl *PromotionController) ListPromotions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	promotions, err := ctrl.promotionService.List()
	if err != nil {
		log.Error("Failed to list promotions", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"promotions": promotions,
		"count":      len(promotions),
	})
}

// GetPromotion returns one promotion with its items and sellers
// GET /api/v1/admin/promotions/:id
func (ctrl *PromotionController) GetPromotion(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	promotion, err := ctrl.promotionService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrPromotionNotFound) {
			apperrors.NotFound(c, apperrors.PromoNotFound, "Promotion not found")
			return
		}
		log.Error("Failed to fetch promotion", err, map[string]interface{}{
			"promotion_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"promotion": promotion,
	})
}

// UpdatePromotion replaces a promotion's fields and scope lists
// PUT /api/v1/admin/promotions/:id
func (ctrl *PromotionController) UpdatePromotion(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid promotion data")
		return
	}

	promotion, err := ctrl.promotionService.Update(id, req.toModel(), req.ItemIDs, req.SellerIDs)
	if err != nil {
		var vErr *service.ValidationFieldsError
		switch {
		case errors.Is(err, service.ErrPromotionNotFound):
			apperrors.NotFound(c, apperrors.PromoNotFound, "Promotion not found")
		case errors.As(err, &vErr):
			apperrors.RespondWithValidationError(c, vErr.Fields)
		default:
			log.Error("Failed to update promotion", err, map[string]interface{}{
				"promotion_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"promotion": promotion,
	})
}

// DeletePromotion removes a promotion and its scope links
// DELETE /api/v1/admin/promotions/:id
func (ctrl *PromotionController) DeletePromotion(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.promotionService.Delete(id); err != nil {
		if errors.Is(err, service.ErrPromotionNotFound) {
			apperrors.NotFound(c, apperrors.PromoNotFound, "Promotion not found")
			return
		}
		log.Error("Failed to delete promotion", err, map[string]interface{}{
			"promotion_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion deleted successfully",
	})
}
