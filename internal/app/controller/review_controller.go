package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/internal/app/service"
	apperrors "github.com/bazaarhq/bazaar-backend/internal/errors"
	"github.com/bazaarhq/bazaar-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type CreateReviewRequest struct {
	OrderID   uint     `json:"order_id" binding:"required"`
	ItemID    uint     `json:"item_id" binding:"required"`
	Rating    int      `json:"rating" binding:"required"`
	Comment   string   `json:"comment"`
	ImageURLs []string `json:"image_urls"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

type ListReviewsRequest struct {
	Rating       *int `form:"rating"`
	VerifiedOnly bool `form:"verified_only"`
	MostHelpful  bool `form:"most_helpful"`
	Limit        int  `form:"limit"`
}

type SellerResponseRequest struct {
	Response string `json:"response" binding:"required"`
}

// CreateReview posts a review for a delivered order line
// POST /api/v1/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid review data")
		return
	}

	review, err := ctrl.reviewService.Create(userID, service.CreateReviewInput{
		OrderID:   req.OrderID,
		ItemID:    req.ItemID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		ImageURLs: req.ImageURLs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be between 1 and 5")
		case errors.Is(err, service.ErrReviewNotEligible):
			apperrors.Forbidden(c, "You can only review items from your delivered orders")
		case errors.Is(err, service.ErrReviewAlreadyExists):
			apperrors.BadRequest(c, apperrors.ReviewAlreadyExists, "You have already reviewed this purchase")
		default:
			log.Error("Failed to create review", err, map[string]interface{}{
				"user_id": userID,
				"item_id": req.ItemID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"review": review,
	})
}

// GetItemReviews lists an item's reviews with filters and stats
// GET /api/v1/items/:id/reviews
func (ctrl *ReviewController) GetItemReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ListReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid review filters")
		return
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	reviews, err := ctrl.reviewService.ListForItem(itemID, repository.ReviewFilter{
		Rating:       req.Rating,
		VerifiedOnly: req.VerifiedOnly,
		MostHelpful:  req.MostHelpful,
		Limit:        req.Limit,
	})
	if err != nil {
		log.Error("Failed to fetch reviews", err, map[string]interface{}{
			"item_id": itemID,
		})
		apperrors.InternalError(c, "")
		return
	}

	stats, err := ctrl.reviewService.Stats(itemID)
	if err != nil {
		log.Error("Failed to fetch review stats", err, map[string]interface{}{
			"item_id": itemID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"stats":   stats,
		"count":   len(reviews),
	})
}

// GetMyReviews lists the caller's reviews
// GET /api/v1/reviews/me
func (ctrl *ReviewController) GetMyReviews(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if limit < 0 || limit > 100 {
		limit = 0
	}

	reviews, err := ctrl.reviewService.ListByReviewer(userID, limit)
	if err != nil {
		log.Error("Failed to fetch user reviews", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// UpdateReview edits the caller's own review
// PUT /api/v1/reviews/:id
func (ctrl *ReviewController) UpdateReview(c *gin.Context) {
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

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid review data")
		return
	}

	review, err := ctrl.reviewService.Update(userID, id, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
		case errors.Is(err, service.ErrNotReviewAuthor):
			apperrors.Forbidden(c, "Only the author may edit this review")
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be between 1 and 5")
		default:
			log.Error("Failed to update review", err, map[string]interface{}{
				"review_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review": review,
	})
}

// DeleteReview removes the caller's own review
// DELETE /api/v1/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
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
	err := ctrl.reviewService.Delete(userID, id, role == model.RoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
		case errors.Is(err, service.ErrNotReviewAuthor):
			apperrors.Forbidden(c, "Only the author may delete this review")
		default:
			log.Error("Failed to delete review", err, map[string]interface{}{
				"review_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted successfully",
	})
}

// ToggleUpvote flips the caller's helpful vote on a review
// POST /api/v1/reviews/:id/upvote
func (ctrl *ReviewController) ToggleUpvote(c *gin.Context) {
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

	upvoted, review, err := ctrl.reviewService.ToggleUpvote(id, userID)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
			return
		}
		log.Error("Failed to toggle review upvote", err, map[string]interface{}{
			"review_id": id,
			"user_id":   userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upvoted": upvoted,
		"review":  review,
	})
}

// RespondToReview records the seller's public reply
// POST /api/v1/reviews/:id/response
func (ctrl *ReviewController) RespondToReview(c *gin.Context) {
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

	var req SellerResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Response text is required")
		return
	}

	review, err := ctrl.reviewService.SellerRespond(userID, id, req.Response)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
		case errors.Is(err, service.ErrNotItemSellerReply):
			apperrors.Forbidden(c, "Only the item's seller may respond to this review")
		default:
			log.Error("Failed to record seller response", err, map[string]interface{}{
				"review_id": id,
				"user_id":   userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review": review,
	})
}
