package controller

import (
	"net/http"

	"github.com/bazaarhq/bazaar-backend/internal/app/service"
	apperrors "github.com/bazaarhq/bazaar-backend/internal/errors"
	"github.com/bazaarhq/bazaar-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type HomepageController struct {
	homepageService service.HomepageService
}

func NewHomepageController(homepageService service.HomepageService) *HomepageController {
	return &HomepageController{
		homepageService: homepageService,
	}
}

// GetHomepage returns the storefront landing payload
// GET /api/v1/homepage
func (ctrl *HomepageController) GetHomepage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID := middleware.GetSessionID(c)
	view, err := ctrl.homepageService.Homepage(c.Request.Context(), sessionID)
	if err != nil {
		log.Error("Failed to build homepage", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetRecommendations returns session-based item suggestions
// GET /api/v1/homepage/recommendations
func (ctrl *HomepageController) GetRecommendations(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	sessionID := middleware.GetSessionID(c)
	items, err := ctrl.homepageService.Recommendations(c.Request.Context(), sessionID)
	if err != nil {
		log.Error("Failed to build recommendations", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetCategories lists the browsable categories, custom ones included
// GET /api/v1/categories
func (ctrl *HomepageController) GetCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.homepageService.Categories()
	if err != nil {
		log.Error("Failed to fetch categories", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}
