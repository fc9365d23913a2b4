package controller

import (
	"errors"
	"net/http"

	"github.com/bazaarhq/bazaar-backend/internal/app/service"
	apperrors "github.com/bazaarhq/bazaar-backend/internal/errors"
	"github.com/bazaarhq/bazaar-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	profileService service.ProfileService
}

func NewProfileController(profileService service.ProfileService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
	}
}

type UpdateProfileRequest struct {
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	ImageURL           *string `json:"image_url"`
	Bio                *string `json:"bio"`
	Phone              *string `json:"phone"`
	Address            *string `json:"address"`
	City               *string `json:"city"`
	PostalCode         *string `json:"postal_code"`
	Country            *string `json:"country"`
	IsSeller           *bool   `json:"is_seller"`
	EmailNotifications *bool   `json:"email_notifications"`
	MarketingEmails    *bool   `json:"marketing_emails"`
}

// GetProfile returns a profile by username; the shape depends on who asks
// GET /api/v1/profiles/:username
func (ctrl *ProfileController) GetProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	username := c.Param("username")
	viewerID, _ := middleware.GetUserID(c)

	view, err := ctrl.profileService.GetByUsername(username, viewerID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			apperrors.NotFound(c, apperrors.ProfileNotFound, "Profile not found")
			return
		}
		log.Error("Failed to fetch profile", err, map[string]interface{}{
			"username": username,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": view,
	})
}

// UpdateMyProfile patches the caller's own profile
// PATCH /api/v1/profiles/me
func (ctrl *ProfileController) UpdateMyProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid profile data")
		return
	}

	profile, err := ctrl.profileService.Update(userID, service.UpdateProfileInput{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		ImageURL:           req.ImageURL,
		Bio:                req.Bio,
		Phone:              req.Phone,
		Address:            req.Address,
		City:               req.City,
		PostalCode:         req.PostalCode,
		Country:            req.Country,
		IsSeller:           req.IsSeller,
		EmailNotifications: req.EmailNotifications,
		MarketingEmails:    req.MarketingEmails,
	})
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			apperrors.NotFound(c, apperrors.ProfileNotFound, "Profile not found")
			return
		}
		log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
	})
}
