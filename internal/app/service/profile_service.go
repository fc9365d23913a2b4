package service

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

// PublicProfileView is what any visitor sees; contact details and
// preferences stay private.
type PublicProfileView struct {
	Username         string  `json:"username"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	ImageURL         string  `json:"image_url"`
	Bio              string  `json:"bio"`
	IsSeller         bool    `json:"is_seller"`
	IsVerifiedSeller bool    `json:"is_verified_seller"`
	SellerRating     float64 `json:"seller_rating"`
	TotalSales       int     `json:"total_sales"`
	MemberSince      string  `json:"member_since"`
}

// PrivateProfileView is the owner's own view
type PrivateProfileView struct {
	PublicProfileView
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	City               string `json:"city"`
	PostalCode         string `json:"postal_code"`
	Country            string `json:"country"`
	FullAddress        string `json:"full_address"`
	EmailNotifications bool   `json:"email_notifications"`
	MarketingEmails    bool   `json:"marketing_emails"`
}

// PrivateSellerProfileView adds listing stats for sellers viewing themselves
type PrivateSellerProfileView struct {
	PrivateProfileView
	ActiveListings int64 `json:"active_listings"`
}

type UpdateProfileInput struct {
	FirstName          *string
	LastName           *string
	ImageURL           *string
	Bio                *string
	Phone              *string
	Address            *string
	City               *string
	PostalCode         *string
	Country            *string
	IsSeller           *bool
	EmailNotifications *bool
	MarketingEmails    *bool
}

type ProfileService interface {
	GetByUsername(username string, viewerID uint) (interface{}, error)
	Update(userID uint, input UpdateProfileInput) (*model.Profile, error)
	RefreshSellerStats(userID uint) (*model.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
	db          *gorm.DB
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	db *gorm.DB,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		db:          db,
	}
}

// GetByUsername returns the view matching the viewer: owners get their full
// profile (with listing stats when they sell), everyone else the public one.
// Seller stats are recomputed on read so the public numbers stay current.
func (s *profileService) GetByUsername(username string, viewerID uint) (interface{}, error) {
	profile, err := s.profileRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if profile.IsSeller {
		refreshed, err := s.RefreshSellerStats(profile.UserID)
		if err != nil {
			return nil, err
		}
		refreshed.User = profile.User
		profile = refreshed
	}

	public := PublicProfileView{
		Username:         profile.User.Username,
		FirstName:        profile.User.FirstName,
		LastName:         profile.User.LastName,
		ImageURL:         profile.ImageURL,
		Bio:              profile.Bio,
		IsSeller:         profile.IsSeller,
		IsVerifiedSeller: profile.IsVerifiedSeller(),
		SellerRating:     profile.SellerRating,
		TotalSales:       profile.TotalSales,
		MemberSince:      profile.User.CreatedAt.Format(time.RFC3339),
	}

	if viewerID != profile.UserID {
		return &public, nil
	}

	private := PrivateProfileView{
		PublicProfileView:  public,
		Email:              profile.User.Email,
		Phone:              profile.Phone,
		Address:            profile.Address,
		City:               profile.City,
		PostalCode:         profile.PostalCode,
		Country:            profile.Country,
		FullAddress:        profile.FullAddress(),
		EmailNotifications: profile.EmailNotifications,
		MarketingEmails:    profile.MarketingEmails,
	}

	if !profile.IsSeller {
		return &private, nil
	}

	var activeListings int64
	err = s.db.Model(&model.Item{}).
		Where("seller_id = ? AND is_available = ?", profile.UserID, true).
		Count(&activeListings).Error
	if err != nil {
		return nil, err
	}

	return &PrivateSellerProfileView{
		PrivateProfileView: private,
		ActiveListings:     activeListings,
	}, nil
}

// Update applies only the fields present in the input; absent fields keep
// their stored values.
func (s *profileService) Update(userID uint, input UpdateProfileInput) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	userChanged := false
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
		userChanged = true
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
		userChanged = true
	}
	if userChanged {
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	if input.ImageURL != nil {
		profile.ImageURL = *input.ImageURL
	}
	if input.Bio != nil {
		profile.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.Phone != nil {
		profile.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		profile.Address = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		profile.City = strings.TrimSpace(*input.City)
	}
	if input.PostalCode != nil {
		profile.PostalCode = strings.TrimSpace(*input.PostalCode)
	}
	if input.Country != nil {
		profile.Country = strings.TrimSpace(*input.Country)
	}
	if input.IsSeller != nil {
		profile.IsSeller = *input.IsSeller
	}
	if input.EmailNotifications != nil {
		profile.EmailNotifications = *input.EmailNotifications
	}
	if input.MarketingEmails != nil {
		profile.MarketingEmails = *input.MarketingEmails
	}

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, err
	}

	logger.Info("Profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return profile, nil
}

// RefreshSellerStats recomputes TotalSales and SellerRating from delivered
// orders and review ratings; the rating is stored rounded to 2 decimals.
func (s *profileService) RefreshSellerStats(userID uint) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	agg, err := s.profileRepo.SellerAggregates(userID)
	if err != nil {
		return nil, err
	}

	profile.TotalSales = int(agg.TotalSales)
	profile.SellerRating = math.Round(agg.AverageRating*100) / 100

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, err
	}

	logger.Debug("Seller stats refreshed", map[string]interface{}{
		"user_id":       userID,
		"total_sales":   profile.TotalSales,
		"seller_rating": profile.SellerRating,
	})
	return profile, nil
}
