package model

import (
	"strings"
	"time"
)

// Profile is created together with its User at registration, so every account
// always has exactly one.
type Profile struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	UserID   uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	ImageURL string `json:"image_url"`
	Bio      string `gorm:"type:text" json:"bio"`
	Phone    string `json:"phone"`

	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`

	// Seller stats are derived; see ProfileService.RefreshSellerStats
	IsSeller     bool    `gorm:"default:false;index" json:"is_seller"`
	SellerRating float64 `gorm:"default:0" json:"seller_rating"`
	TotalSales   int     `gorm:"default:0" json:"total_sales"`

	// Set explicitly at registration; no column default so false stays false
	EmailNotifications bool `json:"email_notifications"`
	MarketingEmails    bool `gorm:"default:false" json:"marketing_emails"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}

// FullAddress joins the non-empty address parts
func (p *Profile) FullAddress() string {
	parts := []string{p.Address, p.City, p.PostalCode, p.Country}
	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

// IsVerifiedSeller reports whether the seller has completed at least one sale
func (p *Profile) IsVerifiedSeller() bool {
	return p.IsSeller && p.TotalSales > 0
}
