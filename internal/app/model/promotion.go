package model

import (
	"strings"
	"time"
)

type PromoType string

const (
	PromoTypeItem     PromoType = "item"     // applies to listed items
	PromoTypeCheckout PromoType = "checkout" // applies to the order subtotal
	PromoTypeSeller   PromoType = "seller"   // applies to listed sellers' items
)

type DiscountMethod string

const (
	DiscountPercent DiscountMethod = "percent"
	DiscountFixed   DiscountMethod = "fixed"
)

type Promotion struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Code           string         `gorm:"uniqueIndex;size:10;not null" json:"code"`
	PromoType      PromoType      `gorm:"type:varchar(10);not null;index" json:"promo_type"`
	DiscountMethod DiscountMethod `gorm:"type:varchar(10);not null" json:"discount_method"`
	DiscountAmount float64        `gorm:"not null" json:"discount_amount"`
	StartAt        time.Time      `gorm:"not null" json:"start_at"`
	EndAt          time.Time      `gorm:"not null" json:"end_at"`
	Description    string         `gorm:"type:text" json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items   []Item `gorm:"many2many:promotion_items" json:"items,omitempty"`
	Sellers []User `gorm:"many2many:promotion_sellers" json:"sellers,omitempty"`
}

func (Promotion) TableName() string {
	return "promotions"
}

// IsValid reports whether the promotion window covers now
func (p *Promotion) IsValid(now time.Time) bool {
	return !now.Before(p.StartAt) && !now.After(p.EndAt)
}

// Discount applies the promotion to an amount. Fixed discounts never push the
// amount below zero.
func (p *Promotion) Discount(amount float64) float64 {
	if p.DiscountMethod == DiscountPercent {
		return amount * (1 - p.DiscountAmount/100)
	}
	discounted := amount - p.DiscountAmount
	if discounted < 0 {
		return 0
	}
	return discounted
}

// AppliesTo reports whether the promotion covers an order line: valid and the
// line's item (or its seller) is listed on the promotion. Checkout promotions
// never apply per line.
func (p *Promotion) AppliesTo(orderItem *OrderItem, now time.Time) bool {
	if !p.IsValid(now) {
		return false
	}
	if p.PromoType == PromoTypeCheckout {
		return false
	}
	for i := range p.Items {
		if p.Items[i].ID == orderItem.ItemID {
			return true
		}
	}
	for i := range p.Sellers {
		if p.Sellers[i].ID == orderItem.Item.SellerID {
			return true
		}
	}
	return false
}

// Validate returns field-level validation errors, empty map when valid
func (p *Promotion) Validate() map[string]string {
	fields := make(map[string]string)

	code := strings.TrimSpace(p.Code)
	if code == "" {
		fields["code"] = "Code is required"
	} else if len(code) > 10 {
		fields["code"] = "Code must be at most 10 characters"
	}
	switch p.PromoType {
	case PromoTypeItem, PromoTypeCheckout, PromoTypeSeller:
	default:
		fields["promo_type"] = "Unknown promotion type"
	}
	switch p.DiscountMethod {
	case DiscountPercent, DiscountFixed:
	default:
		fields["discount_method"] = "Unknown discount method"
	}
	if p.DiscountAmount <= 0 {
		fields["discount_amount"] = "Discount amount must be greater than zero"
	}
	if p.DiscountMethod == DiscountPercent && p.DiscountAmount > 100 {
		fields["discount_amount"] = "Percent discount cannot exceed 100"
	}
	if !p.StartAt.Before(p.EndAt) {
		fields["start_at"] = "Start time must be before end time"
	}

	return fields
}
