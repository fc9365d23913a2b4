package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func activePromo(promoType PromoType, method DiscountMethod, amount float64) *Promotion {
	now := time.Now()
	return &Promotion{
		ID:             1,
		Code:           "SAVE10",
		PromoType:      promoType,
		DiscountMethod: method,
		DiscountAmount: amount,
		StartAt:        now.Add(-time.Hour),
		EndAt:          now.Add(time.Hour),
	}
}

func TestPromotion_IsValid(t *testing.T) {
	now := time.Now()

	promo := activePromo(PromoTypeCheckout, DiscountPercent, 10)
	assert.True(t, promo.IsValid(now))

	promo.StartAt = now.Add(time.Minute)
	assert.False(t, promo.IsValid(now), "not started yet")

	promo.StartAt = now.Add(-2 * time.Hour)
	promo.EndAt = now.Add(-time.Hour)
	assert.False(t, promo.IsValid(now), "already ended")
}

func TestPromotion_Discount(t *testing.T) {
	percent := activePromo(PromoTypeCheckout, DiscountPercent, 25)
	assert.InDelta(t, 75.0, percent.Discount(100), 0.001)

	fixed := activePromo(PromoTypeCheckout, DiscountFixed, 15)
	assert.InDelta(t, 85.0, fixed.Discount(100), 0.001)

	// Fixed discounts floor at zero
	assert.Equal(t, 0.0, fixed.Discount(10))
}

func TestPromotion_AppliesTo(t *testing.T) {
	now := time.Now()

	item := Item{ID: 5, SellerID: 9}
	line := &OrderItem{ItemID: 5, Item: item}

	itemPromo := activePromo(PromoTypeItem, DiscountPercent, 10)
	itemPromo.Items = []Item{{ID: 5}}
	assert.True(t, itemPromo.AppliesTo(line, now))

	otherItemPromo := activePromo(PromoTypeItem, DiscountPercent, 10)
	otherItemPromo.Items = []Item{{ID: 6}}
	assert.False(t, otherItemPromo.AppliesTo(line, now))

	sellerPromo := activePromo(PromoTypeSeller, DiscountPercent, 10)
	sellerPromo.Sellers = []User{{ID: 9}}
	assert.True(t, sellerPromo.AppliesTo(line, now))

	// Checkout promotions apply to the subtotal, never per line
	checkoutPromo := activePromo(PromoTypeCheckout, DiscountPercent, 10)
	checkoutPromo.Items = []Item{{ID: 5}}
	assert.False(t, checkoutPromo.AppliesTo(line, now))

	// Expired promotions never apply
	expired := activePromo(PromoTypeItem, DiscountPercent, 10)
	expired.Items = []Item{{ID: 5}}
	expired.EndAt = now.Add(-time.Minute)
	assert.False(t, expired.AppliesTo(line, now))
}

func TestPromotion_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Promotion)
		wantField string
	}{
		{
			name:      "Valid promotion",
			mutate:    func(p *Promotion) {},
			wantField: "",
		},
		{
			name:      "Empty code",
			mutate:    func(p *Promotion) { p.Code = "" },
			wantField: "code",
		},
		{
			name:      "Code too long",
			mutate:    func(p *Promotion) { p.Code = "SUPERLONGCODE" },
			wantField: "code",
		},
		{
			name:      "Unknown promo type",
			mutate:    func(p *Promotion) { p.PromoType = "flash" },
			wantField: "promo_type",
		},
		{
			name:      "Unknown discount method",
			mutate:    func(p *Promotion) { p.DiscountMethod = "bogo" },
			wantField: "discount_method",
		},
		{
			name:      "Zero discount amount",
			mutate:    func(p *Promotion) { p.DiscountAmount = 0 },
			wantField: "discount_amount",
		},
		{
			name: "Percent above 100",
			mutate: func(p *Promotion) {
				p.DiscountMethod = DiscountPercent
				p.DiscountAmount = 120
			},
			wantField: "discount_amount",
		},
		{
			name:      "Inverted window",
			mutate:    func(p *Promotion) { p.EndAt = p.StartAt.Add(-time.Hour) },
			wantField: "start_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			promo := activePromo(PromoTypeCheckout, DiscountPercent, 10)
			tt.mutate(promo)

			fields := promo.Validate()
			if tt.wantField == "" {
				assert.Empty(t, fields)
			} else {
				assert.Contains(t, fields, tt.wantField)
			}
		})
	}
}
