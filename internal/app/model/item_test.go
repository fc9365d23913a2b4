package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func saleItem(price, salePrice float64, start, end *time.Time) *Item {
	return &Item{
		Name:        "Wireless Headphones",
		Price:       price,
		Category:    CategoryElectronics,
		Condition:   ConditionNew,
		IsOnSale:    true,
		SalePrice:   &salePrice,
		SaleStartAt: start,
		SaleEndAt:   end,
	}
}

func TestItem_IsSaleActive(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		item *Item
		want bool
	}{
		{
			name: "Active sale within window",
			item: saleItem(100, 80, &past, &future),
			want: true,
		},
		{
			name: "Sale with open-ended window",
			item: saleItem(100, 80, nil, nil),
			want: true,
		},
		{
			name: "Sale not started yet",
			item: saleItem(100, 80, &future, nil),
			want: false,
		},
		{
			name: "Sale already ended",
			item: saleItem(100, 80, nil, &past),
			want: false,
		},
		{
			name: "Not flagged on sale",
			item: &Item{Price: 100, IsOnSale: false},
			want: false,
		},
		{
			name: "On sale but no sale price",
			item: &Item{Price: 100, IsOnSale: true},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.IsSaleActive(now))
		})
	}
}

func TestItem_CurrentPrice(t *testing.T) {
	now := time.Now()

	item := saleItem(100, 80, nil, nil)
	assert.Equal(t, 80.0, item.CurrentPrice(now))
	assert.Equal(t, 20, item.DiscountPercentage(now))

	// Outside the sale window the regular price applies
	past := now.Add(-time.Hour)
	expired := saleItem(100, 80, nil, &past)
	assert.Equal(t, 100.0, expired.CurrentPrice(now))
	assert.Equal(t, 0, expired.DiscountPercentage(now))

	regular := &Item{Price: 59.99}
	assert.Equal(t, 59.99, regular.CurrentPrice(now))
	assert.Equal(t, 0, regular.DiscountPercentage(now))
}

func TestItem_DiscountPercentage_Rounds(t *testing.T) {
	now := time.Now()

	item := saleItem(29.99, 19.99, nil, nil)
	// (29.99-19.99)/29.99*100 = 33.34...
	assert.Equal(t, 33, item.DiscountPercentage(now))
}

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Item)
		wantField string
	}{
		{
			name:      "Valid item",
			mutate:    func(i *Item) {},
			wantField: "",
		},
		{
			name:      "Missing name",
			mutate:    func(i *Item) { i.Name = "  " },
			wantField: "name",
		},
		{
			name:      "Zero price",
			mutate:    func(i *Item) { i.Price = 0 },
			wantField: "price",
		},
		{
			name:      "Negative quantity",
			mutate:    func(i *Item) { i.Quantity = -1 },
			wantField: "quantity",
		},
		{
			name:      "Unknown category",
			mutate:    func(i *Item) { i.Category = "gadgets" },
			wantField: "category",
		},
		{
			name: "Other without custom category",
			mutate: func(i *Item) {
				i.Category = CategoryOther
				i.CustomCategory = ""
			},
			wantField: "custom_category",
		},
		{
			name:      "Unknown condition",
			mutate:    func(i *Item) { i.Condition = "mint" },
			wantField: "condition",
		},
		{
			name:      "On sale without sale price",
			mutate:    func(i *Item) { i.IsOnSale = true },
			wantField: "sale_price",
		},
		{
			name: "Sale price above regular price",
			mutate: func(i *Item) {
				i.IsOnSale = true
				price := 150.0
				i.SalePrice = &price
			},
			wantField: "sale_price",
		},
		{
			name: "Sale window inverted",
			mutate: func(i *Item) {
				start := time.Now()
				end := start.Add(-time.Hour)
				i.SaleStartAt = &start
				i.SaleEndAt = &end
			},
			wantField: "sale_start_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &Item{
				Name:      "Test Item",
				Price:     100,
				Quantity:  5,
				Category:  CategoryElectronics,
				Condition: ConditionNew,
			}
			tt.mutate(item)

			fields := item.Validate()
			if tt.wantField == "" {
				assert.Empty(t, fields)
			} else {
				assert.Contains(t, fields, tt.wantField)
			}
		})
	}
}

func TestItem_DisplayCategory(t *testing.T) {
	item := &Item{Category: CategoryElectronics}
	assert.Equal(t, "Electronics & Tech", item.DisplayCategory())

	custom := &Item{Category: CategoryOther, CustomCategory: "vintage cameras"}
	assert.Equal(t, "Vintage Cameras", custom.DisplayCategory())
}

func TestItem_Normalize(t *testing.T) {
	item := &Item{Category: CategoryOther, CustomCategory: "  Vintage Cameras "}
	item.Normalize()
	assert.Equal(t, "vintage cameras", item.CustomCategory)
}

func TestItem_InStock(t *testing.T) {
	assert.True(t, (&Item{Quantity: 3, IsAvailable: true}).InStock())
	assert.False(t, (&Item{Quantity: 0, IsAvailable: true}).InStock())
	assert.False(t, (&Item{Quantity: 3, IsAvailable: false}).InStock())
}
