package model

import (
	"time"
)

// Cart is created lazily on first access; one per user.
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User  User       `gorm:"foreignKey:UserID" json:"-"`
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem holds one line per item; adding the same item again merges into
// the existing line.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_item" json:"cart_id"`
	ItemID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_item;index" json:"item_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Item Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal is the sale-aware line total
func (ci *CartItem) Subtotal(now time.Time) float64 {
	return ci.Item.CurrentPrice(now) * float64(ci.Quantity)
}

// Total sums all line subtotals
func (c *Cart) Total(now time.Time) float64 {
	var total float64
	for i := range c.Items {
		total += c.Items[i].Subtotal(now)
	}
	return total
}

// TotalQuantity sums line quantities
func (c *Cart) TotalQuantity() int {
	var total int
	for i := range c.Items {
		total += c.Items[i].Quantity
	}
	return total
}
