package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// ValidOrderStatus reports whether s is a known status value
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

type Order struct {
	ID     uint        `gorm:"primarykey" json:"id"`
	UserID uint        `gorm:"not null;index" json:"user_id"`
	Status OrderStatus `gorm:"type:varchar(20);default:'processing';index" json:"status"`

	// TotalPrice is the amount charged after promotions
	TotalPrice float64 `gorm:"not null" json:"total_price"`

	ShippingAddress    string `gorm:"not null" json:"shipping_address"`
	ShippingCity       string `gorm:"not null" json:"shipping_city"`
	ShippingPostalCode string `gorm:"not null" json:"shipping_postal_code"`
	ShippingCountry    string `gorm:"not null" json:"shipping_country"`

	TrackingNumber    string     `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`

	PaymentMethod string `gorm:"default:'mock'" json:"payment_method"`
	PaymentStatus string `gorm:"default:'pending'" json:"payment_status"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User       User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
	Promotions []Promotion `gorm:"many2many:order_promotions" json:"promotions,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// CanCancel reports whether the buyer may still cancel
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusProcessing
}

// OrderItem freezes the unit price at checkout time, before promotions.
type OrderItem struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	OrderID  uint    `gorm:"not null;uniqueIndex:idx_order_items_order_item" json:"order_id"`
	ItemID   uint    `gorm:"not null;uniqueIndex:idx_order_items_order_item;index" json:"item_id"`
	Quantity int     `gorm:"not null" json:"quantity"`
	Price    float64 `gorm:"not null" json:"price"`

	CreatedAt time.Time `json:"created_at"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
	Item  Item  `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal is the frozen line total before promotions
func (oi *OrderItem) Subtotal() float64 {
	return oi.Price * float64(oi.Quantity)
}
