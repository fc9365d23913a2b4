package model

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
)

type ItemCategory string

const (
	CategoryElectronics    ItemCategory = "electronics"
	CategoryClothing       ItemCategory = "clothing"
	CategoryHomeKitchen    ItemCategory = "home_kitchen"
	CategoryBooksMedia     ItemCategory = "books_media"
	CategorySportsOutdoors ItemCategory = "sports_outdoors"
	CategoryBeautyPersonal ItemCategory = "beauty_personal"
	CategoryToysGames      ItemCategory = "toys_games"
	CategoryAutomotive     ItemCategory = "automotive"
	CategoryHealthWellness ItemCategory = "health_wellness"
	CategoryJewelry        ItemCategory = "jewelry_accessories"
	CategoryBabyKids       ItemCategory = "baby_kids"
	CategoryPetSupplies    ItemCategory = "pet_supplies"
	CategoryOfficeSupplies ItemCategory = "office_supplies"
	CategoryCollectibles   ItemCategory = "collectibles"
	CategoryOther          ItemCategory = "other"
)

// CategoryDisplayNames maps category keys to storefront labels
var CategoryDisplayNames = map[ItemCategory]string{
	CategoryElectronics:    "Electronics & Tech",
	CategoryClothing:       "Clothing & Fashion",
	CategoryHomeKitchen:    "Home & Kitchen",
	CategoryBooksMedia:     "Books & Media",
	CategorySportsOutdoors: "Sports & Outdoors",
	CategoryBeautyPersonal: "Beauty & Personal Care",
	CategoryToysGames:      "Toys & Games",
	CategoryAutomotive:     "Automotive & Tools",
	CategoryHealthWellness: "Health & Wellness",
	CategoryJewelry:        "Jewelry & Accessories",
	CategoryBabyKids:       "Baby & Kids",
	CategoryPetSupplies:    "Pet Supplies",
	CategoryOfficeSupplies: "Office & School Supplies",
	CategoryCollectibles:   "Collectibles & Art",
	CategoryOther:          "Other",
}

// PopularCategories is the default set shown on the homepage best-seller rail
var PopularCategories = []ItemCategory{
	CategoryElectronics, CategoryClothing, CategoryHomeKitchen,
	CategoryBeautyPersonal, CategorySportsOutdoors, CategoryOfficeSupplies,
	CategoryHealthWellness, CategoryJewelry, CategoryToysGames,
	CategoryAutomotive,
}

type ItemCondition string

const (
	ConditionNew         ItemCondition = "new"
	ConditionUsed        ItemCondition = "used"
	ConditionOpenBox     ItemCondition = "open_box"
	ConditionRefurbished ItemCondition = "refurbished"
)

var ConditionDisplayNames = map[ItemCondition]string{
	ConditionNew:         "New",
	ConditionUsed:        "Used",
	ConditionOpenBox:     "Open Box",
	ConditionRefurbished: "Refurbished",
}

type Item struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	Name        string  `gorm:"not null;index" json:"name"`
	Summary     string  `gorm:"size:200" json:"summary"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Quantity    int     `gorm:"default:0" json:"quantity"`

	Category       ItemCategory `gorm:"type:varchar(50);default:'other';index:idx_items_category_available" json:"category"`
	CustomCategory string       `gorm:"index" json:"custom_category,omitempty"` // lower-cased; set only when Category == other

	SKU       string        `gorm:"uniqueIndex;size:50" json:"sku"`
	Origin    string        `gorm:"default:'Unknown'" json:"origin"`
	Condition ItemCondition `gorm:"type:varchar(20);default:'new'" json:"condition"`
	Weight    float64       `json:"weight,omitempty"` // kg

	IsFeatured  bool `gorm:"default:false;index" json:"is_featured"`
	// No column default: a false insert must stay false (gorm omits
	// zero values for defaulted columns). Creation paths set this explicitly.
	IsAvailable bool `gorm:"index:idx_items_category_available" json:"is_available"`
	IsOnSale    bool `gorm:"default:false;index" json:"is_on_sale"`
	IsDigital   bool `gorm:"default:false" json:"is_digital"`

	SalePrice   *float64   `json:"sale_price,omitempty"`
	SaleStartAt *time.Time `json:"sale_start_at,omitempty"`
	SaleEndAt   *time.Time `json:"sale_end_at,omitempty"`

	ViewCount      int `gorm:"default:0" json:"view_count"`
	TimesPurchased int `gorm:"default:0" json:"times_purchased"`

	SellerID  uint           `gorm:"not null;index" json:"seller_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Seller User        `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Images []ItemImage `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

func (Item) TableName() string {
	return "items"
}

type ItemImage struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	ItemID   uint   `gorm:"not null;index" json:"item_id"`
	URL      string `gorm:"not null" json:"url"`
	Position int    `gorm:"default:0" json:"position"`
}

func (ItemImage) TableName() string {
	return "item_images"
}

// DisplayCategory returns the custom category (title-cased) for "other" items,
// the storefront label otherwise
func (i *Item) DisplayCategory() string {
	if i.Category == CategoryOther && i.CustomCategory != "" {
		return titleCase(i.CustomCategory)
	}
	if name, ok := CategoryDisplayNames[i.Category]; ok {
		return name
	}
	return string(i.Category)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for idx, word := range words {
		words[idx] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func (i *Item) DisplayCondition() string {
	if name, ok := ConditionDisplayNames[i.Condition]; ok {
		return name
	}
	return string(i.Condition)
}

// IsSaleActive reports whether the sale window covers now. Nil bounds are
// open-ended.
func (i *Item) IsSaleActive(now time.Time) bool {
	if !i.IsOnSale || i.SalePrice == nil {
		return false
	}
	if i.SaleStartAt != nil && now.Before(*i.SaleStartAt) {
		return false
	}
	if i.SaleEndAt != nil && now.After(*i.SaleEndAt) {
		return false
	}
	return true
}

// CurrentPrice returns the sale price while a sale is active, the regular
// price otherwise
func (i *Item) CurrentPrice(now time.Time) float64 {
	if i.IsSaleActive(now) {
		return *i.SalePrice
	}
	return i.Price
}

// DiscountPercentage returns the rounded percent saved during an active sale,
// 0 otherwise
func (i *Item) DiscountPercentage(now time.Time) int {
	if !i.IsSaleActive(now) {
		return 0
	}
	return int(math.Round((i.Price - *i.SalePrice) / i.Price * 100))
}

// InStock reports whether the item can currently be purchased
func (i *Item) InStock() bool {
	return i.Quantity > 0 && i.IsAvailable
}

func ValidCategory(category ItemCategory) bool {
	_, ok := CategoryDisplayNames[category]
	return ok
}

func ValidCondition(condition ItemCondition) bool {
	_, ok := ConditionDisplayNames[condition]
	return ok
}

// Normalize trims and lower-cases the custom category before persistence
func (i *Item) Normalize() {
	i.CustomCategory = strings.ToLower(strings.TrimSpace(i.CustomCategory))
}

// Validate returns field-level validation errors, empty map when valid
func (i *Item) Validate() map[string]string {
	fields := make(map[string]string)

	if strings.TrimSpace(i.Name) == "" {
		fields["name"] = "Name is required"
	}
	if i.Price <= 0 {
		fields["price"] = "Price must be greater than zero"
	}
	if i.Quantity < 0 {
		fields["quantity"] = "Quantity must not be negative"
	}
	if !ValidCategory(i.Category) {
		fields["category"] = "Unknown category"
	}
	if i.Category == CategoryOther && strings.TrimSpace(i.CustomCategory) == "" {
		fields["custom_category"] = "Custom category is required when category is 'other'"
	}
	if !ValidCondition(i.Condition) {
		fields["condition"] = "Unknown condition"
	}
	if i.IsOnSale {
		if i.SalePrice == nil {
			fields["sale_price"] = "Sale price is required when item is on sale"
		} else if *i.SalePrice <= 0 {
			fields["sale_price"] = "Sale price must be greater than zero"
		} else if *i.SalePrice >= i.Price {
			fields["sale_price"] = "Sale price must be lower than the regular price"
		}
	}
	if i.SaleStartAt != nil && i.SaleEndAt != nil && !i.SaleStartAt.Before(*i.SaleEndAt) {
		fields["sale_start_at"] = "Sale start must be before sale end"
	}

	return fields
}
