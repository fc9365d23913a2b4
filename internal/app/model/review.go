package model

import (
	"time"

	"gorm.io/gorm"
)

// Review is unique per (order, item): a buyer may review each purchased item
// once per order.
type Review struct {
	ID         uint `gorm:"primarykey" json:"id"`
	OrderID    uint `gorm:"not null;uniqueIndex:idx_reviews_order_item" json:"order_id"`
	ItemID     uint `gorm:"not null;uniqueIndex:idx_reviews_order_item;index" json:"item_id"`
	ReviewerID uint `gorm:"not null;index" json:"reviewer_id"`

	Rating  int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	IsVerifiedPurchase bool `gorm:"default:false" json:"is_verified_purchase"`
	HelpfulCount       int  `gorm:"default:0" json:"helpful_count"`

	SellerResponse string     `gorm:"type:text" json:"seller_response,omitempty"`
	ResponseAt     *time.Time `json:"response_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Reviewer User           `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Item     Item           `gorm:"foreignKey:ItemID" json:"-"`
	Order    Order          `gorm:"foreignKey:OrderID" json:"-"`
	Images   []ReviewImage  `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Upvotes  []ReviewUpvote `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

type ReviewImage struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	ReviewID uint   `gorm:"not null;index" json:"review_id"`
	URL      string `gorm:"not null" json:"url"`
}

func (ReviewImage) TableName() string {
	return "review_images"
}

// ReviewUpvote records one "helpful" vote per user per review. HelpfulCount
// on the review is kept in sync in the same transaction.
type ReviewUpvote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ReviewID  uint      `gorm:"not null;uniqueIndex:idx_review_upvotes_review_user" json:"review_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_upvotes_review_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReviewUpvote) TableName() string {
	return "review_upvotes"
}

// ReviewStats aggregates review data for an item. An item without reviews
// gets the zero-filled struct, never an error.
type ReviewStats struct {
	TotalReviews        int64         `json:"total_reviews"`
	AverageRating       float64       `json:"average_rating"` // 1 decimal
	VerifiedCount       int64         `json:"verified_count"`
	RatingDistribution  map[int]int64 `json:"rating_distribution"`
	PercentageRecommend float64       `json:"percentage_recommend"` // share of ratings >= 4
	WithMediaCount      int64         `json:"with_media_count"`
}

// EmptyReviewStats returns the zero-filled stats contract
func EmptyReviewStats() *ReviewStats {
	return &ReviewStats{
		RatingDistribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
}
