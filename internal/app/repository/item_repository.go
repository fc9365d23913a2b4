package repository

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemFilter holds catalog search parameters. Zero values mean "not set".
type ItemFilter struct {
	Search     string
	Category   string // standard key or custom category
	MinPrice   *float64
	MaxPrice   *float64
	Condition  *model.ItemCondition
	IsOnSale   *bool
	IsFeatured *bool
	MinRating  *int
	SellerID   *uint
	Limit      int
	Offset     int
}

type ItemRepository interface {
	Create(item *model.Item) error
	FindWithFilter(filter ItemFilter) ([]model.Item, error)
	FindByID(id uint) (*model.Item, error)
	FindByIDs(ids []uint) ([]model.Item, error)
	Update(item *model.Item) error
	Delete(id uint) error
	SKUExists(sku string) (bool, error)

	ReduceStock(tx *gorm.DB, itemID uint, amount int) (bool, error)
	IncrementViewCount(id uint) error

	Trending(limit int) ([]model.Item, error)
	Featured(limit int) ([]model.Item, error)
	BestSellersByCategory(perCategory, maxCategories int) (map[string][]model.Item, error)
	RecommendedByCategories(categories []model.ItemCategory, excludeIDs []uint, limit int) ([]model.Item, error)
	Categories() ([]string, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Item{}).
		Preload("Images").
		Preload("Seller")
}

func (r *itemRepository) Create(item *model.Item) error {
	logger.Debug("Creating item in database", map[string]interface{}{
		"name":      item.Name,
		"category":  item.Category,
		"seller_id": item.SellerID,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create item in database", err, map[string]interface{}{
			"name":      item.Name,
			"sku":       item.SKU,
			"seller_id": item.SellerID,
		})
		return err
	}

	logger.Debug("Item created in database", map[string]interface{}{
		"item_id": item.ID,
		"sku":     item.SKU,
	})
	return nil
}

func (r *itemRepository) FindWithFilter(filter ItemFilter) ([]model.Item, error) {
	logger.Debug("Finding items with filter", map[string]interface{}{
		"search":   filter.Search,
		"category": filter.Category,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})

	query := r.baseQuery().Where("items.is_available = ?", true)

	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", strings.ToLower(filter.Search))
		query = query.Where(
			"LOWER(items.name) LIKE ? OR LOWER(items.summary) LIKE ? OR LOWER(items.description) LIKE ?",
			like, like, like,
		)
	}

	if filter.Category != "" {
		category := strings.ToLower(strings.TrimSpace(filter.Category))
		query = query.Where("items.category = ? OR items.custom_category = ?", category, category)
	}

	if filter.MinPrice != nil {
		query = query.Where("items.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("items.price <= ?", *filter.MaxPrice)
	}
	if filter.Condition != nil {
		query = query.Where("items.condition = ?", *filter.Condition)
	}
	if filter.IsOnSale != nil {
		query = query.Where("items.is_on_sale = ?", *filter.IsOnSale)
	}
	if filter.IsFeatured != nil {
		query = query.Where("items.is_featured = ?", *filter.IsFeatured)
	}
	if filter.SellerID != nil {
		query = query.Where("items.seller_id = ?", *filter.SellerID)
	}

	if filter.MinRating != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM reviews WHERE reviews.item_id = items.id AND reviews.rating >= ? AND reviews.deleted_at IS NULL)",
			*filter.MinRating,
		)
	}

	query = query.Order("items.is_featured DESC").
		Order("items.view_count DESC").
		Order("items.created_at DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []model.Item
	if err := query.Find(&items).Error; err != nil {
		logger.Error("Failed to find items with filter", err, map[string]interface{}{
			"search":   filter.Search,
			"category": filter.Category,
		})
		return nil, err
	}

	logger.Debug("Items found with filter", map[string]interface{}{
		"count": len(items),
	})
	return items, nil
}

func (r *itemRepository) FindByID(id uint) (*model.Item, error) {
	var item model.Item
	if err := r.baseQuery().First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindByIDs(ids []uint) ([]model.Item, error) {
	if len(ids) == 0 {
		return []model.Item{}, nil
	}
	var items []model.Item
	if err := r.baseQuery().Where("items.id IN ?", ids).Find(&items).Error; err != nil {
		logger.Error("Failed to find items by IDs", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) Update(item *model.Item) error {
	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update item in database", err, map[string]interface{}{
			"item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *itemRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Item{}, id).Error; err != nil {
		logger.Error("Failed to delete item in database", err, map[string]interface{}{
			"item_id": id,
		})
		return err
	}
	return nil
}

func (r *itemRepository) SKUExists(sku string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Item{}).Where("sku = ?", sku).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReduceStock decrements stock under a row lock. Returns false without
// mutating anything when stock is insufficient. Pass a transaction to join an
// outer unit of work (checkout); pass nil to run in its own transaction.
func (r *itemRepository) ReduceStock(tx *gorm.DB, itemID uint, amount int) (bool, error) {
	if tx == nil {
		var ok bool
		err := r.db.Transaction(func(inner *gorm.DB) error {
			var innerErr error
			ok, innerErr = reduceStockLocked(inner, itemID, amount)
			return innerErr
		})
		return ok, err
	}
	return reduceStockLocked(tx, itemID, amount)
}

func reduceStockLocked(tx *gorm.DB, itemID uint, amount int) (bool, error) {
	var item model.Item
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, itemID).Error
	if err != nil {
		logger.Error("Failed to lock item for stock reduction", err, map[string]interface{}{
			"item_id": itemID,
		})
		return false, err
	}

	if item.Quantity < amount {
		logger.Debug("Insufficient stock for reduction", map[string]interface{}{
			"item_id":   itemID,
			"quantity":  item.Quantity,
			"requested": amount,
		})
		return false, nil
	}

	item.Quantity -= amount
	item.TimesPurchased += amount
	if item.Quantity == 0 {
		item.IsAvailable = false
	}

	err = tx.Model(&model.Item{}).Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"quantity":        item.Quantity,
			"times_purchased": item.TimesPurchased,
			"is_available":    item.IsAvailable,
		}).Error
	if err != nil {
		logger.Error("Failed to reduce item stock", err, map[string]interface{}{
			"item_id": itemID,
		})
		return false, err
	}

	return true, nil
}

// IncrementViewCount bumps the counter with a single UPDATE; lost updates
// under concurrency are acceptable for analytics counters
func (r *itemRepository) IncrementViewCount(id uint) error {
	err := r.db.Model(&model.Item{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		logger.Error("Failed to increment item view count", err, map[string]interface{}{
			"item_id": id,
		})
	}
	return err
}

func (r *itemRepository) Trending(limit int) ([]model.Item, error) {
	var items []model.Item
	err := r.baseQuery().
		Where("items.is_available = ?", true).
		Order("items.view_count DESC").
		Order("items.times_purchased DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find trending items", err, nil)
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) Featured(limit int) ([]model.Item, error) {
	var items []model.Item
	err := r.baseQuery().
		Where("items.is_featured = ? AND items.is_available = ?", true, true).
		Order("items.created_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find featured items", err, nil)
		return nil, err
	}
	return items, nil
}

// BestSellersByCategory returns the top sellers per popular category, keyed
// by display name. Categories without available items are omitted.
func (r *itemRepository) BestSellersByCategory(perCategory, maxCategories int) (map[string][]model.Item, error) {
	categories := model.PopularCategories
	if maxCategories < len(categories) {
		categories = categories[:maxCategories]
	}

	result := make(map[string][]model.Item)
	for _, category := range categories {
		var items []model.Item
		err := r.baseQuery().
			Where("items.category = ? AND items.is_available = ?", category, true).
			Order("items.times_purchased DESC").
			Order("items.view_count DESC").
			Limit(perCategory).
			Find(&items).Error
		if err != nil {
			logger.Error("Failed to find best sellers for category", err, map[string]interface{}{
				"category": category,
			})
			return nil, err
		}
		if len(items) > 0 {
			result[model.CategoryDisplayNames[category]] = items
		}
	}
	return result, nil
}

// RecommendedByCategories returns available items from the given categories,
// excluding already-viewed ones, ordered by purchase count
func (r *itemRepository) RecommendedByCategories(categories []model.ItemCategory, excludeIDs []uint, limit int) ([]model.Item, error) {
	if len(categories) == 0 {
		return []model.Item{}, nil
	}

	query := r.baseQuery().
		Where("items.category IN ? AND items.is_available = ?", categories, true)
	if len(excludeIDs) > 0 {
		query = query.Where("items.id NOT IN ?", excludeIDs)
	}

	var items []model.Item
	err := query.Order("items.times_purchased DESC").Limit(limit).Find(&items).Error
	if err != nil {
		logger.Error("Failed to find recommended items", err, nil)
		return nil, err
	}
	return items, nil
}

// Categories returns the sorted display names of all categories with
// available items, custom categories included
func (r *itemRepository) Categories() ([]string, error) {
	var keys []model.ItemCategory
	err := r.db.Model(&model.Item{}).
		Where("is_available = ?", true).
		Distinct("category").
		Pluck("category", &keys).Error
	if err != nil {
		logger.Error("Failed to list item categories", err, nil)
		return nil, err
	}

	names := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if display, ok := model.CategoryDisplayNames[key]; ok {
			names[display] = struct{}{}
		} else {
			names[string(key)] = struct{}{}
		}
	}

	var custom []string
	err = r.db.Model(&model.Item{}).
		Where("category = ? AND custom_category <> '' AND is_available = ?", model.CategoryOther, true).
		Distinct("custom_category").
		Pluck("custom_category", &custom).Error
	if err != nil {
		logger.Error("Failed to list custom categories", err, nil)
		return nil, err
	}
	for _, c := range custom {
		names[c] = struct{}{}
	}

	result := make([]string, 0, len(names))
	for name := range names {
		result = append(result, name)
	}
	sort.Strings(result)
	return result, nil
}
