package service

import (
	"errors"
	"fmt"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"github.com/bazaarhq/bazaar-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrNotItemSeller     = errors.New("only the item's seller may do this")
	ErrItemHasPurchases  = errors.New("cannot delete item with existing purchases")
	ErrItemValidation    = errors.New("item validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ValidationFieldsError carries per-field messages alongside ErrItemValidation
type ValidationFieldsError struct {
	Fields map[string]string
}

func (e *ValidationFieldsError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

func (e *ValidationFieldsError) Unwrap() error {
	return ErrItemValidation
}

type ItemService interface {
	Create(sellerID uint, item *model.Item, imageURLs []string) (*model.Item, error)
	Search(filter repository.ItemFilter) ([]model.Item, error)
	GetByID(id uint) (*model.Item, error)
	Update(sellerID, itemID uint, updated *model.Item, imageURLs []string) (*model.Item, error)
	RelatedItems(item *model.Item, limit int) ([]model.Item, error)
	Delete(sellerID uint, itemID uint, isAdmin bool) error
	ReduceStock(itemID uint, amount int) (bool, error)
	RecordView(itemID uint) error
}

type itemService struct {
	itemRepo repository.ItemRepository
}

func NewItemService(itemRepo repository.ItemRepository) ItemService {
	return &itemService{itemRepo: itemRepo}
}

// Create validates, normalizes and persists a new listing. The SKU is
// generated from the category and retried on collision.
func (s *itemService) Create(sellerID uint, item *model.Item, imageURLs []string) (*model.Item, error) {
	logger.Info("Creating item", map[string]interface{}{
		"seller_id": sellerID,
		"name":      item.Name,
		"category":  item.Category,
	})

	item.SellerID = sellerID
	item.IsAvailable = item.Quantity > 0
	item.ViewCount = 0
	item.TimesPurchased = 0
	item.Normalize()

	if fields := item.Validate(); len(fields) > 0 {
		logger.Warn("Item validation failed", map[string]interface{}{
			"seller_id": sellerID,
			"fields":    fields,
		})
		return nil, &ValidationFieldsError{Fields: fields}
	}

	if item.SKU == "" {
		sku, err := s.generateUniqueSKU(item)
		if err != nil {
			return nil, err
		}
		item.SKU = sku
	}

	for position, url := range imageURLs {
		item.Images = append(item.Images, model.ItemImage{URL: url, Position: position})
	}

	if err := s.itemRepo.Create(item); err != nil {
		return nil, err
	}

	logger.Info("Item created", map[string]interface{}{
		"item_id":   item.ID,
		"sku":       item.SKU,
		"seller_id": sellerID,
	})
	return item, nil
}

func (s *itemService) generateUniqueSKU(item *model.Item) (string, error) {
	source := string(item.Category)
	if item.Category == model.CategoryOther && item.CustomCategory != "" {
		source = item.CustomCategory
	}

	for attempt := 0; attempt < 5; attempt++ {
		sku := util.GenerateSKU(source)
		exists, err := s.itemRepo.SKUExists(sku)
		if err != nil {
			return "", err
		}
		if !exists {
			return sku, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique SKU for category %q", source)
}

func (s *itemService) Search(filter repository.ItemFilter) ([]model.Item, error) {
	return s.itemRepo.FindWithFilter(filter)
}

func (s *itemService) GetByID(id uint) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// Update replaces the mutable fields of a listing. Only the owning seller may
// update; counters and ownership never change here.
func (s *itemService) Update(sellerID, itemID uint, updated *model.Item, imageURLs []string) (*model.Item, error) {
	item, err := s.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item.SellerID != sellerID {
		logger.Warn("Item update rejected: not the seller", map[string]interface{}{
			"item_id":   itemID,
			"seller_id": item.SellerID,
			"user_id":   sellerID,
		})
		return nil, ErrNotItemSeller
	}

	item.Name = updated.Name
	item.Summary = updated.Summary
	item.Description = updated.Description
	item.Price = updated.Price
	item.Quantity = updated.Quantity
	item.Category = updated.Category
	item.CustomCategory = updated.CustomCategory
	item.Origin = updated.Origin
	item.Condition = updated.Condition
	item.Weight = updated.Weight
	item.IsFeatured = updated.IsFeatured
	item.IsAvailable = updated.IsAvailable && updated.Quantity > 0
	item.IsOnSale = updated.IsOnSale
	item.IsDigital = updated.IsDigital
	item.SalePrice = updated.SalePrice
	item.SaleStartAt = updated.SaleStartAt
	item.SaleEndAt = updated.SaleEndAt
	item.Normalize()

	if fields := item.Validate(); len(fields) > 0 {
		return nil, &ValidationFieldsError{Fields: fields}
	}

	if imageURLs != nil {
		images := make([]model.ItemImage, 0, len(imageURLs))
		for position, url := range imageURLs {
			images = append(images, model.ItemImage{ItemID: item.ID, URL: url, Position: position})
		}
		item.Images = images
	}

	if err := s.itemRepo.Update(item); err != nil {
		return nil, err
	}

	logger.Info("Item updated", map[string]interface{}{
		"item_id": item.ID,
	})
	return item, nil
}

// RelatedItems returns other available items from the same category, for the
// detail page's suggestion rail
func (s *itemService) RelatedItems(item *model.Item, limit int) ([]model.Item, error) {
	return s.itemRepo.RecommendedByCategories(
		[]model.ItemCategory{item.Category},
		[]uint{item.ID},
		limit,
	)
}

// Delete removes a listing. Items that have been purchased stay for order
// history and cannot be deleted.
func (s *itemService) Delete(sellerID uint, itemID uint, isAdmin bool) error {
	item, err := s.GetByID(itemID)
	if err != nil {
		return err
	}
	if item.SellerID != sellerID && !isAdmin {
		return ErrNotItemSeller
	}
	if item.TimesPurchased > 0 {
		logger.Warn("Item deletion rejected: has purchases", map[string]interface{}{
			"item_id":         itemID,
			"times_purchased": item.TimesPurchased,
		})
		return ErrItemHasPurchases
	}

	if err := s.itemRepo.Delete(itemID); err != nil {
		return err
	}

	logger.Info("Item deleted", map[string]interface{}{
		"item_id": itemID,
	})
	return nil
}

// ReduceStock runs a standalone stock reduction in its own transaction
func (s *itemService) ReduceStock(itemID uint, amount int) (bool, error) {
	ok, err := s.itemRepo.ReduceStock(nil, itemID, amount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrItemNotFound
		}
		return false, err
	}
	return ok, nil
}

// RecordView bumps the view counter; called from the detail endpoint
func (s *itemService) RecordView(itemID uint) error {
	return s.itemRepo.IncrementViewCount(itemID)
}
