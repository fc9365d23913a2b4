package service

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrPromotionNotFound   = errors.New("promotion not found")
	ErrPromotionValidation = errors.New("promotion validation failed")
)

type PromotionService interface {
	Create(promotion *model.Promotion, itemIDs, sellerIDs []uint) (*model.Promotion, error)
	GetByID(id uint) (*model.Promotion, error)
	List() ([]model.Promotion, error)
	Update(id uint, updated *model.Promotion, itemIDs, sellerIDs []uint) (*model.Promotion, error)
	Delete(id uint) error
	ResolveCodes(codes []string, now time.Time) ([]model.Promotion, error)
	ApplyToOrder(order *model.Order, now time.Time) float64
}

type promotionService struct {
	promoRepo repository.PromotionRepository
	itemRepo  repository.ItemRepository
	userRepo  repository.UserRepository
}

func NewPromotionService(
	promoRepo repository.PromotionRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
) PromotionService {
	return &promotionService{
		promoRepo: promoRepo,
		itemRepo:  itemRepo,
		userRepo:  userRepo,
	}
}

func (s *promotionService) Create(promotion *model.Promotion, itemIDs, sellerIDs []uint) (*model.Promotion, error) {
	promotion.Code = strings.ToUpper(strings.TrimSpace(promotion.Code))
	if fields := promotion.Validate(); len(fields) > 0 {
		return nil, &ValidationFieldsError{Fields: fields}
	}

	items, err := s.itemRepo.FindByIDs(itemIDs)
	if err != nil {
		return nil, err
	}
	promotion.Items = items

	sellers := make([]model.User, 0, len(sellerIDs))
	for _, sellerID := range sellerIDs {
		seller, err := s.userRepo.FindByID(sellerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		sellers = append(sellers, *seller)
	}
	promotion.Sellers = sellers

	if err := s.promoRepo.Create(promotion); err != nil {
		return nil, err
	}

	logger.Info("Promotion created", map[string]interface{}{
		"promotion_id": promotion.ID,
		"code":         promotion.Code,
		"promo_type":   promotion.PromoType,
	})
	return promotion, nil
}

func (s *promotionService) GetByID(id uint) (*model.Promotion, error) {
	promotion, err := s.promoRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromotionNotFound
		}
		return nil, err
	}
	return promotion, nil
}

func (s *promotionService) List() ([]model.Promotion, error) {
	return s.promoRepo.FindAll()
}

func (s *promotionService) Update(id uint, updated *model.Promotion, itemIDs, sellerIDs []uint) (*model.Promotion, error) {
	promotion, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	promotion.Code = strings.ToUpper(strings.TrimSpace(updated.Code))
	promotion.PromoType = updated.PromoType
	promotion.DiscountMethod = updated.DiscountMethod
	promotion.DiscountAmount = updated.DiscountAmount
	promotion.StartAt = updated.StartAt
	promotion.EndAt = updated.EndAt
	promotion.Description = updated.Description

	if fields := promotion.Validate(); len(fields) > 0 {
		return nil, &ValidationFieldsError{Fields: fields}
	}

	if err := s.promoRepo.Update(promotion); err != nil {
		return nil, err
	}

	if itemIDs != nil {
		items, err := s.itemRepo.FindByIDs(itemIDs)
		if err != nil {
			return nil, err
		}
		if err := s.promoRepo.ReplaceItems(promotion, items); err != nil {
			return nil, err
		}
	}
	if sellerIDs != nil {
		sellers := make([]model.User, 0, len(sellerIDs))
		for _, sellerID := range sellerIDs {
			seller, err := s.userRepo.FindByID(sellerID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return nil, err
			}
			sellers = append(sellers, *seller)
		}
		if err := s.promoRepo.ReplaceSellers(promotion, sellers); err != nil {
			return nil, err
		}
	}

	return s.GetByID(id)
}

func (s *promotionService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.promoRepo.Delete(id)
}

// ResolveCodes looks up promo codes and keeps only the ones valid now.
// Unknown or expired codes are skipped, not rejected; checkout should not
// fail because of a stale coupon.
func (s *promotionService) ResolveCodes(codes []string, now time.Time) ([]model.Promotion, error) {
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		if trimmed := strings.ToUpper(strings.TrimSpace(code)); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	if len(normalized) == 0 {
		return []model.Promotion{}, nil
	}

	promotions, err := s.promoRepo.FindByCodes(normalized)
	if err != nil {
		return nil, err
	}

	valid := make([]model.Promotion, 0, len(promotions))
	for _, promotion := range promotions {
		if promotion.IsValid(now) {
			valid = append(valid, promotion)
		} else {
			logger.Debug("Skipping expired promotion", map[string]interface{}{
				"promotion_id": promotion.ID,
				"code":         promotion.Code,
			})
		}
	}
	return valid, nil
}

// ApplyToOrder computes the order total with the order's promotions applied.
// Item and seller promotions discount each line first, then checkout
// promotions discount the subtotal. Within each stage promotions apply in
// ascending ID order, so stacking is deterministic.
func (s *promotionService) ApplyToOrder(order *model.Order, now time.Time) float64 {
	promotions := make([]model.Promotion, len(order.Promotions))
	copy(promotions, order.Promotions)
	sort.Slice(promotions, func(i, j int) bool {
		return promotions[i].ID < promotions[j].ID
	})

	var total float64
	for i := range order.OrderItems {
		line := &order.OrderItems[i]
		amount := line.Subtotal()
		for j := range promotions {
			if promotions[j].AppliesTo(line, now) {
				amount = promotions[j].Discount(amount)
			}
		}
		total += amount
	}

	for j := range promotions {
		if promotions[j].PromoType == model.PromoTypeCheckout && promotions[j].IsValid(now) {
			total = promotions[j].Discount(total)
		}
	}

	return math.Round(total*100) / 100
}
