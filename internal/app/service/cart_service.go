package service

import (
	"errors"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("item not in cart")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrOwnItem          = errors.New("cannot add your own item to the cart")
	ErrItemUnavailable  = errors.New("item is not available")
)

type CartService interface {
	GetCart(userID uint) (*model.Cart, error)
	AddItem(userID, itemID uint, quantity int) (*model.Cart, error)
	UpdateItemQuantity(userID, itemID uint, quantity int) (*model.Cart, error)
	RemoveItem(userID, itemID uint) (*model.Cart, error)
	Clear(userID uint) error
}

type cartService struct {
	cartRepo repository.CartRepository
	itemRepo repository.ItemRepository
}

func NewCartService(cartRepo repository.CartRepository, itemRepo repository.ItemRepository) CartService {
	return &cartService{
		cartRepo: cartRepo,
		itemRepo: itemRepo,
	}
}

func (s *cartService) GetCart(userID uint) (*model.Cart, error) {
	return s.cartRepo.GetOrCreateByUserID(userID)
}

// AddItem merges the requested quantity into the user's cart. The quantity is
// capped at available stock rather than rejected, so the buyer sees the best
// achievable line.
func (s *cartService) AddItem(userID, itemID uint, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.itemRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if item.SellerID == userID {
		logger.Warn("Cart add rejected: own item", map[string]interface{}{
			"user_id": userID,
			"item_id": itemID,
		})
		return nil, ErrOwnItem
	}
	if !item.InStock() {
		return nil, ErrItemUnavailable
	}

	cart, err := s.cartRepo.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	requested := quantity
	if existing, err := s.cartRepo.FindItem(cart.ID, itemID); err == nil {
		requested += existing.Quantity
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if requested > item.Quantity {
		// cap the merged line at stock
		capped := item.Quantity
		if err := s.setLine(cart.ID, itemID, capped); err != nil {
			return nil, err
		}
		logger.Debug("Cart line capped at available stock", map[string]interface{}{
			"user_id":  userID,
			"item_id":  itemID,
			"capped":   capped,
			"wanted":   requested,
			"in_stock": item.Quantity,
		})
		return s.cartRepo.GetOrCreateByUserID(userID)
	}

	if _, err := s.cartRepo.AddItem(cart.ID, itemID, quantity); err != nil {
		return nil, err
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"user_id":  userID,
		"item_id":  itemID,
		"quantity": quantity,
	})
	return s.cartRepo.GetOrCreateByUserID(userID)
}

func (s *cartService) setLine(cartID, itemID uint, quantity int) error {
	err := s.cartRepo.UpdateItemQuantity(cartID, itemID, quantity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_, err = s.cartRepo.AddItem(cartID, itemID, quantity)
	}
	return err
}

func (s *cartService) UpdateItemQuantity(userID, itemID uint, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.itemRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	if quantity > item.Quantity {
		quantity = item.Quantity
	}
	if quantity < 1 {
		return nil, ErrItemUnavailable
	}

	cart, err := s.cartRepo.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.UpdateItemQuantity(cart.ID, itemID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	return s.cartRepo.GetOrCreateByUserID(userID)
}

func (s *cartService) RemoveItem(userID, itemID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.GetOrCreateByUserID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.RemoveItem(cart.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	logger.Info("Item removed from cart", map[string]interface{}{
		"user_id": userID,
		"item_id": itemID,
	})
	return s.cartRepo.GetOrCreateByUserID(userID)
}

func (s *cartService) Clear(userID uint) error {
	cart, err := s.cartRepo.GetOrCreateByUserID(userID)
	if err != nil {
		return err
	}
	return s.cartRepo.Clear(nil, cart.ID)
}
