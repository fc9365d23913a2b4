package service

import (
	"context"
	"time"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/pkg/logger"
)

const (
	trendingLimit       = 10
	featuredLimit       = 8
	bestSellersPerCat   = 4
	bestSellersMaxCats  = 6
	recentlyViewedLimit = 10
	recommendationLimit = 8
	// categories of the last N viewed items drive recommendations
	recommendationSeedViews = 3

	trendingCacheTTL = 15 * time.Minute
)

// BrowsingCache is the session browsing store; backed by Redis in production
// and an in-memory fake in tests.
type BrowsingCache interface {
	TrackItemView(ctx context.Context, sessionID string, itemID uint, limit int) error
	RecentlyViewed(ctx context.Context, sessionID string, limit int) ([]uint, error)
	SetTrending(ctx context.Context, itemIDs []uint, ttl time.Duration) error
	Trending(ctx context.Context) ([]uint, error)
}

// HomepageView is the aggregate payload for the storefront landing page
type HomepageView struct {
	Trending       []model.Item            `json:"trending"`
	Featured       []model.Item            `json:"featured"`
	BestSellers    map[string][]model.Item `json:"best_sellers"`
	RecentlyViewed []model.Item            `json:"recently_viewed"`
	Categories     []string                `json:"categories"`
}

type HomepageService interface {
	Homepage(ctx context.Context, sessionID string) (*HomepageView, error)
	Recommendations(ctx context.Context, sessionID string) ([]model.Item, error)
	RecordItemView(ctx context.Context, sessionID string, itemID uint) error
	RefreshTrendingCache(ctx context.Context) error
	Categories() ([]string, error)
}

type homepageService struct {
	itemRepo repository.ItemRepository
	cache    BrowsingCache
}

func NewHomepageService(itemRepo repository.ItemRepository, cache BrowsingCache) HomepageService {
	return &homepageService{
		itemRepo: itemRepo,
		cache:    cache,
	}
}

func (s *homepageService) Homepage(ctx context.Context, sessionID string) (*HomepageView, error) {
	trending, err := s.trendingItems(ctx)
	if err != nil {
		return nil, err
	}

	featured, err := s.itemRepo.Featured(featuredLimit)
	if err != nil {
		return nil, err
	}

	bestSellers, err := s.itemRepo.BestSellersByCategory(bestSellersPerCat, bestSellersMaxCats)
	if err != nil {
		return nil, err
	}

	recentlyViewed, err := s.recentlyViewedItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	categories, err := s.itemRepo.Categories()
	if err != nil {
		return nil, err
	}

	return &HomepageView{
		Trending:       trending,
		Featured:       featured,
		BestSellers:    bestSellers,
		RecentlyViewed: recentlyViewed,
		Categories:     categories,
	}, nil
}

// trendingItems serves from the cache and falls back to the database when
// the cache is cold or unreachable.
func (s *homepageService) trendingItems(ctx context.Context) ([]model.Item, error) {
	ids, err := s.cache.Trending(ctx)
	if err != nil {
		logger.Warn("Trending cache unavailable, falling back to database", map[string]interface{}{
			"error": err.Error(),
		})
		return s.itemRepo.Trending(trendingLimit)
	}
	if len(ids) == 0 {
		return s.itemRepo.Trending(trendingLimit)
	}
	return s.itemsInOrder(ids)
}

func (s *homepageService) recentlyViewedItems(ctx context.Context, sessionID string) ([]model.Item, error) {
	if sessionID == "" {
		return []model.Item{}, nil
	}

	ids, err := s.cache.RecentlyViewed(ctx, sessionID, recentlyViewedLimit)
	if err != nil {
		// browsing history is best effort
		logger.Warn("Could not read browsing history", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return []model.Item{}, nil
	}
	return s.itemsInOrder(ids)
}

// itemsInOrder fetches items by ID and restores the given ordering, dropping
// IDs that no longer resolve to an available item
func (s *homepageService) itemsInOrder(ids []uint) ([]model.Item, error) {
	if len(ids) == 0 {
		return []model.Item{}, nil
	}

	items, err := s.itemRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]model.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	ordered := make([]model.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok && item.IsAvailable {
			ordered = append(ordered, item)
		}
	}
	return ordered, nil
}

// Recommendations suggests items from the categories of the session's most
// recently viewed items, excluding everything already viewed. Sessions with
// no history get the trending list instead.
func (s *homepageService) Recommendations(ctx context.Context, sessionID string) ([]model.Item, error) {
	if sessionID == "" {
		return s.trendingItems(ctx)
	}

	viewedIDs, err := s.cache.RecentlyViewed(ctx, sessionID, recentlyViewedLimit)
	if err != nil || len(viewedIDs) == 0 {
		return s.trendingItems(ctx)
	}

	seedIDs := viewedIDs
	if len(seedIDs) > recommendationSeedViews {
		seedIDs = seedIDs[:recommendationSeedViews]
	}

	seedItems, err := s.itemRepo.FindByIDs(seedIDs)
	if err != nil {
		return nil, err
	}

	seen := make(map[model.ItemCategory]bool)
	categories := make([]model.ItemCategory, 0, len(seedItems))
	for _, item := range seedItems {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	if len(categories) == 0 {
		return s.trendingItems(ctx)
	}

	recommended, err := s.itemRepo.RecommendedByCategories(categories, viewedIDs, recommendationLimit)
	if err != nil {
		return nil, err
	}
	if len(recommended) == 0 {
		return s.trendingItems(ctx)
	}
	return recommended, nil
}

// RecordItemView adds the item to the session's browsing history. Failures
// are logged, not surfaced; a dead cache must not break the detail page.
func (s *homepageService) RecordItemView(ctx context.Context, sessionID string, itemID uint) error {
	if sessionID == "" {
		return nil
	}
	if err := s.cache.TrackItemView(ctx, sessionID, itemID, recentlyViewedLimit); err != nil {
		logger.Warn("Could not record item view", map[string]interface{}{
			"session_id": sessionID,
			"item_id":    itemID,
			"error":      err.Error(),
		})
	}
	return nil
}

// RefreshTrendingCache recomputes the trending list and stores it; called
// by the scheduler.
func (s *homepageService) RefreshTrendingCache(ctx context.Context) error {
	items, err := s.itemRepo.Trending(trendingLimit)
	if err != nil {
		return err
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	if err := s.cache.SetTrending(ctx, ids, trendingCacheTTL); err != nil {
		return err
	}

	logger.Info("Trending cache refreshed", map[string]interface{}{
		"item_count": len(ids),
	})
	return nil
}

func (s *homepageService) Categories() ([]string, error) {
	return s.itemRepo.Categories()
}
