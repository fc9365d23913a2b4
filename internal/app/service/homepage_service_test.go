package service

import (
	"context"
	"testing"
	"time"

	"github.com/bazaarhq/bazaar-backend/internal/app/model"
	"github.com/bazaarhq/bazaar-backend/internal/app/repository"
	"github.com/bazaarhq/bazaar-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeBrowsingCache is an in-memory stand-in for the Redis cache
type fakeBrowsingCache struct {
	viewed   map[string][]uint
	trending []uint
}

func newFakeBrowsingCache() *fakeBrowsingCache {
	return &fakeBrowsingCache{viewed: make(map[string][]uint)}
}

func (f *fakeBrowsingCache) TrackItemView(_ context.Context, sessionID string, itemID uint, limit int) error {
	list := f.viewed[sessionID]
	deduped := make([]uint, 0, len(list)+1)
	deduped = append(deduped, itemID)
	for _, id := range list {
		if id != itemID {
			deduped = append(deduped, id)
		}
	}
	if len(deduped) > limit {
		deduped = deduped[:limit]
	}
	f.viewed[sessionID] = deduped
	return nil
}

func (f *fakeBrowsingCache) RecentlyViewed(_ context.Context, sessionID string, limit int) ([]uint, error) {
	list := f.viewed[sessionID]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeBrowsingCache) SetTrending(_ context.Context, itemIDs []uint, _ time.Duration) error {
	f.trending = itemIDs
	return nil
}

func (f *fakeBrowsingCache) Trending(_ context.Context) ([]uint, error) {
	return f.trending, nil
}

func newHomepageServiceForTest(testDB *gorm.DB) (HomepageService, *fakeBrowsingCache) {
	cache := newFakeBrowsingCache()
	itemRepo := repository.NewItemRepository(testDB)
	return NewHomepageService(itemRepo, cache), cache
}

func TestHomepageService_Homepage(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc, _ := newHomepageServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)

	popular := createServiceItem(t, testDB, seller.ID, "Popular", "ELE000001", 10, 5)
	require.NoError(t, testDB.Model(&model.Item{}).Where("id = ?", popular.ID).
		Updates(map[string]interface{}{"view_count": 50, "times_purchased": 9}).Error)
	featured := createServiceItem(t, testDB, seller.ID, "Featured", "ELE000002", 20, 5)
	require.NoError(t, testDB.Model(&model.Item{}).Where("id = ?", featured.ID).
		Update("is_featured", true).Error)

	ctx := context.Background()
	view, err := svc.Homepage(ctx, "sess-1")
	require.NoError(t, err)

	require.NotEmpty(t, view.Trending)
	assert.Equal(t, "Popular", view.Trending[0].Name)
	require.Len(t, view.Featured, 1)
	assert.Equal(t, "Featured", view.Featured[0].Name)
	assert.Contains(t, view.Categories, "Electronics & Tech")
	assert.Empty(t, view.RecentlyViewed)
}

func TestHomepageService_RecentlyViewed_OrderAndAvailability(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc, _ := newHomepageServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)

	first := createServiceItem(t, testDB, seller.ID, "First", "ELE000001", 10, 5)
	second := createServiceItem(t, testDB, seller.ID, "Second", "ELE000002", 10, 5)
	gone := createServiceItem(t, testDB, seller.ID, "Gone", "ELE000003", 10, 5)
	require.NoError(t, testDB.Model(&model.Item{}).Where("id = ?", gone.ID).
		Update("is_available", false).Error)

	ctx := context.Background()
	require.NoError(t, svc.RecordItemView(ctx, "sess-1", first.ID))
	require.NoError(t, svc.RecordItemView(ctx, "sess-1", gone.ID))
	require.NoError(t, svc.RecordItemView(ctx, "sess-1", second.ID))

	view, err := svc.Homepage(ctx, "sess-1")
	require.NoError(t, err)

	// most recent first, delisted items dropped
	require.Len(t, view.RecentlyViewed, 2)
	assert.Equal(t, "Second", view.RecentlyViewed[0].Name)
	assert.Equal(t, "First", view.RecentlyViewed[1].Name)
}

func TestHomepageService_Recommendations(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc, _ := newHomepageServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)

	viewed := createServiceItem(t, testDB, seller.ID, "Viewed Phone", "ELE000001", 10, 5)
	suggested := createServiceItem(t, testDB, seller.ID, "Other Phone", "ELE000002", 10, 5)

	// different category, should not be recommended
	book := model.Item{
		Name: "Novel", Price: 5, Quantity: 3,
		Category: model.CategoryBooksMedia, Condition: model.ConditionNew,
		SKU: "BOO000001", SellerID: seller.ID, IsAvailable: true,
	}
	require.NoError(t, testDB.Create(&book).Error)

	ctx := context.Background()
	require.NoError(t, svc.RecordItemView(ctx, "sess-1", viewed.ID))

	recommended, err := svc.Recommendations(ctx, "sess-1")
	require.NoError(t, err)

	require.Len(t, recommended, 1)
	assert.Equal(t, suggested.ID, recommended[0].ID)
}

func TestHomepageService_Recommendations_FallsBackToTrending(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc, _ := newHomepageServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)

	item := createServiceItem(t, testDB, seller.ID, "Only Item", "ELE000001", 10, 5)
	require.NoError(t, testDB.Model(&model.Item{}).Where("id = ?", item.ID).
		Update("view_count", 10).Error)

	ctx := context.Background()
	recommended, err := svc.Recommendations(ctx, "fresh-session")
	require.NoError(t, err)

	require.Len(t, recommended, 1)
	assert.Equal(t, item.ID, recommended[0].ID)
}

func TestHomepageService_RefreshTrendingCache(t *testing.T) {
	testDB := setupServiceDB(t)
	defer db.CleanupTestDB(testDB)

	svc, cache := newHomepageServiceForTest(testDB)
	seller := createServiceUser(t, testDB, "seller", true)

	hot := createServiceItem(t, testDB, seller.ID, "Hot", "ELE000001", 10, 5)
	require.NoError(t, testDB.Model(&model.Item{}).Where("id = ?", hot.ID).
		Update("view_count", 100).Error)
	cold := createServiceItem(t, testDB, seller.ID, "Cold", "ELE000002", 10, 5)

	ctx := context.Background()
	require.NoError(t, svc.RefreshTrendingCache(ctx))

	require.Len(t, cache.trending, 2)
	assert.Equal(t, hot.ID, cache.trending[0])
	assert.Equal(t, cold.ID, cache.trending[1])

	// the homepage serves the cached ordering
	view, err := svc.Homepage(ctx, "")
	require.NoError(t, err)
	require.Len(t, view.Trending, 2)
	assert.Equal(t, "Hot", view.Trending[0].Name)
}
