package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/mateoavila/nft-transfers/pkg/db/models"
	"github.com/mateoavila/nft-transfers/pkg/enums"
)

func setupReconcileTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  chain_id TEXT NOT NULL,
  maker_address TEXT NOT NULL,
  is_sell_order INTEGER NOT NULL,
  num_items INTEGER NOT NULL DEFAULT 1,
  start_time_ms INTEGER NOT NULL DEFAULT 0,
  end_time_ms INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  chain_id TEXT NOT NULL,
  collection_address TEXT NOT NULL,
  token_id TEXT NOT NULL,
  is_sell_order INTEGER NOT NULL,
  maker_address TEXT NOT NULL,
  maker_username TEXT,
  taker_address TEXT,
  taker_username TEXT,
  num_tokens INTEGER NOT NULL DEFAULT 1,
  start_time_ms INTEGER NOT NULL DEFAULT 0,
  end_time_ms INTEGER NOT NULL DEFAULT 0,
  order_status TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, gdb.Exec(orders).Error)
	require.NoError(t, gdb.Exec(orderItems).Error)
	return gdb
}

func seedItem(t *testing.T, gdb *gorm.DB, item *models.OrderItem) {
	t.Helper()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	require.NoError(t, gdb.Create(item).Error)
}

func TestRepositoryFindImpactedItems(t *testing.T) {
	gdb := setupReconcileTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	offer := &models.OrderItem{
		OrderID:           uuid.New(),
		ChainID:           "1",
		CollectionAddress: "0xcol",
		TokenID:           "7",
		IsSellOrder:       false,
		MakerAddress:      "0xmaker",
		TakerAddress:      "0xtaker",
		NumTokens:         1,
		OrderStatus:       enums.OrderStatusValidActive,
	}
	listing := &models.OrderItem{
		OrderID:           uuid.New(),
		ChainID:           "1",
		CollectionAddress: "0xcol",
		TokenID:           "7",
		IsSellOrder:       true,
		MakerAddress:      "0xa",
		NumTokens:         1,
		OrderStatus:       enums.OrderStatusValidActive,
	}
	unrelatedListing := &models.OrderItem{
		OrderID:           uuid.New(),
		ChainID:           "1",
		CollectionAddress: "0xcol",
		TokenID:           "7",
		IsSellOrder:       true,
		MakerAddress:      "0xother",
		NumTokens:         1,
		OrderStatus:       enums.OrderStatusValidActive,
	}
	otherToken := &models.OrderItem{
		OrderID:           uuid.New(),
		ChainID:           "1",
		CollectionAddress: "0xcol",
		TokenID:           "8",
		IsSellOrder:       false,
		MakerAddress:      "0xmaker",
		NumTokens:         1,
		OrderStatus:       enums.OrderStatusValidActive,
	}
	for _, item := range []*models.OrderItem{offer, listing, unrelatedListing, otherToken} {
		seedItem(t, gdb, item)
	}

	offers, err := repo.FindImpactedItems(ctx, ItemQuery{
		ChainID:           "1",
		CollectionAddress: "0xcol",
		TokenID:           "7",
		IsSellOrder:       false,
	})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, offer.ID, offers[0].ID)

	listings, err := repo.FindImpactedItems(ctx, ItemQuery{
		ChainID:           "1",
		CollectionAddress: "0xcol",
		TokenID:           "7",
		IsSellOrder:       true,
		MakerIn:           []string{"0xb", "0xa"},
	})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, listing.ID, listings[0].ID)

	narrowed, err := repo.FindImpactedItems(ctx, ItemQuery{
		ChainID:           "1",
		CollectionAddress: "0xcol",
		TokenID:           "7",
		IsSellOrder:       false,
		TakerAddress:      "0xsomeoneelse",
	})
	require.NoError(t, err)
	assert.Empty(t, narrowed)
}

func TestRepositoryOrderRoundTrip(t *testing.T) {
	gdb := setupReconcileTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	order := &models.Order{
		ID:           uuid.New(),
		ChainID:      "1",
		MakerAddress: "0xmaker",
		IsSellOrder:  true,
		NumItems:     1,
		Status:       enums.OrderStatusValidActive,
	}
	require.NoError(t, gdb.Create(order).Error)

	item := &models.OrderItem{
		OrderID:           order.ID,
		ChainID:           "1",
		CollectionAddress: "0xcol",
		TokenID:           "7",
		IsSellOrder:       true,
		MakerAddress:      "0xmaker",
		NumTokens:         1,
		OrderStatus:       enums.OrderStatusValidActive,
	}
	seedItem(t, gdb, item)

	found, err := repo.FindOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	items, err := repo.FindItemsByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	items[0].OrderStatus = enums.OrderStatusValidInactive
	require.NoError(t, repo.SaveItem(ctx, &items[0]))
	require.NoError(t, repo.UpdateOrderStatus(ctx, order.ID, enums.OrderStatusValidInactive))

	reloaded, err := repo.FindOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusValidInactive, reloaded.Status)

	items, err = repo.FindItemsByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusValidInactive, items[0].OrderStatus)

	_, err = repo.FindOrder(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryWithTxRollsBack(t *testing.T) {
	gdb := setupReconcileTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	item := &models.OrderItem{
		OrderID:           uuid.New(),
		ChainID:           "1",
		CollectionAddress: "0xcol",
		TokenID:           "7",
		IsSellOrder:       true,
		MakerAddress:      "0xmaker",
		NumTokens:         1,
		OrderStatus:       enums.OrderStatusValidActive,
	}
	seedItem(t, gdb, item)

	boom := errors.New("boom")
	err := gdb.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		item.OrderStatus = enums.OrderStatusInvalid
		if err := txRepo.SaveItem(ctx, item); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var persisted models.OrderItem
	require.NoError(t, gdb.Where("id = ?", item.ID).First(&persisted).Error)
	assert.Equal(t, enums.OrderStatusValidActive, persisted.OrderStatus)
}
