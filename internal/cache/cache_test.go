package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogsync/internal/models"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	dir := t.TempDir()
	c, err := New(dir + "/cache.db")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestUpsertProductIsIdempotent(t *testing.T) {
	c := newTestCache(t)
	qty := 5

	p := &models.Product{
		ID:            42,
		Kind:          models.KindSimple,
		Name:          "Shirt",
		RetailerID:    "wc_42",
		StockStatus:   models.StockInStock,
		StockQuantity: &qty,
	}
	require.NoError(t, c.UpsertProduct(p))

	p.Name = "Shirt v2"
	require.NoError(t, c.UpsertProduct(p))

	got, err := c.GetProduct(42)
	require.NoError(t, err)
	assert.Equal(t, "Shirt v2", got.Name)
}

func TestGetProductNotFoundReturnsSentinel(t *testing.T) {
	c := newTestCache(t)
	_, err := c.GetProduct(999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteProductCascadesSyncStatus(t *testing.T) {
	c := newTestCache(t)
	p := &models.Product{ID: 42, Kind: models.KindSimple, Name: "Shirt", RetailerID: "wc_42", StockStatus: models.StockInStock}
	require.NoError(t, c.UpsertProduct(p))

	require.NoError(t, c.UpsertSyncStatus(&models.SyncStatus{
		ProductID:  42,
		RetailerID: "wc_42",
		SyncState:  models.SyncSynced,
	}))

	require.NoError(t, c.DeleteProduct(42))

	status, err := c.GetSyncStatusByRetailerID("wc_42")
	require.NoError(t, err)
	assert.Nil(t, status)
}

func TestUpsertSyncStatusByRetailerID(t *testing.T) {
	c := newTestCache(t)
	p := &models.Product{ID: 42, Kind: models.KindSimple, Name: "Shirt", RetailerID: "wc_42", StockStatus: models.StockInStock}
	require.NoError(t, c.UpsertProduct(p))

	now := time.Now()
	require.NoError(t, c.UpsertSyncStatus(&models.SyncStatus{
		ProductID:        42,
		RetailerID:       "wc_42",
		SyncState:        models.SyncSynced,
		ExistsRemotely:   true,
		LastAvailability: "in stock",
		LastInventory:    7,
		LastSyncedAt:     &now,
	}))

	status, err := c.GetSyncStatusByRetailerID("wc_42")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.True(t, status.Unchanged("in stock", 7))
	assert.False(t, status.Unchanged("out of stock", 0))

	status.LastInventory = 3
	require.NoError(t, c.UpsertSyncStatus(status))

	reloaded, err := c.GetSyncStatusByRetailerID("wc_42")
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.LastInventory)
}

func TestListInStockSimpleProductsExcludesOutOfStock(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.UpsertProducts([]models.Product{
		{ID: 1, Kind: models.KindSimple, Name: "A", RetailerID: "wc_1", StockStatus: models.StockInStock},
		{ID: 2, Kind: models.KindSimple, Name: "B", RetailerID: "wc_2", StockStatus: models.StockOutOfStock},
		{ID: 3, Kind: models.KindVariable, Name: "C", RetailerID: "wc_3_main", StockStatus: models.StockInStock},
	}))

	rows, err := c.ListInStockSimpleProducts()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].ID)
}

func TestEventLifecycle(t *testing.T) {
	c := newTestCache(t)
	e := &models.Event{
		Topic:           "product.updated",
		SourceProductID: 42,
		RawPayload:      `{"id":42}`,
		Action:          models.ActionUpdated,
	}
	require.NoError(t, c.InsertEvent(e))

	count, err := c.CountUnprocessedEvents()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, c.MarkEventProcessed(e.ID))

	count, err = c.CountUnprocessedEvents()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
