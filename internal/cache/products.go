package cache

import (
	"time"

	"gorm.io/gorm/clause"

	"catalogsync/internal/models"
)

var productUpsertColumns = []string{
	"parent_id", "kind", "name", "sku", "permalink", "retailer_id",
	"regular_price", "sale_price", "stock_status", "stock_quantity",
	"description", "images", "attributes", "categories", "variation_ids",
	"updated_at",
}

// UpsertProducts bulk-writes products in a single transaction, conflict
// resolved by id. Safe to call with an empty slice.
func (c *Cache) UpsertProducts(products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	now := time.Now()
	for i := range products {
		products[i].UpdatedAt = now
	}
	return c.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(productUpsertColumns),
	}).Create(&products).Error
}

// UpsertProduct writes a single product row — the targeted replication
// path's entry point into the products table.
func (c *Cache) UpsertProduct(p *models.Product) error {
	p.UpdatedAt = time.Now()
	return c.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(productUpsertColumns),
	}).Create(p).Error
}

func (c *Cache) GetProduct(id int64) (*models.Product, error) {
	var p models.Product
	if err := c.DB.First(&p, "id = ?", id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// DeleteProduct removes the row for id; sync-status and variations cascade
// via the foreign key.
func (c *Cache) DeleteProduct(id int64) error {
	return c.DB.Delete(&models.Product{}, "id = ?", id).Error
}

// ListInStockSimpleProducts backs the feed's fast path.
func (c *Cache) ListInStockSimpleProducts() ([]models.Product, error) {
	var rows []models.Product
	err := c.DB.Where("kind = ? AND stock_status IN ?", models.KindSimple,
		[]models.StockStatus{models.StockInStock, models.StockBackorder}).Find(&rows).Error
	return rows, err
}

// ListVariableProducts backs the feed's fast path (variable parents are
// emitted as anchors even though the replication engine never submits them
// to the ad catalog).
func (c *Cache) ListVariableProducts() ([]models.Product, error) {
	var rows []models.Product
	err := c.DB.Where("kind = ?", models.KindVariable).Find(&rows).Error
	return rows, err
}

// ListAllProducts returns every cached product row. No caller in this module
// uses it; the bulk replication path walks the rows it fetched from the
// source store.
func (c *Cache) ListAllProducts() ([]models.Product, error) {
	var rows []models.Product
	err := c.DB.Find(&rows).Error
	return rows, err
}
