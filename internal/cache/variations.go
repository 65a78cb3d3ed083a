package cache

import (
	"time"

	"gorm.io/gorm/clause"

	"catalogsync/internal/models"
)

var variationUpsertColumns = []string{
	"parent_id", "name", "sku", "permalink", "retailer_id",
	"regular_price", "sale_price", "stock_status", "stock_quantity",
	"description", "images", "attributes", "updated_at",
}

// UpsertVariations bulk-writes a set of variations, which may belong to
// several parents, in a single transaction, conflict resolved by id. The
// bulk replication path calls this once per group-of-10 parents it fetches
// variations for.
func (c *Cache) UpsertVariations(variations []models.Variation) error {
	if len(variations) == 0 {
		return nil
	}
	now := time.Now()
	for i := range variations {
		variations[i].UpdatedAt = now
	}
	return c.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(variationUpsertColumns),
	}).Create(&variations).Error
}

func (c *Cache) UpsertVariation(v *models.Variation) error {
	v.UpdatedAt = time.Now()
	return c.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(variationUpsertColumns),
	}).Create(v).Error
}

func (c *Cache) GetVariation(id int64) (*models.Variation, error) {
	var v models.Variation
	if err := c.DB.First(&v, "id = ?", id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListVariationsByParent backs the feed's fast path. The targeted
// replication path's variable-product recursion fetches variations from the
// source store instead of reading them here.
func (c *Cache) ListVariationsByParent(parentID int64) ([]models.Variation, error) {
	var rows []models.Variation
	err := c.DB.Where("parent_id = ?", parentID).Find(&rows).Error
	return rows, err
}

// DeleteVariation removes the row for id; sync-status does not cascade off
// variations directly, so a variation delete event still reconciles
// out-of-stock against the ad catalog via TargetedSync before this runs.
func (c *Cache) DeleteVariation(id int64) error {
	return c.DB.Delete(&models.Variation{}, "id = ?", id).Error
}
