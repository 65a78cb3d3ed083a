package cache

import (
	"time"

	"gorm.io/gorm/clause"

	"catalogsync/internal/models"
)

// GetSyncStatusByRetailerID returns nil (not an error) when no sync-status
// row exists yet — the replication engine's targeted path treats a missing
// row as "never presented before" rather than failing.
func (c *Cache) GetSyncStatusByRetailerID(retailerID string) (*models.SyncStatus, error) {
	var s models.SyncStatus
	err := c.DB.Where("retailer_id = ?", retailerID).First(&s).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// UpsertSyncStatus conflict-resolves by retailer_id, the unique key a
// sync-status row is addressed by everywhere else in the system.
func (c *Cache) UpsertSyncStatus(s *models.SyncStatus) error {
	s.UpdatedAt = time.Now()
	return c.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "retailer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"product_id", "sync_state", "exists_remotely", "last_availability",
			"last_inventory", "last_synced_at", "last_error", "updated_at",
		}),
	}).Create(s).Error
}

func (c *Cache) CountSyncStatusByState() (map[models.SyncState]int64, error) {
	rows, err := c.DB.Model(&models.SyncStatus{}).
		Select("sync_state, count(*) as count").
		Group("sync_state").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[models.SyncState]int64{}
	for rows.Next() {
		var state models.SyncState
		var count int64
		if err := rows.Scan(&state, &count); err != nil {
			return nil, err
		}
		counts[state] = count
	}
	return counts, nil
}
