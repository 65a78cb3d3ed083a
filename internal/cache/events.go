package cache

import (
	"time"

	"catalogsync/internal/models"
)

// InsertEvent persists the webhook payload before any processing happens —
// the event processor's fire-and-forget contract depends on this row
// existing before it responds 200.
func (c *Cache) InsertEvent(e *models.Event) error {
	return c.DB.Create(e).Error
}

func (c *Cache) MarkEventProcessed(id int64) error {
	now := time.Now()
	return c.DB.Model(&models.Event{}).Where("id = ?", id).Updates(map[string]interface{}{
		"processed":    true,
		"processed_at": &now,
		"error":        "",
	}).Error
}

func (c *Cache) MarkEventErrored(id int64, errMsg string) error {
	now := time.Now()
	return c.DB.Model(&models.Event{}).Where("id = ?", id).Updates(map[string]interface{}{
		"processed":    true,
		"processed_at": &now,
		"error":        errMsg,
	}).Error
}

// CountUnprocessedEvents backs the operator dashboard's backlog-visibility
// counter.
func (c *Cache) CountUnprocessedEvents() (int64, error) {
	var count int64
	err := c.DB.Model(&models.Event{}).Where("processed = ?", false).Count(&count).Error
	return count, err
}

func (c *Cache) ListRecentEvents(limit int) ([]models.Event, error) {
	var rows []models.Event
	err := c.DB.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}
