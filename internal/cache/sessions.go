package cache

import (
	"time"

	"catalogsync/internal/models"
)

func (c *Cache) CreateSession(s *models.Session) error {
	return c.DB.Create(s).Error
}

func (c *Cache) GetSession(token string) (*models.Session, error) {
	var s models.Session
	if err := c.DB.First(&s, "token = ?", token).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (c *Cache) DeleteSession(token string) error {
	return c.DB.Delete(&models.Session{}, "token = ?", token).Error
}

// DeleteExpiredSessions removes every session that expired before now. No
// caller in this module runs it; Authenticator.Check rejects expired
// sessions on its own. The sessions table is small enough that there's no
// benefit to batching it.
func (c *Cache) DeleteExpiredSessions(now time.Time) error {
	return c.DB.Delete(&models.Session{}, "expires_at < ?", now).Error
}
