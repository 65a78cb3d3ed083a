package models

import "time"

// Session backs the operator dashboard's cookie-based login. The login
// flow itself is an out-of-scope external collaborator (spec.md §1); this
// table exists so the cache schema is complete and /auth/* has somewhere
// to read and write.
type Session struct {
	Token     string    `gorm:"primaryKey;column:token" json:"token"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	ExpiresAt time.Time `gorm:"column:expires_at;index" json:"expires_at"`
}

func (Session) TableName() string { return "sessions" }

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
