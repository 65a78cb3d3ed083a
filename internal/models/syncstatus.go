package models

import "time"

// SyncState is the reconciliation state of one ad-catalog-bound id.
type SyncState string

const (
	SyncPending SyncState = "pending"
	SyncSynced  SyncState = "synced"
	SyncError   SyncState = "error"
)

// SyncStatus is one row per replicable id — not per product, since a
// variable product's variations each get their own row and the parent
// itself never does (spec.md §3). Created the first time an id is
// presented to the replication engine, updated on every reconciliation,
// deleted only by cascade when its backing product row is deleted.
type SyncStatus struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID        int64      `gorm:"column:product_id;not null;index" json:"product_id"`
	Product          *Product   `gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	RetailerID       string     `gorm:"column:retailer_id;uniqueIndex;not null" json:"retailer_id"`
	SyncState        SyncState  `gorm:"column:sync_state;index;not null" json:"sync_state"`
	ExistsRemotely   bool       `gorm:"column:exists_remotely" json:"exists_remotely"`
	LastAvailability string     `gorm:"column:last_availability" json:"last_availability"`
	LastInventory    int        `gorm:"column:last_inventory" json:"last_inventory"`
	LastSyncedAt     *time.Time `gorm:"column:last_synced_at" json:"last_synced_at"`
	LastError        string     `gorm:"column:last_error" json:"last_error"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (SyncStatus) TableName() string { return "sync_status" }

// Unchanged reports whether availability and inventory are identical to
// what was last observed — the stock-change test in spec.md §4.F that lets
// the targeted path no-op instead of re-submitting an unchanged item.
func (s SyncStatus) Unchanged(availability string, inventory int) bool {
	return s.LastAvailability == availability && s.LastInventory == inventory
}
