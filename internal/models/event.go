package models

import "time"

// EventAction is the action half of a "resource.action" webhook topic.
type EventAction string

const (
	ActionCreated  EventAction = "created"
	ActionUpdated  EventAction = "updated"
	ActionDeleted  EventAction = "deleted"
	ActionRestored EventAction = "restored"
)

// Event is one row per push notification received from the source store.
// It is inserted on receipt (before any processing), mutated once to mark
// processed or errored, and never deleted by the core.
type Event struct {
	ID              int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Topic           string      `gorm:"column:topic;not null" json:"topic"`
	SourceProductID int64       `gorm:"column:source_product_id;index;not null" json:"source_product_id"`
	RawPayload      string      `gorm:"column:raw_payload;not null" json:"raw_payload"`
	Signature       string      `gorm:"column:signature" json:"signature"`

	Name   string      `gorm:"column:name" json:"name"`
	Kind   ProductKind `gorm:"column:kind" json:"kind"`
	Action EventAction `gorm:"column:action;index" json:"action"`

	OldStockStatus   StockStatus `gorm:"column:old_stock_status" json:"old_stock_status"`
	NewStockStatus   StockStatus `gorm:"column:new_stock_status" json:"new_stock_status"`
	OldStockQuantity *int        `gorm:"column:old_stock_quantity" json:"old_stock_quantity"`
	NewStockQuantity *int        `gorm:"column:new_stock_quantity" json:"new_stock_quantity"`
	StockDelta       int         `gorm:"column:stock_delta" json:"stock_delta"`
	DerivedRetailerID string     `gorm:"column:derived_retailer_id" json:"derived_retailer_id"`

	Processed   bool       `gorm:"column:processed;index" json:"processed"`
	ProcessedAt *time.Time `gorm:"column:processed_at" json:"processed_at"`
	Error       string     `gorm:"column:error" json:"error"`

	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (Event) TableName() string { return "events" }
