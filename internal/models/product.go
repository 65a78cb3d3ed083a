package models

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("models: record not found")

// ProductKind is the tagged variant over the three shapes a source-store
// item can take (spec.md §9: no inherited base, an explicit match on kind
// everywhere the engine and mapper branch on it).
type ProductKind string

const (
	KindSimple    ProductKind = "simple"
	KindVariable  ProductKind = "variable"
	KindVariation ProductKind = "variation"
)

// StockStatus mirrors the source store's tri-state stock field.
type StockStatus string

const (
	StockInStock    StockStatus = "instock"
	StockOutOfStock StockStatus = "outofstock"
	StockBackorder  StockStatus = "onbackorder"
)

// Image is one entry in a product's ordered image list.
type Image struct {
	Src string `json:"src"`
}

// Attribute is a single typed product attribute (name + option values), the
// shape the mapper's color/size/gender/age extraction walks over.
type Attribute struct {
	Name    string   `json:"name"`
	Option  string   `json:"option,omitempty"`
	Options []string `json:"options,omitempty"`
}

// Product is a source-side item: a simple product, a variable parent, or
// (when mirrored into this table by mistake) never a variation — variation
// rows live in their own table so the feed's fast path can enumerate them
// without touching this one. See Variation.
type Product struct {
	ID            int64       `gorm:"primaryKey" json:"id"`
	ParentID      int64       `gorm:"column:parent_id;index" json:"parent_id"`
	Kind          ProductKind `gorm:"column:kind;not null" json:"kind"`
	Name          string      `gorm:"column:name;not null" json:"name"`
	SKU           string      `gorm:"column:sku" json:"sku"`
	Permalink     string      `gorm:"column:permalink" json:"permalink"`
	RetailerID    string      `gorm:"column:retailer_id;uniqueIndex" json:"retailer_id"`
	RegularPrice  string      `gorm:"column:regular_price" json:"regular_price"`
	SalePrice     string      `gorm:"column:sale_price" json:"sale_price"`
	StockStatus   StockStatus `gorm:"column:stock_status;index" json:"stock_status"`
	StockQuantity *int        `gorm:"column:stock_quantity" json:"stock_quantity"`
	Description   string      `gorm:"column:description" json:"description"`

	Images       JSONColumn[[]Image]     `gorm:"column:images" json:"images"`
	Attributes   JSONColumn[[]Attribute] `gorm:"column:attributes" json:"attributes"`
	Categories   JSONColumn[[]string]    `gorm:"column:categories" json:"categories"`
	VariationIDs JSONColumn[[]int64]     `gorm:"column:variation_ids" json:"variation_ids"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// IsInStock reports whether p should be replicated at all (out-of-stock
// simple products are skipped entirely by the bulk path, §4.F step 4).
func (p Product) IsInStock() bool {
	return p.StockStatus == StockInStock || p.StockStatus == StockBackorder
}
