package models

import "time"

// Variation is a concrete sellable child of a variable Product. It is kept
// in its own table (rather than nested under Product) so the feed's fast
// path can enumerate in-stock variations without a join against products,
// and so a variation reached by a webhook can be upserted without ever
// loading its parent's full attribute set.
type Variation struct {
	ID            int64       `gorm:"primaryKey" json:"id"`
	ParentID      int64       `gorm:"column:parent_id;not null;index" json:"parent_id"`
	Parent        *Product    `gorm:"foreignKey:ParentID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Name          string      `gorm:"column:name" json:"name"`
	SKU           string      `gorm:"column:sku" json:"sku"`
	Permalink     string      `gorm:"column:permalink" json:"permalink"`
	RetailerID    string      `gorm:"column:retailer_id;uniqueIndex" json:"retailer_id"`
	RegularPrice  string      `gorm:"column:regular_price" json:"regular_price"`
	SalePrice     string      `gorm:"column:sale_price" json:"sale_price"`
	StockStatus   StockStatus `gorm:"column:stock_status;index" json:"stock_status"`
	StockQuantity *int        `gorm:"column:stock_quantity" json:"stock_quantity"`
	Description   string      `gorm:"column:description" json:"description"`

	Images     JSONColumn[[]Image]     `gorm:"column:images" json:"images"`
	Attributes JSONColumn[[]Attribute] `gorm:"column:attributes" json:"attributes"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Variation) TableName() string { return "variations" }

func (v Variation) IsInStock() bool {
	return v.StockStatus == StockInStock || v.StockStatus == StockBackorder
}

// AsProduct adapts a Variation into the shape mapper.Item expects for the
// product-like argument, tagging it as a variation so the retailer-id and
// group-id policy (component D) branch correctly.
func (v Variation) AsProduct() Product {
	return Product{
		ID:            v.ID,
		ParentID:      v.ParentID,
		Kind:          KindVariation,
		Name:          v.Name,
		SKU:           v.SKU,
		Permalink:     v.Permalink,
		RetailerID:    v.RetailerID,
		RegularPrice:  v.RegularPrice,
		SalePrice:     v.SalePrice,
		StockStatus:   v.StockStatus,
		StockQuantity: v.StockQuantity,
		Description:   v.Description,
		Images:        v.Images,
		Attributes:    v.Attributes,
	}
}

// AsVariation is the reverse of AsProduct, used on the targeted path where a
// webhook event decodes straight into a Product regardless of kind: a
// KindVariation row must land in the variations table, never products
// (spec.md §3).
func (p Product) AsVariation() Variation {
	return Variation{
		ID:            p.ID,
		ParentID:      p.ParentID,
		Name:          p.Name,
		SKU:           p.SKU,
		Permalink:     p.Permalink,
		RetailerID:    p.RetailerID,
		RegularPrice:  p.RegularPrice,
		SalePrice:     p.SalePrice,
		StockStatus:   p.StockStatus,
		StockQuantity: p.StockQuantity,
		Description:   p.Description,
		Images:        p.Images,
		Attributes:    p.Attributes,
	}
}
