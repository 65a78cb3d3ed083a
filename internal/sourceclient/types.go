package sourceclient

// These mirror the source store's REST JSON shapes exactly; they exist only
// to decode the wire format before their ToModel methods adapt them into
// the cache's models.Product / models.Variation.

type wireImage struct {
	Src string `json:"src"`
}

type wireAttribute struct {
	Name    string   `json:"name"`
	Option  string   `json:"option,omitempty"`
	Options []string `json:"options,omitempty"`
}

type wireCategory struct {
	Name string `json:"name"`
}

// Product is one row as returned by GET /products or /products/{id}.
type Product struct {
	ID            int64           `json:"id"`
	ParentID      int64           `json:"parent_id"`
	Type          string          `json:"type"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Permalink     string          `json:"permalink"`
	RegularPrice  string          `json:"regular_price"`
	SalePrice     string          `json:"sale_price"`
	StockStatus   string          `json:"stock_status"`
	StockQuantity *int            `json:"stock_quantity"`
	Description   string          `json:"description"`
	Images        []wireImage     `json:"images"`
	Attributes    []wireAttribute `json:"attributes"`
	Categories    []wireCategory  `json:"categories"`
	Variations    []int64         `json:"variations"`
}

// Variation is one row as returned by GET /products/{parent}/variations.
type Variation struct {
	ID            int64           `json:"id"`
	SKU           string          `json:"sku"`
	Permalink     string          `json:"permalink"`
	RegularPrice  string          `json:"regular_price"`
	SalePrice     string          `json:"sale_price"`
	StockStatus   string          `json:"stock_status"`
	StockQuantity *int            `json:"stock_quantity"`
	Description   string          `json:"description"`
	Images        []wireImage     `json:"images"`
	Attributes    []wireAttribute `json:"attributes"`
}
