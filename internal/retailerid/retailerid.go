// Package retailerid is the single source of truth for the ids the rest of
// the system uses to address a product or variation in the ad catalog. The
// source repository once carried two copies of this logic; spec.md §9 calls
// that out explicitly, so every caller — the bulk replication engine and the
// event processor alike — goes through this package instead of recomputing
// the string itself.
package retailerid

import (
	"fmt"

	"catalogsync/internal/models"
)

// For generates the stable external id for a product-like row from its kind
// and its own id; a variation's parent does not enter into it.
func For(kind models.ProductKind, id int64) string {
	switch kind {
	case models.KindVariable:
		return fmt.Sprintf("wc_%d_main", id)
	default:
		// simple and variation share the same bare form.
		return fmt.Sprintf("wc_%d", id)
	}
}

// GroupFor returns the item-group-id used to cluster a variable product's
// variations, or "" when the row has no group (simple products).
func GroupFor(kind models.ProductKind, id, parentID int64) string {
	switch kind {
	case models.KindVariation:
		return fmt.Sprintf("wc_%d", parentID)
	case models.KindVariable:
		return fmt.Sprintf("wc_%d", id)
	default:
		return ""
	}
}

// Availability maps a source stock-status to the ad-catalog's availability
// vocabulary.
func Availability(status models.StockStatus) string {
	switch status {
	case models.StockInStock:
		return "in stock"
	case models.StockBackorder:
		return "preorder"
	default:
		return "out of stock"
	}
}

// Inventory reports the quantity the ad catalog should see: always 0 for an
// out-of-stock row, the observed stock-quantity when known, and absent
// (represented by the ok=false return) otherwise — the spec is explicit that
// an out-of-stock item never reports an absent inventory, only 0.
func Inventory(status models.StockStatus, quantity *int) (value int, ok bool) {
	if status == models.StockOutOfStock {
		return 0, true
	}
	if quantity != nil {
		return *quantity, true
	}
	return 0, false
}
