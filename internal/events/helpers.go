package events

import (
	"catalogsync/internal/models"
	"catalogsync/internal/retailerid"
)

func retailerIDFor(row models.Product) string {
	return retailerid.For(row.Kind, row.ID)
}

func withOutOfStock(row models.Product) models.Product {
	row.StockStatus = models.StockOutOfStock
	row.StockQuantity = nil
	return row
}
