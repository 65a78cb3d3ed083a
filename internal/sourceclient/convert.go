package sourceclient

import "catalogsync/internal/models"

func convertImages(in []wireImage) []models.Image {
	out := make([]models.Image, 0, len(in))
	for _, img := range in {
		out = append(out, models.Image{Src: img.Src})
	}
	return out
}

func convertAttributes(in []wireAttribute) []models.Attribute {
	out := make([]models.Attribute, 0, len(in))
	for _, a := range in {
		out = append(out, models.Attribute{Name: a.Name, Option: a.Option, Options: a.Options})
	}
	return out
}

func convertCategories(in []wireCategory) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		out = append(out, c.Name)
	}
	return out
}

func stockStatus(s string) models.StockStatus {
	switch s {
	case "instock":
		return models.StockInStock
	case "onbackorder":
		return models.StockBackorder
	default:
		return models.StockOutOfStock
	}
}

func productKind(wireType string) models.ProductKind {
	switch wireType {
	case "variable":
		return models.KindVariable
	case "variation":
		return models.KindVariation
	default:
		return models.KindSimple
	}
}

// ToModel adapts the wire Product into the cache's row shape. It does not
// set RetailerID — that is retailerid's job, applied by whoever persists
// this row.
func (p Product) ToModel() models.Product {
	variationIDs := make([]int64, len(p.Variations))
	copy(variationIDs, p.Variations)

	return models.Product{
		ID:            p.ID,
		ParentID:      p.ParentID,
		Kind:          productKind(p.Type),
		Name:          p.Name,
		SKU:           p.SKU,
		Permalink:     p.Permalink,
		RegularPrice:  p.RegularPrice,
		SalePrice:     p.SalePrice,
		StockStatus:   stockStatus(p.StockStatus),
		StockQuantity: p.StockQuantity,
		Description:   p.Description,
		Images:        models.NewJSONColumn(convertImages(p.Images)),
		Attributes:    models.NewJSONColumn(convertAttributes(p.Attributes)),
		Categories:    models.NewJSONColumn(convertCategories(p.Categories)),
		VariationIDs:  models.NewJSONColumn(variationIDs),
	}
}

// ToModel adapts the wire Variation into the cache's row shape. parentID is
// not on the wire payload in all source-store versions, so callers supply
// it explicitly (it is always known: it's the id used to fetch the list).
func (v Variation) ToModel(parentID int64) models.Variation {
	return models.Variation{
		ID:            v.ID,
		ParentID:      parentID,
		SKU:           v.SKU,
		Permalink:     v.Permalink,
		RegularPrice:  v.RegularPrice,
		SalePrice:     v.SalePrice,
		StockStatus:   stockStatus(v.StockStatus),
		StockQuantity: v.StockQuantity,
		Description:   v.Description,
		Images:        models.NewJSONColumn(convertImages(v.Images)),
		Attributes:    models.NewJSONColumn(convertAttributes(v.Attributes)),
	}
}
