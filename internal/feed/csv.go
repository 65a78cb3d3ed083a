package feed

import (
	"io"
	"strconv"
	"strings"

	"catalogsync/internal/mapper"
)

// csvColumns is the fixed column order spec.md §4.H requires to stay
// byte-for-byte identical across the fast and refresh paths.
var csvColumns = []string{
	"id", "title", "description", "rich_text_description", "availability",
	"condition", "price", "link", "image_link", "brand",
	"image[0].url", "image[0].tag[0]",
	"image[1].url", "image[1].tag[0]",
	"image[2].url", "image[2].tag[0]", "image[2].tag[1]",
	"age_group", "color", "gender", "item_group_id",
	"google_product_category", "product_type", "sale_price",
	"sale_price_effective_date", "size", "status", "inventory",
}

// WriteCSV renders items in the fixed column order with a header row and
// every field quoted. encoding/csv's writer only quotes a field when it
// contains a delimiter, quote, or newline; spec.md §4.H requires every
// field quoted unconditionally, so the row is assembled by hand instead.
func WriteCSV(w io.Writer, items []mapper.Item) error {
	if _, err := io.WriteString(w, quoteRow(csvColumns)+"\n"); err != nil {
		return err
	}
	for _, item := range items {
		if _, err := io.WriteString(w, quoteRow(rowFor(item))+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func quoteRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

func rowFor(item mapper.Item) []string {
	inventory := ""
	if item.Inventory != nil {
		inventory = strconv.Itoa(*item.Inventory)
	}

	tag := func(tags []string, i int) string {
		if i < len(tags) {
			return tags[i]
		}
		return ""
	}

	return []string{
		item.ID,
		item.Title,
		item.Description,
		item.RichTextDescription,
		item.Availability,
		item.Condition,
		item.Price,
		item.Link,
		item.ImageLink(),
		item.Brand,
		item.Images[0].URL, tag(item.Images[0].Tags, 0),
		item.Images[1].URL, tag(item.Images[1].Tags, 0),
		item.Images[2].URL, tag(item.Images[2].Tags, 0), tag(item.Images[2].Tags, 1),
		item.AgeGroup,
		item.Color,
		item.Gender,
		item.ItemGroupID,
		"", // google_product_category: never computed, spec leaves it absent
		item.ProductType,
		item.SalePrice,
		"", // sale_price_effective_date: never computed, spec leaves it absent
		item.Size,
		"", // status: never computed, spec leaves it absent
		inventory,
	}
}
