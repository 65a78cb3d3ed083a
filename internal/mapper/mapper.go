// Package mapper turns a cached product or variation row into the shape the
// ad catalog and the CSV feed both need. It holds no state beyond the three
// configured constants (brand, currency suffix, image service base URL) and
// never performs I/O itself — component E of the replication design.
package mapper

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"catalogsync/internal/models"
	"catalogsync/internal/retailerid"
)

// Style selects which image-service rendering variant is requested; it does
// not otherwise change any output field.
type Style string

const (
	StyleStandard  Style = "standard"
	StyleChristmas Style = "christmas"
)

const descriptionMaxRunes = 5000

// imageSlot describes one of the three fixed image renditions the ad
// catalog and the CSV feed both expect, in order.
type imageSlot struct {
	aspectRatio string
	tags        []string
}

var imageSlots = [3]imageSlot{
	{aspectRatio: "1:1", tags: nil},
	{aspectRatio: "4:5", tags: []string{"ASPECT_RATIO_4_5_PREFERRED"}},
	{aspectRatio: "9:16", tags: []string{"STORY_PREFERRED", "REELS_PREFERRED"}},
}

// Image is one rendered image URL plus its ad-catalog tag set.
type Image struct {
	URL  string
	Tags []string
}

// Item is the fully mapped, catalog-and-CSV-ready representation of one
// replicable row.
type Item struct {
	ID                   string
	Title                string
	Description          string
	RichTextDescription  string
	Availability         string
	Condition            string
	Price                string
	SalePrice            string // empty string means absent
	Link                 string
	Brand                string
	ItemGroupID          string
	ProductType          string
	Inventory            *int // nil means absent
	AgeGroup             string
	Color                string
	Gender               string
	Size                 string
	Images               [3]Image
}

// ImageLink is image 0's URL, which doubles as the CSV image_link column.
func (it Item) ImageLink() string {
	return it.Images[0].URL
}

type Mapper struct {
	Brand           string
	CurrencySuffix  string
	ImageServiceURL string
}

func New(brand, currencySuffix, imageServiceURL string) *Mapper {
	return &Mapper{
		Brand:           brand,
		CurrencySuffix:  currencySuffix,
		ImageServiceURL: imageServiceURL,
	}
}

// Map builds an Item from a row and its optional parent. parent is nil for
// a top-level simple or variable product; for a variation it is the
// variable product it belongs to.
func (m *Mapper) Map(row models.Product, parent *models.Product, style Style) Item {
	title := row.Name
	if parent != nil {
		title = parent.Name
	}

	description := stripHTML(row.Description)

	price := row.RegularPrice
	salePrice := ""
	if row.SalePrice != "" {
		salePrice = fmt.Sprintf("%s %s", row.SalePrice, m.CurrencySuffix)
	}

	link := row.Permalink
	if link == "" && parent != nil {
		link = parent.Permalink
	}

	groupID := retailerid.GroupFor(row.Kind, row.ID, row.ParentID)

	productType := categoryPath(row.Categories.V)
	if parent != nil {
		productType = categoryPath(parent.Categories.V)
	}

	attrs := mergeAttributes(parent, row)

	availability := retailerid.Availability(row.StockStatus)
	inventory, hasInventory := retailerid.Inventory(row.StockStatus, row.StockQuantity)
	// Invariant: an item reporting zero inventory is never anything but out
	// of stock, even a backordered or forced-in-stock row whose observed
	// stock_quantity happens to be 0 (spec.md §8).
	if hasInventory && inventory == 0 {
		availability = "out of stock"
	}

	item := Item{
		ID:                  retailerid.For(row.Kind, row.ID),
		Title:               title,
		Description:         truncate(description, descriptionMaxRunes),
		RichTextDescription: description,
		Availability:        availability,
		Condition:            "new",
		Price:                fmt.Sprintf("%s %s", price, m.CurrencySuffix),
		SalePrice:            salePrice,
		Link:                 link,
		Brand:                m.Brand,
		ItemGroupID:          groupID,
		ProductType:          productType,
		AgeGroup:             attributeValue(attrs, "age"),
		Color:                attributeValue(attrs, "color"),
		Gender:               attributeValue(attrs, "gender"),
		Size:                 attributeValue(attrs, "size"),
	}

	if hasInventory {
		v := inventory
		item.Inventory = &v
	}

	originalImage := ""
	if len(row.Images.V) > 0 {
		originalImage = row.Images.V[0].Src
	}
	item.Images = m.renderImages(originalImage, item.Price, item.SalePrice, title, style)

	return item
}

func categoryPath(categories []string) string {
	return strings.Join(categories, "/")
}

// mergeAttributes concatenates the parent's attributes (if any) and then
// the row's own. attributeValue takes the first match, so for a name seen
// in both lists the parent's value is the one used.
func mergeAttributes(parent *models.Product, row models.Product) []models.Attribute {
	var merged []models.Attribute
	if parent != nil {
		merged = append(merged, parent.Attributes.V...)
	}
	merged = append(merged, row.Attributes.V...)
	return merged
}

// attributeValue finds the first attribute whose lowercased name equals
// name and returns its single option, or the first of its multiple options.
func attributeValue(attrs []models.Attribute, name string) string {
	for _, a := range attrs {
		if strings.ToLower(a.Name) != name {
			continue
		}
		if a.Option != "" {
			return a.Option
		}
		if len(a.Options) > 0 {
			return a.Options[0]
		}
	}
	return ""
}

// renderImages composes the three fixed image-service URLs for one source
// image, varying only aspect_ratio and style/tag.
func (m *Mapper) renderImages(originalURL, price, salePrice, name string, style Style) [3]Image {
	var out [3]Image
	for i, slot := range imageSlots {
		q := url.Values{}
		q.Set("price", fmt.Sprintf("%s KM", strings.TrimSuffix(price, " "+m.CurrencySuffix)))
		if salePrice != "" {
			q.Set("discount_price", fmt.Sprintf("%s KM", strings.TrimSuffix(salePrice, " "+m.CurrencySuffix)))
		}
		q.Set("name", name)
		q.Set("img", base64.URLEncoding.EncodeToString([]byte(originalURL)))
		q.Set("style", string(style))
		q.Set("aspect_ratio", slot.aspectRatio)

		out[i] = Image{
			URL:  fmt.Sprintf("%s?%s", m.ImageServiceURL, q.Encode()),
			Tags: slot.tags,
		}
	}
	return out
}
