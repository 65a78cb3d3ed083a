// Package replication is the replication engine (component F): the bulk
// "initial sync" path and the single-item "targeted" path the event
// processor drives. Both funnel every id through retailerid so a variation
// reached via either path resolves to the same ad-catalog row.
package replication

import (
	"fmt"
	"sync"
	"time"

	"catalogsync/internal/adcatalog"
	"catalogsync/internal/cache"
	"catalogsync/internal/logger"
	"catalogsync/internal/mapper"
	"catalogsync/internal/models"
	"catalogsync/internal/retailerid"
	"catalogsync/internal/sourceclient"
)

const (
	variationFanOut  = 10
	batchChunkSize   = 1000
	defaultStyle     = mapper.StyleStandard
)

type Engine struct {
	source  *sourceclient.Client
	catalog *adcatalog.Client
	cache   *cache.Cache
	mapper  *mapper.Mapper
	logger  *logger.Logger
}

func New(source *sourceclient.Client, catalog *adcatalog.Client, c *cache.Cache, m *mapper.Mapper, log *logger.Logger) *Engine {
	return &Engine{source: source, catalog: catalog, cache: c, mapper: m, logger: log}
}

// pendingItem is one mapped item waiting to be chunked and submitted,
// together with the bookkeeping the response-interpretation step needs to
// update sync-status afterward.
type pendingItem struct {
	request    adcatalog.BatchRequest
	productID  int64
	method     adcatalog.Method
	item       mapper.Item
}

// BulkSync runs the full initial-sync path described in spec.md §4.F.
func (e *Engine) BulkSync() (*Report, error) {
	report := &Report{StartedAt: time.Now()}

	products, err := e.source.FetchAllProducts(map[string]string{"stock_status": "instock"})
	if err != nil {
		return nil, fmt.Errorf("replication: fetch products: %w", err)
	}
	report.Total = len(products)

	rows := make([]models.Product, 0, len(products))
	for _, p := range products {
		row := p.ToModel()
		row.RetailerID = retailerid.For(row.Kind, row.ID)
		rows = append(rows, row)
	}
	if err := e.cache.UpsertProducts(rows); err != nil {
		return nil, fmt.Errorf("replication: upsert products: %w", err)
	}

	remote, err := e.catalog.Enumerate(nil, 500)
	if err != nil {
		return nil, fmt.Errorf("replication: enumerate ad catalog: %w", err)
	}
	existsRemotely := make(map[string]adcatalog.RemoteRow, len(remote))
	for _, r := range remote {
		existsRemotely[r.RetailerID] = r
	}

	var pending []pendingItem

	variableParents := make([]models.Product, 0)
	for i := range rows {
		row := rows[i]
		switch row.Kind {
		case models.KindVariable:
			variableParents = append(variableParents, row)
		default:
			if !row.IsInStock() {
				report.Skipped++
				continue
			}
			report.InStock++
			item := e.mapper.Map(row, nil, defaultStyle)
			pending = append(pending, e.toPendingItem(row.ID, item, existsRemotely))
			if err := e.cache.UpsertSyncStatus(pendingSyncStatus(row.ID, item.ID)); err != nil {
				return nil, fmt.Errorf("replication: seed sync-status for %d: %w", row.ID, err)
			}
		}
	}

	variationItems, err := e.syncVariableParents(variableParents, existsRemotely, report)
	if err != nil {
		return nil, err
	}
	pending = append(pending, variationItems...)

	if err := e.submitAndReconcile(pending, report); err != nil {
		return nil, err
	}

	report.FinishedAt = time.Now()
	return report, nil
}

// syncVariableParents fans variation fetches out in groups of
// variationFanOut parent-ids, writing each group's results in one cache
// transaction before moving to the next group, per spec.md §5.
func (e *Engine) syncVariableParents(parents []models.Product, existsRemotely map[string]adcatalog.RemoteRow, report *Report) ([]pendingItem, error) {
	var pending []pendingItem

	for start := 0; start < len(parents); start += variationFanOut {
		end := start + variationFanOut
		if end > len(parents) {
			end = len(parents)
		}
		group := parents[start:end]

		type fetchResult struct {
			parent     models.Product
			variations []sourceclient.Variation
			err        error
		}
		results := make([]fetchResult, len(group))

		var wg sync.WaitGroup
		for i, parent := range group {
			wg.Add(1)
			go func(i int, parent models.Product) {
				defer wg.Done()
				variations, err := e.source.FetchVariations(parent.ID)
				results[i] = fetchResult{parent: parent, variations: variations, err: err}
			}(i, parent)
		}
		wg.Wait()

		var toUpsert []models.Variation
		for _, r := range results {
			if r.err != nil {
				return nil, fmt.Errorf("replication: fetch variations for %d: %w", r.parent.ID, r.err)
			}
			for _, v := range r.variations {
				row := v.ToModel(r.parent.ID)
				row.RetailerID = retailerid.For(models.KindVariation, row.ID)
				toUpsert = append(toUpsert, row)
			}
		}
		if err := e.cache.UpsertVariations(toUpsert); err != nil {
			return nil, fmt.Errorf("replication: upsert variations: %w", err)
		}

		for _, r := range results {
			for _, v := range r.variations {
				row := v.ToModel(r.parent.ID)
				row.RetailerID = retailerid.For(models.KindVariation, row.ID)
				if !row.IsInStock() {
					report.Skipped++
					continue
				}
				report.InStock++
				item := e.mapper.Map(row.AsProduct(), &r.parent, defaultStyle)
				// A variation has no row of its own in products — its
				// sync-status must key off the parent product id, the one
				// products.id it actually cascades from (spec.md §3).
				pending = append(pending, e.toPendingItem(r.parent.ID, item, existsRemotely))
				if err := e.cache.UpsertSyncStatus(pendingSyncStatus(r.parent.ID, item.ID)); err != nil {
					return nil, fmt.Errorf("replication: seed sync-status for %d: %w", row.ID, err)
				}
			}
		}
	}

	return pending, nil
}

func (e *Engine) toPendingItem(productID int64, item mapper.Item, existsRemotely map[string]adcatalog.RemoteRow) pendingItem {
	method := adcatalog.MethodCreate
	if _, ok := existsRemotely[item.ID]; ok {
		method = adcatalog.MethodUpdate
	}
	return pendingItem{
		request:   buildBatchRequest(method, item),
		productID: productID,
		method:    method,
		item:      item,
	}
}

func pendingSyncStatus(productID int64, retailerID string) *models.SyncStatus {
	return &models.SyncStatus{
		ProductID:  productID,
		RetailerID: retailerID,
		SyncState:  models.SyncPending,
	}
}

func buildBatchRequest(method adcatalog.Method, item mapper.Item) adcatalog.BatchRequest {
	data := map[string]interface{}{
		"title":                item.Title,
		"description":          item.Description,
		"rich_text_description": item.RichTextDescription,
		"availability":         item.Availability,
		"condition":            item.Condition,
		"price":                item.Price,
		"link":                 item.Link,
		"brand":                item.Brand,
		"image":                imagesForWire(item.Images),
	}
	if item.SalePrice != "" {
		data["sale_price"] = item.SalePrice
	}
	if item.ItemGroupID != "" {
		data["item_group_id"] = item.ItemGroupID
	}
	if item.ProductType != "" {
		data["product_type"] = item.ProductType
	}
	if item.Inventory != nil {
		data["inventory"] = *item.Inventory
	}
	if item.Color != "" {
		data["color"] = item.Color
	}
	if item.Size != "" {
		data["size"] = item.Size
	}
	if item.Gender != "" {
		data["gender"] = item.Gender
	}
	if item.AgeGroup != "" {
		data["age_group"] = item.AgeGroup
	}

	return adcatalog.BatchRequest{
		Method:     method,
		RetailerID: item.ID,
		Data:       data,
	}
}

func imagesForWire(images [3]mapper.Image) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(images))
	for _, img := range images {
		out = append(out, map[string]interface{}{
			"url": img.URL,
			"tag": img.Tags,
		})
	}
	return out
}
