// Package feed is the CSV feed generator (component H): the same mapper
// and cache the replication engine uses, pointed at a file instead of the
// ad catalog API.
package feed

import (
	"fmt"
	"runtime"
	"sync"

	"catalogsync/internal/cache"
	"catalogsync/internal/logger"
	"catalogsync/internal/mapper"
	"catalogsync/internal/models"
	"catalogsync/internal/retailerid"
	"catalogsync/internal/sourceclient"
)

type Generator struct {
	cache  *cache.Cache
	source *sourceclient.Client
	mapper *mapper.Mapper
	logger *logger.Logger
}

func New(c *cache.Cache, source *sourceclient.Client, m *mapper.Mapper, log *logger.Logger) *Generator {
	return &Generator{cache: c, source: source, mapper: m, logger: log}
}

// Fast builds the feed entirely from the cache: one row per in-stock
// simple product, one row per variable parent (as an item-group anchor),
// and one row per in-stock variation. It never calls the source store.
func (g *Generator) Fast(style mapper.Style) ([]mapper.Item, error) {
	simple, err := g.cache.ListInStockSimpleProducts()
	if err != nil {
		return nil, fmt.Errorf("feed: list simple products: %w", err)
	}

	variable, err := g.cache.ListVariableProducts()
	if err != nil {
		return nil, fmt.Errorf("feed: list variable products: %w", err)
	}

	items := make([]mapper.Item, 0, len(simple)+len(variable))
	for _, row := range simple {
		items = append(items, g.mapper.Map(row, nil, style))
	}

	for _, parent := range variable {
		variations, err := g.cache.ListVariationsByParent(parent.ID)
		if err != nil {
			return nil, fmt.Errorf("feed: list variations for %d: %w", parent.ID, err)
		}

		inStockQty := 0
		anyInStock := false
		for _, v := range variations {
			if !v.IsInStock() {
				continue
			}
			anyInStock = true
			if v.StockQuantity != nil {
				inStockQty += *v.StockQuantity
			}
			items = append(items, g.mapper.Map(v.AsProduct(), &parent, style))
		}

		anchor := parent
		anchor.StockStatus = models.StockOutOfStock
		if anyInStock {
			anchor.StockStatus = models.StockInStock
			anchor.StockQuantity = &inStockQty
		}
		items = append(items, g.mapper.Map(anchor, nil, style))
	}

	return items, nil
}

// Refresh re-runs the bulk fetch-and-cache step against the source store
// before building the feed, so the output reflects the store's current
// state rather than whatever the last replication run cached.
func (g *Generator) Refresh(style mapper.Style) ([]mapper.Item, error) {
	products, err := g.source.FetchAllProducts(map[string]string{"stock_status": "instock"})
	if err != nil {
		return nil, fmt.Errorf("feed: fetch products: %w", err)
	}

	rows := make([]models.Product, 0, len(products))
	variableParents := make([]models.Product, 0)
	for _, p := range products {
		row := p.ToModel()
		row.RetailerID = retailerid.For(row.Kind, row.ID)
		rows = append(rows, row)
		if row.Kind == models.KindVariable {
			variableParents = append(variableParents, row)
		}
	}
	if err := g.cache.UpsertProducts(rows); err != nil {
		return nil, fmt.Errorf("feed: upsert products: %w", err)
	}

	if err := g.refreshVariations(variableParents); err != nil {
		return nil, err
	}

	return g.Fast(style)
}

// refreshVariations fetches each variable parent's variations concurrently,
// bounded the way spec.md §5 bounds the CSV-path worker pool: at most the
// number of CPUs, at most 4, and never more workers than there is work.
func (g *Generator) refreshVariations(parents []models.Product) error {
	if len(parents) == 0 {
		return nil
	}

	workers := workerCount(len(parents))
	jobs := make(chan models.Product)
	errs := make(chan error, len(parents))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for parent := range jobs {
				variations, err := g.source.FetchVariations(parent.ID)
				if err != nil {
					errs <- fmt.Errorf("feed: fetch variations for %d: %w", parent.ID, err)
					continue
				}
				rows := make([]models.Variation, 0, len(variations))
				for _, v := range variations {
					row := v.ToModel(parent.ID)
					row.RetailerID = retailerid.For(models.KindVariation, row.ID)
					rows = append(rows, row)
				}
				if err := g.cache.UpsertVariations(rows); err != nil {
					errs <- fmt.Errorf("feed: upsert variations for %d: %w", parent.ID, err)
				}
			}
		}()
	}

	for _, parent := range parents {
		jobs <- parent
	}
	close(jobs)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func workerCount(n int) int {
	max := runtime.NumCPU()
	if max > 4 {
		max = 4
	}
	need := (n + 9) / 10
	if need < max {
		max = need
	}
	if max < 1 {
		max = 1
	}
	return max
}
