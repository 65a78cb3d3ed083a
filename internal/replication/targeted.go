package replication

import (
	"fmt"
	"time"

	"catalogsync/internal/adcatalog"
	"catalogsync/internal/models"
	"catalogsync/internal/retailerid"
)

// TargetedSync reconciles one product (with optional parent) against the
// ad catalog, per spec.md §4.F's targeted path. It is the event processor's
// only way to talk to the ad catalog — everything else in G is cache and
// bookkeeping.
func (e *Engine) TargetedSync(row models.Product, parent *models.Product) error {
	retailerID := retailerid.For(row.Kind, row.ID)
	row.RetailerID = retailerID
	if row.Kind == models.KindVariation {
		variation := row.AsVariation()
		if err := e.cache.UpsertVariation(&variation); err != nil {
			return fmt.Errorf("replication: targeted upsert for %d: %w", row.ID, err)
		}
	} else if err := e.cache.UpsertProduct(&row); err != nil {
		return fmt.Errorf("replication: targeted upsert for %d: %w", row.ID, err)
	}

	status, err := e.cache.GetSyncStatusByRetailerID(retailerID)
	if err != nil {
		return fmt.Errorf("replication: load sync-status for %s: %w", retailerID, err)
	}

	// A variation's sync-status row has to key off the parent product id —
	// its own id has no row in products for the FK to reference — but stays
	// uniquely addressable via retailerID (spec.md §3).
	statusProductID := row.ID
	if row.Kind == models.KindVariation && parent != nil {
		statusProductID = parent.ID
	}

	availability := retailerid.Availability(row.StockStatus)
	inventory, _ := retailerid.Inventory(row.StockStatus, row.StockQuantity)

	if !row.IsInStock() {
		if status != nil && status.ExistsRemotely {
			return e.pushUpdate(statusProductID, retailerID, availability, inventory)
		}
		// out-of-stock and never known remotely: nothing to reconcile.
		return nil
	}

	if status != nil && status.Unchanged(availability, inventory) {
		return nil
	}

	return e.upsertViaLookup(row, parent, statusProductID, retailerID)
}

// pushUpdate is the out-of-stock-but-known-remotely branch: a single
// UPDATE setting availability/inventory, independent of E's full mapping.
func (e *Engine) pushUpdate(productID int64, retailerID, availability string, inventory int) error {
	resp, err := e.catalog.UpdateStock(retailerID, availability, inventory)
	if err != nil {
		return e.cache.UpsertSyncStatus(&models.SyncStatus{
			ProductID:  productID,
			RetailerID: retailerID,
			SyncState:  models.SyncError,
			LastError:  err.Error(),
		})
	}
	return e.applySingleItemResponse(productID, retailerID, availability, inventory, resp)
}

// upsertViaLookup determines CREATE vs UPDATE by asking the ad catalog
// whether the row already exists, builds the full item via the mapper, and
// submits a single-item batch.
func (e *Engine) upsertViaLookup(row models.Product, parent *models.Product, statusProductID int64, retailerID string) error {
	remote, err := e.catalog.LookupByRetailerID(retailerID)
	if err != nil {
		return fmt.Errorf("replication: lookup %s: %w", retailerID, err)
	}

	method := adcatalog.MethodCreate
	if remote != nil {
		method = adcatalog.MethodUpdate
	}

	item := e.mapper.Map(row, parent, defaultStyle)
	request := buildBatchRequest(method, item)

	resp, err := e.catalog.BatchUpsert([]adcatalog.BatchRequest{request})
	if err != nil {
		return e.cache.UpsertSyncStatus(&models.SyncStatus{
			ProductID:  statusProductID,
			RetailerID: retailerID,
			SyncState:  models.SyncError,
			LastError:  err.Error(),
		})
	}

	inventory := 0
	if item.Inventory != nil {
		inventory = *item.Inventory
	}
	return e.applySingleItemResponse(statusProductID, retailerID, item.Availability, inventory, resp)
}

func (e *Engine) applySingleItemResponse(productID int64, retailerID, availability string, inventory int, resp *adcatalog.BatchResponse) error {
	now := time.Now()
	status := &models.SyncStatus{
		ProductID:        productID,
		RetailerID:       retailerID,
		LastAvailability: availability,
		LastInventory:    inventory,
	}

	switch {
	case resp.Error != nil:
		status.SyncState = models.SyncError
		status.LastError = resp.Error.Message

	case len(resp.ValidationStatus) > 0 && len(resp.ValidationStatus[0].Errors) > 0:
		status.SyncState = models.SyncError
		status.LastError = resp.ValidationStatus[0].Errors[0].Message

	default:
		status.SyncState = models.SyncSynced
		status.ExistsRemotely = true
		status.LastSyncedAt = &now
	}

	return e.cache.UpsertSyncStatus(status)
}

// TargetedSyncVariableProduct fetches parent's variations fresh from the
// source (mirroring the bulk path's syncVariableParents rather than trusting
// whatever happens to already be cached — a webhook can fire before a
// variable product's children were ever synced) and recurses the targeted
// path over each, skipping the parent itself (spec.md §4.F).
func (e *Engine) TargetedSyncVariableProduct(parent models.Product) error {
	wireVariations, err := e.source.FetchVariations(parent.ID)
	if err != nil {
		return fmt.Errorf("replication: fetch variations for %d: %w", parent.ID, err)
	}

	variations := make([]models.Variation, 0, len(wireVariations))
	for _, v := range wireVariations {
		row := v.ToModel(parent.ID)
		row.RetailerID = retailerid.For(models.KindVariation, row.ID)
		variations = append(variations, row)
	}
	if err := e.cache.UpsertVariations(variations); err != nil {
		return fmt.Errorf("replication: upsert variations for %d: %w", parent.ID, err)
	}

	for _, v := range variations {
		if err := e.TargetedSync(v.AsProduct(), &parent); err != nil {
			return err
		}
	}
	return nil
}
