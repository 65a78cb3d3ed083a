package replication

import (
	"time"

	"catalogsync/internal/adcatalog"
	"catalogsync/internal/models"
)

// submitAndReconcile chunks pending by batchChunkSize, submits each chunk,
// and interprets the response per spec.md §4.F step 6.
func (e *Engine) submitAndReconcile(pending []pendingItem, report *Report) error {
	for start := 0; start < len(pending); start += batchChunkSize {
		end := start + batchChunkSize
		if end > len(pending) {
			end = len(pending)
		}
		chunk := pending[start:end]

		requests := make([]adcatalog.BatchRequest, len(chunk))
		for i, p := range chunk {
			requests[i] = p.request
		}

		resp, err := e.catalog.BatchUpsert(requests)
		if err != nil {
			if markErr := e.markChunkErrored(chunk, err.Error()); markErr != nil {
				return markErr
			}
			report.Errors += len(chunk)
			continue
		}

		if err := e.reconcileChunk(chunk, resp, report); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) reconcileChunk(chunk []pendingItem, resp *adcatalog.BatchResponse, report *Report) error {
	switch {
	case resp.Error != nil:
		report.Errors += len(chunk)
		return e.markChunkErrored(chunk, resp.Error.Message)

	case resp.ValidationStatus != nil:
		statusByRetailerID := make(map[string]adcatalog.ValidationStatus, len(resp.ValidationStatus))
		for _, v := range resp.ValidationStatus {
			statusByRetailerID[v.RetailerID] = v
		}
		for _, p := range chunk {
			v, found := statusByRetailerID[p.item.ID]
			if found && len(v.Errors) > 0 {
				report.Errors++
				if err := e.markSynced(p, models.SyncError, v.Errors[0].Message); err != nil {
					return err
				}
				continue
			}
			countByMethod(report, p.method)
			if err := e.markSynced(p, models.SyncSynced, ""); err != nil {
				return err
			}
		}
		return nil

	default:
		// Handles returned: the remote side accepted the batch for async
		// processing and will apply it eventually. Mark every item synced
		// optimistically rather than leaving it pending forever.
		for _, p := range chunk {
			countByMethod(report, p.method)
			if err := e.markSynced(p, models.SyncSynced, ""); err != nil {
				return err
			}
		}
		return nil
	}
}

func countByMethod(report *Report, method adcatalog.Method) {
	switch method {
	case adcatalog.MethodCreate:
		report.Created++
	case adcatalog.MethodUpdate:
		report.Updated++
	}
}

func (e *Engine) markSynced(p pendingItem, state models.SyncState, errMsg string) error {
	now := time.Now()
	status := &models.SyncStatus{
		ProductID:        p.productID,
		RetailerID:       p.item.ID,
		SyncState:        state,
		ExistsRemotely:   state == models.SyncSynced,
		LastAvailability: p.item.Availability,
		LastError:        errMsg,
	}
	if p.item.Inventory != nil {
		status.LastInventory = *p.item.Inventory
	}
	if state == models.SyncSynced {
		status.LastSyncedAt = &now
	}
	return e.cache.UpsertSyncStatus(status)
}

func (e *Engine) markChunkErrored(chunk []pendingItem, errMsg string) error {
	for _, p := range chunk {
		if err := e.markSynced(p, models.SyncError, errMsg); err != nil {
			return err
		}
	}
	return nil
}
