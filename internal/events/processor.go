package events

import (
	"encoding/json"
	"fmt"

	"catalogsync/internal/cache"
	"catalogsync/internal/logger"
	"catalogsync/internal/models"
	"catalogsync/internal/replication"
	"catalogsync/internal/sourceclient"
)

// Processor performs the actual work a queued event implies. It is the
// consumer side of the producer/consumer split between the webhook handler
// (cmd/api) and the worker (cmd/worker); the HTTP response has already been
// sent by the time Process runs.
type Processor struct {
	cache   *cache.Cache
	source  *sourceclient.Client
	engine  *replication.Engine
	logger  *logger.Logger
	keylock *KeyLock
}

func NewProcessor(c *cache.Cache, source *sourceclient.Client, engine *replication.Engine, log *logger.Logger) *Processor {
	return &Processor{cache: c, source: source, engine: engine, logger: log, keylock: NewKeyLock()}
}

// ProcessRaw unmarshals a kafka message's value back into the Event row it
// was published from and dispatches it, serialized per source product-id.
//
// The lock key is normalized to the parent product id for variation
// events (spec.md §5, §9): a variable parent's own event and its
// variations' events must never run concurrently, since the targeted path
// reads the parent row before writing it back.
func (p *Processor) ProcessRaw(value []byte) error {
	var event models.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("events: failed to decode queued event: %w", err)
	}

	unlock := p.keylock.Lock(p.lockKeyFor(event))
	defer unlock()

	err := p.dispatch(event)
	if err != nil {
		if markErr := p.cache.MarkEventErrored(event.ID, err.Error()); markErr != nil {
			p.logger.Error("failed to mark event %d errored: %v", event.ID, markErr)
		}
		return err
	}
	return p.cache.MarkEventProcessed(event.ID)
}

// lockKeyFor peeks at the event's payload to resolve the key-lock key: the
// parent id for a variation payload that names one, otherwise the event's
// own source product-id (also used when the payload cannot be decoded, so
// processing is never blocked on it).
func (p *Processor) lockKeyFor(event models.Event) int64 {
	var payload sourceclient.Product
	if err := json.Unmarshal([]byte(event.RawPayload), &payload); err != nil {
		return event.SourceProductID
	}
	if payload.Type == "variation" && payload.ParentID != 0 {
		return payload.ParentID
	}
	return event.SourceProductID
}

// dispatch implements the action table in spec.md §4.G. The processor must
// tolerate a variation payload whose parent it has never seen, so created/
// updated both rehydrate the parent on demand rather than assuming the
// cache already has it.
func (p *Processor) dispatch(event models.Event) error {
	switch event.Action {
	case models.ActionCreated, models.ActionRestored:
		return p.handleUpsert(event)

	case models.ActionUpdated:
		return p.handleUpsert(event)

	case models.ActionDeleted:
		return p.handleDeleted(event)

	default:
		return fmt.Errorf("events: unrecognized action %q", event.Action)
	}
}

func (p *Processor) handleUpsert(event models.Event) error {
	var payload sourceclient.Product
	if err := json.Unmarshal([]byte(event.RawPayload), &payload); err != nil {
		return fmt.Errorf("events: failed to decode event %d payload: %w", event.ID, err)
	}
	row := payload.ToModel()
	row.RetailerID = retailerIDFor(row)

	switch row.Kind {
	case models.KindVariable:
		if err := p.cache.UpsertProduct(&row); err != nil {
			return err
		}
		return p.engine.TargetedSyncVariableProduct(row)

	case models.KindVariation:
		parent, err := p.rehydrateParent(row.ParentID)
		if err != nil {
			return err
		}
		return p.engine.TargetedSync(row, parent)

	default:
		if !row.IsInStock() && event.Action != models.ActionUpdated {
			// created/restored arriving already out-of-stock: still worth
			// caching so a later stock-status flip has a baseline.
			return p.cache.UpsertProduct(&row)
		}
		return p.engine.TargetedSync(row, nil)
	}
}

func (p *Processor) handleDeleted(event models.Event) error {
	var payload sourceclient.Product
	if err := json.Unmarshal([]byte(event.RawPayload), &payload); err != nil {
		return fmt.Errorf("events: failed to decode event %d payload: %w", event.ID, err)
	}
	row := payload.ToModel()

	status, err := p.cache.GetSyncStatusByRetailerID(event.DerivedRetailerID)
	if err != nil {
		return err
	}
	if status == nil {
		status, err = p.cache.GetSyncStatusByRetailerID(retailerIDFor(row))
		if err != nil {
			return err
		}
	}

	var parent *models.Product
	if row.Kind == models.KindVariation {
		parent, err = p.rehydrateParent(row.ParentID)
		if err != nil {
			return err
		}
	}

	if status != nil && status.ExistsRemotely {
		if err := p.engine.TargetedSync(withOutOfStock(row), parent); err != nil {
			return err
		}
	}

	if row.Kind == models.KindVariation {
		return p.cache.DeleteVariation(row.ID)
	}
	return p.cache.DeleteProduct(row.ID)
}

// rehydrateParent fetches a variation's parent from the source store and
// caches it. It fetches on every call, whether or not the parent is already
// cached, so a parent the processor has never seen needs no special case.
func (p *Processor) rehydrateParent(parentID int64) (*models.Product, error) {
	wireParent, err := p.source.FetchOne(parentID)
	if err != nil {
		return nil, fmt.Errorf("events: failed to rehydrate parent %d: %w", parentID, err)
	}
	parent := wireParent.ToModel()
	parent.RetailerID = retailerIDFor(parent)
	if err := p.cache.UpsertProduct(&parent); err != nil {
		return nil, err
	}
	return &parent, nil
}
