package events

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogsync/internal/adcatalog"
	"catalogsync/internal/cache"
	"catalogsync/internal/logger"
	"catalogsync/internal/mapper"
	"catalogsync/internal/models"
	"catalogsync/internal/replication"
	"catalogsync/internal/sourceclient"
)

func newTestProcessor(t *testing.T, sourceSrv, catalogSrv *httptest.Server) (*Processor, *cache.Cache) {
	t.Helper()
	c, err := cache.New(t.TempDir() + "/cache.db")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	log := logger.New("debug")
	source := sourceclient.NewClient(sourceSrv.URL, "key", "secret", log)
	catalog := adcatalog.NewClient(catalogSrv.URL, "cat1", "tok", log)
	m := mapper.New("Store", "BAM", "https://images.example.com/render")
	engine := replication.New(source, catalog, c, m, log)

	return NewProcessor(c, source, engine, log), c
}

func jsonHandler(t *testing.T, fn func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fn(w, r)
	}))
}

// TestProcessorHandlesDeletion implements spec.md §8 scenario S4.
func TestProcessorHandlesDeletion(t *testing.T) {
	sourceSrv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {})
	defer sourceSrv.Close()

	var lastMethod string
	catalogSrv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		lastMethod = r.Method
		json.NewEncoder(w).Encode(adcatalog.BatchResponse{
			ValidationStatus: []adcatalog.ValidationStatus{{RetailerID: "wc_42"}},
		})
	})
	defer catalogSrv.Close()

	p, c := newTestProcessor(t, sourceSrv, catalogSrv)

	require.NoError(t, c.UpsertProduct(&models.Product{
		ID: 42, Kind: models.KindSimple, Name: "Shirt", RetailerID: "wc_42", StockStatus: models.StockInStock,
	}))
	require.NoError(t, c.UpsertSyncStatus(&models.SyncStatus{
		ProductID: 42, RetailerID: "wc_42", SyncState: models.SyncSynced, ExistsRemotely: true,
	}))

	payload := sourceclient.Product{ID: 42, Type: "simple", Name: "Shirt", StockStatus: "instock"}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	event := models.Event{
		SourceProductID:   42,
		RawPayload:        string(raw),
		Action:            models.ActionDeleted,
		DerivedRetailerID: "wc_42",
	}

	require.NoError(t, p.dispatch(event))
	assert.Equal(t, http.MethodPost, lastMethod)

	_, err = c.GetProduct(42)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProcessorRehydratesParentForVariation(t *testing.T) {
	sourceSrv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sourceclient.Product{ID: 100, Type: "variable", Name: "Dress"})
	})
	defer sourceSrv.Close()

	catalogSrv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]interface{}{"data": []adcatalog.RemoteRow{}})
		case http.MethodPost:
			json.NewEncoder(w).Encode(adcatalog.BatchResponse{
				ValidationStatus: []adcatalog.ValidationStatus{{RetailerID: "wc_201"}},
			})
		}
	})
	defer catalogSrv.Close()

	p, c := newTestProcessor(t, sourceSrv, catalogSrv)

	qty := 3
	payload := sourceclient.Product{
		ID: 201, Type: "variation", ParentID: 100, RegularPrice: "9.00",
		StockStatus: "instock", StockQuantity: &qty,
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	event := models.Event{SourceProductID: 201, RawPayload: string(raw), Action: models.ActionCreated}
	require.NoError(t, p.dispatch(event))

	status, err := c.GetSyncStatusByRetailerID("wc_201")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.SyncSynced, status.SyncState)

	parent, err := c.GetProduct(100)
	require.NoError(t, err)
	assert.Equal(t, "Dress", parent.Name)

	v, err := c.GetVariation(201)
	require.NoError(t, err, "the variation must be persisted in the variations table, not products")
	assert.Equal(t, int64(100), v.ParentID)

	_, err = c.GetProduct(201)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLockKeyForNormalizesVariationToParent(t *testing.T) {
	p := &Processor{}

	variation := sourceclient.Product{ID: 201, Type: "variation", ParentID: 100}
	raw, err := json.Marshal(variation)
	require.NoError(t, err)
	event := models.Event{SourceProductID: 201, RawPayload: string(raw)}
	assert.Equal(t, int64(100), p.lockKeyFor(event))

	simple := sourceclient.Product{ID: 42, Type: "simple"}
	raw, err = json.Marshal(simple)
	require.NoError(t, err)
	event = models.Event{SourceProductID: 42, RawPayload: string(raw)}
	assert.Equal(t, int64(42), p.lockKeyFor(event))
}
