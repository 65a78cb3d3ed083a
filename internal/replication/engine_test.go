package replication

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
	"catalogsync/internal/sourceclient"
)

func newTestEngine(t *testing.T, sourceSrv, catalogSrv *httptest.Server) (*Engine, *cache.Cache) {
	t.Helper()
	c, err := cache.New(t.TempDir() + "/cache.db")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	log := logger.New("debug")
	source := sourceclient.NewClient(sourceSrv.URL, "key", "secret", log)
	catalog := adcatalog.NewClient(catalogSrv.URL, "cat1", "tok", log)
	m := mapper.New("Store", "BAM", "https://images.example.com/render")

	return New(source, catalog, c, m, log), c
}

// TestBulkSyncSimpleProduct implements spec.md §8 scenario S1.
func TestBulkSyncSimpleProduct(t *testing.T) {
	sourceSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/products":
			page := r.URL.Query().Get("page")
			w.Header().Set("Content-Type", "application/json")
			if page == "1" {
				qty := 7
				json.NewEncoder(w).Encode([]sourceclient.Product{{
					ID: 42, Type: "simple", Name: "Shirt", Permalink: "https://x/shirt",
					RegularPrice: "10.00", StockStatus: "instock", StockQuantity: &qty,
				}})
				return
			}
			json.NewEncoder(w).Encode([]sourceclient.Product{})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer sourceSrv.Close()

	var capturedBatch wireCaptured
	catalogSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(map[string]interface{}{"data": []adcatalog.RemoteRow{}})
		case r.Method == http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedBatch))
			json.NewEncoder(w).Encode(adcatalog.BatchResponse{
				ValidationStatus: []adcatalog.ValidationStatus{{RetailerID: "wc_42"}},
			})
		}
	}))
	defer catalogSrv.Close()

	engine, c := newTestEngine(t, sourceSrv, catalogSrv)

	report, err := engine.BulkSync()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.InStock)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 0, report.Errors)

	require.Len(t, capturedBatch.Requests, 1)
	assert.Equal(t, "wc_42", capturedBatch.Requests[0].RetailerID)
	assert.Equal(t, "10.00 BAM", capturedBatch.Requests[0].Data["price"])

	status, err := c.GetSyncStatusByRetailerID("wc_42")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, models.SyncSynced, status.SyncState)
	assert.Equal(t, "in stock", status.LastAvailability)
	assert.Equal(t, 7, status.LastInventory)
}

// TestBulkSyncVariableProductOnlySubmitsVariations implements S2.
func TestBulkSyncVariableProductOnlySubmitsVariations(t *testing.T) {
	sourceSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/products":
			page := r.URL.Query().Get("page")
			if page == "1" {
				json.NewEncoder(w).Encode([]sourceclient.Product{{
					ID: 100, Type: "variable", Name: "Dress", Variations: []int64{201, 202},
				}})
				return
			}
			json.NewEncoder(w).Encode([]sourceclient.Product{})
		case "/products/100/variations":
			qty3 := 3
			qty0 := 0
			json.NewEncoder(w).Encode([]sourceclient.Variation{
				{ID: 201, RegularPrice: "9.00", SalePrice: "8.00", StockStatus: "instock", StockQuantity: &qty3},
				{ID: 202, RegularPrice: "9.00", StockStatus: "outofstock", StockQuantity: &qty0},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer sourceSrv.Close()

	var capturedBatch wireCaptured
	catalogSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(map[string]interface{}{"data": []adcatalog.RemoteRow{}})
		case r.Method == http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedBatch))
			json.NewEncoder(w).Encode(adcatalog.BatchResponse{
				ValidationStatus: []adcatalog.ValidationStatus{{RetailerID: "wc_201"}},
			})
		}
	}))
	defer catalogSrv.Close()

	engine, _ := newTestEngine(t, sourceSrv, catalogSrv)

	report, err := engine.BulkSync()
	require.NoError(t, err)
	assert.Equal(t, 1, report.InStock)
	assert.Equal(t, 1, report.Skipped)

	require.Len(t, capturedBatch.Requests, 1)
	assert.Equal(t, "wc_201", capturedBatch.Requests[0].RetailerID)
	assert.Equal(t, "wc_100", capturedBatch.Requests[0].Data["item_group_id"])
	assert.Equal(t, "8.00 BAM", capturedBatch.Requests[0].Data["sale_price"])
}

type wireCaptured struct {
	ItemType string `json:"item_type"`
	Requests []struct {
		Method     string                 `json:"method"`
		RetailerID string                 `json:"retailer_id"`
		Data       map[string]interface{} `json:"data"`
	} `json:"requests"`
}
