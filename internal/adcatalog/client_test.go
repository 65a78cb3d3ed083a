package adcatalog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogsync/internal/logger"
)

func TestEnumerateFollowsCursorUntilExhausted(t *testing.T) {
	var callCount int
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		if callCount == 1 {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []RemoteRow{{RetailerID: "wc_1", Availability: "in stock", Inventory: 3}},
				"paging": map[string]string{
					"next": srv.URL + "/cat1/products?fields=retailer_id&after=abc",
				},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []RemoteRow{{RetailerID: "wc_2", Availability: "out of stock", Inventory: 0}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "cat1", "tok", logger.New("debug"))
	rows, err := c.Enumerate(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, callCount)
	require.Len(t, rows, 2)
	assert.Equal(t, "wc_1", rows[0].RetailerID)
	assert.Equal(t, "wc_2", rows[1].RetailerID)
}

func TestBatchUpsertEmbedsRetailerIDInDataBlock(t *testing.T) {
	var capturedBody wireBatchEnvelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&capturedBody))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(BatchResponse{
			ValidationStatus: []ValidationStatus{{RetailerID: "wc_42"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "cat1", "tok", logger.New("debug"))
	resp, err := c.BatchUpsert([]BatchRequest{{
		Method:     MethodCreate,
		RetailerID: "wc_42",
		Data:       map[string]interface{}{"price": "10.00 BAM"},
	}})
	require.NoError(t, err)

	assert.Equal(t, "PRODUCT_ITEM", capturedBody.ItemType)
	require.Len(t, capturedBody.Requests, 1)
	assert.Equal(t, "wc_42", capturedBody.Requests[0].Data["id"])
	assert.Equal(t, "wc_42", capturedBody.Requests[0].RetailerID)
	require.Len(t, resp.ValidationStatus, 1)
	assert.Empty(t, resp.ValidationStatus[0].Errors)
}

func TestBatchUpsertRejectsOversizedBatch(t *testing.T) {
	c := NewClient("http://unused", "cat1", "tok", logger.New("debug"))
	items := make([]BatchRequest, 1001)
	_, err := c.BatchUpsert(items)
	require.Error(t, err)
}

func TestValidateRequiresCatalogIDAndToken(t *testing.T) {
	c := NewClient("http://unused", "", "", logger.New("debug"))
	_, err := c.LookupByRetailerID("wc_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("AD_CATALOG_ID"))
}
