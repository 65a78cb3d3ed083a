package sourceclient

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

func TestFetchAllProductsPaginatesUntilShortPage(t *testing.T) {
	var pagesServed int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.URL.Query().Get("consumer_key"))
		assert.Equal(t, "secret", r.URL.Query().Get("consumer_secret"))

		page := r.URL.Query().Get("page")
		pagesServed++

		var batch []Product
		if page == "1" {
			for i := 0; i < pageSize; i++ {
				batch = append(batch, Product{ID: int64(i + 1), Type: "simple"})
			}
		} else {
			batch = []Product{{ID: 9999, Type: "simple"}}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(batch)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret", logger.New("debug"))
	products, err := c.FetchAllProducts(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, pagesServed)
	assert.Len(t, products, pageSize+1)
}

func TestFetchOneNon2xxReturnsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"not found"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret", logger.New("debug"))
	_, err := c.FetchOne(42)
	require.Error(t, err)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.Contains(t, reqErr.Body, "not found")
}

func TestFetchVariationsDecodesParentless(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/100/variations", r.URL.Path)
		json.NewEncoder(w).Encode([]Variation{
			{ID: 201, StockStatus: "instock"},
			{ID: 202, StockStatus: "outofstock"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "secret", logger.New("debug"))
	variations, err := c.FetchVariations(100)
	require.NoError(t, err)
	require.Len(t, variations, 2)

	model := variations[0].ToModel(100)
	assert.Equal(t, int64(100), model.ParentID)
	assert.Equal(t, int64(201), model.ID)
}
