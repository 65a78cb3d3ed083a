// Package adcatalog is the batch-oriented HTTP client against the
// downstream ad catalog (component B). Authentication is a bearer token;
// every call validates that the token and catalog id are configured before
// making a request.
package adcatalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"catalogsync/internal/logger"
)

const maxBatchSize = 1000

// APICallError wraps an error the remote side returned inside a response
// body rather than via the transport layer.
type APICallError struct {
	StatusCode int
	Body       string
}

func (e *APICallError) Error() string {
	return fmt.Sprintf("adcatalog: API error: %d - %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL    string
	catalogID  string
	token      string
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(baseURL, catalogID, token string, log *logger.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		catalogID: catalogID,
		token:     token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: log,
	}
}

func (c *Client) validate() error {
	if c.catalogID == "" {
		return fmt.Errorf("adcatalog: AD_CATALOG_ID is required but not set")
	}
	if c.token == "" {
		return fmt.Errorf("adcatalog: AD_CATALOG_TOKEN is required but not set")
	}
	return nil
}

func (c *Client) do(method, path string, query url.Values, body interface{}) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL += "?" + query.Encode()
	}
	return c.doURL(method, reqURL, body)
}

// doURL issues a request against an absolute URL — used directly for the
// opaque paging.next cursor the ad catalog hands back, which already
// carries its own host and query string.
func (c *Client) doURL(method, reqURL string, body interface{}) ([]byte, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("adcatalog: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("adcatalog: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adcatalog: failed to reach ad catalog: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("adcatalog: failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APICallError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

// Enumerate returns the full catalog state, following the opaque
// paging.next cursor chain until exhausted. An empty fields list defaults
// to the minimal tuple the reconciler needs: retailer_id, availability,
// inventory.
func (c *Client) Enumerate(fields []string, pageSize int) ([]RemoteRow, error) {
	if len(fields) == 0 {
		fields = []string{"retailer_id", "availability", "inventory"}
	}
	if pageSize <= 0 {
		pageSize = 500
	}

	var all []RemoteRow
	query := url.Values{}
	query.Set("fields", joinFields(fields))
	query.Set("limit", fmt.Sprintf("%d", pageSize))
	nextURL := fmt.Sprintf("%s/%s/products?%s", c.baseURL, c.catalogID, query.Encode())

	for nextURL != "" {
		body, err := c.doURL(http.MethodGet, nextURL, nil)
		if err != nil {
			return nil, err
		}

		var page listResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("adcatalog: failed to decode enumerate page: %w", err)
		}
		all = append(all, page.Data...)
		c.logger.Debug("enumerated %d ad-catalog rows (total %d)", len(page.Data), len(all))

		nextURL = page.Paging.Next
	}

	return all, nil
}

// LookupByRetailerID returns the one remote row with that retailer-id, or
// nil if no such row exists.
func (c *Client) LookupByRetailerID(id string) (*RemoteRow, error) {
	filter := fmt.Sprintf(`{"retailer_id":{"eq":"%s"}}`, id)
	query := url.Values{}
	query.Set("filter", filter)
	query.Set("fields", joinFields([]string{"retailer_id", "availability", "inventory"}))

	body, err := c.do(http.MethodGet, fmt.Sprintf("/%s/products", c.catalogID), query, nil)
	if err != nil {
		return nil, err
	}

	var page listResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("adcatalog: failed to decode lookup response: %w", err)
	}
	if len(page.Data) == 0 {
		return nil, nil
	}
	return &page.Data[0], nil
}

// BatchUpsert accepts up to maxBatchSize items. It returns the raw,
// uninterpreted response; the caller decides what an async-handle response
// versus a validation-status response means for sync-status.
func (c *Client) BatchUpsert(items []BatchRequest) (*BatchResponse, error) {
	if len(items) > maxBatchSize {
		return nil, fmt.Errorf("adcatalog: batch of %d exceeds max of %d", len(items), maxBatchSize)
	}

	envelope := wireBatchEnvelope{ItemType: "PRODUCT_ITEM"}
	for _, item := range items {
		envelope.Requests = append(envelope.Requests, item.wire())
	}

	body, err := c.do(http.MethodPost, fmt.Sprintf("/%s/items_batch", c.catalogID), nil, envelope)
	if err != nil {
		return nil, err
	}

	var resp BatchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("adcatalog: failed to decode batch response: %w", err)
	}
	return &resp, nil
}

// UpdateStock is a convenience wrapper that builds a single-item UPDATE
// batch for a stock-only change.
func (c *Client) UpdateStock(retailerID, availability string, inventory int) (*BatchResponse, error) {
	return c.BatchUpsert([]BatchRequest{{
		Method:     MethodUpdate,
		RetailerID: retailerID,
		Data: map[string]interface{}{
			"availability": availability,
			"inventory":    inventory,
		},
	}})
}

func joinFields(fields []string) string {
	out := fields[0]
	for _, f := range fields[1:] {
		out += "," + f
	}
	return out
}
