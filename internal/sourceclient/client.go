// Package sourceclient is the read-only HTTP client against the source
// store's product API (component A). Authentication is static key/secret
// injected as query parameters — a fixed legacy choice, not a header.
package sourceclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"catalogsync/internal/logger"
)

const pageSize = 100

// RequestError is returned for any non-2xx response; it preserves the
// status code and body so callers can log or surface the upstream failure
// verbatim.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("sourceclient: request failed: %d - %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
	logger         *logger.Logger
}

func NewClient(baseURL, consumerKey, consumerSecret string, log *logger.Logger) *Client {
	return &Client{
		baseURL:        baseURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

func (c *Client) get(path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("consumer_key", c.consumerKey)
	params.Set("consumer_secret", c.consumerSecret)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("sourceclient: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sourceclient: failed to reach source store: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sourceclient: failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// FetchAllProducts returns the full concatenated product list across pages
// of pageSize, terminating when a page returns fewer than pageSize rows.
// filters is applied verbatim as query parameters; the only one the spec
// recognizes is stock_status=instock.
func (c *Client) FetchAllProducts(filters map[string]string) ([]Product, error) {
	var all []Product

	for page := 1; ; page++ {
		params := url.Values{}
		for k, v := range filters {
			params.Set(k, v)
		}
		params.Set("page", fmt.Sprintf("%d", page))
		params.Set("per_page", fmt.Sprintf("%d", pageSize))

		body, err := c.get("/products", params)
		if err != nil {
			return nil, err
		}

		var batch []Product
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, fmt.Errorf("sourceclient: failed to decode products page %d: %w", page, err)
		}

		all = append(all, batch...)
		c.logger.Debug("fetched products page %d (%d rows)", page, len(batch))

		if len(batch) < pageSize {
			break
		}
	}

	return all, nil
}

// FetchVariations returns up to 100 variations of parentID in one request;
// callers assume a parent never has more than that.
func (c *Client) FetchVariations(parentID int64) ([]Variation, error) {
	params := url.Values{}
	params.Set("per_page", fmt.Sprintf("%d", pageSize))

	body, err := c.get(fmt.Sprintf("/products/%d/variations", parentID), params)
	if err != nil {
		return nil, err
	}

	var variations []Variation
	if err := json.Unmarshal(body, &variations); err != nil {
		return nil, fmt.Errorf("sourceclient: failed to decode variations for %d: %w", parentID, err)
	}
	return variations, nil
}

// FetchOne returns a single product by id, used by the event processor to
// rehydrate a parent after receiving only a variation payload.
func (c *Client) FetchOne(id int64) (*Product, error) {
	body, err := c.get(fmt.Sprintf("/products/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("sourceclient: failed to decode product %d: %w", id, err)
	}
	return &product, nil
}
