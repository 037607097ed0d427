package recordapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"velore/models"
)

// ErrRemoteUnavailable covers every way the record API can fail: transport
// errors and non-2xx responses alike. The store has no schema enforcement
// and no auth, so there is nothing finer-grained worth distinguishing.
var ErrRemoteUnavailable = errors.New("record API unavailable")

// Client talks to the mock REST record store (json-server semantics).
type Client struct {
	baseURL string
	httpc   *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 5 * time.Second},
	}
}

// StoredOrder is an Order as the record store returns it, with whatever id
// the store assigned. The id type is the store's business, not ours.
type StoredOrder struct {
	ID any `json:"id,omitempty"`
	models.Order
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	// any 2xx counts as success, anything else as failure
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s -> %s", ErrRemoteUnavailable, method, path, resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode: %v", ErrRemoteUnavailable, err)
		}
	}
	return nil
}

// CreateOrder POSTs a finalized order. Best-effort: the caller's durability
// lives in local persistence.
func (c *Client) CreateOrder(ctx context.Context, order models.Order) error {
	return c.do(ctx, http.MethodPost, "/orders", order, nil)
}

// ListOrders returns every order the store holds.
func (c *Client) ListOrders(ctx context.Context) ([]StoredOrder, error) {
	var out []StoredOrder
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PatchOrderStatus updates only the status field of a stored order.
func (c *Client) PatchOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	payload := map[string]models.OrderStatus{"status": status}
	return c.do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(id), payload, nil)
}

// ListProducts returns the store's product records.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct fetches one product record.
func (c *Client) GetProduct(ctx context.Context, id int) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &out)
	return out, err
}

// CreateProduct stores a new product record.
func (c *Client) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodPost, "/products", p, &out)
	return out, err
}

// UpdateProduct replaces a product record.
func (c *Client) UpdateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", p.ID), p, &out)
	return out, err
}

// DeleteProduct removes a product record.
func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

// FindUser looks a user up by the store's query-param filter. A missing
// match is (nil, nil); only transport-level failure is an error.
func (c *Client) FindUser(ctx context.Context, email, password string) (*models.RecordUser, error) {
	q := url.Values{}
	q.Set("email", email)
	q.Set("password", password)

	var out []models.RecordUser
	if err := c.do(ctx, http.MethodGet, "/users?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}
