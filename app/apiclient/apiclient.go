// Package apiclient is a typed client for the cakeshop HTTP API. The CLI
// report command and the admin dashboard talk to the server through it.
package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/shashiranjanraj/cakeshop/app/models"
	"github.com/shashiranjanraj/cakeshop/app/report"
	"github.com/shashiranjanraj/cakeshop/app/services"
	"github.com/shashiranjanraj/cakeshop/pkg/auth"
	"github.com/shashiranjanraj/cakeshop/pkg/client"
)

// Client calls one cakeshop server. After Login the token is attached to
// every request.
type Client struct {
	base string
	hc   *http.Client

	mu    sync.RWMutex
	token string
}

// New returns a client for baseURL ("http://localhost:1573"). hc may be nil.
func New(baseURL string, hc *http.Client) *Client {
	return &Client{base: strings.TrimRight(baseURL, "/"), hc: hc}
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) request(ctx context.Context, method, path string) *client.Request {
	return client.New(method, c.base+path).Using(c.hc).WithContext(ctx).Bearer(c.Token())
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, in services.RegisterInput) (auth.Identity, error) {
	var id auth.Identity
	err := c.call(c.request(ctx, http.MethodPost, "/api/auth/register").Body(in), &id)
	return id, err
}

// Login signs in and keeps the returned token.
func (c *Client) Login(ctx context.Context, username, password string) (*services.LoginResult, error) {
	var res services.LoginResult
	in := services.LoginInput{Username: username, Password: password}
	if err := c.call(c.request(ctx, http.MethodPost, "/api/auth/login").Body(in), &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := c.call(c.request(ctx, http.MethodGet, "/api/products"), &out)
	return out, err
}

func (c *Client) Product(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := c.call(c.request(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id)), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct uploads a new product with its image.
func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput, image client.FilePart) (*models.Product, error) {
	image.Field = "image"
	req := c.request(ctx, http.MethodPost, "/api/products").Multipart(productFields(in), image)
	var p models.Product
	if err := c.call(req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct sends the non-nil fields of in and, when image is non-nil,
// a replacement image.
func (c *Client) UpdateProduct(ctx context.Context, id uint, in models.ProductInput, image *client.FilePart) (*models.Product, error) {
	var files []client.FilePart
	if image != nil {
		img := *image
		img.Field = "image"
		files = append(files, img)
	}
	req := c.request(ctx, http.MethodPut, fmt.Sprintf("/api/products/%d", id)).Multipart(productFields(in), files...)
	var p models.Product
	if err := c.call(req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	return c.call(c.request(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d", id)), nil)
}

// Orders fetches the full order list, newest first.
func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := c.call(c.request(ctx, http.MethodGet, "/api/orders"), &out)
	return out, err
}

func (c *Client) Order(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := c.call(c.request(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id)), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// PlaceOrder submits a checkout.
func (c *Client) PlaceOrder(ctx context.Context, in models.OrderInput) (*models.Order, error) {
	var o models.Order
	if err := c.call(c.request(ctx, http.MethodPost, "/api/orders").Body(in), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// SetOrderStatus sends one status update. It is not retried.
func (c *Client) SetOrderStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	body := map[string]string{"status": status}
	var o models.Order
	if err := c.call(c.request(ctx, http.MethodPut, fmt.Sprintf("/api/orders/%d/status", id)).Body(body), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Revenue fetches the server-side summary; month is "YYYY-MM" or "".
func (c *Client) Revenue(ctx context.Context, month string) (report.Summary, error) {
	var s report.Summary
	err := c.call(c.request(ctx, http.MethodGet, "/api/reports/revenue"+monthQuery(month)), &s)
	return s, err
}

// OrdersCSV downloads the CSV export; month is "YYYY-MM" or "".
func (c *Client) OrdersCSV(ctx context.Context, month string) ([]byte, error) {
	resp, err := c.request(ctx, http.MethodGet, "/api/reports/orders.csv"+monthQuery(month)).
		Header("Accept", "text/csv").
		Send()
	if err != nil {
		return nil, err
	}
	if err := resp.Throw(); err != nil {
		return nil, err
	}
	return resp.Raw, nil
}

func (c *Client) call(req *client.Request, dest interface{}) error {
	resp, err := req.Send()
	if err != nil {
		return err
	}
	return resp.Into(dest)
}

func monthQuery(month string) string {
	if month == "" {
		return ""
	}
	return "?" + url.Values{"month": {month}}.Encode()
}

func productFields(in models.ProductInput) map[string]string {
	fields := map[string]string{}
	set := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	set("name", in.Name)
	set("price", in.Price)
	set("description", in.Description)
	set("category", in.Category)
	set("inStock", in.InStock)
	return fields
}
