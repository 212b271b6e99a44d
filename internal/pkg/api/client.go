// internal/pkg/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNoToken is returned when the backend accepted a login but sent no access token
var ErrNoToken = errors.New("backend response did not include an access token")

// APIError represents a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Client calls the bakery backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient constructs a backend client
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Login exchanges an identifier (phone or email) and password for an access token.
func (c *Client) Login(ctx context.Context, identifier, password string) (string, error) {
	payload := map[string]string{"identifier": identifier, "password": password}
	var resp tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", payload, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", ErrNoToken
	}
	return resp.AccessToken, nil
}

// SendOTP asks the backend to text a one-time password to the phone number.
func (c *Client) SendOTP(ctx context.Context, phoneNumber string) error {
	payload := map[string]string{"phoneNumber": phoneNumber}
	return c.doJSON(ctx, http.MethodPost, "/auth/send-otp", "", payload, nil)
}

// VerifyOTP exchanges a phone number and one-time password for an access token.
func (c *Client) VerifyOTP(ctx context.Context, phoneNumber, otp string) (string, error) {
	payload := map[string]string{"phoneNumber": phoneNumber, "otp": otp}
	var resp tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/verify-otp", "", payload, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", ErrNoToken
	}
	return resp.AccessToken, nil
}

// UserCart returns the caller's server-side cart lines.
func (c *Client) UserCart(ctx context.Context, token string) ([]CartLine, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/cart/userCart", token, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[CartLine](raw)
}

// AddToCart adds quantity units of a product to the server-side cart.
func (c *Client) AddToCart(ctx context.Context, token, productID string, quantity int) error {
	payload := map[string]any{"productId": productID, "quantity": quantity}
	return c.doJSON(ctx, http.MethodPost, "/cart/addToCart", token, payload, nil)
}

// UpdateCartLine sets the quantity of a cart line.
func (c *Client) UpdateCartLine(ctx context.Context, token, lineID string, quantity int) error {
	payload := map[string]int{"quantity": quantity}
	return c.doJSON(ctx, http.MethodPatch, "/cart/"+url.PathEscape(lineID), token, payload, nil)
}

// RemoveCartLine deletes a cart line.
func (c *Client) RemoveCartLine(ctx context.Context, token, lineID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/cart/"+url.PathEscape(lineID), token, nil, nil)
}

// ClearCart empties the caller's server-side cart.
func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodPost, "/checkout/clear-cart", token, map[string]any{}, nil)
}

// InitiatePayment starts a hosted payment and returns the URL to redirect the customer to.
func (c *Client) InitiatePayment(ctx context.Context, token, deliveryAddress, phoneNo string) (string, error) {
	payload := map[string]string{"deliveryAddress": deliveryAddress, "phoneNo": phoneNo}
	var resp paymentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/checkout/initiate-payment", token, payload, &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.Data.PaymentURL == "" {
		msg := resp.Message
		if msg == "" {
			msg = "Payment initiation failed"
		}
		return "", &APIError{Status: http.StatusOK, Message: msg}
	}
	return resp.Data.PaymentURL, nil
}

// AllProducts returns the whole catalog grouped by type.
func (c *Client) AllProducts(ctx context.Context) (ProductGroups, error) {
	var resp envelope[ProductGroups]
	if err := c.doJSON(ctx, http.MethodGet, "/product/all", "", nil, &resp); err != nil {
		return ProductGroups{}, err
	}
	return resp.Data, nil
}

// Products returns the catalog entries of one product type.
func (c *Client) Products(ctx context.Context, productType string) ([]Product, error) {
	var resp envelope[[]Product]
	if err := c.doJSON(ctx, http.MethodGet, "/product/"+url.PathEscape(productType), "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateProduct adds a catalog entry.
func (c *Client) CreateProduct(ctx context.Context, token, productType string, p Product) (Product, error) {
	var resp envelope[Product]
	if err := c.doJSON(ctx, http.MethodPost, "/product/"+url.PathEscape(productType), token, p, &resp); err != nil {
		return Product{}, err
	}
	return resp.Data, nil
}

// UpdateProduct replaces the editable fields of a catalog entry.
func (c *Client) UpdateProduct(ctx context.Context, token, productType, id string, p Product) (Product, error) {
	var resp envelope[Product]
	path := fmt.Sprintf("/product/%s/%s", url.PathEscape(productType), url.PathEscape(id))
	if err := c.doJSON(ctx, http.MethodPatch, path, token, p, &resp); err != nil {
		return Product{}, err
	}
	return resp.Data, nil
}

// DeleteProduct removes a catalog entry.
func (c *Client) DeleteProduct(ctx context.Context, token, productType, id string) error {
	path := fmt.Sprintf("/product/%s/%s", url.PathEscape(productType), url.PathEscape(id))
	return c.doJSON(ctx, http.MethodDelete, path, token, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"latency": time.Since(start),
	}).Debug("Backend request completed")

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts {"message": "..."} / {"message": [...]} / {"error": "..."}.
func errorMessage(resp *http.Response) string {
	var errResp struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &errResp); err == nil {
		var msg string
		if json.Unmarshal(errResp.Message, &msg) == nil && msg != "" {
			return msg
		}
		var msgs []string
		if json.Unmarshal(errResp.Message, &msgs) == nil && len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
		if errResp.Error != "" {
			return errResp.Error
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" && len(text) < 200 {
		return text
	}
	return resp.Status
}

// decodeList accepts either a bare JSON array or {"data": [...]}.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode list: %w", err)
		}
		return items, nil
	}
	var wrapped envelope[[]T]
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return wrapped.Data, nil
}
