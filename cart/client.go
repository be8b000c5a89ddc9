package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/thanwa/qr-table-order/apperr"
	"github.com/thanwa/qr-table-order/models"
)

// Client submits orders to the backend over HTTP. Transport failures come
// back as network errors with the cart untouched, so the caller can retry.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type orderEnvelope struct {
	Status  bool          `json:"status"`
	Message string        `json:"message"`
	Data    *models.Order `json:"data"`
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, apperr.Network("order submission failed", err)
	}
	defer resp.Body.Close()

	// Classify on the status code first; a non-JSON error body (empty
	// response, proxy error page) must not mask the real rejection kind.
	if resp.StatusCode != http.StatusCreated {
		message := fmt.Sprintf("server rejected order (%d)", resp.StatusCode)
		var envelope orderEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
			message = envelope.Message
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return nil, apperr.NotFound("%s", message)
		case http.StatusBadRequest:
			return nil, apperr.Validation("%s", message)
		case http.StatusForbidden:
			return nil, apperr.InvalidSession("%s", message)
		default:
			return nil, apperr.Network(message, nil)
		}
	}

	var envelope orderEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, apperr.Network("order submission failed", err)
	}
	if envelope.Data == nil {
		return nil, apperr.Network("server returned no order", nil)
	}
	return envelope.Data, nil
}
