package processor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/goccy/go-json"
)

// HTTPGateway nói chuyện với cổng thanh toán qua REST
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPGateway(baseURL, apiKey string, client *http.Client) *HTTPGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGateway{baseURL: baseURL, apiKey: apiKey, client: client}
}

type chargeBody struct {
	AmountCents int64  `json:"amount"`
	Currency    string `json:"currency"`
	Method      string `json:"payment_method,omitempty"`
	Description string `json:"description,omitempty"`
}

type refundBody struct {
	Charge string `json:"charge"`
}

type gatewayResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (g *HTTPGateway) post(ctx context.Context, path, idempotencyKey string, body interface{}) (*gatewayResponse, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, nil, err
	}
	var out gatewayResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, raw, fmt.Errorf("decode gateway response (%d): %w", resp.StatusCode, err)
	}
	switch {
	case resp.StatusCode == http.StatusPaymentRequired:
		return &out, raw, ErrDeclined
	case resp.StatusCode >= 300:
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil {
			msg = out.Error.Message
		}
		return &out, raw, fmt.Errorf("gateway %s: %s", path, msg)
	}
	return &out, raw, nil
}

func (g *HTTPGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	out, raw, err := g.post(ctx, "/charges", req.IdempotencyKey, chargeBody{
		AmountCents: int64(math.Round(req.Amount * 100)),
		Currency:    req.Currency,
		Method:      req.MethodRef,
		Description: req.Description,
	})
	if err != nil {
		return nil, err
	}
	return &ChargeResult{ExternalRef: out.ID, Raw: raw}, nil
}

func (g *HTTPGateway) Refund(ctx context.Context, externalRef, idempotencyKey string) (string, error) {
	out, _, err := g.post(ctx, "/refunds", idempotencyKey, refundBody{Charge: externalRef})
	if err != nil {
		return "", err
	}
	return out.ID, nil
}
