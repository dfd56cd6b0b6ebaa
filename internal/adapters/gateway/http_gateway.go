package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/jeffgoval/arena-sub003/internal/core/ports"
)

// HTTPGateway talks to the card processor's REST API. Idempotency keys are
// forwarded on every mutating call so the processor can dedupe retries.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{},
	}
}

var _ ports.PaymentGateway = (*HTTPGateway)(nil)

type authorizeRequest struct {
	CustomerID string          `json:"customerID"`
	Amount     decimal.Decimal `json:"amount"`
	CardRef    string          `json:"cardRef"`
}

type authorizeResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

type captureRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type captureResponse struct {
	Status    string          `json:"status"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

type statusResponse struct {
	Status         string          `json:"status"`
	HoldAmount     decimal.Decimal `json:"holdAmount"`
	CapturedAmount decimal.Decimal `json:"capturedAmount"`
}

func (g *HTTPGateway) Authorize(ctx context.Context, customerID string, amount decimal.Decimal, cardRef string, idempotencyKey string) (*ports.AuthorizationResult, error) {
	var resp authorizeResponse
	err := g.do(ctx, http.MethodPost, "/v1/authorizations", idempotencyKey,
		authorizeRequest{CustomerID: customerID, Amount: amount, CardRef: cardRef}, &resp)
	if err != nil {
		return nil, err
	}
	return &ports.AuthorizationResult{
		GatewayRef: resp.Reference,
		Status:     ports.GatewayStatus(resp.Status),
	}, nil
}

func (g *HTTPGateway) CapturePartial(ctx context.Context, gatewayRef string, amount decimal.Decimal, idempotencyKey string) (*ports.CaptureResult, error) {
	var resp captureResponse
	err := g.do(ctx, http.MethodPost, "/v1/authorizations/"+gatewayRef+"/capture", idempotencyKey,
		captureRequest{Amount: amount}, &resp)
	if err != nil {
		return nil, err
	}
	return &ports.CaptureResult{
		Status:    ports.GatewayStatus(resp.Status),
		NetAmount: resp.NetAmount,
	}, nil
}

func (g *HTTPGateway) Void(ctx context.Context, gatewayRef string, idempotencyKey string) (*ports.GatewayStatus, error) {
	var resp statusResponse
	err := g.do(ctx, http.MethodPost, "/v1/authorizations/"+gatewayRef+"/void", idempotencyKey, nil, &resp)
	if err != nil {
		return nil, err
	}
	status := ports.GatewayStatus(resp.Status)
	return &status, nil
}

func (g *HTTPGateway) GetStatus(ctx context.Context, gatewayRef string) (*ports.StatusResult, error) {
	var resp statusResponse
	err := g.do(ctx, http.MethodGet, "/v1/authorizations/"+gatewayRef, "", nil, &resp)
	if err != nil {
		return nil, err
	}
	return &ports.StatusResult{
		Status:         ports.GatewayStatus(resp.Status),
		HoldAmount:     resp.HoldAmount,
		CapturedAmount: resp.CapturedAmount,
	}, nil
}

func (g *HTTPGateway) do(ctx context.Context, method, path, idempotencyKey string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal gateway request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	httpResp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return fmt.Errorf("gateway returned %d: %s", httpResp.StatusCode, string(data))
	}
	return json.NewDecoder(httpResp.Body).Decode(out)
}
