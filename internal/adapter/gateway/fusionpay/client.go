package fusionpay

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pix-link-gateway/config"
	"pix-link-gateway/internal/core/domain"
	"pix-link-gateway/internal/core/ports"
	"pix-link-gateway/pkg/apperror"

	"github.com/rs/zerolog"
)

// maxResponseBytes caps how much of an upstream body is read. Gateway
// responses are small JSON documents.
const maxResponseBytes = 1 << 20

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.PixGateway against the FusionPay transactions API.
type Client struct {
	baseURL    string
	pixExpiry  time.Duration
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewClient creates a FusionPay gateway client.
func NewClient(cfg config.GatewayConfig, httpClient HTTPClient, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		pixExpiry:  cfg.PixExpiry,
		httpClient: httpClient,
		log:        log,
	}
}

// Wire types for the FusionPay request body.

type txRequest struct {
	Amount        int64      `json:"amount"`
	PaymentMethod string     `json:"paymentMethod"`
	Pix           pixOptions `json:"pix"`
	Items         []lineItem `json:"items"`
	Customer      customer   `json:"customer"`
}

type pixOptions struct {
	ExpiresIn int `json:"expiresIn"` // seconds
}

type lineItem struct {
	Title     string `json:"title"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	Tangible  bool   `json:"tangible"`
}

type customer struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Document document `json:"document"`
}

type document struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

// txResponse covers both response shapes FusionPay has been observed to
// return. Field order below is also the normalization precedence.
type txResponse struct {
	Pix *struct {
		QRCode         string `json:"qrcode"`
		ExpirationDate string `json:"expirationDate"`
	} `json:"pix"`
	Transaction *struct {
		Pix *struct {
			BRCode string `json:"brcode"`
		} `json:"pix"`
	} `json:"transaction"`
}

// CreatePixTransaction creates a charge and normalizes the response.
func (c *Client) CreatePixTransaction(ctx context.Context, req ports.PixChargeRequest, creds domain.ResolvedCredentials) (*domain.PixTransaction, error) {
	amountMinor := domain.MinorUnits(req.Amount)

	body := txRequest{
		Amount:        amountMinor,
		PaymentMethod: "pix",
		Pix:           pixOptions{ExpiresIn: int(c.pixExpiry.Seconds())},
		Items: []lineItem{{
			Title:     req.ItemTitle,
			UnitPrice: amountMinor,
			Quantity:  1,
			Tangible:  false,
		}},
		Customer: customer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Document: document{
				Type:   "cpf",
				Number: req.Customer.DocumentDigits(),
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("encode gateway request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transactions", bytes.NewReader(payload))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("build gateway request: %w", err))
	}
	httpReq.Header.Set("Authorization", "Basic "+basicAuth(creds))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperror.ErrGatewayRejected(0, fmt.Sprintf("transport error: %v", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperror.ErrGatewayRejected(resp.StatusCode, fmt.Sprintf("read body: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("source", string(creds.Source)).
			Msg("Gateway rejected PIX charge")
		return nil, apperror.ErrGatewayRejected(resp.StatusCode, string(respBody))
	}

	payCode, expiresAt, err := normalize(respBody)
	if err != nil {
		c.log.Error().Err(err).Msg("Gateway returned success with unusable body")
		return nil, apperror.ErrMalformedGatewayResponse(err)
	}

	return &domain.PixTransaction{
		AmountMinorUnits: amountMinor,
		Customer:         req.Customer,
		PayCode:          payCode,
		ExpiresAt:        expiresAt,
	}, nil
}

// normalize extracts the copy-paste pay code from either known response
// shape, in fixed precedence: pix.qrcode, then transaction.pix.brcode.
func normalize(body []byte) (string, *time.Time, error) {
	var resp txResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", nil, fmt.Errorf("decode gateway response: %w", err)
	}

	if resp.Pix != nil && resp.Pix.QRCode != "" {
		var expiresAt *time.Time
		if resp.Pix.ExpirationDate != "" {
			if t, err := time.Parse(time.RFC3339, resp.Pix.ExpirationDate); err == nil {
				expiresAt = &t
			}
		}
		return resp.Pix.QRCode, expiresAt, nil
	}

	if resp.Transaction != nil && resp.Transaction.Pix != nil && resp.Transaction.Pix.BRCode != "" {
		return resp.Transaction.Pix.BRCode, nil, nil
	}

	return "", nil, fmt.Errorf("no pay code in gateway response")
}

func basicAuth(creds domain.ResolvedCredentials) string {
	return base64.StdEncoding.EncodeToString([]byte(creds.SecretKey + ":" + creds.PublicKey))
}
