package ledger

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
)

type HTTPConfig struct {
	BaseURL                   string
	APIKey                    string
	ReceiptSecret             string
	ReceiptCallbackBaseURL    string
	SignatureToleranceSeconds int64
	HTTPTimeout               time.Duration
}

type HTTPClient struct {
	cfg    HTTPConfig
	client *http.Client
	now    func() time.Time
}

func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if cfg.SignatureToleranceSeconds <= 0 {
		cfg.SignatureToleranceSeconds = 300
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	return &HTTPClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

type transferRequest struct {
	Receiver    string           `json:"receiver"`
	Amount      decimal.Decimal  `json:"amount"`
	Kind        string           `json:"kind"`
	PaymentID   *decimal.Decimal `json:"payment_id,omitempty"`
	CallbackURL string           `json:"callback_url,omitempty"`
}

type transferResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *HTTPClient) Transfer(ctx context.Context, input *TransferInput) (*TransferOutput, error) {
	if c.cfg.BaseURL == "" || strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}

	callbackURL := joinReceiptURL(c.cfg.ReceiptCallbackBaseURL, input.ReceiptHash)
	body, err := json.Marshal(transferRequest{
		Receiver:    input.Receiver,
		Amount:      input.Amount,
		Kind:        input.Kind.String(),
		PaymentID:   input.PaymentID,
		CallbackURL: callbackURL,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/transfers", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", input.IdempotencyKey)

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var payload transferResponse
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.ID) == "" {
		return nil, errors.New("ledger transfer id missing")
	}

	return &TransferOutput{
		LedgerTransferID: strings.TrimSpace(payload.ID),
		Status:           parseStatus(payload.Status),
	}, nil
}

func (c *HTTPClient) GetTransferStatus(ctx context.Context, ledgerTransferID string) (entity.TransferStatus, error) {
	if strings.TrimSpace(ledgerTransferID) == "" {
		return entity.TransferStatusUnspecified, nil
	}
	if c.cfg.BaseURL == "" {
		return entity.TransferStatusUnspecified, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/v1/transfers/"+url.PathEscape(ledgerTransferID), nil)
	if err != nil {
		return entity.TransferStatusUnspecified, err
	}

	body, err := c.do(req)
	if err != nil {
		return entity.TransferStatusUnspecified, err
	}

	var payload transferResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return entity.TransferStatusUnspecified, err
	}
	return parseStatus(payload.Status), nil
}

func (c *HTTPClient) VerifyAndParseReceipt(_ context.Context, payload []byte, signature string) (*Receipt, error) {
	if strings.TrimSpace(c.cfg.ReceiptSecret) == "" {
		return nil, ErrNotConfigured
	}
	if !verifySignature(payload, signature, c.cfg.ReceiptSecret, c.cfg.SignatureToleranceSeconds, c.now()) {
		return nil, ErrInvalidSignature
	}

	var event struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			TransferID     string `json:"transfer_id"`
			IdempotencyKey string `json:"idempotency_key"`
			Status         string `json:"status"`
			FailureReason  string `json:"failure_reason"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}

	receipt := &Receipt{
		EventType:        event.Type,
		LedgerTransferID: strings.TrimSpace(event.Data.TransferID),
		IdempotencyKey:   strings.TrimSpace(event.Data.IdempotencyKey),
		FailureReason:    strings.TrimSpace(event.Data.FailureReason),
	}
	if s := strings.TrimSpace(event.ID); s != "" {
		receipt.EventID = &s
	}

	switch event.Type {
	case "transfer.settled":
		receipt.Status = entity.TransferStatusSettled
	case "transfer.failed":
		receipt.Status = entity.TransferStatusFailed
	default:
		receipt.Status = parseStatus(event.Data.Status)
	}

	return receipt, nil
}

func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("ledger request failed: path=%s status=%d body=%s", req.URL.Path, resp.StatusCode, string(body))
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: path=%s status=%d body=%s", ErrTransferRejected, req.URL.Path, resp.StatusCode, string(body))
	}

	return body, nil
}

func parseStatus(raw string) entity.TransferStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending", "submitted", "processing":
		return entity.TransferStatusSubmitted
	case "settled", "succeeded", "completed":
		return entity.TransferStatusSettled
	case "failed", "rejected":
		return entity.TransferStatusFailed
	default:
		return entity.TransferStatusUnspecified
	}
}

func joinReceiptURL(baseURL, hash string) string {
	baseURL = strings.TrimSpace(strings.TrimRight(baseURL, "/"))
	hash = strings.TrimSpace(hash)
	if baseURL == "" || hash == "" {
		return ""
	}
	return baseURL + "/" + hash
}

// SignReceipt builds the signature header the ledger attaches to receipts:
// "t=<unix>,v1=<hex hmac-sha256 of t.payload>".
func SignReceipt(payload []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(ts + "." + string(payload)))
	return "t=" + ts + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}

func verifySignature(payload []byte, header string, secret string, toleranceSeconds int64, now time.Time) bool {
	header = strings.TrimSpace(header)
	if header == "" || strings.TrimSpace(secret) == "" {
		return false
	}

	var ts string
	v1 := make([]string, 0, 1)
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "t=") {
			ts = strings.TrimSpace(strings.TrimPrefix(part, "t="))
		}
		if strings.HasPrefix(part, "v1=") {
			v1 = append(v1, strings.TrimSpace(strings.TrimPrefix(part, "v1=")))
		}
	}
	if ts == "" || len(v1) == 0 {
		return false
	}

	tsUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}
	if now.Unix()-tsUnix > toleranceSeconds || tsUnix-now.Unix() > toleranceSeconds {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(ts + "." + string(payload)))
	expected := mac.Sum(nil)

	for _, sig := range v1 {
		candidate, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(candidate, expected) {
			return true
		}
	}
	return false
}
