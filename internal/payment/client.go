package payment

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
	"net"
	"net/http"
	"net/url"
	"strconv"

	"tokoria-be/internal/apperr"
	"tokoria-be/internal/config"
	"tokoria-be/internal/logger"

	"go.uber.org/zap"
)

// Client talks to the hosted-checkout provider over HTTP. Every call is
// bounded by the configured timeout so a hung gateway can never block a
// checkout request indefinitely.
type Client struct {
	baseURL     string
	clientID    string
	apiKey      string
	checksumKey []byte
	http        *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:     cfg.GatewayBaseURL,
		clientID:    cfg.GatewayClientID,
		apiKey:      cfg.GatewayAPIKey,
		checksumKey: []byte(cfg.GatewayChecksumKey),
		http:        &http.Client{Timeout: cfg.GatewayTimeout},
	}
}

type apiEnvelope struct {
	Code string          `json:"code"`
	Desc string          `json:"desc"`
	Data json.RawMessage `json:"data"`
}

type sessionData struct {
	CheckoutURL string `json:"checkoutUrl"`
	OrderCode   string `json:"orderCode"`
}

func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.String("method", "CreateSession"),
		zap.String("order_code", req.OrderCode),
		zap.Int64("amount", req.Amount),
	)

	env, err := c.post(ctx, "/v2/payment-requests", req)
	if err != nil {
		log.Error("create session request failed", zap.Error(err))
		return nil, err
	}
	if env.Code != callbackCodeSuccess {
		log.Warn("gateway rejected session", zap.String("code", env.Code), zap.String("desc", env.Desc))
		return nil, fmt.Errorf("gateway rejected session: %s %s", env.Code, env.Desc)
	}

	var data sessionData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("decode session data: %w", err)
	}
	if data.CheckoutURL == "" || data.OrderCode == "" {
		return nil, errors.New("gateway returned incomplete session data")
	}

	log.Info("payment session created", zap.String("gateway_ref", data.OrderCode))

	return &Session{CheckoutURL: data.CheckoutURL, GatewayRef: data.OrderCode}, nil
}

func (c *Client) CancelSession(ctx context.Context, gatewayRef, reason string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.String("method", "CancelSession"),
		zap.String("gateway_ref", gatewayRef),
	)

	body := map[string]string{"cancellationReason": reason}
	path := "/v2/payment-requests/" + url.PathEscape(gatewayRef) + "/cancel"

	env, err := c.post(ctx, path, body)
	if err != nil {
		log.Error("cancel session request failed", zap.Error(err))
		return err
	}
	if env.Code != callbackCodeSuccess {
		return fmt.Errorf("gateway refused cancellation: %s %s", env.Code, env.Desc)
	}

	log.Info("payment session cancelled upstream")
	return nil
}

// InterpretCallback returns the payment outcome a callback reports, or
// nil for anything the reconciler should not treat as a payment event:
// invalid signature, cancellation callbacks, unknown codes.
func (c *Client) InterpretCallback(cb Callback) *PaymentInfo {
	if err := c.VerifySignature(cb); err != nil {
		return nil
	}
	if cb.Cancel || cb.Status == CallbackStatusCancelled {
		return nil
	}
	if cb.Code != callbackCodeSuccess || cb.OrderCode == "" {
		return nil
	}
	return &PaymentInfo{GatewayRef: cb.OrderCode, Status: cb.Status}
}

// VerifySignature checks the HMAC-SHA256 checksum over the callback
// parameters in key-sorted query form, as the provider signs them.
func (c *Client) VerifySignature(cb Callback) error {
	if cb.Signature == "" {
		return errors.New("missing callback signature")
	}

	expected := c.signCallback(cb)
	if !hmac.Equal([]byte(expected), []byte(cb.Signature)) {
		return errors.New("invalid callback signature")
	}
	return nil
}

func (c *Client) signCallback(cb Callback) string {
	// keys in lexical order: cancel, code, id, orderCode, status
	payload := fmt.Sprintf("cancel=%s&code=%s&id=%s&orderCode=%s&status=%s",
		strconv.FormatBool(cb.Cancel), cb.Code, cb.SessionID, cb.OrderCode, cb.Status)

	mac := hmac.New(sha256.New, c.checksumKey)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) post(ctx context.Context, path string, payload any) (*apiEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.clientID)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		if isUnavailable(err) {
			return nil, apperr.Wrap(apperr.CodeGatewayUnavailable, "payment gateway unreachable", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(body))
	}

	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	return &env, nil
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
