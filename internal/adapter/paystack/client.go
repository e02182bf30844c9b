package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/usecase"
)

// Client talks to the Paystack transaction API. All amounts cross this
// boundary in kobo, exactly as Paystack expects them.
type Client struct {
	baseURL string
	secret  string
	hc      *http.Client
	timeout time.Duration
}

func NewClient(baseURL, secret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		hc:      &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

type initializePayload struct {
	Email       string                  `json:"email"`
	Amount      int64                   `json:"amount"`
	Currency    string                  `json:"currency"`
	CallbackURL string                  `json:"callback_url"`
	Metadata    usecase.PaymentMetadata `json:"metadata"`
}

// envelope is Paystack's uniform response wrapper.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status    string          `json:"status"`
	Reference string          `json:"reference"`
	Amount    int64           `json:"amount"`
	Metadata  json.RawMessage `json:"metadata"`
}

func (c *Client) Initialize(ctx context.Context, req usecase.PaymentRequest) (*usecase.PaymentSession, error) {
	payload := initializePayload{
		Email:       req.Email,
		Amount:      req.AmountKobo,
		Currency:    req.Currency,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	}
	data, err := c.do(ctx, http.MethodPost, "/transaction/initialize", payload)
	if err != nil {
		return nil, err
	}
	var d initializeData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, domain.WrapError(err, domain.EPAYMENT, "payment provider sent an unreadable response")
	}
	return &usecase.PaymentSession{
		AuthorizationURL: d.AuthorizationURL,
		Reference:        d.Reference,
	}, nil
}

func (c *Client) Verify(ctx context.Context, reference string) (*usecase.PaymentVerification, error) {
	data, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	var d verifyData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, domain.WrapError(err, domain.EPAYMENT, "payment provider sent an unreadable response")
	}
	v := &usecase.PaymentVerification{
		Reference:  d.Reference,
		Paid:       d.Status == "success",
		AmountKobo: d.Amount,
	}
	// Paystack echoes metadata back as "" when a transaction carried none.
	if len(d.Metadata) > 0 && d.Metadata[0] == '{' {
		_ = json.Unmarshal(d.Metadata, &v.Metadata)
	}
	return v, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, domain.WrapError(err, domain.EINTERNAL, "could not encode payment request")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, "could not build payment request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, domain.WrapError(err, domain.EPAYMENT, "payment provider unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.WrapError(err, domain.EPAYMENT, "payment provider sent an unreadable response")
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, domain.WrapError(err, domain.EPAYMENT, "payment provider sent an unreadable response")
	}
	if resp.StatusCode >= 400 || !env.Status {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("payment provider returned %d", resp.StatusCode)
		}
		return nil, domain.Errorf(domain.EPAYMENT, "%s", msg)
	}
	return env.Data, nil
}

var _ usecase.PaymentGateway = (*Client)(nil)
