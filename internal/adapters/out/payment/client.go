// Package payment implements the PaymentProcessor port as an HTTP client
// against the external payment provider. Transient failures are retried with
// bounded exponential backoff; a definitive provider refusal is never retried.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"returns/internal/core/domain/model/kernel"
	"returns/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultMaxElapsed     = 30 * time.Second
)

// Client is an HTTP payment processor client.
//
// Error classification drives everything downstream: a 4xx answer means the
// provider made a decision (ErrProcessorRejected, terminal), while network
// failures, timeouts, and 5xx answers mean the outcome is unknown
// (ErrProcessorTimeout after retries are exhausted). Callers must never treat
// ErrProcessorTimeout as a terminal outcome.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxElapsed time.Duration
}

// NewClient creates a payment processor client for the given provider URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		maxElapsed: defaultMaxElapsed,
	}
}

type chargeRequest struct {
	OrderID  string `json:"order_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type chargeResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

// Charge captures the order total from the customer's payment method.
func (c *Client) Charge(ctx context.Context, orderID kernel.UUID, amount kernel.Money) (ports.ChargeResult, error) {
	payload := chargeRequest{
		OrderID:  orderID.String(),
		Amount:   amount.RoundToCent().String(),
		Currency: "USD",
	}

	var resp chargeResponse
	if err := c.post(ctx, "/v1/charges", "", payload, &resp); err != nil {
		return ports.ChargeResult{}, err
	}

	return ports.ChargeResult{PaymentIntentID: resp.PaymentIntentID}, nil
}

type refundRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
	Amount          string `json:"amount"`
}

type refundResponse struct {
	RefundID string `json:"refund_id"`
}

// SubmitRefund asks the provider to return amount against the original
// charge. The idempotency key travels in the Idempotency-Key header so that a
// resubmission after a timeout cannot double-refund.
func (c *Client) SubmitRefund(
	ctx context.Context,
	paymentIntentID string,
	amount kernel.Money,
	idempotencyKey string,
) (ports.RefundSubmission, error) {
	payload := refundRequest{
		PaymentIntentID: paymentIntentID,
		Amount:          amount.RoundToCent().String(),
	}

	var resp refundResponse
	if err := c.post(ctx, "/v1/refunds", idempotencyKey, payload, &resp); err != nil {
		return ports.RefundSubmission{}, err
	}

	return ports.RefundSubmission{ProcessorRefundID: resp.RefundID}, nil
}

type refundStatusResponse struct {
	Status string `json:"status"`
}

// RefundStatus polls the provider for the state of a submitted refund.
func (c *Client) RefundStatus(ctx context.Context, processorRefundID string) (ports.RefundState, error) {
	var resp refundStatusResponse
	if err := c.get(ctx, "/v1/refunds/"+processorRefundID, &resp); err != nil {
		return ports.RefundStateUnknown, err
	}

	switch resp.Status {
	case "pending", "processing":
		return ports.RefundStatePending, nil
	case "succeeded":
		return ports.RefundStateSucceeded, nil
	case "failed", "canceled":
		return ports.RefundStateFailed, nil
	default:
		return ports.RefundStateUnknown, fmt.Errorf("%w: unrecognized refund status %q",
			ports.ErrProcessorTimeout, resp.Status)
	}
}

func (c *Client) post(ctx context.Context, path, idempotencyKey string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	operation := func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if reqErr != nil {
			return backoff.Permanent(reqErr)
		}
		req.Header.Set("Content-Type", "application/json")
		if idempotencyKey != "" {
			req.Header.Set("Idempotency-Key", idempotencyKey)
		}

		return c.do(req, out)
	}

	return c.retry(ctx, operation)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	operation := func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if reqErr != nil {
			return backoff.Permanent(reqErr)
		}

		return c.do(req, out)
	}

	return c.retry(ctx, operation)
}

// do executes one attempt and classifies the answer. 4xx is the provider
// deciding (permanent), everything else is retryable.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return json.NewDecoder(resp.Body).Decode(out)
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return backoff.Permanent(fmt.Errorf("%w: status %d: %s",
			ports.ErrProcessorRejected, resp.StatusCode, detail))
	default:
		return fmt.Errorf("processor answered status %d", resp.StatusCode)
	}
}

func (c *Client) retry(ctx context.Context, operation func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = c.maxElapsed

	err := backoff.Retry(operation, backoff.WithContext(policy, ctx))
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrProcessorRejected) {
		return err
	}

	return fmt.Errorf("%w: %w", ports.ErrProcessorTimeout, err)
}
