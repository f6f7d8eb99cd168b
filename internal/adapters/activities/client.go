package activities

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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"activitysignup/internal/domain"
	"activitysignup/internal/telemetry"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

const (
	opList       = "list"
	opSignup     = "signup"
	opUnregister = "unregister"
)

type httpClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	metrics *telemetry.Metrics
	tracer  trace.Tracer
}

// Option configures the activities client.
type Option func(*httpClient)

// WithHTTPClient sets the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *httpClient) {
		if c != nil {
			h.client = c
		}
	}
}

// WithTimeout bounds every request. Zero disables the per-request bound.
func WithTimeout(d time.Duration) Option {
	return func(h *httpClient) { h.timeout = d }
}

// WithMetrics records upstream call metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(h *httpClient) { h.metrics = m }
}

// NewClient returns a client for the activities server rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (domain.ActivityClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse activities base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("activities base url must be http or https: %q", baseURL)
	}
	c := &httpClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  http.DefaultClient,
		tracer:  telemetry.Tracer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// messageBody is the success and failure body of the mutation endpoints.
type messageBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

type unregisterRequest struct {
	Email string `json:"email"`
}

func (c *httpClient) ListActivities(ctx context.Context) (catalog domain.Catalog, err error) {
	ctx, finish := c.start(ctx, opList, "")
	defer func() { finish(err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/activities", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities: %w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		return nil, rejection(resp.StatusCode, body)
	}
	catalog, err = domain.DecodeCatalog(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}
	return catalog, nil
}

func (c *httpClient) Signup(ctx context.Context, activity, email string) (msg string, err error) {
	ctx, finish := c.start(ctx, opSignup, activity)
	defer func() { finish(err) }()

	target := c.baseURL + "/activities/" + url.PathEscape(activity) + "/signup?email=" + queryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.mutate(req)
}

func (c *httpClient) Unregister(ctx context.Context, activity, email string) (msg string, err error) {
	ctx, finish := c.start(ctx, opUnregister, activity)
	defer func() { finish(err) }()

	payload, err := json.Marshal(unregisterRequest{Email: email})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	target := c.baseURL + "/activities/" + url.PathEscape(activity) + "/participants"
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return c.mutate(req)
}

// mutate sends a signup or unregister request. Any body that is not a JSON
// object is ErrMalformedResponse regardless of status.
func (c *httpClient) mutate(req *http.Request) (string, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send %s %s: %w: %v", req.Method, req.URL.Path, domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w: %v", domain.ErrTransport, err)
	}
	var msg messageBody
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", fmt.Errorf("%w: status %d: %v", domain.ErrMalformedResponse, resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &domain.RejectionError{Status: resp.StatusCode, Detail: msg.Detail, Message: msg.Message}
	}
	return msg.Message, nil
}

func rejection(status int, body []byte) error {
	var msg messageBody
	_ = json.Unmarshal(body, &msg)
	return &domain.RejectionError{Status: status, Detail: msg.Detail, Message: msg.Message}
}

// start opens a span and applies the per-request timeout. The returned func
// closes both and records metrics.
func (c *httpClient) start(ctx context.Context, op, activity string) (context.Context, func(error)) {
	began := time.Now()
	ctx, span := c.tracer.Start(ctx, "activities."+op, trace.WithSpanKind(trace.SpanKindClient))
	if activity != "" {
		span.SetAttributes(attribute.String("activity.name", activity))
	}
	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func(err error) {
		cancel()
		outcome := outcomeOf(err)
		c.metrics.ObserveUpstream(op, outcome, time.Since(began))
		span.SetAttributes(attribute.String("outcome", outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeOK
	case errors.Is(err, domain.ErrTransport):
		return telemetry.OutcomeTransport
	case errors.Is(err, domain.ErrMalformedResponse):
		return telemetry.OutcomeMalformed
	default:
		if _, ok := domain.AsRejection(err); ok {
			return telemetry.OutcomeRejected
		}
		return telemetry.OutcomeTransport
	}
}

// queryEscape percent-encodes a query value, spaces as %20.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
