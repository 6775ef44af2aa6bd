package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/beerescue/service-storefront/internal/common/domain"
	"github.com/beerescue/service-storefront/internal/metrics"
)

const maxErrorBody = 4 << 10

// StatusError is a non-2xx answer from the booking API.
type StatusError struct {
	Op     string
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

// Client talks to the external Catalog/Booking API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a Client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type request struct {
	op          string
	method      string
	path        string
	token       string
	body        io.Reader
	contentType string
}

func jsonRequest(op, method, path, token string, payload interface{}) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("%s: marshal: %w", op, err)
	}
	return request{
		op:          op,
		method:      method,
		path:        path,
		token:       token,
		body:        bytes.NewReader(data),
		contentType: "application/json",
	}, nil
}

// do sends r and returns the response body of a 2xx answer.
// Any other answer is a *StatusError; transport failures are returned wrapped.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", r.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(r.op, "error", time.Since(start).Seconds())
		c.logger.Warn("booking API unreachable", zap.String("op", r.op), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", r.op, err)
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamRequest(r.op, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		serr := &StatusError{Op: r.op, Status: resp.StatusCode, Detail: errorDetail(raw)}
		c.logger.Debug("booking API error", zap.String("op", r.op), zap.Int("status", resp.StatusCode), zap.String("detail", serr.Detail))
		return nil, serr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", r.op, err)
	}
	return body, nil
}

// errorDetail pulls "detail", "message" or "error" out of an error body.
func errorDetail(raw []byte) string {
	var body struct {
		Detail  interface{} `json:"detail"`
		Message string      `json:"message"`
		Error   string      `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}
	switch {
	case body.Detail != nil:
		if s, ok := body.Detail.(string); ok {
			return s
		}
		b, _ := json.Marshal(body.Detail)
		return string(b)
	case body.Message != "":
		return body.Message
	default:
		return body.Error
	}
}

// translate maps a client error onto the shared error taxonomy.
func translate(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	var serr *StatusError
	if !errors.As(err, &serr) {
		return domain.NewUpstreamError("booking API unavailable", err)
	}
	switch serr.Status {
	case http.StatusNotFound:
		return domain.NewNotFoundError(entity, id)
	case http.StatusConflict:
		msg := serr.Detail
		if msg == "" {
			msg = entity + " conflicts with existing state"
		}
		return domain.NewConflictError(msg)
	case http.StatusUnauthorized:
		return domain.NewUnauthorizedError("booking API rejected the session")
	case http.StatusForbidden:
		return domain.NewForbiddenError("booking API denied access")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		msg := serr.Detail
		if msg == "" {
			msg = "booking API rejected the request"
		}
		return domain.NewValidationError(msg)
	default:
		return domain.NewUpstreamError("booking API error", serr)
	}
}

func statusOf(err error) int {
	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.Status
	}
	return 0
}
