package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hnguyen/teamboard/internal/auth"
)

// Client is the HTTP client for the dashboard backend. It handles
// bearer-token authentication, JSON marshaling, retry with exponential
// backoff on transient failures, and advisory signal broadcasting.
type Client struct {
	baseURL     string
	tokens      auth.Store
	events      *Broadcaster
	httpClient  *http.Client
	maxRetries  int
	backoffBase time.Duration
}

// NewClient creates a backend client. The baseURL should be the root
// URL of the backend (e.g. https://board.corp.example.com). The token
// store supplies the bearer credential for every request and is
// cleared when the backend answers 401.
func NewClient(baseURL string, tokens auth.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		events:  NewBroadcaster(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries:  3,
		backoffBase: time.Second,
	}
}

// SetTimeout overrides the per-request HTTP timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// Events returns the advisory signal broadcaster. Subscribers receive
// unauthorized / server-unavailable / network-unavailable events.
func (c *Client) Events() *Broadcaster {
	return c.events
}

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(
	ctx context.Context,
	path string,
	query url.Values,
	result interface{},
) error {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decodeResult(body, result)
}

// Post performs an HTTP POST request with a JSON body. POST is never
// retried: creates are not idempotent.
func (c *Client) Post(
	ctx context.Context,
	path string,
	body interface{},
	result interface{},
) error {
	respBody, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return decodeResult(respBody, result)
}

// Patch performs an HTTP PATCH request with a JSON body.
func (c *Client) Patch(
	ctx context.Context,
	path string,
	body interface{},
	result interface{},
) error {
	respBody, err := c.do(ctx, http.MethodPatch, path, nil, body)
	if err != nil {
		return err
	}
	return decodeResult(respBody, result)
}

// Put performs an HTTP PUT request with a JSON body.
func (c *Client) Put(
	ctx context.Context,
	path string,
	body interface{},
	result interface{},
) error {
	respBody, err := c.do(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return err
	}
	return decodeResult(respBody, result)
}

// Delete performs an HTTP DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// FetchCollection retrieves a paginated collection and normalizes the
// response shape. A 404 is treated as an authoritative empty result,
// not an error: blanking a dashboard widget over an empty collection
// is worse than showing it empty.
func FetchCollection[T any](
	ctx context.Context,
	c *Client,
	path string,
	query url.Values,
) (Page[T], error) {
	reqPage, reqLimit := requestedPaging(query)

	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if errors.Is(err, ErrNotFound) {
		return EmptyPage[T](reqPage, reqLimit), nil
	}
	if err != nil {
		return Page[T]{}, err
	}

	page, err := decodePage[T](body, reqPage, reqLimit)
	if err != nil {
		return Page[T]{}, fmt.Errorf("decoding collection %s: %w", path, err)
	}
	return page, nil
}

// do is the core HTTP method. It builds the request, attaches auth,
// applies the retry policy, and classifies failures.
//
// Retry policy: network failures and 5xx responses are retried up to
// maxRetries times with exponential backoff (1s, 2s, 4s), but only for
// idempotent methods. POST and non-5xx client errors are never retried.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body interface{},
) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		payload = data
	}

	retryable := method != http.MethodPost
	resource := resourceFromPath(path)

	var lastErr error
	for attempt := 0; ; attempt++ {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		// An expired token is never attached; the backend's 401 then
		// runs the normal credential-discard path.
		if tok, err := c.tokens.Get(); err == nil && tok.Valid(time.Now()) {
			req.Header.Set("Authorization", "Bearer "+tok.Raw)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = &NetworkError{URL: fullURL, Err: err}
			if retryable && attempt < c.maxRetries {
				if waitErr := c.backoff(ctx, attempt); waitErr != nil {
					return nil, waitErr
				}
				continue
			}
			c.events.Publish(SignalNetworkUnavailable, resource, lastErr)
			return nil, lastErr
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode >= 500 {
			lastErr = &ServerError{
				Status:  resp.StatusCode,
				Message: errorMessage(respBody),
			}
			if retryable && attempt < c.maxRetries {
				if waitErr := c.backoff(ctx, attempt); waitErr != nil {
					return nil, waitErr
				}
				continue
			}
			c.events.Publish(SignalServerUnavailable, resource, lastErr)
			return nil, lastErr
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return respBody, nil
		}

		return nil, c.classifyClientError(resp.StatusCode, respBody, resource)
	}
}

// classifyClientError maps a 4xx response to the error taxonomy. A 401
// additionally discards the stored credential and broadcasts exactly
// one unauthorized event, even when several in-flight requests hit the
// 401 at once: only the request that actually removed the token emits.
func (c *Client) classifyClientError(
	status int,
	body []byte,
	resource string,
) error {
	switch status {
	case http.StatusUnauthorized:
		unauthorized := &UnauthorizedError{Message: errorMessage(body)}
		cleared, err := c.tokens.Clear()
		if err == nil && cleared {
			c.events.Publish(SignalUnauthorized, resource, unauthorized)
		}
		return unauthorized

	case http.StatusForbidden:
		return &ForbiddenError{Message: errorMessage(body)}

	case http.StatusNotFound:
		return ErrNotFound

	default:
		fields := errorFields(body)
		if len(fields) > 0 {
			return &ValidationError{
				Status:  status,
				Message: errorMessage(body),
				Fields:  fields,
			}
		}
		return fmt.Errorf(
			"unexpected status %d: %s", status, errorMessage(body),
		)
	}
}

// backoff waits before the next retry attempt, doubling each time
// (base, 2*base, 4*base). Returns early if the context is canceled.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	wait := c.backoffBase * time.Duration(1<<uint(attempt))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

// errorMessage extracts a human-readable message from an error body,
// falling back to the raw body.
func errorMessage(body []byte) string {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
	}
	return strings.TrimSpace(string(body))
}

// errorFields extracts structured field errors from an error body.
func errorFields(body []byte) map[string]string {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		return eb.Errors
	}
	return nil
}

// decodeResult unmarshals a response body into result, tolerating
// empty bodies (204s) and nil results.
func decodeResult(body []byte, result interface{}) error {
	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshaling response: %w", err)
	}
	return nil
}

// requestedPaging reads the page/limit the caller asked for, so that
// responses missing pagination fields can still be normalized.
func requestedPaging(query url.Values) (page, limit int) {
	page = 1
	if v, err := strconv.Atoi(query.Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(query.Get("limit")); err == nil && v > 0 {
		limit = v
	}
	return page, limit
}

// resourceFromPath extracts the resource name from an API path,
// e.g. "/api/tasks/42" -> "tasks".
func resourceFromPath(path string) string {
	trimmed := strings.TrimPrefix(path, "/api/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return trimmed
}
