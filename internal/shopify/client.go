// Package shopify talks to the Storefront GraphQL API. It is the only place
// that issues network calls for carts.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

const (
	defaultAPIVersion    = "2024-01"
	defaultTimeout       = 10 * time.Second
	defaultRetryInterval = 200 * time.Millisecond

	accessTokenHeader = "X-Shopify-Storefront-Access-Token"

	// maxErrorBody bounds how much of a non-JSON error body ends up in a message.
	maxErrorBody = 512
)

var ErrNoCartID = port.ErrNoCartID

type Config struct {
	// StoreDomain is either a bare host or a base URL with scheme.
	StoreDomain string
	AccessToken string
	APIVersion  string
	Timeout     time.Duration

	// ReadRetries is how many extra attempts GetCart gets on transient
	// failures. Zero disables retrying. Writes are never retried.
	ReadRetries   uint
	RetryInterval time.Duration

	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Client struct {
	httpClient    *http.Client
	endpoint      string
	accessToken   string
	readRetries   uint
	retryInterval time.Duration
	logger        *zap.Logger
}

// Error carries the backend's own message text.
type Error struct {
	StatusCode int
	Messages   []string
}

func (e *Error) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("shopify request failed with status %d", e.StatusCode)
	}
	return strings.Join(e.Messages, "; ")
}

// Transient reports whether retrying the same request may succeed.
func (e *Error) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

func New(cfg Config) (*Client, error) {
	domain := strings.TrimSpace(cfg.StoreDomain)
	if domain == "" {
		return nil, fmt.Errorf("store domain is empty")
	}
	if !strings.Contains(domain, "://") {
		domain = "https://" + domain
	}

	version := cfg.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	retryInterval := cfg.RetryInterval
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient:    httpClient,
		endpoint:      strings.TrimSuffix(domain, "/") + "/api/" + version + "/graphql.json",
		accessToken:   cfg.AccessToken,
		readRetries:   cfg.ReadRetries,
		retryInterval: retryInterval,
		logger:        logger,
	}, nil
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

func execute[T any](ctx context.Context, c *Client, operation, query string, variables map[string]any) (T, error) {
	var zero T
	start := time.Now()

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return zero, fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return zero, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set(accessTokenHeader, c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("shopify request failed", zap.String("operation", operation), zap.Error(err))
		return zero, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("io.ReadAll: %w", err)
	}

	c.logger.Debug("shopify request",
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	var parsed GraphQLResponse[T]
	decodeErr := json.Unmarshal(respBody, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, statusError(resp.StatusCode, respBody, parsed.Errors, decodeErr)
	}
	if decodeErr != nil {
		return zero, fmt.Errorf("json.Unmarshal: %w", decodeErr)
	}
	if len(parsed.Errors) > 0 {
		return zero, &Error{StatusCode: resp.StatusCode, Messages: graphQLMessages(parsed.Errors)}
	}

	return parsed.Data, nil
}

func statusError(code int, body []byte, gqlErrors []GraphQLError, decodeErr error) *Error {
	if decodeErr == nil && len(gqlErrors) > 0 {
		return &Error{StatusCode: code, Messages: graphQLMessages(gqlErrors)}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	if text == "" {
		text = http.StatusText(code)
	}

	return &Error{StatusCode: code, Messages: []string{text}}
}

func graphQLMessages(errs []GraphQLError) []string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Message)
	}
	return messages
}

func userErrorsToError(errs []UserError) error {
	if len(errs) == 0 {
		return nil
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Message)
	}

	return &Error{StatusCode: http.StatusOK, Messages: messages}
}
