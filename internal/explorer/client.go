// Package explorer implements a client for etherscan-compatible block explorer APIs.
package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"token-rugcheck/internal/domain"
	"token-rugcheck/internal/observability"
)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.polygonscan.com/api"
	DefaultServiceName = "Polygonscan"
	DefaultTimeout     = 30 * time.Second

	statusOK = "1"
)

// Client issues GET requests against a block explorer API.
// Calls are never retried: the first failure is returned to the caller.
type Client struct {
	baseURL string
	apiKey  string
	service string
	client  *http.Client
	logger  logrus.FieldLogger
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL sets the API endpoint.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithServiceName sets the name used in error messages.
func WithServiceName(name string) ClientOption {
	return func(c *Client) {
		c.service = name
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logrus.FieldLogger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new explorer client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		service: DefaultServiceName,
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the response wrapper every explorer endpoint returns.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// Call performs a single API call and returns the raw result payload.
func (c *Client) Call(ctx context.Context, module, action, address string, extra map[string]string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("module", module)
	params.Set("action", action)
	params.Set("address", address)
	params.Set("apikey", c.apiKey)
	for k, v := range extra {
		params.Set(k, v)
	}

	start := time.Now()
	result, err := c.do(ctx, params)
	outcome := "success"
	if err != nil {
		outcome = errorOutcome(err)
	}
	observability.RecordExplorerCall(action, outcome, time.Since(start).Seconds())

	return result, err
}

func (c *Client) do(ctx context.Context, params url.Values) (json.RawMessage, error) {
	reqURL := c.baseURL + "?" + params.Encode()

	log := c.logger.WithFields(logrus.Fields{
		"module": params.Get("module"),
		"action": params.Get("action"),
	})
	log.WithField("url", redact(reqURL, c.apiKey)).Debug("explorer request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Service: c.service, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Service: c.service, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithField("status", resp.StatusCode).Warnf("explorer HTTP error: %s", truncate(string(body), 512))
		return nil, &domain.NetworkError{Service: c.service, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", c.service, err)
	}

	if env.Status != statusOK {
		upErr := &domain.UpstreamError{Service: c.service, Message: env.Message}
		var detail string
		if json.Unmarshal(env.Result, &detail) == nil {
			upErr.Detail = detail
		}
		log.WithField("message", env.Message).Warn("explorer reported an error")
		return nil, upErr
	}

	return env.Result, nil
}

// HolderEntry is one row of the token holder list endpoint.
type HolderEntry struct {
	TokenHolderAddress  string `json:"TokenHolderAddress"`
	TokenHolderQuantity string `json:"TokenHolderQuantity"`
}

// TransferEntry is one row of the token transfer endpoint.
type TransferEntry struct {
	Hash        string `json:"hash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	TimeStamp   string `json:"timeStamp"`
	BlockNumber string `json:"blockNumber"`
	Gas         string `json:"gas"`
	GasPrice    string `json:"gasPrice"`
}

// TokenHolderList returns one page of token holders.
func (c *Client) TokenHolderList(ctx context.Context, address string, page, offset int) ([]HolderEntry, error) {
	raw, err := c.Call(ctx, "token", "tokenholderlist", address, map[string]string{
		"page":   strconv.Itoa(page),
		"offset": strconv.Itoa(offset),
	})
	if err != nil {
		return nil, err
	}

	var entries []HolderEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode holder list: %w", err)
	}
	return entries, nil
}

// TokenTransfers returns one page of token transfers for a contract.
// sort is "asc" or "desc".
func (c *Client) TokenTransfers(ctx context.Context, address string, page, offset int, sort string) ([]TransferEntry, error) {
	raw, err := c.Call(ctx, "account", "tokentx", address, map[string]string{
		"page":   strconv.Itoa(page),
		"offset": strconv.Itoa(offset),
		"sort":   sort,
	})
	if err != nil {
		return nil, err
	}

	var entries []TransferEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode transfers: %w", err)
	}
	return entries, nil
}

// SourceCode returns the first entry of the verified source lookup, untouched.
// It is nil when the explorer returns an empty list.
func (c *Client) SourceCode(ctx context.Context, address string) (json.RawMessage, error) {
	raw, err := c.Call(ctx, "contract", "getsourcecode", address, nil)
	if err != nil {
		return nil, err
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode source code: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries[0], nil
}

func errorOutcome(err error) string {
	switch err.(type) {
	case *domain.NetworkError:
		return "network_error"
	case *domain.UpstreamError:
		return "upstream_error"
	default:
		return "error"
	}
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, url.QueryEscape(secret), "REDACTED")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
