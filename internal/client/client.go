// Package client is the remote access layer for the recipebook API.
//
// Every call reads the bearer token from a TokenSource, sends one HTTP
// request, and decodes the {success, message, error, data} envelope. There
// are no retries and no caching; callers decide what to do with failures.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "RecipeBook-CLI/1.0"

	// Error bodies are read for their message only.
	maxErrorBody = 64 << 10
)

// TokenSource supplies the bearer token for a request. An empty token means
// the request is sent without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client  // defaults to a client with Timeout
	Timeout    time.Duration // ignored when HTTPClient is set
	Limiter    *rate.Limiter // nil disables outbound throttling
	Tokens     TokenSource
	Logger     *slog.Logger
	Metrics    *Metrics
	UserAgent  string
}

// Client calls the recipebook API.
type Client struct {
	base      *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	tokens    TokenSource
	logger    *slog.Logger
	metrics   *Metrics
	userAgent string
}

// New creates a new Client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	return &Client{
		base:      base,
		http:      httpClient,
		limiter:   opts.Limiter,
		tokens:    opts.Tokens,
		logger:    logger,
		metrics:   opts.Metrics,
		userAgent: ua,
	}, nil
}

// call describes one API request.
type call struct {
	op     string
	method string
	path   string
	query  url.Values
	json   any   // JSON request body
	form   *form // multipart request body
	out    any   // destination for envelope data; nil ignores data
}

// envelope is the response wrapper every endpoint uses.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// do executes the call and returns the envelope message.
func (c *Client) do(ctx context.Context, cl call) (string, error) {
	start := time.Now()
	msg, err := c.doRequest(ctx, cl)
	c.metrics.observe(cl.op, err, time.Since(start))
	return msg, err
}

func (c *Client) doRequest(ctx context.Context, cl call) (string, error) {
	fail := func(status int, message string, err error) error {
		return &Error{Op: cl.op, Method: cl.method, Path: cl.path, Status: status, Message: message, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fail(0, "", fmt.Errorf("%w: rate limit wait: %w", ErrNetwork, err))
		}
	}

	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return "", fail(0, "", err)
	}

	c.logger.Debug("api request",
		"op", cl.op,
		"method", cl.method,
		"path", cl.path,
		"request_id", req.Header.Get("X-Request-ID"),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fail(0, "", fmt.Errorf("%w: %w", ErrNetwork, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var env envelope
		_ = json.Unmarshal(body, &env)
		c.logger.Debug("api error response", "op", cl.op, "status", resp.StatusCode)
		return "", fail(resp.StatusCode, env.text(), statusError(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fail(resp.StatusCode, "", fmt.Errorf("%w: read response: %w", ErrNetwork, err))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		if cl.out != nil {
			return "", fail(resp.StatusCode, "", fmt.Errorf("%w: empty body", ErrDecode))
		}
		return "", nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fail(resp.StatusCode, "", fmt.Errorf("%w: %w", ErrDecode, err))
	}
	if env.Success != nil && !*env.Success {
		return "", fail(resp.StatusCode, env.text(), ErrRejected)
	}

	if cl.out != nil {
		data := bytes.TrimSpace(env.Data)
		if len(data) == 0 || bytes.Equal(data, []byte("null")) {
			return "", fail(resp.StatusCode, "", fmt.Errorf("%w: missing data", ErrDecode))
		}
		if err := json.Unmarshal(data, cl.out); err != nil {
			return "", fail(resp.StatusCode, "", fmt.Errorf("%w: %w", ErrDecode, err))
		}
	}

	return env.Message, nil
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	u := c.base.JoinPath(cl.path)
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case cl.form != nil:
		var err error
		body, contentType, err = cl.form.encode()
		if err != nil {
			return nil, fmt.Errorf("encode form: %w", err)
		}
	case cl.json != nil:
		data, err := json.Marshal(cl.json)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// pathf builds a request path with each argument path-escaped.
func pathf(format string, args ...string) string {
	escaped := make([]any, len(args))
	for i, a := range args {
		escaped[i] = url.PathEscape(a)
	}
	return fmt.Sprintf(format, escaped...)
}
