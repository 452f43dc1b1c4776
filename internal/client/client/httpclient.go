package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/lulu/internal/client/models"
	"github.com/dmitrijs2005/lulu/internal/common"
	"github.com/dmitrijs2005/lulu/internal/logging"
)

// maxErrorBody bounds how much of a failed reply is read to find "detail".
const maxErrorBody = 64 << 10

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	logger  logging.Logger

	mu          sync.Mutex
	accessToken string
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the underlying *http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// NewHTTPClient builds a client for the service rooted at serverURL.
// A missing scheme defaults to https.
func NewHTTPClient(serverURL string, opts ...Option) (*HTTPClient, error) {
	base, err := parseBaseURL(serverURL)
	if err != nil {
		return nil, err
	}

	c := &HTTPClient{
		baseURL: base,
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("module", "http_client")
	return c, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidServerURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidServerURL, raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}

// BaseURL returns the service root this client talks to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL.String()
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = u.Path + path
	u.RawQuery = query.Encode()
	return u.String()
}

// authResponse is the success body of /signup and /signin.
type authResponse struct {
	UserID      json.RawMessage `json:"user_id"`
	Username    string          `json:"username"`
	AccessToken string          `json:"access_token,omitempty"`
}

func (c *HTTPClient) SignUp(ctx context.Context, creds models.Credentials) (models.Identity, error) {
	return c.authenticate(ctx, "/signup", creds)
}

func (c *HTTPClient) SignIn(ctx context.Context, creds models.Credentials) (models.Identity, error) {
	return c.authenticate(ctx, "/signin", creds)
}

func (c *HTTPClient) authenticate(ctx context.Context, path string, creds models.Credentials) (models.Identity, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return models.Identity{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), bytes.NewReader(body))
	if err != nil {
		return models.Identity{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return models.Identity{}, err
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return models.Identity{}, c.readAPIError(ctx, path, resp)
	}

	var ar authResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	userID, err := opaqueID(ar.UserID)
	if err != nil || userID == "" || ar.Username == "" {
		return models.Identity{}, fmt.Errorf("%w: user_id and username are required", ErrMalformedReply)
	}

	if ar.AccessToken != "" {
		c.mu.Lock()
		c.accessToken = ar.AccessToken
		c.mu.Unlock()
	}

	return models.Identity{UserID: userID, Username: ar.Username}, nil
}

// opaqueID accepts a JSON string or number and returns its textual form.
func opaqueID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// Invoke sends userInput as the user_input query parameter and returns the
// reply body verbatim. A JSON string body is unquoted first.
func (c *HTTPClient) Invoke(ctx context.Context, userInput string) (string, error) {
	q := url.Values{}
	q.Set("user_input", userInput)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/invoke", q), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/plain, application/json")

	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return "", c.readAPIError(ctx, "/invoke", resp)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading reply: %v", ErrUnavailable, err)
	}
	return replyText(resp.Header.Get("Content-Type"), b), nil
}

func replyText(contentType string, body []byte) string {
	if strings.HasPrefix(contentType, "application/json") {
		var s string
		if err := json.Unmarshal(body, &s); err == nil {
			return s
		}
	}
	return string(body)
}

// Ping reports whether the service root answers with a 2xx status.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/", nil), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if !success(resp.StatusCode) {
		return &APIError{StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *HTTPClient) ForgetToken() {
	c.mu.Lock()
	c.accessToken = ""
	c.mu.Unlock()
}

// do stamps a request id and maps transport failures to ErrUnavailable.
// Context cancellation is returned unchanged.
func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Warn(req.Context(), "request failed",
			"method", req.Method, "path", req.URL.Path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.logger.Debug(req.Context(), "request settled",
		"method", req.Method, "path", req.URL.Path, "request_id", requestID,
		"status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, nil
}

// readAPIError turns a non-2xx reply into *APIError, picking up a string
// "detail" field when the body carries one.
func (c *HTTPClient) readAPIError(ctx context.Context, path string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(b, &payload); err == nil && len(payload.Detail) > 0 {
		var detail string
		if json.Unmarshal(payload.Detail, &detail) == nil {
			apiErr.Detail = detail
		}
	}

	c.logger.Warn(ctx, "server error", "status", resp.StatusCode, "path", path, "body", string(b))
	return apiErr
}

func success(status int) bool {
	return status >= 200 && status < 300
}
