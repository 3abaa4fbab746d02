package myq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Doer sends an HTTP request and returns its response. *http.Client
// satisfies it; cancellation and timeouts are entirely the Doer's concern.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a myQ API session.
//
// A Client moves through four states: unauthenticated, authenticated
// (after Login), account-resolved (after the first call that needs the
// account ID) and devices-cached (after GetDevices). Login from any state
// returns it to authenticated, discarding the account ID and device cache.
//
// Field access is synchronized, but operations are not: two concurrent
// calls may both resolve the account ID, and Login must not run
// concurrently with other operations on the same Client.
type Client struct {
	authBaseURL   string
	deviceBaseURL string
	httpClient    Doer
	headers       map[string]string
	logger        *slog.Logger
	newRequestID  func() string

	mu            sync.RWMutex
	securityToken string
	accountID     string
	devices       []Device
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURLs sets custom base URLs for the authentication and device APIs.
func WithBaseURLs(authBaseURL, deviceBaseURL string) Option {
	return func(c *Client) {
		c.authBaseURL = authBaseURL
		c.deviceBaseURL = deviceBaseURL
	}
}

// WithHTTPClient sets a custom transport, typically an *http.Client.
func WithHTTPClient(client Doer) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP request timeout.
// It only applies when the transport is an *http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if hc, ok := c.httpClient.(*http.Client); ok {
			hc.Timeout = timeout
		}
	}
}

// WithApplicationID overrides the MyQApplicationId header.
func WithApplicationID(id string) Option {
	return withHeader(HeaderApplicationID, id)
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return withHeader(HeaderUserAgent, userAgent)
}

// WithCulture overrides the Culture header.
func WithCulture(culture string) Option {
	return withHeader(HeaderCulture, culture)
}

// WithBrandID overrides the BrandId header.
func WithBrandID(brandID string) Option {
	return withHeader(HeaderBrandID, brandID)
}

func withHeader(name, value string) Option {
	return func(c *Client) {
		c.headers[name] = value
	}
}

// WithRequestIDGenerator sets the function used to tag each service
// request in log records. Defaults to random UUIDs.
func WithRequestIDGenerator(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.newRequestID = fn
		}
	}
}

// NewClient creates an unauthenticated client. Call Login before any
// other operation.
func NewClient(opts ...Option) *Client {
	c := &Client{
		authBaseURL:   DefaultAuthBaseURL,
		deviceBaseURL: DefaultDeviceBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		headers: map[string]string{
			HeaderContentType:   "application/json",
			HeaderApplicationID: DefaultApplicationID,
			HeaderUserAgent:     DefaultUserAgent,
			HeaderAPIVersion:    DefaultAPIVersion,
			HeaderBrandID:       DefaultBrandID,
			HeaderCulture:       DefaultCulture,
		},
		newRequestID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ServiceRequest describes one request to the myQ service.
type ServiceRequest struct {
	Method  string
	BaseURL string
	Path    string
	// Headers override the client's default headers by name, compared
	// case-insensitively. An empty value removes the header.
	Headers map[string]string
	Query   url.Values
	// Body is encoded as JSON when non-nil.
	Body any
}

// ServiceResponse is a response received from the myQ service.
type ServiceResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do executes a service request and returns the response.
//
// The session token is sent in the SecurityToken header by default. If no
// token is held, Do fails with CodeLoginRequired unless req.Headers names
// SecurityToken explicitly (an empty value sends no token). Any response
// outside the 2xx range is classified into an *Error.
//
// Do is exposed for requests this package has no first-class support for.
func (c *Client) Do(ctx context.Context, req *ServiceRequest) (*ServiceResponse, error) {
	if req == nil {
		return nil, newError(CodeInvalidArgument, "Request parameter is not specified.")
	}

	header := c.composeHeaders(req.Headers)
	if header == nil {
		return nil, newError(CodeLoginRequired, "Not logged in. Please call Login() first.")
	}

	httpReq, err := c.newHTTPRequest(ctx, req, header)
	if err != nil {
		return nil, classifyServiceError(serviceFailure{Err: err})
	}

	requestID := c.newRequestID()
	c.logRequest(ctx, requestID, req.Method, req.Path)
	start := time.Now()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logResponse(ctx, requestID, req.Method, req.Path, 0, time.Since(start), err)
		return nil, classifyServiceError(serviceFailure{Sent: true, Err: fmt.Errorf("request failed: %w", err)})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	serviceResp := &ServiceResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}
	c.logResponse(ctx, requestID, req.Method, req.Path, resp.StatusCode, time.Since(start), err)
	if err != nil {
		return nil, classifyServiceError(serviceFailure{
			Response: serviceResp,
			Sent:     true,
			Err:      fmt.Errorf("failed to read response body: %w", err),
		})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyServiceError(serviceFailure{
			Response: serviceResp,
			Sent:     true,
			Err:      fmt.Errorf("status %d (body: %s)", resp.StatusCode, truncatePreview(body)),
		})
	}

	return serviceResp, nil
}

// composeHeaders merges defaults, the session token and overrides.
// Returns nil when a token is required but none is held.
func (c *Client) composeHeaders(overrides map[string]string) http.Header {
	header := make(http.Header, len(c.headers)+1)
	for name, value := range c.headers {
		header.Set(name, value)
	}

	explicitToken := false
	for name := range overrides {
		if http.CanonicalHeaderKey(name) == http.CanonicalHeaderKey(HeaderSecurityToken) {
			explicitToken = true
		}
	}
	if !explicitToken {
		token := c.SecurityToken()
		if token == "" {
			return nil
		}
		header.Set(HeaderSecurityToken, token)
	}

	for name, value := range overrides {
		header.Set(name, value)
	}
	for name, values := range header {
		if len(values) == 0 || values[0] == "" {
			header.Del(name)
		}
	}
	if _, ok := header[HeaderUserAgent]; !ok {
		// net/http substitutes its own User-Agent unless the key is present.
		header[HeaderUserAgent] = []string{""}
	}
	return header
}

func (c *Client) newHTTPRequest(ctx context.Context, req *ServiceRequest, header http.Header) (*http.Request, error) {
	u, err := url.Parse(req.BaseURL + req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse request URL: %w", err)
	}
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var reqBody io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header = header
	return httpReq, nil
}

// SecurityToken returns the current session token, or "" before Login.
func (c *Client) SecurityToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.securityToken
}

// AccountID returns the resolved account ID, or "" if it has not been
// resolved since the last Login.
func (c *Client) AccountID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accountID
}

// CachedDevices returns a copy of the devices from the last successful
// GetDevices call since Login.
func (c *Client) CachedDevices() []Device {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneDevices(c.devices)
}
