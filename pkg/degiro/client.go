package degiro

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DateLayout is the date format DeGiro expects in query parameters (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// FormatDate formats t for the transactions endpoint.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Record is a transaction or portfolio position as returned by DeGiro, with
// its product metadata joined in under the "product" key.
type Record map[string]any

// Products maps a product id to the product info DeGiro returns for it.
type Products map[string]any

// Client for the DeGiro web trader API.
// It holds the credentials and no mutable state, so it is safe for concurrent use.
type Client struct {
	username string
	password string
	baseURL  string
	log      zerolog.Logger
	exec     *Executor
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different host, mostly useful in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// New creates a client for the given credentials.
func New(username, password string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		username: username,
		password: password,
		baseURL:  DefaultBaseURL,
		log:      log.With().Str("client", "degiro").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.exec = NewExecutor(c.log)
	return c
}

// BaseURL returns the host the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login authenticates and returns the session id to pass to every other call.
// It returns ErrNoSession when the response has no session cookie.
func (c *Client) Login(ctx context.Context, hc Doer) (string, error) {
	ep := mustEndpoint(EndpointLogin)
	resp, err := c.exec.Execute(ctx, hc, ep, ep.Resolve(c.baseURL, "", 0), Args{
		"username":           c.username,
		"password":           c.password,
		"isPassCodeReset":    false,
		"isRedirectToMobile": false,
	})
	if err != nil {
		return "", err
	}
	if err := checkStatus(ep, resp); err != nil {
		return "", err
	}

	sessionID, ok := ExtractSessionID(resp.Header)
	if !ok {
		c.log.Info().Msg("Could not find session id in login response header")
		return "", ErrNoSession
	}
	return sessionID, nil
}

// AccountData fetches the client info of the logged in user and returns the
// account id (intAccount) together with the full client payload.
func (c *Client) AccountData(ctx context.Context, hc Doer, sessionID string) (int64, Record, error) {
	ep := mustEndpoint(EndpointClient)
	resp, err := c.exec.Execute(ctx, hc, ep, ep.Resolve(c.baseURL, sessionID, 0), Args{
		"sessionId": sessionID,
	})
	if err != nil {
		return 0, nil, err
	}
	if err := checkStatus(ep, resp); err != nil {
		return 0, nil, err
	}

	data, err := unwrapObject(resp.Body, dataPath)
	if err != nil {
		return 0, nil, fmt.Errorf("account data: %w", err)
	}

	raw, ok := data["intAccount"]
	if !ok {
		return 0, nil, fmt.Errorf("account data: %w: no intAccount", ErrEnvelope)
	}
	accountID, err := int64Value(raw)
	if err != nil {
		return 0, nil, fmt.Errorf("account data: parsing intAccount: %w", err)
	}
	return accountID, Record(data), nil
}

func mustEndpoint(name EndpointName) Endpoint {
	ep, ok := LookupEndpoint(name)
	if !ok {
		panic("degiro: unknown endpoint " + string(name))
	}
	return ep
}

func checkStatus(ep Endpoint, resp *Response) error {
	if resp.OK() {
		return nil
	}
	return &StatusError{
		Endpoint:   ep.Name,
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
	}
}
