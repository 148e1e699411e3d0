package degiro

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Doer sends an HTTP request. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Args are the named arguments of a call. Only the names an endpoint accepts
// are sent, see FilterParams.
type Args map[string]any

// Response is the raw outcome of a call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is one DeGiro uses for success.
func (r *Response) OK() bool {
	switch r.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return true
	}
	return false
}

// FilterParams reduces args to exactly the parameters ep accepts.
// Unknown names are dropped. A name ep accepts but args lacks is a *MissingParamError.
func FilterParams(ep Endpoint, args Args) (Args, error) {
	params := make(Args, len(ep.Params))
	for _, name := range ep.Params {
		v, ok := args[name]
		if !ok {
			return nil, &MissingParamError{Endpoint: ep.Name, Param: name}
		}
		params[name] = v
	}
	return params, nil
}

// Executor performs single calls against DeGiro endpoints and logs their outcome.
// It never fails because of a status code; callers inspect the returned Response.
type Executor struct {
	log zerolog.Logger
}

// NewExecutor creates an executor that logs to log.
func NewExecutor(log zerolog.Logger) *Executor {
	return &Executor{log: log}
}

// Execute calls ep at resolvedURL with args filtered to the endpoint's parameters.
// GET parameters go to the query string, POST parameters to a JSON body.
func (e *Executor) Execute(ctx context.Context, hc Doer, ep Endpoint, resolvedURL string, args Args) (*Response, error) {
	params, err := FilterParams(ep, args)
	if err != nil {
		return nil, err
	}

	switch ep.Method {
	case http.MethodGet:
		return e.get(ctx, hc, ep, resolvedURL, params)
	case http.MethodPost:
		return e.post(ctx, hc, ep, resolvedURL, params)
	default:
		return nil, fmt.Errorf("%s: unsupported method %s", ep.Name, ep.Method)
	}
}

// ExecuteRaw POSTs payload as the JSON body, bypassing parameter filtering.
// The products endpoint takes a bare list of ids this way.
func (e *Executor) ExecuteRaw(ctx context.Context, hc Doer, ep Endpoint, resolvedURL string, payload any) (*Response, error) {
	if ep.Method != http.MethodPost {
		return nil, fmt.Errorf("%s: raw payload requires POST, endpoint uses %s", ep.Name, ep.Method)
	}
	return e.post(ctx, hc, ep, resolvedURL, payload)
}

func (e *Executor) get(ctx context.Context, hc Doer, ep Endpoint, resolvedURL string, params Args) (*Response, error) {
	u, err := url.Parse(resolvedURL)
	if err != nil {
		return nil, fmt.Errorf("%s: parsing url: %w", ep.Name, err)
	}
	q := u.Query()
	for name, v := range params {
		q.Set(name, fmt.Sprint(v))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", ep.Name, err)
	}
	return e.do(hc, ep, req, params)
}

func (e *Executor) post(ctx context.Context, hc Doer, ep Endpoint, resolvedURL string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encoding body: %w", ep.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resolvedURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", ep.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	params, _ := payload.(Args)
	return e.do(hc, ep, req, params)
}

func (e *Executor) do(hc Doer, ep Endpoint, req *http.Request, params Args) (*Response, error) {
	log := e.log.With().
		Str("request_id", uuid.NewString()).
		Str("endpoint", string(ep.Name)).
		Str("method", req.Method).
		Logger()

	// Parameter values stay out of the log, the login call carries the password.
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	log.Debug().Str("path", req.URL.Path).Strs("params", names).Msg("Performing request")

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Request failed")
		return nil, fmt.Errorf("%s: request failed: %w", ep.Name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", ep.Name, err)
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}

	log.Info().
		Int("status_code", out.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Status code")
	if !out.OK() {
		log.Error().
			Int("status_code", out.StatusCode).
			Str("response_body", string(body)).
			Msg("DeGiro returned unexpected status")
	}
	return out, nil
}
