// Package degirotest provides an in-process fake of the DeGiro web trader API
// for tests. It serves the login, client, transactions, products and portfolio
// endpoints from a Fixture and records every request it receives.
package degirotest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Fixture is the account state the fake server answers from.
type Fixture struct {
	Username  string
	Password  string
	SessionID string
	AccountID int64

	// Client is the data payload of the client endpoint. intAccount is added
	// from AccountID when missing.
	Client map[string]any

	// Transactions are returned as-is under the data envelope.
	Transactions []map[string]any

	// Positions are raw portfolio entries, each with a "value" list of
	// {name, value} pairs.
	Positions []map[string]any

	// Products maps a product id to its info blob.
	Products map[string]any
}

// DefaultFixture returns a small account with two transactions, one open and
// one closed position and the products they refer to.
func DefaultFixture() Fixture {
	return Fixture{
		Username:  "jdoe",
		Password:  "secret",
		SessionID: "C8D2F3E1A9.prod_b_112_2",
		AccountID: 1234567,
		Client: map[string]any{
			"id":           9876543,
			"clientRole":   "basic",
			"username":     "jdoe",
			"email":        "jdoe@example.com",
			"contractType": "PRIVATE",
		},
		Transactions: []map[string]any{
			{"id": 1001, "productId": 331868, "date": "2020-01-15T09:05:12+01:00", "buysell": "B", "price": 70.2, "quantity": 10, "total": -702.0},
			{"id": 1002, "productId": 4824932, "date": "2020-01-20T14:31:40+01:00", "buysell": "S", "price": 12.5, "quantity": 4, "total": 50.0},
		},
		Positions: []map[string]any{
			{"id": "331868", "positionType": "PRODUCT", "isAdded": true, "value": []any{
				map[string]any{"name": "id", "value": "331868", "isAdded": true},
				map[string]any{"name": "positionType", "value": "PRODUCT", "isAdded": true},
				map[string]any{"name": "size", "value": 10, "isAdded": true},
				map[string]any{"name": "price", "value": 71.8, "isAdded": true},
				map[string]any{"name": "value", "value": 718.0, "isAdded": true},
				map[string]any{"name": "plBase", "isAdded": true},
			}},
			{"id": "4824932", "positionType": "PRODUCT", "isAdded": true, "value": []any{
				map[string]any{"name": "id", "value": "4824932", "isAdded": true},
				map[string]any{"name": "positionType", "value": "PRODUCT", "isAdded": true},
				map[string]any{"name": "size", "value": 0, "isAdded": true},
				map[string]any{"name": "price", "value": 12.9, "isAdded": true},
			}},
		},
		Products: map[string]any{
			"331868":  map[string]any{"id": "331868", "name": "Apple Inc", "isin": "US0378331005", "symbol": "AAPL", "currency": "USD", "productType": "STOCK"},
			"4824932": map[string]any{"id": "4824932", "name": "Vanguard FTSE All-World UCITS ETF", "isin": "IE00B3RBWM25", "symbol": "VWRL", "currency": "EUR", "productType": "ETF"},
		},
	}
}

// Request is a request as the fake server received it.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Server is a running fake DeGiro API.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	fixture  Fixture
	requests []Request
}

// NewServer starts a fake server answering from fx. Call Close when done.
func NewServer(fx Fixture) *Server {
	s := &Server{fixture: fx}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Post("/login/secure/login", s.handleLogin)
	r.Get("/pa/secure/client", s.handleClient)
	r.Get("/reporting/secure/v4/transactions", s.handleTransactions)
	r.Post("/product_search/secure/v5/products/info", s.handleProducts)
	r.Get("/trading/secure/v5/update/{target}", s.handlePortfolio)

	s.Server = httptest.NewServer(r)
	return s
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the requests received on path.
func (s *Server) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// SetProducts replaces the product info the server answers with.
func (s *Server) SetProducts(products map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixture.Products = products
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) snapshot() Fixture {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fixture
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	fx := s.snapshot()

	var body struct {
		Username           string `json:"username"`
		Password           string `json:"password"`
		IsPassCodeReset    *bool  `json:"isPassCodeReset"`
		IsRedirectToMobile *bool  `json:"isRedirectToMobile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 3, "statusText": "badRequest"})
		return
	}
	if body.IsPassCodeReset == nil || body.IsRedirectToMobile == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 3, "statusText": "badRequest"})
		return
	}
	if body.Username != fx.Username || body.Password != fx.Password {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 3, "statusText": "badCredentials"})
		return
	}

	w.Header().Set("Set-Cookie", "JSESSIONID="+fx.SessionID+"; Path=/; HttpOnly")
	writeJSON(w, http.StatusOK, map[string]any{
		"isPassCodeEnabled": false,
		"locale":            "en_GB",
		"redirectUrl":       "https://trader.degiro.nl/trader/",
		"sessionId":         fx.SessionID,
		"status":            0,
		"statusText":        "success",
	})
}

func (s *Server) handleClient(w http.ResponseWriter, r *http.Request) {
	fx := s.snapshot()
	if r.URL.Query().Get("sessionId") != fx.SessionID {
		unauthorized(w)
		return
	}

	data := make(map[string]any, len(fx.Client)+1)
	for k, v := range fx.Client {
		data[k] = v
	}
	if _, ok := data["intAccount"]; !ok {
		data["intAccount"] = fx.AccountID
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	fx := s.snapshot()
	q := r.URL.Query()
	if q.Get("sessionId") != fx.SessionID {
		unauthorized(w)
		return
	}
	if q.Get("intAccount") != strconv.FormatInt(fx.AccountID, 10) || q.Get("fromDate") == "" || q.Get("toDate") == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []any{map[string]any{"text": "missing parameters"}}})
		return
	}

	data := fx.Transactions
	if data == nil {
		data = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	fx := s.snapshot()
	q := r.URL.Query()
	if q.Get("sessionId") != fx.SessionID {
		unauthorized(w)
		return
	}
	if q.Get("intAccount") != strconv.FormatInt(fx.AccountID, 10) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []any{map[string]any{"text": "unknown account"}}})
		return
	}

	var ids []json.Number
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []any{map[string]any{"text": "body must be a list of ids"}}})
		return
	}

	data := make(map[string]any, len(ids))
	for _, id := range ids {
		if info, ok := fx.Products[id.String()]; ok {
			data[id.String()] = info
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	fx := s.snapshot()

	account, session, ok := strings.Cut(chi.URLParam(r, "target"), ";jsessionid=")
	if !ok || session != fx.SessionID {
		unauthorized(w)
		return
	}
	if account != strconv.FormatInt(fx.AccountID, 10) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []any{map[string]any{"text": "unknown account"}}})
		return
	}

	positions := fx.Positions
	if positions == nil {
		positions = []map[string]any{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"portfolio": map[string]any{
			"name":  "portfolio",
			"value": positions,
		},
	})
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]any{"errors": []any{map[string]any{"text": "unauthorized"}}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
