// Package degiro provides a thin client for the DeGiro web trader API.
//
// The client logs in with a username and password, reads the session id from
// the login cookie and uses it to fetch account data, transactions, product
// metadata and the current portfolio. Transactions and portfolio positions are
// joined with their product metadata before they are returned.
//
// The HTTP transport is owned by the caller and passed into every operation,
// usually an *http.Client with a cookie jar.
package degiro

import (
	"net/http"
	"strconv"
	"strings"
)

// DefaultBaseURL is the DeGiro web trader host.
const DefaultBaseURL = "https://trader.degiro.nl"

// EndpointName identifies one remote operation in the registry.
type EndpointName string

const (
	EndpointLogin        EndpointName = "login"
	EndpointClient       EndpointName = "client"
	EndpointTransactions EndpointName = "transactions"
	EndpointProducts     EndpointName = "products"
	EndpointPortfolio    EndpointName = "portfolio"
)

// Endpoint describes a remote operation: its HTTP method, its URL relative to
// the base host and the parameter names it accepts.
// URL may contain {session_id} and {account_id} placeholders, see Resolve.
type Endpoint struct {
	Name   EndpointName
	Method string
	URL    string
	Params []string
}

var endpoints = map[EndpointName]Endpoint{
	EndpointLogin: {
		Name:   EndpointLogin,
		Method: http.MethodPost,
		URL:    "/login/secure/login",
		Params: []string{"username", "password", "isPassCodeReset", "isRedirectToMobile"},
	},
	EndpointClient: {
		Name:   EndpointClient,
		Method: http.MethodGet,
		URL:    "/pa/secure/client",
		Params: []string{"sessionId"},
	},
	EndpointTransactions: {
		Name:   EndpointTransactions,
		Method: http.MethodGet,
		URL:    "/reporting/secure/v4/transactions",
		Params: []string{"sessionId", "intAccount", "fromDate", "toDate"},
	},
	EndpointProducts: {
		Name:   EndpointProducts,
		Method: http.MethodPost,
		URL:    "/product_search/secure/v5/products/info?sessionId={session_id}&intAccount={account_id}",
	},
	EndpointPortfolio: {
		Name:   EndpointPortfolio,
		Method: http.MethodGet,
		URL:    "/trading/secure/v5/update/{account_id};jsessionid={session_id}",
		Params: []string{"portfolio", "totalPortfolio"},
	},
}

// LookupEndpoint returns a copy of the registered endpoint with the given name.
func LookupEndpoint(name EndpointName) (Endpoint, bool) {
	ep, ok := endpoints[name]
	if !ok {
		return Endpoint{}, false
	}
	ep.Params = append([]string(nil), ep.Params...)
	return ep, true
}

// Endpoints returns copies of all registered endpoints.
func Endpoints() []Endpoint {
	names := []EndpointName{EndpointLogin, EndpointClient, EndpointTransactions, EndpointProducts, EndpointPortfolio}
	out := make([]Endpoint, 0, len(names))
	for _, name := range names {
		ep, _ := LookupEndpoint(name)
		out = append(out, ep)
	}
	return out
}

// Resolve returns the absolute URL of the endpoint on baseURL with the
// {session_id} and {account_id} placeholders filled in.
func (e Endpoint) Resolve(baseURL, sessionID string, accountID int64) string {
	r := strings.NewReplacer(
		"{session_id}", sessionID,
		"{account_id}", strconv.FormatInt(accountID, 10),
	)
	return strings.TrimRight(baseURL, "/") + r.Replace(e.URL)
}
