package degiro

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupEndpoint(t *testing.T) {
	testCases := []struct {
		name   EndpointName
		method string
		url    string
		params []string
	}{
		{EndpointLogin, http.MethodPost, "/login/secure/login", []string{"username", "password", "isPassCodeReset", "isRedirectToMobile"}},
		{EndpointClient, http.MethodGet, "/pa/secure/client", []string{"sessionId"}},
		{EndpointTransactions, http.MethodGet, "/reporting/secure/v4/transactions", []string{"sessionId", "intAccount", "fromDate", "toDate"}},
		{EndpointProducts, http.MethodPost, "/product_search/secure/v5/products/info?sessionId={session_id}&intAccount={account_id}", nil},
		{EndpointPortfolio, http.MethodGet, "/trading/secure/v5/update/{account_id};jsessionid={session_id}", []string{"portfolio", "totalPortfolio"}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.name), func(t *testing.T) {
			ep, ok := LookupEndpoint(tc.name)
			require.True(t, ok)
			assert.Equal(t, tc.name, ep.Name)
			assert.Equal(t, tc.method, ep.Method)
			assert.Equal(t, tc.url, ep.URL)
			assert.ElementsMatch(t, tc.params, ep.Params)
		})
	}
}

func TestLookupEndpoint_Unknown(t *testing.T) {
	_, ok := LookupEndpoint("orders")
	assert.False(t, ok)
}

func TestLookupEndpoint_ReturnsCopy(t *testing.T) {
	ep, ok := LookupEndpoint(EndpointLogin)
	require.True(t, ok)
	ep.Params[0] = "tampered"
	ep.URL = "/elsewhere"

	again, _ := LookupEndpoint(EndpointLogin)
	assert.Equal(t, "username", again.Params[0])
	assert.Equal(t, "/login/secure/login", again.URL)
}

func TestEndpoints(t *testing.T) {
	eps := Endpoints()
	require.Len(t, eps, 5)
	assert.Equal(t, EndpointLogin, eps[0].Name)
	assert.Equal(t, EndpointPortfolio, eps[4].Name)
}

func TestEndpoint_Resolve(t *testing.T) {
	products, _ := LookupEndpoint(EndpointProducts)
	assert.Equal(t,
		"https://trader.degiro.nl/product_search/secure/v5/products/info?sessionId=ABC.prod&intAccount=42",
		products.Resolve(DefaultBaseURL, "ABC.prod", 42))

	portfolio, _ := LookupEndpoint(EndpointPortfolio)
	assert.Equal(t,
		"http://localhost:8080/trading/secure/v5/update/42;jsessionid=ABC.prod",
		portfolio.Resolve("http://localhost:8080/", "ABC.prod", 42))

	client, _ := LookupEndpoint(EndpointClient)
	assert.Equal(t, "https://trader.degiro.nl/pa/secure/client", client.Resolve(DefaultBaseURL, "ABC.prod", 42))
}
