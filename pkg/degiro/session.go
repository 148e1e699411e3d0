package degiro

import (
	"net/http"
	"strings"
)

// ExtractSessionID reads the session id from the Set-Cookie header of a login
// response. The header looks like "JSESSIONID=ABC123.prod_b_112_3; Path=/; HttpOnly".
// It reports false when the header is missing or has no value.
func ExtractSessionID(h http.Header) (string, bool) {
	cookie := h.Get("Set-Cookie")
	if cookie == "" {
		return "", false
	}

	pair, _, _ := strings.Cut(cookie, ";")
	parts := strings.Split(pair, "=")
	if len(parts) < 2 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
