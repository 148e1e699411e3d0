package degiro

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned by Login when the response carries no usable
	// session cookie.
	ErrNoSession = errors.New("no session id in login response")

	// ErrEnvelope is returned when a response does not have the expected JSON shape.
	ErrEnvelope = errors.New("unexpected response envelope")
)

// StatusError is returned by the client operations when DeGiro answers with a
// status code other than 200, 201 or 204.
type StatusError struct {
	Endpoint   EndpointName
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Endpoint, e.StatusCode, string(e.Body))
}

// MissingParamError reports a parameter the endpoint requires that the caller did not supply.
type MissingParamError struct {
	Endpoint EndpointName
	Param    string
}

func (e *MissingParamError) Error() string {
	return fmt.Sprintf("%s: missing parameter %q", e.Endpoint, e.Param)
}

// MissingProductError reports a transaction or position whose product id is
// absent from the products response.
type MissingProductError struct {
	ProductID string
}

func (e *MissingProductError) Error() string {
	return fmt.Sprintf("product %s not found in products response", e.ProductID)
}
