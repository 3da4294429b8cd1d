package httpapi

import (
	"errors"
	"fmt"
	"net/url"
)

// Kind classifies the failures returned by [*Client.Execute].
type Kind string

const (
	// KindUnknownEndpoint means the key is not registered. This is a
	// programmer error and no network call was attempted.
	KindUnknownEndpoint = Kind("unknown_endpoint")

	// KindInvalidRequest means we could not build the request (e.g., the
	// body is not JSON-serializable or the base URL does not parse).
	KindInvalidRequest = Kind("invalid_request")

	// KindTransport means no HTTP response was obtained: network error,
	// timeout, cancellation or failure to read the response body.
	KindTransport = Kind("transport_failure")

	// KindHTTP means the server responded with a non-2xx status.
	KindHTTP = Kind("http_failure")

	// KindDecode means a 2xx body could not be decoded into the
	// type requested by [ExecuteJSON].
	KindDecode = Kind("decode_failure")
)

// DefaultTransportMessage is the message of transport failures that
// carry no message of their own.
const DefaultTransportMessage = "Something went wrong"

// Error is the normalized error returned by [*Client.Execute].
type Error struct {
	// Kind is the failure kind.
	Kind Kind

	// Status is the HTTP status code, zero unless Kind is
	// KindHTTP or KindDecode.
	Status int

	// Data is the decoded error body sent by the server, if any.
	Data any

	// Message is the human readable message. Never empty.
	Message string

	// Err is the OPTIONAL underlying error.
	Err error
}

// Error implements error.
func (err *Error) Error() string {
	if err.Status > 0 {
		return fmt.Sprintf("httpapi: %s (%d): %s", err.Kind, err.Status, err.Message)
	}
	return fmt.Sprintf("httpapi: %s: %s", err.Kind, err.Message)
}

// Unwrap allows to get the underlying error.
func (err *Error) Unwrap() error {
	return err.Err
}

// HasStatus returns whether the failure originated from an HTTP response.
func (err *Error) HasStatus() bool {
	return err.Status > 0
}

func newUnknownEndpointError(key string, err error) *Error {
	return &Error{
		Kind:    KindUnknownEndpoint,
		Message: "Invalid endpoint key: " + key,
		Err:     err,
	}
}

func newInvalidRequestError(err error) *Error {
	return &Error{
		Kind:    KindInvalidRequest,
		Message: err.Error(),
		Err:     err,
	}
}

func newTransportError(err error) *Error {
	message := err.Error()
	// the *url.Error message repeats the method and the URL
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		message = urlErr.Err.Error()
	}
	if message == "" {
		message = DefaultTransportMessage
	}
	return &Error{
		Kind:    KindTransport,
		Message: message,
		Err:     err,
	}
}

func newHTTPError(status int, rawBody []byte) *Error {
	data := decodeBody(rawBody)
	message := fmt.Sprintf("Request failed with status code %d", status)
	if m, ok := data.(map[string]any); ok {
		if s, ok := m["message"].(string); ok && s != "" {
			message = s
		}
	}
	return &Error{
		Kind:    KindHTTP,
		Status:  status,
		Data:    data,
		Message: message,
	}
}

func newDecodeError(status int, err error) *Error {
	return &Error{
		Kind:    KindDecode,
		Status:  status,
		Message: err.Error(),
		Err:     err,
	}
}
