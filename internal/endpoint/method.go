package endpoint

import (
	"fmt"
	"net/http"
	"strings"
)

// Method is one of the HTTP methods an endpoint may use.
type Method string

const (
	MethodGet    = Method(http.MethodGet)
	MethodPost   = Method(http.MethodPost)
	MethodPut    = Method(http.MethodPut)
	MethodDelete = Method(http.MethodDelete)
)

// ParseMethod converts a case-insensitive method name to a [Method].
func ParseMethod(name string) (Method, error) {
	switch method := Method(strings.ToUpper(strings.TrimSpace(name))); method {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return method, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, name)
	}
}

// String implements fmt.Stringer.
func (m Method) String() string {
	return string(m)
}
