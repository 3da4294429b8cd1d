package model

import "net/http"

// HTTPClient is the HTTP client used to talk to the backend. The
// [*http.Client] type satisfies this interface.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	// HTTPHeaderAuthorization is the header carrying the bearer credential.
	HTTPHeaderAuthorization = "Authorization"

	// HTTPHeaderContentType is the content-type header.
	HTTPHeaderContentType = "Content-Type"

	// HTTPHeaderAccept is the accept header.
	HTTPHeaderAccept = "Accept"

	// HTTPHeaderRequestID correlates client and server logs.
	HTTPHeaderRequestID = "X-Request-Id"

	// HTTPHeaderUserAgent is the user-agent header.
	HTTPHeaderUserAgent = "User-Agent"
)
