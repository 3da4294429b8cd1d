// Package httpapi dispatches requests to the franchise backend.
//
// A caller names the operation using a symbolic key registered in an
// [endpoint.Registry], and [*Client.Execute] resolves the key, builds the
// URL, attaches the stored bearer credential, encodes the body, performs
// the call and normalizes the result. All failures are [*Error].
package httpapi

//
// Calling HTTP APIs.
//

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fieldops/franchise-client/internal/endpoint"
	"github.com/fieldops/franchise-client/internal/model"
	"github.com/fieldops/franchise-client/internal/session"
	"github.com/google/uuid"
)

// DefaultTimeout is the default timeout of a call.
const DefaultTimeout = 10 * time.Second

// DefaultMaxBodySize is the maximum response body size we read.
const DefaultMaxBodySize = 1 << 22

// ErrNilRequest indicates that Execute was called with a nil [*Request].
var ErrNilRequest = errors.New("httpapi: nil request")

// Request describes a single call.
type Request struct {
	// Key is the MANDATORY endpoint key.
	Key string

	// Body is the OPTIONAL request body.
	Body Body

	// PathParam is the OPTIONAL path parameter passed to
	// parameterized URL templates.
	PathParam string

	// Query contains the OPTIONAL query parameters.
	Query map[string]any
}

// Client executes [Request]s.
//
// The zero value is invalid. Please, fill all the fields marked
// as MANDATORY. Once initialized, a Client is safe for concurrent use.
type Client struct {
	// BaseURL is the MANDATORY backend base URL.
	BaseURL string

	// Credentials is the MANDATORY store holding the bearer credential.
	Credentials model.CredentialStore

	// Diagnostics OPTIONALLY enables logging the resolved key, method
	// and URL of each request. Disable it in production builds.
	Diagnostics bool

	// HTTPClient is the OPTIONAL HTTP client. If not set, we
	// use [http.DefaultClient].
	HTTPClient model.HTTPClient

	// Logger is the OPTIONAL logger.
	Logger model.Logger

	// Metrics OPTIONALLY collects request metrics.
	Metrics *Metrics

	// Policy is the OPTIONAL session policy.
	Policy session.Policy

	// Registry is the MANDATORY endpoint registry.
	Registry *endpoint.Registry

	// Timeout is the OPTIONAL timeout for each call. If not set,
	// we use [DefaultTimeout].
	Timeout time.Duration

	// UserAgent is the OPTIONAL User-Agent header.
	UserAgent string
}

func (c *Client) logger() model.Logger {
	return model.ValidLoggerOrDefault(c.Logger)
}

func (c *Client) httpClient() model.HTTPClient {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// Execute performs the call described by req and returns the decoded
// JSON body of a 2xx response: a value as produced by [json.Unmarshal]
// into an any, the raw body as a string if it is not JSON, or nil if
// the body is empty. On failure, the error is always an [*Error].
//
// The req argument is MANDATORY: a nil req fails with a [KindInvalidRequest]
// error wrapping [ErrNilRequest]. Cancelling ctx aborts the call with a
// [KindTransport] error.
func (c *Client) Execute(ctx context.Context, req *Request) (any, error) {
	_, rawRespBody, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return decodeBody(rawRespBody), nil
}

// ExecuteJSON is like [*Client.Execute] but decodes a 2xx body into an
// Output and fails with a [KindDecode] error if that is not possible.
func ExecuteJSON[Output any](ctx context.Context, c *Client, req *Request) (Output, error) {
	var output Output
	status, rawRespBody, err := c.call(ctx, req)
	if err != nil {
		return output, err
	}
	if len(bytes.TrimSpace(rawRespBody)) <= 0 {
		return output, nil
	}
	if err := json.Unmarshal(rawRespBody, &output); err != nil {
		var zero Output
		return zero, newDecodeError(status, err)
	}
	return output, nil
}

// call is the common implementation of Execute and ExecuteJSON.
func (c *Client) call(ctx context.Context, req *Request) (int, []byte, error) {
	if req == nil {
		return 0, nil, newInvalidRequestError(ErrNilRequest)
	}
	desc, err := c.Registry.Resolve(req.Key)
	if err != nil {
		c.Metrics.begin("invalid")(string(KindUnknownEndpoint))
		return 0, nil, newUnknownEndpointError(req.Key, err)
	}
	done := c.Metrics.begin(req.Key)

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	request, err := c.newRequest(ctx, desc, req)
	if err != nil {
		done(string(KindInvalidRequest))
		return 0, nil, newInvalidRequestError(err)
	}

	status, rawRespBody, apiErr := c.docall(ctx, req.Key, request)
	if apiErr != nil {
		done(string(apiErr.Kind))
		return status, nil, apiErr
	}
	done(outcomeSuccess)
	return status, rawRespBody, nil
}

// joinURLPath appends |resourcePath| to |urlPath|.
func joinURLPath(urlPath, resourcePath string) string {
	if resourcePath == "" {
		if urlPath == "" {
			return "/"
		}
		return urlPath
	}
	if !strings.HasSuffix(urlPath, "/") {
		urlPath += "/"
	}
	resourcePath = strings.TrimPrefix(resourcePath, "/")
	return urlPath + resourcePath
}

// buildURL joins BaseURL with the descriptor path and the flattened query.
func (c *Client) buildURL(desc endpoint.Descriptor, req *Request) (*url.URL, error) {
	URL, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	ref, err := url.Parse(desc.Path(req.PathParam))
	if err != nil {
		return nil, err
	}
	basePath, baseRawPath := URL.Path, URL.EscapedPath()
	URL.Path = joinURLPath(basePath, ref.Path)
	URL.RawPath = joinURLPath(baseRawPath, ref.EscapedPath())
	URL.RawQuery = encodeQuery(req.Query) // empty means no '?'
	return URL, nil
}

// encodeBody returns the serialized body and its content type, if any.
func encodeBody(body Body) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case JSONBody:
		data, err := encodeJSON(b)
		return data, ApplicationJSON, err
	case *JSONBody:
		data, err := encodeJSON(*b)
		return data, ApplicationJSON, err
	case MultipartBody:
		return encodeMultipart(b)
	case *MultipartBody:
		return encodeMultipart(*b)
	default:
		return nil, "", fmt.Errorf("httpapi: unsupported body type: %T", body)
	}
}

// newRequest creates a new http.Request from the given |ctx|, |desc|, and |req|.
func (c *Client) newRequest(ctx context.Context, desc endpoint.Descriptor, req *Request) (*http.Request, error) {
	URL, err := c.buildURL(desc, req)
	if err != nil {
		return nil, err
	}
	rawReqBody, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}
	var reqBody io.Reader
	if rawReqBody != nil {
		reqBody = bytes.NewReader(rawReqBody)
	}
	request, err := http.NewRequestWithContext(ctx, desc.Method.String(), URL.String(), reqBody)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	request.Header.Set(model.HTTPHeaderRequestID, requestID)
	request.Header.Set(model.HTTPHeaderAccept, ApplicationJSON)
	if contentType != "" {
		request.Header.Set(model.HTTPHeaderContentType, contentType)
	}
	if c.UserAgent != "" {
		request.Header.Set(model.HTTPHeaderUserAgent, c.UserAgent)
	}
	if token, found := c.credentialOrNone(ctx); found {
		request.Header.Set(model.HTTPHeaderAuthorization, "Bearer "+token)
	}
	if c.Diagnostics {
		c.logger().Debugf("httpapi: %s %s (key=%s, id=%s, body=%d bytes)",
			desc.Method, URL.String(), req.Key, requestID, len(rawReqBody))
	}
	return request, nil
}

// credentialOrNone reads the stored credential and fails open: when the
// store cannot be read, the request proceeds unauthenticated.
func (c *Client) credentialOrNone(ctx context.Context) (string, bool) {
	if c.Credentials == nil {
		return "", false
	}
	token, found, err := c.Credentials.Get(ctx)
	if err != nil {
		c.logger().Warnf("httpapi: cannot read credential, proceeding unauthenticated: %s", err.Error())
		return "", false
	}
	return token, found
}

// docall sends |request| and returns the status and the body of a 2xx
// response or an *Error. The session policy runs for non-2xx responses.
func (c *Client) docall(ctx context.Context, key string, request *http.Request) (int, []byte, *Error) {
	response, err := c.httpClient().Do(request)
	if err != nil {
		return 0, nil, newTransportError(err)
	}
	defer response.Body.Close()
	data, err := io.ReadAll(io.LimitReader(response.Body, DefaultMaxBodySize))
	if err != nil {
		return 0, nil, newTransportError(err)
	}
	if c.Diagnostics {
		c.logger().Debugf("httpapi: key=%s status=%d body=%d bytes", key, response.StatusCode, len(data))
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		if c.Credentials != nil {
			// the response has arrived, so invalidation must not
			// depend on the caller's deadline anymore
			c.Policy.Enforce(context.WithoutCancel(ctx), c.Credentials, response.StatusCode, c.logger())
		}
		return response.StatusCode, nil, newHTTPError(response.StatusCode, data)
	}
	return response.StatusCode, data, nil
}

// decodeBody decodes a JSON body, falling back to the raw string when
// the body is not JSON and to nil when it is empty.
func decodeBody(data []byte) any {
	if len(bytes.TrimSpace(data)) <= 0 {
		return nil
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return string(data)
	}
	return value
}
