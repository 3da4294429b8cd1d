package mocks

import (
	"net/http"

	"github.com/fieldops/franchise-client/internal/model"
)

// HTTPClient allows mocking a [model.HTTPClient].
type HTTPClient struct {
	MockDo func(req *http.Request) (*http.Response, error)
}

var _ model.HTTPClient = &HTTPClient{}

// Do calls MockDo.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.MockDo(req)
}
