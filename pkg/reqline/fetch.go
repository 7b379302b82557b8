package reqline

import (
	"context"
	"fmt"
	"net/http"
)

// RequestInit is the fetch-style request descriptor: everything needed to
// issue the request besides its URL.
type RequestInit struct {
	Method  string            `json:"method" msgpack:"method"`
	Headers map[string]string `json:"headers" msgpack:"headers"`
}

// Init returns the fetch descriptor for r. The header map is copied.
func (r *ParsedRequest) Init() RequestInit {
	return RequestInit{
		Method:  r.Method,
		Headers: r.Clone().Headers,
	}
}

// NewHTTPRequest builds a body-less *http.Request for req.
// Header names are set verbatim, bypassing canonicalization.
func NewHTTPRequest(ctx context.Context, req *ParsedRequest) (*http.Request, error) {
	ri := req.Init()
	hr, err := http.NewRequestWithContext(ctx, ri.Method, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("reqline: build request: %w", err)
	}
	for k, v := range ri.Headers {
		hr.Header[k] = []string{v}
	}
	return hr, nil
}
