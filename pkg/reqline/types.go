// Package reqline parses request-line text blocks of the form
//
//	METHOD URL HTTP/1.1
//	Name: Value
//	...
//
// into a ParsedRequest holding the method, the URL and a header map.
// Header parsing stops at the first blank line; anything after it is ignored.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple goroutines.
// Each call creates its own parser state and the returned value is owned by the caller.
//
// # Parsing APIs
//
//   - Parse/ParseBytes/ParseReader - direct parsing into a ParsedRequest
//   - ParseAST - AST-based parsing via shape-core
//   - Validate/ValidateReader - syntax check only
package reqline

import (
	"strings"

	"github.com/shapestone/shape-reqline/internal/lineparser"
)

// Version is the protocol version every request line must carry.
const Version = lineparser.Version

// ParsedRequest is the structured form of a request text block.
// Headers is never nil on a value returned by this package.
type ParsedRequest struct {
	Method  string            `json:"method" msgpack:"method"`
	URL     string            `json:"url" msgpack:"url"`
	Headers map[string]string `json:"headers" msgpack:"headers"`
}

// Get returns the value stored under name. An exact key match wins; otherwise
// the first case-insensitive match in key order is returned.
// Returns empty string if not found.
func (r *ParsedRequest) Get(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for _, k := range sortedKeys(r.Headers) {
		if strings.EqualFold(k, name) {
			return r.Headers[k]
		}
	}
	return ""
}

// Clone returns a deep copy of the request.
func (r *ParsedRequest) Clone() *ParsedRequest {
	hdrs := make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		hdrs[k] = v
	}
	return &ParsedRequest{Method: r.Method, URL: r.URL, Headers: hdrs}
}

// Equal reports whether r and o carry the same method, URL and headers.
// A nil header map equals an empty one.
func (r *ParsedRequest) Equal(o *ParsedRequest) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.Method != o.Method || r.URL != o.URL || len(r.Headers) != len(o.Headers) {
		return false
	}
	for k, v := range r.Headers {
		if ov, ok := o.Headers[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// String renders the request in its text form. Invalid requests render as
// far as possible; use Marshal to get an error instead.
func (r *ParsedRequest) String() string {
	return string(appendRequest(nil, r))
}

// Marshaler is the interface implemented by types that can render themselves
// into request text.
type Marshaler interface {
	MarshalReqline() ([]byte, error)
}

func fromInternal(req *lineparser.Request) *ParsedRequest {
	return &ParsedRequest{
		Method:  req.Method,
		URL:     req.URL,
		Headers: req.Headers,
	}
}

func toInternal(req *ParsedRequest) *lineparser.Request {
	hdrs := req.Headers
	if hdrs == nil {
		hdrs = map[string]string{}
	}
	return &lineparser.Request{
		Method:  req.Method,
		URL:     req.URL,
		Headers: hdrs,
	}
}
