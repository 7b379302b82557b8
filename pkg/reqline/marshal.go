package reqline

import (
	"fmt"
	"sync"
)

// bufPool pools []byte slices for the marshal fast path.
var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 512)
		return &b
	},
}

// Marshal returns the text form of v.
//
// v must be a *ParsedRequest or implement Marshaler. Headers are written in
// key order, followed by the blank line that ends the header block. Requests
// that would not parse back to the same value are rejected with a *FormatError
// (Line 0): a method or URL containing a space or line break, a header name
// with a colon, a line break or leading whitespace, or a header value with a
// colon, a line break or surrounding whitespace.
func Marshal(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("reqline: Marshal(nil)")
	}

	if m, ok := v.(Marshaler); ok {
		return m.MarshalReqline()
	}

	req, ok := v.(*ParsedRequest)
	if !ok {
		return nil, fmt.Errorf("reqline: Marshal unsupported type %T (expected *ParsedRequest)", v)
	}
	if err := checkMarshalable(req); err != nil {
		return nil, err
	}

	bp := bufPool.Get().(*[]byte)
	buf := appendRequest((*bp)[:0], req)

	result := make([]byte, len(buf))
	copy(result, buf)
	*bp = buf
	bufPool.Put(bp)
	return result, nil
}

// MarshalReqline implements Marshaler.
func (r *ParsedRequest) MarshalReqline() ([]byte, error) {
	if err := checkMarshalable(r); err != nil {
		return nil, err
	}
	return appendRequest(nil, r), nil
}

// appendRequest serializes a request as "METHOD URL HTTP/1.1\n",
// the sorted headers and the terminating blank line.
func appendRequest(buf []byte, req *ParsedRequest) []byte {
	buf = appendRequestLine(buf, req.Method, req.URL)
	for _, k := range sortedKeys(req.Headers) {
		buf = appendHeader(buf, k, req.Headers[k])
	}
	return appendLF(buf)
}
