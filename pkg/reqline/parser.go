package reqline

import (
	"bytes"
	"fmt"
	"io"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-reqline/internal/lineparser"
	"github.com/shapestone/shape-reqline/internal/parser"
)

// Parse parses a request text block.
//
// The first line must be "METHOD URL HTTP/1.1" with single spaces. Each
// following line up to the first blank one is a "Name:Value" header; the value
// is trimmed, the name is kept as written, and a repeated name overwrites the
// earlier value. On malformed input the error is a *FormatError whose message
// reads "line N: reason".
func Parse(text string) (*ParsedRequest, error) {
	req, err := lineparser.Parse(text)
	if err != nil {
		return nil, convertError(err)
	}
	return fromInternal(req), nil
}

// ParseBytes is Parse for a byte slice.
func ParseBytes(data []byte) (*ParsedRequest, error) {
	return Parse(string(data))
}

// ParseReader reads all data from r and parses it.
// Read failures are returned wrapped and are not *FormatError values.
func ParseReader(r io.Reader) (*ParsedRequest, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data)
}

// ParseAST parses request text into a shape-core AST:
//
//	{ "method": "GET", "url": "/api",
//	  "headers": { "Host": "example.com" } }
func ParseAST(text string) (ast.SchemaNode, error) {
	node, err := parser.NewParser(text).Parse()
	if err != nil {
		return nil, convertError(err)
	}
	return node, nil
}

func readAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("reqline: read: %w", err)
	}
	return buf.Bytes(), nil
}
