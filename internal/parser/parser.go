// Package parser maps parsed requests onto shape-core AST nodes.
//
// A request is represented as an ObjectNode:
//
//	{ "method": "GET", "url": "/api",
//	  "headers": { "Host": "example.com", ... } }
package parser

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-reqline/internal/lineparser"
)

var zeroPos = ast.Position{}

// Parser produces AST nodes from request text.
type Parser struct {
	text string
}

// NewParser creates a new AST parser for the given input.
func NewParser(text string) *Parser {
	return &Parser{text: text}
}

// Parse parses the request and returns an AST ObjectNode.
func (p *Parser) Parse() (ast.SchemaNode, error) {
	req, err := lineparser.Parse(p.text)
	if err != nil {
		return nil, err
	}
	return RequestToNode(req), nil
}

// RequestToNode converts a lineparser.Request to an AST ObjectNode.
func RequestToNode(req *lineparser.Request) ast.SchemaNode {
	return ast.NewObjectNode(map[string]ast.SchemaNode{
		"method":  ast.NewLiteralNode(req.Method, zeroPos),
		"url":     ast.NewLiteralNode(req.URL, zeroPos),
		"headers": headersToNode(req.Headers),
	}, zeroPos)
}

func headersToNode(headers map[string]string) ast.SchemaNode {
	props := make(map[string]ast.SchemaNode, len(headers))
	for k, v := range headers {
		props[k] = ast.NewLiteralNode(v, zeroPos)
	}
	return ast.NewObjectNode(props, zeroPos)
}

// NodeToRequest converts an AST ObjectNode back to a lineparser.Request.
// A missing "headers" property yields an empty header map.
func NodeToRequest(node ast.SchemaNode) (*lineparser.Request, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, fmt.Errorf("expected ObjectNode, got %T", node)
	}

	props := obj.Properties()
	req := &lineparser.Request{Headers: map[string]string{}}

	var err error
	if req.Method, err = stringProp(props, "method"); err != nil {
		return nil, err
	}
	if req.URL, err = stringProp(props, "url"); err != nil {
		return nil, err
	}
	if v, ok := props["headers"]; ok {
		hdrs, err := nodeToHeaders(v)
		if err != nil {
			return nil, err
		}
		req.Headers = hdrs
	}

	return req, nil
}

func stringProp(props map[string]ast.SchemaNode, name string) (string, error) {
	v, ok := props[name]
	if !ok {
		return "", fmt.Errorf("missing %q property", name)
	}
	lit, ok := v.(*ast.LiteralNode)
	if !ok {
		return "", fmt.Errorf("%q is not a literal, got %T", name, v)
	}
	s, ok := lit.Value().(string)
	if !ok {
		return "", fmt.Errorf("%q is not a string, got %T", name, lit.Value())
	}
	return s, nil
}

func nodeToHeaders(node ast.SchemaNode) (map[string]string, error) {
	obj, ok := node.(*ast.ObjectNode)
	if !ok {
		return nil, fmt.Errorf("expected ObjectNode for headers, got %T", node)
	}

	props := obj.Properties()
	headers := make(map[string]string, len(props))
	for k := range props {
		v, err := stringProp(props, k)
		if err != nil {
			return nil, fmt.Errorf("header %w", err)
		}
		headers[k] = v
	}
	return headers, nil
}
