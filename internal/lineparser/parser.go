// Package lineparser implements the line-oriented request parser.
// It splits the input on line breaks and scans the request line and the
// header block into a Request without building any intermediate tree.
package lineparser

import (
	"fmt"
	"strings"
)

// Version is the only protocol version accepted on the request line.
const Version = "HTTP/1.1"

// Failure reasons reported in Error.Reason.
const (
	ReasonTokenCount = "expects 3 tokens"
	ReasonVersion    = "HTTP version is missing"
	ReasonColon      = "colon are mandatory in header"
)

// Request is the result of a successful parse.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
}

// Error reports malformed input at a 1-indexed line.
type Error struct {
	Line   int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Parser holds the per-call scanning state. A Parser must not be reused
// across inputs; Parse allocates a fresh one for every call.
type Parser struct {
	lines  []string
	line   int // 1-indexed line number for error reporting
	blanks int
}

// NewParser splits text into lines and returns a parser positioned on line 1.
func NewParser(text string) *Parser {
	return &Parser{
		lines: splitLines(text),
		line:  1,
	}
}

// Parse is a convenience wrapper around NewParser(text).Parse().
func Parse(text string) (*Request, error) {
	return NewParser(text).Parse()
}

// Parse scans the request line and the header block.
func (p *Parser) Parse() (*Request, error) {
	method, url, err := p.parseRequestLine()
	if err != nil {
		return nil, err
	}

	headers, err := p.parseHeaders()
	if err != nil {
		return nil, err
	}

	return &Request{
		Method:  method,
		URL:     url,
		Headers: headers,
	}, nil
}

// parseRequestLine parses "METHOD SP URL SP HTTP/1.1".
func (p *Parser) parseRequestLine() (method, url string, err error) {
	toks := strings.Split(p.lines[0], " ")
	if len(toks) != 3 {
		return "", "", p.fail(ReasonTokenCount)
	}
	if toks[2] != Version {
		return "", "", p.fail(ReasonVersion)
	}
	p.line++
	return toks[0], toks[1], nil
}

// parseHeaders reads "Key:Value" lines until the first blank line.
// Lines after that blank line are never inspected.
func (p *Parser) parseHeaders() (map[string]string, error) {
	headers := make(map[string]string)

	for _, raw := range p.lines[1:] {
		line := strings.TrimSpace(raw)
		if line == "" {
			p.line++
			p.blanks++
			if p.blanks == 1 {
				break
			}
			continue
		}

		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			return nil, p.fail(ReasonColon)
		}
		headers[parts[0]] = strings.TrimSpace(parts[1])
		p.line++
	}

	return headers, nil
}

func (p *Parser) fail(reason string) error {
	return &Error{Line: p.line, Reason: reason}
}

// splitLines splits on LF, treating a CR directly before the LF as part of
// the line break. The result always has at least one element.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
