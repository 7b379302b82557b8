package reqline

import (
	"context"
	"testing"
)

func TestInit(t *testing.T) {
	req := &ParsedRequest{Method: "POST", URL: "/api", Headers: map[string]string{"Content-Type": "application/json"}}
	ri := req.Init()
	if ri.Method != "POST" {
		t.Errorf("Method = %q, want POST", ri.Method)
	}
	if ri.Headers["Content-Type"] != "application/json" {
		t.Errorf("Headers = %v", ri.Headers)
	}
	ri.Headers["Content-Type"] = "text/plain"
	if req.Headers["Content-Type"] != "application/json" {
		t.Error("Init shares the header map with the request")
	}
}

func TestNewHTTPRequest(t *testing.T) {
	req, err := Parse("GET https://example.com/a?b=c HTTP/1.1\nx-lower: 1\nAccept: text/html\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	hr, err := NewHTTPRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("NewHTTPRequest() error = %v", err)
	}
	if hr.Method != "GET" {
		t.Errorf("Method = %q, want GET", hr.Method)
	}
	if hr.URL.Host != "example.com" || hr.URL.RawQuery != "b=c" {
		t.Errorf("URL = %v", hr.URL)
	}
	if got := hr.Header["x-lower"]; len(got) != 1 || got[0] != "1" {
		t.Errorf("Header[x-lower] = %v, want [1]", got)
	}
	if hr.Header.Get("Accept") != "text/html" {
		t.Errorf("Accept = %q", hr.Header.Get("Accept"))
	}
	if hr.Body != nil {
		t.Error("Body should be nil")
	}
}

func TestNewHTTPRequest_BadMethod(t *testing.T) {
	req := &ParsedRequest{Method: "BAD(METHOD", URL: "/", Headers: map[string]string{}}
	if _, err := NewHTTPRequest(context.Background(), req); err == nil {
		t.Error("expected error for invalid method token")
	}
}
