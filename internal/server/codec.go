package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeMsgpack = "application/msgpack"
	contentTypeText    = "text/plain; charset=utf-8"
)

// wantsMsgpack reports whether the client asked for a msgpack response.
func wantsMsgpack(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && (mt == contentTypeMsgpack || mt == "application/x-msgpack") {
			return true
		}
	}
	return false
}

// writeValue encodes v as JSON or msgpack depending on the Accept header.
func writeValue(w http.ResponseWriter, r *http.Request, status int, v interface{}) error {
	var (
		data []byte
		ct   string
		err  error
	)
	if wantsMsgpack(r) {
		ct = contentTypeMsgpack
		data, err = msgpack.Marshal(v)
	} else {
		ct = contentTypeJSON
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(status)
	_, err = w.Write(data)
	return err
}

// readValue decodes the request body as msgpack when the Content-Type says
// so and as JSON otherwise.
func readValue(r *http.Request, body io.Reader, v interface{}) error {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == contentTypeMsgpack || mt == "application/x-msgpack" {
		if err := msgpack.NewDecoder(body).Decode(v); err != nil {
			return fmt.Errorf("decode msgpack body: %w", err)
		}
		return nil
	}
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode json body: %w", err)
	}
	return nil
}
