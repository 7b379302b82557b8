package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/shapestone/shape-reqline/pkg/reqline"
)

// BatchRequest is the body of POST /v1/parse/batch.
type BatchRequest struct {
	Inputs []string `json:"inputs" msgpack:"inputs"`
}

// BatchResult holds the outcome for one batch input; exactly one field is set.
type BatchResult struct {
	Request *reqline.ParsedRequest `json:"request,omitempty" msgpack:"request,omitempty"`
	Error   *Notification          `json:"error,omitempty" msgpack:"error,omitempty"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readText(w, r)
	if !ok {
		return
	}
	req, err := reqline.ParseBytes(text)
	if err != nil {
		s.fail(w, r, http.StatusUnprocessableEntity, danger(err.Error()))
		return
	}
	s.reply(w, r, http.StatusOK, req)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readText(w, r)
	if !ok {
		return
	}
	if err := reqline.Validate(string(text)); err != nil {
		s.fail(w, r, http.StatusUnprocessableEntity, danger(err.Error()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req reqline.ParsedRequest
	if err := readValue(r, s.limit(w, r), &req); err != nil {
		s.failDecode(w, r, err)
		return
	}
	out, err := reqline.Marshal(&req)
	if err != nil {
		s.fail(w, r, http.StatusUnprocessableEntity, danger(err.Error()))
		return
	}
	w.Header().Set("Content-Type", contentTypeText)
	_, _ = w.Write(out)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var batch BatchRequest
	if err := readValue(r, s.limit(w, r), &batch); err != nil {
		s.failDecode(w, r, err)
		return
	}
	if n := len(batch.Inputs); n > s.cfg.Batch.MaxItems {
		s.fail(w, r, http.StatusRequestEntityTooLarge,
			warning(fmt.Sprintf("batch has %d inputs, limit is %d", n, s.cfg.Batch.MaxItems)))
		return
	}

	results, err := s.parseAll(batch.Inputs)
	if err != nil {
		s.log.Error("batch submit", zap.String("id", requestIDFrom(r.Context())), zap.Error(err))
		s.fail(w, r, http.StatusServiceUnavailable, danger("worker pool unavailable"))
		return
	}
	s.reply(w, r, http.StatusOK, results)
}

// parseAll parses every input on the worker pool. Results keep input order.
func (s *Server) parseAll(inputs []string) ([]BatchResult, error) {
	results := make([]BatchResult, len(inputs))
	var wg sync.WaitGroup
	for i, in := range inputs {
		i, in := i, in
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			req, err := reqline.Parse(in)
			if err != nil {
				n := danger(err.Error())
				results[i].Error = &n
				return
			}
			results[i].Request = req
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()
	return results, nil
}

// limit caps the request body at cfg.Server.MaxBodyBytes.
func (s *Server) limit(w http.ResponseWriter, r *http.Request) io.Reader {
	return http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
}

// readText reads the raw body. An empty body is passed on as empty text.
// It writes the error response itself and reports false when the handler
// should stop.
func (s *Server) readText(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	text, err := io.ReadAll(s.limit(w, r))
	if err != nil {
		s.failDecode(w, r, err)
		return nil, false
	}
	return text, true
}

func (s *Server) failDecode(w http.ResponseWriter, r *http.Request, err error) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		s.fail(w, r, http.StatusRequestEntityTooLarge,
			warning(fmt.Sprintf("body exceeds %d bytes", mbe.Limit)))
		return
	}
	s.fail(w, r, http.StatusBadRequest, warning(err.Error()))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, n Notification) {
	s.log.Debug("rejected",
		zap.String("id", requestIDFrom(r.Context())),
		zap.Int("status", status),
		zap.Any("message", n.Message),
	)
	s.reply(w, r, status, n)
}

func (s *Server) reply(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	if err := writeValue(w, r, status, v); err != nil {
		s.log.Warn("write response", zap.String("id", requestIDFrom(r.Context())), zap.Error(err))
	}
}
