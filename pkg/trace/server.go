// Package trace implements the `trace` subcommand's long-lived debug
// surface: a msgpack request/response loop over stdin/stdout that answers
// single-word spell checks without re-spawning the CLI per query.
//
// Adapted from a completion IPC server (pkg/server/server.go in the
// original wordserve tree): the reusable decoder, the mutex-guarded
// atomic stdout write, and the read-decode-dispatch-respond loop shape all
// carry over, rebound to multiindex.MultiIndex instead of a completion
// engine.
package trace

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/csc-dev/codespell/pkg/multiindex"
)

// Request is a single word-check query.
type Request struct {
	ID   string `msgpack:"id"`
	Word string `msgpack:"word"`
}

// Response answers whether Word is recognized and, if not, an optional
// suggested correction.
type Response struct {
	ID         string `msgpack:"id"`
	Correct    bool   `msgpack:"correct"`
	Suggestion string `msgpack:"suggestion,omitempty"`
}

// ErrorResponse reports a malformed or unprocessable request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"error"`
}

// Server answers word-check requests read from stdin with msgpack-encoded
// responses written to stdout.
type Server struct {
	mi      *multiindex.MultiIndex
	decoder *msgpack.Decoder

	writeMu sync.Mutex
}

// NewServer creates a Server that checks words against mi.
func NewServer(mi *multiindex.MultiIndex) *Server {
	return &Server{
		mi:      mi,
		decoder: msgpack.NewDecoder(os.Stdin),
	}
}

// Start runs the request loop until stdin is closed: cleanly between
// requests (returns nil) or in the middle of one (returns
// io.ErrUnexpectedEOF). Any other request error is logged and the loop
// reads the next request.
func (s *Server) Start() error {
	log.Debug("trace: starting msgpack request loop")
	for {
		if err := s.handleOne(); err != nil {
			if err == io.EOF {
				log.Debug("trace: client disconnected")
				return nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return err
			}
			log.Warnf("trace: request error: %v", err)
		}
	}
}

func (s *Server) handleOne() error {
	var req Request
	if err := s.decoder.Decode(&req); err != nil {
		return err
	}

	if req.Word == "" {
		return s.send(&ErrorResponse{ID: req.ID, Error: "empty word"})
	}

	if s.mi.Contains(req.Word) {
		return s.send(&Response{ID: req.ID, Correct: true})
	}

	resp := &Response{ID: req.ID, Correct: false}
	if suggestion, ok := s.mi.Suggestion(req.Word); ok {
		resp.Suggestion = suggestion
	}
	return s.send(resp)
}

func (s *Server) send(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("trace: encoding response: %w", err)
	}
	if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("trace: writing response: %w", err)
	}
	return nil
}
