package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Simplici0/printquote/internal/catalog"
	"github.com/Simplici0/printquote/internal/jobschema"
	"github.com/Simplici0/printquote/internal/quote"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

// writeJSON encodes v before committing the status, so an unencodable value
// becomes a 500 instead of a success with an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// writeError maps domain errors to status codes. Unexpected errors are logged
// and hidden behind a generic message.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *jobschema.ValidationError
	switch {
	case errors.Is(err, quote.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "quote not found"})
	case errors.As(err, &validation),
		errors.Is(err, quote.ErrInvalidStatus),
		errors.Is(err, quote.ErrUnpriceable),
		errors.Is(err, catalog.ErrUnknownFilament),
		errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.logger.Error("http.internal_error", "method", r.Method, "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", errBadRequest, err)
	}
	return body, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: invalid json: %v", errBadRequest, err)
	}
	return nil
}
