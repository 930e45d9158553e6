package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"

	"github.com/zephyrtronium/calc"
)

// maxBodyBytes limits the size of a calculation request body.
const maxBodyBytes = 64 << 10

// invalidExpression is the message for every rejected calculation.
const invalidExpression = "Invalid expression provided"

// CalcRequest is the body of POST /calc.
type CalcRequest struct {
	Expression *string `json:"expression"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

func (s *Server) handleCalc(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	lggr := requestLogger(r, s.lggr)

	req, err := decodeCalcRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		lggr.Debugw("Rejected request body", "err", err)
		writeError(w, http.StatusBadRequest, invalidExpression)
		return
	}
	if req.Expression == nil {
		lggr.Debugw("Rejected request body", "err", "missing expression")
		writeError(w, http.StatusBadRequest, invalidExpression)
		return
	}

	result, err := calc.Eval(*req.Expression, calc.Validation(s.opts.Validation))
	if err != nil {
		lggr.Debugw("Rejected expression", "expression", *req.Expression, "err", err)
		writeError(w, http.StatusBadRequest, invalidExpression)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// decodeCalcRequest decodes exactly one JSON object from body.
func decodeCalcRequest(body io.Reader) (CalcRequest, error) {
	var req CalcRequest
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		return req, errors.Wrap(err, "decoding request")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return req, errors.New("trailing data after request object")
	}
	return req, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Cannot "+r.Method+" "+r.URL.Path)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Cannot "+r.Method+" "+r.URL.Path)
}

func (s *Server) handlePanic(w http.ResponseWriter, r *http.Request, v any) {
	requestLogger(r, s.lggr).Errorw("Handler panicked", "panic", v)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// writeError writes the structured error body for status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Message:    msg,
		Error:      http.StatusText(status),
	})
}

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		// Only non-finite floats fail here, and evaluation rejects those.
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(b)
}
