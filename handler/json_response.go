package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/invitations/pkg/validator"
)

// JSONResponse is the standard JSON response structure
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) { r.status = status }
}

// WithJSONMeta adds metadata to response
func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) { r.body.Meta = meta }
}

// JSON wraps v into the data envelope with status 200 unless overridden.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: JSONResponse{Data: v}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders err into the error envelope. The status comes from an
// HTTPError in the chain, 400 for bare validation errors, 500 otherwise.
// Server errors only expose the status text; the cause stays in the log.
func JSONError(err error, opts ...JSONOption) Response {
	status, detail := errorToDetail(err)
	r := &jsonResponse{status: status, body: JSONResponse{Error: detail}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func errorToDetail(err error) (int, *ErrorDetail) {
	status := http.StatusInternalServerError
	detail := &ErrorDetail{Code: "internal_error", Message: err.Error()}

	var valErr validator.ValidationErrors
	hasValidation := errors.As(err, &valErr) && len(valErr) > 0
	if hasValidation {
		status = http.StatusBadRequest
		detail.Code = "validation_error"
		detail.Details = make(map[string][]string, len(valErr))
		for _, field := range valErr.Fields() {
			detail.Details[field] = valErr.Get(field)
		}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if !hasValidation {
			detail.Code = httpErr.Key
		}
		if err == error(httpErr) {
			detail.Message = http.StatusText(httpErr.Code)
		}
	}

	if status >= http.StatusInternalServerError {
		detail.Message = http.StatusText(status)
	}

	return status, detail
}
