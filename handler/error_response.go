package handler

import "net/http"

type errorResponse struct {
	err error
}

// Render hands the error back to Wrap so the configured ErrorHandler logs
// and renders it.
func (e errorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.err
}

// Error returns a Response that fails with err. A nil err is reported as
// ErrNilResponse.
func Error(err error) Response {
	if err == nil {
		err = ErrNilResponse
	}
	return errorResponse{err: err}
}
