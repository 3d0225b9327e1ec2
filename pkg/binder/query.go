package binder

import "net/http"

// Query creates a query parameter binder.
//
// Fields use `query:"name"` tags; `query:"-"` skips a field and untagged
// fields bind to their lowercased name. Basic types, slices and pointers
// are supported.
//
//	type listRequest struct {
//		QueryType string `query:"queryType"`
//		Position  int    `query:"position"`
//		Size      *int   `query:"size"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}
