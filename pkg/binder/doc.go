// Package binder populates request structs from HTTP requests.
//
// Three binders are provided, each reading only its own struct tags so they
// can be chained on one request type:
//
//   - JSON() decodes a strict application/json body (unknown fields and
//     trailing data are rejected, bodies are capped at 1MB by default).
//   - Query() reads URL query parameters from `query:"..."` tags.
//   - Path(extractor) reads router path parameters from `path:"..."` tags.
//
//	type updateRequest struct {
//		ID string `path:"id" json:"-"`
//		invitation.Invitation
//	}
//
//	handler.WithBinders[updateRequest](binder.Path(chi.URLParam), binder.JSON())
//
// All failures wrap one of the package's sentinel errors so transports can
// map them to 4xx responses with errors.Is.
package binder
