// Package handler turns typed request handlers into http.HandlerFunc values.
//
// A HandlerFunc receives a Context (the request context plus access to the
// request and response writer) and a request value populated by binders. It
// returns a Response that renders itself:
//
//	type registerRequest struct {
//		ID      string `path:"id"`
//		Comment string `json:"comment"`
//	}
//
//	h := func(ctx handler.Context, req registerRequest) handler.Response {
//		inv, err := svc.Register(ctx, req.ID, req.Comment)
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.JSON(inv)
//	}
//
//	r.Post("/{id}/register", handler.Wrap(h,
//		handler.WithBinders[registerRequest](binder.Path(chi.URLParam), binder.JSON()),
//	))
//
// Binding failures, rendering failures and Error responses go to the
// ErrorHandler; NewErrorHandler logs them with the request id and responds
// with the JSON error envelope.
//
// JSONError derives the status code from an HTTPError found in the error
// chain. HTTPError.Wrap attaches a cause so clients see the cause's message
// while the status stays explicit. Validation errors from pkg/validator are
// exposed per field under error.details.
package handler
