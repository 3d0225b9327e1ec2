package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/invitations/handler"
	"github.com/dmitrymomot/invitations/pkg/binder"
	"github.com/dmitrymomot/invitations/pkg/clientip"
	"github.com/dmitrymomot/invitations/pkg/httpserver"
	"github.com/dmitrymomot/invitations/pkg/requestid"
	"github.com/dmitrymomot/invitations/svc/auth"
	"github.com/dmitrymomot/invitations/svc/invitation"
)

const defaultPageSize = 20

type (
	idRequest struct {
		ID string `path:"id"`
	}

	listRequest struct {
		QueryType string `query:"queryType"`
		Query     string `query:"query"`
		Position  int    `query:"position"`
		Size      *int   `query:"size"`
	}

	updateRequest struct {
		ID string `path:"id" json:"-"`
		invitation.Invitation
	}

	answerRequest struct {
		ID      string `path:"id" json:"-"`
		Comment string `json:"comment"`
	}

	dispatchAllResponse struct {
		Sent int `json:"sent"`
	}
)

type api struct {
	svc        invitation.Service
	dispatcher *invitation.Dispatcher
}

func newRouter(svc invitation.Service, dispatcher *invitation.Dispatcher, log *slog.Logger, checks ...httpserver.Check) http.Handler {
	a := &api{svc: svc, dispatcher: dispatcher}
	onError := errorHandler(log)

	path := binder.Path(chi.URLParam)
	body := binder.JSON()
	optionalBody := binder.JSON(binder.AllowEmptyBody())

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)
	r.Use(auth.Middleware(auth.PrincipalHeader))

	r.Get("/healthz", httpserver.HealthCheckHandler(log, checks...))

	r.Route("/api/invitations", func(r chi.Router) {
		r.Get("/", handler.Wrap(a.list,
			handler.WithBinders[listRequest](binder.Query()),
			handler.WithErrorHandler[listRequest](onError),
		))
		r.Post("/", handler.Wrap(a.create,
			handler.WithBinders[invitation.Invitation](body),
			handler.WithErrorHandler[invitation.Invitation](onError),
		))
		r.Post("/dispatch", handler.Wrap(a.dispatchAll,
			handler.WithErrorHandler[struct{}](onError),
		))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handler.Wrap(a.read,
				handler.WithBinders[idRequest](path),
				handler.WithErrorHandler[idRequest](onError),
			))
			r.Put("/", handler.Wrap(a.update,
				handler.WithBinders[updateRequest](path, body),
				handler.WithErrorHandler[updateRequest](onError),
			))
			r.Delete("/", handler.Wrap(a.delete,
				handler.WithBinders[idRequest](path),
				handler.WithErrorHandler[idRequest](onError),
			))
			r.Post("/register", handler.Wrap(a.register,
				handler.WithBinders[answerRequest](path, optionalBody),
				handler.WithErrorHandler[answerRequest](onError),
			))
			r.Post("/deregister", handler.Wrap(a.deregister,
				handler.WithBinders[answerRequest](path, optionalBody),
				handler.WithErrorHandler[answerRequest](onError),
			))
			r.Post("/dispatch", handler.Wrap(a.dispatchOne,
				handler.WithBinders[idRequest](path),
				handler.WithErrorHandler[idRequest](onError),
			))
			r.Get("/message", handler.Wrap(a.message,
				handler.WithBinders[idRequest](path),
				handler.WithErrorHandler[idRequest](onError),
			))
		})
	})

	return r
}

func (a *api) list(ctx handler.Context, req listRequest) handler.Response {
	size := defaultPageSize
	if req.Size != nil {
		size = *req.Size
	}
	invs, err := a.svc.List(ctx, req.QueryType, req.Query, req.Position, size)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(invs, handler.WithJSONMeta(map[string]any{
		"position": req.Position,
		"size":     size,
		"count":    len(invs),
	}))
}

func (a *api) create(ctx handler.Context, req invitation.Invitation) handler.Response {
	inv, err := a.svc.Create(ctx, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(inv, handler.WithJSONStatus(http.StatusCreated))
}

func (a *api) read(ctx handler.Context, req idRequest) handler.Response {
	inv, err := a.svc.Read(ctx, req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(inv)
}

func (a *api) update(ctx handler.Context, req updateRequest) handler.Response {
	inv, err := a.svc.Update(ctx, req.ID, req.Invitation)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(inv)
}

func (a *api) delete(ctx handler.Context, req idRequest) handler.Response {
	if err := a.svc.Delete(ctx, req.ID); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

func (a *api) register(ctx handler.Context, req answerRequest) handler.Response {
	inv, err := a.svc.Register(ctx, req.ID, req.Comment)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(inv)
}

func (a *api) deregister(ctx handler.Context, req answerRequest) handler.Response {
	inv, err := a.svc.Deregister(ctx, req.ID, req.Comment)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(inv)
}

func (a *api) dispatchOne(ctx handler.Context, req idRequest) handler.Response {
	inv, err := a.dispatcher.DispatchOne(ctx, req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(inv)
}

func (a *api) dispatchAll(ctx handler.Context, _ struct{}) handler.Response {
	sent, err := a.dispatcher.DispatchAll(ctx)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(dispatchAllResponse{Sent: sent})
}

func (a *api) message(ctx handler.Context, req idRequest) handler.Response {
	msg, err := a.dispatcher.RenderedMessage(ctx, req.ID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(msg)
}

// errorHandler translates binder and lifecycle errors into HTTP errors
// before they are logged and rendered.
func errorHandler(log *slog.Logger) handler.ErrorHandler {
	next := handler.NewErrorHandler(log)
	return func(ctx handler.Context, err error) {
		next(ctx, httpError(err))
	}
}

func httpError(err error) error {
	switch {
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return handler.ErrUnsupportedMediaType.Wrap(err)
	case errors.Is(err, binder.ErrBodyTooLarge):
		return handler.ErrRequestTooLarge.Wrap(err)
	case errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrFailedToParseQuery),
		errors.Is(err, binder.ErrFailedToParsePath):
		return handler.ErrBadRequest.Wrap(err)
	case errors.Is(err, invitation.ErrInternal):
		return handler.ErrInternalServerError.Wrap(err)
	case errors.Is(err, invitation.ErrNotFound):
		return handler.ErrNotFound.Wrap(err)
	case errors.Is(err, invitation.ErrDuplicate):
		return handler.ErrConflict.Wrap(err)
	case errors.Is(err, invitation.ErrValidation):
		return handler.ErrBadRequest.Wrap(err)
	}
	return err
}
