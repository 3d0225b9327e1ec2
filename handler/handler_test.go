package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/invitations/handler"
)

type echoRequest struct {
	Name string
}

func bindHeader(r *http.Request, v any) error {
	req := v.(*echoRequest)
	req.Name = r.Header.Get("X-Name")
	if req.Name == "" {
		return handler.ErrBadRequest
	}
	return nil
}

func TestWrap(t *testing.T) {
	t.Parallel()

	echo := func(ctx handler.Context, req echoRequest) handler.Response {
		return handler.JSON(map[string]string{"name": req.Name, "path": ctx.Request().URL.Path})
	}

	t.Run("binds and renders", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(echo, handler.WithBinders[echoRequest](bindHeader))

		req := httptest.NewRequest(http.MethodGet, "/echo", nil)
		req.Header.Set("X-Name", "ada")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ada", body.Data["name"])
		assert.Equal(t, "/echo", body.Data["path"])
	})

	t.Run("binder error goes to error handler", func(t *testing.T) {
		t.Parallel()

		var got error
		h := handler.Wrap(echo,
			handler.WithBinders[echoRequest](bindHeader),
			handler.WithErrorHandler[echoRequest](func(ctx handler.Context, err error) {
				got = err
				ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
			}),
		)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/echo", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.ErrorIs(t, got, handler.ErrBadRequest)
	})

	t.Run("default error handler renders json", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(echo, handler.WithBinders[echoRequest](bindHeader))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/echo", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"bad_request"`)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		var got error
		h := handler.Wrap(
			func(handler.Context, echoRequest) handler.Response { return nil },
			handler.WithErrorHandler[echoRequest](func(_ handler.Context, err error) { got = err }),
		)
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.ErrorIs(t, got, handler.ErrNilResponse)
	})

	t.Run("error response goes to error handler", func(t *testing.T) {
		t.Parallel()

		h := handler.Wrap(func(handler.Context, echoRequest) handler.Response {
			return handler.Error(handler.ErrConflict.Wrap(errors.New("exists already")))
		})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "exists already")
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()

		var order []string
		mark := func(name string) handler.Decorator[echoRequest] {
			return func(next handler.HandlerFunc[echoRequest]) handler.HandlerFunc[echoRequest] {
				return func(ctx handler.Context, req echoRequest) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}

		h := handler.Wrap(
			func(handler.Context, echoRequest) handler.Response { return handler.Empty() },
			handler.WithDecorators(mark("outer"), mark("inner")),
		)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, []string{"outer", "inner"}, order)
	})
}

func TestEmptyWithStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, handler.EmptyWithStatus(http.StatusAccepted).Render(rec, httptest.NewRequest(http.MethodPost, "/", nil)))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestContext_DelegatesToRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", strings.NewReader(""))
	ctx := handler.NewContext(httptest.NewRecorder(), req)

	assert.Same(t, req, ctx.Request())
	assert.NoError(t, ctx.Err())
	assert.Nil(t, ctx.Value("missing"))
	_, ok := ctx.Deadline()
	assert.False(t, ok)
}
