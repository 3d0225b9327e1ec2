package binder_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/invitations/pkg/binder"
)

type embedded struct {
	FirstName string `json:"firstName"`
}

type updateRequest struct {
	ID string `path:"id" json:"-"`
	embedded
	Comment string `json:"comment"`
}

func staticParams(params map[string]string) func(*http.Request, string) string {
	return func(_ *http.Request, name string) string {
		return params[name]
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	t.Run("binds only path tagged fields", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPut, "/api/invitations/abc", nil)
		extract := staticParams(map[string]string{"id": "abc", "comment": "ignored"})

		var got updateRequest
		require.NoError(t, binder.Path(extract)(req, &got))
		assert.Equal(t, "abc", got.ID)
		assert.Empty(t, got.Comment)
		assert.Empty(t, got.FirstName)
	})

	t.Run("path and json binders chain", func(t *testing.T) {
		t.Parallel()

		req := jsonRequest(`{"firstName":"Ada","comment":"hi"}`, "application/json")
		extract := staticParams(map[string]string{"id": "abc"})

		var got updateRequest
		require.NoError(t, binder.Path(extract)(req, &got))
		require.NoError(t, binder.JSON()(req, &got))
		assert.Equal(t, "abc", got.ID)
		assert.Equal(t, "Ada", got.FirstName)
		assert.Equal(t, "hi", got.Comment)
	})

	t.Run("nil extractor", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)

		var got updateRequest
		require.ErrorIs(t, binder.Path(nil)(req, &got), binder.ErrFailedToParsePath)
	})
}
