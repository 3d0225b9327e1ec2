package statemachine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/invitations/pkg/statemachine"
)

type status string

func (s status) Name() string { return string(s) }

var (
	idle    = status("idle")
	running = status("running")
	stopped = status("stopped")

	start = statemachine.StringEvent("start")
	stop  = statemachine.StringEvent("stop")
	pause = statemachine.StringEvent("pause")
)

func TestGraph_Next(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	g := statemachine.MustNewGraph(
		statemachine.WithTransition(idle, running, start),
		statemachine.WithTransition(running, stopped, stop),
	)

	t.Run("valid transition", func(t *testing.T) {
		t.Parallel()
		next, err := g.Next(ctx, idle, start, nil)
		require.NoError(t, err)
		assert.Equal(t, running, next)
	})

	t.Run("undefined event", func(t *testing.T) {
		t.Parallel()
		next, err := g.Next(ctx, idle, pause, nil)
		require.Error(t, err)
		assert.True(t, statemachine.IsNoTransitionAvailableError(err))
		assert.Equal(t, idle, next)
	})

	t.Run("undefined from state", func(t *testing.T) {
		t.Parallel()
		_, err := g.Next(ctx, stopped, start, nil)
		assert.True(t, statemachine.IsNoTransitionAvailableError(err))
	})

	t.Run("nil arguments", func(t *testing.T) {
		t.Parallel()
		_, err := g.Next(ctx, nil, start, nil)
		assert.ErrorIs(t, err, statemachine.ErrInvalidState)

		_, err = g.Next(ctx, idle, nil, nil)
		assert.ErrorIs(t, err, statemachine.ErrInvalidEvent)
	})
}

func TestGraph_Guards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	allowed := func(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
		ok, _ := data.(bool)
		return ok
	}

	g := statemachine.MustNewGraph(
		statemachine.WithTransition(idle, running, start, statemachine.WithGuard(allowed)),
		statemachine.WithTransition(idle, stopped, start),
	)

	t.Run("first passing transition wins", func(t *testing.T) {
		next, err := g.Next(ctx, idle, start, true)
		require.NoError(t, err)
		assert.Equal(t, running, next)
	})

	t.Run("falls through to next candidate", func(t *testing.T) {
		next, err := g.Next(ctx, idle, start, false)
		require.NoError(t, err)
		assert.Equal(t, stopped, next)
	})

	t.Run("all guards reject", func(t *testing.T) {
		only := statemachine.MustNewGraph(
			statemachine.WithTransition(idle, running, start, statemachine.WithGuard(allowed)),
		)
		_, err := only.Next(ctx, idle, start, false)
		assert.True(t, statemachine.IsTransitionRejectedError(err))
		assert.False(t, only.CanFire(ctx, idle, start, false))
		assert.True(t, only.CanFire(ctx, idle, start, true))
	})
}

func TestGraph_Reachable(t *testing.T) {
	t.Parallel()

	g := statemachine.MustNewGraph(
		statemachine.WithTransition(idle, running, start),
		statemachine.WithTransition(running, stopped, stop),
	)

	assert.True(t, g.Reachable(idle, running))
	assert.True(t, g.Reachable(running, stopped))
	assert.False(t, g.Reachable(idle, stopped))
	assert.False(t, g.Reachable(stopped, idle))
	assert.False(t, g.Reachable(nil, idle))
}

func TestNewGraph_InvalidDefinition(t *testing.T) {
	t.Parallel()

	_, err := statemachine.NewGraph(statemachine.WithTransition(idle, nil, start))
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)

	assert.Panics(t, func() {
		statemachine.MustNewGraph(statemachine.WithTransition(nil, running, start))
	})
}
