// Package statemachine provides a small finite-state-machine toolkit for
// records whose state lives in storage rather than in memory.
//
// A Graph is an immutable transition table built with functional options.
// It does not hold a current state; callers pass the state they loaded and
// receive the state an event leads to:
//
//	type status string
//	func (s status) Name() string { return string(s) }
//
//	draft, published := status("draft"), status("published")
//	publish := statemachine.StringEvent("publish")
//
//	g := statemachine.MustNewGraph(
//		statemachine.WithTransition(draft, published, publish),
//	)
//
//	next, err := g.Next(ctx, draft, publish, nil)
//	if statemachine.IsNoTransitionAvailableError(err) {
//		// event not allowed from this state
//	}
//
// Guards decide whether a transition may fire, given the data passed to Next
// or CanFire. When several transitions share a from-state and event, the
// first one whose guards pass wins.
//
// # Error Handling
//
// ErrNoTransitionAvailable means the event is not defined for the state,
// ErrTransitionRejected means every candidate was blocked by its guards.
// Use IsNoTransitionAvailableError and IsTransitionRejectedError to tell them
// apart.
package statemachine
