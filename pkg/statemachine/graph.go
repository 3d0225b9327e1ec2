package statemachine

import (
	"context"
	"fmt"
)

// Graph is an immutable transition table. It holds no current state: callers
// keep the state next to their own records and ask the graph where an event
// leads. Safe for concurrent use once built.
// Lookups go through a nested map: [fromState][event][]Transition.
type Graph struct {
	transitions map[string]map[string][]Transition
}

// NewGraph builds a graph from the given options.
func NewGraph(opts ...Option) (*Graph, error) {
	g := &Graph{transitions: make(map[string]map[string][]Transition)}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// MustNewGraph is like NewGraph but panics on an invalid definition.
// Intended for package-level graphs built at init time.
func MustNewGraph(opts ...Option) *Graph {
	g, err := NewGraph(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to build state graph: %v", err))
	}
	return g
}

func (g *Graph) add(from, to State, event Event, guards []Guard) error {
	if from == nil || to == nil || event == nil {
		return ErrInvalidTransition
	}

	fromStateName := from.Name()
	if _, ok := g.transitions[fromStateName]; !ok {
		g.transitions[fromStateName] = make(map[string][]Transition)
	}

	// Multiple transitions allowed for same from/event to support guard-based branching
	g.transitions[fromStateName][event.Name()] = append(g.transitions[fromStateName][event.Name()], Transition{
		From:   from,
		To:     to,
		Event:  event,
		Guards: guards,
	})
	return nil
}

// Next fires event from the given state and returns the target state.
// The first transition whose guards all pass wins.
func (g *Graph) Next(ctx context.Context, from State, event Event, data any) (State, error) {
	if from == nil {
		return nil, ErrInvalidState
	}
	if event == nil {
		return from, ErrInvalidEvent
	}

	transitions := g.transitions[from.Name()][event.Name()]
	if len(transitions) == 0 {
		return from, NewErrNoTransitionAvailable(from.Name(), event.Name())
	}

	t := firstPassing(ctx, transitions, from, event, data)
	if t == nil {
		return from, NewErrTransitionRejected(from.Name(), event.Name())
	}

	return t.To, nil
}

// CanFire reports whether event is accepted from the given state.
func (g *Graph) CanFire(ctx context.Context, from State, event Event, data any) bool {
	if from == nil || event == nil {
		return false
	}
	return firstPassing(ctx, g.transitions[from.Name()][event.Name()], from, event, data) != nil
}

// Reachable reports whether a single transition leads from one state to the
// other, ignoring guards.
func (g *Graph) Reachable(from, to State) bool {
	if from == nil || to == nil {
		return false
	}
	for _, transitions := range g.transitions[from.Name()] {
		for _, t := range transitions {
			if t.To.Name() == to.Name() {
				return true
			}
		}
	}
	return false
}

func firstPassing(ctx context.Context, transitions []Transition, from State, event Event, data any) *Transition {
	for i, t := range transitions {
		passed := true
		for _, guard := range t.Guards {
			if !guard(ctx, from, event, data) {
				passed = false
				break
			}
		}
		if passed {
			return &transitions[i]
		}
	}
	return nil
}
