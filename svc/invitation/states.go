package invitation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/invitations/pkg/statemachine"
)

// State is the lifecycle state of an invitation.
type State string

const (
	StateInitial    State = "INITIAL"
	StateSent       State = "SENT"
	StateRegistered State = "REGISTERED"
	StateExcused    State = "EXCUSED"
)

// DefaultState is applied on write when no state is set.
const DefaultState = StateInitial

// States lists every known state.
var States = []State{StateInitial, StateSent, StateRegistered, StateExcused}

// Name implements statemachine.State.
func (s State) Name() string { return string(s) }

func (s State) String() string { return string(s) }

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	for _, v := range States {
		if s == v {
			return true
		}
	}
	return false
}

// Answered reports whether the invitee already registered or excused themselves.
func (s State) Answered() bool {
	return s == StateRegistered || s == StateExcused
}

var (
	EventDispatch   = statemachine.StringEvent("dispatch")
	EventRegister   = statemachine.StringEvent("register")
	EventDeregister = statemachine.StringEvent("deregister")
)

// lifecycle is the transition graph of an invitation. States only move
// forward; the self loops on SENT, REGISTERED and EXCUSED make re-dispatch,
// re-register and re-deregister idempotent.
var lifecycle = statemachine.MustNewGraph(
	statemachine.WithTransition(StateInitial, StateSent, EventDispatch, statemachine.WithGuard(hasRecipient)),
	statemachine.WithTransition(StateSent, StateSent, EventDispatch, statemachine.WithGuard(hasRecipient)),
	statemachine.WithTransition(StateSent, StateRegistered, EventRegister),
	statemachine.WithTransition(StateRegistered, StateRegistered, EventRegister),
	statemachine.WithTransition(StateSent, StateExcused, EventDeregister),
	statemachine.WithTransition(StateExcused, StateExcused, EventDeregister),
)

// hasRecipient guards the dispatch edges: records stored before email became
// mandatory can not be mailed.
func hasRecipient(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
	inv, ok := data.(Invitation)
	return ok && strings.TrimSpace(inv.Email) != ""
}

// advance fires event from the given state and returns the state reached.
// data is handed to the edge guards. A missing or rejected edge is reported
// as ErrValidation.
func advance(ctx context.Context, id string, from State, event statemachine.Event, data any) (State, error) {
	to, err := lifecycle.Next(ctx, from, event, data)
	if err != nil {
		if statemachine.IsNoTransitionAvailableError(err) {
			return from, errors.Join(ErrValidation, transitionError(id, from, event))
		}
		if statemachine.IsTransitionRejectedError(err) {
			return from, errors.Join(ErrValidation, fmt.Errorf("invitation <%s> has no recipient", id))
		}
		return from, errors.Join(ErrInternal, err)
	}
	return to.(State), nil
}

func transitionError(id string, from State, event statemachine.Event) error {
	if from == StateInitial && (event == EventRegister || event == EventDeregister) {
		return fmt.Errorf("invitation <%s> must be sent before %sing", id, event.Name())
	}
	return fmt.Errorf("invitation <%s> can not %s from state %s", id, event.Name(), from)
}

// canMove reports whether a plain update may change the state from -> to.
func canMove(from, to State) bool {
	return from == to || lifecycle.Reachable(from, to)
}
