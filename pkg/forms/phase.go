package forms

import (
	"context"
	"errors"
	"fmt"

	loopfsm "github.com/looplab/fsm"
)

// Phase is the submission lifecycle state of one form instance.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseValidating     Phase = "validating"
	PhaseProcessing     Phase = "processing"
	PhaseSucceeded      Phase = "succeeded"
	PhaseFailedFallback Phase = "failed_fallback"
)

// Event triggers a phase transition.
type Event string

const (
	EventSubmit        Event = "submit"
	EventReject        Event = "reject"
	EventAccept        Event = "accept"
	EventDelivered     Event = "delivered"
	EventDeliverFailed Event = "deliver_failed"
)

// Transition describes one legal phase change.
type Transition struct {
	Src   Phase
	Event Event
	Dst   Phase
}

// Transitions is the canonical table. Processing is reachable only through a
// fully valid Validating pass; both terminal phases accept a fresh submit so
// the form can be re-sent immediately.
var Transitions = []Transition{
	{Src: PhaseIdle, Event: EventSubmit, Dst: PhaseValidating},
	{Src: PhaseSucceeded, Event: EventSubmit, Dst: PhaseValidating},
	{Src: PhaseFailedFallback, Event: EventSubmit, Dst: PhaseValidating},
	{Src: PhaseValidating, Event: EventReject, Dst: PhaseIdle},
	{Src: PhaseValidating, Event: EventAccept, Dst: PhaseProcessing},
	{Src: PhaseProcessing, Event: EventDelivered, Dst: PhaseSucceeded},
	{Src: PhaseProcessing, Event: EventDeliverFailed, Dst: PhaseFailedFallback},
}

// TransitionError reports an event that is not legal from the current phase.
type TransitionError struct {
	Event   Event
	Current Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("forms: event %q not allowed from phase %q", e.Event, e.Current)
}

// events converts the transition table into looplab/fsm descriptors,
// consolidating rows that share an event and destination.
var events = buildEvents()

func buildEvents() []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range Transitions {
		k := key{event: string(t.Event), dst: string(t.Dst)}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], string(t.Src))
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{Name: k.event, Src: grouped[k], Dst: k.dst})
	}
	return out
}

// applyTransition validates event against the table and returns the
// destination phase. looplab/fsm tracks state internally, so a short-lived
// machine is created per call, seeded with the current phase.
func applyTransition(ctx context.Context, current Phase, event Event) (Phase, error) {
	machine := loopfsm.NewFSM(string(current), events, nil)

	if err := machine.Event(ctx, string(event)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &noTransition) {
			return "", &TransitionError{Event: event, Current: current}
		}
		return "", err
	}

	return Phase(machine.Current()), nil
}
