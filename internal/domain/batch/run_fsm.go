package batch

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Run lifecycle events.
const (
	EventStart    = "start"
	EventComplete = "complete"
	EventFail     = "fail"
)

// RunContext carries run identity through the state machine.
type RunContext struct {
	RunID string
}

// RunStateMachine enforces the idle -> running -> completed/failed
// lifecycle of a batch run.
type RunStateMachine struct {
	interpreter *statekit.Interpreter[RunContext]
}

// NewRunStateMachine builds a machine for one run, starting idle.
func NewRunStateMachine(runID string) (*RunStateMachine, error) {
	builder := statekit.NewMachine[RunContext]("batch-run").
		WithInitial(statekit.StateID(StateIdle)).
		WithContext(RunContext{RunID: runID})

	builder.State(statekit.StateID(StateIdle)).
		On(EventStart).Target(statekit.StateID(StateRunning)).
		Done()

	builder.State(statekit.StateID(StateRunning)).
		On(EventComplete).Target(statekit.StateID(StateCompleted)).
		On(EventFail).Target(statekit.StateID(StateFailed)).
		Done()

	builder.State(statekit.StateID(StateCompleted)).Done()
	builder.State(statekit.StateID(StateFailed)).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build run state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &RunStateMachine{interpreter: interpreter}, nil
}

// Transition sends a lifecycle event. It fails if the event is not valid
// for the current state.
func (sm *RunStateMachine) Transition(event string) error {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := sm.Current()

	if before == after {
		return fmt.Errorf("event %q is not allowed while the run is %q", event, before)
	}
	return nil
}

// Current returns the run's lifecycle state.
func (sm *RunStateMachine) Current() State {
	return State(sm.interpreter.State().Value)
}

// IsTerminal reports whether the run has finished, successfully or not.
func (sm *RunStateMachine) IsTerminal() bool {
	s := sm.Current()
	return s == StateCompleted || s == StateFailed
}
