// Package batch models the lifecycle and reporting of one automation run
// over a queue of work items.
package batch

import "time"

// State is the lifecycle state of a batch run.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// ItemResult records what happened to one queued work item.
type ItemResult struct {
	ItemKey string `json:"item_key"`

	// AssignedTo is the chosen candidate's account ID, empty on fallback
	// or failure.
	AssignedTo  string `json:"assigned_to,omitempty"`
	DisplayName string `json:"display_name,omitempty"`

	// FellBack marks items that were unassigned and moved to the fallback
	// status because no eligible candidate existed.
	FellBack bool `json:"fell_back,omitempty"`

	Error string `json:"error,omitempty"`
}

// Report summarizes one automation run.
type Report struct {
	RunID      string       `json:"run_id"`
	State      State        `json:"state"`
	Results    []ItemResult `json:"results"`
	Assigned   int          `json:"assigned"`
	Fallbacks  int          `json:"fallbacks"`
	Failures   int          `json:"failures"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// Add appends a result and updates the summary counters.
func (r *Report) Add(res ItemResult) {
	r.Results = append(r.Results, res)
	switch {
	case res.FellBack:
		r.Fallbacks++
	case res.Error != "":
		r.Failures++
	default:
		r.Assigned++
	}
}
