package prober

import (
	"fmt"
	"time"

	"github.com/bitcoin-sv/handshake/peer"
	"github.com/google/uuid"
)

// Report is the aggregate of one run.
type Report struct {
	RunID    uuid.UUID
	Start    time.Time
	Duration time.Duration

	Ok          int
	PartiallyOk int
	Failed      int

	// Outcomes holds one entry per distinct target, ordered by address.
	Outcomes []*peer.Outcome
}

func newReport(targets int) *Report {
	return &Report{
		RunID:    uuid.New(),
		Start:    time.Now(),
		Outcomes: make([]*peer.Outcome, 0, targets),
	}
}

// Total is the number of attempts in the run.
func (r *Report) Total() int {
	return r.Ok + r.PartiallyOk + r.Failed
}

func (r *Report) add(o *peer.Outcome) {
	switch o.Kind {
	case peer.OutcomeOk:
		r.Ok++
	case peer.OutcomePartiallyOk:
		r.PartiallyOk++
	default:
		r.Failed++
	}

	r.Outcomes = append(r.Outcomes, o)
}

// Failures counts the failed attempts by cause.
func (r *Report) Failures() map[peer.FailureCause]int {
	failures := make(map[peer.FailureCause]int)

	for _, o := range r.Outcomes {
		if o.Kind == peer.OutcomeFailed {
			failures[o.Cause]++
		}
	}

	return failures
}

func (r *Report) String() string {
	return fmt.Sprintf("Finished! Handshake results: %d OK | %d PARTIALLY OK | %d FAILED", r.Ok, r.PartiallyOk, r.Failed)
}
