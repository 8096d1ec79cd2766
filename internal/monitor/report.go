package monitor

import (
	"fmt"
	"stockalert/internal/product"
	"stockalert/internal/transition"
	"time"
)

// Stage is the last pipeline step a pair reached.
type Stage int

const (
	StagePending Stage = iota
	StageResolve
	StageLoad
	StageDecide
	StagePersist
	StageNotify
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageResolve:
		return "resolve"
	case StageLoad:
		return "load"
	case StageDecide:
		return "decide"
	case StagePersist:
		return "persist"
	case StageNotify:
		return "notify"
	case StageDone:
		return "done"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Outcome is what happened to a single pair during a run. Err is set when the
// pair aborted at Stage, ResolutionFailure is set when the page could not be
// read and the pair continued with an out of stock snapshot.
type Outcome struct {
	Target            product.Target
	Directive         transition.Directive
	Stage             Stage
	Persisted         bool
	Notified          bool
	Err               error
	ResolutionFailure error
}

type Report struct {
	Started  time.Time
	Finished time.Time
	Outcomes []Outcome
}

// Duration is how long the run took.
func (r Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Failed counts the pairs that aborted.
func (r Report) Failed() int {
	return r.count(func(o Outcome) bool { return o.Err != nil })
}

func (r Report) count(pred func(o Outcome) bool) int {
	n := 0
	for _, o := range r.Outcomes {
		if pred(o) {
			n++
		}
	}
	return n
}
