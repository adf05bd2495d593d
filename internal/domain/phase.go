package domain

import "fmt"

type Phase string

const (
	PhasePending Phase = "pending"
	PhaseStarted Phase = "started"
	PhaseErrored Phase = "errored"
	PhaseDone    Phase = "done"
)

// Terminal reports whether no further transition is allowed out of p.
func (p Phase) Terminal() bool {
	return p == PhaseErrored || p == PhaseDone
}

type Step string

const (
	StepFile      Step = "file"
	StepServer    Step = "server"
	StepTunnel    Step = "tunnel"
	StepClipboard Step = "clipboard"
	StepDownload  Step = "download"
)

// Steps lists every step in display order.
var Steps = []Step{StepFile, StepServer, StepTunnel, StepClipboard, StepDownload}

type PhaseRecord struct {
	Phase Phase
	Label string
}

func NewPhaseRecord(label string) PhaseRecord {
	return PhaseRecord{Phase: PhasePending, Label: label}
}

// Advance moves the record forward. An empty label keeps the current one.
func (r PhaseRecord) Advance(to Phase, label string) (PhaseRecord, error) {
	if !r.canAdvance(to) {
		return r, fmt.Errorf("%w: %s -> %s", ErrPhaseRegression, r.Phase, to)
	}

	next := PhaseRecord{Phase: to, Label: r.Label}
	if label != "" {
		next.Label = label
	}

	return next, nil
}

func (r PhaseRecord) canAdvance(to Phase) bool {
	switch r.Phase {
	case PhasePending:
		return to == PhaseStarted || to == PhaseErrored
	case PhaseStarted:
		return to == PhaseErrored || to == PhaseDone
	default:
		return false
	}
}
