package workflow

import "fmt"

// StepState is the display classification of one timeline step
type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepLocked    StepState = "locked"
)

// TimelineStep pairs a step definition with its display state for a
// particular shipment
type TimelineStep struct {
	Step  Step      `json:"step"`
	State StepState `json:"state"`
}

// Projection is the read-only timeline view derived from a shipment's
// current status. It is never stored; recompute it from Status alone.
type Projection struct {
	Kind         Kind           `json:"kind"`
	CurrentIndex int            `json:"current_index"`
	Fraction     float64        `json:"fraction"`
	Steps        []TimelineStep `json:"steps"`
}

// Project derives the timeline for the shipment: every step before the
// current index is completed, the current index is current, everything
// after is locked. Fraction is index/(len-1), defined as 0 for lists of
// one step or fewer.
func Project(shipment *Shipment) (*Projection, error) {
	kind, err := shipment.ResolveKind()
	if err != nil {
		return nil, fmt.Errorf("shipment %s status %q: %w", shipment.ID, shipment.Status, err)
	}

	steps := StepsFor(kind)
	idx := StepIndex(kind, shipment.Status)

	proj := &Projection{
		Kind:         kind,
		CurrentIndex: idx,
		Steps:        make([]TimelineStep, len(steps)),
	}
	for i, step := range steps {
		state := StepLocked
		switch {
		case i < idx:
			state = StepCompleted
		case i == idx:
			state = StepCurrent
		}
		proj.Steps[i] = TimelineStep{Step: step, State: state}
	}
	proj.Fraction = fraction(idx, len(steps))
	return proj, nil
}

// fraction guards the single-step and empty lists against dividing by
// zero: progress is defined as 0 when there is nothing to progress through
func fraction(idx, total int) float64 {
	if total <= 1 {
		return 0
	}
	return float64(idx) / float64(total-1)
}
