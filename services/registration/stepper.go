package registration

import (
	"fmt"

	"glsalliance/models"
)

// StepState is how a step is drawn in the progress bar.
type StepState string

const (
	StateActive   StepState = "active"
	StatePassed   StepState = "passed"
	StateUpcoming StepState = "upcoming"
)

// Stepper tracks the active wizard step.
type Stepper struct {
	Current Step `json:"current"`
}

// Next runs the active step's guard and advances on success.
func (s Stepper) Next(f *models.RegistrationForm) (Stepper, error) {
	if err := s.Current.Validate(f); err != nil {
		return s, err
	}
	if s.Current < StepReview {
		s.Current++
	}
	return s, nil
}

// Back moves one step back. It never validates.
func (s Stepper) Back() Stepper {
	if s.Current > StepProfileType {
		s.Current--
	}
	return s
}

// Jump moves to target. Going back (or staying) always succeeds. Going
// forward re-runs every guard from the active step up to the target and
// stops on the first failing step, returning its error.
func (s Stepper) Jump(target Step, f *models.RegistrationForm) (Stepper, error) {
	if !target.Valid() {
		return s, ErrInvalidStep
	}
	if target <= s.Current {
		s.Current = target
		return s, nil
	}
	for step := s.Current; step < target; step++ {
		if err := step.Validate(f); err != nil {
			s.Current = step
			return s, err
		}
	}
	s.Current = target
	return s, nil
}

type StepProgress struct {
	Index int       `json:"index"`
	Label string    `json:"label"`
	Slug  string    `json:"slug"`
	State StepState `json:"state"`
}

type Progress struct {
	Current int            `json:"current"`
	Total   int            `json:"total"`
	Ratio   float64        `json:"ratio"`
	Label   string         `json:"label"`
	Steps   []StepProgress `json:"steps"`
}

// Progress reports the bar fill ratio and per-step states.
func (s Stepper) Progress() Progress {
	p := Progress{
		Current: int(s.Current),
		Total:   StepCount,
		Ratio:   float64(s.Current) / float64(StepCount-1),
		Label:   fmt.Sprintf("%d/%d", int(s.Current)+1, StepCount),
		Steps:   make([]StepProgress, 0, StepCount),
	}
	for i := 0; i < StepCount; i++ {
		step := Step(i)
		state := StateUpcoming
		switch {
		case step == s.Current:
			state = StateActive
		case step < s.Current:
			state = StatePassed
		}
		p.Steps = append(p.Steps, StepProgress{
			Index: i,
			Label: step.Label(),
			Slug:  step.Slug(),
			State: state,
		})
	}
	return p
}
