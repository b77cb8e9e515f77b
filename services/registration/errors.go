package registration

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound = errors.New("registration session not found")
	ErrNotOnReview     = errors.New("submission is only possible from the review step")
	ErrSubmitInFlight  = errors.New("a submission is already in progress")
	ErrStepNotActive   = errors.New("that step is not the active step")
	ErrInvalidIndex    = errors.New("row index out of range")
	ErrInvalidStep     = errors.New("unknown wizard step")
	ErrUnknownOption   = errors.New("unknown option")
	ErrNotApplicable   = errors.New("field does not apply to the selected profile type")
	ErrUploadNotFound  = errors.New("upload not found")
)

// StepError is a failed "Next" guard.
type StepError struct {
	Step    Step   `json:"step"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step.Label(), e.Message)
}
