package registration

import (
	"encoding/json"
	"time"

	"glsalliance/models"
)

// Banner is the outcome of the last submission attempt.
type Banner struct {
	Kind    string   `json:"kind"` // "error" or "success"
	Message string   `json:"message"`
	Lines   []string `json:"lines,omitempty"`
}

// Session is the stored wizard document.
type Session struct {
	ID      string                  `json:"id"`
	Form    models.RegistrationForm `json:"form"`
	Stepper Stepper                 `json:"stepper"`

	// Notice is a one-shot message from the last change, e.g. brief trimming.
	Notice string `json:"notice,omitempty"`

	Submitting       bool            `json:"submitting"`
	SubmitStartedAt  time.Time       `json:"submitStartedAt,omitempty"`
	Submitted        bool            `json:"submitted"`
	Banner           *Banner         `json:"banner,omitempty"`
	SubmissionResult json.RawMessage `json:"submissionResult,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View is what the browser receives.
type View struct {
	Form                    models.RegistrationForm `json:"form"`
	Step                    Step                    `json:"step"`
	StepSlug                string                  `json:"stepSlug"`
	Progress                Progress                `json:"progress"`
	Notice                  string                  `json:"notice,omitempty"`
	Submitting              bool                    `json:"submitting"`
	Submitted               bool                    `json:"submitted"`
	Banner                  *Banner                 `json:"banner,omitempty"`
	SupportedCountriesLabel string                  `json:"supportedCountriesLabel"`
	BriefWordCount          int                     `json:"briefWordCount"`
	CanSubmit               bool                    `json:"canSubmit"`
}

func (s *Session) View() View {
	return View{
		Form:                    s.Form,
		Step:                    s.Stepper.Current,
		StepSlug:                s.Stepper.Current.Slug(),
		Progress:                s.Stepper.Progress(),
		Notice:                  s.Notice,
		Submitting:              s.Submitting,
		Submitted:               s.Submitted,
		Banner:                  s.Banner,
		SupportedCountriesLabel: SupportedCountriesLabel(s.Form.ProfileType),
		BriefWordCount:          CountWords(s.Form.Company.ProfileBrief),
		CanSubmit:               s.Stepper.Current == StepReview && !s.Submitting && !s.Submitted,
	}
}
