package registration

import (
	"errors"
	"testing"

	"glsalliance/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeServiceProvider(t *testing.T) models.RegistrationForm {
	t.Helper()
	f, err := SelectProfileType(models.NewRegistrationForm(), models.ProfileServiceProvider)
	require.NoError(t, err)
	f = WithCompany(f, CompanyPatch{CompanyName: strPtr("Acme Logistics")})
	f, err = UpdateContact(f, 0, ContactPatch{FullName: strPtr("Jane Doe")})
	require.NoError(t, err)
	f = WithBusiness(f, BusinessPatch{BRCNumber: strPtr("PV12345")})
	f, _ = SetProfileBrief(f, "We move containers across South Asia.")
	f, err = ToggleService(f, "Sea Freight")
	require.NoError(t, err)
	return SetSupportedCountries(f, []string{"LK"})
}

func stepErr(t *testing.T, err error) *StepError {
	t.Helper()
	var se *StepError
	require.True(t, errors.As(err, &se), "expected StepError, got %v", err)
	return se
}

func TestStepFromSlug(t *testing.T) {
	for i, slug := range stepSlugs {
		step, ok := StepFromSlug(slug)
		require.True(t, ok)
		assert.Equal(t, Step(i), step)
	}
	step, ok := StepFromSlug("3")
	assert.True(t, ok)
	assert.Equal(t, StepCompanyProfile, step)

	_, ok = StepFromSlug("payment")
	assert.False(t, ok)
	_, ok = StepFromSlug("9")
	assert.False(t, ok)
}

func TestValidate_GuardMessages(t *testing.T) {
	tests := []struct {
		name    string
		step    Step
		form    func() models.RegistrationForm
		message string
	}{
		{
			name:    "profile type required",
			step:    StepProfileType,
			form:    models.NewRegistrationForm,
			message: "Please select a profile type to continue.",
		},
		{
			name:    "company name required",
			step:    StepCompanyInfo,
			form:    models.NewRegistrationForm,
			message: "Please enter the company name before continuing.",
		},
		{
			name: "first contact required",
			step: StepCompanyInfo,
			form: func() models.RegistrationForm {
				return WithCompany(models.NewRegistrationForm(), CompanyPatch{CompanyName: strPtr("Acme")})
			},
			message: "Please add at least one contact name before continuing.",
		},
		{
			name:    "brc required",
			step:    StepBusinessReg,
			form:    models.NewRegistrationForm,
			message: "Please enter the BRC Number before continuing.",
		},
		{
			name: "cover photo required for importers",
			step: StepCompanyProfile,
			form: func() models.RegistrationForm {
				f, _ := SelectProfileType(models.NewRegistrationForm(), models.ProfileImporterExporter)
				f, _ = SetProfileBrief(f, "Ten words of tea")
				return f
			},
			message: "Cover photo is required for Importer / Exporter profiles.",
		},
		{
			name: "country required",
			step: StepServices,
			form: func() models.RegistrationForm {
				f, _ := ToggleCoreActivity(models.NewRegistrationForm(), "Export")
				return f
			},
			message: "Please select at least one country before continuing.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.form()
			se := stepErr(t, tt.step.Validate(&f))
			assert.Equal(t, tt.step, se.Step)
			assert.Equal(t, tt.message, se.Message)
		})
	}

	f := models.NewRegistrationForm()
	assert.NoError(t, StepInsurance.Validate(&f))
}

func TestStepper_NextBlocksOnGuard(t *testing.T) {
	f := models.NewRegistrationForm()
	s, err := Stepper{}.Next(&f)
	require.Error(t, err)
	assert.Equal(t, StepProfileType, s.Current)

	f = completeServiceProvider(t)
	for want := StepCompanyInfo; want <= StepReview; want++ {
		s, err = s.Next(&f)
		require.NoError(t, err)
		assert.Equal(t, want, s.Current)
	}
	s, err = s.Next(&f)
	require.NoError(t, err)
	assert.Equal(t, StepReview, s.Current)
}

func TestStepper_Back(t *testing.T) {
	assert.Equal(t, StepProfileType, Stepper{}.Back().Current)
	assert.Equal(t, StepServices, Stepper{Current: StepInsurance}.Back().Current)
}

func TestStepper_Jump(t *testing.T) {
	t.Run("backwards never validates", func(t *testing.T) {
		f := models.NewRegistrationForm()
		s, err := Stepper{Current: StepInsurance}.Jump(StepCompanyInfo, &f)
		require.NoError(t, err)
		assert.Equal(t, StepCompanyInfo, s.Current)
	})

	t.Run("forward stops at first failing step", func(t *testing.T) {
		f := completeServiceProvider(t)
		f = WithBusiness(f, BusinessPatch{BRCNumber: strPtr("")})
		s, err := Stepper{Current: StepCompanyInfo}.Jump(StepReview, &f)
		se := stepErr(t, err)
		assert.Equal(t, StepBusinessReg, se.Step)
		assert.Equal(t, StepBusinessReg, s.Current)
	})

	t.Run("forward through valid steps", func(t *testing.T) {
		f := completeServiceProvider(t)
		s, err := Stepper{}.Jump(StepReview, &f)
		require.NoError(t, err)
		assert.Equal(t, StepReview, s.Current)
	})

	t.Run("unknown target", func(t *testing.T) {
		f := models.NewRegistrationForm()
		_, err := Stepper{}.Jump(Step(12), &f)
		assert.ErrorIs(t, err, ErrInvalidStep)
	})
}

func TestStepper_Progress(t *testing.T) {
	p := Stepper{Current: StepBusinessReg}.Progress()
	assert.Equal(t, "3/7", p.Label)
	assert.Equal(t, StepCount, p.Total)
	assert.InDelta(t, 2.0/6.0, p.Ratio, 1e-9)
	require.Len(t, p.Steps, StepCount)
	assert.Equal(t, StatePassed, p.Steps[0].State)
	assert.Equal(t, StateActive, p.Steps[2].State)
	assert.Equal(t, StateUpcoming, p.Steps[6].State)

	assert.InDelta(t, 1.0, Stepper{Current: StepReview}.Progress().Ratio, 1e-9)
}
