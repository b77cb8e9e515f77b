package registration

import (
	"fmt"

	"glsalliance/models"
)

type ContactEdit struct {
	Index int `json:"index"`
	ContactPatch
}

type AffiliationEdit struct {
	Index int `json:"index"`
	AffiliationPatch
}

// StepPatch carries the edits a step's screen can make. Only the parts owned
// by the step being patched may be set.
type StepPatch struct {
	// Profile type step.
	ProfileType *models.ProfileType `json:"profileType"`

	// Company information step.
	Username          *string       `json:"username"`
	Company           *CompanyPatch `json:"company"`
	CategoryID        *string       `json:"categoryId"`
	ToggleSubcategory *string       `json:"toggleSubcategory"`
	Contacts          []ContactEdit `json:"contacts"`

	// Business registration step.
	Business     *BusinessPatch    `json:"business"`
	Affiliations []AffiliationEdit `json:"affiliations"`

	// Company profile step.
	ProfileBrief *string          `json:"profileBrief"`
	Membership   *MembershipPatch `json:"membership"`

	// Services step.
	ToggleService      *string        `json:"toggleService"`
	ToggleCoreActivity *string        `json:"toggleCoreActivity"`
	SupportedCountries []string       `json:"supportedCountries"`
	Services           *ServicesPatch `json:"services"`

	// Insurance step.
	Insurance *InsurancePatch `json:"insurance"`
}

// owners lists the steps that set parts of p belong to.
func (p StepPatch) owners() []Step {
	var steps []Step
	add := func(cond bool, s Step) {
		if cond {
			steps = append(steps, s)
		}
	}
	add(p.ProfileType != nil, StepProfileType)
	add(p.Username != nil || p.Company != nil || p.CategoryID != nil || p.ToggleSubcategory != nil || len(p.Contacts) > 0, StepCompanyInfo)
	add(p.Business != nil || len(p.Affiliations) > 0, StepBusinessReg)
	add(p.ProfileBrief != nil || p.Membership != nil, StepCompanyProfile)
	add(p.ToggleService != nil || p.ToggleCoreActivity != nil || p.SupportedCountries != nil || p.Services != nil, StepServices)
	add(p.Insurance != nil, StepInsurance)
	return steps
}

// PatchScopeError rejects a patch that touches another step's fields.
type PatchScopeError struct {
	Step  Step
	Other Step
}

func (e *PatchScopeError) Error() string {
	return fmt.Sprintf("the %s step cannot change %s fields", e.Step.Label(), e.Other.Label())
}

// applyPatch runs the mutators for p in a fixed order. The returned notice is
// non-empty when the brief had to be trimmed.
func applyPatch(f models.RegistrationForm, step Step, p StepPatch) (models.RegistrationForm, string, error) {
	for _, owner := range p.owners() {
		if owner != step {
			return f, "", &PatchScopeError{Step: step, Other: owner}
		}
	}

	var err error
	notice := ""

	if p.ProfileType != nil {
		if f, err = SelectProfileType(f, *p.ProfileType); err != nil {
			return f, "", err
		}
	}

	if p.Username != nil {
		f = WithUsername(f, *p.Username)
	}
	if p.Company != nil {
		f = WithCompany(f, *p.Company)
	}
	if p.CategoryID != nil {
		if f, err = SelectCategory(f, *p.CategoryID); err != nil {
			return f, "", err
		}
	}
	if p.ToggleSubcategory != nil {
		if f, err = ToggleSubcategory(f, *p.ToggleSubcategory); err != nil {
			return f, "", err
		}
	}
	for _, edit := range p.Contacts {
		if f, err = UpdateContact(f, edit.Index, edit.ContactPatch); err != nil {
			return f, "", err
		}
	}

	if p.Business != nil {
		f = WithBusiness(f, *p.Business)
	}
	for _, edit := range p.Affiliations {
		if f, err = UpdateAffiliation(f, edit.Index, edit.AffiliationPatch); err != nil {
			return f, "", err
		}
	}

	if p.ProfileBrief != nil {
		var truncated bool
		f, truncated = SetProfileBrief(f, *p.ProfileBrief)
		if truncated {
			notice = "Limited to 500 words. Extra text was trimmed."
		}
	}
	if p.Membership != nil {
		if f, err = WithMembership(f, *p.Membership); err != nil {
			return f, "", err
		}
	}

	if p.ToggleService != nil {
		if f, err = ToggleService(f, *p.ToggleService); err != nil {
			return f, "", err
		}
	}
	if p.ToggleCoreActivity != nil {
		if f, err = ToggleCoreActivity(f, *p.ToggleCoreActivity); err != nil {
			return f, "", err
		}
	}
	if p.SupportedCountries != nil {
		f = SetSupportedCountries(f, p.SupportedCountries)
	}
	if p.Services != nil {
		f = WithServices(f, *p.Services)
	}

	if p.Insurance != nil {
		f = WithInsurance(f, *p.Insurance)
	}
	return f, notice, nil
}

// uploadStep is the step whose screen owns an upload slot.
func uploadStep(field models.UploadField) Step {
	switch field {
	case models.UploadBRCFile:
		return StepBusinessReg
	case models.UploadCoverPhoto, models.UploadCertificate:
		return StepCompanyProfile
	case models.UploadPolicyDoc:
		return StepInsurance
	}
	return -1
}
