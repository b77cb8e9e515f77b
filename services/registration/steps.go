package registration

import (
	"strconv"
	"strings"

	"glsalliance/models"
)

// Step is a wizard state. Steps are strictly ordered.
type Step int

const (
	StepProfileType Step = iota
	StepCompanyInfo
	StepBusinessReg
	StepCompanyProfile
	StepServices
	StepInsurance
	StepReview
)

// StepCount is the number of wizard steps.
const StepCount = int(StepReview) + 1

var stepLabels = [StepCount]string{
	"Profile Type",
	"Company Information",
	"Business Registration",
	"Company Profile",
	"Services & Activities",
	"Insurance Information",
	"Submit",
}

var stepSlugs = [StepCount]string{
	"profile-type",
	"company-info",
	"business-registration",
	"company-profile",
	"services",
	"insurance",
	"review",
}

const briefEmptyMessage = "Please write a short company overview before continuing."

func (s Step) Valid() bool { return s >= StepProfileType && s <= StepReview }

func (s Step) Label() string {
	if !s.Valid() {
		return ""
	}
	return stepLabels[s]
}

func (s Step) Slug() string {
	if !s.Valid() {
		return ""
	}
	return stepSlugs[s]
}

// StepFromSlug resolves a URL slug or a numeric index.
func StepFromSlug(slug string) (Step, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for i, s := range stepSlugs {
		if s == slug {
			return Step(i), true
		}
	}
	if n, err := strconv.Atoi(slug); err == nil && Step(n).Valid() {
		return Step(n), true
	}
	return 0, false
}

// Validate runs the guard that must pass before leaving s with "Next".
func (s Step) Validate(f *models.RegistrationForm) error {
	switch s {
	case StepProfileType:
		if !f.ProfileType.Valid() {
			return &StepError{Step: s, Field: "profileType", Message: "Please select a profile type to continue."}
		}
	case StepCompanyInfo:
		if strings.TrimSpace(f.Company.CompanyName) == "" {
			return &StepError{Step: s, Field: "company.companyName", Message: "Please enter the company name before continuing."}
		}
		if len(f.Contacts) == 0 || strings.TrimSpace(f.Contacts[0].FullName) == "" {
			return &StepError{Step: s, Field: "contacts.0.fullName", Message: "Please add at least one contact name before continuing."}
		}
		if f.ProfileType == models.ProfileImporterExporter && f.Company.ProductCategoryID == "" {
			return &StepError{Step: s, Field: "company.productCategoryId", Message: "Please select a product category before continuing."}
		}
	case StepBusinessReg:
		if strings.TrimSpace(f.Business.BRCNumber) == "" {
			return &StepError{Step: s, Field: "business.brcNumber", Message: "Please enter the BRC Number before continuing."}
		}
	case StepCompanyProfile:
		brief := f.Company.ProfileBrief
		if strings.TrimSpace(brief) == "" {
			return &StepError{Step: s, Field: "company.profileBrief", Message: briefEmptyMessage}
		}
		if CountWords(brief) > MaxBriefWords {
			return &StepError{Step: s, Field: "company.profileBrief", Message: "Limited to 500 words."}
		}
		if f.ProfileType == models.ProfileImporterExporter && f.Company.CoverPhoto == nil {
			return &StepError{Step: s, Field: "company.coverPhoto", Message: "Cover photo is required for Importer / Exporter profiles."}
		}
	case StepServices:
		if len(f.Services.ServicesProvided) == 0 && len(f.Services.CoreActivities) == 0 {
			return &StepError{Step: s, Field: "services.servicesProvided", Message: "Please select at least one service or core activity before continuing."}
		}
		if len(f.Services.SupportedCountries) == 0 {
			return &StepError{Step: s, Field: "services.supportedCountries", Message: "Please select at least one country before continuing."}
		}
	case StepInsurance, StepReview:
		return nil
	default:
		return ErrInvalidStep
	}
	return nil
}
