package registration

import (
	"encoding/json"
	"strings"

	"glsalliance/models"
)

// The mutators below never modify their input. Each returns a new form that
// shares every slice and pointer it did not touch with the original.

// OptionalBool distinguishes an absent JSON key from an explicit null.
type OptionalBool struct {
	Set   bool
	Value *bool
}

func (o *OptionalBool) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

type MailingPatch struct {
	Title       *string `json:"title"`
	CountryCode *string `json:"countryCode"`
	StateCode   *string `json:"stateCode"`
	City        *string `json:"city"`
	Zip         *string `json:"zip"`
	// Diverged=false copies the registered address back and resumes mirroring.
	Diverged *bool `json:"diverged"`
}

type CompanyPatch struct {
	CompanyName       *string       `json:"companyName"`
	TradeName         *string       `json:"tradeName"`
	RegisteredAddress *string       `json:"registeredAddress"`
	RegCountryCode    *string       `json:"regCountryCode"`
	RegState          *string       `json:"regState"`
	RegCity           *string       `json:"regCity"`
	RegZip            *string       `json:"regZip"`
	YearEstablished   *string       `json:"yearEstablished"`
	Website           *string       `json:"website"`
	Mailing           *MailingPatch `json:"mailing"`

	FinancialProtectionRequired OptionalBool `json:"financialProtectionRequired"`
	NettingRequired             OptionalBool `json:"nettingRequired"`
}

type ContactPatch struct {
	FullName    *string `json:"fullName"`
	Designation *string `json:"designation"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	AltPhone    *string `json:"altPhone"`
}

type BusinessPatch struct {
	BRCNumber  *string `json:"brcNumber"`
	IssueDate  *string `json:"issueDate"`
	ExpiryDate *string `json:"expiryDate"`
}

type AffiliationPatch struct {
	Name        *string `json:"name"`
	IssueDate   *string `json:"issueDate"`
	ExpiryDate  *string `json:"expiryDate"`
	CountryCode *string `json:"countryCode"`
}

type MembershipPatch struct {
	PackageTerm      *models.PackageTerm `json:"packageTerm"`
	Organization     *string             `json:"organization"`
	MembershipNumber *string             `json:"membershipNumber"`
	JoinedDate       *string             `json:"joinedDate"`
}

type ServicesPatch struct {
	ServiceSectors *string `json:"serviceSectors"`
	TechStack      *string `json:"techStack"`
}

type InsurancePatch struct {
	Provider       *string `json:"provider"`
	PolicyType     *string `json:"policyType"`
	PolicyNumber   *string `json:"policyNumber"`
	CoverageAmount *string `json:"coverageAmount"`
	ExpiryDate     *string `json:"expiryDate"`
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func WithUsername(f models.RegistrationForm, username string) models.RegistrationForm {
	f.Username = username
	return f
}

// SelectProfileType switches the profile branch. Leaving importer_exporter
// clears the category, subcategories and cover photo; coming back does not
// restore them.
func SelectProfileType(f models.RegistrationForm, p models.ProfileType) (models.RegistrationForm, error) {
	if !p.Valid() {
		return f, ErrUnknownOption
	}
	if p != models.ProfileImporterExporter {
		f.Company.ProductCategoryID = ""
		f.Company.ProductSubcategories = nil
		f.Company.CoverPhoto = nil
	}
	f.ProfileType = p
	return f, nil
}

// WithCompany applies a company patch. While the mailing address has not
// diverged, registered address changes are mirrored into it; any direct
// mailing edit marks it diverged.
func WithCompany(f models.RegistrationForm, p CompanyPatch) models.RegistrationForm {
	c := f.Company
	set(&c.CompanyName, p.CompanyName)
	set(&c.TradeName, p.TradeName)
	set(&c.RegisteredAddress, p.RegisteredAddress)
	if p.RegCountryCode != nil {
		c.RegCountryCode = strings.ToUpper(strings.TrimSpace(*p.RegCountryCode))
	}
	set(&c.RegState, p.RegState)
	set(&c.RegCity, p.RegCity)
	set(&c.RegZip, p.RegZip)
	set(&c.YearEstablished, p.YearEstablished)
	set(&c.Website, p.Website)
	if p.FinancialProtectionRequired.Set {
		c.FinancialProtectionRequired = copyBool(p.FinancialProtectionRequired.Value)
	}
	if p.NettingRequired.Set {
		c.NettingRequired = copyBool(p.NettingRequired.Value)
	}

	m := c.Mailing
	if mp := p.Mailing; mp != nil {
		if mp.Diverged != nil && !*mp.Diverged {
			m.Diverged = false
		} else if mp.Title != nil || mp.CountryCode != nil || mp.StateCode != nil || mp.City != nil || mp.Zip != nil {
			m.Diverged = true
		}
		set(&m.Title, mp.Title)
		if mp.CountryCode != nil {
			m.CountryCode = strings.ToUpper(strings.TrimSpace(*mp.CountryCode))
		}
		set(&m.StateCode, mp.StateCode)
		set(&m.City, mp.City)
		set(&m.Zip, mp.Zip)
		if mp.Diverged != nil && *mp.Diverged {
			m.Diverged = true
		}
	}
	if !m.Diverged {
		m.CountryCode = c.RegCountryCode
		m.StateCode = c.RegState
		m.City = c.RegCity
		m.Zip = c.RegZip
	}
	c.Mailing = m

	f.Company = c
	return f
}

func copyBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// SelectCategory picks the single export category and clears subcategories.
// An empty id clears the selection.
func SelectCategory(f models.RegistrationForm, id string) (models.RegistrationForm, error) {
	if f.ProfileType != models.ProfileImporterExporter {
		return f, ErrNotApplicable
	}
	if id != "" {
		if _, ok := Category(id); !ok {
			return f, ErrUnknownOption
		}
	}
	f.Company.ProductCategoryID = id
	f.Company.ProductSubcategories = nil
	return f, nil
}

// ToggleSubcategory adds or removes a subcategory of the selected category.
func ToggleSubcategory(f models.RegistrationForm, sub string) (models.RegistrationForm, error) {
	cat, ok := Category(f.Company.ProductCategoryID)
	if !ok || !contains(cat.Subcategories, sub) {
		return f, ErrUnknownOption
	}
	f.Company.ProductSubcategories = toggle(f.Company.ProductSubcategories, sub)
	return f, nil
}

// toggle returns a fresh slice with v added or removed.
func toggle(list []string, v string) []string {
	out := make([]string, 0, len(list)+1)
	found := false
	for _, x := range list {
		if x == v {
			found = true
			continue
		}
		out = append(out, x)
	}
	if !found {
		out = append(out, v)
	}
	return out
}

// SetProfileBrief stores the overview, cutting it to MaxBriefWords. The bool
// reports whether text was trimmed.
func SetProfileBrief(f models.RegistrationForm, text string) (models.RegistrationForm, bool) {
	text, truncated := TruncateWords(text, MaxBriefWords)
	f.Company.ProfileBrief = text
	return f, truncated
}

func UpdateContact(f models.RegistrationForm, i int, p ContactPatch) (models.RegistrationForm, error) {
	if i < 0 || i >= len(f.Contacts) {
		return f, ErrInvalidIndex
	}
	contacts := append([]models.Contact(nil), f.Contacts...)
	c := contacts[i]
	set(&c.FullName, p.FullName)
	set(&c.Designation, p.Designation)
	set(&c.Email, p.Email)
	set(&c.Phone, p.Phone)
	set(&c.AltPhone, p.AltPhone)
	contacts[i] = c
	f.Contacts = contacts
	return f, nil
}

// AddContact appends an empty row. At MaxContacts it is a no-op.
func AddContact(f models.RegistrationForm) models.RegistrationForm {
	if len(f.Contacts) >= models.MaxContacts {
		return f
	}
	contacts := make([]models.Contact, len(f.Contacts), len(f.Contacts)+1)
	copy(contacts, f.Contacts)
	f.Contacts = append(contacts, models.Contact{})
	return f
}

// RemoveContact drops row i. Removing the only row leaves one empty row.
func RemoveContact(f models.RegistrationForm, i int) (models.RegistrationForm, error) {
	if i < 0 || i >= len(f.Contacts) {
		return f, ErrInvalidIndex
	}
	contacts := make([]models.Contact, 0, len(f.Contacts))
	contacts = append(contacts, f.Contacts[:i]...)
	contacts = append(contacts, f.Contacts[i+1:]...)
	if len(contacts) == 0 {
		contacts = append(contacts, models.Contact{})
	}
	f.Contacts = contacts
	return f, nil
}

func WithBusiness(f models.RegistrationForm, p BusinessPatch) models.RegistrationForm {
	b := f.Business
	set(&b.BRCNumber, p.BRCNumber)
	set(&b.IssueDate, p.IssueDate)
	set(&b.ExpiryDate, p.ExpiryDate)
	f.Business = b
	return f
}

func newAffiliation(f models.RegistrationForm) models.Affiliation {
	return models.Affiliation{CountryCode: f.Company.RegCountryCode}
}

// SeedAffiliations makes sure the affiliation section shows at least one row.
func SeedAffiliations(f models.RegistrationForm) models.RegistrationForm {
	if len(f.Business.Affiliations) > 0 {
		return f
	}
	f.Business.Affiliations = []models.Affiliation{newAffiliation(f)}
	return f
}

// AddAffiliation appends a row defaulting to the registered country.
func AddAffiliation(f models.RegistrationForm) models.RegistrationForm {
	list := make([]models.Affiliation, len(f.Business.Affiliations), len(f.Business.Affiliations)+1)
	copy(list, f.Business.Affiliations)
	f.Business.Affiliations = append(list, newAffiliation(f))
	return f
}

func UpdateAffiliation(f models.RegistrationForm, i int, p AffiliationPatch) (models.RegistrationForm, error) {
	if i < 0 || i >= len(f.Business.Affiliations) {
		return f, ErrInvalidIndex
	}
	list := append([]models.Affiliation(nil), f.Business.Affiliations...)
	a := list[i]
	set(&a.Name, p.Name)
	set(&a.IssueDate, p.IssueDate)
	set(&a.ExpiryDate, p.ExpiryDate)
	if p.CountryCode != nil {
		a.CountryCode = strings.ToUpper(strings.TrimSpace(*p.CountryCode))
	}
	list[i] = a
	f.Business.Affiliations = list
	return f, nil
}

// RemoveAffiliation drops row i, keeping one empty row visible.
func RemoveAffiliation(f models.RegistrationForm, i int) (models.RegistrationForm, error) {
	if i < 0 || i >= len(f.Business.Affiliations) {
		return f, ErrInvalidIndex
	}
	list := make([]models.Affiliation, 0, len(f.Business.Affiliations))
	list = append(list, f.Business.Affiliations[:i]...)
	list = append(list, f.Business.Affiliations[i+1:]...)
	if len(list) == 0 {
		list = append(list, newAffiliation(f))
	}
	f.Business.Affiliations = list
	return f, nil
}

func WithMembership(f models.RegistrationForm, p MembershipPatch) (models.RegistrationForm, error) {
	m := f.Membership
	if p.PackageTerm != nil {
		if *p.PackageTerm != "" && !p.PackageTerm.Valid() {
			return f, ErrUnknownOption
		}
		m.PackageTerm = *p.PackageTerm
	}
	set(&m.Organization, p.Organization)
	set(&m.MembershipNumber, p.MembershipNumber)
	set(&m.JoinedDate, p.JoinedDate)
	f.Membership = m
	return f, nil
}

func WithServices(f models.RegistrationForm, p ServicesPatch) models.RegistrationForm {
	s := f.Services
	set(&s.ServiceSectors, p.ServiceSectors)
	set(&s.TechStack, p.TechStack)
	f.Services = s
	return f
}

func ToggleService(f models.RegistrationForm, service string) (models.RegistrationForm, error) {
	if !contains(ServiceOptions, service) {
		return f, ErrUnknownOption
	}
	f.Services.ServicesProvided = toggle(f.Services.ServicesProvided, service)
	return f, nil
}

func ToggleCoreActivity(f models.RegistrationForm, activity string) (models.RegistrationForm, error) {
	if !contains(CoreActivities, activity) {
		return f, ErrUnknownOption
	}
	f.Services.CoreActivities = toggle(f.Services.CoreActivities, activity)
	return f, nil
}

// SetSupportedCountries replaces the country selection with upper-cased,
// de-duplicated ISO codes.
func SetSupportedCountries(f models.RegistrationForm, codes []string) models.RegistrationForm {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	f.Services.SupportedCountries = out
	return f
}

func WithInsurance(f models.RegistrationForm, p InsurancePatch) models.RegistrationForm {
	ins := f.Insurance
	set(&ins.Provider, p.Provider)
	set(&ins.PolicyType, p.PolicyType)
	set(&ins.PolicyNumber, p.PolicyNumber)
	set(&ins.CoverageAmount, p.CoverageAmount)
	set(&ins.ExpiryDate, p.ExpiryDate)
	f.Insurance = ins
	return f
}

// SetUpload puts u into its field slot and returns the upload it displaced.
// A nil u clears field.
func SetUpload(f models.RegistrationForm, field models.UploadField, u *models.PendingUpload) (models.RegistrationForm, *models.PendingUpload, error) {
	if field == models.UploadCoverPhoto && u != nil && f.ProfileType != models.ProfileImporterExporter {
		return f, nil, ErrNotApplicable
	}
	prev := f.Upload(field)
	switch field {
	case models.UploadCoverPhoto:
		f.Company.CoverPhoto = u
	case models.UploadBRCFile:
		f.Business.BRCFile = u
	case models.UploadCertificate:
		f.Membership.Certificate = u
	case models.UploadPolicyDoc:
		f.Insurance.PolicyDoc = u
	default:
		return f, nil, ErrUnknownOption
	}
	return f, prev, nil
}
