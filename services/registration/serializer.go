package registration

import (
	"context"
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"

	"glsalliance/models"
	"glsalliance/services/backend"
	"glsalliance/utils"
)

// Opener loads the payload of a pending upload.
type Opener func(ctx context.Context, u *models.PendingUpload) ([]byte, error)

// Part is one multipart entry: a plain field or a file.
type Part struct {
	Name        string
	Value       string
	FileName    string
	ContentType string
	Data        []byte
}

func (p Part) IsFile() bool { return p.Data != nil }

// Payload is the ordered multipart body of a registration submission.
type Payload struct {
	Parts []Part
}

func (p *Payload) field(name, value string) {
	p.Parts = append(p.Parts, Part{Name: name, Value: value})
}

// WriteParts implements backend.MultipartBody.
func (p *Payload) WriteParts(w *multipart.Writer) error {
	for _, part := range p.Parts {
		var err error
		if part.IsFile() {
			err = backend.WriteFile(w, part.Name, part.FileName, part.ContentType, part.Data)
		} else {
			err = w.WriteField(part.Name, part.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Values groups the plain fields by name. Repeated names keep their order.
func (p *Payload) Values() map[string][]string {
	out := make(map[string][]string)
	for _, part := range p.Parts {
		if !part.IsFile() {
			out[part.Name] = append(out[part.Name], part.Value)
		}
	}
	return out
}

// File returns the file part named name.
func (p *Payload) File(name string) (Part, bool) {
	for _, part := range p.Parts {
		if part.IsFile() && part.Name == name {
			return part, true
		}
	}
	return Part{}, false
}

var schemeRe = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://`)

// NormalizeWebsite prefixes https:// when the value has no scheme.
func NormalizeWebsite(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || schemeRe.MatchString(v) {
		return v
	}
	return "https://" + v
}

func triState(b *bool) string {
	switch {
	case b == nil:
		return ""
	case *b:
		return "1"
	default:
		return "0"
	}
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// BuildPayload maps the form onto the backend's multipart field names. The
// output is deterministic for a given form. Binary fields are read through
// open and attached only when present.
func BuildPayload(ctx context.Context, f *models.RegistrationForm, open Opener) (*Payload, error) {
	p := &Payload{}
	c := f.Company

	attach := func(name string, u *models.PendingUpload) error {
		if u == nil {
			return nil
		}
		data, err := open(ctx, u)
		if err != nil {
			return fmt.Errorf("reading %s: %w", u.FileName, err)
		}
		if data == nil {
			data = []byte{}
		}
		p.Parts = append(p.Parts, Part{Name: name, FileName: u.FileName, ContentType: u.ContentType, Data: data})
		return nil
	}

	p.field("profile_type", string(f.ProfileType))
	p.field("user_name", f.Username)

	p.field("company_name", c.CompanyName)
	p.field("year_established", c.YearEstablished)
	p.field("website", NormalizeWebsite(c.Website))
	p.field("registered_address", c.RegisteredAddress)
	p.field("country", utils.CountryName(c.RegCountryCode))
	p.field("state_province", c.RegState)
	p.field("city", c.RegCity)
	p.field("zip_code", c.RegZip)

	if c.ProductCategoryID != "" {
		p.field("export_main_category_ids[]", c.ProductCategoryID)
	}
	for _, sub := range c.ProductSubcategories {
		p.field("export_subcategories[]", sub)
	}

	if v := triState(c.FinancialProtectionRequired); v != "" {
		p.field("financial_protection_required", v)
	}
	if v := triState(c.NettingRequired); v != "" {
		p.field("netting_required", v)
	}

	for i, ct := range f.Contacts {
		if blank(ct.FullName, ct.Email, ct.Phone) {
			continue
		}
		prefix := fmt.Sprintf("contacts[%d]", i)
		p.field(prefix+"[full_name]", ct.FullName)
		p.field(prefix+"[designation]", ct.Designation)
		p.field(prefix+"[email]", ct.Email)
		p.field(prefix+"[phone]", ct.Phone)
		p.field(prefix+"[alternate_phone]", ct.AltPhone)
	}

	p.field("brc_number", f.Business.BRCNumber)
	p.field("brc_issue_date", f.Business.IssueDate)
	p.field("brc_expiry_date", f.Business.ExpiryDate)
	if err := attach("brc_document", f.Business.BRCFile); err != nil {
		return nil, err
	}

	// The country of a new row defaults to the registered one, so it does
	// not make a row populated on its own.
	for i, a := range f.Business.Affiliations {
		if blank(a.Name, a.IssueDate, a.ExpiryDate) {
			continue
		}
		prefix := fmt.Sprintf("affiliations[%d]", i)
		p.field(prefix+"[name]", a.Name)
		p.field(prefix+"[issue_date]", a.IssueDate)
		p.field(prefix+"[expiry_date]", a.ExpiryDate)
		p.field(prefix+"[country]", utils.CountryName(a.CountryCode))
	}

	m := f.Membership
	if m.Organization != "" {
		p.field("membership[organization]", m.Organization)
	}
	if m.MembershipNumber != "" {
		p.field("membership[membership_number]", m.MembershipNumber)
	}
	if m.JoinedDate != "" {
		p.field("membership[joined_date]", m.JoinedDate)
	}
	if m.PackageTerm != "" {
		p.field("membership[package_term]", string(m.PackageTerm))
	}
	if err := attach("membership[certificate]", m.Certificate); err != nil {
		return nil, err
	}

	p.field("company_profile_overview", c.ProfileBrief)
	if err := attach("company_profile_image", c.CoverPhoto); err != nil {
		return nil, err
	}

	countryNames := utils.CountryNames(f.Services.SupportedCountries)
	for _, name := range countryNames {
		p.field("branches_countries[]", name)
	}
	if len(countryNames) > 0 {
		p.field("supported_countries", strings.Join(countryNames, ", "))
	}

	for _, s := range f.Services.ServicesProvided {
		p.field("services_provided[]", s)
	}
	if f.Services.ServiceSectors != "" {
		p.field("service_sectors", f.Services.ServiceSectors)
	}
	if f.Services.TechStack != "" {
		p.field("tech_stack", f.Services.TechStack)
	}

	ins := f.Insurance
	for _, kv := range [][2]string{
		{"insurance_provider", ins.Provider},
		{"policy_type", ins.PolicyType},
		{"policy_number", ins.PolicyNumber},
		{"coverage_amount", ins.CoverageAmount},
		{"insurance_expiry_date", ins.ExpiryDate},
	} {
		if kv[1] != "" {
			p.field(kv[0], kv[1])
		}
	}
	if err := attach("insurance_policy_document", ins.PolicyDoc); err != nil {
		return nil, err
	}

	if c.TradeName != "" {
		p.field("trade_name", c.TradeName)
	}
	if c.Mailing.Title != "" {
		p.field("mailing_title", c.Mailing.Title)
	}
	p.field("mailing_country", utils.CountryName(c.Mailing.CountryCode))
	p.field("mailing_state", c.Mailing.StateCode)
	p.field("mailing_city", c.Mailing.City)
	p.field("mailing_zip", c.Mailing.Zip)

	for _, a := range f.Services.CoreActivities {
		p.field("core_activities[]", a)
	}
	return p, nil
}
