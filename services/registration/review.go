package registration

import (
	"fmt"
	"strings"

	"glsalliance/models"
	"glsalliance/utils"
)

const emptyValue = "—"

type ReviewRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ReviewGroup is one section of the summary. EditStep is the jump target of
// its "Edit" link.
type ReviewGroup struct {
	Title    string      `json:"title"`
	EditStep Step        `json:"editStep"`
	Rows     []ReviewRow `json:"rows"`
}

type Review struct {
	Groups []ReviewGroup `json:"groups"`
}

func row(label, value string) ReviewRow {
	if strings.TrimSpace(value) == "" {
		value = emptyValue
	}
	return ReviewRow{Label: label, Value: value}
}

func yesNo(b *bool) string {
	switch {
	case b == nil:
		return emptyValue
	case *b:
		return "Yes"
	default:
		return "No"
	}
}

func fileName(u *models.PendingUpload) string {
	if u == nil {
		return ""
	}
	return u.FileName
}

func profileTypeLabel(p models.ProfileType) string {
	switch p {
	case models.ProfileServiceProvider:
		return "Service Provider (Freight Forwarder)"
	case models.ProfileImporterExporter:
		return "Importer / Exporter"
	}
	return ""
}

// BuildReview summarises the whole form, grouped by the step that edits it.
func BuildReview(f *models.RegistrationForm) Review {
	c := f.Company

	categoryLabel := c.ProductCategoryID
	if cat, ok := Category(c.ProductCategoryID); ok {
		categoryLabel = cat.Label
	}

	groups := []ReviewGroup{
		{
			Title:    "Profile Type",
			EditStep: StepProfileType,
			Rows: []ReviewRow{
				row("Profile Type", profileTypeLabel(f.ProfileType)),
				row("Username", f.Username),
			},
		},
		{
			Title:    "Company Information",
			EditStep: StepCompanyInfo,
			Rows: []ReviewRow{
				row("Company Name", c.CompanyName),
				row("Trade Name", c.TradeName),
				row("Registered Address", c.RegisteredAddress),
				row("Country", utils.CountryName(c.RegCountryCode)),
				row("Reg State", c.RegState),
				row("Reg City", c.RegCity),
				row("Reg ZIP", c.RegZip),
				row("Mailing Title", c.Mailing.Title),
				row("Mailing Country", utils.CountryName(c.Mailing.CountryCode)),
				row("Mailing State", c.Mailing.StateCode),
				row("Mailing City", c.Mailing.City),
				row("Mailing ZIP", c.Mailing.Zip),
				row("Year Established", c.YearEstablished),
				row("Website", c.Website),
				row("Product Category", categoryLabel),
				row("Subcategories", strings.Join(c.ProductSubcategories, ", ")),
				row("Financial Protection Required", yesNo(c.FinancialProtectionRequired)),
				row("Netting Required", yesNo(c.NettingRequired)),
			},
		},
	}

	contacts := ReviewGroup{Title: "Contacts", EditStep: StepCompanyInfo}
	for i, ct := range f.Contacts {
		prefix := fmt.Sprintf("Contact %d ", i+1)
		contacts.Rows = append(contacts.Rows,
			row(prefix+"Full Name", ct.FullName),
			row(prefix+"Designation", ct.Designation),
			row(prefix+"Email", ct.Email),
			row(prefix+"Phone", ct.Phone),
			row(prefix+"Alt Phone", ct.AltPhone),
		)
	}
	groups = append(groups, contacts)

	business := ReviewGroup{
		Title:    "Business Registration",
		EditStep: StepBusinessReg,
		Rows: []ReviewRow{
			row("BRC Number", f.Business.BRCNumber),
			row("Issue Date", f.Business.IssueDate),
			row("Expiry Date", f.Business.ExpiryDate),
			row("BRC Document", fileName(f.Business.BRCFile)),
		},
	}
	for i, a := range f.Business.Affiliations {
		prefix := fmt.Sprintf("Affiliation %d ", i+1)
		business.Rows = append(business.Rows,
			row(prefix+"Name", a.Name),
			row(prefix+"Issue Date", a.IssueDate),
			row(prefix+"Expiry Date", a.ExpiryDate),
			row(prefix+"Country", utils.CountryName(a.CountryCode)),
		)
	}
	groups = append(groups, business)

	groups = append(groups,
		ReviewGroup{
			Title:    "Company Profile",
			EditStep: StepCompanyProfile,
			Rows: []ReviewRow{
				row("Overview", c.ProfileBrief),
				row("Cover Photo", fileName(c.CoverPhoto)),
			},
		},
		ReviewGroup{
			Title:    "Membership",
			EditStep: StepCompanyProfile,
			Rows: []ReviewRow{
				row("Package", string(f.Membership.PackageTerm)),
				row("Organization", f.Membership.Organization),
				row("Membership Number", f.Membership.MembershipNumber),
				row("Joined Date", f.Membership.JoinedDate),
				row("Certificate", fileName(f.Membership.Certificate)),
			},
		},
		ReviewGroup{
			Title:    "Services & Activities",
			EditStep: StepServices,
			Rows: []ReviewRow{
				row("Services", strings.Join(f.Services.ServicesProvided, ", ")),
				row("Core Activities", strings.Join(f.Services.CoreActivities, ", ")),
				row(SupportedCountriesLabel(f.ProfileType), strings.Join(utils.CountryNames(f.Services.SupportedCountries), ", ")),
				row("Service Sectors", f.Services.ServiceSectors),
				row("Tech Stack", f.Services.TechStack),
			},
		},
		ReviewGroup{
			Title:    "Insurance Information",
			EditStep: StepInsurance,
			Rows: []ReviewRow{
				row("Provider", f.Insurance.Provider),
				row("Policy Type", f.Insurance.PolicyType),
				row("Policy Number", f.Insurance.PolicyNumber),
				row("Coverage Amount", f.Insurance.CoverageAmount),
				row("Expiry Date", f.Insurance.ExpiryDate),
				row("Policy Doc", fileName(f.Insurance.PolicyDoc)),
			},
		},
	)
	return Review{Groups: groups}
}
