package models

// MemberRow is one directory listing row.
type MemberRow struct {
	ID          FlexString `json:"id"`
	CompanyName string     `json:"company_name,omitempty"`
	Name        string     `json:"name,omitempty"`
	Country     string     `json:"country,omitempty"`
	City        string     `json:"city,omitempty"`
	Years       FlexInt    `json:"years,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// DisplayName is the company name, falling back to the contact name.
func (m MemberRow) DisplayName() string {
	if m.CompanyName != "" {
		return m.CompanyName
	}
	return m.Name
}

type MemberContact struct {
	FullName       string `json:"full_name,omitempty"`
	Designation    string `json:"designation,omitempty"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	AlternatePhone string `json:"alternate_phone,omitempty"`
}

type MemberAffiliation struct {
	Name       string `json:"name,omitempty"`
	IssueDate  string `json:"issue_date,omitempty"`
	ExpiryDate string `json:"expiry_date,omitempty"`
	Country    string `json:"country,omitempty"`
}

type ExportCategoryRef struct {
	ID   FlexString `json:"id"`
	Name string     `json:"name"`
	Slug string     `json:"slug,omitempty"`
}

// MemberRegistration is a full member profile as stored by the backend.
type MemberRegistration struct {
	ID          FlexString `json:"id"`
	RefCode     string     `json:"ref_code,omitempty"`
	UserID      FlexString `json:"user_id,omitempty"`
	ProfileType string     `json:"profile_type,omitempty"`
	Status      string     `json:"status,omitempty"`
	UserName    string     `json:"user_name,omitempty"`

	CompanyName     string  `json:"company_name,omitempty"`
	TradeName       string  `json:"trade_name,omitempty"`
	YearEstablished string  `json:"year_established,omitempty"`
	Years           FlexInt `json:"years,omitempty"`
	Website         string  `json:"website,omitempty"`

	RegisteredAddress string `json:"registered_address,omitempty"`
	Country           string `json:"country,omitempty"`
	StateProvince     string `json:"state_province,omitempty"`
	City              string `json:"city,omitempty"`
	ZipCode           string `json:"zip_code,omitempty"`

	MailingTitle   string `json:"mailing_title,omitempty"`
	MailingCountry string `json:"mailing_country,omitempty"`
	MailingState   string `json:"mailing_state,omitempty"`
	MailingCity    string `json:"mailing_city,omitempty"`
	MailingZip     string `json:"mailing_zip,omitempty"`

	ExportMainCategoryIDs []FlexString        `json:"export_main_category_ids,omitempty"`
	ExportMainCategories  []ExportCategoryRef `json:"export_main_categories,omitempty"`
	ExportSubcategories   []string            `json:"export_subcategories,omitempty"`
	FinancialProtection   FlexBool            `json:"financial_protection_required"`
	NettingRequired       FlexBool            `json:"netting_required"`
	Contacts              []MemberContact     `json:"contacts,omitempty"`
	Affiliations          []MemberAffiliation `json:"affiliations,omitempty"`

	BRCNumber      string `json:"brc_number,omitempty"`
	BRCIssueDate   string `json:"brc_issue_date,omitempty"`
	BRCExpiryDate  string `json:"brc_expiry_date,omitempty"`
	BRCDocumentURL string `json:"brc_document_url,omitempty"`

	CompanyProfileOverview string `json:"company_profile_overview,omitempty"`
	CompanyProfileImageURL string `json:"company_profile_image_url,omitempty"`

	InsuranceProvider          string `json:"insurance_provider,omitempty"`
	PolicyType                 string `json:"policy_type,omitempty"`
	PolicyNumber               string `json:"policy_number,omitempty"`
	CoverageAmount             string `json:"coverage_amount,omitempty"`
	InsuranceExpiryDate        string `json:"insurance_expiry_date,omitempty"`
	InsurancePolicyDocumentURL string `json:"insurance_policy_document_url,omitempty"`

	BranchesCountries  []string `json:"branches_countries,omitempty"`
	CoreActivities     []string `json:"core_activities,omitempty"`
	SupportedCountries string   `json:"supported_countries,omitempty"`
	ServiceSectors     string   `json:"service_sectors,omitempty"`
	TechStack          string   `json:"tech_stack,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// MemberPage is one page of directory results.
type MemberPage struct {
	Rows        []MemberRow `json:"rows"`
	CurrentPage int         `json:"currentPage"`
	// LastPage and Total are nil when the backend did not report them.
	LastPage *int `json:"lastPage"`
	Total    *int `json:"total"`
}
