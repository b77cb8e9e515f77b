package models

// ProfileType selects which registration branch applies.
type ProfileType string

const (
	ProfileImporterExporter ProfileType = "importer_exporter"
	ProfileServiceProvider  ProfileType = "service_provider"
)

// Valid reports whether p is one of the two selectable profile types.
func (p ProfileType) Valid() bool {
	return p == ProfileImporterExporter || p == ProfileServiceProvider
}

// PackageTerm is the membership package length picked in the package step variant.
type PackageTerm string

const (
	PackageTerm1M  PackageTerm = "1m"
	PackageTerm3M  PackageTerm = "3m"
	PackageTerm6M  PackageTerm = "6m"
	PackageTerm12M PackageTerm = "12m"
)

// Valid reports whether t is a known package term.
func (t PackageTerm) Valid() bool {
	switch t {
	case PackageTerm1M, PackageTerm3M, PackageTerm6M, PackageTerm12M:
		return true
	}
	return false
}

// MaxContacts is the largest number of contact rows a registration can carry.
const MaxContacts = 4

// RegistrationForm is the whole registration application collected by the wizard.
type RegistrationForm struct {
	Username    string             `json:"username"`
	ProfileType ProfileType        `json:"profileType,omitempty"`
	Company     CompanyInfo        `json:"company"`
	Contacts    []Contact          `json:"contacts"`
	Business    BusinessReg        `json:"business"`
	Membership  Membership         `json:"membership"`
	Services    ServicesActivities `json:"services"`
	Insurance   InsuranceInfo      `json:"insurance"`
}

// MailingAddress mirrors the registered address until Diverged is set.
type MailingAddress struct {
	Title       string `json:"title,omitempty"`
	CountryCode string `json:"countryCode"`
	StateCode   string `json:"stateCode"`
	City        string `json:"city"`
	Zip         string `json:"zip,omitempty"`
	Diverged    bool   `json:"diverged"`
}

type CompanyInfo struct {
	CompanyName       string         `json:"companyName"`
	TradeName         string         `json:"tradeName,omitempty"`
	RegisteredAddress string         `json:"registeredAddress,omitempty"`
	RegCountryCode    string         `json:"regCountryCode,omitempty"`
	RegState          string         `json:"regState,omitempty"`
	RegCity           string         `json:"regCity,omitempty"`
	RegZip            string         `json:"regZip,omitempty"`
	Mailing           MailingAddress `json:"mailing"`
	YearEstablished   string         `json:"yearEstablished,omitempty"`
	Website           string         `json:"website,omitempty"`
	ProfileBrief      string         `json:"profileBrief,omitempty"`

	// Importer/exporter only.
	CoverPhoto           *PendingUpload `json:"coverPhoto,omitempty"`
	ProductCategoryID    string         `json:"productCategoryId,omitempty"`
	ProductSubcategories []string       `json:"productSubcategories,omitempty"`

	// Tri-state: nil means the visitor has not answered.
	FinancialProtectionRequired *bool `json:"financialProtectionRequired"`
	NettingRequired             *bool `json:"nettingRequired"`
}

type Contact struct {
	FullName    string `json:"fullName"`
	Designation string `json:"designation,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	AltPhone    string `json:"altPhone,omitempty"`
}

type Affiliation struct {
	Name        string `json:"name"`
	IssueDate   string `json:"issueDate,omitempty"`
	ExpiryDate  string `json:"expiryDate,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

type BusinessReg struct {
	BRCNumber    string         `json:"brcNumber"`
	IssueDate    string         `json:"issueDate,omitempty"`
	ExpiryDate   string         `json:"expiryDate,omitempty"`
	BRCFile      *PendingUpload `json:"brcFile,omitempty"`
	Affiliations []Affiliation  `json:"affiliations"`
}

type Membership struct {
	PackageTerm      PackageTerm    `json:"packageTerm,omitempty"`
	Organization     string         `json:"organization,omitempty"`
	MembershipNumber string         `json:"membershipNumber,omitempty"`
	JoinedDate       string         `json:"joinedDate,omitempty"`
	Certificate      *PendingUpload `json:"certificate,omitempty"`
}

type ServicesActivities struct {
	ServicesProvided   []string `json:"servicesProvided"`
	CoreActivities     []string `json:"coreActivities"`
	SupportedCountries []string `json:"supportedCountries"`
	ServiceSectors     string   `json:"serviceSectors,omitempty"`
	TechStack          string   `json:"techStack,omitempty"`
}

type InsuranceInfo struct {
	Provider       string         `json:"provider,omitempty"`
	PolicyType     string         `json:"policyType,omitempty"`
	PolicyNumber   string         `json:"policyNumber,omitempty"`
	CoverageAmount string         `json:"coverageAmount,omitempty"`
	ExpiryDate     string         `json:"expiryDate,omitempty"`
	PolicyDoc      *PendingUpload `json:"policyDoc,omitempty"`
}

// NewRegistrationForm returns the state a fresh wizard starts from.
func NewRegistrationForm() RegistrationForm {
	return RegistrationForm{
		Contacts: []Contact{{}},
		Business: BusinessReg{Affiliations: []Affiliation{}},
		Services: ServicesActivities{
			ServicesProvided:   []string{},
			CoreActivities:     []string{},
			SupportedCountries: []string{},
		},
	}
}

// UploadField names a binary slot of the form.
type UploadField string

const (
	UploadCoverPhoto  UploadField = "cover_photo"
	UploadBRCFile     UploadField = "brc_file"
	UploadCertificate UploadField = "certificate"
	UploadPolicyDoc   UploadField = "policy_doc"
)

// Valid reports whether f names a known upload slot.
func (f UploadField) Valid() bool {
	switch f {
	case UploadCoverPhoto, UploadBRCFile, UploadCertificate, UploadPolicyDoc:
		return true
	}
	return false
}

// PendingUpload is a file chosen in the wizard but not yet submitted. The
// payload lives in an upload store under ID; PreviewURL is valid until the
// upload is released.
type PendingUpload struct {
	ID          string      `json:"id"`
	Field       UploadField `json:"field"`
	FileName    string      `json:"fileName"`
	ContentType string      `json:"contentType"`
	Size        int64       `json:"size"`
	PreviewURL  string      `json:"previewUrl"`
	// StoreRef is the store specific handle (Redis key, Cloudinary public ID).
	StoreRef string `json:"storeRef,omitempty"`
}

// Upload returns the pending upload occupying field, or nil.
func (f *RegistrationForm) Upload(field UploadField) *PendingUpload {
	switch field {
	case UploadCoverPhoto:
		return f.Company.CoverPhoto
	case UploadBRCFile:
		return f.Business.BRCFile
	case UploadCertificate:
		return f.Membership.Certificate
	case UploadPolicyDoc:
		return f.Insurance.PolicyDoc
	}
	return nil
}

// Uploads lists every pending upload attached to the form.
func (f *RegistrationForm) Uploads() []*PendingUpload {
	var out []*PendingUpload
	for _, u := range []*PendingUpload{
		f.Company.CoverPhoto,
		f.Business.BRCFile,
		f.Membership.Certificate,
		f.Insurance.PolicyDoc,
	} {
		if u != nil {
			out = append(out, u)
		}
	}
	return out
}
