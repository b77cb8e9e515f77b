package models

type Conference struct {
	ID              FlexString `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	Intro           string     `json:"intro,omitempty"`
	Description     string     `json:"description,omitempty"`
	BannerImageURL  string     `json:"banner_image_url,omitempty"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date,omitempty"`
	Venue           string     `json:"venue,omitempty"`
	City            string     `json:"city,omitempty"`
	State           string     `json:"state,omitempty"`
	Country         string     `json:"country,omitempty"`
	FullAddress     string     `json:"full_address,omitempty"`
	DateRange       string     `json:"date_range,omitempty"`
	TimeRange       string     `json:"time_range,omitempty"`
	Website         string     `json:"website,omitempty"`
	RegistrationURL string     `json:"registration_url,omitempty"`
	ContactEmail    string     `json:"contact_email,omitempty"`
	ContactPhone    string     `json:"contact_phone,omitempty"`
	Status          string     `json:"status"`
}

type TitledText struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Office struct {
	ID           FlexString `json:"id"`
	OfficeName   string     `json:"office_name"`
	CompanyName  string     `json:"company_name"`
	AddressLines []string   `json:"address_lines"`
	Phones       []string   `json:"phones"`
	Emails       []string   `json:"emails"`
}

type ContactDetails struct {
	WhoWeAre      TitledText `json:"who_we_are"`
	Vision        TitledText `json:"vision"`
	Mission       TitledText `json:"mission"`
	GlobalContact struct {
		Phones []string `json:"phones"`
		Emails []string `json:"emails"`
	} `json:"global_contact"`
	Offices          []Office `json:"offices"`
	RegisteredOffice struct {
		Title   string   `json:"title"`
		Address []string `json:"address"`
	} `json:"registered_office"`
}

type HomeHero struct {
	ID              FlexString `json:"id"`
	Title           string     `json:"title"`
	Subtitle        string     `json:"subtitle"`
	Paragraph       string     `json:"paragraph"`
	Slug            string     `json:"slug"`
	SortOrder       FlexInt    `json:"sort_order"`
	Status          string     `json:"status"`
	IsActive        FlexBool   `json:"is_active"`
	ImageDesktopURL string     `json:"image_desktop_url,omitempty"`
	ImageMobileURL  string     `json:"image_mobile_url,omitempty"`
}

type Testimonial struct {
	ID          FlexString `json:"id"`
	Name        string     `json:"name"`
	Designation string     `json:"designation"`
	Company     string     `json:"company"`
	Message     string     `json:"message"`
	ImageURL    string     `json:"image_url,omitempty"`
	Status      string     `json:"status"`
	SortOrder   FlexInt    `json:"sort_order"`
}
