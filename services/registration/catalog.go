package registration

import "glsalliance/models"

// ServiceOptions are the selectable entries of "Services Provided".
var ServiceOptions = []string{
	"Sea Freight",
	"Air Freight Forwarding",
	"Non -Vessel Operating Common Carrier (NVOCC)",
	"Agency Handling",
	"Break Bulk",
	"Bulk Cargo",
	"Consolidation",
	"Groupage Consolidation",
	"Project Logistics",
	"In-Land Transportation",
	"Cross Border Transport",
	"Custom Brokerage",
	"Door-to-Door",
	"Cross Trade",
	"Dangerous Goods",
	"E-commerce",
	"Container Trading",
	"Warehousing",
	"Packing, Removal",
	"Exhibition Services",
	"Event Management",
	"Import",
	"Export",
	"Trading",
}

// CoreActivities are the selectable core trade activities.
var CoreActivities = []string{"Import", "Export", "Trading"}

// Catalog is everything the wizard offers as fixed choices.
type Catalog struct {
	Categories     []models.ExportCategory `json:"categories"`
	Services       []string                `json:"services"`
	CoreActivities []string                `json:"coreActivities"`
}

// GetCatalog returns the fixed choice lists. Callers must not modify them.
func GetCatalog() Catalog {
	return Catalog{
		Categories:     exportCategories,
		Services:       ServiceOptions,
		CoreActivities: CoreActivities,
	}
}

// Category looks up an export category by id.
func Category(id string) (models.ExportCategory, bool) {
	for _, c := range exportCategories {
		if c.ID == id {
			return c, true
		}
	}
	return models.ExportCategory{}, false
}

// SupportedCountriesLabel is the caption of the country multi-select.
func SupportedCountriesLabel(p models.ProfileType) string {
	if p == models.ProfileServiceProvider {
		return "Branches"
	}
	return "Operating Countries"
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
