package directory

import (
	"sort"
	"strings"

	"glsalliance/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Kind selects one of the two public directories.
type Kind string

const (
	KindFreightForwarder Kind = "freight_forwarder"
	KindImporterExporter Kind = "importer_exporter"
)

// KindFromSlug accepts the route forms of a directory name.
func KindFromSlug(slug string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(slug)) {
	case "freight_forwarder", "freight-forwarder", "forwarders":
		return KindFreightForwarder, true
	case "importer_exporter", "importer-exporter", "exporters":
		return KindImporterExporter, true
	}
	return "", false
}

// SortKey orders the loaded page.
type SortKey string

const (
	SortAZ          SortKey = "az"
	SortYearsNewest SortKey = "years_newest"
	SortYearsOldest SortKey = "years_oldest"
	SortCity        SortKey = "city"
)

func (s SortKey) Valid() bool {
	switch s {
	case SortAZ, SortYearsNewest, SortYearsOldest, SortCity:
		return true
	}
	return false
}

// DefaultSort is the order a directory opens with.
func (k Kind) DefaultSort() SortKey {
	if k == KindFreightForwarder {
		return SortYearsNewest
	}
	return SortAZ
}

// allCities is the city dropdown's "no filter" entry.
const allCities = "All Cities"

// Filter is one directory query.
type Filter struct {
	Kind       Kind    `json:"kind"`
	Country    string  `json:"country"`
	City       string  `json:"city"`
	Keyword    string  `json:"keyword"`
	CategoryID string  `json:"categoryId,omitempty"`
	Sort       SortKey `json:"sort"`
	Page       int     `json:"page"`
}

// HasFilters reports whether anything narrows the listing.
func (f Filter) HasFilters() bool {
	return f.Country != "" ||
		(f.City != "" && f.City != allCities) ||
		strings.TrimSpace(f.Keyword) != "" ||
		(f.Kind == KindImporterExporter && f.CategoryID != "")
}

// Row is a directory entry as listed.
type Row struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Country string   `json:"country"`
	City    string   `json:"city"`
	Years   int      `json:"years,omitempty"`
	Tags    []string `json:"tags"`
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func toRow(m models.MemberRow) Row {
	name := m.DisplayName()
	if name == "" {
		name = "Unnamed Company"
	}
	tags := m.Tags
	if tags == nil {
		tags = []string{}
	}
	return Row{
		ID:      m.ID.String(),
		Name:    name,
		Country: orDash(m.Country),
		City:    orDash(m.City),
		Years:   int(m.Years),
		Tags:    tags,
	}
}

// SortRows returns a sorted copy of rows. Text comparison ignores case and
// equal rows keep their backend order.
func SortRows(rows []Row, key SortKey) []Row {
	out := append([]Row(nil), rows...)
	col := collate.New(language.English, collate.IgnoreCase)
	byName := func(a, b Row) int { return col.CompareString(a.Name, b.Name) }

	var less func(a, b Row) bool
	switch key {
	case SortYearsNewest:
		less = func(a, b Row) bool { return a.Years > b.Years }
	case SortYearsOldest:
		less = func(a, b Row) bool { return a.Years < b.Years }
	case SortCity:
		less = func(a, b Row) bool {
			if c := col.CompareString(a.City, b.City); c != 0 {
				return c < 0
			}
			return byName(a, b) < 0
		}
	default:
		less = func(a, b Row) bool { return byName(a, b) < 0 }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
