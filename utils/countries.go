package utils

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var regionNamer = display.English.Regions()

// CountryName turns an ISO 3166 alpha-2 code into its English name. Unknown
// codes and values that already look like names are returned unchanged.
func CountryName(code string) string {
	code = strings.TrimSpace(code)
	if len(code) != 2 {
		return code
	}
	region, err := language.ParseRegion(strings.ToUpper(code))
	if err != nil || !region.IsCountry() {
		return code
	}
	name := regionNamer.Name(region)
	if name == "" {
		return code
	}
	return name
}

// CountryNames maps CountryName over codes.
func CountryNames(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		out = append(out, CountryName(c))
	}
	return out
}
