package geocode

import "strings"

// Format builds a single lookup string from an invoice address: non-empty
// fields joined by ", " in the order street, city, postcode, region, country.
// The second return is false when no field is present.
func Format(addr Address) (string, bool) {
	parts := make([]string, 0, 5)
	for _, field := range []string{addr.Street, addr.City, addr.Postcode, addr.Region, addr.Country} {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	if len(parts) == 0 {
		return "", false
	}

	return strings.Join(parts, ", "), true
}
