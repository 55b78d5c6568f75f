package ranking

import (
	"fmt"
	"strings"
)

// Render projects the selected listings to a one-line summary and a Markdown
// table. It is a pure function of the result; no side effects.
func (r *Result) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Top %d listings in %s ranked by distance to the nearest %s:\n\n",
		len(r.Listings), r.Params.Location, poiTypeLabel(r.Params.POIType))

	b.WriteString("| # | Address | Price | Rooms | Nearest POI | Category | Distance (km) |\n")
	b.WriteString("|---|---------|-------|-------|-------------|----------|---------------|\n")
	for i, l := range r.Listings {
		address := l.FormattedAddress
		if address == "" {
			address = l.Address
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %.2f |\n",
			i+1,
			escapeCell(address),
			formatNumber(l.Price),
			formatNumber(l.Rooms),
			escapeCell(l.POIName),
			l.POICategory,
			l.DistanceKm,
		)
	}

	return b.String()
}

func poiTypeLabel(poiType string) string {
	if poiType == POITypeBoth {
		return "clinic or school"
	}
	return poiType
}

// escapeCell keeps pipe characters in free-form values from breaking the table.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// formatNumber drops the trailing ".0" from whole values (4 rooms, not 4.0).
func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%.1f", n)
}
