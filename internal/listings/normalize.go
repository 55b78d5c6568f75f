package listings

import (
	"math"
	"strconv"
	"strings"
)

// Normalize derives a Listing from a raw record. ok is false when the record
// is ineligible: empty composed address, or price/rooms that do not parse to
// finite numbers.
func Normalize(rec Record) (*Listing, bool) {
	address := ComposeAddress(rec.Street, rec.City)
	if address == "" {
		return nil, false
	}

	price, ok := parseNumber(rec.RawPrice)
	if !ok {
		return nil, false
	}
	rooms, ok := parseNumber(rec.RawRooms)
	if !ok {
		return nil, false
	}

	return &Listing{
		Record:  rec,
		Address: address,
		Price:   price,
		Rooms:   rooms,
	}, true
}

// ComposeAddress joins street and city into a single geocodable string.
func ComposeAddress(street, city string) string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(street); s != "" {
		parts = append(parts, s)
	}
	if c := strings.TrimSpace(city); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, ", ")
}

// Filter keeps listings with price at most maxPrice and at least minRooms
// rooms. Filtering runs before geocoding; the expensive step only sees
// survivors.
func Filter(items []*Listing, maxPrice, minRooms float64) []*Listing {
	kept := make([]*Listing, 0, len(items))
	for _, l := range items {
		if l.Price <= maxPrice && l.Rooms >= minRooms {
			kept = append(kept, l)
		}
	}
	return kept
}

// parseNumber strips everything but digits and the decimal point from a raw
// string ("1,800,000 ₪" → 1800000) and parses the remainder.
func parseNumber(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
