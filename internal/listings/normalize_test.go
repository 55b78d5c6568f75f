package listings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber_ScrubsCurrencyAndSeparators(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
		ok   bool
	}{
		{"plain integer", "1800000", 1800000, true},
		{"thousands separators and shekel sign", "1,800,000 ₪", 1800000, true},
		{"decimal rooms", "3.5", 3.5, true},
		{"leading text", "price: 950000", 950000, true},
		{"empty", "", 0, false},
		{"no digits", "N/A", 0, false},
		{"multiple dots rejected", "1.2.3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseNumber(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestComposeAddress(t *testing.T) {
	assert.Equal(t, "Herzl 12, Haifa", ComposeAddress("Herzl 12", "Haifa"))
	assert.Equal(t, "Haifa", ComposeAddress("", "Haifa"))
	assert.Equal(t, "Herzl 12", ComposeAddress("Herzl 12", ""))
	assert.Equal(t, "", ComposeAddress("  ", ""))
	assert.Equal(t, "Herzl 12, Haifa", ComposeAddress(" Herzl 12 ", " Haifa "))
}

func TestNormalize_EligibleRecord(t *testing.T) {
	rec := Record{
		Street:   "Herzl 12",
		City:     "Haifa",
		RawPrice: "1,800,000 ₪",
		RawRooms: "4",
	}

	l, ok := Normalize(rec)
	require.True(t, ok)
	assert.Equal(t, "Herzl 12, Haifa", l.Address)
	assert.Equal(t, 1800000.0, l.Price)
	assert.Equal(t, 4.0, l.Rooms)
}

func TestNormalize_IneligibleRecords(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{"empty address", Record{RawPrice: "100", RawRooms: "3"}},
		{"unparseable price", Record{Street: "Herzl 12", City: "Haifa", RawPrice: "TBD", RawRooms: "3"}},
		{"unparseable rooms", Record{Street: "Herzl 12", City: "Haifa", RawPrice: "100", RawRooms: "-"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Normalize(tt.rec)
			assert.False(t, ok)
		})
	}
}

func TestFilter_BoundsAreInclusive(t *testing.T) {
	items := []*Listing{
		{Address: "a", Price: 2_000_000, Rooms: 3},
		{Address: "b", Price: 2_000_001, Rooms: 5},
		{Address: "c", Price: 1_000_000, Rooms: 2.5},
		{Address: "d", Price: 1_500_000, Rooms: 4},
	}

	kept := Filter(items, 2_000_000, 3)
	require.Len(t, kept, 2)
	assert.Equal(t, "a", kept[0].Address)
	assert.Equal(t, "d", kept[1].Address)
}

func TestFilter_EmptyInput(t *testing.T) {
	assert.Empty(t, Filter(nil, 2_000_000, 3))
}
