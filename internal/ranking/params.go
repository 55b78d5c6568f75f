package ranking

import (
	"fmt"

	apperrors "github.com/homescout/homescout/internal/errors"
)

// POI type selectors accepted by the tool.
const (
	POITypeClinic = "clinic"
	POITypeSchool = "school"
	POITypeBoth   = "both"
)

// Defaults and bounds for request parameters.
const (
	DefaultLocation = "Haifa"
	DefaultMaxPrice = 2_000_000
	DefaultMinRooms = 3
	DefaultTopN     = 3
	MinTopN         = 1
	MaxTopN         = 20
)

// Params are the query parameters of one ranking request.
type Params struct {
	Location string
	MaxPrice float64
	MinRooms float64
	POIType  string
	TopN     int
}

// DefaultParams returns Params populated with the documented defaults.
func DefaultParams() Params {
	return Params{
		Location: DefaultLocation,
		MaxPrice: DefaultMaxPrice,
		MinRooms: DefaultMinRooms,
		POIType:  POITypeClinic,
		TopN:     DefaultTopN,
	}
}

// Normalize fills empty fields with defaults and clamps TopN to its bounds.
func (p *Params) Normalize() {
	if p.Location == "" {
		p.Location = DefaultLocation
	}
	if p.POIType == "" {
		p.POIType = POITypeClinic
	}
	if p.TopN == 0 {
		p.TopN = DefaultTopN
	}
	if p.TopN < MinTopN {
		p.TopN = MinTopN
	}
	if p.TopN > MaxTopN {
		p.TopN = MaxTopN
	}
}

// Validate checks the POI type selector.
func (p Params) Validate() error {
	switch p.POIType {
	case POITypeClinic, POITypeSchool, POITypeBoth:
		return nil
	default:
		return apperrors.NewValidationError("poiType",
			fmt.Sprintf("poiType must be %q, %q or %q", POITypeClinic, POITypeSchool, POITypeBoth))
	}
}
