package listings

// Recognized input columns. Anything else passes through untouched in Extra.
const (
	FieldStreet        = "street"
	FieldCity          = "city"
	FieldNeighbourhood = "neighbourhood"
	FieldPrice         = "property_price"
	FieldRooms         = "property_rooms"
)

// Record is one raw input row: the typed fields used for filtering and
// ranking, plus a bag of display-only attributes carried through untouched.
type Record struct {
	Street        string
	City          string
	Neighbourhood string
	RawPrice      string
	RawRooms      string
	Extra         map[string]string
}

// Listing is a Record normalized for the pipeline: price and rooms parsed to
// numbers and a single composed address. The pipeline enriches it in place
// with geocoding and nearest-POI data; it is never mutated afterwards.
type Listing struct {
	Record

	Address string
	Price   float64
	Rooms   float64

	// Set during enrichment.
	Latitude         float64
	Longitude        float64
	FormattedAddress string
	GeocodeStatus    string
	GeocodeError     string

	POIName     string
	POIAddress  string
	POICategory string
	DistanceKm  float64
}
