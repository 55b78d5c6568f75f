package geocoding

// Provider status values the resolver distinguishes.
const (
	StatusOK    = "OK"
	StatusError = "ERROR" // transport-level failure, not a provider status
)

// Result is the outcome of resolving one address. Failures are encoded in the
// value rather than returned as errors so a batch can continue past them.
type Result struct {
	Status           string  `json:"status"`
	ErrorMessage     string  `json:"error_message,omitempty"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
}

// OK reports whether the address resolved to coordinates.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message"`
	Results      []geocodeResult `json:"results"`
}

type geocodeResult struct {
	FormattedAddress string   `json:"formatted_address"`
	Geometry         geometry `json:"geometry"`
}

type geometry struct {
	Location latLng `json:"location"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
