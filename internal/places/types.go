package places

// POI categories. A POI's category records which search query produced it,
// not any provider-returned type metadata.
const (
	CategorySchool = "school"
	CategoryClinic = "clinic"
)

// Search queries issued per location, one per category.
const (
	schoolQuery = "elementary school"
	clinicQuery = "kupat holim clinic"
)

// POI is one school or clinic returned by the places provider.
type POI struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Category  string  `json:"category"`
	PlaceID   string  `json:"place_id"`
}

// POISet is the cached per-location structure holding both category lists.
type POISet struct {
	Schools []POI `json:"schools"`
	Clinics []POI `json:"clinics"`
}

type textSearchResponse struct {
	Status        string             `json:"status"`
	ErrorMessage  string             `json:"error_message"`
	NextPageToken string             `json:"next_page_token"`
	Results       []textSearchResult `json:"results"`
}

type textSearchResult struct {
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	PlaceID          string   `json:"place_id"`
	Geometry         geometry `json:"geometry"`
}

type geometry struct {
	Location latLng `json:"location"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
