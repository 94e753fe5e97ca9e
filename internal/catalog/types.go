package catalog

// Dog is an adoptable-dog record as returned by the catalog service.
// Records are immutable snapshots; the client never mutates them.
type Dog struct {
	ID      string `json:"id"`
	Img     string `json:"img"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	ZipCode string `json:"zip_code"`
	Breed   string `json:"breed"`
}

// Location describes the area behind a zip code. The service returns null for
// zip codes it does not know, so batch lookups carry nullable entries.
type Location struct {
	ZipCode   string  `json:"zip_code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	County    string  `json:"county,omitempty"`
}

// Coordinate is a latitude/longitude pair for geo bounding boxes.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SearchQuery holds the /dogs/search parameters. Zero values are omitted
// from the request; the service defaults size to 25 when absent.
type SearchQuery struct {
	Breeds   []string
	ZipCodes []string
	AgeMin   *int
	AgeMax   *int
	Size     int
	// From is the opaque pagination cursor from a previous result's
	// next/prev token. Stored and resent verbatim, never reconstructed.
	From string
	// Sort is "field:asc" or "field:desc".
	Sort string
}

// SearchResult is one page of search results: opaque dog IDs plus the
// total match count (the service caps it at 10,000) and pagination tokens.
type SearchResult struct {
	ResultIDs []string `json:"resultIds"`
	Total     int      `json:"total"`
	Next      string   `json:"next,omitempty"`
	Prev      string   `json:"prev,omitempty"`
}

// GeoBox bounds a location search geographically. The service accepts either
// the four edges or any pair of opposite corners.
type GeoBox struct {
	Top         *Coordinate `json:"top,omitempty"`
	Left        *Coordinate `json:"left,omitempty"`
	Bottom      *Coordinate `json:"bottom,omitempty"`
	Right       *Coordinate `json:"right,omitempty"`
	BottomLeft  *Coordinate `json:"bottom_left,omitempty"`
	TopLeft     *Coordinate `json:"top_left,omitempty"`
	BottomRight *Coordinate `json:"bottom_right,omitempty"`
	TopRight    *Coordinate `json:"top_right,omitempty"`
}

// LocationQuery holds the /locations/search body.
type LocationQuery struct {
	City           string   `json:"city,omitempty"`
	States         []string `json:"states,omitempty"`
	GeoBoundingBox *GeoBox  `json:"geoBoundingBox,omitempty"`
	Size           int      `json:"size,omitempty"`
	From           string   `json:"from,omitempty"`
}

// LocationPage is one page of location search results.
type LocationPage struct {
	Results []*Location `json:"results"`
	Total   int         `json:"total"`
}
