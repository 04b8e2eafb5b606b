package domain

// Place is a search result from the geocoding service.
type Place struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Location GeoPoint `json:"location"` // entrance used for routing
}
