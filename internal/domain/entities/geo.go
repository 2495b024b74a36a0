package entities

// GeoType is the kind of geographic entity a user can pick
type GeoType string

const (
	GeoTypeCountry GeoType = "country"
	GeoTypeCity    GeoType = "city"
	GeoTypeHotel   GeoType = "hotel"
)

// Valid reports whether t is one of the known geo types
func (t GeoType) Valid() bool {
	switch t {
	case GeoTypeCountry, GeoTypeCity, GeoTypeHotel:
		return true
	}
	return false
}

// GeoSelection is a user's geographic pick, always scoped to a country.
// It is passed by value or as a pointer where nil means "no selection".
type GeoSelection struct {
	ID        string  `json:"id"`
	Type      GeoType `json:"type"`
	CountryID string  `json:"countryId"`
}

// GeoItem is a selectable suggestion row
type GeoItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Type      GeoType `json:"type"`
	CountryID string  `json:"countryId,omitempty"`
}

// Selection converts the item into a selection. Items without an owning
// country cannot drive a search and yield nil.
func (i GeoItem) Selection() *GeoSelection {
	if i.CountryID == "" {
		return nil
	}
	return &GeoSelection{ID: i.ID, Type: i.Type, CountryID: i.CountryID}
}

// Country represents a country in the directory
type Country struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// City represents a city in the directory
type City struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CountryID string `json:"countryId"`
}
