package entities

// HotelInfo is the listing record of a hotel within a country
type HotelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Img         string `json:"img"`
	CityID      string `json:"cityId"`
	CityName    string `json:"cityName"`
	CountryID   string `json:"countryId"`
	CountryName string `json:"countryName"`
}

// HotelIndex maps hotel id to its listing record
type HotelIndex map[string]HotelInfo

// ServiceAvailability is the backend's tri-state answer for a hotel service
type ServiceAvailability string

const (
	ServiceYes  ServiceAvailability = "yes"
	ServiceNo   ServiceAvailability = "no"
	ServiceNone ServiceAvailability = "none"
)

// HotelServices lists the services a hotel reports
type HotelServices struct {
	WiFi        ServiceAvailability `json:"wifi,omitempty"`
	Aquapark    ServiceAvailability `json:"aquapark,omitempty"`
	TennisCourt ServiceAvailability `json:"tennis_court,omitempty"`
	Laundry     ServiceAvailability `json:"laundry,omitempty"`
	Parking     ServiceAvailability `json:"parking,omitempty"`
}

// HotelDetails is the per-hotel detail record
type HotelDetails struct {
	Services *HotelServices `json:"services,omitempty"`
}

// EmptyHotelDetails stands in for a hotel whose details could not be fetched.
var EmptyHotelDetails = &HotelDetails{}

// Amenity is a displayable hotel feature
type Amenity string

const (
	AmenityWiFi     Amenity = "wifi"
	AmenityParking  Amenity = "parking"
	AmenityLaundry  Amenity = "laundry"
	AmenityTennis   Amenity = "tennis"
	AmenityAquapark Amenity = "aquapark"
)

// Amenities returns the features to display, in display order
func (d *HotelDetails) Amenities() []Amenity {
	if d == nil || d.Services == nil {
		return nil
	}
	s := d.Services

	var out []Amenity
	if s.WiFi == ServiceYes {
		out = append(out, AmenityWiFi)
	}
	if s.Parking == ServiceYes {
		out = append(out, AmenityParking)
	}
	if s.Laundry == ServiceYes {
		out = append(out, AmenityLaundry)
	}
	if s.TennisCourt == ServiceYes {
		out = append(out, AmenityTennis)
	}
	// aquapark may carry a free-form value, anything but an explicit no counts
	if s.Aquapark != "" && s.Aquapark != ServiceNone && s.Aquapark != ServiceNo {
		out = append(out, AmenityAquapark)
	}
	return out
}
