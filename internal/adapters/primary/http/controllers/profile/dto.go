package profileController

// SaveProfileRequest тело POST /profile
type SaveProfileRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	BirthDate     string `json:"birth_date"`
	BirthTime     string `json:"birth_time"`
	BirthLocation string `json:"birth_location"`
	BirthCountry  string `json:"birth_country"`
}
