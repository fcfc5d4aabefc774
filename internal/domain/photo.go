package domain

// PhotoCategory interior or exterior vehicle photo group
type PhotoCategory string

const (
	PhotoInterior PhotoCategory = "interior"
	PhotoExterior PhotoCategory = "exterior"
)

// PhotoCategories categories in upload order
var PhotoCategories = []PhotoCategory{PhotoInterior, PhotoExterior}

// IsValid checks the category value
func (c PhotoCategory) IsValid() bool {
	return c == PhotoInterior || c == PhotoExterior
}

// VehicleImage a stored vehicle photo
// Category is empty when the backend did not tag the image
type VehicleImage struct {
	ID       string
	Filename string
	URL      string
	Category PhotoCategory
}

// NewImage an image selected by the user but not uploaded yet
type NewImage struct {
	Filename    string
	ContentType string
	Data        []byte
	Category    PhotoCategory
}
