package backend

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
)

// Vehicle модель автомобиля из backend
type Vehicle struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customer_id"`
	Brand      string  `json:"brand"`
	Model      string  `json:"model"`
	Plate      string  `json:"plate"`
	Images     []Image `json:"images"`
}

// VehicleInput данные для создания и изменения автомобиля
type VehicleInput struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Plate string `json:"plate"`
}

// Image модель изображения автомобиля
type Image struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Category string `json:"category,omitempty"`
}

// Address модель адреса клиента
type Address struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customer_id"`
	Title      string  `json:"title"`
	Line       string  `json:"line"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// AddressInput данные для создания адреса
type AddressInput struct {
	Title     string  `json:"title"`
	Line      string  `json:"line"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Service модель услуги из каталога
type Service struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
}

// ErrorResponse модель ошибки от backend
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (v *Vehicle) toDomain() domain.Vehicle {
	images := make([]domain.VehicleImage, 0, len(v.Images))
	for i := range v.Images {
		images = append(images, v.Images[i].toDomain())
	}
	return domain.Vehicle{
		ID:         v.ID,
		CustomerID: v.CustomerID,
		Brand:      v.Brand,
		Model:      v.Model,
		Plate:      v.Plate,
		Images:     images,
	}
}

func (i *Image) toDomain() domain.VehicleImage {
	category := domain.PhotoCategory(i.Category)
	if !category.IsValid() {
		category = ""
	}
	return domain.VehicleImage{
		ID:       i.ID,
		Filename: i.Filename,
		URL:      i.URL,
		Category: category,
	}
}

func (a *Address) toDomain() domain.Address {
	return domain.Address{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Title:      a.Title,
		Line:       a.Line,
		Latitude:   a.Latitude,
		Longitude:  a.Longitude,
	}
}

func (s *Service) toDomain() domain.Service {
	return domain.Service{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Price:       s.Price,
		Images:      s.Images,
	}
}
