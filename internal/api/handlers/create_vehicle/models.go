package create_vehicle

import (
	"strings"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/internal/integrations/backend"
)

// CreateVehicleRequest HTTP request model
type CreateVehicleRequest struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Plate string `json:"plate"`
}

// ToBackendInput конвертирует запрос, подставляя нормализованный номер
func (r *CreateVehicleRequest) ToBackendInput(normalizedPlate string) backend.VehicleInput {
	return backend.VehicleInput{
		Brand: strings.TrimSpace(r.Brand),
		Model: strings.TrimSpace(r.Model),
		Plate: normalizedPlate,
	}
}

// VehicleResponse HTTP response model
type VehicleResponse struct {
	ID    string `json:"id"`
	Brand string `json:"brand"`
	Model string `json:"model"`
	Plate string `json:"plate"`
}

// FromDomain конвертирует автомобиль в HTTP ответ
func FromDomain(v *domain.Vehicle) *VehicleResponse {
	return &VehicleResponse{
		ID:    v.ID,
		Brand: v.Brand,
		Model: v.Model,
		Plate: v.Plate,
	}
}
