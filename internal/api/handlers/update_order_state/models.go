package update_order_state

import (
	"github.com/m04kA/SMC-OrderFlow/internal/service/orders/models"
)

// UpdateStateRequest HTTP request model
type UpdateStateRequest struct {
	State string `json:"state"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateStateRequest) ToServiceRequest(operatorID string) *models.UpdateStateRequest {
	return &models.UpdateStateRequest{
		OperatorID: operatorID,
		State:      r.State,
	}
}
