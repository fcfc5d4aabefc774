package get_available_slots

import (
	"context"

	slotsUC "github.com/m04kA/SMC-OrderFlow/internal/usecase/get_available_slots"
)

// SlotGrid сетка слотов мойки на дату
type SlotGrid interface {
	Execute(ctx context.Context, req *slotsUC.Request) (*slotsUC.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
