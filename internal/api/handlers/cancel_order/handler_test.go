package cancel_order

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-OrderFlow/internal/api/middleware"
	"github.com/m04kA/SMC-OrderFlow/internal/service/orders"
	"github.com/m04kA/SMC-OrderFlow/internal/service/orders/models"
	"github.com/m04kA/SMC-OrderFlow/pkg/logger"
)

const orderID = "9b2f7c1e-3d4a-4e5b-8c6d-7e8f9a0b1c2d"

type fakeService struct {
	err error
}

func (f *fakeService) Cancel(ctx context.Context, id string, customerID string) (*models.OrderResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.OrderResponse{ID: id, CustomerID: customerID, State: "canceled"}, nil
}

func serve(svc OrderService, path, user string) int {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/orders/{orderId}/cancel", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, path, nil)
	req.Header.Set(middleware.HeaderUserID, user)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"cancelled", "/orders/" + orderID + "/cancel", nil, http.StatusOK},
		{"invalid id", "/orders/42/cancel", nil, http.StatusBadRequest},
		{"not found", "/orders/" + orderID + "/cancel", orders.ErrOrderNotFound, http.StatusNotFound},
		{"foreign order", "/orders/" + orderID + "/cancel", orders.ErrAccessDenied, http.StatusForbidden},
		{"too late", "/orders/" + orderID + "/cancel", orders.ErrCannotCancel, http.StatusConflict},
		{"storage failure", "/orders/" + orderID + "/cancel", orders.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, serve(&fakeService{err: tt.err}, tt.path, "c1"))
		})
	}
}
