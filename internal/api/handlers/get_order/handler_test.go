package get_order

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OrderFlow/internal/api/middleware"
	"github.com/m04kA/SMC-OrderFlow/internal/service/orders"
	"github.com/m04kA/SMC-OrderFlow/internal/service/orders/models"
	"github.com/m04kA/SMC-OrderFlow/pkg/logger"
)

const orderID = "0e6c1a54-8f1b-4c47-9d2e-5a3b7c9d1e2f"

type fakeService struct {
	err      error
	gotUser  string
	gotOrder string
}

func (f *fakeService) GetByID(ctx context.Context, id string, userID string) (*models.OrderResponse, error) {
	f.gotOrder, f.gotUser = id, userID
	if f.err != nil {
		return nil, f.err
	}
	return &models.OrderResponse{ID: id, CustomerID: userID, State: "pending"}, nil
}

func serve(svc OrderService, path, user string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/orders/{orderId}", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(middleware.HeaderUserID, user)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "/orders/"+orderID, "c1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, orderID, svc.gotOrder)
	assert.Equal(t, "c1", svc.gotUser)

	var body models.OrderResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, orderID, body.ID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"invalid id", "/orders/not-a-uuid", nil, http.StatusBadRequest},
		{"not found", "/orders/" + orderID, orders.ErrOrderNotFound, http.StatusNotFound},
		{"foreign order", "/orders/" + orderID, orders.ErrAccessDenied, http.StatusForbidden},
		{"storage failure", "/orders/" + orderID, orders.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, serve(&fakeService{err: tt.err}, tt.path, "c1").Code)
		})
	}
}
