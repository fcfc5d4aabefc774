package update_order_state

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OrderFlow/internal/api/middleware"
	"github.com/m04kA/SMC-OrderFlow/internal/service/orders"
	"github.com/m04kA/SMC-OrderFlow/internal/service/orders/models"
	"github.com/m04kA/SMC-OrderFlow/pkg/logger"
)

const orderID = "0c1d2e3f-4a5b-4c6d-8e7f-9a0b1c2d3e4f"

type fakeService struct {
	got *models.UpdateStateRequest
	err error
}

func (f *fakeService) UpdateState(ctx context.Context, id string, req *models.UpdateStateRequest) (*models.OrderResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.OrderResponse{ID: id, State: req.State}, nil
}

func serve(svc OrderService, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/orders/{orderId}/state", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "operator-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_PassesOperator(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "/orders/"+orderID+"/state", `{"state":"in_progress"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, "operator-1", svc.got.OperatorID)
	assert.Equal(t, "in_progress", svc.got.State)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		err    error
		status int
	}{
		{"invalid id", "/orders/x/state", `{"state":"completed"}`, nil, http.StatusBadRequest},
		{"unknown field", "/orders/" + orderID + "/state", `{"status":"completed"}`, nil, http.StatusBadRequest},
		{"not an operator", "/orders/" + orderID + "/state", `{"state":"completed"}`, orders.ErrAccessDenied, http.StatusForbidden},
		{"missing order", "/orders/" + orderID + "/state", `{"state":"completed"}`, orders.ErrOrderNotFound, http.StatusNotFound},
		{"bad state", "/orders/" + orderID + "/state", `{"state":"washing"}`, orders.ErrInvalidInput, http.StatusBadRequest},
		{"backwards", "/orders/" + orderID + "/state", `{"state":"pending"}`, orders.ErrInvalidTransition, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
