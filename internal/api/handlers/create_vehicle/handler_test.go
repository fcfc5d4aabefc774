package create_vehicle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OrderFlow/internal/api/middleware"
	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/internal/integrations/backend"
	"github.com/m04kA/SMC-OrderFlow/pkg/inflight"
	"github.com/m04kA/SMC-OrderFlow/pkg/logger"
)

type fakeBackend struct {
	calls int
	got   backend.VehicleInput
	err   error
	hook  func()
}

func (f *fakeBackend) CreateVehicle(ctx context.Context, customerID string, in backend.VehicleInput) (*domain.Vehicle, error) {
	f.calls++
	f.got = in
	if f.hook != nil {
		f.hook()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Vehicle{ID: "v-new", CustomerID: customerID, Brand: in.Brand, Model: in.Model, Plate: in.Plate}, nil
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/vehicles", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), "c1"))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_NormalizesPlate(t *testing.T) {
	be := &fakeBackend{}
	h := NewHandler(be, inflight.NewSet(), logger.NewNop())

	rec := post(h, `{"brand":" Fiat ","model":"Egea","plate":"34abc12"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "34 ABC 12", be.got.Plate)
	assert.Equal(t, "Fiat", be.got.Brand)

	var resp VehicleResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "v-new", resp.ID)
}

func TestHandle_InvalidPlateNeverReachesBackend(t *testing.T) {
	be := &fakeBackend{}
	h := NewHandler(be, inflight.NewSet(), logger.NewNop())

	rec := post(h, `{"brand":"Fiat","model":"Egea","plate":"99A1234"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, be.calls)
}

func TestHandle_DuplicateSubmissionRejected(t *testing.T) {
	guard := inflight.NewSet()
	be := &fakeBackend{}
	h := NewHandler(be, guard, logger.NewNop())

	var nested *httptest.ResponseRecorder
	be.hook = func() {
		be.hook = nil
		nested = post(h, `{"brand":"Fiat","model":"Egea","plate":"34A1234"}`)
	}

	rec := post(h, `{"brand":"Fiat","model":"Egea","plate":"34A1234"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, nested)
	assert.Equal(t, http.StatusConflict, nested.Code)
	assert.Equal(t, 1, be.calls)
	assert.False(t, guard.Busy("c1"))
}

func TestHandle_BackendErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: plate taken", backend.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: bad brand", backend.ErrBadRequest), http.StatusBadRequest},
		{fmt.Errorf("%w: 502", backend.ErrUnavailable), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		h := NewHandler(&fakeBackend{err: tt.err}, inflight.NewSet(), logger.NewNop())
		rec := post(h, `{"brand":"Fiat","model":"Egea","plate":"34A1234"}`)
		assert.Equal(t, tt.status, rec.Code, tt.err.Error())
	}
}
