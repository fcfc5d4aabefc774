package get_available_slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	slotsUC "github.com/m04kA/SMC-OrderFlow/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-OrderFlow/pkg/logger"
	"github.com/m04kA/SMC-OrderFlow/pkg/types"
)

type fakeUseCase struct {
	req  *slotsUC.Request
	resp *slotsUC.Response
	err  error
}

func (f *fakeUseCase) Execute(ctx context.Context, req *slotsUC.Request) (*slotsUC.Response, error) {
	f.req = req
	return f.resp, f.err
}

func TestHandle(t *testing.T) {
	date := time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &slotsUC.Response{
		Date: date,
		Slots: []slotsUC.Slot{
			{StartTime: types.TimeString("09:00"), DurationMinutes: 30, AvailableSpots: 0, TotalSpots: 2},
			{StartTime: types.TimeString("09:30"), DurationMinutes: 30, AvailableSpots: 2, TotalSpots: 2},
		},
	}}
	h := NewHandler(uc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/slots?date=2026-05-11", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, date, uc.req.Date)

	var resp SlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "2026-05-11", resp.Date)
	assert.Equal(t, 1, resp.FreeSlots)
	require.Len(t, resp.Slots, 2)
	assert.False(t, resp.Slots[0].IsAvailable)
	assert.True(t, resp.Slots[1].IsAvailable)
	assert.Equal(t, "2026-05-11T09:30", resp.Slots[1].ID)

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/slots?date=2026-05-11&free=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "09:30", resp.Slots[0].StartTime)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		err    error
		status int
	}{
		{"missing date", "", nil, http.StatusBadRequest},
		{"bad format", "?date=11-05-2026", nil, http.StatusBadRequest},
		{"past date", "?date=2026-05-01", slotsUC.ErrInvalidDate, http.StatusBadRequest},
		{"too far", "?date=2027-05-01", fmt.Errorf("%w: 30 days", slotsUC.ErrDateTooFarInFuture), http.StatusBadRequest},
		{"bad free flag", "?date=2026-05-11&free=maybe", nil, http.StatusBadRequest},
		{"storage failure", "?date=2026-05-11", slotsUC.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, logger.NewNop())
			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodGet, "/slots"+tt.query, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
