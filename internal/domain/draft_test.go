package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OrderFlow/pkg/types"
)

var draftNow = time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC)

func svc(id string, price int64) Service {
	return Service{ID: id, Title: "service " + id, Price: decimal.NewFromInt(price)}
}

func fullDraft(t *testing.T) *OrderDraft {
	t.Helper()
	d := NewOrderDraft("d1", "", draftNow)
	d.SetVehicle("v1")
	d.SetAddress("a1", decimal.NewFromInt(20))
	d.AddService(svc("A", 100))
	d.SetSchedule(draftNow.AddDate(0, 0, 1), types.TimeString("10:30"))
	return d
}

func TestOrderDraft_GrandTotal(t *testing.T) {
	d := NewOrderDraft("d1", "", draftNow)
	d.SetVehicle("v1")
	d.SetAddress("a1", decimal.NewFromInt(20))
	d.AddService(svc("A", 100))
	d.AddService(svc("B", 50))

	assert.True(t, d.TotalAmount().Equal(decimal.NewFromInt(150)))
	assert.True(t, d.GrandTotal().Equal(decimal.NewFromInt(170)))

	require.True(t, d.RemoveService("B"))
	assert.True(t, d.GrandTotal().Equal(decimal.NewFromInt(120)))
	assert.Equal(t, DefaultCurrency, d.Currency())
}

func TestOrderDraft_AddServiceIsSet(t *testing.T) {
	d := NewOrderDraft("d1", "USD", draftNow)

	assert.True(t, d.AddService(svc("A", 100)))
	assert.False(t, d.AddService(svc("A", 999)))
	assert.Equal(t, 1, d.ServiceCount())
	assert.True(t, d.TotalAmount().Equal(decimal.NewFromInt(100)))
	assert.False(t, d.RemoveService("missing"))
}

func TestOrderDraft_SetVehicleClearsSelection(t *testing.T) {
	d := fullDraft(t)

	assert.False(t, d.SetVehicle("v1"), "same vehicle keeps selection")
	assert.Equal(t, "a1", d.AddressID())

	assert.True(t, d.SetVehicle("v2"))
	assert.Equal(t, "v2", d.VehicleID())
	assert.Empty(t, d.AddressID())
	assert.Zero(t, d.ServiceCount())
	assert.True(t, d.TravelFee().IsZero())
	assert.True(t, d.GrandTotal().IsZero())
}

func TestOrderDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(d *OrderDraft)
		wantErr error
	}{
		{name: "complete", mutate: func(d *OrderDraft) {}},
		{name: "no services", mutate: func(d *OrderDraft) { d.RemoveService("A") }, wantErr: ErrDraftNoServices},
		{name: "no vehicle", mutate: func(d *OrderDraft) { d.vehicleID = "" }, wantErr: ErrDraftNoVehicle},
		{name: "no address", mutate: func(d *OrderDraft) { d.addressID = "" }, wantErr: ErrDraftNoAddress},
		{name: "no schedule", mutate: func(d *OrderDraft) { d.ClearSchedule() }, wantErr: ErrDraftNoSchedule},
		{name: "only date", mutate: func(d *OrderDraft) { d.serviceTime = "" }, wantErr: ErrDraftPartialSchedule},
		{
			name:    "date in past",
			mutate:  func(d *OrderDraft) { d.SetSchedule(draftNow.AddDate(0, 0, -1), "10:00") },
			wantErr: ErrDraftDateInPast,
		},
		{
			name:   "today is allowed",
			mutate: func(d *OrderDraft) { d.SetSchedule(draftNow, "18:00") },
		},
		{
			name:    "time off grid",
			mutate:  func(d *OrderDraft) { d.SetSchedule(draftNow.AddDate(0, 0, 1), "10:15") },
			wantErr: ErrDraftTimeOffGrid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := fullDraft(t)
			tt.mutate(d)
			err := d.Validate(draftNow)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, errors.Is(err, ErrPrecondition))
		})
	}
}

func TestOrderDraft_CloneIsIndependent(t *testing.T) {
	d := fullDraft(t)
	c := d.Clone()

	c.AddService(svc("B", 50))
	c.SetVehicle("v9")

	assert.Equal(t, 1, d.ServiceCount())
	assert.Equal(t, "v1", d.VehicleID())
	assert.Equal(t, 0, len(NewOrderDraft("x", "", draftNow).Services()))
}

func TestOrder_CanTransitionTo(t *testing.T) {
	o := &Order{State: OrderStatePending}
	assert.True(t, o.IsActive())
	assert.True(t, o.CanTransitionTo(OrderStateConfirmed))
	assert.False(t, o.CanTransitionTo(OrderStateCompleted))
	assert.True(t, o.CanTransitionTo(OrderStateCanceled))

	o.State = OrderStateInProgress
	assert.False(t, o.CanBeCancelled())
	assert.True(t, o.CanTransitionTo(OrderStateCompleted))

	o.State = OrderStateCanceled
	assert.False(t, o.IsActive())
}

func TestOrder_OverlapsWith(t *testing.T) {
	o := &Order{ServiceTime: "10:00", DurationMinutes: 60}

	assert.True(t, o.OverlapsWith(600, 30))
	assert.True(t, o.OverlapsWith(630, 30))
	assert.False(t, o.OverlapsWith(660, 30))
	assert.False(t, o.OverlapsWith(570, 30))
}

func TestDateOnly(t *testing.T) {
	istanbul := time.FixedZone("TRT", 3*60*60)

	// 01:30 по Стамбулу 11 мая, в UTC это еще 10 мая
	got := DateOnly(time.Date(2026, 5, 11, 1, 30, 0, 0, istanbul))

	assert.Equal(t, time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}
