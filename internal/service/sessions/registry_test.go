package sessions

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OrderFlow/internal/domain"
	"github.com/m04kA/SMC-OrderFlow/internal/service/booking"
	"github.com/m04kA/SMC-OrderFlow/pkg/logger"
)

type fakeVehicles struct {
	mu      sync.Mutex
	calls   int
	vehicle *domain.Vehicle
	err     error
}

func (f *fakeVehicles) GetVehicle(ctx context.Context, customerID, vehicleID string) (*domain.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	v := *f.vehicle
	v.ID = vehicleID
	return &v, nil
}

type gatedStore struct {
	gate chan struct{}
}

func (s *gatedStore) UploadImages(ctx context.Context, vehicleID string, images []domain.NewImage) ([]domain.VehicleImage, error) {
	out := make([]domain.VehicleImage, 0, len(images))
	for i, img := range images {
		out = append(out, domain.VehicleImage{ID: fmt.Sprintf("new-%d", i), Filename: img.Filename, Category: img.Category})
	}
	return out, nil
}

func (s *gatedStore) DeleteImage(ctx context.Context, vehicleID, imageID string) error {
	if s.gate != nil {
		<-s.gate
	}
	return nil
}

type gaugeRecorder struct {
	mu     sync.Mutex
	values map[string]int
}

func (g *gaugeRecorder) SetActiveSessions(kind string, n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.values == nil {
		g.values = map[string]int{}
	}
	g.values[kind] = n
}

func fullSet() []domain.VehicleImage {
	var images []domain.VehicleImage
	for i := 0; i < domain.PhotosPerCategory; i++ {
		images = append(images,
			domain.VehicleImage{ID: fmt.Sprintf("i%d", i), Filename: "in.jpg", Category: domain.PhotoInterior},
			domain.VehicleImage{ID: fmt.Sprintf("e%d", i), Filename: "out.jpg", Category: domain.PhotoExterior},
		)
	}
	return images
}

func newRegistry(vehicles *fakeVehicles, store *gatedStore, metrics Metrics) *Registry {
	log := logger.NewNop()
	return NewRegistry(
		booking.Dependencies{Logger: log},
		PhotoDependencies{Vehicles: vehicles, Store: store, Logger: log},
		metrics,
		log,
	)
}

func TestWorkflow_OnePerCustomer(t *testing.T) {
	gauges := &gaugeRecorder{}
	reg := newRegistry(&fakeVehicles{}, &gatedStore{}, gauges)

	a := reg.Workflow("c1")
	b := reg.Workflow("c1")
	c := reg.Workflow("c2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "c1", a.CustomerID())
	assert.Equal(t, 2, gauges.values[KindBooking])
}

func TestOpenPhotoEditor_ReusesSession(t *testing.T) {
	vehicles := &fakeVehicles{vehicle: &domain.Vehicle{CustomerID: "c1", Images: fullSet()}}
	reg := newRegistry(vehicles, &gatedStore{}, nil)
	ctx := context.Background()

	first, err := reg.OpenPhotoEditor(ctx, "c1", "v1")
	require.NoError(t, err)
	assert.True(t, first.IsComplete())

	second, err := reg.OpenPhotoEditor(ctx, "c1", "v1")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, vehicles.calls)

	other, err := reg.OpenPhotoEditor(ctx, "c1", "v2")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestOpenPhotoEditor_ForeignVehicle(t *testing.T) {
	vehicles := &fakeVehicles{vehicle: &domain.Vehicle{CustomerID: "c2"}}
	reg := newRegistry(vehicles, &gatedStore{}, nil)

	_, err := reg.OpenPhotoEditor(context.Background(), "c1", "v1")
	assert.ErrorIs(t, err, ErrVehicleNotOwned)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, ok := reg.PhotoEditor("c1", "v1")
	assert.False(t, ok)
}

func TestOpenPhotoEditor_LoadFailure(t *testing.T) {
	vehicles := &fakeVehicles{err: fmt.Errorf("%w: backend down", domain.ErrUnavailable)}
	reg := newRegistry(vehicles, &gatedStore{}, nil)

	_, err := reg.OpenPhotoEditor(context.Background(), "c1", "v1")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestClosePhotoEditor(t *testing.T) {
	vehicles := &fakeVehicles{vehicle: &domain.Vehicle{Images: fullSet()}}
	reg := newRegistry(vehicles, &gatedStore{}, nil)

	_, err := reg.OpenPhotoEditor(context.Background(), "c1", "v1")
	require.NoError(t, err)

	require.NoError(t, reg.ClosePhotoEditor("c1", "v1"))
	assert.ErrorIs(t, reg.ClosePhotoEditor("c1", "v1"), ErrEditorNotFound)

	_, editors := reg.Len()
	assert.Zero(t, editors)
}

func TestSweep_RemovesIdleSessions(t *testing.T) {
	vehicles := &fakeVehicles{vehicle: &domain.Vehicle{Images: fullSet()}}
	reg := newRegistry(vehicles, &gatedStore{}, nil)

	reg.Workflow("c1")
	_, err := reg.OpenPhotoEditor(context.Background(), "c1", "v1")
	require.NoError(t, err)

	assert.Zero(t, reg.Sweep(time.Hour))

	reg.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Equal(t, 2, reg.Sweep(time.Hour))

	workflows, editors := reg.Len()
	assert.Zero(t, workflows)
	assert.Zero(t, editors)
}

func TestSweep_SkipsBusyEditor(t *testing.T) {
	store := &gatedStore{gate: make(chan struct{})}
	vehicles := &fakeVehicles{vehicle: &domain.Vehicle{Images: fullSet()}}
	reg := newRegistry(vehicles, store, nil)

	editor, err := reg.OpenPhotoEditor(context.Background(), "c1", "v1")
	require.NoError(t, err)
	require.NoError(t, editor.MarkPendingDelete("i0"))
	_, err = editor.AddPending(domain.NewImage{Filename: "seat.jpg", Data: []byte{1}}, domain.PhotoInterior)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- editor.Confirm(context.Background()) }()
	require.Eventually(t, editor.IsBusy, time.Second, 5*time.Millisecond)

	reg.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Zero(t, reg.Sweep(time.Hour))

	close(store.gate)
	require.NoError(t, <-done)

	assert.Equal(t, 1, reg.Sweep(time.Hour))
}
