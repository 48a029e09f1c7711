package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-scheduler/internal/adapters/storage/file"
	"pet-care-scheduler/internal/domain/pets"
	"pet-care-scheduler/internal/platform/config"
)

type fakeGateway struct {
	loaded  []pets.Pet
	loadErr error
	saveErr error
	saved   [][]pets.Pet
}

func (g *fakeGateway) Load(ctx context.Context) ([]pets.Pet, error) {
	if g.loadErr != nil {
		return nil, g.loadErr
	}
	return g.loaded, nil
}

func (g *fakeGateway) Save(ctx context.Context, all []pets.Pet) error {
	if g.saveErr != nil {
		return g.saveErr
	}
	g.saved = append(g.saved, all)
	return nil
}

func TestNew_RequiresGateway(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestApp_Load_ReplacesState(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{loaded: []pets.Pet{{ID: "pet-1", Name: "Milo", Breed: "Labrador"}}}
	a, err := New(Options{Gateway: gw})
	require.NoError(t, err)

	_, err = a.Pets.Register(ctx, pets.RegisterInput{Name: "Temp"})
	require.NoError(t, err)

	require.NoError(t, a.Load(ctx))

	list, err := a.Pets.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "pet-1", list[0].ID)
}

func TestApp_Load_FailureKeepsState(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{loadErr: errors.New("permission denied")}
	a, err := New(Options{Gateway: gw})
	require.NoError(t, err)

	p, err := a.Pets.Register(ctx, pets.RegisterInput{Name: "Milo"})
	require.NoError(t, err)

	assert.Error(t, a.Load(ctx))

	got, err := a.Pets.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milo", got.Name)
}

func TestApp_Save_FailureKeepsState(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{saveErr: errors.New("disk full")}
	a, err := New(Options{Gateway: gw})
	require.NoError(t, err)

	_, err = a.Pets.Register(ctx, pets.RegisterInput{Name: "Milo"})
	require.NoError(t, err)

	assert.Error(t, a.Save(ctx))

	list, err := a.Pets.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestApp_SaveLoad_WithFileGateway(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	gw, err := file.NewGateway(filepath.Join(dir, "pets.json"), filepath.Join(dir, "appointments.json"), nil)
	require.NoError(t, err)

	first, err := New(Options{Gateway: gw})
	require.NoError(t, err)

	p, err := first.Pets.Register(ctx, pets.RegisterInput{Name: "Milo", Breed: "Labrador", Age: 3})
	require.NoError(t, err)
	when := time.Date(2026, 3, 12, 10, 30, 0, 0, time.Local)
	_, err = first.Pets.Schedule(ctx, p.ID, pets.ScheduleInput{Type: pets.AppointmentTypeCheckup, DateTime: when})
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx))

	second, err := New(Options{Gateway: gw})
	require.NoError(t, err)
	require.NoError(t, second.Load(ctx))

	got, err := second.Pets.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Milo", got.Name)
	require.Len(t, got.Appointments, 1)

	at, err := second.Pets.AppointmentsAt(ctx, when)
	require.NoError(t, err)
	require.Len(t, at, 1, "timestamp view must be rebuilt on load")
	assert.Equal(t, p.ID, at[0].PetID)
}

func TestOpenGateway(t *testing.T) {
	ctx := context.Background()

	t.Run("File driver", func(t *testing.T) {
		cfg := config.Default().Storage
		cfg.DataDir = t.TempDir()

		gw, closer, err := OpenGateway(ctx, cfg, nil)
		require.NoError(t, err)
		defer closer.Close()
		assert.IsType(t, &file.Gateway{}, gw)
	})

	t.Run("Unknown driver", func(t *testing.T) {
		cfg := config.Default().Storage
		cfg.Driver = "mongo"

		_, _, err := OpenGateway(ctx, cfg, nil)
		assert.Error(t, err)
	})
}

func TestApp_SaveLoad_KeepsBucketOrderAcrossPets(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	gw, err := file.NewGateway(filepath.Join(dir, "pets.json"), filepath.Join(dir, "appointments.json"), nil)
	require.NoError(t, err)

	first, err := New(Options{Gateway: gw})
	require.NoError(t, err)

	a, err := first.Pets.Register(ctx, pets.RegisterInput{Name: "Milo"})
	require.NoError(t, err)
	b, err := first.Pets.Register(ctx, pets.RegisterInput{Name: "Luna"})
	require.NoError(t, err)

	when := time.Date(2026, 3, 12, 10, 30, 0, 0, time.Local)
	_, err = first.Pets.Schedule(ctx, b.ID, pets.ScheduleInput{Type: pets.AppointmentTypeGrooming, DateTime: when})
	require.NoError(t, err)
	_, err = first.Pets.Schedule(ctx, a.ID, pets.ScheduleInput{Type: pets.AppointmentTypeCheckup, DateTime: when})
	require.NoError(t, err)

	before, err := first.Pets.AppointmentsAt(ctx, when)
	require.NoError(t, err)
	require.Len(t, before, 2)
	assert.Equal(t, []string{b.ID, a.ID}, []string{before[0].PetID, before[1].PetID})

	require.NoError(t, first.Save(ctx))

	second, err := New(Options{Gateway: gw})
	require.NoError(t, err)
	require.NoError(t, second.Load(ctx))

	after, err := second.Pets.AppointmentsAt(ctx, when)
	require.NoError(t, err)
	require.Len(t, after, 2)
	assert.Equal(t, []string{b.ID, a.ID}, []string{after[0].PetID, after[1].PetID}, "bucket order must survive save/load")
}
