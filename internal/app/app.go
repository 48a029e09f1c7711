package app

import (
	"context"
	"errors"

	"pet-care-scheduler/internal/adapters/storage/memory"
	"pet-care-scheduler/internal/domain/pets"
	"pet-care-scheduler/internal/domain/reports"
	"pet-care-scheduler/internal/platform/logger"
	"pet-care-scheduler/internal/ports/storage"
)

// App agrupa todo el estado del proceso: el almacén en memoria, los servicios
// y el gateway de persistencia. Se pasa por referencia al shell.
type App struct {
	Pets    *pets.Service
	Reports *reports.Service

	repo    pets.Repository
	gateway storage.Gateway
	log     logger.Logger
}

type Options struct {
	Gateway      storage.Gateway
	Logger       logger.Logger
	UpcomingDays int
}

func New(opts Options) (*App, error) {
	if opts.Gateway == nil {
		return nil, errors.New("app: gateway required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	repo := memory.NewPetRepo()
	petsSvc := pets.NewService(repo)

	return &App{
		Pets:    petsSvc,
		Reports: reports.NewService(petsSvc, opts.UpcomingDays),
		repo:    repo,
		gateway: opts.Gateway,
		log:     log.With(map[string]any{"component": "app"}),
	}, nil
}

// Load reemplaza el estado en memoria por el persistido.
// Si falla, el estado actual queda intacto y el error se devuelve.
func (a *App) Load(ctx context.Context) error {
	all, err := a.gateway.Load(ctx)
	if err != nil {
		a.log.Error("load failed", map[string]any{"err": err.Error()})
		return err
	}
	if err := a.repo.Restore(ctx, all); err != nil {
		a.log.Error("restore failed", map[string]any{"err": err.Error()})
		return err
	}
	a.log.Info("state loaded", map[string]any{"pets": len(all)})
	return nil
}

// Save persiste el snapshot completo del estado en memoria.
func (a *App) Save(ctx context.Context) error {
	all, err := a.repo.Snapshot(ctx)
	if err != nil {
		return err
	}
	if err := a.gateway.Save(ctx, all); err != nil {
		a.log.Error("save failed", map[string]any{"err": err.Error()})
		return err
	}
	a.log.Info("state saved", map[string]any{"pets": len(all)})
	return nil
}
