package app

import (
	"context"
	"fmt"
	"io"

	"pet-care-scheduler/internal/adapters/storage/file"
	pg "pet-care-scheduler/internal/adapters/storage/postgres"
	"pet-care-scheduler/internal/adapters/storage/sqlite"
	"pet-care-scheduler/internal/platform/config"
	"pet-care-scheduler/internal/platform/logger"
	"pet-care-scheduler/internal/ports/storage"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenGateway elige el backend según cfg.Storage.Driver.
// El io.Closer libera la conexión a la base (no-op para archivos).
func OpenGateway(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (storage.Gateway, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := pg.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		gw := pg.NewGateway(db)
		if err := gw.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return gw, db, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLiteFile())
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		return sqlite.NewGateway(db), sqlDB, nil

	case config.DriverFile, "":
		gw, err := file.NewGateway(cfg.PetsPath(), cfg.AppointmentsPath(), log)
		if err != nil {
			return nil, nil, err
		}
		return gw, nopCloser{}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
