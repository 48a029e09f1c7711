package storage

import (
	"context"

	"pet-care-scheduler/internal/domain/pets"
)

// Gateway guarda y carga el estado completo (snapshot, sin deltas).
// Load devuelve el estado persistido; quien llama decide si reemplaza el que tiene en memoria.
type Gateway interface {
	Load(ctx context.Context) ([]pets.Pet, error)
	Save(ctx context.Context, all []pets.Pet) error
}
