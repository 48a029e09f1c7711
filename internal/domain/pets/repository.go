package pets

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context) ([]Pet, error)
	Delete(ctx context.Context, id string) error

	AddAppointment(ctx context.Context, petID string, a Appointment) error
	RemoveAppointment(ctx context.Context, petID, appointmentID string) error

	// Buckets devuelve los grupos con from < At < to (intervalo abierto), ordenados por fecha.
	Buckets(ctx context.Context, from, to time.Time) ([]Bucket, error)
	AppointmentsAt(ctx context.Context, at time.Time) ([]ScheduledAppointment, error)

	// Snapshot y Restore exportan/reemplazan el estado completo (persistencia).
	Snapshot(ctx context.Context) ([]Pet, error)
	Restore(ctx context.Context, all []Pet) error
}
