package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RegisterInput struct {
	Name        string
	Breed       string
	Age         int
	OwnerName   string
	ContactInfo string
}

// Register crea la mascota con un ID nuevo y la fecha de hoy.
// No valida campos: edad negativa o nombre vacío se aceptan tal cual.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Pet, error) {
	p := Pet{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Breed:            in.Breed,
		Age:              in.Age,
		OwnerName:        in.OwnerName,
		ContactInfo:      in.ContactInfo,
		RegistrationDate: StartOfDay(s.now()),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	return s.repo.List(ctx)
}

type ScheduleInput struct {
	Type     AppointmentType
	DateTime time.Time
	Notes    string
}

// Schedule agrega la cita a la mascota. Si la mascota no existe no se modifica nada.
func (s *Service) Schedule(ctx context.Context, petID string, in ScheduleInput) (Appointment, error) {
	if in.DateTime.IsZero() {
		return Appointment{}, ErrInvalidInput
	}
	if _, err := s.GetByID(ctx, petID); err != nil {
		return Appointment{}, err
	}

	a := Appointment{
		ID:       uuid.NewString(),
		Type:     in.Type,
		DateTime: in.DateTime.Truncate(time.Minute),
		Notes:    in.Notes,
	}

	if err := s.repo.AddAppointment(ctx, petID, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// Remove borra la mascota y sus citas del índice.
func (s *Service) Remove(ctx context.Context, petID string) error {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, petID)
}

// CancelAppointment quita una cita de la mascota y del índice en un solo paso.
func (s *Service) CancelAppointment(ctx context.Context, petID, appointmentID string) error {
	petID = strings.TrimSpace(petID)
	appointmentID = strings.TrimSpace(appointmentID)
	if petID == "" || appointmentID == "" {
		return ErrInvalidInput
	}
	return s.repo.RemoveAppointment(ctx, petID, appointmentID)
}

func (s *Service) Buckets(ctx context.Context, from, to time.Time) ([]Bucket, error) {
	return s.repo.Buckets(ctx, from, to)
}

func (s *Service) AppointmentsAt(ctx context.Context, at time.Time) ([]ScheduledAppointment, error) {
	return s.repo.AppointmentsAt(ctx, at.Truncate(time.Minute))
}
