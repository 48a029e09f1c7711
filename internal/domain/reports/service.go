package reports

import (
	"context"
	"sort"
	"time"

	"pet-care-scheduler/internal/domain/pets"
)

// DefaultUpcomingDays es la ventana del reporte de próximas citas.
const DefaultUpcomingDays = 7

// Source es lo que los reportes necesitan del almacén.
type Source interface {
	List(ctx context.Context) ([]pets.Pet, error)
	Buckets(ctx context.Context, from, to time.Time) ([]pets.Bucket, error)
}

// Stats resume la cantidad de mascotas y su distribución por raza.
type Stats struct {
	Total   int
	ByBreed map[string]int
}

// Breeds devuelve las razas ordenadas, para imprimir de forma estable.
func (s Stats) Breeds() []string {
	out := make([]string, 0, len(s.ByBreed))
	for b := range s.ByBreed {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}

// Service calcula los reportes bajo demanda, sin cache.
type Service struct {
	src          Source
	upcomingDays int
	now          func() time.Time
}

func NewService(src Source, upcomingDays int) *Service {
	if upcomingDays <= 0 {
		upcomingDays = DefaultUpcomingDays
	}
	return &Service{
		src:          src,
		upcomingDays: upcomingDays,
		now:          time.Now,
	}
}

// UpcomingDays expone la ventana configurada (para los títulos en consola).
func (s *Service) UpcomingDays() int {
	return s.upcomingDays
}

// Today devuelve las citas estrictamente entre el inicio de hoy y el de mañana.
// Una cita exactamente a medianoche queda fuera.
func (s *Service) Today(ctx context.Context) ([]pets.Bucket, error) {
	start := pets.StartOfDay(s.now())
	return s.src.Buckets(ctx, start, start.AddDate(0, 0, 1))
}

// Upcoming devuelve las citas estrictamente entre ahora y ahora + upcomingDays.
func (s *Service) Upcoming(ctx context.Context) ([]pets.Bucket, error) {
	now := s.now()
	return s.src.Buckets(ctx, now, now.AddDate(0, 0, s.upcomingDays))
}

// Stats cuenta mascotas por raza; la clave es la raza exacta (sensible a mayúsculas).
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	all, err := s.src.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	out := Stats{Total: len(all), ByBreed: make(map[string]int)}
	for _, p := range all {
		out.ByBreed[p.Breed]++
	}
	return out, nil
}
