package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-care-scheduler/internal/domain/pets"
)

// apptRef apunta a una cita dentro de la lista de su mascota.
type apptRef struct {
	petID         string
	appointmentID string
}

type bucket struct {
	at   time.Time
	refs []apptRef
}

type petRepo struct {
	mu    sync.RWMutex
	byID  map[string]pets.Pet
	order []string // orden de registro

	// índice calculado: unix (segundos) -> referencias, en orden de agenda
	byTime map[int64]*bucket

	nextSeq int64 // próximo Appointment.Seq
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID:    make(map[string]pets.Pet),
		byTime:  make(map[int64]*bucket),
		nextSeq: 1,
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	if err := checkAppointmentIDs(p); err != nil {
		return err
	}
	p = p.Clone()
	for i := range p.Appointments {
		p.Appointments[i].Seq = r.stamp()
	}
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
	for _, a := range p.Appointments {
		r.index(p.ID, a)
	}
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *petRepo) List(ctx context.Context) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].Clone())
	}
	return out, nil
}

func (r *petRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.ErrNotFound
	}
	for _, a := range p.Appointments {
		r.unindex(id, a)
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *petRepo) AddAppointment(ctx context.Context, petID string, a pets.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("appointment id required")
	}
	p, ok := r.byID[petID]
	if !ok {
		return pets.ErrNotFound
	}
	for _, existing := range p.Appointments {
		if existing.ID == a.ID {
			return errors.New("appointment already exists")
		}
	}
	a.Seq = r.stamp()
	p.Appointments = append(p.Appointments, a)
	r.byID[petID] = p
	r.index(petID, a)
	return nil
}

func (r *petRepo) RemoveAppointment(ctx context.Context, petID, appointmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[petID]
	if !ok {
		return pets.ErrNotFound
	}
	for i, a := range p.Appointments {
		if a.ID != appointmentID {
			continue
		}
		kept := make([]pets.Appointment, 0, len(p.Appointments)-1)
		kept = append(kept, p.Appointments[:i]...)
		kept = append(kept, p.Appointments[i+1:]...)
		p.Appointments = kept
		r.byID[petID] = p
		r.unindex(petID, a)
		return nil
	}
	return fmt.Errorf("appointment %s: %w", appointmentID, pets.ErrNotFound)
}

func (r *petRepo) Buckets(ctx context.Context, from, to time.Time) ([]pets.Bucket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Bucket, 0)
	for _, b := range r.byTime {
		// intervalo abierto en ambos extremos
		if !b.at.After(from) || !b.at.Before(to) {
			continue
		}
		out = append(out, pets.Bucket{At: b.at, Entries: r.resolve(b.refs)})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out, nil
}

func (r *petRepo) AppointmentsAt(ctx context.Context, at time.Time) ([]pets.ScheduledAppointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byTime[at.Unix()]
	if !ok {
		return []pets.ScheduledAppointment{}, nil
	}
	return r.resolve(b.refs), nil
}

func (r *petRepo) Snapshot(ctx context.Context) ([]pets.Pet, error) {
	return r.List(ctx)
}

// Restore reemplaza todo el estado. El índice se reconstruye en orden de Seq,
// no en orden de mascotas; a igual Seq (datos sin secuencia) se respeta el orden de entrada.
func (r *petRepo) Restore(ctx context.Context, all []pets.Pet) error {
	byID := make(map[string]pets.Pet, len(all))
	order := make([]string, 0, len(all))
	var refs []restoredRef
	var maxSeq int64
	for _, p := range all {
		if strings.TrimSpace(p.ID) == "" {
			return errors.New("pet id required")
		}
		if _, dup := byID[p.ID]; dup {
			return fmt.Errorf("duplicate pet id %s", p.ID)
		}
		if err := checkAppointmentIDs(p); err != nil {
			return err
		}
		byID[p.ID] = p.Clone()
		order = append(order, p.ID)
		for _, a := range p.Appointments {
			refs = append(refs, restoredRef{petID: p.ID, a: a})
			if a.Seq > maxSeq {
				maxSeq = a.Seq
			}
		}
	}
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].a.Seq < refs[j].a.Seq
	})

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = byID
	r.order = order
	r.byTime = make(map[int64]*bucket)
	for _, ref := range refs {
		r.index(ref.petID, ref.a)
	}
	r.nextSeq = maxSeq + 1
	return nil
}

type restoredRef struct {
	petID string
	a     pets.Appointment
}

// checkAppointmentIDs aplica las mismas reglas que AddAppointment.
func checkAppointmentIDs(p pets.Pet) error {
	seen := make(map[string]struct{}, len(p.Appointments))
	for _, a := range p.Appointments {
		if strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("pet %s: appointment id required", p.ID)
		}
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("pet %s: duplicate appointment id %s", p.ID, a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	return nil
}

// stamp asume r.mu tomado en escritura.
func (r *petRepo) stamp() int64 {
	seq := r.nextSeq
	r.nextSeq++
	return seq
}

// index y unindex asumen r.mu tomado en escritura.
func (r *petRepo) index(petID string, a pets.Appointment) {
	key := a.DateTime.Unix()
	b, ok := r.byTime[key]
	if !ok {
		b = &bucket{at: a.DateTime}
		r.byTime[key] = b
	}
	b.refs = append(b.refs, apptRef{petID: petID, appointmentID: a.ID})
}

func (r *petRepo) unindex(petID string, a pets.Appointment) {
	key := a.DateTime.Unix()
	b, ok := r.byTime[key]
	if !ok {
		return
	}
	for i, ref := range b.refs {
		if ref.petID == petID && ref.appointmentID == a.ID {
			b.refs = append(b.refs[:i], b.refs[i+1:]...)
			break
		}
	}
	if len(b.refs) == 0 {
		delete(r.byTime, key)
	}
}

func (r *petRepo) resolve(refs []apptRef) []pets.ScheduledAppointment {
	out := make([]pets.ScheduledAppointment, 0, len(refs))
	for _, ref := range refs {
		p, ok := r.byID[ref.petID]
		if !ok {
			continue
		}
		for _, a := range p.Appointments {
			if a.ID == ref.appointmentID {
				out = append(out, pets.ScheduledAppointment{
					PetID:       p.ID,
					PetName:     p.Name,
					Appointment: a,
				})
				break
			}
		}
	}
	return out
}
