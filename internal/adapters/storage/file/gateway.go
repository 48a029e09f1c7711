package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"pet-care-scheduler/internal/domain/pets"
	"pet-care-scheduler/internal/platform/logger"
)

// FormatVersion es la versión de ambos documentos JSON.
const FormatVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported file format version")

// Formato en disco (dos archivos independientes):
//
//	pets.json:         {"version":1,"pets":{"<id>":{...,"seq":0}}}
//	appointments.json: {"version":1,"appointments":{"2006-01-02 15:04":[{"id","pet_id",...,"seq","bucket_seq"}]}}
//
// Cada cita se escribe una sola vez (en appointments.json) y apunta a su mascota por pet_id.
// Cada lista sale ordenada por bucket_seq, el orden global de agenda.
type petsDoc struct {
	Version int                  `json:"version"`
	Pets    map[string]petRecord `json:"pets"`
}

type petRecord struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Breed            string `json:"breed"`
	Age              int    `json:"age"`
	OwnerName        string `json:"owner_name"`
	ContactInfo      string `json:"contact_info"`
	RegistrationDate string `json:"registration_date"` // YYYY-MM-DD
	Seq              int    `json:"seq"`               // orden de registro
}

type appointmentsDoc struct {
	Version      int                            `json:"version"`
	Appointments map[string][]appointmentRecord `json:"appointments"`
}

type appointmentRecord struct {
	ID        string `json:"id"`
	PetID     string `json:"pet_id"`
	Type      string `json:"type"`
	Notes     string `json:"notes,omitempty"`
	Seq       int    `json:"seq"`        // posición dentro de la lista de la mascota
	BucketSeq int64  `json:"bucket_seq"` // orden de agenda dentro del bucket
}

type Gateway struct {
	petsPath         string
	appointmentsPath string
	log              logger.Logger
}

func NewGateway(petsPath, appointmentsPath string, log logger.Logger) (*Gateway, error) {
	if strings.TrimSpace(petsPath) == "" || strings.TrimSpace(appointmentsPath) == "" {
		return nil, errors.New("file gateway: both paths are required")
	}
	if filepath.Clean(petsPath) == filepath.Clean(appointmentsPath) {
		return nil, errors.New("file gateway: pets and appointments paths must differ")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{
		petsPath:         petsPath,
		appointmentsPath: appointmentsPath,
		log:              log.With(map[string]any{"component": "file_gateway"}),
	}, nil
}

// Load lee ambos archivos. Si alguno no existe, esa mitad del estado arranca vacía.
func (g *Gateway) Load(ctx context.Context) ([]pets.Pet, error) {
	var pd petsDoc
	petsFound, err := readJSON(g.petsPath, &pd)
	if err != nil {
		return nil, fmt.Errorf("load pets: %w", err)
	}
	if petsFound && pd.Version != FormatVersion {
		return nil, fmt.Errorf("load pets: %w: %d", ErrUnsupportedVersion, pd.Version)
	}

	var ad appointmentsDoc
	apptsFound, err := readJSON(g.appointmentsPath, &ad)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	if apptsFound && ad.Version != FormatVersion {
		return nil, fmt.Errorf("load appointments: %w: %d", ErrUnsupportedVersion, ad.Version)
	}

	records := make([]petRecord, 0, len(pd.Pets))
	for id, rec := range pd.Pets {
		if rec.ID == "" {
			rec.ID = id
		}
		if rec.ID != id {
			return nil, fmt.Errorf("load pets: key %s does not match id %s", id, rec.ID)
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Seq != records[j].Seq {
			return records[i].Seq < records[j].Seq
		}
		return records[i].ID < records[j].ID
	})

	byID := make(map[string]*pets.Pet, len(records))
	out := make([]pets.Pet, len(records))
	for i, rec := range records {
		p, err := rec.toPet()
		if err != nil {
			return nil, fmt.Errorf("load pets: %w", err)
		}
		out[i] = p
		byID[p.ID] = &out[i]
	}

	type seqAppt struct {
		seq int
		a   pets.Appointment
	}
	perPet := make(map[string][]seqAppt)
	dropped := 0
	for key, list := range ad.Appointments {
		at, err := pets.ParseDateTime(key)
		if err != nil {
			return nil, fmt.Errorf("load appointments: bad timestamp %q: %w", key, err)
		}
		for _, rec := range list {
			if _, ok := byID[rec.PetID]; !ok {
				dropped++
				continue
			}
			perPet[rec.PetID] = append(perPet[rec.PetID], seqAppt{
				seq: rec.Seq,
				a: pets.Appointment{
					ID:       rec.ID,
					Type:     pets.AppointmentType(rec.Type),
					DateTime: at,
					Notes:    rec.Notes,
					Seq:      rec.BucketSeq,
				},
			})
		}
	}
	if dropped > 0 {
		g.log.Warn("dropped appointments without pet", map[string]any{"count": dropped})
	}

	for petID, list := range perPet {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].seq != list[j].seq {
				return list[i].seq < list[j].seq
			}
			return list[i].a.DateTime.Before(list[j].a.DateTime)
		})
		p := byID[petID]
		p.Appointments = make([]pets.Appointment, 0, len(list))
		for _, sa := range list {
			p.Appointments = append(p.Appointments, sa.a)
		}
	}

	g.log.Debug("state loaded", map[string]any{"pets": len(out)})
	return out, nil
}

// Save escribe el snapshot completo. Cada archivo se reemplaza de forma atómica.
func (g *Gateway) Save(ctx context.Context, all []pets.Pet) error {
	pd := petsDoc{Version: FormatVersion, Pets: make(map[string]petRecord, len(all))}
	ad := appointmentsDoc{Version: FormatVersion, Appointments: make(map[string][]appointmentRecord)}

	for i, p := range all {
		pd.Pets[p.ID] = petRecord{
			ID:               p.ID,
			Name:             p.Name,
			Breed:            p.Breed,
			Age:              p.Age,
			OwnerName:        p.OwnerName,
			ContactInfo:      p.ContactInfo,
			RegistrationDate: formatDate(p.RegistrationDate),
			Seq:              i,
		}
		for j, a := range p.Appointments {
			key := a.DateTime.In(time.Local).Format(pets.DateTimeLayout)
			ad.Appointments[key] = append(ad.Appointments[key], appointmentRecord{
				ID:        a.ID,
				PetID:     p.ID,
				Type:      string(a.Type),
				Notes:     a.Notes,
				Seq:       j,
				BucketSeq: a.Seq,
			})
		}
	}
	for _, list := range ad.Appointments {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].BucketSeq < list[j].BucketSeq
		})
	}

	if err := writeJSON(g.petsPath, pd); err != nil {
		return fmt.Errorf("save pets: %w", err)
	}
	if err := writeJSON(g.appointmentsPath, ad); err != nil {
		return fmt.Errorf("save appointments: %w", err)
	}

	g.log.Debug("state saved", map[string]any{"pets": len(all)})
	return nil
}

func (r petRecord) toPet() (pets.Pet, error) {
	p := pets.Pet{
		ID:          r.ID,
		Name:        r.Name,
		Breed:       r.Breed,
		Age:         r.Age,
		OwnerName:   r.OwnerName,
		ContactInfo: r.ContactInfo,
	}
	if strings.TrimSpace(r.RegistrationDate) != "" {
		d, err := time.ParseInLocation(pets.DateLayout, r.RegistrationDate, time.Local)
		if err != nil {
			return pets.Pet{}, fmt.Errorf("pet %s: bad registration_date: %w", r.ID, err)
		}
		p.RegistrationDate = d
	}
	return p, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(pets.DateLayout)
}

// readJSON devuelve found=false si el archivo no existe.
func readJSON(path string, dst any) (found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return writeFileAtomic(path, b, 0o644)
}

// writeFileAtomic escribe en un temporal del mismo directorio, hace fsync y renombra.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op si el rename ya se hizo
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
