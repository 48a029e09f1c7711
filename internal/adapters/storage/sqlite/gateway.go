package sqlite

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pet-care-scheduler/internal/domain/pets"
)

// Gateway guarda el snapshot en SQLite a través de GORM.
type Gateway struct {
	db *gorm.DB
}

func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{db: db}
}

// Save borra y vuelve a insertar todo en una sola transacción.
func (g *Gateway) Save(ctx context.Context, all []pets.Pet) error {
	petRows := make([]petRow, 0, len(all))
	apptRows := make([]appointmentRow, 0)
	for i, p := range all {
		rd := ""
		if !p.RegistrationDate.IsZero() {
			rd = p.RegistrationDate.Format(pets.DateLayout)
		}
		petRows = append(petRows, petRow{
			ID:               p.ID,
			Position:         i,
			Name:             p.Name,
			Breed:            p.Breed,
			Age:              p.Age,
			OwnerName:        p.OwnerName,
			ContactInfo:      p.ContactInfo,
			RegistrationDate: rd,
		})
		for j, a := range p.Appointments {
			apptRows = append(apptRows, appointmentRow{
				ID:          a.ID,
				PetID:       p.ID,
				Position:    j,
				Type:        string(a.Type),
				ScheduledAt: a.DateTime.In(time.Local).Format(pets.DateTimeLayout),
				Notes:       a.Notes,
				BucketSeq:   a.Seq,
			})
		}
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&appointmentRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear appointments: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&petRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear pets: %w", err)
		}
		if len(petRows) > 0 {
			if err := tx.Create(&petRows).Error; err != nil {
				return fmt.Errorf("failed to insert pets: %w", err)
			}
		}
		if len(apptRows) > 0 {
			if err := tx.Create(&apptRows).Error; err != nil {
				return fmt.Errorf("failed to insert appointments: %w", err)
			}
		}
		return nil
	})
}

func (g *Gateway) Load(ctx context.Context) ([]pets.Pet, error) {
	var petRows []petRow
	if err := g.db.WithContext(ctx).Order("position asc").Find(&petRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load pets: %w", err)
	}
	var apptRows []appointmentRow
	if err := g.db.WithContext(ctx).Order("pet_id asc, position asc").Find(&apptRows).Error; err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}

	out := make([]pets.Pet, 0, len(petRows))
	index := make(map[string]int, len(petRows))
	for _, r := range petRows {
		p := pets.Pet{
			ID:          r.ID,
			Name:        r.Name,
			Breed:       r.Breed,
			Age:         r.Age,
			OwnerName:   r.OwnerName,
			ContactInfo: r.ContactInfo,
		}
		if r.RegistrationDate != "" {
			d, err := time.ParseInLocation(pets.DateLayout, r.RegistrationDate, time.Local)
			if err != nil {
				return nil, fmt.Errorf("pet %s: bad registration date: %w", r.ID, err)
			}
			p.RegistrationDate = d
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}

	for _, r := range apptRows {
		i, ok := index[r.PetID]
		if !ok {
			continue
		}
		at, err := pets.ParseDateTime(r.ScheduledAt)
		if err != nil {
			return nil, fmt.Errorf("appointment %s: bad timestamp: %w", r.ID, err)
		}
		out[i].Appointments = append(out[i].Appointments, pets.Appointment{
			ID:       r.ID,
			Type:     pets.AppointmentType(r.Type),
			DateTime: at,
			Notes:    r.Notes,
			Seq:      r.BucketSeq,
		})
	}
	return out, nil
}
