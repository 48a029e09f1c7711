package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"pet-care-scheduler/internal/domain/pets"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS pets (
	id                UUID PRIMARY KEY,
	position          INTEGER NOT NULL,
	name              TEXT NOT NULL,
	breed             TEXT NOT NULL,
	age               INTEGER NOT NULL,
	owner_name        TEXT NOT NULL,
	contact_info      TEXT NOT NULL,
	registration_date DATE
);
CREATE TABLE IF NOT EXISTS appointments (
	id           UUID PRIMARY KEY,
	pet_id       UUID NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
	position     INTEGER NOT NULL,
	type         TEXT NOT NULL,
	scheduled_at TIMESTAMP NOT NULL,
	notes        TEXT NOT NULL,
	bucket_seq   BIGINT NOT NULL DEFAULT 0
);
ALTER TABLE appointments ADD COLUMN IF NOT EXISTS bucket_seq BIGINT NOT NULL DEFAULT 0;
CREATE INDEX IF NOT EXISTS idx_appointments_scheduled_at ON appointments (scheduled_at);
`

// Gateway persiste el snapshot completo en dos tablas (pets, appointments).
type Gateway struct {
	db *sql.DB
}

func NewGateway(db *sql.DB) *Gateway {
	return &Gateway{db: db}
}

// EnsureSchema crea las tablas si no existen. No migra esquemas previos.
func (g *Gateway) EnsureSchema(ctx context.Context) error {
	if _, err := g.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Save reemplaza todo el contenido de ambas tablas dentro de una transacción SQL.
func (g *Gateway) Save(ctx context.Context, all []pets.Pet) (err error) {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM appointments`); err != nil {
		return fmt.Errorf("save: clear appointments: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM pets`); err != nil {
		return fmt.Errorf("save: clear pets: %w", err)
	}

	for i, p := range all {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO pets (
				id, position,
				name, breed, age,
				owner_name, contact_info,
				registration_date
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			p.ID,
			i,
			p.Name,
			p.Breed,
			p.Age,
			p.OwnerName,
			p.ContactInfo,
			toNullDate(p.RegistrationDate),
		); err != nil {
			return fmt.Errorf("save: insert pet %s: %w", p.ID, err)
		}

		for j, a := range p.Appointments {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO appointments (
					id, pet_id, position,
					type, scheduled_at, notes,
					bucket_seq
				) VALUES ($1,$2,$3,$4,$5,$6,$7)
			`,
				a.ID,
				p.ID,
				j,
				string(a.Type),
				a.DateTime,
				a.Notes,
				a.Seq,
			); err != nil {
				return fmt.Errorf("save: insert appointment %s: %w", a.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("save: commit: %w", err)
	}
	return nil
}

func (g *Gateway) Load(ctx context.Context) ([]pets.Pet, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT
			id, name, breed, age,
			owner_name, contact_info,
			registration_date
		FROM pets
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load pets: %w", err)
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	index := make(map[string]int)
	for rows.Next() {
		var p pets.Pet
		var rd sql.NullTime
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Breed,
			&p.Age,
			&p.OwnerName,
			&p.ContactInfo,
			&rd,
		); err != nil {
			return nil, fmt.Errorf("load pets: %w", err)
		}
		if rd.Valid {
			// DATE llega como medianoche UTC; se reinterpreta como fecha local
			y, m, d := rd.Time.Date()
			p.RegistrationDate = pets.StartOfDay(timeInLocal(y, int(m), d))
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load pets: %w", err)
	}

	arows, err := g.db.QueryContext(ctx, `
		SELECT id, pet_id, type, scheduled_at, notes, bucket_seq
		FROM appointments
		ORDER BY pet_id ASC, position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}
	defer arows.Close()

	for arows.Next() {
		var a pets.Appointment
		var petID, typ string
		if err := arows.Scan(&a.ID, &petID, &typ, &a.DateTime, &a.Notes, &a.Seq); err != nil {
			return nil, fmt.Errorf("load appointments: %w", err)
		}
		i, ok := index[petID]
		if !ok {
			continue
		}
		a.Type = pets.AppointmentType(typ)
		a.DateTime = wallClockLocal(a.DateTime)
		out[i].Appointments = append(out[i].Appointments, a)
	}
	if err := arows.Err(); err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	return out, nil
}
