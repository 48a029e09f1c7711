package pets

import "time"

// Pet representa una mascota registrada junto con sus citas.
// Las citas viven solo aquí; el índice por fecha del repositorio guarda referencias.
type Pet struct {
	ID string

	Name        string
	Breed       string
	Age         int // sin validación de rango
	OwnerName   string
	ContactInfo string

	RegistrationDate time.Time // fecha (medianoche local)

	Appointments []Appointment
}

// Appointment es una cita agendada para una mascota.
type Appointment struct {
	ID       string
	Type     AppointmentType
	DateTime time.Time // precisión de minuto, hora local
	Notes    string

	// Seq es el orden global en que se agendó; lo asigna el almacén.
	// Define el orden dentro de un mismo bucket y se persiste.
	Seq int64
}

// ScheduledAppointment es una cita vista desde el índice por fecha.
type ScheduledAppointment struct {
	PetID   string
	PetName string
	Appointment
}

// Bucket agrupa las citas que comparten exactamente la misma fecha y minuto.
type Bucket struct {
	At      time.Time
	Entries []ScheduledAppointment
}

// Clone devuelve una copia que no comparte el slice de citas.
func (p Pet) Clone() Pet {
	out := p
	if p.Appointments != nil {
		out.Appointments = make([]Appointment, len(p.Appointments))
		copy(out.Appointments, p.Appointments)
	}
	return out
}
