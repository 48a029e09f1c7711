package pets

import "time"

// DateTimeLayout es el formato de fecha/hora que se acepta en consola y en disco.
const DateTimeLayout = "2006-01-02 15:04"

// DateLayout es el formato de la fecha de registro.
const DateLayout = "2006-01-02"

// AppointmentType es texto libre; estos son los valores sugeridos en consola.
type AppointmentType string

const (
	AppointmentTypeCheckup     AppointmentType = "checkup"
	AppointmentTypeGrooming    AppointmentType = "grooming"
	AppointmentTypeVetVisit    AppointmentType = "vet visit"
	AppointmentTypeVaccination AppointmentType = "vaccination"
)

// KnownAppointmentTypes en el orden en que se muestran al usuario.
func KnownAppointmentTypes() []AppointmentType {
	return []AppointmentType{
		AppointmentTypeCheckup,
		AppointmentTypeGrooming,
		AppointmentTypeVetVisit,
		AppointmentTypeVaccination,
	}
}

// ParseDateTime interpreta s con DateTimeLayout en la zona local.
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, s, time.Local)
}

// StartOfDay trunca t a la medianoche de su día, en la zona de t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
