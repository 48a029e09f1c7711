package shell

import (
	"fmt"
	"strings"

	"pet-care-scheduler/internal/domain/pets"
)

func formatPet(p pets.Pet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pet ID: %s\n", p.ID)
	fmt.Fprintf(&b, "  Name: %s\n", p.Name)
	fmt.Fprintf(&b, "  Breed: %s\n", p.Breed)
	fmt.Fprintf(&b, "  Age: %d\n", p.Age)
	fmt.Fprintf(&b, "  Owner: %s (%s)\n", p.OwnerName, p.ContactInfo)
	fmt.Fprintf(&b, "  Registered: %s", formatDate(p))
	return b.String()
}

func formatDate(p pets.Pet) string {
	if p.RegistrationDate.IsZero() {
		return "unknown"
	}
	return p.RegistrationDate.Format(pets.DateLayout)
}

func formatAppointment(a pets.Appointment) string {
	return fmt.Sprintf("%s | %s | %s", a.DateTime.Format(pets.DateTimeLayout), typeOrDefault(a.Type), notesOrDefault(a.Notes))
}

func typeOrDefault(t pets.AppointmentType) string {
	if strings.TrimSpace(string(t)) == "" {
		return "Not specified"
	}
	return string(t)
}

func notesOrDefault(n string) string {
	if strings.TrimSpace(n) == "" {
		return "No notes"
	}
	return n
}

func joinTypes(types []pets.AppointmentType) string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return strings.Join(out, ", ")
}
