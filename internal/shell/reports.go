package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"pet-care-scheduler/internal/domain/pets"
)

func (s *Shell) generateReports(ctx context.Context) {
	s.println("")
	s.println("=== Generate Reports ===")
	s.println("1. Today's Appointments")
	s.println(fmt.Sprintf("2. Upcoming Appointments (Next %d Days)", s.app.Reports.UpcomingDays()))
	s.println("3. Pet Statistics")

	raw, ok := s.prompt("Select report type: ")
	if !ok {
		return
	}
	choice, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.fail("Please enter a valid number.", err)
		return
	}

	switch choice {
	case 1:
		s.todayReport(ctx)
	case 2:
		s.upcomingReport(ctx)
	case 3:
		s.statsReport(ctx)
	default:
		s.println("Invalid choice!")
	}
}

func (s *Shell) todayReport(ctx context.Context) {
	s.println("")
	s.println("=== Today's Appointments ===")

	buckets, err := s.app.Reports.Today(ctx)
	if err != nil {
		s.fail("Error generating report: "+err.Error(), err)
		return
	}
	if len(buckets) == 0 {
		s.println("No appointments scheduled for today.")
		return
	}
	s.printBuckets(buckets)
}

func (s *Shell) upcomingReport(ctx context.Context) {
	days := s.app.Reports.UpcomingDays()
	s.println("")
	s.println(fmt.Sprintf("=== Upcoming Appointments (Next %d Days) ===", days))

	buckets, err := s.app.Reports.Upcoming(ctx)
	if err != nil {
		s.fail("Error generating report: "+err.Error(), err)
		return
	}
	if len(buckets) == 0 {
		s.println(fmt.Sprintf("No upcoming appointments in the next %d days.", days))
		return
	}
	s.printBuckets(buckets)
}

func (s *Shell) statsReport(ctx context.Context) {
	s.println("")
	s.println("=== Pet Statistics ===")

	st, err := s.app.Reports.Stats(ctx)
	if err != nil {
		s.fail("Error generating report: "+err.Error(), err)
		return
	}

	s.println(fmt.Sprintf("Total number of pets: %d", st.Total))
	if st.Total == 0 {
		return
	}
	s.println("")
	s.println("Pets by Breed:")
	for _, breed := range st.Breeds() {
		s.println(fmt.Sprintf("%s: %d", breed, st.ByBreed[breed]))
	}
}

func (s *Shell) printBuckets(buckets []pets.Bucket) {
	for _, b := range buckets {
		s.println("")
		s.println("Time: " + b.At.Format(pets.DateTimeLayout))
		for _, e := range b.Entries {
			s.println(fmt.Sprintf("  - %s (%s): %s | %s", e.PetName, e.PetID, typeOrDefault(e.Type), notesOrDefault(e.Notes)))
		}
	}
}
