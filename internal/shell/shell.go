package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"pet-care-scheduler/internal/app"
	"pet-care-scheduler/internal/domain/pets"
	"pet-care-scheduler/internal/platform/logger"
)

type state int

const (
	stateRunning state = iota
	stateTerminating
)

type Options struct {
	App    *app.App
	In     io.Reader
	Out    io.Writer // menús, registros y reportes
	Err    io.Writer // errores recuperables
	Logger logger.Logger
}

// Shell es el loop de menú. Un solo hilo: cada iteración bloquea en una línea de entrada.
type Shell struct {
	app     *app.App
	in      *bufio.Reader
	readErr error // error de lectura distinto de EOF
	out     io.Writer
	errOut  io.Writer
	log     logger.Logger
	state   state
}

func New(opts Options) *Shell {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Shell{
		app:    opts.App,
		in:     bufio.NewReader(opts.In),
		out:    opts.Out,
		errOut: opts.Err,
		log:    log.With(map[string]any{"component": "shell"}),
		state:  stateRunning,
	}
}

// Run carga los datos, atiende el menú hasta "6" (o fin de entrada) y guarda al salir.
// Ningún error de una acción corta el loop.
func (s *Shell) Run(ctx context.Context) error {
	s.loadData(ctx)

	for s.state == stateRunning {
		s.displayMenu()

		choice, ok := s.readLine()
		if !ok {
			s.state = stateTerminating
			break
		}
		s.guard(choice, func() { s.dispatch(ctx, choice) })
	}

	// al terminar siempre se guarda
	s.saveData(ctx)
	s.println("Thank you for using Pet Care Scheduler!")

	return s.readErr
}

func (s *Shell) dispatch(ctx context.Context, choice string) {
	switch choice {
	case "1":
		s.registerPet(ctx)
	case "2":
		s.scheduleAppointment(ctx)
	case "3":
		s.displayRecords(ctx)
	case "4":
		s.generateReports(ctx)
	case "5":
		s.saveData(ctx)
	case "6":
		s.state = stateTerminating
	default:
		s.println("Invalid choice! Please try again.")
	}
}

func (s *Shell) displayMenu() {
	s.println("")
	s.println("=== Pet Care Scheduler Menu ===")
	s.println("1. Register New Pet")
	s.println("2. Schedule Appointment")
	s.println("3. Display Records")
	s.println("4. Generate Reports")
	s.println("5. Save Data")
	s.println("6. Exit")
	s.print("Enter your choice: ")
}

func (s *Shell) registerPet(ctx context.Context) {
	s.println("")
	s.println("====>> Enter Pet Details <<====")

	name, ok := s.prompt("Pet Name: ")
	if !ok {
		return
	}
	breed, ok := s.prompt("Pet's Breed: ")
	if !ok {
		return
	}
	ageStr, ok := s.prompt("Pet's Age: ")
	if !ok {
		return
	}
	age, err := strconv.Atoi(strings.TrimSpace(ageStr))
	if err != nil {
		s.fail("Invalid age format. Please enter a number.", err)
		return
	}
	owner, ok := s.prompt("Owner Name: ")
	if !ok {
		return
	}
	contact, ok := s.prompt("Contact Info: ")
	if !ok {
		return
	}

	p, err := s.app.Pets.Register(ctx, pets.RegisterInput{
		Name:        name,
		Breed:       breed,
		Age:         age,
		OwnerName:   owner,
		ContactInfo: contact,
	})
	if err != nil {
		s.fail("Error registering pet: "+err.Error(), err)
		return
	}

	s.log.Info("pet registered", map[string]any{"pet_id": p.ID})
	s.println("Pet registered successfully! Pet ID: " + p.ID)
}

func (s *Shell) scheduleAppointment(ctx context.Context) {
	s.println("")
	s.println("====>> Schedule Appointment <<====")

	rawID, ok := s.prompt("Enter Pet ID: ")
	if !ok {
		return
	}
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		s.fail("Invalid Pet ID format.", err)
		return
	}

	p, err := s.app.Pets.GetByID(ctx, id.String())
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			s.fail("Pet not found!", err)
			return
		}
		s.fail("Error scheduling appointment: "+err.Error(), err)
		return
	}

	typ, ok := s.prompt(fmt.Sprintf("Appointment Type (e.g., %s): ", joinTypes(pets.KnownAppointmentTypes())))
	if !ok {
		return
	}
	rawWhen, ok := s.prompt("Date and Time (yyyy-MM-dd HH:mm): ")
	if !ok {
		return
	}
	when, err := pets.ParseDateTime(strings.TrimSpace(rawWhen))
	if err != nil {
		s.fail("Invalid date format. Please use yyyy-MM-dd HH:mm", err)
		return
	}
	notes, ok := s.prompt("Notes: ")
	if !ok {
		return
	}

	a, err := s.app.Pets.Schedule(ctx, p.ID, pets.ScheduleInput{
		Type:     pets.AppointmentType(typ),
		DateTime: when,
		Notes:    notes,
	})
	if err != nil {
		s.fail("Error scheduling appointment: "+err.Error(), err)
		return
	}

	s.log.Info("appointment scheduled", map[string]any{"pet_id": p.ID, "appointment_id": a.ID})
	s.println("Appointment scheduled successfully!")
}

func (s *Shell) displayRecords(ctx context.Context) {
	s.println("")
	s.println("=== Pet Records ===")

	all, err := s.app.Pets.List(ctx)
	if err != nil {
		s.fail("Error reading records: "+err.Error(), err)
		return
	}
	if len(all) == 0 {
		s.println("No pets registered.")
		return
	}

	for _, p := range all {
		s.println("")
		s.println(formatPet(p))
		if len(p.Appointments) == 0 {
			continue
		}
		s.println("  Appointments:")
		for _, a := range p.Appointments {
			s.println("    | " + formatAppointment(a))
		}
	}
}

func (s *Shell) loadData(ctx context.Context) {
	if err := s.app.Load(ctx); err != nil {
		s.fail("Error loading data: "+err.Error(), err)
	}
}

func (s *Shell) saveData(ctx context.Context) {
	if err := s.app.Save(ctx); err != nil {
		s.fail("Error saving data: "+err.Error(), err)
		return
	}
	s.println("Data saved successfully!")
}

// readLine devuelve ok=false al terminar la entrada. Sin límite de largo de línea.
func (s *Shell) readLine() (string, bool) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) && s.readErr == nil {
			s.readErr = err
		}
		if line == "" {
			return "", false
		}
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), true
}

func (s *Shell) prompt(label string) (string, bool) {
	s.print(label)
	return s.readLine()
}

// fail reporta un error recuperable: mensaje al usuario por stderr y log en debug.
func (s *Shell) fail(msg string, err error) {
	fmt.Fprintln(s.errOut, msg)
	s.log.Debug("action failed", map[string]any{"msg": msg, "err": err.Error()})
}

func (s *Shell) println(line string) { fmt.Fprintln(s.out, line) }
func (s *Shell) print(text string)   { fmt.Fprint(s.out, text) }
