package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sumira/appointment-manager/client"
	"github.com/sumira/appointment-manager/schedule"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: client [signup|login|logout|list|slots|book|cancel] [flags]")
		os.Exit(1)
	}

	baseURL := os.Getenv("APPOINTMENT_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	sessionPath := os.Getenv("APPOINTMENT_SESSION_FILE")
	if sessionPath == "" {
		var err error
		sessionPath, err = client.DefaultSessionPath()
		if err != nil {
			log.Fatalf("failed to resolve session path: %v", err)
		}
	}

	session, err := client.LoadSession(sessionPath)
	if err != nil {
		log.Fatalf("failed to load session: %v", err)
	}
	api := client.New(baseURL, session)

	cmd := os.Args[1]
	args := os.Args[2:]
	switch cmd {
	case "signup":
		signupCmd(api, args)
	case "login":
		loginCmd(api, args)
	case "logout":
		logoutCmd(session)
	case "list":
		requireAuth(session)
		listCmd(api, args)
	case "slots":
		requireAuth(session)
		slotsCmd(api, args)
	case "book":
		requireAuth(session)
		bookCmd(api, args)
	case "cancel":
		requireAuth(session)
		cancelCmd(api, args)
	default:
		fmt.Println("unknown command:", cmd)
		os.Exit(1)
	}
}

// requireAuth is the route gate: protected commands run only with a token
// present, everything else is sent to login.
func requireAuth(session *client.Session) {
	decision := client.Authorize(session)
	if !decision.Authorized {
		log.Fatalf("not logged in, run the %q command first", decision.RedirectTo[1:])
	}
}

func callCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func signupCmd(api *client.Client, args []string) {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	if *name == "" || *email == "" || *password == "" {
		log.Fatal("name, email and password are required")
	}

	ctx, cancel := callCtx()
	defer cancel()

	resp, err := api.Signup(ctx, *name, *email, *password)
	if err != nil {
		log.Fatalf("signup failed: %v", err)
	}
	fmt.Printf("Signed up as %s <%s>\n", resp.Name, resp.Email)
}

func loginCmd(api *client.Client, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	if *email == "" || *password == "" {
		log.Fatal("email and password are required")
	}

	ctx, cancel := callCtx()
	defer cancel()

	resp, err := api.Login(ctx, *email, *password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}
	fmt.Printf("Logged in as %s <%s>\n", resp.User.Name, resp.User.Email)
}

func logoutCmd(session *client.Session) {
	if err := session.Logout(); err != nil {
		log.Fatalf("logout failed: %v", err)
	}
	fmt.Println("Logged out.")
}

func listCmd(api *client.Client, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	calendarView := fs.Bool("calendar", false, "render the current month as a calendar")
	_ = fs.Parse(args)

	ctx, cancel := callCtx()
	defer cancel()

	appointments, err := api.UserAppointments(ctx)
	if err != nil {
		if client.IsAuthenticationFailure(err) {
			log.Fatal("session expired, please log in again")
		}
		log.Fatalf("failed to fetch appointments: %v", err)
	}

	if len(appointments) == 0 {
		fmt.Println("No appointments found.")
		return
	}

	if *calendarView {
		printCalendar(appointments)
		return
	}
	for _, a := range appointments {
		fmt.Printf("%s  %s  %s-%s  (code %s)\n", a.ID, a.Date, a.StartTime, a.EndTime, a.Code)
	}
}

func printCalendar(appointments []client.Appointment) {
	now := time.Now()
	byDate := make(map[string]int)
	for _, a := range appointments {
		byDate[a.Date]++
	}

	fmt.Printf("%s %d\n", now.Month(), now.Year())
	fmt.Println("Sun Mon Tue Wed Thu Fri Sat")
	for _, week := range schedule.MonthGrid(now.Year(), now.Month()) {
		for _, day := range week {
			if day == 0 {
				fmt.Print("    ")
				continue
			}
			date := fmt.Sprintf("%04d-%02d-%02d", now.Year(), now.Month(), day)
			if byDate[date] > 0 {
				fmt.Printf("%2d* ", day)
			} else {
				fmt.Printf("%2d  ", day)
			}
		}
		fmt.Println()
	}
	fmt.Println("* day with appointments")
}

// fetchAvailability runs the resolver cycle for one date: select, fetch,
// apply. A failed fetch comes back as an explicit failed view, never as an
// empty-but-plausible slot list.
func fetchAvailability(api *client.Client, date string) schedule.Availability {
	resolver := schedule.NewResolver()
	resolver.SelectDate(date)

	ctx, cancel := callCtx()
	defer cancel()

	booked, err := api.BookedSlots(ctx)
	resolver.ApplyResult(date, booked, err)
	return resolver.Availability()
}

func slotsCmd(api *client.Client, args []string) {
	fs := flag.NewFlagSet("slots", flag.ExitOnError)
	date := fs.String("date", "", "date (YYYY-MM-DD)")
	_ = fs.Parse(args)

	if *date == "" {
		log.Fatal("date is required")
	}
	if err := schedule.ValidateDate(*date, time.Now()); err != nil {
		log.Fatalf("invalid date: %v", err)
	}

	availability := fetchAvailability(api, *date)
	switch {
	case availability.State == schedule.StateFailed:
		log.Fatalf("failed to fetch booked slots for %s", *date)
	case availability.NoSlots():
		fmt.Printf("No slots available on %s.\n", *date)
	default:
		fmt.Printf("Available slots on %s:\n", *date)
		for _, slot := range availability.Slots {
			fmt.Printf("  %s\n", slot.Label())
		}
	}
}

func bookCmd(api *client.Client, args []string) {
	fs := flag.NewFlagSet("book", flag.ExitOnError)
	date := fs.String("date", "", "date (YYYY-MM-DD)")
	label := fs.String("slot", "", `slot label (e.g. "18:00-18:30")`)
	_ = fs.Parse(args)

	if *date == "" {
		log.Fatal("date is required")
	}
	if err := schedule.ValidateDate(*date, time.Now()); err != nil {
		log.Fatalf("invalid date: %v", err)
	}

	resolver := schedule.NewResolver()
	resolver.SelectDate(*date)

	ctx, cancel := callCtx()
	defer cancel()

	booked, err := api.BookedSlots(ctx)
	resolver.ApplyResult(*date, booked, err)
	if resolver.Availability().State == schedule.StateFailed {
		log.Fatalf("failed to fetch booked slots for %s", *date)
	}

	slot, err := resolver.ValidateSelection(*label)
	if err != nil {
		log.Fatalf("invalid selection: %v", err)
	}

	appointment, err := api.CreateAppointment(ctx, *date, slot.StartTime, slot.EndTime)
	if err != nil {
		if client.IsConflictFailure(err) {
			log.Fatalf("slot %s was booked by someone else just now, pick another", slot.Label())
		}
		log.Fatalf("failed to create appointment: %v", err)
	}
	fmt.Printf("Booked %s on %s (code %s).\n", slot.Label(), appointment.Date, appointment.Code)
}

func cancelCmd(api *client.Client, args []string) {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	id := fs.String("id", "", "appointment id")
	_ = fs.Parse(args)

	if *id == "" {
		log.Fatal("id is required")
	}

	ctx, cancel := callCtx()
	defer cancel()

	appointments, err := api.UserAppointments(ctx)
	if err != nil {
		log.Fatalf("failed to fetch appointments: %v", err)
	}

	if err := api.DeleteAppointment(ctx, *id); err != nil {
		// Failed delete: the local list stays as it was.
		log.Fatalf("failed to delete appointment: %v", err)
	}

	remaining := client.FilterOut(appointments, *id)
	fmt.Printf("Deleted. %d appointment(s) remaining.\n", len(remaining))
}
