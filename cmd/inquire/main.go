// Command inquire fills in the booking form from a terminal and submits it to
// the intake endpoint, with the same validation and anti-spam checks as the site.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/wanderlust-cottage/booking-api/internal/form"
	"github.com/wanderlust-cottage/booking-api/pkg/httpclient"
)

type options struct {
	endpoint string
	timezone string
	contact  string
	timeout  time.Duration
}

type prompt struct {
	field string
	label string
}

var prompts = []prompt{
	{form.FieldName, "Nume complet"},
	{form.FieldEmail, "Email"},
	{form.FieldPhone, "Telefon"},
	{form.FieldGuests, "Număr de oaspeți"},
	{form.FieldCheckIn, "Check-in (AAAA-LL-ZZ)"},
	{form.FieldCheckOut, "Check-out (AAAA-LL-ZZ)"},
	{"preferences", "Preferințe (opțional)"},
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outcome, err := run(ctx, opts, os.Stdin, os.Stdout, time.Now)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if outcome.Status == form.StatusError {
		os.Exit(1)
	}
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("inquire", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.endpoint, "endpoint", "http://localhost:8081/api/booking", "booking endpoint URL")
	fs.StringVar(&opts.timezone, "timezone", "Europe/Bucharest", "time zone deciding which day is today")
	fs.StringVar(&opts.contact, "contact", "office@wanderlust-cottage.com", "address offered when submission fails")
	fs.DurationVar(&opts.timeout, "timeout", 15*time.Second, "HTTP timeout")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// run asks for every field, re-asks the ones that fail validation and
// submits once the form is valid
func run(ctx context.Context, opts options, in io.Reader, out io.Writer, now func() time.Time) (form.Outcome, error) {
	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return form.Outcome{}, fmt.Errorf("invalid time zone: %w", err)
	}

	v, err := form.NewValidator(loc, now)
	if err != nil {
		return form.Outcome{}, err
	}
	client := form.NewClient(opts.endpoint, httpclient.NewStandardClient(opts.timeout))
	session := form.NewSession(v, client, opts.contact, now)

	scanner := bufio.NewScanner(in)
	pending := prompts
	for {
		for _, p := range pending {
			if err := ask(scanner, out, session, p); err != nil {
				return form.Outcome{}, err
			}
		}

		outcome := session.Submit(ctx)
		switch outcome.Status {
		case form.StatusInvalid:
			pending = failed(outcome.FieldErrors, out)
			if len(pending) == 0 {
				return outcome, errors.New("form could not be validated")
			}
			continue
		case form.StatusSuccess:
			fmt.Fprintln(out, outcome.Message)
			fmt.Fprintf(out, "Număr cerere: %s\n", outcome.BookingID)
		case form.StatusError:
			fmt.Fprintln(out, outcome.Message)
			fmt.Fprintln(out, outcome.ContactLink)
		}
		return outcome, nil
	}
}

func ask(scanner *bufio.Scanner, out io.Writer, session *form.Session, p prompt) error {
	if p.field == form.FieldGuests {
		fmt.Fprintf(out, "%s [%d]: ", p.label, session.Request.Guests)
	} else {
		fmt.Fprintf(out, "%s: ", p.label)
	}

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		return io.ErrUnexpectedEOF
	}

	value := strings.TrimSpace(scanner.Text())
	if p.field == form.FieldGuests && value == "" {
		return nil
	}
	return session.Update(p.field, value)
}

// failed prints the field errors and returns the prompts to ask again
func failed(fieldErrors map[string]string, out io.Writer) []prompt {
	var again []prompt
	for _, p := range prompts {
		if msg, ok := fieldErrors[p.field]; ok {
			fmt.Fprintf(out, "  %s\n", msg)
			again = append(again, p)
		}
	}
	return again
}
