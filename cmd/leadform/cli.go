package main

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/neurostream/intake/pkg/forms"
	"github.com/neurostream/intake/pkg/logger"
	"github.com/neurostream/intake/pkg/models"
)

// endpointEnv names the variable each form reads its intake URL from
var endpointEnv = map[models.Kind]string{
	models.KindContact:  "CONTACT_SCRIPT_URL",
	models.KindWaitlist: "WAITLIST_SCRIPT_URL",
}

// newApp creates the CLI application with all commands.
func newApp(stdout, stderr io.Writer) *cli.App {
	app := &cli.App{
		Name:      "leadform",
		Usage:     "Submit the NeuroStream contact or waitlist form",
		Version:   Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "debug|info|warn|error"},
		},
		Commands: []*cli.Command{
			formCmd(models.KindContact, "Send a message through the contact form"),
			formCmd(models.KindWaitlist, "Join the beta waitlist"),
			rolesCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// formCmd builds a command with one flag per form field
func formCmd(kind models.Kind, usage string) *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "endpoint", Usage: fmt.Sprintf("Intake URL (default: $%s at submit time)", endpointEnv[kind])},
		&cli.BoolFlag{Name: "confirm", Usage: "Read the server reply instead of fire-and-forget"},
		&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "Request timeout (0 disables)"},
	}
	for _, field := range models.FieldNames(kind) {
		flags = append(flags, &cli.StringFlag{Name: flagName(field), Usage: field})
	}

	return &cli.Command{
		Name:  string(kind),
		Usage: usage,
		Flags: flags,
		Action: func(c *cli.Context) error {
			log, err := logger.New(c.String("log-level"), "cli")
			if err != nil {
				return err
			}
			return submit(c, kind, log)
		},
	}
}

func submit(c *cli.Context, kind models.Kind, log *zap.Logger) error {
	endpoint := forms.EnvEndpoint(endpointEnv[kind])
	if u := c.String("endpoint"); u != "" {
		endpoint = forms.StaticEndpoint(u)
	}

	client := &http.Client{Timeout: c.Duration("timeout")}
	var submitter forms.Submitter = forms.OpaqueSubmitter{Client: client}
	if c.Bool("confirm") {
		submitter = forms.ConfirmingSubmitter{Client: client}
	}

	form, err := forms.New(kind, endpoint, submitter, log)
	if err != nil {
		return err
	}
	for _, field := range form.Fields() {
		if err := form.Set(field, c.String(flagName(field))); err != nil {
			return err
		}
	}

	res, err := form.Submit(c.Context)
	if err != nil {
		return err
	}

	out := c.App.Writer
	switch res.Outcome {
	case forms.OutcomeInvalid:
		fields := make([]string, 0, len(res.Errors))
		for f := range res.Errors {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(out, "--%s: %s\n", flagName(f), res.Errors[f])
		}
		return cli.Exit("form has errors", 2)
	case forms.OutcomeError:
		fmt.Fprintln(out, res.Message)
		return cli.Exit(res.Err.Error(), 1)
	}

	fmt.Fprintln(out, res.Message)
	if !res.Confirmed {
		fmt.Fprintln(out, "(request sent; server reply not checked, use --confirm to verify)")
	}
	return nil
}

func rolesCmd() *cli.Command {
	return &cli.Command{
		Name:  "roles",
		Usage: "List accepted values for waitlist --role",
		Action: func(c *cli.Context) error {
			for _, r := range models.Roles {
				fmt.Fprintln(c.App.Writer, r)
			}
			return nil
		},
	}
}

// flagName turns a camelCase field name into a kebab-case flag
func flagName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
