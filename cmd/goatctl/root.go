package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"livestock-records/internal/client/api"
	"livestock-records/internal/client/page"
	"livestock-records/internal/client/session"
	"livestock-records/internal/platform/config"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// app agrupa la E/S y el estado compartido por los subcomandos.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	apiURL  string
	timeout time.Duration
	output  string

	client  *api.Client
	session *session.Store

	now          func() time.Time
	readPassword func(prompt string) (string, error)
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	a := &app{
		in:      in,
		out:     out,
		errOut:  errOut,
		session: session.NewStore(),
		now:     time.Now,
	}
	a.readPassword = a.promptPassword
	return a
}

func newRootCmd(a *app, cfg config.ClientConfig) *cobra.Command {
	root := &cobra.Command{
		Use:   "goatctl",
		Short: "Command-line client for the livestock records API",
		Long: `goatctl manages breeds, medicines, vendors and tags on a livestock records server.

Examples:
  goatctl breeds list
  goatctl breeds add --breed-id B1 --name Boer
  goatctl tags add --tag-id T1 --color red --acquired yesterday
  goatctl users signin --email ana@farm.io
  goatctl tui`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			switch a.output {
			case outputTable, outputJSON:
			default:
				return fmt.Errorf("--output must be %q or %q, got %q", outputTable, outputJSON, a.output)
			}
			c, err := api.New(a.apiURL, a.timeout)
			if err != nil {
				return err
			}
			a.client = c
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.apiURL, "api-url", cfg.APIBaseURL, "API base URL including the prefix (env API_BASE_URL)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", cfg.Timeout, "Request timeout (env API_TIMEOUT)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", outputTable, "Output format: table, json")

	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.AddCommand(
		breedsCmd(a),
		medicinesCmd(a),
		vendorsCmd(a),
		tagsCmd(a),
		usersCmd(a),
		tuiCmd(a),
	)
	return root
}

func (a *app) printer() *printer { return newPrinter(a.out, a.output) }

// fail escribe err en stderr con el texto que vería el usuario en un banner.
func (a *app) fail(err error) {
	newPrinter(a.errOut, outputTable).Error(describe(err))
}

func describe(err error) string {
	var (
		fe page.FieldErrors
		f  *failure
	)
	switch {
	case errors.As(err, &fe):
		return fe.Error()
	case errors.As(err, &f):
		return f.msg
	}
	return api.MessageFor(err, err.Error())
}

// failure conserva la causa para errors.Is/As y muestra el texto que vería el usuario.
type failure struct {
	msg string
	err error
}

func (f *failure) Error() string { return f.msg }
func (f *failure) Unwrap() error { return f.err }

func failed(err error, fallback string) error {
	return &failure{msg: api.MessageFor(err, fallback), err: err}
}

// promptPassword lee sin eco si stdin es una terminal; si no, toma una línea.
func (a *app) promptPassword(prompt string) (string, error) {
	fmt.Fprint(a.errOut, prompt)
	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.errOut)
		return string(b), err
	}
	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
