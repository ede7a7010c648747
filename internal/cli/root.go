// Package cli implements sikadctl, the operator tool for seeding, exporting
// and reporting on the records in Firestore.
package cli

import (
	"context"
	"os"

	"github.com/go-kit/log"
	"github.com/shafwanhasyim/sikad-gg/internal/logging"
	"github.com/shafwanhasyim/sikad-gg/internal/report"
	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd(openFirebase)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is shared by every subcommand. The backend is opened on first use so
// that commands failing flag validation never dial Firestore.
type app struct {
	open     opener
	backend  *backend
	logger   log.Logger
	logLevel string
	plain    bool
}

func (a *app) connect(ctx context.Context) (*backend, error) {
	if a.backend != nil {
		return a.backend, nil
	}
	b, err := a.open(ctx, a.logger)
	if err != nil {
		return nil, err
	}
	a.backend = b
	return b, nil
}

func (a *app) close() {
	if a.backend != nil && a.backend.close != nil {
		_ = a.backend.close()
	}
}

// renderer styles output only when stdout is a terminal.
func (a *app) renderer(cmd *cobra.Command) *report.Renderer {
	if a.plain {
		return report.New(false)
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return report.New(ok && report.IsTerminal(f))
}

func newRootCmd(open opener) *cobra.Command {
	a := &app{open: open}

	cmd := &cobra.Command{
		Use:          "sikadctl",
		Short:        "Operator tool for the SIKAD grade records",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.logger = logging.New(cmd.ErrOrStderr(), "sikadctl", a.logLevel)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			a.close()
		},
	}

	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&a.plain, "plain", false, "never style report output")

	cmd.AddCommand(
		seedCmd(a),
		exportCmd(a),
		reportCmd(a),
		adminKeyCmd(a),
	)
	return cmd
}
