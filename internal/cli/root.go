package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/careerplan/internal/service"
	"github.com/alexanderramin/careerplan/internal/timeutil"
)

// Output modes for the --output flag.
const (
	OutputAuto = "auto"
	OutputText = "text"
	OutputJSON = "json"
)

// App holds everything CLI commands call into.
type App struct {
	Plans service.PlanService
	// Serve runs the HTTP API until ctx is cancelled.
	Serve func(ctx context.Context) error
	// IsInteractive reports whether stdout is a terminal. Auto output
	// renders text for terminals and JSON otherwise; nil means text.
	IsInteractive func() bool
	Clock         timeutil.Clock

	output string
}

func (a *App) now() timeutil.Clock {
	if a.Clock == nil {
		return timeutil.SystemClock
	}
	return a.Clock
}

func (a *App) wantJSON() bool {
	switch a.output {
	case OutputJSON:
		return true
	case OutputText:
		return false
	}
	return a.IsInteractive != nil && !a.IsInteractive()
}

// render writes v as indented JSON when JSON output is selected, otherwise
// the text produced by text().
func (a *App) render(w io.Writer, v any, text func() string) error {
	if a.wantJSON() {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprint(w, text())
	return err
}

// NewRootCmd creates the top-level "careerplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "careerplan",
		Short:         "Cascading career milestone planner",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch app.output {
			case OutputAuto, OutputText, OutputJSON:
				return nil
			}
			return fmt.Errorf("--output must be auto, text or json, got %q", app.output)
		},
	}
	root.PersistentFlags().StringVarP(&app.output, "output", "o", OutputAuto, "Output format: auto, text or json")

	root.AddCommand(
		newServeCmd(app),
		newProfileCmd(app),
		newGenerateCmd(app),
		newShowCmd(app),
		newUpdateCmd(app),
		newSetCmd(app),
		newInterpretCmd(app),
		newRegenerateCmd(app),
		newHistoryCmd(app),
	)

	return root
}
