package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/careerplan/internal/cli/formatter"
	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/service"
)

// cascadeJSON is the machine-readable form of a committed cascade.
type cascadeJSON struct {
	Update      *domain.StructuredUpdate `json:"update,omitempty"`
	Reference   domain.Timeframe         `json:"reference"`
	Affected    []domain.Timeframe       `json:"cascade_affected"`
	Regenerated []domain.Timeframe       `json:"regenerated"`
	Degraded    []domain.Timeframe       `json:"degraded"`
	Plan        *domain.Plan             `json:"updated_plan"`
}

func cascadeView(res *service.CascadeResult, update *domain.StructuredUpdate) cascadeJSON {
	orEmpty := func(tfs []domain.Timeframe) []domain.Timeframe {
		if tfs == nil {
			return []domain.Timeframe{}
		}
		return tfs
	}
	return cascadeJSON{
		Update:      update,
		Reference:   res.Reference,
		Affected:    orEmpty(res.Affected),
		Regenerated: orEmpty(res.Regenerated),
		Degraded:    orEmpty(res.Degraded),
		Plan:        res.Plan,
	}
}

func newUpdateCmd(app *App) *cobra.Command {
	var thoughts, userContext string

	cmd := &cobra.Command{
		Use:   "update <timeframe> <username>",
		Short: "Apply free-text thoughts to a milestone and cascade downstream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := timeframeArg(args)
			if err != nil {
				return err
			}
			res, err := app.Plans.UpdateFromThoughts(cmd.Context(), args[1], tf, thoughts, userContext)
			if err != nil {
				return err
			}
			return app.render(cmd.OutOrStdout(), cascadeView(res.Cascade, &res.Update), func() string {
				return formatter.Header("Applied update") + "\n" +
					formatter.FormatUpdate(res.Update) + "\n" +
					formatter.FormatCascade(res.Cascade, app.now()())
			})
		},
	}

	cmd.Flags().StringVar(&thoughts, "thoughts", "", "What changed, in your own words")
	cmd.Flags().StringVar(&userContext, "context", "", "Extra context for the interpretation")
	_ = cmd.MarkFlagRequired("thoughts")
	return cmd
}

func newInterpretCmd(app *App) *cobra.Command {
	var thoughts, userContext string

	cmd := &cobra.Command{
		Use:   "interpret <timeframe> <username>",
		Short: "Preview the structured update for some thoughts without applying it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := timeframeArg(args)
			if err != nil {
				return err
			}
			update, err := app.Plans.PreviewThoughts(cmd.Context(), args[1], tf, thoughts, userContext)
			if err != nil {
				return err
			}
			return app.render(cmd.OutOrStdout(), update, func() string {
				return formatter.Header("Proposed update") + "\n" +
					formatter.FormatUpdate(update) + "\n" +
					formatter.Dim("Not applied. Run `careerplan update` to apply it.") + "\n"
			})
		},
	}

	cmd.Flags().StringVar(&thoughts, "thoughts", "", "What changed, in your own words")
	cmd.Flags().StringVar(&userContext, "context", "", "Extra context for the interpretation")
	_ = cmd.MarkFlagRequired("thoughts")
	return cmd
}

func newSetCmd(app *App) *cobra.Command {
	var (
		objectives []string
		focus      []string
		weeks      int
		budget     float64
		notes      string
		priority   string
	)

	cmd := &cobra.Command{
		Use:   "set <timeframe> <username>",
		Short: "Apply a structured change to a milestone and cascade downstream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := timeframeArg(args)
			if err != nil {
				return err
			}

			var update domain.StructuredUpdate
			cmd.Flags().Visit(func(f *pflag.Flag) {
				switch f.Name {
				case "objectives":
					update.Objectives = splitList(objectives)
				case "focus":
					update.FocusAreas = splitList(focus)
				case "timeline-weeks":
					update.TimelineWeeks = &weeks
				case "budget":
					update.Budget = &budget
				case "notes":
					update.UserNotes = &notes
				case "priority":
					update.PriorityLevel = &priority
				}
			})

			res, err := app.Plans.DirectUpdate(cmd.Context(), args[1], tf, update)
			if err != nil {
				return err
			}
			return app.render(cmd.OutOrStdout(), cascadeView(res, &update), func() string {
				return formatter.FormatCascade(res, app.now()())
			})
		},
	}

	cmd.Flags().StringArrayVar(&objectives, "objectives", nil, "Replace key objectives (repeatable)")
	cmd.Flags().StringSliceVar(&focus, "focus", nil, "Add \"Focus on <area>\" objectives")
	cmd.Flags().IntVar(&weeks, "timeline-weeks", 0, "Replace the timeline in weeks")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Replace the budget estimate")
	cmd.Flags().StringVar(&notes, "notes", "", "Replace the user notes")
	cmd.Flags().StringVar(&priority, "priority", "", "Set priority: high, medium or low")
	return cmd
}
