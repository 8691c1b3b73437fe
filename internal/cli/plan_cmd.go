package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/careerplan/internal/cli/formatter"
	"github.com/alexanderramin/careerplan/internal/domain"
)

func newProfileCmd(app *App) *cobra.Command {
	var p domain.UserProfile

	cmd := &cobra.Command{
		Use:   "profile <username>",
		Short: "Create or replace a user's questionnaire",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := p
			in.Username = args[0]
			saved, err := app.Plans.UpsertProfile(cmd.Context(), &in)
			if err != nil {
				return err
			}
			return app.render(cmd.OutOrStdout(), saved, func() string {
				return formatter.FormatProfile(saved, app.now()())
			})
		},
	}

	cmd.Flags().StringVar(&p.InterestsValues, "interests", "", "Interests and values")
	cmd.Flags().StringVar(&p.WorkExperience, "experience", "", "Work experience")
	cmd.Flags().StringVar(&p.Circumstances, "circumstances", "", "Current circumstances")
	cmd.Flags().StringVar(&p.Skills, "skills", "", "Current skills")
	cmd.Flags().StringVar(&p.Goals, "goals", "", "Career goals")

	return cmd
}

func newGenerateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <username>",
		Short: "Generate a plan, or return the stored one if it is newer than the profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Plans.GeneratePlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.render(cmd.OutOrStdout(), res.Plan, func() string {
				note := "Generated a new plan."
				if res.Reused {
					note = "Stored plan is newer than the profile; reusing it."
				}
				return formatter.Dim(note) + "\n\n" + formatter.FormatPlan(res.Plan, app.now()())
			})
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	var timeframe string

	cmd := &cobra.Command{
		Use:   "show <username>",
		Short: "Show a stored plan or one of its milestones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if timeframe == "" {
				plan, err := app.Plans.GetPlan(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return app.render(cmd.OutOrStdout(), plan, func() string {
					return formatter.FormatPlan(plan, app.now()())
				})
			}

			tf, err := domain.ParseTimeframe(timeframe)
			if err != nil {
				return err
			}
			m, err := app.Plans.GetMilestone(cmd.Context(), args[0], tf)
			if err != nil {
				return err
			}
			return app.render(cmd.OutOrStdout(), m, func() string {
				return formatter.FormatMilestone(m, app.now()())
			})
		},
	}

	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "", "Show only this milestone (1_month, 3_months, 1_year, 5_years)")
	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history <username>",
		Short: "List committed versions of a user's plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versions, err := app.Plans.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.render(cmd.OutOrStdout(), versions, func() string {
				return formatter.FormatHistory(versions, app.now()())
			})
		},
	}
}

func newRegenerateCmd(app *App) *cobra.Command {
	var from string
	var targets []string

	cmd := &cobra.Command{
		Use:   "regenerate <username>",
		Short: "Regenerate milestones from a reference milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := domain.ParseTimeframe(from)
			if err != nil {
				return err
			}
			tfs := ref.Downstream()
			if cmd.Flags().Changed("targets") {
				if tfs, err = domain.ParseTimeframes(splitList(targets)); err != nil {
					return err
				}
			}

			res, err := app.Plans.RegenerateSubsequent(cmd.Context(), args[0], ref, tfs)
			if err != nil {
				return err
			}
			return app.render(cmd.OutOrStdout(), cascadeView(res, nil), func() string {
				return formatter.FormatCascade(res, app.now()())
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Reference timeframe")
	cmd.Flags().StringSliceVar(&targets, "targets", nil, "Timeframes to regenerate (default: everything after --from)")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func timeframeArg(args []string) (domain.Timeframe, error) {
	tf, err := domain.ParseTimeframe(args[0])
	if err != nil {
		return "", fmt.Errorf("first argument: %w", err)
	}
	return tf, nil
}
