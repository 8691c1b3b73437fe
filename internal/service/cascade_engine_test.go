package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/llm"
	"github.com/alexanderramin/careerplan/internal/metrics"
	"github.com/alexanderramin/careerplan/internal/repository"
	"github.com/alexanderramin/careerplan/internal/testutil"
)

func TestApplyCascade_OnlyMutatesTargetAndDownstream(t *testing.T) {
	for _, tf := range domain.Timeframes() {
		t.Run(tf.String(), func(t *testing.T) {
			env := newTestEnv(t)
			plan := testutil.NewTestPlan("ada")
			before := plan.Clone()

			res, err := env.engine.ApplyCascade(context.Background(), plan, tf,
				domain.StructuredUpdate{TimelineWeeks: intPtr(9)})
			require.NoError(t, err)

			assert.Equal(t, before, plan, "input plan must not be mutated")
			for _, other := range domain.Timeframes() {
				if other.Index() < tf.Index() {
					assert.Equal(t, before.Milestone(other), res.Plan.Milestone(other), "%s changed", other)
				}
			}
			assert.Equal(t, 9, res.Plan.Milestone(tf).Details.Base().TimelineWeeks)
			assert.Equal(t, tf.Downstream(), res.Affected)
		})
	}
}

func TestApplyCascade_VersionAndTimestampAdvance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	plan := testutil.NewTestPlan("ada", testutil.WithVersion(4))
	res, err := env.engine.ApplyCascade(ctx, plan, domain.TimeframeOneMonth, domain.StructuredUpdate{})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Plan.Version)
	assert.True(t, res.Plan.LastUpdated.After(plan.LastUpdated))
	assert.Equal(t, testutil.FixedNow, res.Plan.LastUpdated)

	// A stored timestamp ahead of the clock still moves forward.
	ahead := testutil.NewTestPlan("bo", testutil.WithPlanUpdated(testutil.FixedNow.Add(time.Hour)))
	res, err = env.engine.ApplyCascade(ctx, ahead, domain.TimeframeFiveYears, domain.StructuredUpdate{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Plan.Version)
	assert.True(t, res.Plan.LastUpdated.After(ahead.LastUpdated))
}

func TestApplyCascade_FailingGeneratorDegradesNonNullSlots(t *testing.T) {
	env := newTestEnv(t)
	plan := testutil.NewTestPlan("ada", testutil.WithoutMilestone(domain.TimeframeOneYear))

	res, err := env.engine.ApplyCascade(context.Background(), plan, domain.TimeframeOneMonth,
		domain.StructuredUpdate{Objectives: []string{"Learn Rust"}})
	require.NoError(t, err)

	label := "Updated due to 1_month changes"
	for _, tf := range []domain.Timeframe{domain.TimeframeThreeMonths, domain.TimeframeFiveYears} {
		b := res.Plan.Milestone(tf).Details.Base()
		assert.Equal(t, 1, countDeps(b.Dependencies, label), "%s dependencies", tf)
		assert.Len(t, b.Dependencies, len(plan.Milestone(tf).Details.Base().Dependencies)+1)
		assert.Equal(t, testutil.FixedNow, b.LastUpdated)
		assert.Equal(t, plan.Milestone(tf).ID, res.Plan.Milestone(tf).ID)
	}
	assert.Nil(t, res.Plan.MilestoneOneYear)
	assert.Equal(t, []domain.Timeframe{domain.TimeframeThreeMonths, domain.TimeframeFiveYears}, res.Degraded)
	assert.Empty(t, res.Regenerated)
	assert.Equal(t, []string{"Learn Rust"}, res.Plan.MilestoneOneMonth.Details.Base().KeyObjectives)
	assert.Equal(t, 1.0, prom.ToFloat64(env.metrics.CascadeMilestones.WithLabelValues("3_months", metrics.OutcomeDegraded)))
	assert.Equal(t, 1.0, prom.ToFloat64(env.metrics.CascadeMilestones.WithLabelValues("5_years", metrics.OutcomeDegraded)))
}

func TestApplyCascade_FocusAreasAreIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	update := domain.StructuredUpdate{FocusAreas: []string{"networking", "public speaking"}}

	first, err := env.engine.ApplyCascade(ctx, testutil.NewTestPlan("ada"), domain.TimeframeFiveYears, update)
	require.NoError(t, err)
	second, err := env.engine.ApplyCascade(ctx, first.Plan, domain.TimeframeFiveYears, update)
	require.NoError(t, err)

	objectives := second.Plan.MilestoneFiveYear.Details.Base().KeyObjectives
	assert.Equal(t, first.Plan.MilestoneFiveYear.Details.Base().KeyObjectives, objectives)
	assert.Equal(t, 1, countDeps(objectives, "Focus on networking"))
	assert.Equal(t, 1, countDeps(objectives, "Focus on public speaking"))
	assert.Equal(t, 3, second.Plan.Version)
}

func TestApplyCascade_ThreeMonthsReplacesDownstream(t *testing.T) {
	env := newTestEnv(t)
	env.stub.SetResponse(llm.TaskCascade, cascadeResponse)
	ctx := context.Background()

	plan := testutil.NewTestPlan("ada")
	res, err := env.engine.ApplyCascade(ctx, plan, domain.TimeframeThreeMonths,
		domain.StructuredUpdate{TimelineWeeks: intPtr(8)})
	require.NoError(t, err)

	assert.Equal(t, plan.MilestoneOneMonth, res.Plan.MilestoneOneMonth)
	assert.Equal(t, 8, res.Plan.MilestoneThreeMo.Details.Base().TimelineWeeks)
	assert.Equal(t, 2, res.Plan.Version)

	year := res.Plan.MilestoneOneYear
	assert.NotEqual(t, plan.MilestoneOneYear.ID, year.ID)
	assert.True(t, strings.HasPrefix(year.ID, "1_year_20240501_"))
	assert.Equal(t, "Senior engineer", year.Title)
	assert.Equal(t, 52, year.Details.Base().TimelineWeeks)
	assert.Equal(t, domain.MilestonePending, year.Status)
	assert.Zero(t, year.CompletionStatus)
	assert.Equal(t, []string{"Senior Backend Engineer"}, year.Details.(*domain.OneYearDetail).CareerTargets)

	five := res.Plan.MilestoneFiveYear
	assert.NotEqual(t, plan.MilestoneFiveYear.ID, five.ID)
	assert.Equal(t, 250, five.Details.Base().TimelineWeeks)
	assert.Equal(t, "Shape platform strategy", five.Details.(*domain.FiveYearDetail).VisionStatement)

	assert.Equal(t, []domain.Timeframe{domain.TimeframeOneYear, domain.TimeframeFiveYears}, res.Regenerated)
	assert.Empty(t, res.Degraded)
	assert.Equal(t, []CascadeState{StateTargetUpdated, StateDownstreamComputed, StateDownstreamRegenerated, StateCommitted}, res.Trace)

	calls := env.stub.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].UserPrompt, "MILESTONES TO UPDATE: 1_year, 5_years")

	stored, err := env.plans.Get(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, res.Plan, stored)
}

func TestApplyCascade_MissingTimeframeInResponseDegradesThatSlot(t *testing.T) {
	env := newTestEnv(t)
	env.stub.SetResponse(llm.TaskCascade, `{"milestones": {"5_years": {"title": "Staff", "overview": "o", "details": {}}}}`)

	plan := testutil.NewTestPlan("ada")
	res, err := env.engine.ApplyCascade(context.Background(), plan, domain.TimeframeThreeMonths, domain.StructuredUpdate{})
	require.NoError(t, err)

	assert.Equal(t, []domain.Timeframe{domain.TimeframeFiveYears}, res.Regenerated)
	assert.Equal(t, []domain.Timeframe{domain.TimeframeOneYear}, res.Degraded)
	assert.Equal(t, plan.MilestoneOneYear.ID, res.Plan.MilestoneOneYear.ID)
	assert.Contains(t, res.Plan.MilestoneOneYear.Details.Base().Dependencies, "Updated due to 3_months changes")
}

func TestApplyCascade_FiveYearsMakesNoGenerationCall(t *testing.T) {
	env := newTestEnv(t)
	env.stub.SetResponse(llm.TaskCascade, cascadeResponse)

	plan := testutil.NewTestPlan("ada")
	notes := "revisit in spring"
	res, err := env.engine.ApplyCascade(context.Background(), plan, domain.TimeframeFiveYears,
		domain.StructuredUpdate{UserNotes: &notes})
	require.NoError(t, err)

	assert.Empty(t, env.stub.Calls())
	assert.Empty(t, res.Affected)
	assert.Equal(t, []CascadeState{StateTargetUpdated, StateDownstreamComputed, StateCommitted}, res.Trace)

	expected := plan.Clone()
	b := expected.MilestoneFiveYear.Details.Base()
	b.UserNotes = notes
	b.LastUpdated = testutil.FixedNow
	expected.Version = plan.Version + 1
	expected.LastUpdated = testutil.FixedNow
	assert.Equal(t, expected, res.Plan)
}

func TestApplyCascade_RejectsBadInputWithoutWriting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := testutil.NewTestPlan("ada", testutil.WithoutMilestone(domain.TimeframeOneYear))

	_, err := env.engine.ApplyCascade(ctx, plan, domain.Timeframe("2_years"), domain.StructuredUpdate{})
	var tfErr *domain.InvalidTimeframeError
	require.ErrorAs(t, err, &tfErr)
	assert.Equal(t, "2_years", tfErr.Value)

	_, err = env.engine.ApplyCascade(ctx, plan, domain.TimeframeOneYear, domain.StructuredUpdate{})
	var mErr *domain.MilestoneNotFoundError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, domain.TimeframeOneYear, mErr.Timeframe)

	_, err = env.engine.ApplyCascade(ctx, plan, domain.TimeframeOneMonth,
		domain.StructuredUpdate{TimelineWeeks: intPtr(0)})
	assert.ErrorIs(t, err, ErrInvalidUpdate)

	_, err = env.plans.Get(ctx, "ada")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestApplyCascade_StoreFailureSurfaces(t *testing.T) {
	env := newTestEnv(t)
	env.wire(&failingPutRepo{PlanRepo: env.plans, err: repository.ErrStoreUnavailable})

	_, err := env.engine.ApplyCascade(context.Background(), testutil.NewTestPlan("ada"),
		domain.TimeframeFiveYears, domain.StructuredUpdate{})
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
}

func TestRegenerateSpecific_FailingGeneratorDegradesTargets(t *testing.T) {
	env := newTestEnv(t)
	plan := testutil.NewTestPlan("ada")

	res, err := env.engine.RegenerateSpecific(context.Background(), plan, domain.TimeframeOneMonth,
		[]domain.Timeframe{domain.TimeframeFiveYears})
	require.NoError(t, err)

	expected := plan.MilestoneFiveYear.Clone()
	b := expected.Details.Base()
	b.Dependencies = append(b.Dependencies, "Updated due to 1_month changes")
	b.LastUpdated = testutil.FixedNow
	assert.Equal(t, expected, res.Plan.MilestoneFiveYear)

	assert.Equal(t, plan.MilestoneThreeMo, res.Plan.MilestoneThreeMo)
	assert.Equal(t, plan.MilestoneOneYear, res.Plan.MilestoneOneYear)
	assert.Equal(t, plan.Version+1, res.Plan.Version)
	assert.Equal(t, []domain.Timeframe{domain.TimeframeFiveYears}, res.Degraded)
	assert.Equal(t, 1.0, prom.ToFloat64(env.metrics.PlanCommits.WithLabelValues("regenerate")))
}

func TestRegenerateSpecific_AllowsNonDownstreamTargets(t *testing.T) {
	env := newTestEnv(t)
	env.stub.SetResponse(llm.TaskCascade, cascadeResponse)

	res, err := env.engine.RegenerateSpecific(context.Background(), testutil.NewTestPlan("ada"),
		domain.TimeframeFiveYears, []domain.Timeframe{domain.TimeframeOneYear, domain.TimeframeOneYear})
	require.NoError(t, err)
	assert.Equal(t, []domain.Timeframe{domain.TimeframeOneYear}, res.Affected)
	assert.Equal(t, []domain.Timeframe{domain.TimeframeOneYear}, res.Regenerated)
	assert.Equal(t, "Senior engineer", res.Plan.MilestoneOneYear.Title)
}

func TestRegenerateSpecific_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	plan := testutil.NewTestPlan("ada", testutil.WithoutMilestone(domain.TimeframeOneMonth))

	_, err := env.engine.RegenerateSpecific(ctx, plan, domain.TimeframeThreeMonths,
		[]domain.Timeframe{domain.TimeframeOneYear, "10_years"})
	var tfErr *domain.InvalidTimeframeError
	require.ErrorAs(t, err, &tfErr)
	assert.Equal(t, "10_years", tfErr.Value)

	_, err = env.engine.RegenerateSpecific(ctx, plan, domain.TimeframeOneMonth,
		[]domain.Timeframe{domain.TimeframeOneYear})
	var mErr *domain.MilestoneNotFoundError
	assert.ErrorAs(t, err, &mErr)

	_, err = env.engine.RegenerateSpecific(ctx, plan, domain.TimeframeThreeMonths, nil)
	assert.ErrorIs(t, err, ErrNoTargets)
	assert.Empty(t, env.stub.Calls())
}

func TestGenerateInitial_BuildsAndStoresPlan(t *testing.T) {
	env := newTestEnv(t)
	env.stub.SetResponse(llm.TaskPlanGenerate, planResponse)
	ctx := context.Background()

	plan, err := env.engine.GenerateInitial(ctx, testutil.NewTestProfile("ada"))
	require.NoError(t, err)

	assert.Equal(t, "plan_ada_20240501_093015", plan.ID)
	assert.Equal(t, 1, plan.Version)
	assert.Equal(t, testutil.FixedNow, plan.CreatedAt)
	for _, tf := range domain.Timeframes() {
		m := plan.Milestone(tf)
		require.NotNil(t, m, tf)
		assert.Equal(t, tf.String()+"_20240501", m.ID)
	}
	assert.Equal(t, 30.0, plan.MilestoneOneMonth.Details.Base().BudgetEstimate)
	assert.Equal(t, 12, plan.MilestoneThreeMo.Details.Base().TimelineWeeks)

	stored, err := env.plans.Get(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, plan, stored)
}

func TestGenerateInitial_FailureIsPlanGenerationError(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.GenerateInitial(context.Background(), testutil.NewTestProfile("ada"))
	var genErr *domain.PlanGenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "ada", genErr.UserID)
	assert.True(t, llm.IsGenerationFailure(err))
	assert.True(t, errors.Is(err, llm.ErrUnavailable))

	_, err = env.plans.Get(context.Background(), "ada")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
