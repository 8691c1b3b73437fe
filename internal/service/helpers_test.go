package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/intelligence"
	"github.com/alexanderramin/careerplan/internal/llm"
	"github.com/alexanderramin/careerplan/internal/metrics"
	"github.com/alexanderramin/careerplan/internal/repository"
	"github.com/alexanderramin/careerplan/internal/testutil"
)

const cascadeResponse = `Here you go:
{"milestones": {
  "1_year": {"title": "Senior engineer", "overview": "Own a service end to end",
    "details": {"key_objectives": ["Lead a migration"], "career_targets": ["Senior Backend Engineer"],
      "salary_expectations": {"min": 95000}}},
  "5_years": {"title": "Staff engineer", "overview": "Set technical direction",
    "details": {"timeline_weeks": 250, "vision_statement": "Shape platform strategy"}}
}}`

const planResponse = `{"overview": {"summary": "Backend to staff", "key_focus_areas": ["systems"],
  "salary_projection": {"5_years": "$200k"}},
 "milestones": {
  "1_month": {"title": "Foundations", "overview": "Set up habits",
    "details": {"daily_tasks": ["Read one RFC"], "budget_estimate": 30}},
  "3_months": {"title": "Portfolio", "overview": "Ship two projects",
    "details": {"projects_to_complete": ["CLI tool"]}},
  "1_year": {"title": "Promotion", "overview": "Reach senior",
    "details": {"career_targets": ["Senior"]}},
  "5_years": {"title": "Staff", "overview": "Lead org-wide work",
    "details": {"vision_statement": "Trusted technical leader"}}
 }}`

func fixedClock() time.Time { return testutil.FixedNow }

// failingPutRepo wraps a PlanRepo and fails every write.
type failingPutRepo struct {
	repository.PlanRepo
	err error
}

func (r *failingPutRepo) Put(context.Context, *domain.Plan) error { return r.err }

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

type testEnv struct {
	stub     *llm.StubClient
	plans    repository.PlanRepo
	profiles repository.UserProfileRepo
	metrics  *metrics.Metrics
	engine   CascadeEngine
	svc      PlanService
	observer *recordingObserver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	env := &testEnv{
		stub:     llm.NewStubClient("stub", nil),
		plans:    repository.NewSQLitePlanRepo(database),
		profiles: repository.NewSQLiteUserProfileRepo(database),
		metrics:  metrics.New(false),
		observer: &recordingObserver{},
	}
	env.wire(env.plans)
	return env
}

// wire rebuilds the engine and service over plans.
func (e *testEnv) wire(plans repository.PlanRepo) {
	gen := intelligence.NewPlanGenerator(e.stub, zap.NewNop())
	interp := intelligence.NewUpdateInterpreter(e.stub, zap.NewNop())
	e.engine = NewCascadeEngine(gen, plans, fixedClock, zap.NewNop(), e.metrics)
	e.svc = NewPlanService(e.engine, interp, plans, e.profiles, fixedClock, e.observer)
}

func (e *testEnv) seedPlan(t *testing.T, p *domain.Plan) *domain.Plan {
	t.Helper()
	require.NoError(t, e.plans.Put(context.Background(), p))
	return p
}

func (e *testEnv) seedProfile(t *testing.T, p *domain.UserProfile) *domain.UserProfile {
	t.Helper()
	require.NoError(t, e.profiles.Upsert(context.Background(), p))
	return p
}

func countDeps(deps []string, want string) int {
	n := 0
	for _, d := range deps {
		if d == want {
			n++
		}
	}
	return n
}

func intPtr(v int) *int { return &v }
