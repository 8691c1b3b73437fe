package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/service"
)

const timeframeKey = "timeframe"

// PlanHandler serves the plan and milestone endpoints.
type PlanHandler struct {
	plans service.PlanService
}

func NewPlanHandler(plans service.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// RequireTimeframe validates the :timeframe path parameter before any
// handler runs.
func RequireTimeframe() gin.HandlerFunc {
	return func(c *gin.Context) {
		tf, err := domain.ParseTimeframe(c.Param("timeframe"))
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_timeframe", err)
			return
		}
		c.Set(timeframeKey, tf)
		c.Next()
	}
}

func timeframeFrom(c *gin.Context) domain.Timeframe {
	tf, _ := c.Get(timeframeKey)
	v, _ := tf.(domain.Timeframe)
	return v
}

// POST /generate-plan/:username
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	res, err := h.plans.GeneratePlan(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, res.Plan)
}

// GET /plan/:username
func (h *PlanHandler) GetPlan(c *gin.Context) {
	plan, err := h.plans.GetPlan(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, plan)
}

// GET /plan/:username/history
func (h *PlanHandler) History(c *gin.Context) {
	versions, err := h.plans.History(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"username": c.Param("username"), "versions": versions})
}

// GET /milestone/:timeframe/:username
func (h *PlanHandler) GetMilestone(c *gin.Context) {
	m, err := h.plans.GetMilestone(c.Request.Context(), c.Param("username"), timeframeFrom(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, m)
}

type thoughtsRequest struct {
	UserThoughts string `json:"user_thoughts"`
	Context      string `json:"context"`
}

// PUT /milestone/:timeframe/:username/update-cascade
// body: { "user_thoughts": "...", "context": "..." }
func (h *PlanHandler) UpdateCascade(c *gin.Context) {
	var req thoughtsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tf := timeframeFrom(c)
	res, err := h.plans.UpdateFromThoughts(c.Request.Context(), c.Param("username"), tf, req.UserThoughts, req.Context)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"message":           fmt.Sprintf("Successfully updated %s milestone with cascade effects", tf),
		"updated_plan":      res.Cascade.Plan,
		"processed_updates": res.Update,
		"cascade_affected":  affectedOrEmpty(res.Cascade.Affected),
		"degraded":          affectedOrEmpty(res.Cascade.Degraded),
	})
}

// PUT /milestone/:timeframe/:username/direct-update
// body: StructuredUpdate
func (h *PlanHandler) DirectUpdate(c *gin.Context) {
	var update domain.StructuredUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tf := timeframeFrom(c)
	res, err := h.plans.DirectUpdate(c.Request.Context(), c.Param("username"), tf, update)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"message":          fmt.Sprintf("Successfully updated %s milestone with direct updates", tf),
		"updated_plan":     res.Plan,
		"applied_updates":  update,
		"cascade_affected": affectedOrEmpty(res.Affected),
		"degraded":         affectedOrEmpty(res.Degraded),
	})
}

type regenerateRequest struct {
	UpdatedMilestone     string   `json:"updated_milestone"`
	SubsequentMilestones []string `json:"subsequent_milestones"`
}

// POST /plan/:username/regenerate-subsequent
// body: { "updated_milestone": "1_month", "subsequent_milestones": ["3_months", ...] }
func (h *PlanHandler) RegenerateSubsequent(c *gin.Context) {
	var req regenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ref, err := domain.ParseTimeframe(req.UpdatedMilestone)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_timeframe", err)
		return
	}
	targets, err := domain.ParseTimeframes(req.SubsequentMilestones)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_timeframe", err)
		return
	}

	res, err := h.plans.RegenerateSubsequent(c.Request.Context(), c.Param("username"), ref, targets)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"message":                fmt.Sprintf("Successfully regenerated milestones: %v", req.SubsequentMilestones),
		"updated_plan":           res.Plan,
		"based_on":               ref,
		"regenerated_milestones": affectedOrEmpty(res.Affected),
		"degraded":               affectedOrEmpty(res.Degraded),
	})
}

// POST /milestone/:timeframe/:username/process-thoughts
func (h *PlanHandler) ProcessThoughts(c *gin.Context) {
	var req thoughtsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tf := timeframeFrom(c)
	update, err := h.plans.PreviewThoughts(c.Request.Context(), c.Param("username"), tf, req.UserThoughts, req.Context)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"message":           "Successfully processed user thoughts",
		"timeframe":         tf,
		"user_thoughts":     req.UserThoughts,
		"context":           req.Context,
		"processed_updates": update,
		"note":              "These updates have not been applied. Use /update-cascade to apply them.",
	})
}

type profileRequest struct {
	InterestsValues string `json:"interests_values"`
	WorkExperience  string `json:"work_experience"`
	Circumstances   string `json:"circumstances"`
	Skills          string `json:"skills"`
	Goals           string `json:"goals"`
}

// PUT /profile/:username
func (h *PlanHandler) UpsertProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	profile, err := h.plans.UpsertProfile(c.Request.Context(), &domain.UserProfile{
		Username:        c.Param("username"),
		InterestsValues: req.InterestsValues,
		WorkExperience:  req.WorkExperience,
		Circumstances:   req.Circumstances,
		Skills:          req.Skills,
		Goals:           req.Goals,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, profile)
}

func affectedOrEmpty(tfs []domain.Timeframe) []domain.Timeframe {
	if tfs == nil {
		return []domain.Timeframe{}
	}
	return tfs
}

// GET /
func Root(c *gin.Context) {
	RespondOK(c, gin.H{
		"message": "Cascading Career Milestone API v3.0",
		"features": gin.H{
			"individual_milestone_endpoints": true,
			"cascading_updates":              true,
			"dependency_tracking":            true,
			"natural_language_processing":    true,
			"plan_history":                   true,
		},
		"cascade_endpoints": gin.H{
			"update_with_cascade":   "PUT /api/v3/milestone/{timeframe}/{username}/update-cascade",
			"direct_update":         "PUT /api/v3/milestone/{timeframe}/{username}/direct-update",
			"regenerate_subsequent": "POST /api/v3/plan/{username}/regenerate-subsequent",
			"process_thoughts":      "POST /api/v3/milestone/{timeframe}/{username}/process-thoughts",
		},
		"milestone_endpoints": gin.H{
			"generate_plan": "POST /api/v3/generate-plan/{username}",
			"plan":          "GET /api/v3/plan/{username}",
			"history":       "GET /api/v3/plan/{username}/history",
			"generic":       "GET /api/v3/milestone/{timeframe}/{username}",
		},
		"timeframes": domain.Timeframes(),
	})
}

// GET /healthcheck
func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
