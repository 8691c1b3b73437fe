package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/careerplan/internal/domain"
	"github.com/alexanderramin/careerplan/internal/repository"
	"github.com/alexanderramin/careerplan/internal/service"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// statusFor maps service errors onto HTTP status codes and stable error codes.
func statusFor(err error) (int, string) {
	var (
		tfErr   *domain.InvalidTimeframeError
		msErr   *domain.MilestoneNotFoundError
		userErr *domain.UserNotFoundError
		genErr  *domain.PlanGenerationError
	)
	switch {
	case errors.As(err, &tfErr):
		return http.StatusBadRequest, "invalid_timeframe"
	case errors.Is(err, service.ErrInvalidUpdate), errors.Is(err, service.ErrEmptyThoughts), errors.Is(err, service.ErrNoTargets):
		return http.StatusBadRequest, "invalid_request"
	case errors.As(err, &msErr):
		return http.StatusNotFound, "milestone_not_found"
	case errors.As(err, &userErr):
		return http.StatusNotFound, "user_not_found"
	case errors.Is(err, domain.ErrPlanNotFound):
		return http.StatusNotFound, "plan_not_found"
	case errors.As(err, &genErr):
		return http.StatusBadGateway, "plan_generation_failed"
	case errors.Is(err, repository.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store_unavailable"
	}
	return http.StatusInternalServerError, "internal_error"
}

func respondServiceError(c *gin.Context, err error) {
	status, code := statusFor(err)
	_ = c.Error(err)
	RespondError(c, status, code, err)
}
