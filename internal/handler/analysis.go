package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/community-watch/backend/internal/client"
	"github.com/community-watch/backend/internal/model"
	"github.com/community-watch/backend/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 사용자에게 노출되는 고정 메시지 (내부 에러 문구는 로그에만 남김)
const (
	msgNotConfigured  = "AI service is not configured. Please contact the administrator."
	msgInvalidRequest = "Invalid request format. Please check your input and try again."
	msgMissingFields  = "Missing required fields: %s. Please provide all required information."
	msgTimeout        = "The analysis service is taking too long to respond. Please try again in a moment."
	msgQuota          = "Analysis service is temporarily unavailable due to high demand. Please try again later."
	msgAuth           = "Analysis service authentication failed. Please contact support."
	msgAIService      = "Unable to analyze the incident at this time. Please try again later."

	healthMessage = "Incident analysis API is running"
)

type AnalysisHandler struct {
	svc *service.AnalysisService
}

func NewAnalysisHandler(svc *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

// AnalyzeIncident godoc
// @Summary Analyze an incident report
// @Description Extracts entities, categorizes the report and asks the AI service for a summary. Upstream failures return 503 with locally computed fallback data.
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body model.AnalyzeIncidentRequest true "Incident report"
// @Success 200 {object} model.AnalyzeSuccessResponse
// @Failure 400 {object} model.AnalyzeErrorResponse
// @Failure 500 {object} model.AnalyzeErrorResponse
// @Failure 503 {object} model.AnalyzeErrorResponse
// @Router /api/analyze-incident [post]
func (h *AnalysisHandler) AnalyzeIncident(c *gin.Context) {
	if !h.svc.IsConfigured() {
		zap.L().Error("analyze: AI credential missing", zap.String("request_id", RequestIDFrom(c)))
		abortAnalyze(c, http.StatusInternalServerError, msgNotConfigured, model.ErrorTypeConfiguration)
		return
	}

	var req model.AnalyzeIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Info("analyze: invalid request body", zap.String("request_id", RequestIDFrom(c)), zap.Error(err))
		abortAnalyze(c, http.StatusBadRequest, msgInvalidRequest, model.ErrorTypeInvalidReq)
		return
	}

	outcome, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, model.AnalyzeErrorResponse{
				Error:         fmt.Sprintf(msgMissingFields, strings.Join(vErr.MissingFields, ", ")),
				ErrorType:     model.ErrorTypeValidation,
				MissingFields: vErr.MissingFields,
			})
		case errors.Is(err, service.ErrNotConfigured):
			abortAnalyze(c, http.StatusInternalServerError, msgNotConfigured, model.ErrorTypeConfiguration)
		default:
			zap.L().Error("analyze: unexpected error", zap.String("request_id", RequestIDFrom(c)), zap.Error(err))
			abortAnalyze(c, http.StatusInternalServerError, msgUnknown, model.ErrorTypeUnknown)
		}
		return
	}

	switch o := outcome.(type) {
	case service.Succeeded:
		c.JSON(http.StatusOK, model.AnalyzeSuccessResponse{Success: true, Data: &o.Result})
	case service.Degraded:
		c.JSON(http.StatusOK, model.AnalyzeSuccessResponse{Success: true, Data: &o.Result})
	case service.Failed:
		message, errorType := describeFailure(o.Failure)
		c.JSON(http.StatusServiceUnavailable, model.AnalyzeErrorResponse{
			Error:     message,
			ErrorType: errorType,
			Fallback:  &o.Fallback,
		})
	default:
		zap.L().Error("analyze: unhandled outcome", zap.String("type", fmt.Sprintf("%T", outcome)))
		abortAnalyze(c, http.StatusInternalServerError, msgUnknown, model.ErrorTypeUnknown)
	}
}

// HealthCheck godoc
// @Summary Analysis API health check
// @Tags analysis
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Router /api/analyze-incident [get]
func (h *AnalysisHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{
		Status:    "ok",
		Message:   healthMessage,
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
}

// describeFailure maps a generation failure to the user-facing message and
// errorType.
func describeFailure(failure *client.GenerationError) (string, string) {
	if failure == nil {
		return msgAIService, model.ErrorTypeAIService
	}
	switch failure.Reason {
	case client.ReasonNetworkOrTimeout:
		return msgTimeout, model.ErrorTypeTimeout
	case client.ReasonRateLimited:
		return msgQuota, model.ErrorTypeQuota
	case client.ReasonAuth:
		return msgAuth, model.ErrorTypeAuth
	default:
		return msgAIService, model.ErrorTypeAIService
	}
}

func abortAnalyze(c *gin.Context, status int, message, errorType string) {
	c.AbortWithStatusJSON(status, model.AnalyzeErrorResponse{
		Error:     message,
		ErrorType: errorType,
	})
}
