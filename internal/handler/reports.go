package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/community-watch/backend/internal/model"
	"github.com/community-watch/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Metrics godoc
// @Summary Aggregate report metrics
// @Description Stateless: the caller sends its locally stored reports and an optional filter.
// @Tags reports
// @Accept json
// @Produce json
// @Param request body model.ReportsRequest true "Reports and filter"
// @Success 200 {object} model.ReportMetrics
// @Failure 400 {object} model.ErrorResponse
// @Router /api/reports/metrics [post]
func (h *ReportHandler) Metrics(c *gin.Context) {
	var req model.ReportsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body"})
		return
	}

	metrics, err := h.svc.Metrics(req)
	if err != nil {
		writeReportError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// Export godoc
// @Summary Export filtered reports as a JSON file
// @Tags reports
// @Accept json
// @Produce json
// @Param request body model.ReportsRequest true "Reports and filter"
// @Success 200 {object} model.ReportExport
// @Failure 400 {object} model.ErrorResponse
// @Router /api/reports/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	var req model.ReportsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body"})
		return
	}

	export, filename, err := h.svc.Export(req)
	if err != nil {
		writeReportError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.IndentedJSON(http.StatusOK, export)
}

func writeReportError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidReportFilter) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "failed to process reports"})
}
