package http

import (
	"net/http"
	"strconv"

	"golang-econ-reporter/internal/entity"
	"golang-econ-reporter/internal/reporter/dto"
	"golang-econ-reporter/internal/reporter/repository"
	"golang-econ-reporter/internal/reporter/service"
	"golang-econ-reporter/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ReportHandler handles HTTP requests for reports.
type ReportHandler struct {
	scheduler  service.ReportScheduler
	reportRepo repository.ReportRepository
	logger     *logger.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(scheduler service.ReportScheduler, reportRepo repository.ReportRepository, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{scheduler: scheduler, reportRepo: reportRepo, logger: logger}
}

// RegisterRoutes registers the report routes to the Echo group.
func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:id", h.GetReportByID)
	g.POST("/run", h.RunReports)
}

// GetReportByID returns a single stored report.
func (h *ReportHandler) GetReportByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid report ID"})
	}

	report, err := h.reportRepo.FindByID(c.Request().Context(), uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Report not found"})
		}
		h.logger.Error("Failed to load report", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, report)
}

// RunReports triggers report generation for every active subscriber
// with the requested frequency.
func (h *ReportHandler) RunReports(c echo.Context) error {
	var req dto.RunReportsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	frequency := entity.ReportFrequency(req.Frequency)
	switch frequency {
	case entity.FrequencyDaily, entity.FrequencyWeekly, entity.FrequencyMonthly:
	default:
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "frequency must be daily, weekly or monthly"})
	}

	generated, err := h.scheduler.RunForFrequency(c.Request().Context(), frequency)
	if err != nil {
		h.logger.Error("Failed to run reports", logger.ErrorField(err), logger.StringField("frequency", req.Frequency))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, dto.RunReportsResponse{Frequency: req.Frequency, Generated: generated})
}
