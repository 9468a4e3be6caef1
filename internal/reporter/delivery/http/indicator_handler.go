package http

import (
	"fmt"
	"net/http"

	"golang-econ-reporter/internal/reporter/dto"
	"golang-econ-reporter/internal/reporter/service"
	"golang-econ-reporter/pkg/logger"

	"github.com/labstack/echo/v4"
)

// IndicatorHandler handles HTTP requests for indicator metadata and
// live data.
type IndicatorHandler struct {
	aggregator service.IndicatorAggregator
	catalog    *dto.IndicatorCatalog
	logger     *logger.Logger
}

// NewIndicatorHandler creates a new IndicatorHandler.
func NewIndicatorHandler(aggregator service.IndicatorAggregator, catalog *dto.IndicatorCatalog, logger *logger.Logger) *IndicatorHandler {
	return &IndicatorHandler{aggregator: aggregator, catalog: catalog, logger: logger}
}

// RegisterRoutes registers the indicator routes to the Echo group.
func (h *IndicatorHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListIndicators)
	g.GET("/:id/live", h.GetLiveData)
	g.POST("/live", h.GetLiveDataBatch)
}

// ListIndicators returns the configured indicator catalog.
func (h *IndicatorHandler) ListIndicators(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.Metas())
}

// GetLiveData fetches the current record for a single indicator.
func (h *IndicatorHandler) GetLiveData(c echo.Context) error {
	id := c.Param("id")
	if !h.catalog.Has(id) {
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: fmt.Sprintf("unknown indicator: %s", id)})
	}

	records := h.aggregator.FetchAll(c.Request().Context(), []string{id})
	return c.JSON(http.StatusOK, records[id])
}

// GetLiveDataBatch fetches current records for a set of indicators.
func (h *IndicatorHandler) GetLiveDataBatch(c echo.Context) error {
	var req dto.LiveDataRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	if len(req.IndicatorIDs) == 0 {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "indicator_ids must not be empty"})
	}
	if len(req.IndicatorIDs) > service.MaxFetchBatch {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: fmt.Sprintf("at most %d indicators per request", service.MaxFetchBatch),
		})
	}

	records := h.aggregator.FetchAll(c.Request().Context(), req.IndicatorIDs)
	return c.JSON(http.StatusOK, records)
}
