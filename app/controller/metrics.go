package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/ayothedoc3/whop-analytics-dashboard/app/dto"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/factory"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/mapper"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/metrics"
	"github.com/ayothedoc3/whop-analytics-dashboard/app/service"
)

type metricsService interface {
	Snapshot(ctx context.Context) (*metrics.Snapshot, error)
}

type MetricsController struct {
	metricsService metricsService
	logger         logrus.FieldLogger
}

func NewMetricsController(metricsService metricsService) *MetricsController {
	return &MetricsController{
		metricsService: metricsService,
		logger:         factory.NewModuleLogger("metrics-controller"),
	}
}

func (c *MetricsController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &dto.HealthResponse{Status: "ok"})
}

// GetMetrics serves the full dashboard aggregate. Failures never yield a
// partial payload: the caller gets either the complete snapshot or an error
// body with the underlying description.
func (c *MetricsController) GetMetrics(ctx echo.Context) error {
	snapshot, err := c.metricsService.Snapshot(ctx.Request().Context())
	if err != nil {
		logger := factory.LoggerWithContext(c.logger, ctx)
		if errors.Is(err, service.ErrCompanyIDRequired) {
			logger.WithError(err).Error("Metrics configuration incomplete")
			return c.writeError(ctx, http.StatusInternalServerError, "Configuration error", err)
		}
		logger.WithError(err).Error("Metrics snapshot failed")
		return c.writeError(ctx, http.StatusBadGateway, "Failed to load metrics", err)
	}

	return ctx.JSON(http.StatusOK, mapper.MetricsResponse(snapshot))
}

func (c *MetricsController) writeError(ctx echo.Context, statusCode int, label string, err error) error {
	return ctx.JSON(statusCode, &dto.ErrorResponse{Error: label, Message: err.Error()})
}
