// internal/api/v2/forecast.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenpulse/greenpulse-go/internal/emissions"
	"github.com/greenpulse/greenpulse-go/internal/errors"
	"github.com/greenpulse/greenpulse-go/internal/forecast"
)

// ForecastResponse carries one estimate per historical and projected period.
type ForecastResponse struct {
	Forecast []forecast.Estimate `json:"forecast"`
}

// initForecastRoutes registers the forecast endpoint.
func (c *Controller) initForecastRoutes() {
	c.Group.POST("/forecast/:business_id", c.GetForecast)
}

// GetForecast handles POST /api/v2/forecast/:business_id.
// The scenario body adjusts category emissions before the model is fit;
// fewer than two distinct dates after filtering is a client error.
func (c *Controller) GetForecast(ctx echo.Context) error {
	businessID := ctx.Param("business_id")

	var scenario emissions.Scenario
	if err := ctx.Bind(&scenario); err != nil {
		return c.HandleError(ctx, err, "Invalid scenario body", http.StatusBadRequest)
	}

	user, ok := c.resolveIdentity(ctx)
	if !ok {
		return nil
	}

	estimates, err := c.Forecaster.Forecast(user.ID, businessID, &scenario)
	if err != nil {
		switch {
		case errors.IsInsufficientData(err):
			return c.HandleError(ctx, err, "Not enough data for forecast", http.StatusBadRequest)
		case errors.IsValidation(err):
			return c.HandleError(ctx, err, "Invalid scenario", http.StatusBadRequest)
		default:
			return c.HandleDomainError(ctx, err, "Failed to build forecast")
		}
	}

	return ctx.JSON(http.StatusOK, ForecastResponse{Forecast: estimates})
}
