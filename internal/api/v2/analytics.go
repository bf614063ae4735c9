// internal/api/v2/analytics.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenpulse/greenpulse-go/internal/errors"
)

// initAnalyticsRoutes registers the aggregate view endpoints.
func (c *Controller) initAnalyticsRoutes() {
	c.Group.GET("/dashboard/:business_id", c.GetDashboard)
	c.Group.GET("/insights/:business_id", c.GetInsights)
}

// GetDashboard handles GET /api/v2/dashboard/:business_id.
// Totals cover records matching both the business id and the caller's
// user id; a business with no such records is reported as missing.
func (c *Controller) GetDashboard(ctx echo.Context) error {
	businessID := ctx.Param("business_id")

	user, ok := c.resolveIdentity(ctx)
	if !ok {
		return nil
	}

	dashboard, err := c.Aggregator.Dashboard(user.ID, businessID)
	if err != nil {
		if errors.IsNotFound(err) {
			return c.HandleError(ctx, err, "No data found for this business", http.StatusNotFound)
		}
		return c.HandleDomainError(ctx, err, "Failed to build dashboard")
	}

	return ctx.JSON(http.StatusOK, dashboard)
}

// GetInsights handles GET /api/v2/insights/:business_id.
func (c *Controller) GetInsights(ctx echo.Context) error {
	businessID := ctx.Param("business_id")

	user, ok := c.resolveIdentity(ctx)
	if !ok {
		return nil
	}

	insights, err := c.Aggregator.Insights(user.ID, businessID)
	if err != nil {
		if errors.IsNotFound(err) {
			return c.HandleError(ctx, err, "No data found for this business", http.StatusNotFound)
		}
		return c.HandleDomainError(ctx, err, "Failed to build business insights")
	}

	return ctx.JSON(http.StatusOK, insights)
}
