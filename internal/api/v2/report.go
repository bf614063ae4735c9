// internal/api/v2/report.go
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenpulse/greenpulse-go/internal/errors"
)

// initReportRoutes registers the PDF report endpoint.
func (c *Controller) initReportRoutes() {
	c.Group.GET("/report/:business_id", c.GetReport)
}

// GetReport handles GET /api/v2/report/:business_id.
// The response is a Letter-size PDF served as an attachment.
func (c *Controller) GetReport(ctx echo.Context) error {
	businessID := ctx.Param("business_id")

	user, ok := c.resolveIdentity(ctx)
	if !ok {
		return nil
	}

	pdf, err := c.Reporter.Render(user.ID, businessID)
	if err != nil {
		if errors.IsNotFound(err) {
			return c.HandleError(ctx, err, "No data found for report", http.StatusNotFound)
		}
		return c.HandleDomainError(ctx, err, "Failed to render report")
	}

	return c.servePDF(ctx, businessID, pdf)
}

// servePDF writes a rendered report with the attachment headers shared by
// the report and share endpoints.
func (c *Controller) servePDF(ctx echo.Context, businessID string, pdf []byte) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment;filename=report_%s.pdf", businessID))
	return ctx.Blob(http.StatusOK, "application/pdf", pdf)
}
