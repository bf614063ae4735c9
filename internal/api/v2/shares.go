// internal/api/v2/shares.go
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/errors"
)

// ShareRequest asks for a tokenized share of one business's report.
type ShareRequest struct {
	BusinessID string `json:"business_id"`
}

// ShareResponse describes a created share link.
type ShareResponse struct {
	Token      string    `json:"token"`
	BusinessID string    `json:"business_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// initShareRoutes registers the report sharing endpoints.
// The shared report route is deliberately identity-free: the token is the
// only credential.
func (c *Controller) initShareRoutes() {
	c.Group.POST("/shares", c.CreateShare)
	c.Group.GET("/shares/:token/report", c.GetSharedReport)
	c.Group.DELETE("/shares/:token", c.DeleteShare)
}

// CreateShare handles POST /api/v2/shares.
func (c *Controller) CreateShare(ctx echo.Context) error {
	var req ShareRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if req.BusinessID == "" {
		return c.HandleError(ctx, nil, "business_id is required", http.StatusBadRequest)
	}

	user, ok := c.resolveIdentity(ctx)
	if !ok {
		return nil
	}

	link := &datastore.ShareLink{
		Token:      uuid.NewString(),
		BusinessID: req.BusinessID,
		UserID:     user.ID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := c.DS.SaveShareLink(link); err != nil {
		return c.HandleDomainError(ctx, err, "Failed to create share link")
	}

	c.logAPIRequest(ctx, slog.LevelInfo, "Share link created",
		"business_id", link.BusinessID,
		"token", link.Token,
	)

	return ctx.JSON(http.StatusCreated, ShareResponse{
		Token:      link.Token,
		BusinessID: link.BusinessID,
		CreatedAt:  link.CreatedAt,
	})
}

// GetSharedReport handles GET /api/v2/shares/:token/report.
// The report renders under the sharing user's tenant scope, not the
// caller's, so recipients need no account.
func (c *Controller) GetSharedReport(ctx echo.Context) error {
	token := ctx.Param("token")

	link, err := c.DS.GetShareLink(token)
	if err != nil {
		if errors.IsNotFound(err) {
			return c.HandleError(ctx, err, "Share link not found", http.StatusNotFound)
		}
		return c.HandleDomainError(ctx, err, "Failed to look up share link")
	}

	pdf, err := c.Reporter.Render(link.UserID, link.BusinessID)
	if err != nil {
		if errors.IsNotFound(err) {
			return c.HandleError(ctx, err, "No data found for report", http.StatusNotFound)
		}
		return c.HandleDomainError(ctx, err, "Failed to render shared report")
	}

	return c.servePDF(ctx, link.BusinessID, pdf)
}

// DeleteShare handles DELETE /api/v2/shares/:token.
// Only the owning user may revoke a link; links owned by other tenants
// report not found so their existence is never confirmed.
func (c *Controller) DeleteShare(ctx echo.Context) error {
	token := ctx.Param("token")

	user, ok := c.resolveIdentity(ctx)
	if !ok {
		return nil
	}

	if err := c.DS.DeleteShareLink(token, user.ID); err != nil {
		if errors.IsNotFound(err) {
			return c.HandleError(ctx, err, "Share link not found", http.StatusNotFound)
		}
		return c.HandleDomainError(ctx, err, "Failed to revoke share link")
	}

	return ctx.NoContent(http.StatusNoContent)
}
