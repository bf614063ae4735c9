// internal/api/v2/emissions.go
package api

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/emissions"
	"github.com/greenpulse/greenpulse-go/internal/observability/metrics"
)

// ManualEntryResponse echoes the computed emissions for a manual entry.
type ManualEntryResponse struct {
	Message         string  `json:"message"`
	EmissionsKgCO2e float64 `json:"emissions_kgCO2e"`
}

// UploadResponse reports how many rows now make up the records table.
type UploadResponse struct {
	Message string `json:"message"`
	Rows    int    `json:"rows"`
}

// initEmissionsRoutes registers ingestion related API endpoints.
func (c *Controller) initEmissionsRoutes() {
	c.Group.POST("/emissions", c.CreateEmission)
	c.Group.POST("/emissions/upload", c.UploadCSV)
}

// CreateEmission handles POST /api/v2/emissions.
// It computes emissions_kgCO2e from amount and emission factor, stamps the
// caller's user id and appends a single record.
func (c *Controller) CreateEmission(ctx echo.Context) error {
	start := time.Now()

	var entry emissions.Entry
	if err := ctx.Bind(&entry); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if err := entry.Validate(); err != nil {
		return c.HandleDomainError(ctx, err, "Invalid emission entry")
	}

	user, ok := c.resolveIdentity(ctx)
	if !ok {
		return nil
	}

	record := entry.ToRecord(user.ID)
	if err := c.DS.SaveRecord(&record); err != nil {
		c.recordSingleIngest("error", start)
		return c.HandleDomainError(ctx, err, "Failed to save emission record")
	}
	c.recordSingleIngest("success", start)

	c.Aggregator.Invalidate()
	c.publishRecordAsync(&record)

	c.logAPIRequest(ctx, slog.LevelInfo, "Manual emission entry saved",
		"business_id", record.BusinessID,
		"source_category", record.SourceCategory,
		"emissions_kgCO2e", record.EmissionsKgCO2e,
	)

	return ctx.JSON(http.StatusOK, ManualEntryResponse{
		Message:         "Manual entry added successfully",
		EmissionsKgCO2e: record.EmissionsKgCO2e,
	})
}

// UploadCSV handles POST /api/v2/emissions/upload.
// The parsed rows replace the entire records table in one transaction, so
// a malformed file leaves the previous dataset untouched.
func (c *Controller) UploadCSV(ctx echo.Context) error {
	start := time.Now()

	user, ok := c.resolveIdentity(ctx)
	if !ok {
		return nil
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return c.HandleError(ctx, err, "Missing file in upload", http.StatusBadRequest)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.HandleError(ctx, err, "Failed to open uploaded file", http.StatusInternalServerError)
	}
	defer src.Close()

	parseStart := time.Now()
	entries, err := emissions.ParseCSV(src)
	if err != nil {
		c.recordUploadRejected(err)
		return c.HandleDomainError(ctx, err, "Invalid CSV upload")
	}
	c.recordUploadStage("parse", parseStart)

	records := emissions.BuildRecords(entries, user.ID)
	replaceStart := time.Now()
	if err := c.DS.ReplaceAllRecords(records, c.Settings.Ingest.BatchSize); err != nil {
		c.recordUpload("error")
		return c.HandleDomainError(ctx, err, "Failed to replace emission records")
	}
	c.recordUploadStage("replace", replaceStart)

	if im := c.ingestMetrics(); im != nil {
		im.RecordUpload("success")
		im.RecordUploadSize(fileHeader.Size)
		im.RecordRowsParsed(len(records))
		im.RecordUploadDuration("total", time.Since(start).Seconds())
	}

	c.Aggregator.Invalidate()

	businesses := distinctBusinessIDs(records)
	c.publishUploadAsync(len(records), businesses)

	c.logAPIRequest(ctx, slog.LevelInfo, "CSV upload replaced records",
		"rows", len(records),
		"businesses", len(businesses),
		"bytes", fileHeader.Size,
	)

	return ctx.JSON(http.StatusOK, UploadResponse{
		Message: "Data uploaded and replaced successfully",
		Rows:    len(records),
	})
}

// publishRecordAsync publishes an ingest event without blocking the request.
func (c *Controller) publishRecordAsync(record *datastore.Record) {
	if !c.Publisher.Enabled() {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.Publisher.PublishRecord(record)
	}()
}

// publishUploadAsync publishes one summary event for a bulk upload.
func (c *Controller) publishUploadAsync(rows int, businesses []string) {
	if !c.Publisher.Enabled() {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.Publisher.PublishUpload(rows, businesses)
	}()
}

func (c *Controller) ingestMetrics() *metrics.IngestMetrics {
	if c.metrics == nil {
		return nil
	}
	return c.metrics.Ingest
}

func (c *Controller) recordSingleIngest(status string, start time.Time) {
	if im := c.ingestMetrics(); im != nil {
		im.RecordSingleIngest(status, time.Since(start).Seconds())
	}
}

func (c *Controller) recordUpload(status string) {
	if im := c.ingestMetrics(); im != nil {
		im.RecordUpload(status)
	}
}

func (c *Controller) recordUploadStage(stage string, start time.Time) {
	if im := c.ingestMetrics(); im != nil {
		im.RecordUploadDuration(stage, time.Since(start).Seconds())
	}
}

// recordUploadRejected counts a rejected upload and classifies the
// parse failure that caused it.
func (c *Controller) recordUploadRejected(err error) {
	im := c.ingestMetrics()
	if im == nil {
		return
	}
	im.RecordUpload("rejected")
	im.RecordRowRejected(emissions.RejectReason(err))
}

// distinctBusinessIDs collects the unique business ids of an upload in
// sorted order so event payloads are stable.
func distinctBusinessIDs(records []datastore.Record) []string {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for i := range records {
		id := records[i].BusinessID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
