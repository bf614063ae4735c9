// Package report renders the PDF emissions summary for a business: the
// headline totals, the per-category breakdown, a recommendation seeded
// from the top emitting category, and a pie chart of category shares.
package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/emissions"
	"github.com/greenpulse/greenpulse-go/internal/errors"
	"github.com/greenpulse/greenpulse-go/internal/logging"
	"github.com/greenpulse/greenpulse-go/internal/observability"
	"github.com/greenpulse/greenpulse-go/internal/observability/metrics"
)

// monthsPerYear is the fixed divisor for the average monthly line,
// matching the dashboard's figure.
const monthsPerYear = 12

var (
	serviceLogger *slog.Logger
	loggerOnce    sync.Once
)

func getLogger() *slog.Logger {
	loggerOnce.Do(func() {
		serviceLogger = logging.ForService("report")
		if serviceLogger == nil {
			serviceLogger = slog.Default().With("service", "report")
		}
	})
	return serviceLogger
}

// Store is the slice of the datastore the renderer reads from.
type Store interface {
	GetBusinessType(userID, businessID string) (string, error)
	GetTotalEmissions(userID, businessID string) (float64, error)
	GetCategoryTotals(userID, businessID string) ([]datastore.CategoryTotal, error)
}

// Renderer produces PDF reports. Safe for concurrent use; every render
// builds its own document.
type Renderer struct {
	ds      Store
	metrics *metrics.ReportMetrics
}

// NewRenderer creates a renderer backed by the given store.
func NewRenderer(ds Store, obs *observability.Metrics) *Renderer {
	r := &Renderer{ds: ds}
	if obs != nil {
		r.metrics = obs.Report
	}
	return r
}

// Render builds the PDF for the caller's records of one business. A
// business with no records for this caller is reported as not found.
func (r *Renderer) Render(userID, businessID string) ([]byte, error) {
	start := time.Now()
	pdfBytes, err := r.render(userID, businessID)
	r.recordStage("total", start, err)
	if err != nil {
		return nil, err
	}
	if r.metrics != nil {
		r.metrics.RecordReportSize(len(pdfBytes))
	}
	return pdfBytes, nil
}

func (r *Renderer) render(userID, businessID string) ([]byte, error) {
	businessType, err := r.ds.GetBusinessType(userID, businessID)
	if err != nil {
		return nil, err
	}
	total, err := r.ds.GetTotalEmissions(userID, businessID)
	if err != nil {
		return nil, err
	}
	categories, err := r.ds.GetCategoryTotals(userID, businessID)
	if err != nil {
		return nil, err
	}

	// Largest contributor first; ties resolve alphabetically so the
	// document is reproducible for the same data.
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Total != categories[j].Total {
			return categories[i].Total > categories[j].Total
		}
		return categories[i].SourceCategory < categories[j].SourceCategory
	})

	topCategory := ""
	if len(categories) > 0 {
		topCategory = categories[0].SourceCategory
	}
	recommendation := emissions.RecommendationFor(topCategory)

	chartStart := time.Now()
	chartPNG, err := renderCategoryPie(categories)
	r.recordStage("chart", chartStart, err)
	if err != nil {
		return nil, err
	}

	layoutStart := time.Now()
	pdfBytes, err := r.layout(businessID, businessType, total, categories, recommendation, chartPNG)
	r.recordStage("layout", layoutStart, err)
	if err != nil {
		return nil, err
	}

	getLogger().Debug("report rendered",
		"business_id", businessID,
		"categories", len(categories),
		"bytes", len(pdfBytes))

	return pdfBytes, nil
}

// layout assembles the document: title, totals, source list,
// recommendation, then the chart when one was rendered.
func (r *Renderer) layout(businessID, businessType string, total float64, categories []datastore.CategoryTotal, recommendation string, chartPNG []byte) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(fmt.Sprintf("EcoImpact Report for %s", businessID), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("EcoImpact Report for %s (%s)", businessID, businessType), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total Annual Emissions: %.2f kgCO2e", total), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Average Monthly Emissions: %.2f kgCO2e", total/monthsPerYear), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Top Emission Sources:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	for _, c := range categories {
		pdf.CellFormat(0, 7, fmt.Sprintf("    %s: %.2f kgCO2e", c.SourceCategory, c.Total), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Recommendation:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 7, fmt.Sprintf("    - %s", recommendation), "", "L", false)
	pdf.Ln(5)

	if len(chartPNG) > 0 {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("category-pie", opts, bytes.NewReader(chartPNG))
		pdf.ImageOptions("category-pie", 55, pdf.GetY(), 100, 100, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.New(err).
			Component("report").
			Category(errors.CategoryReportRender).
			Context("business_id", businessID).
			Build()
	}
	return buf.Bytes(), nil
}

func (r *Renderer) recordStage(stage string, start time.Time, err error) {
	if r.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
		r.metrics.RecordError(stage, string(errors.CategoryOf(err)))
	}
	r.metrics.RecordOperation(stage, status)
	r.metrics.RecordDuration(stage, time.Since(start).Seconds())
}
