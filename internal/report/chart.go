package report

import (
	"bytes"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/errors"
)

const chartSizePx = 512

// renderCategoryPie draws the category share pie as a PNG. Categories
// with non-positive totals cannot form a slice and are skipped; when
// nothing remains the chart is omitted and nil bytes are returned.
func renderCategoryPie(categories []datastore.CategoryTotal) ([]byte, error) {
	values := make([]chart.Value, 0, len(categories))
	for _, c := range categories {
		if c.Total <= 0 {
			continue
		}
		values = append(values, chart.Value{Value: c.Total, Label: c.SourceCategory})
	}
	if len(values) == 0 {
		return nil, nil
	}

	pie := chart.PieChart{
		Width:  chartSizePx,
		Height: chartSizePx,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, errors.New(err).
			Component("report").
			Category(errors.CategoryChartRender).
			Context("slices", len(values)).
			Build()
	}
	return buf.Bytes(), nil
}
