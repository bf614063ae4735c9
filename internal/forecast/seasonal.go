package forecast

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/greenpulse/greenpulse-go/internal/errors"
)

// ModelNameSeasonalTrend is the settings name of the default model.
const ModelNameSeasonalTrend = "seasonal-trend"

// DefaultIntervalWidth is the two-sided coverage of the uncertainty
// interval when the settings do not override it.
const DefaultIntervalWidth = 0.8

const (
	hoursPerDay = 24
	daysPerYear = 365.25
	monthCount  = 12
)

// SeasonalTrendModel fits an additive model: a least-squares linear
// trend over days plus a monthly seasonal component. A month's
// component is the mean detrended residual of its observations and is
// only used when the month was observed at least twice; a series with
// no repeated months reduces to the bare trend. Uncertainty bounds are
// Gaussian around the point estimate, scaled by the residual standard
// deviation and widening past the fitted history.
type SeasonalTrendModel struct {
	intervalWidth float64

	origin      time.Time
	lastFit     time.Time
	intercept   float64
	slope       float64
	seasonal    [monthCount]float64
	residualStd float64
	quantile    float64
	trained     bool
}

// NewSeasonalTrendModel creates a model with the given interval width.
// Widths outside (0, 1) fall back to the default.
func NewSeasonalTrendModel(intervalWidth float64) *SeasonalTrendModel {
	if intervalWidth <= 0 || intervalWidth >= 1 {
		intervalWidth = DefaultIntervalWidth
	}
	return &SeasonalTrendModel{intervalWidth: intervalWidth}
}

// Name implements Model.
func (m *SeasonalTrendModel) Name() string { return ModelNameSeasonalTrend }

// Fit implements Model. Points must be in chronological order.
func (m *SeasonalTrendModel) Fit(points []Point) error {
	if len(points) < minObservations {
		return errors.Newf("cannot fit on %d observations, need at least %d", len(points), minObservations).
			Component("forecast").
			Category(errors.CategoryInsufficientData).
			ForecastContext(ModelNameSeasonalTrend, len(points)).
			Build()
	}

	m.origin = points[0].Time
	m.lastFit = points[len(points)-1].Time

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i := range points {
		xs[i] = m.x(points[i].Time)
		ys[i] = points[i].Value
	}

	m.intercept, m.slope = stat.LinearRegression(xs, ys, nil, false)
	// All observations on one instant leave the slope undefined; fall
	// back to a flat line through the mean.
	if math.IsNaN(m.slope) || math.IsInf(m.slope, 0) {
		m.slope = 0
		m.intercept = stat.Mean(ys, nil)
	}

	var monthSums [monthCount]float64
	var monthObs [monthCount]int
	detrended := make([]float64, len(points))
	for i := range points {
		r := ys[i] - (m.intercept + m.slope*xs[i])
		detrended[i] = r
		mi := int(points[i].Time.Month()) - 1
		monthSums[mi] += r
		monthObs[mi]++
	}
	for mi := range m.seasonal {
		m.seasonal[mi] = 0
		if monthObs[mi] >= 2 {
			m.seasonal[mi] = monthSums[mi] / float64(monthObs[mi])
		}
	}

	finals := make([]float64, len(points))
	for i := range points {
		finals[i] = detrended[i] - m.seasonal[int(points[i].Time.Month())-1]
	}
	sd := stat.StdDev(finals, nil)
	if math.IsNaN(sd) || math.IsInf(sd, 0) {
		sd = 0
	}
	m.residualStd = sd
	m.quantile = distuv.UnitNormal.Quantile(0.5 + m.intervalWidth/2)

	m.trained = true
	return nil
}

// Predict implements Model. Calling Predict before a successful Fit
// returns nil.
func (m *SeasonalTrendModel) Predict(times []time.Time) []Estimate {
	if !m.trained {
		return nil
	}

	estimates := make([]Estimate, 0, len(times))
	for _, t := range times {
		value := m.intercept + m.slope*m.x(t) + m.seasonal[int(t.Month())-1]
		margin := m.quantile * m.residualStd * m.horizonScale(t)
		estimates = append(estimates, Estimate{
			Time:  t,
			Value: value,
			Lower: value - margin,
			Upper: value + margin,
		})
	}
	return estimates
}

// x maps a timestamp to days since the fit origin.
func (m *SeasonalTrendModel) x(t time.Time) float64 {
	return t.Sub(m.origin).Hours() / hoursPerDay
}

// horizonScale widens the interval for times past the fitted history.
func (m *SeasonalTrendModel) horizonScale(t time.Time) float64 {
	if !t.After(m.lastFit) {
		return 1
	}
	aheadDays := t.Sub(m.lastFit).Hours() / hoursPerDay
	return math.Sqrt(1 + aheadDays/daysPerYear)
}
