// Package forecast projects a business's emissions forward under a
// reduction scenario. The time-series model sits behind the Model
// interface so the fitting backend can be swapped without touching the
// engine, handlers, or the datastore.
package forecast

import (
	"log/slog"
	"sync"
	"time"

	"github.com/greenpulse/greenpulse-go/internal/conf"
	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/emissions"
	"github.com/greenpulse/greenpulse-go/internal/errors"
	"github.com/greenpulse/greenpulse-go/internal/logging"
	"github.com/greenpulse/greenpulse-go/internal/observability"
	"github.com/greenpulse/greenpulse-go/internal/observability/metrics"
)

// DefaultPeriods is the number of monthly periods projected past the
// last observed date.
const DefaultPeriods = 12

// minObservations is the smallest series a model can fit. One point
// fixes a level but not a direction.
const minObservations = 2

var (
	serviceLogger *slog.Logger
	loggerOnce    sync.Once
)

func getLogger() *slog.Logger {
	loggerOnce.Do(func() {
		serviceLogger = logging.ForService("forecast")
		if serviceLogger == nil {
			serviceLogger = slog.Default().With("service", "forecast")
		}
	})
	return serviceLogger
}

// Point is one observation: a period timestamp and the emissions summed
// over that period.
type Point struct {
	Time  time.Time
	Value float64
}

// Estimate is a fitted or projected value with its uncertainty bounds.
// Lower <= Value <= Upper holds for every estimate a Model returns.
type Estimate struct {
	Time  time.Time `json:"ds"`
	Value float64   `json:"yhat"`
	Lower float64   `json:"yhat_lower"`
	Upper float64   `json:"yhat_upper"`
}

// Model is a pluggable time-series model. Implementations are used for
// a single fit/predict cycle and need not be safe for concurrent use;
// the engine creates a fresh instance per request.
type Model interface {
	// Name identifies the model in settings and metrics.
	Name() string
	// Fit trains the model on chronologically ordered observations.
	Fit(points []Point) error
	// Predict returns one estimate per requested time. The times may
	// cover the fitted history as well as future periods.
	Predict(times []time.Time) []Estimate
}

// Store is the slice of the datastore the engine reads from.
type Store interface {
	GetRecordsForBusiness(userID, businessID string) ([]datastore.Record, error)
}

// Engine runs the scenario simulation, builds the observed series, and
// drives the configured model.
type Engine struct {
	ds       Store
	newModel func() Model
	periods  int
	metrics  *metrics.ForecastMetrics
}

// NewEngine creates an engine with the model named in the settings.
// Unknown model names are a configuration error.
func NewEngine(ds Store, settings *conf.Settings, obs *observability.Metrics) (*Engine, error) {
	modelName := ""
	periods := DefaultPeriods
	intervalWidth := DefaultIntervalWidth
	if settings != nil {
		modelName = settings.Forecast.Model
		if settings.Forecast.Periods > 0 {
			periods = settings.Forecast.Periods
		}
		if settings.Forecast.IntervalWidth > 0 && settings.Forecast.IntervalWidth < 1 {
			intervalWidth = settings.Forecast.IntervalWidth
		}
	}

	var factory func() Model
	switch modelName {
	case "", ModelNameSeasonalTrend:
		factory = func() Model { return NewSeasonalTrendModel(intervalWidth) }
	default:
		return nil, errors.Newf("unknown forecast model: %s", modelName).
			Component("forecast").
			Category(errors.CategoryConfiguration).
			Context("model", modelName).
			Build()
	}

	e := &Engine{
		ds:       ds,
		newModel: factory,
		periods:  periods,
	}
	if obs != nil {
		e.metrics = obs.Forecast
	}
	return e, nil
}

// Forecast simulates the scenario over the caller's records of one
// business and returns estimates for every historical period plus the
// projected horizon.
func (e *Engine) Forecast(userID, businessID string, scenario *emissions.Scenario) ([]Estimate, error) {
	if scenario == nil {
		scenario = &emissions.Scenario{}
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	records, err := e.ds.GetRecordsForBusiness(userID, businessID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, insufficientDataError(businessID, 0)
	}

	simulated := scenario.Apply(records)
	series, err := BuildSeries(simulated)
	if err != nil {
		return nil, err
	}
	if len(series) < minObservations {
		return nil, insufficientDataError(businessID, len(series))
	}

	model := e.newModel()

	fitStart := time.Now()
	err = model.Fit(series)
	e.recordModelOp("fit", model.Name(), fitStart, err)
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.RecordObservations(len(series))
		e.metrics.UpdateHorizon(e.periods)
	}

	times := make([]time.Time, 0, len(series)+e.periods)
	for _, p := range series {
		times = append(times, p.Time)
	}
	times = append(times, FuturePeriods(series[len(series)-1].Time, e.periods)...)

	predictStart := time.Now()
	estimates := model.Predict(times)
	e.recordModelOp("predict", model.Name(), predictStart, nil)

	getLogger().Debug("forecast computed",
		"business_id", businessID,
		"model", model.Name(),
		"observations", len(series),
		"periods", e.periods)

	return estimates, nil
}

func (e *Engine) recordModelOp(operation, model string, start time.Time, err error) {
	if e.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	e.metrics.RecordModelOperation(operation, model, status)
	e.metrics.RecordModelDuration(operation, model, time.Since(start).Seconds())
}

// insufficientDataError reports a series too short to model.
func insufficientDataError(businessID string, distinctDates int) error {
	return errors.Newf("not enough data for forecast: %d distinct dates, need at least %d", distinctDates, minObservations).
		Component("forecast").
		Category(errors.CategoryInsufficientData).
		Context("business_id", businessID).
		Context("distinct_dates", distinctDates).
		Build()
}
