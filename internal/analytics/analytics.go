// Package analytics aggregates stored emission records into the
// dashboard, sector comparison, and green score surfaces.
package analytics

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/greenpulse/greenpulse-go/internal/conf"
	"github.com/greenpulse/greenpulse-go/internal/datastore"
	"github.com/greenpulse/greenpulse-go/internal/emissions"
	"github.com/greenpulse/greenpulse-go/internal/errors"
	"github.com/greenpulse/greenpulse-go/internal/logging"
	"github.com/greenpulse/greenpulse-go/internal/observability"
)

// monthsPerYear is the fixed divisor for the average monthly figure.
// The divisor stays 12 no matter how many months the stored data spans.
const monthsPerYear = 12

// explanation is the narrative sentence attached to every insights
// response. The 0.359 kgCO2e/kWh grid factor appears only here, the
// score itself is computed from stored records.
const explanation = "Based on Nigerian grid emission factors (0.359 kgCO2e/kWh) and fuel standards, your business emissions are interpreted according to local energy and waste conditions."

var (
	serviceLogger *slog.Logger
	loggerOnce    sync.Once
)

func getLogger() *slog.Logger {
	loggerOnce.Do(func() {
		serviceLogger = logging.ForService("analytics")
		if serviceLogger == nil {
			serviceLogger = slog.Default().With("service", "analytics")
		}
	})
	return serviceLogger
}

// CategoryContribution is one source category's summed share of a
// business's emissions, in the dashboard wire shape.
type CategoryContribution struct {
	SourceCategory  string  `json:"source_category"`
	EmissionsKgCO2e float64 `json:"emissions_kgCO2e"`
}

// ScopeContribution is the per-scope counterpart.
type ScopeContribution struct {
	Scope           string  `json:"scope"`
	EmissionsKgCO2e float64 `json:"emissions_kgCO2e"`
}

// Dashboard is the aggregate view of one business's records.
type Dashboard struct {
	TotalEmissions      float64                `json:"total_emissions"`
	AvgMonthlyEmissions float64                `json:"avg_monthly_emissions"`
	Contributors        []CategoryContribution `json:"contributors"`
	ByScope             []ScopeContribution    `json:"by_scope"`
}

// Insights is the sector comparison view: the green score, the
// recommendation derived from the top emitting activity, and the fixed
// narrative explanation.
type Insights struct {
	GreenScore     float64 `json:"green_score"`
	Recommendation string  `json:"recommendation"`
	Explanation    string  `json:"explanation"`
}

// Store is the slice of the datastore the aggregator reads from. Both
// datastore.Interface and a bare DataStore satisfy it.
type Store interface {
	GetBusinessType(userID, businessID string) (string, error)
	GetTotalEmissions(userID, businessID string) (float64, error)
	GetCategoryTotals(userID, businessID string) ([]datastore.CategoryTotal, error)
	GetScopeTotals(userID, businessID string) ([]datastore.ScopeTotal, error)
	GetActivityTotals(userID, businessID string) ([]datastore.ActivityTotal, error)
	GetSectorAverage(businessType string) (datastore.SectorAverage, error)
}

// Aggregator computes dashboards and insights on top of the datastore,
// memoizing responses for a short TTL. Safe for concurrent use.
type Aggregator struct {
	ds            Store
	responseCache *cache.Cache
	metrics       *observability.Metrics

	cacheGets atomic.Int64
	cacheHits atomic.Int64
}

// NewAggregator creates an aggregator. A non-positive cache TTL in the
// settings disables response caching entirely.
func NewAggregator(ds Store, settings *conf.Settings, metrics *observability.Metrics) *Aggregator {
	a := &Aggregator{ds: ds, metrics: metrics}
	if settings != nil && settings.Dashboard.CacheTTLSeconds > 0 {
		ttl := time.Duration(settings.Dashboard.CacheTTLSeconds) * time.Second
		a.responseCache = cache.New(ttl, ttl*2)
	}
	return a
}

// Dashboard returns totals for the caller's records of one business.
// A business with no records for this caller is reported as not found.
func (a *Aggregator) Dashboard(userID, businessID string) (*Dashboard, error) {
	cacheKey := fmt.Sprintf("dashboard:%s:%s", userID, businessID)
	if cached, found := a.cacheGet("dashboard", cacheKey); found {
		return cached.(*Dashboard), nil
	}

	categories, err := a.ds.GetCategoryTotals(userID, businessID)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, noDataError(businessID)
	}

	scopes, err := a.ds.GetScopeTotals(userID, businessID)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		Contributors: make([]CategoryContribution, 0, len(categories)),
		ByScope:      make([]ScopeContribution, 0, len(scopes)),
	}
	for _, c := range categories {
		dashboard.TotalEmissions += c.Total
		dashboard.Contributors = append(dashboard.Contributors, CategoryContribution{
			SourceCategory:  c.SourceCategory,
			EmissionsKgCO2e: c.Total,
		})
	}
	dashboard.AvgMonthlyEmissions = dashboard.TotalEmissions / monthsPerYear
	for _, s := range scopes {
		dashboard.ByScope = append(dashboard.ByScope, ScopeContribution{
			Scope:           s.Scope,
			EmissionsKgCO2e: s.Total,
		})
	}

	a.cacheSet("dashboard", cacheKey, dashboard)
	return dashboard, nil
}

// Insights returns the green score and recommendation for one business.
// The sector average deliberately spans every tenant's records of the
// same business type, a business is scored against the whole sector.
func (a *Aggregator) Insights(userID, businessID string) (*Insights, error) {
	cacheKey := fmt.Sprintf("insights:%s:%s", userID, businessID)
	if cached, found := a.cacheGet("insights", cacheKey); found {
		return cached.(*Insights), nil
	}

	businessType, err := a.ds.GetBusinessType(userID, businessID)
	if err != nil {
		return nil, err
	}

	total, err := a.ds.GetTotalEmissions(userID, businessID)
	if err != nil {
		return nil, err
	}

	sector, err := a.ds.GetSectorAverage(businessType)
	if err != nil {
		return nil, err
	}

	activities, err := a.ds.GetActivityTotals(userID, businessID)
	if err != nil {
		return nil, err
	}
	topCategory := ""
	if len(activities) > 0 {
		topCategory = activities[0].SourceCategory
	}

	insights := &Insights{
		GreenScore:     GreenScore(total, sector.Average),
		Recommendation: emissions.RecommendationFor(topCategory),
		Explanation:    explanation,
	}

	getLogger().Debug("computed insights",
		"business_id", businessID,
		"business_type", businessType,
		"sector_businesses", sector.BusinessCount,
		"green_score", insights.GreenScore)

	a.cacheSet("insights", cacheKey, insights)
	return insights, nil
}

// Invalidate drops every cached response. Called after each write, a
// single write can shift the sector average for unrelated tenants so
// per-key eviction would leave stale scores behind.
func (a *Aggregator) Invalidate() {
	if a.responseCache == nil {
		return
	}
	a.responseCache.Flush()
	if m := a.datastoreMetrics(); m != nil {
		m.UpdateCacheMetrics(0, a.hitRatio())
	}
}

func (a *Aggregator) cacheGet(cacheType, key string) (any, bool) {
	if a.responseCache == nil {
		return nil, false
	}
	cached, found := a.responseCache.Get(key)
	a.cacheGets.Add(1)
	if found {
		a.cacheHits.Add(1)
	}
	if m := a.datastoreMetrics(); m != nil {
		result := "miss"
		if found {
			result = "hit"
		}
		m.RecordCacheOperation(cacheType, "get", result)
		m.UpdateCacheMetrics(a.responseCache.ItemCount(), a.hitRatio())
	}
	return cached, found
}

func (a *Aggregator) cacheSet(cacheType, key string, value any) {
	if a.responseCache == nil {
		return
	}
	a.responseCache.Set(key, value, cache.DefaultExpiration)
	if m := a.datastoreMetrics(); m != nil {
		m.RecordCacheOperation(cacheType, "set", "success")
		m.UpdateCacheMetrics(a.responseCache.ItemCount(), a.hitRatio())
	}
}

func (a *Aggregator) hitRatio() float64 {
	gets := a.cacheGets.Load()
	if gets == 0 {
		return 0
	}
	return float64(a.cacheHits.Load()) / float64(gets)
}

func (a *Aggregator) datastoreMetrics() *datastore.Metrics {
	if a.metrics == nil {
		return nil
	}
	return a.metrics.Datastore
}

// noDataError reports a business with no records for the caller.
func noDataError(businessID string) error {
	return errors.Newf("no data found for business %s", businessID).
		Component("analytics").
		Category(errors.CategoryNotFound).
		Context("business_id", businessID).
		Build()
}
