package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/wolfeidau/roster"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// Directory metrics
	DirectoryRequestsTotal      metric.Int64Counter
	DirectoryRequestErrorsTotal metric.Int64Counter
	DirectoryRequestDuration    metric.Float64Histogram

	// Household metrics
	HouseholdResolutionsTotal metric.Int64Counter
	HouseholdMemoHitsTotal    metric.Int64Counter

	// Roster metrics
	RosterMembersTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary.
// Instruments created before InitTelemetry are delegated once a provider is set.
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// Tracer returns the tracer used for roster spans.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(instrumentationName)

	m := &Metrics{}

	m.DirectoryRequestsTotal, _ = meter.Int64Counter(
		"roster.directory.requests.total",
		metric.WithDescription("Total number of directory requests that received a response"),
		metric.WithUnit("{request}"),
	)

	m.DirectoryRequestErrorsTotal, _ = meter.Int64Counter(
		"roster.directory.requests.errors.total",
		metric.WithDescription("Total number of failed or non-2xx directory requests"),
		metric.WithUnit("{error}"),
	)

	m.DirectoryRequestDuration, _ = meter.Float64Histogram(
		"roster.directory.requests.duration",
		metric.WithDescription("Duration of directory requests"),
		metric.WithUnit("ms"),
	)

	m.HouseholdResolutionsTotal, _ = meter.Int64Counter(
		"roster.household.resolutions.total",
		metric.WithDescription("Total number of household email lookups"),
		metric.WithUnit("{lookup}"),
	)

	m.HouseholdMemoHitsTotal, _ = meter.Int64Counter(
		"roster.household.memo.hits.total",
		metric.WithDescription("Household lookups answered from the head of household memo"),
		metric.WithUnit("{lookup}"),
	)

	m.RosterMembersTotal, _ = meter.Int64Counter(
		"roster.members.total",
		metric.WithDescription("Total number of members written to rosters"),
		metric.WithUnit("{member}"),
	)

	return m
}
