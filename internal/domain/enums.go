package domain

type MetricType string

const (
	MetricNumber     MetricType = "number"
	MetricPercentage MetricType = "percentage"
	MetricCurrency   MetricType = "currency"
	MetricCustom     MetricType = "custom"
)

// ValidMetricTypes is the canonical set of accepted metric type strings.
var ValidMetricTypes = map[string]bool{
	"number": true, "percentage": true, "currency": true, "custom": true,
}

type OKRStatus string

const (
	OKRDraft  OKRStatus = "draft"
	OKRActive OKRStatus = "active"
	OKRDone   OKRStatus = "done"
)

// ValidOKRStatuses is the canonical set of team OKR statuses.
var ValidOKRStatuses = map[string]bool{
	"draft": true, "active": true, "done": true,
}

// HealthStatus is the server-computed state of an objective in a statistics snapshot.
type HealthStatus string

const (
	HealthOnTrack   HealthStatus = "on_track"
	HealthAtRisk    HealthStatus = "at_risk"
	HealthCompleted HealthStatus = "completed"
)
