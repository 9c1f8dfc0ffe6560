package domain

// KeyResultProgress is a key result's state inside a statistics snapshot.
type KeyResultProgress struct {
	Index       int        `json:"index"`
	Title       string     `json:"title"`
	Progress    float64    `json:"progress"`
	ActualValue float64    `json:"actualValue"`
	TargetValue float64    `json:"targetValue"`
	MetricType  MetricType `json:"metricType"`
	Unit        string     `json:"unit"`
	Teams       []string   `json:"teams,omitempty"`
}

type KeyResultPoint struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

type ProgressPoint struct {
	Date               string           `json:"date"`
	Value              float64          `json:"value"`
	KeyResultsProgress []KeyResultPoint `json:"keyResultsProgress,omitempty"`
}

type StatsOKRRef struct {
	ID          string `json:"id"`
	Objective   string `json:"objective"`
	Description string `json:"description"`
	Deadline    string `json:"deadline,omitempty"`
}

// OKRStats is the server-derived snapshot of a single objective.
type OKRStats struct {
	OKR                StatsOKRRef         `json:"okrId"`
	Progress           float64             `json:"progress"`
	Status             HealthStatus        `json:"status"`
	IsFrozen           bool                `json:"isFrozen"`
	Deadline           string              `json:"deadline,omitempty"`
	KeyResultsProgress []KeyResultProgress `json:"keyResultsProgress"`
	ProgressHistory    []ProgressPoint     `json:"progressHistory"`
}

type CompanyStats struct {
	CompanyID      string     `json:"companyId"`
	TotalOKRs      int        `json:"totalOKRs"`
	CompletedOKRs  int        `json:"completedOKRs"`
	AtRiskOKRs     int        `json:"atRiskOKRs"`
	FrozenOKRs     int        `json:"frozenOKRs"`
	TotalTeamOKRs  int        `json:"totalTeamOKRs"`
	ActiveTeamOKRs int        `json:"activeTeamOKRs"`
	FrozenTeamOKRs int        `json:"frozenTeamOKRs"`
	Stats          []OKRStats `json:"stats"`
}

type TeamStats struct {
	TeamID        string     `json:"teamId"`
	TotalOKRs     int        `json:"totalOKRs"`
	CompletedOKRs int        `json:"completedOKRs"`
	AtRiskOKRs    int        `json:"atRiskOKRs"`
	FrozenOKRs    int        `json:"frozenOKRs"`
	Stats         []OKRStats `json:"stats"`
}
