package domain

import "time"

type KeyResult struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	MetricType  MetricType `json:"metricType"`
	StartValue  float64    `json:"startValue"`
	TargetValue float64    `json:"targetValue"`
	ActualValue float64    `json:"actualValue"`
	Unit        string     `json:"unit"`
	Progress    float64    `json:"progress"`
	// Teams lists the teams allowed to attach OKRs (corporate key results only).
	Teams       []string   `json:"teams,omitempty"`
}

// Objective is either a corporate (company-scoped) or a team OKR.
type Objective struct {
	ID          string      `json:"id"`
	Objective   string      `json:"objective"`
	Description string      `json:"description"`
	Deadline    string      `json:"deadline,omitempty"`
	IsFrozen    bool        `json:"isFrozen"`
	Status      OKRStatus   `json:"status,omitempty"`
	Progress    float64     `json:"progress"`
	KeyResults  []KeyResult `json:"keyResults"`

	// Weak back-reference from a team OKR to a corporate key result.
	ParentOKR     string `json:"parentOKR,omitempty"`
	ParentKRIndex *int   `json:"parentKRIndex,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// DeadlineTime parses Deadline, accepting a date or an RFC3339 timestamp.
func (o *Objective) DeadlineTime() (time.Time, bool) {
	if o.Deadline == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, o.Deadline); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsLinked reports whether the OKR is attached to a corporate key result.
func (o *Objective) IsLinked() bool {
	return o.ParentOKR != "" && o.ParentKRIndex != nil
}

// CheckInAllowed is the advisory UI gate: frozen or completed OKRs hide the
// check-in action. The server decides whether a check-in is accepted.
func (o *Objective) CheckInAllowed() bool {
	return !o.IsFrozen && o.Progress < 100
}

// LinkedOKR is a team OKR attached to a corporate key result.
type LinkedOKR struct {
	ID        string  `json:"id"`
	Objective string  `json:"objective"`
	Progress  float64 `json:"progress"`
	Team      TeamRef `json:"team"`
}

// CorporateKeyResult is a corporate key result with its permitted teams expanded.
type CorporateKeyResult struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Progress    float64   `json:"progress"`
	Teams       []TeamRef `json:"teams"`
}

// CorporateKeyResultView is the key result plus every team OKR linked to it.
type CorporateKeyResultView struct {
	KeyResult  CorporateKeyResult `json:"keyResult"`
	LinkedOKRs []LinkedOKR        `json:"linkedOKRs"`
}

// CorporateOKRRef is the short corporate OKR form embedded in assigned key results.
type CorporateOKRRef struct {
	ID          string `json:"id"`
	Objective   string `json:"objective"`
	Description string `json:"description"`
}

// AssignedKeyResult is a corporate key result a team is permitted to work on.
type AssignedKeyResult struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Progress       float64         `json:"progress"`
	Teams          []string        `json:"teams"`
	CorporateOKRID string          `json:"corporateOKRId"`
	CorporateOKR   CorporateOKRRef `json:"corporateOKR"`
	KRIndex        int             `json:"krIndex"`
}

// TeamOKR is a team objective enriched with the corporate key result it is
// attached to, when that lookup succeeded.
type TeamOKR struct {
	Objective
	Attached *CorporateKeyResultView
}
