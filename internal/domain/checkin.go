package domain

import "time"

type CheckInUpdate struct {
	Index            int     `json:"index"`
	PreviousProgress float64 `json:"previousProgress"`
	NewProgress      float64 `json:"newProgress"`
}

// CheckIn is an append-only progress record against one OKR.
type CheckIn struct {
	ID        string          `json:"id"`
	OKR       string          `json:"okr"`
	User      string          `json:"user"`
	Comment   string          `json:"comment"`
	Updates   []CheckInUpdate `json:"updates"`
	CreatedAt time.Time       `json:"createdAt"`
}

// CheckInValue is one key-result edit inside a check-in submission.
type CheckInValue struct {
	Index          int     `json:"index"`
	NewActualValue float64 `json:"newActualValue"`
	NewProgress    float64 `json:"newProgress"`
}

// CheckInRequest is the body of POST /check-ins.
type CheckInRequest struct {
	OKRID   string         `json:"okrId"`
	Updates []CheckInValue `json:"updates"`
	Comment string         `json:"comment"`
}
