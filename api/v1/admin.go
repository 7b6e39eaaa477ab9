package v1

import "time"

// SweepResult reports one pass of the expiry reaper.
type SweepResult struct {
	Now       time.Time `json:"now"`
	Reclaimed []string  `json:"reclaimed"`
	Failed    []string  `json:"failed"`
}

type SweepResponse struct {
	Response
	Data SweepResult
}

type NextSweepData struct {
	NextRun time.Time `json:"next_run"`
}

type InconsistencyItem struct {
	Id          int64     `json:"id"`
	SagaID      string    `json:"saga_id"`
	Saga        string    `json:"saga"`
	RentalName  string    `json:"rental_name"`
	NodeName    string    `json:"node_name"`
	FailedStep  string    `json:"failed_step"`
	Cause       string    `json:"cause"`
	Compensated []string  `json:"compensated"`
	Failures    []string  `json:"failures"`
	Resolved    bool      `json:"resolved"`
	CreateTime  time.Time `json:"create_time"`
}

type ListInconsistencyRequest struct {
	All bool `form:"all"` // include resolved records
}

type ListInconsistencyResponse struct {
	Response
	Data []InconsistencyItem
}
