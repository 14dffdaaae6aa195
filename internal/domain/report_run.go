package domain

import "time"

type ReportRun struct {
	ID          string
	Status      ReportRunStatus
	Error       *string
	Artifacts   *Artifacts
	RequestedAt time.Time
	UpdatedAt   time.Time
}
