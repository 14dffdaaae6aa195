package domain

type ReportRunStatus string

const (
	ReportRunStatusQueued     ReportRunStatus = "queued"
	ReportRunStatusProcessing ReportRunStatus = "processing"
	ReportRunStatusDone       ReportRunStatus = "done"
	ReportRunStatusFailed     ReportRunStatus = "failed"
)

func ParseReportRunStatus(s string) ReportRunStatus {
	switch s {
	case "queued":
		return ReportRunStatusQueued
	case "processing":
		return ReportRunStatusProcessing
	case "done":
		return ReportRunStatusDone
	default:
		return ReportRunStatusFailed
	}
}
