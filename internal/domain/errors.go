package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnsupportedCoin = errors.New("unsupported coin")
)

// Stage names one step of the report pipeline.
type Stage string

const (
	StageLoad  Stage = "load"
	StageFetch Stage = "fetch"
	StageMerge Stage = "merge"
	StageWrite Stage = "write"
	StageChart Stage = "chart"
)

var (
	ErrLoad  = errors.New("historical load failed")
	ErrFetch = errors.New("live fetch failed")
	ErrMerge = errors.New("merge failed")
	ErrWrite = errors.New("report write failed")
	ErrChart = errors.New("chart render failed")
)

var stageSentinels = map[Stage]error{
	StageLoad:  ErrLoad,
	StageFetch: ErrFetch,
	StageMerge: ErrMerge,
	StageWrite: ErrWrite,
	StageChart: ErrChart,
}

// StageError ties a failure to the pipeline stage that produced it.
// errors.Is matches both the stage sentinel (ErrLoad, ErrFetch, ...) and the cause.
type StageError struct {
	Stage Stage
	Err   error
}

func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() []error {
	if s, ok := stageSentinels[e.Stage]; ok {
		return []error{s, e.Err}
	}
	return []error{e.Err}
}

// Fatal reports whether the failure must abort the run. Chart failures never do.
func (e *StageError) Fatal() bool {
	return e.Stage != StageChart
}
