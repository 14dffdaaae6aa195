package config

import "time"

const (
	DefaultShutdownTimeout = 10 * time.Second
	DefaultHTTPTimeout     = 10 * time.Second
	DefaultWorkerPoll      = 250 * time.Millisecond
	DefaultWorkerBatch     = 10
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1
	DefaultRunTimeout      = 2 * time.Minute
)
