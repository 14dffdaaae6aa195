package domain

import "path/filepath"

const (
	SheetHistorical = "Historical Data"
	SheetLive       = "Live Prices"
	SheetComparison = "Comparison"
)

// Report is everything written to the workbook.
type Report struct {
	Historical HistoricalTable
	Live       []LiveQuote
	Comparison ComparisonTable
}

// Artifacts are the files one pipeline run produces.
type Artifacts struct {
	ReportPath      string
	PriceChartPath  string
	ChangeChartPath string
}

// ArtifactLayout names output files relative to a base directory.
type ArtifactLayout struct {
	Dir             string
	ReportFile      string
	PriceChartFile  string
	ChangeChartFile string
}

// Default places artifacts directly under Dir.
func (l ArtifactLayout) Default() Artifacts {
	return l.in(l.Dir)
}

// ForRun places artifacts under Dir/<runID>.
func (l ArtifactLayout) ForRun(runID string) Artifacts {
	return l.in(filepath.Join(l.Dir, runID))
}

func (l ArtifactLayout) in(dir string) Artifacts {
	return Artifacts{
		ReportPath:      filepath.Join(dir, l.ReportFile),
		PriceChartPath:  filepath.Join(dir, l.PriceChartFile),
		ChangeChartPath: filepath.Join(dir, l.ChangeChartFile),
	}
}

// RunResult is the outcome of a pipeline run that did not fail fatally.
type RunResult struct {
	Report    Report
	Artifacts Artifacts
	// ChartErrors collects non-fatal chart failures; the matching path in
	// Artifacts is cleared.
	ChartErrors []error
}
