package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"auto-api-agent/internal/workflow"
)

// Report is the persisted record of one workflow execution
type Report struct {
	Timestamp  time.Time             `json:"timestamp"`
	Workflow   string                `json:"workflow"`
	TotalSteps int                   `json:"totalSteps"`
	Succeeded  int                   `json:"succeeded"`
	Failed     int                   `json:"failed"`
	Steps      []workflow.StepResult `json:"steps"`
}

// ReportingConfig holds the configuration for reporting
type ReportingConfig struct {
	OutputDir string
	Detailed  bool
}

// Reporter renders workflow execution reports to files
type Reporter struct {
	config ReportingConfig
}

// NewReporter creates a new instance of Reporter
func NewReporter(config ReportingConfig) *Reporter {
	return &Reporter{
		config: config,
	}
}

// WriteReport writes the execution report as JSON and returns the file path.
// Without Detailed, step responses are dropped and only outcomes remain.
func (r *Reporter) WriteReport(result *workflow.Report) (string, error) {
	report := Report{
		Timestamp:  time.Now(),
		Workflow:   result.Workflow,
		TotalSteps: len(result.Steps),
		Succeeded:  result.Succeeded,
		Failed:     result.Failed,
		Steps:      result.Steps,
	}

	if !r.config.Detailed {
		trimmed := make([]workflow.StepResult, len(report.Steps))
		for i, step := range report.Steps {
			step.Response = nil
			trimmed[i] = step
		}
		report.Steps = trimmed
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(r.config.OutputDir, 0755); err != nil {
		return "", err
	}

	reportPath := filepath.Join(r.config.OutputDir,
		fmt.Sprintf("workflow_%s_%s.json", report.Workflow, report.Timestamp.Format("20060102_150405")))

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(reportPath, data, 0644); err != nil {
		return "", err
	}
	return reportPath, nil
}
