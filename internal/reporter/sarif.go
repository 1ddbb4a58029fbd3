package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool              `json:"tool"`
	AutomationDetails sarifAutomationDetails `json:"automationDetails"`
	Results           []sarifResult          `json:"results"`
}

type sarifAutomationDetails struct {
	ID string `json:"id"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

// WriteSARIFReport writes a SARIF v2.1.0 report with one result per failed
// task (error) and per task left unrun by a strict abort (warning). Each
// result points at the task's stderr capture.
func WriteSARIFReport(report *RunReport, version, path string) error {
	results := []sarifResult{}

	for _, s := range report.Subjects {
		for _, t := range s.Tasks {
			var level, msg string
			switch t.Status {
			case StatusKO:
				level = "error"
				msg = t.Message
				if msg == "" {
					msg = t.Title
				}
				if t.Error != "" {
					msg += " (" + t.Error + ")"
				}
			case StatusNotRun:
				level = "warning"
				msg = t.Title + ": not run"
			default:
				continue
			}

			rule := t.Category
			if rule == "" {
				rule = fmt.Sprintf("task-%d", t.Index)
			}

			results = append(results, sarifResult{
				RuleID:  s.Name + "/" + rule,
				Level:   level,
				Message: sarifMessage{Text: msg},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: filepath.ToSlash(t.Stderr)},
					},
				}},
			})
		}
	}

	sarif := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{Name: "tux", Version: version},
			},
			AutomationDetails: sarifAutomationDetails{ID: report.RunID},
			Results:           results,
		}},
	}

	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sarif: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sarif: %w", err)
	}

	return nil
}
