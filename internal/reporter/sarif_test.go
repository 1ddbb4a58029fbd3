package reporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/tux/internal/task"
)

func readSARIF(t *testing.T, path string) sarifReport {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var report sarifReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatal(err)
	}
	return report
}

func TestWriteSARIFReport_FailedAndUnrunTasks(t *testing.T) {
	rr := NewRunReport(sampleReport(t), task.StopOnFirstFailure, time.Now(), "zuu")
	path := filepath.Join(t.TempDir(), "report.sarif")
	if err := WriteSARIFReport(rr, "1.2.3", path); err != nil {
		t.Fatal(err)
	}

	sarif := readSARIF(t, path)
	if sarif.Version != sarifVersion {
		t.Errorf("expected version %s, got %s", sarifVersion, sarif.Version)
	}
	if len(sarif.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(sarif.Runs))
	}
	run := sarif.Runs[0]
	if run.Tool.Driver.Name != "tux" || run.Tool.Driver.Version != "1.2.3" {
		t.Errorf("unexpected driver %+v", run.Tool.Driver)
	}
	if run.AutomationDetails.ID != rr.RunID {
		t.Errorf("automation id should be the run id, got %q", run.AutomationDetails.ID)
	}

	if len(run.Results) != 2 {
		t.Fatalf("expected failed and unrun results, got %d", len(run.Results))
	}
	failed := run.Results[0]
	if failed.RuleID != "Rust/tests" || failed.Level != "error" {
		t.Errorf("unexpected failed result %+v", failed)
	}
	if failed.Message.Text != "Tests failed. (exit status 101)" {
		t.Errorf("unexpected message %q", failed.Message.Text)
	}
	uri := failed.Locations[0].PhysicalLocation.ArtifactLocation.URI
	if uri != "zuu/Rust/stderr/test_results.txt" {
		t.Errorf("expected stderr capture location, got %q", uri)
	}

	unrun := run.Results[1]
	if unrun.RuleID != "Rust/lint" || unrun.Level != "warning" {
		t.Errorf("unexpected unrun result %+v", unrun)
	}
}

func TestWriteSARIFReport_AllPassed(t *testing.T) {
	report := sampleReport(t)
	delete(report.Results, "Rust")
	report.Order = []string{"Go"}

	rr := NewRunReport(report, task.RunAllThenReport, time.Now(), "zuu")
	path := filepath.Join(t.TempDir(), "report.sarif")
	if err := WriteSARIFReport(rr, "", path); err != nil {
		t.Fatal(err)
	}

	sarif := readSARIF(t, path)
	if n := len(sarif.Runs[0].Results); n != 0 {
		t.Errorf("expected no results, got %d", n)
	}
}
