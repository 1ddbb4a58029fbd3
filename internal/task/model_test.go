package task

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestFailureKind_String(t *testing.T) {
	cases := map[FailureKind]string{
		FailureNone:        "none",
		FailureExit:        "exit",
		FailureSpawn:       "spawn",
		FailureCapture:     "capture",
		FailureRejected:    "rejected",
		FailureTimeout:     "timeout",
		FailureInterrupted: "interrupted",
		FailureKind(99):    "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("FailureKind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}

func TestOutcome_JSONUsesKindNames(t *testing.T) {
	data, err := json.Marshal(Failed(2, FailureSpawn, errors.New("sh: not found")))
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"failure":"spawn"`) {
		t.Errorf("expected failure kind by name, got %s", s)
	}
	if !strings.Contains(s, `"task_index":2`) {
		t.Errorf("expected task index, got %s", s)
	}
}

func TestOutcome_Mark(t *testing.T) {
	if (Outcome{Succeeded: true}).Mark() != MarkOk {
		t.Error("succeeded outcome should mark ok")
	}
	if (Outcome{}).Mark() != MarkKo {
		t.Error("failed outcome should mark ko")
	}
}

func TestPolicyFor(t *testing.T) {
	if PolicyFor(true) != StopOnFirstFailure {
		t.Error("strict should stop on first failure")
	}
	if PolicyFor(false) != RunAllThenReport {
		t.Error("non-strict should run all")
	}
}

func TestRunResult_Finish(t *testing.T) {
	cases := []struct {
		name     string
		outcomes []Outcome
		aborted  bool
		want     bool
	}{
		{"empty", nil, false, true},
		{"all ok", []Outcome{{Succeeded: true}, {Succeeded: true}}, false, true},
		{"one failed", []Outcome{{Succeeded: true}, {}}, false, false},
		{"aborted", []Outcome{{Succeeded: true}}, true, false},
	}
	for _, tc := range cases {
		r := &RunResult{Outcomes: tc.outcomes, AbortedEarly: tc.aborted}
		r.finish()
		if r.Success != tc.want {
			t.Errorf("%s: success=%v, want %v", tc.name, r.Success, tc.want)
		}
	}
}

func TestValidateDescriptors(t *testing.T) {
	valid := scenarioTasks()
	if err := ValidateDescriptors(valid); err != nil {
		t.Fatalf("valid tasks: %v", err)
	}

	mutate := func(f func(ts []Descriptor)) []Descriptor {
		ts := scenarioTasks()
		f(ts)
		return ts
	}

	cases := map[string][]Descriptor{
		"gap in index":  mutate(func(ts []Descriptor) { ts[1].Index = 5 }),
		"empty title":   mutate(func(ts []Descriptor) { ts[0].Title = " " }),
		"empty command": mutate(func(ts []Descriptor) { ts[0].Command = "" }),
		"empty capture": mutate(func(ts []Descriptor) { ts[2].CaptureName = "" }),
		"path capture":  mutate(func(ts []Descriptor) { ts[2].CaptureName = "../x.txt" }),
		"dup capture":   mutate(func(ts []Descriptor) { ts[2].CaptureName = ts[0].CaptureName }),
		"dup category":  mutate(func(ts []Descriptor) { ts[2].Category = ts[0].Category }),
	}
	for name, ts := range cases {
		if err := ValidateDescriptors(ts); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
