package runner

import (
	"strings"
	"testing"
)

func TestGuard_AcceptsSimpleCommands(t *testing.T) {
	g := NewGuard()
	for _, cmd := range []string{
		"cargo test",
		"cargo clippy -- -D clippy::all",
		"go list -m -u all",
		"black --check .",
		`golangci-lint run "./..."`,
		"npm run $SCRIPT",
	} {
		if err := g.Check(cmd); err != nil {
			t.Errorf("Check(%q) = %v, want nil", cmd, err)
		}
	}
}

func TestGuard_RejectsCompoundCommands(t *testing.T) {
	g := NewGuard()
	cases := map[string]string{
		"cargo test && rm -rf /":   "operator",
		"cargo test | tee out":     "operator",
		"cargo test; echo done":    "statements",
		"cargo test > out.txt":     "redirection",
		"cargo test &":             "background",
		"echo $(whoami)":           "substitution",
		"echo `whoami`":            "substitution",
		"(cargo test)":             "grouping",
		"{ cargo test; }":          "grouping",
		"f() { true; }":            "function",
		"echo $((1+2))":            "arithmetic",
		"cargo test 'unterminated": "parse",
		"   ":                      "empty",
	}
	for cmd, want := range cases {
		err := g.Check(cmd)
		if err == nil {
			t.Errorf("Check(%q) = nil, want error", cmd)
			continue
		}
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Check(%q) = %q, want mention of %q", cmd, err, want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate("cargo test && cargo doc"); err != nil {
		t.Errorf("compound but valid command: %v", err)
	}
	if err := Validate("echo 'unterminated"); err == nil {
		t.Error("expected syntax error")
	}
}
