package runner

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Guard screens command strings before they reach the shell. It accepts a
// single simple command with literal arguments and plain variable expansion,
// and refuses anything that chains, redirects, substitutes or backgrounds.
type Guard struct {
	parser *syntax.Parser
}

// NewGuard creates a guard using a POSIX shell parser.
func NewGuard() *Guard {
	return &Guard{parser: syntax.NewParser(syntax.Variant(syntax.LangPOSIX))}
}

// Check returns an error describing why the command is refused, or nil.
func (g *Guard) Check(command string) error {
	file, err := g.parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return fmt.Errorf("parse command: %w", err)
	}
	if len(file.Stmts) == 0 {
		return fmt.Errorf("empty command")
	}
	if len(file.Stmts) > 1 {
		return fmt.Errorf("command has %d statements, want 1", len(file.Stmts))
	}

	var reason string
	syntax.Walk(file, func(node syntax.Node) bool {
		if reason != "" {
			return false
		}
		switch n := node.(type) {
		case *syntax.Stmt:
			if n.Background {
				reason = "background job"
			} else if n.Coprocess {
				reason = "coprocess"
			} else if len(n.Redirs) > 0 {
				reason = "redirection"
			}
		case *syntax.BinaryCmd:
			reason = fmt.Sprintf("operator %s", n.Op)
		case *syntax.CmdSubst:
			reason = "command substitution"
		case *syntax.ProcSubst:
			reason = "process substitution"
		case *syntax.Subshell, *syntax.Block:
			reason = "grouping"
		case *syntax.FuncDecl:
			reason = "function declaration"
		case *syntax.ArithmExp, *syntax.ArithmCmd:
			reason = "arithmetic expansion"
		}
		return reason == ""
	})
	if reason != "" {
		return fmt.Errorf("command uses %s", reason)
	}
	return nil
}

// Validate reports shell syntax errors without applying the guard rules.
func Validate(command string) error {
	if _, err := syntax.NewParser().Parse(strings.NewReader(command), ""); err != nil {
		return fmt.Errorf("invalid shell command %q: %w", command, err)
	}
	return nil
}
