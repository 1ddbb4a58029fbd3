package catalog

// Report columns, in the order every built-in subject runs them.
const (
	Structure     = "structure"
	Licenses      = "licenses"
	Dependencies  = "dependencies"
	Audit         = "audit"
	Tests         = "tests"
	Formatting    = "formatting"
	Documentation = "documentation"
	Outdated      = "outdated"
	Lint          = "lint"
)

// Categories lists the built-in columns in run order.
var Categories = []string{
	Structure, Licenses, Dependencies, Audit, Tests,
	Formatting, Documentation, Outdated, Lint,
}

// template holds the toolchain-independent text of a category.
type template struct {
	title   string
	success string
	failure string
	capture string
}

var templates = map[string]template{
	Structure: {
		title:   "Validating the project structure",
		success: "The project is valid.",
		failure: "The project is invalid.",
		capture: "project_validation.txt",
	},
	Licenses: {
		title:   "Verifying project licenses",
		success: "No license issues found in dependencies.",
		failure: "License issues detected in dependencies.",
		capture: "license_check.txt",
	},
	Dependencies: {
		title:   "Checking build dependencies",
		success: "No errors found in packages or dependencies.",
		failure: "Errors found in packages or dependencies.",
		capture: "dependency_checks.txt",
	},
	Audit: {
		title:   "Scanning for security vulnerabilities",
		success: "No security vulnerabilities detected.",
		failure: "Security vulnerabilities detected.",
		capture: "security_audit.txt",
	},
	Tests: {
		title:   "Running all tests",
		success: "All tests passed.",
		failure: "Tests failed.",
		capture: "test_results.txt",
	},
	Formatting: {
		title:   "Validating code formatting",
		success: "The code meets the formatting standards.",
		failure: "Code does not conform to the formatting standards.",
		capture: "formatting_check.txt",
	},
	Documentation: {
		title:   "Generating project documentation",
		success: "Documentation generated successfully.",
		failure: "Failed to generate documentation.",
		capture: "documentation_generation.txt",
	},
	Outdated: {
		title:   "Checking for outdated dependencies",
		success: "All dependencies are up to date.",
		failure: "Dependencies are outdated and need updating.",
		capture: "dependency_updates.txt",
	},
	Lint: {
		title:   "Linting the source code",
		success: "The code is validated.",
		failure: "The code contains errors.",
		capture: "code_linting.txt",
	},
}

var nodeCommands = map[string]string{
	Structure:     "npm install",
	Licenses:      "npx license-checker --production --summary",
	Dependencies:  "npm run build",
	Audit:         "npm audit",
	Tests:         "npm test",
	Formatting:    "npm run format:check",
	Documentation: "npm run doc",
	Outdated:      "npm outdated",
	Lint:          "npm run lint",
}

// builtins maps each supported language to its command per category.
var builtins = []struct {
	name     string
	aliases  []string
	commands map[string]string
}{
	{
		name:     "Rust",
		commands: map[string]string{
			Structure:     "cargo verify-project",
			Licenses:      "cargo deny check",
			Dependencies:  "cargo check",
			Audit:         "cargo audit",
			Tests:         "cargo test",
			Formatting:    "cargo fmt --check",
			Documentation: "cargo doc --no-deps",
			Outdated:      "cargo outdated",
			Lint:          "cargo clippy -- -D clippy::all",
		},
	},
	{
		name:     "D",
		commands: map[string]string{
			Structure:     "dub describe",
			Licenses:      "dub lint --compiler=dmd",
			Dependencies:  "dub build --compiler=dmd",
			Audit:         "snyk test",
			Tests:         "dub test --compiler=dmd",
			Formatting:    "dub format",
			Documentation: "dub generate-doc",
			Outdated:      "dub upgrade",
			Lint:          "dub lint",
		},
	},
	{
		name:     "Go",
		commands: map[string]string{
			Structure:     "go mod tidy",
			Licenses:      "go mod verify",
			Dependencies:  "go mod vendor",
			Audit:         "govulncheck ./...",
			Tests:         "go test ./...",
			Formatting:    "go fmt ./...",
			Documentation: "go doc ./...",
			Outdated:      "go list -m -u all",
			Lint:          "golangci-lint run ./...",
		},
	},
	{
		name:     "JavaScript",
		aliases:  []string{"js", "node", "nodejs"},
		commands: nodeCommands,
	},
	{
		name:     "TypeScript",
		aliases:  []string{"ts"},
		commands: nodeCommands,
	},
	{
		name:     "PHP",
		commands: map[string]string{
			Structure:     "composer validate",
			Licenses:      "composer licenses",
			Dependencies:  "composer check-platform-reqs",
			Audit:         "composer audit",
			Tests:         "composer run-script test",
			Formatting:    "composer run-script fmt",
			Documentation: "composer run-script doc",
			Outdated:      "composer outdated",
			Lint:          "composer run-script lint",
		},
	},
	{
		name:     "Python",
		aliases:  []string{"py"},
		commands: map[string]string{
			Structure:     "pip check",
			Licenses:      "pip-licenses",
			Dependencies:  "pip install -r requirements.txt",
			Audit:         "pip-audit",
			Tests:         "pytest",
			Formatting:    "black --check .",
			Documentation: "pdoc --html .",
			Outdated:      "pip list --outdated",
			Lint:          "pylint .",
		},
	},
}
