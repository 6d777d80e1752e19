// Package suggest recommends agents for a task: a static capability catalog
// scored by keyword and task-type overlap, fuzzy name matching, and a boost
// from tracked historical performance.
package suggest

// Agent describes one entry in the built-in agent directory.
type Agent struct {
	Name        string
	Aliases     []string
	TaskTypes   []string
	Languages   []string
	Keywords    []string
	Description string
}

// Catalog is the built-in agent directory. Callers may substitute their own
// catalog; the default mirrors the plugin ecosystem's stock agents.
var Catalog = []Agent{
	{
		Name:      "debug-specialist",
		Aliases:   []string{"debugger", "bug-hunter"},
		TaskTypes: []string{"debug"},
		Languages: []string{"go", "python", "typescript", "javascript", "rust"},
		Keywords: []string{
			"bug", "fix", "error", "panic", "crash", "exception", "traceback",
			"stacktrace", "regression", "flaky", "nil", "segfault",
		},
		Description: "Root-causes failures from stack traces, logs and repro steps.",
	},
	{
		Name:      "feature-builder",
		Aliases:   []string{"implementer", "builder"},
		TaskTypes: []string{"feature"},
		Languages: []string{"go", "python", "typescript", "javascript", "rust"},
		Keywords: []string{
			"implement", "add", "build", "create", "endpoint", "api", "command",
			"flag", "support", "integration",
		},
		Description: "Implements new functionality end to end, tests included.",
	},
	{
		Name:      "refactor-surgeon",
		Aliases:   []string{"refactorer"},
		TaskTypes: []string{"refactor"},
		Languages: []string{"go", "python", "typescript", "javascript", "rust"},
		Keywords: []string{
			"refactor", "extract", "rename", "simplify", "cleanup", "decouple",
			"restructure", "dedupe", "migrate", "split",
		},
		Description: "Behavior-preserving restructuring with test coverage as the safety net.",
	},
	{
		Name:      "test-engineer",
		Aliases:   []string{"tester"},
		TaskTypes: []string{"test"},
		Languages: []string{"go", "python", "typescript", "javascript", "rust"},
		Keywords: []string{
			"test", "coverage", "unit", "integration", "table", "fixture",
			"mock", "assert", "benchmark", "fuzz",
		},
		Description: "Writes and repairs tests, raises coverage on critical paths.",
	},
	{
		Name:      "code-reviewer",
		Aliases:   []string{"reviewer"},
		TaskTypes: []string{"review"},
		Languages: []string{"go", "python", "typescript", "javascript", "rust"},
		Keywords: []string{
			"review", "audit", "security", "style", "lint", "correctness",
			"readability", "diff", "pr",
		},
		Description: "Reviews diffs for correctness, security and style issues.",
	},
	{
		Name:      "docs-writer",
		Aliases:   []string{"documenter"},
		TaskTypes: []string{"docs"},
		Languages: []string{"go", "python", "typescript", "javascript", "rust", "markdown"},
		Keywords: []string{
			"docs", "documentation", "readme", "comment", "godoc", "guide",
			"changelog", "tutorial", "example",
		},
		Description: "Writes and updates documentation, examples and changelogs.",
	},
}
