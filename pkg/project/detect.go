// Package project detects the languages and frameworks of a project root so
// task profiles recorded without explicit context still carry useful
// matching attributes. Detection reads the standard manifest files: go.mod,
// package.json, pyproject.toml and Cargo.toml, with a .claude-patterns
// config override taking priority.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Context holds the detected attributes of a project.
type Context struct {
	Language  string // primary language
	Framework string // primary framework, if any
	Languages []string
}

// Detect scans the project root and returns its context. An undetectable
// root returns a zero Context, never an error: detection is best effort.
func Detect(projectRoot string) Context {
	if ctx, ok := loadOverride(projectRoot); ok {
		return ctx
	}

	var ctx Context
	if lang, fw, ok := detectGo(projectRoot); ok {
		ctx.Languages = append(ctx.Languages, lang)
		if ctx.Framework == "" {
			ctx.Framework = fw
		}
	}
	if lang, fw, ok := detectJS(projectRoot); ok {
		ctx.Languages = append(ctx.Languages, lang)
		if ctx.Framework == "" {
			ctx.Framework = fw
		}
	}
	if lang, ok := detectPython(projectRoot); ok {
		ctx.Languages = append(ctx.Languages, lang)
	}
	if lang, ok := detectRust(projectRoot); ok {
		ctx.Languages = append(ctx.Languages, lang)
	}

	if len(ctx.Languages) > 0 {
		ctx.Language = ctx.Languages[0]
	}
	return ctx
}

// Fill populates blank language and framework attributes from the detected
// context, leaving caller-provided values alone.
func (c Context) Fill(language, framework string) (string, string) {
	if language == "" {
		language = c.Language
	}
	if framework == "" {
		framework = c.Framework
	}
	return language, framework
}

// loadOverride reads .claude-patterns/project.yaml if present. The override
// wins over detection entirely.
func loadOverride(projectRoot string) (Context, bool) {
	path := filepath.Join(projectRoot, ".claude-patterns", "project.yaml")
	data, err := os.ReadFile(path) //nolint:gosec // path is projectRoot + fixed name
	if err != nil {
		return Context{}, false
	}

	var override struct {
		Language  string   `yaml:"language"`
		Framework string   `yaml:"framework"`
		Languages []string `yaml:"languages"`
	}
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Context{}, false
	}

	ctx := Context{
		Language:  override.Language,
		Framework: override.Framework,
		Languages: override.Languages,
	}
	if ctx.Language == "" && len(ctx.Languages) > 0 {
		ctx.Language = ctx.Languages[0]
	}
	if len(ctx.Languages) == 0 && ctx.Language != "" {
		ctx.Languages = []string{ctx.Language}
	}
	return ctx, true
}

// goFrameworks maps well-known module paths to framework names.
var goFrameworks = map[string]string{
	"github.com/spf13/cobra":             "cobra",
	"github.com/labstack/echo":           "echo",
	"github.com/gin-gonic/gin":           "gin",
	"github.com/charmbracelet/bubbletea": "bubbletea",
}

// detectGo reports a Go project from go.mod and sniffs the framework from
// its require lines.
func detectGo(projectRoot string) (lang, framework string, ok bool) {
	data, err := os.ReadFile(filepath.Join(projectRoot, "go.mod")) //nolint:gosec // fixed manifest name
	if err != nil {
		return "", "", false
	}
	content := string(data)
	for modPath, fw := range goFrameworks {
		if strings.Contains(content, modPath) {
			framework = fw
			break
		}
	}
	return "go", framework, true
}

// jsFrameworks maps package.json dependency names to framework names,
// checked in order so the more specific frameworks win.
var jsFrameworks = []struct {
	pkg string
	fw  string
}{
	{"next", "next"},
	{"react", "react"},
	{"vue", "vue"},
	{"svelte", "svelte"},
	{"express", "express"},
}

// detectJS reports a JavaScript or TypeScript project from package.json.
func detectJS(projectRoot string) (lang, framework string, ok bool) {
	data, err := os.ReadFile(filepath.Join(projectRoot, "package.json")) //nolint:gosec // fixed manifest name
	if err != nil {
		return "", "", false
	}

	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		// Parse error: skip JS detection.
		return "", "", false
	}

	lang = "javascript"
	if hasPackage(pkg.Dependencies, "typescript") || hasPackage(pkg.DevDependencies, "typescript") {
		lang = "typescript"
	}
	for _, f := range jsFrameworks {
		if hasPackage(pkg.Dependencies, f.pkg) {
			framework = f.fw
			break
		}
	}
	return lang, framework, true
}

// detectPython reports a Python project from pyproject.toml.
func detectPython(projectRoot string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(projectRoot, "pyproject.toml")) //nolint:gosec // fixed manifest name
	if err != nil {
		return "", false
	}
	var pyproject map[string]any
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		// Parse error: skip Python detection.
		return "", false
	}
	return "python", true
}

// detectRust reports a Rust project from Cargo.toml.
func detectRust(projectRoot string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(projectRoot, "Cargo.toml")) //nolint:gosec // fixed manifest name
	if err != nil {
		return "", false
	}
	var cargo map[string]any
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return "", false
	}
	return "rust", true
}

// hasPackage checks if a package name exists in the dependencies map,
// including scoped variants (e.g. @types/react).
func hasPackage(deps map[string]string, name string) bool {
	if deps == nil {
		return false
	}
	for key := range deps {
		if key == name || strings.HasPrefix(key, "@") && strings.Contains(key, name) {
			return true
		}
	}
	return false
}
