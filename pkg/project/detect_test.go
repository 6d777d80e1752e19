package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDetect(t *testing.T) {
	t.Run("empty root", func(t *testing.T) {
		ctx := Detect(t.TempDir())
		if ctx.Language != "" || len(ctx.Languages) != 0 {
			t.Errorf("ctx = %+v, want zero", ctx)
		}
	})

	t.Run("go project with cobra", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "go.mod", "module example\n\ngo 1.25\n\nrequire github.com/spf13/cobra v1.10.2\n")
		ctx := Detect(dir)
		if ctx.Language != "go" || ctx.Framework != "cobra" {
			t.Errorf("ctx = %+v, want go/cobra", ctx)
		}
	})

	t.Run("typescript react project", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "package.json", `{"dependencies":{"react":"^18.0.0"},"devDependencies":{"typescript":"^5.0.0"}}`)
		ctx := Detect(dir)
		if ctx.Language != "typescript" || ctx.Framework != "react" {
			t.Errorf("ctx = %+v, want typescript/react", ctx)
		}
	})

	t.Run("invalid package.json skipped", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "package.json", "{broken")
		ctx := Detect(dir)
		if ctx.Language != "" {
			t.Errorf("ctx = %+v, want zero for broken manifest", ctx)
		}
	})

	t.Run("python project", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "pyproject.toml", "[tool.poetry]\nname = \"x\"\n")
		ctx := Detect(dir)
		if ctx.Language != "python" {
			t.Errorf("ctx = %+v, want python", ctx)
		}
	})

	t.Run("rust project", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "Cargo.toml", "[package]\nname = \"x\"\n")
		ctx := Detect(dir)
		if ctx.Language != "rust" {
			t.Errorf("ctx = %+v, want rust", ctx)
		}
	})

	t.Run("polyglot project lists all languages", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "go.mod", "module example\n")
		writeFile(t, dir, "pyproject.toml", "[project]\nname = \"x\"\n")
		ctx := Detect(dir)
		if len(ctx.Languages) != 2 || ctx.Language != "go" {
			t.Errorf("ctx = %+v, want go primary with 2 languages", ctx)
		}
	})

	t.Run("override wins over detection", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "go.mod", "module example\n")
		if err := os.MkdirAll(filepath.Join(dir, ".claude-patterns"), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		writeFile(t, filepath.Join(dir, ".claude-patterns"), "project.yaml", "language: zig\nframework: none\n")
		ctx := Detect(dir)
		if ctx.Language != "zig" {
			t.Errorf("ctx = %+v, want override language zig", ctx)
		}
	})
}

func TestFill(t *testing.T) {
	ctx := Context{Language: "go", Framework: "cobra"}

	tests := []struct {
		name          string
		lang, fw      string
		wantLang      string
		wantFramework string
	}{
		{name: "both blank", wantLang: "go", wantFramework: "cobra"},
		{name: "caller language kept", lang: "python", wantLang: "python", wantFramework: "cobra"},
		{name: "caller framework kept", fw: "echo", wantLang: "go", wantFramework: "echo"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotLang, gotFw := ctx.Fill(tc.lang, tc.fw)
			if gotLang != tc.wantLang || gotFw != tc.wantFramework {
				t.Errorf("Fill = %q/%q, want %q/%q", gotLang, gotFw, tc.wantLang, tc.wantFramework)
			}
		})
	}
}
