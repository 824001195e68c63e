package codebase

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCompletionsAfterThisDot(t *testing.T) {
	dir := t.TempDir()
	decl := "declare class StatusBadge {\n" +
		"    label: string;\n" +
		"    count: number;\n" +
		"    render(prefix: string): string;\n" +
		"}\n"
	if err := os.WriteFile(filepath.Join(dir, "status-badge.d.ts"), []byte(decl), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(dir)
	if err := c.ScanAll(); err != nil {
		t.Fatal(err)
	}
	if c.FindClass("StatusBadge") == nil {
		t.Fatal("FindClass returned nil")
	}

	jsPath := filepath.Join(dir, "status-badge.js")
	content := "class StatusBadge {\n" +
		"    update() {\n" +
		"        this.\n" +
		"    }\n" +
		"}\n"
	c.UpdateFile(jsPath, []byte(content))

	f := c.GetFile(jsPath)
	if f == nil {
		t.Fatal("GetFile returned nil")
	}

	// line 3, cursor just after "this."
	line := 3
	col := 13
	triggerCol := findTriggerPosition(f.Content, line, col)
	if triggerCol != 12 {
		t.Fatalf("findTriggerPosition = %d, want 12", triggerCol)
	}

	items := c.CompletionsAt(jsPath, line, triggerCol)
	if len(items) != 3 {
		t.Fatalf("CompletionsAt returned %d items, want 3", len(items))
	}

	byLabel := make(map[string]CompletionItem)
	for _, item := range items {
		byLabel[item.Label] = item
	}

	render, ok := byLabel["render"]
	if !ok {
		t.Fatal("missing completion for render")
	}
	if render.Kind != CompletionKindMethod {
		t.Errorf("render Kind = %v, want method", render.Kind)
	}
	if render.Detail != "render(prefix: String): String" {
		t.Errorf("render Detail = %q", render.Detail)
	}
	if render.InsertText != "render(${1:prefix})" {
		t.Errorf("render InsertText = %q", render.InsertText)
	}

	label, ok := byLabel["label"]
	if !ok {
		t.Fatal("missing completion for label")
	}
	if label.Kind != CompletionKindProperty {
		t.Errorf("label Kind = %v, want property", label.Kind)
	}
	if label.Detail != "String" {
		t.Errorf("label Detail = %q", label.Detail)
	}
	if _, ok := byLabel["count"]; !ok {
		t.Error("missing completion for count")
	}
}

func TestCompletionsRequireThisReceiver(t *testing.T) {
	dir := t.TempDir()
	decl := "declare class Badge {\n    label: string;\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "badge.d.ts"), []byte(decl), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(dir)
	if err := c.ScanAll(); err != nil {
		t.Fatal(err)
	}

	jsPath := filepath.Join(dir, "badge.js")
	c.UpdateFile(jsPath, []byte("const b = other.\n"))

	if items := c.CompletionsAt(jsPath, 1, 15); items != nil {
		t.Errorf("CompletionsAt = %v, want nil for non-this receiver", items)
	}
}

func TestRemoveFile(t *testing.T) {
	dir := t.TempDir()
	declPath := filepath.Join(dir, "badge.d.ts")
	if err := os.WriteFile(declPath, []byte("declare class Badge {\n    label: string;\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(dir)
	if err := c.ScanAll(); err != nil {
		t.Fatal(err)
	}
	if c.FindClass("Badge") == nil {
		t.Fatal("FindClass returned nil before removal")
	}

	c.RemoveFile(declPath)
	if c.FindClass("Badge") != nil {
		t.Error("FindClass still finds removed class")
	}
}
