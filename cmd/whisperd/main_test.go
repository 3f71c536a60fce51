package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"config", "init", "--path", target})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	if !strings.Contains(string(data), "[server]") {
		t.Fatalf("sample config missing server section:\n%s", data)
	}
	if !strings.Contains(out.String(), target) {
		t.Fatalf("output should mention target path: %s", out.String())
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--path", target})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for existing config without --overwrite")
	}
}

func TestServiceBaseURL(t *testing.T) {
	address := "localhost:9999"
	ctx := newCommandContext(nil, &address)
	base, err := ctx.serviceBaseURL()
	if err != nil {
		t.Fatalf("serviceBaseURL: %v", err)
	}
	if base != "http://localhost:9999" {
		t.Fatalf("unexpected base url %q", base)
	}

	full := "http://example.test:8080/"
	ctx = newCommandContext(nil, &full)
	base, err = ctx.serviceBaseURL()
	if err != nil {
		t.Fatalf("serviceBaseURL: %v", err)
	}
	if base != "http://example.test:8080" {
		t.Fatalf("scheme-qualified address mangled: %q", base)
	}
}

func TestLanguageName(t *testing.T) {
	if got := languageName("en"); got != "English" {
		t.Fatalf("expected English, got %q", got)
	}
	if got := languageName("unknown"); got != "unknown" {
		t.Fatalf("unknown should pass through, got %q", got)
	}
	if got := languageName("not-a-code!"); got != "not-a-code!" {
		t.Fatalf("unparsable code should pass through, got %q", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	rendered := renderTable(
		[]string{"A", "B"},
		[][]string{{"only-one"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if !strings.Contains(rendered, "only-one") {
		t.Fatalf("row value missing from table:\n%s", rendered)
	}
}
