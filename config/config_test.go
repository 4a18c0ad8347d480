package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	if cfg.Prompt != ">> " {
		t.Errorf("Prompt wrong. got=%q", cfg.Prompt)
	}
	if cfg.ContinuationPrompt != ".. " {
		t.Errorf("ContinuationPrompt wrong. got=%q", cfg.ContinuationPrompt)
	}
	if cfg.Mode != ModeEval {
		t.Errorf("Mode wrong. got=%q", cfg.Mode)
	}
	if cfg.HistoryFile != filepath.Join(home, ".minimonkey_history") {
		t.Errorf("HistoryFile wrong. got=%q", cfg.HistoryFile)
	}
	if cfg.Trace {
		t.Errorf("Trace should be off by default")
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("SlogLevel wrong. got=%v", cfg.SlogLevel())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestParse(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	input := `
prompt: "monkey> "
mode: Parse
history_file: ~/hist/mm
trace: true
log_level: debug
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if cfg.Prompt != "monkey> " {
		t.Errorf("Prompt wrong. got=%q", cfg.Prompt)
	}
	if cfg.ContinuationPrompt != ".. " {
		t.Errorf("omitted ContinuationPrompt should keep default. got=%q", cfg.ContinuationPrompt)
	}
	if cfg.Mode != ModeParse {
		t.Errorf("Mode wrong. got=%q", cfg.Mode)
	}
	if cfg.HistoryFile != filepath.Join(home, "hist", "mm") {
		t.Errorf("HistoryFile wrong. got=%q", cfg.HistoryFile)
	}
	if !cfg.Trace {
		t.Errorf("Trace wrong. got=%t", cfg.Trace)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel wrong. got=%v", cfg.SlogLevel())
	}
}

func TestParseEmptyInputIsDefault(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("empty config differs from default. got=%+v", cfg)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("promt: \"> \"\n"))
	if err == nil {
		t.Fatalf("expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "promt") {
		t.Errorf("error does not name the field. got=%q", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		input  string
		issues []string
	}{
		{"mode: compile\n", []string{`mode must be one of lex, parse, eval (got "compile")`}},
		{"log_level: verbose\n", []string{`log_level must be one of debug, info, warn, error (got "verbose")`}},
		{"prompt: \"\"\ncontinuation_prompt: \"\"\n", []string{
			"prompt must not be empty",
			"continuation_prompt must not be empty",
		}},
		{"history_file: \"  \"\n", []string{"history_file must not be empty"}},
	}

	for _, tt := range tests {
		_, err := Parse(strings.NewReader(tt.input))

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("input %q: expected *ValidationError. got=%T (%v)", tt.input, err, err)
			continue
		}
		if len(verr.Issues) != len(tt.issues) {
			t.Errorf("input %q: wrong number of issues. want=%d, got=%d (%q)",
				tt.input, len(tt.issues), len(verr.Issues), verr.Issues)
			continue
		}
		for i, issue := range tt.issues {
			if verr.Issues[i] != issue {
				t.Errorf("input %q: issues[%d] wrong. want=%q, got=%q", tt.input, i, issue, verr.Issues[i])
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	cfg.Mode = " EVAL "
	cfg.LogLevel = "Debug"
	cfg.HistoryFile = "~/h"
	cfg.Normalize()

	if cfg.Mode != ModeEval {
		t.Errorf("Mode wrong. got=%q", cfg.Mode)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel wrong. got=%q", cfg.LogLevel)
	}
	if cfg.HistoryFile != filepath.Join(home, "h") {
		t.Errorf("HistoryFile wrong. got=%q", cfg.HistoryFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("normalized config is invalid: %v", err)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Issues: []string{"a", "b"}}
	expected := "config validation failed:\n- a\n- b"
	if err.Error() != expected {
		t.Errorf("Error() wrong. want=%q, got=%q", expected, err.Error())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimonkey.yaml")
	if err := os.WriteFile(path, []byte("mode: lex\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Mode != ModeLex {
		t.Errorf("Mode wrong. got=%q", cfg.Mode)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file should wrap os.ErrNotExist. got=%v", err)
	}
	if _, err := Load(""); err == nil {
		t.Errorf("empty path should fail")
	}
}
