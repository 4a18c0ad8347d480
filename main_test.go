package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunExitStatus(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	good := writeFile(t, "good.mk", "let fib = fn(n) { if (n < 2) { n } else { fib(n - 1) + fib(n - 2) } };\nfib(10);\n")
	parseError := writeFile(t, "parse.mk", "let x 5;\n")
	evalError := writeFile(t, "eval.mk", "let x = 5;\nx + true;\n")
	badConfig := writeFile(t, "bad.yaml", "mode: compile\n")
	lexConfig := writeFile(t, "lex.yaml", "mode: lex\n")
	noHistory := writeFile(t, "nohist.yaml", "history_file: \"\"\n")

	tests := []struct {
		name     string
		args     []string
		expected int
	}{
		{"good file", []string{good}, 0},
		{"parse error", []string{parseError}, 1},
		{"evaluation error", []string{evalError}, 1},
		{"evaluation error in parse mode", []string{"-mode", "parse", evalError}, 0},
		{"missing file", []string{filepath.Join(t.TempDir(), "nope.mk")}, 1},
		{"unknown flag", []string{"-nope"}, 2},
		{"invalid mode flag", []string{"-mode", "compile", good}, 2},
		{"invalid log level", []string{"-log-level", "loud", good}, 2},
		{"invalid config file", []string{"-config", badConfig, good}, 2},
		{"missing config file", []string{"-config", filepath.Join(t.TempDir(), "none.yaml"), good}, 2},
		{"lex mode from config", []string{"-config", lexConfig, parseError}, 0},
		{"flag overrides config", []string{"-config", lexConfig, "-mode", "eval", parseError}, 1},
		{"trace and debug logging", []string{"-trace", "-log-level", "debug", good}, 0},
		{"mode flag is case insensitive", []string{"-mode", "EVAL", good}, 0},
		{"log level flag is case insensitive", []string{"-log-level", " Warn ", good}, 0},
		{"empty history file", []string{"-config", noHistory, good}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.expected {
				t.Errorf("run(%q) = %d, want %d", tt.args, got, tt.expected)
			}
		})
	}
}

type fakeHistory struct {
	lines string
	err   error
}

func (h *fakeHistory) WriteHistory(w io.Writer) (int, error) {
	if h.err != nil {
		return 0, h.err
	}
	n, err := io.WriteString(w, h.lines)
	return n, err
}

func TestSaveHistory(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	path := filepath.Join(t.TempDir(), "history")
	saveHistory(&fakeHistory{lines: "let a = 1;\na\n"}, path)

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("history file was not written: %v", err)
	}
	if string(got) != "let a = 1;\na\n" {
		t.Errorf("history wrong. got=%q", got)
	}

	// 書けない場所や書き出しの失敗では止まらない
	saveHistory(&fakeHistory{}, filepath.Join(t.TempDir(), "missing", "history"))
	saveHistory(&fakeHistory{err: errors.New("boom")}, path)
}

func TestHandleSignals(t *testing.T) {
	t.Run("signal", func(t *testing.T) {
		sigc := make(chan os.Signal, 1)
		got := make(chan os.Signal, 1)
		sigc <- syscall.SIGTERM

		handleSignals(sigc, make(chan struct{}), func(sig os.Signal) { got <- sig })

		select {
		case sig := <-got:
			if sig != syscall.SIGTERM {
				t.Errorf("wrong signal. got=%v", sig)
			}
		default:
			t.Errorf("onSignal was not called")
		}
	})

	t.Run("done", func(t *testing.T) {
		done := make(chan struct{})
		returned := make(chan struct{})
		called := false

		go func() {
			handleSignals(make(chan os.Signal), done, func(os.Signal) { called = true })
			close(returned)
		}()
		close(done)

		select {
		case <-returned:
		case <-time.After(time.Second):
			t.Fatalf("handleSignals did not return after done was closed")
		}
		if called {
			t.Errorf("onSignal was called without a signal")
		}
	})
}
