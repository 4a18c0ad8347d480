// minimonkey はインタプリタのコマンド。
// 引数なしで起動するとREPLを、ファイルを渡すとそのファイルを一度だけ実行する。
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/peterh/liner"

	"minimonkey/config"
	"minimonkey/repl"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("minimonkey", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	mode := fs.String("mode", "", "lex, parse or eval")
	trace := fs.Bool("trace", false, "print parser trace")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: minimonkey [-config file] [-mode m] [-trace] [-log-level l] [file]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		cfg = loaded
	}

	// コマンドラインで指定されたものだけ設定ファイルより優先する
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = *mode
		case "trace":
			cfg.Trace = *trace
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if fs.NArg() > 0 {
		return runFile(cfg, fs.Arg(0))
	}
	return runRepl(cfg)
}

func runFile(cfg *config.Config, path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	slog.Debug("running file", slog.String("path", path), slog.String("mode", cfg.Mode))
	if err := repl.Run(cfg, string(src), os.Stdout); err != nil {
		slog.Debug("run failed", slog.String("path", path), slog.Any("error", err))
		return 1
	}
	return 0
}

func runRepl(cfg *config.Config) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(cfg.HistoryFile); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer saveHistory(ln, cfg.HistoryFile)

	// シグナルで終了するときは defer が走らないので、ここで履歴を書いてから閉じる
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	done := make(chan struct{})
	defer close(done)
	go handleSignals(sigc, done, func(sig os.Signal) {
		slog.Debug("signal received", slog.String("signal", sig.String()))
		saveHistory(ln, cfg.HistoryFile)
		ln.Close()
		os.Exit(130)
	})

	name := "there"
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	fmt.Printf("Hello %s! This is the Monkey programming language!\n", name)
	fmt.Printf("Feel free to type in commands (mode: %s, :quit to exit)\n", cfg.Mode)

	if err := repl.Start(cfg, ln, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// historyWriter は *liner.State の履歴書き出し部分。
type historyWriter interface {
	WriteHistory(w io.Writer) (int, error)
}

// saveHistory は入力履歴を path に書き出す。失敗は警告だけ出して続ける。
func saveHistory(h historyWriter, path string) {
	f, err := os.Create(path)
	if err != nil {
		slog.Warn("cannot write history", slog.String("path", path), slog.Any("error", err))
		return
	}
	defer f.Close()

	if _, err := h.WriteHistory(f); err != nil {
		slog.Warn("cannot write history", slog.String("path", path), slog.Any("error", err))
	}
}

// handleSignals は sigc にシグナルが届いたら onSignal を呼ぶ。
// done が閉じられたら何もせずに戻る。
func handleSignals(sigc <-chan os.Signal, done <-chan struct{}, onSignal func(os.Signal)) {
	select {
	case sig := <-sigc:
		onSignal(sig)
	case <-done:
	}
}
