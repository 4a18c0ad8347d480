// Package config は minimonkey のコマンドとREPLの設定を読み込むパッケージ。
// 設定ファイルはYAMLで、知らないキーはエラーにする。
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// 実行モード。REPLが1行（1入力）ごとに何を表示するかを決める。
const (
	ModeLex   = "lex"   // トークン列を表示する
	ModeParse = "parse" // 正規化したプログラムを表示する
	ModeEval  = "eval"  // 評価結果を表示する
)

// Config はREPLとコマンドの設定。
type Config struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	Mode               string `yaml:"mode"`
	HistoryFile        string `yaml:"history_file"`
	Trace              bool   `yaml:"trace"`
	LogLevel           string `yaml:"log_level"`
}

// Default は設定ファイルがないときの設定を返す。
func Default() *Config {
	return &Config{
		Prompt:             ">> ",
		ContinuationPrompt: ".. ",
		Mode:               ModeEval,
		HistoryFile:        expandHome("~/.minimonkey_history"),
		LogLevel:           "info",
	}
}

// ValidationError は設定の検証で見つかった問題をまとめて持つ。
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load はファイルから設定を読み込む。
// ファイルに書かれていない項目は Default() の値になる。
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	cfg, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse はYAMLを読み込んで検証済みの設定を返す。空の入力は Default() と同じ。
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize は大文字小文字や前後の空白を揃え、history_file の "~" を展開する。
// ファイルから読んだ値もコマンドラインで上書きした値も同じように扱う。
func (c *Config) Normalize() {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.HistoryFile = expandHome(strings.TrimSpace(c.HistoryFile))
}

// Validate は設定値を検証し、問題があれば *ValidationError を返す。
func (c *Config) Validate() error {
	var errs ValidationError

	switch c.Mode {
	case ModeLex, ModeParse, ModeEval:
	default:
		errs.Issues = append(errs.Issues,
			fmt.Sprintf("mode must be one of lex, parse, eval (got %q)", c.Mode))
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		errs.Issues = append(errs.Issues,
			fmt.Sprintf("log_level must be one of debug, info, warn, error (got %q)", c.LogLevel))
	}
	if c.Prompt == "" {
		errs.Issues = append(errs.Issues, "prompt must not be empty")
	}
	if c.ContinuationPrompt == "" {
		errs.Issues = append(errs.Issues, "continuation_prompt must not be empty")
	}
	if c.HistoryFile == "" {
		errs.Issues = append(errs.Issues, "history_file must not be empty")
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// SlogLevel は log_level を slog.Level に変換する。不明な値は Info。
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// expandHome は先頭の "~" をホームディレクトリに置き換える。
// ホームディレクトリが分からなければそのまま返す。
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
