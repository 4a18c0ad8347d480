// Package repl は minimonkey のREPL（Read-Eval-Print Loop）を実装するパッケージ。
// 入力を字句解析 → 構文解析 → 評価し、モードに応じた結果を表示する。
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/peterh/liner"

	"minimonkey/ast"
	"minimonkey/config"
	"minimonkey/evaluator"
	"minimonkey/lexer"
	"minimonkey/object"
	"minimonkey/parser"
	"minimonkey/token"
)

var (
	// ErrParse は入力に構文エラーがあったことを表す。
	ErrParse = errors.New("parse error")
	// ErrEval は評価結果がエラーオブジェクトだったことを表す。
	ErrEval = errors.New("evaluation error")
)

// LineReader はプロンプトを出して1行読む。*liner.State がこれを満たす。
// 入力の終わりでは io.EOF を返す。
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// historyAppender を満たす LineReader には、実行した入力を履歴として渡す。
type historyAppender interface {
	AppendHistory(item string)
}

// ScanReader は端末でない入力（パイプやテスト）用の LineReader。
type ScanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewScanReader は in から1行ずつ読み、プロンプトを out に書く LineReader を返す。
func NewScanReader(in io.Reader, out io.Writer) *ScanReader {
	return &ScanReader{scanner: bufio.NewScanner(in), out: out}
}

func (r *ScanReader) Prompt(prompt string) (string, error) {
	io.WriteString(r.out, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

// Start はREPLを起動する。
// 環境（env）をループ全体で共有することで、変数束縛がセッション中持続する。
// 入力が終わるか :quit が入力されると nil を返す。
func Start(cfg *config.Config, in LineReader, out io.Writer) error {
	s := newSession(cfg, out)

	for {
		src, ok, err := s.read(in)
		if err != nil {
			return fmt.Errorf("repl: read input: %w", err)
		}
		if !ok {
			io.WriteString(out, "\n")
			return nil
		}

		code := strings.TrimSpace(src)
		if code == "" {
			continue
		}
		if strings.HasPrefix(code, ":") {
			switch strings.ToLower(code) {
			case ":quit":
				return nil
			default:
				io.WriteString(out, "unknown command. Type :quit to exit.\n")
			}
			continue
		}

		// エラーは process の中で表示済み
		_ = s.process(src)

		if h, ok := in.(historyAppender); ok {
			h.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		}
	}
}

// Run は src 全体を一度だけ処理する。
// 構文エラーなら ErrParse、評価結果がエラーなら ErrEval をラップして返す。
func Run(cfg *config.Config, src string, out io.Writer) error {
	return newSession(cfg, out).process(src)
}

type session struct {
	cfg *config.Config
	out io.Writer
	env *object.Environment
}

func newSession(cfg *config.Config, out io.Writer) *session {
	if cfg == nil {
		cfg = config.Default()
	}
	return &session{cfg: cfg, out: out, env: object.NewEnvironment()}
}

// read はプロンプトを出して入力を読む。
// 構文解析が入力の途中で終わっている間は継続プロンプトで次の行を読み足す。
// 入力が終わったら ok が false になる。Ctrl-C はそれまでの入力を捨てる。
func (s *session) read(in LineReader) (string, bool, error) {
	var b strings.Builder

	for {
		prompt := s.cfg.Prompt
		if b.Len() > 0 {
			prompt = s.cfg.ContinuationPrompt
		}

		line, err := in.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				// 未完成のまま終わった入力はそのまま処理してエラーを表示させる
				return b.String(), true, nil
			}
			return "", false, nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true, nil
		}
		if err != nil {
			return "", false, err
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if s.cfg.Mode == config.ModeLex || strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true, nil
		}

		p := parser.New(lexer.New(src))
		p.ParseProgram()
		if !p.Incomplete() {
			return src, true, nil
		}
		slog.Debug("input incomplete, reading continuation line", slog.Int("lines", strings.Count(src, "\n")+1))
	}
}

// process は1つの入力をモードに応じて処理し、結果を out に書く。
func (s *session) process(src string) error {
	switch s.cfg.Mode {
	case config.ModeLex:
		s.printTokens(src)
		return nil
	case config.ModeParse:
		program, err := s.parse(src)
		if err != nil {
			return err
		}
		io.WriteString(s.out, program.String())
		io.WriteString(s.out, "\n")
		return nil
	default:
		program, err := s.parse(src)
		if err != nil {
			return err
		}
		evaluated := evaluator.Eval(program, s.env)
		io.WriteString(s.out, evaluated.Inspect())
		io.WriteString(s.out, "\n")

		if errObj, ok := evaluated.(*object.Error); ok {
			slog.Debug("evaluation failed", slog.String("message", errObj.Message))
			return fmt.Errorf("%w: %s", ErrEval, errObj.Message)
		}
		slog.Debug("evaluated", slog.String("type", string(evaluated.Type())))
		return nil
	}
}

func (s *session) parse(src string) (*ast.Program, error) {
	p := parser.New(lexer.New(src))
	if s.cfg.Trace {
		p.SetTrace(s.out)
	}

	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		printParserErrors(s.out, errs)
		slog.Debug("parse failed", slog.Int("error-count", len(errs)))
		return nil, fmt.Errorf("%w: %s", ErrParse, strings.Join(errs, "; "))
	}
	if ast.HasBadExpression(program) {
		// エラーなしで番兵ノードが残ることはないはずだが、評価はしない
		return nil, fmt.Errorf("%w: unparsed expression in %q", ErrParse, program.String())
	}

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("parsed",
			slog.Int("statements", len(program.Statements)),
			slog.Int("nodes", ast.Count(program)))
	}
	return program, nil
}

func (s *session) printTokens(src string) {
	l := lexer.New(src)
	for tok := l.NextToken(); tok.Type != token.EOF; tok = l.NextToken() {
		io.WriteString(s.out, tok.String())
		io.WriteString(s.out, "\n")
	}
}

// MONKEY_FACE はパーサーエラー時に表示されるモンキーのアスキーアート。
const MONKEY_FACE = `            __,__
   .--.  .-"     "-.  .--.
  / .. \/  .-. .-.  \/ .. \
 | |  '|  /   Y   \  |'  | |
 | \   \  \ 0 | 0 /  /   / |
  \ '- ,\.-"""""""-./, -' /
   ''-' /_   ^ ^   _\ '-''
       |  \._   _./  |
       \   \ '~' /   /
        '._ '-=-' _.'
           '-----'
`

// printParserErrors はパーサーエラーをモンキーのAAと共に出力する。
func printParserErrors(out io.Writer, errors []string) {
	io.WriteString(out, MONKEY_FACE)
	io.WriteString(out, "Woops! We ran into some monkey business here!\n")
	io.WriteString(out, " parser errors:\n")
	for _, msg := range errors {
		io.WriteString(out, "\t"+msg+"\n")
	}
}
