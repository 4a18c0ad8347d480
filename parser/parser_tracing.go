// parser_tracing.go はパーサーのデバッグ用トレーシング機能を提供する。
// 各解析関数の入口と出口で "BEGIN" / "END" を出力し、
// ネストの深さをタブのインデントで表す。
// トレース出力先が設定されていない場合は何もしない。
package parser

import (
	"fmt"
	"io"
	"strings"
)

const traceIdentPlaceholder string = "\t"

// tracer はトレースの出力先とインデントレベルを保持する。
type tracer struct {
	out   io.Writer
	level int
}

func (t *tracer) identLevel() string {
	return strings.Repeat(traceIdentPlaceholder, t.level-1)
}

func (t *tracer) print(fs string) {
	fmt.Fprintf(t.out, "%s%s\n", t.identLevel(), fs)
}

// trace は解析関数の入口で呼ぶ。"BEGIN <msg> (<現在のトークン>)" を出力してインデントを増やす。
// `defer p.untrace(p.trace("parseExpression"))` の形で使う。
func (p *Parser) trace(msg string) string {
	if p.tracer == nil {
		return msg
	}
	p.tracer.level++
	p.tracer.print(fmt.Sprintf("BEGIN %s (%s)", msg, p.curToken.Literal))
	return msg
}

// untrace は解析関数の出口で呼ぶ。"END <msg>" を出力してインデントを減らす。
func (p *Parser) untrace(msg string) {
	if p.tracer == nil {
		return
	}
	p.tracer.print("END " + msg)
	p.tracer.level--
}
