// Package shellfmt pretty-prints a single shell command for the runner's
// --verbose echo and --list/--list-run listings. It parses the command
// with mvdan.cc/sh/v3/syntax and re-renders it, preferring a single line
// but breaking && / || / | chains of more than two elements, or wider than
// 80 columns, onto continuation lines the same way a human would write them
// out by hand.
//
// Formatting is purely cosmetic: Render never changes what gets executed,
// and a command that fails to parse as shell syntax (e.g. prose smuggled
// into a malformed test file) is returned with only its surrounding
// whitespace trimmed.
package shellfmt

import (
	"bytes"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

const (
	defaultIndent   = 2
	defaultMaxWidth = 80
)

// Render formats a single command line for display.
func Render(command string) string {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return trimmed
	}

	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	prog, err := parser.Parse(strings.NewReader(trimmed), "")
	if err != nil || len(prog.Stmts) == 0 {
		return trimmed
	}

	f := &formatter{
		printer: syntax.NewPrinter(syntax.SpaceRedirects(true)),
	}
	for i, stmt := range prog.Stmts {
		if i > 0 {
			f.buf.WriteByte('\n')
		}
		f.stmt(stmt)
	}
	return strings.TrimRight(f.buf.String(), "\n")
}

type formatter struct {
	buf     bytes.Buffer
	printer *syntax.Printer
}

func (f *formatter) nodeStr(node syntax.Node) string {
	var buf bytes.Buffer
	f.printer.Print(&buf, node)
	return strings.TrimRight(buf.String(), "\n")
}

// stmt renders one top-level statement, expanding a BinaryCmd chain
// (&&, ||, |) onto multiple lines when it has more than two elements or
// would otherwise overflow defaultMaxWidth; everything else is rendered with the underlying
// printer and left exactly as mvdan.cc/sh/v3 would print it.
func (f *formatter) stmt(s *syntax.Stmt) {
	bin, ok := s.Cmd.(*syntax.BinaryCmd)
	if !ok {
		f.buf.WriteString(f.nodeStr(s))
		return
	}
	f.binaryChain(bin)
}

type chainElem struct {
	op   string
	stmt *syntax.Stmt
}

func (f *formatter) binaryChain(cmd *syntax.BinaryCmd) {
	chain := flattenBinaryCmd(cmd)

	totalLen := 0
	for i, elem := range chain {
		if i > 0 {
			totalLen += 1 + len(elem.op) + 1
		}
		totalLen += len(f.nodeStr(elem.stmt))
	}

	if len(chain) <= 2 && totalLen <= defaultMaxWidth {
		for i, elem := range chain {
			if i > 0 {
				f.buf.WriteByte(' ')
				f.buf.WriteString(elem.op)
				f.buf.WriteByte(' ')
			}
			f.buf.WriteString(f.nodeStr(elem.stmt))
		}
		return
	}

	for i, elem := range chain {
		if i > 0 {
			f.buf.WriteString(" \\\n")
			f.buf.WriteString(strings.Repeat(" ", defaultIndent))
			f.buf.WriteString(elem.op)
			f.buf.WriteByte(' ')
		}
		f.buf.WriteString(f.nodeStr(elem.stmt))
	}
}

func flattenBinaryCmd(cmd *syntax.BinaryCmd) []chainElem {
	var chain []chainElem
	collectBinary(cmd, &chain)
	return chain
}

func collectBinary(cmd *syntax.BinaryCmd, chain *[]chainElem) {
	if leftBin, ok := cmd.X.Cmd.(*syntax.BinaryCmd); ok && isBareBinaryStmt(cmd.X) {
		collectBinary(leftBin, chain)
	} else {
		*chain = append(*chain, chainElem{stmt: cmd.X})
	}

	op := cmd.Op.String()

	if rightBin, ok := cmd.Y.Cmd.(*syntax.BinaryCmd); ok && isBareBinaryStmt(cmd.Y) {
		var rightChain []chainElem
		collectBinary(rightBin, &rightChain)
		if len(rightChain) > 0 {
			rightChain[0].op = op
			*chain = append(*chain, rightChain...)
		}
	} else {
		*chain = append(*chain, chainElem{op: op, stmt: cmd.Y})
	}
}

func isBareBinaryStmt(s *syntax.Stmt) bool {
	return !s.Negated && !s.Background && len(s.Redirs) == 0
}
