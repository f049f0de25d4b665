// Package compiler wires the compilation stages together: lexing,
// parsing, static checking, IR3 lowering, and ARM emission. It is the
// single entry point cmd/jlitec calls: source text -> tokens -> (CST,
// AST) -> typed AST -> IR3 -> assembly text.
package compiler

import (
	"jlite.dev/jlitec/internal/ast"
	"jlite.dev/jlitec/internal/backend"
	"jlite.dev/jlitec/internal/check"
	"jlite.dev/jlitec/internal/compctx"
	"jlite.dev/jlitec/internal/diag"
	"jlite.dev/jlitec/internal/ir3"
	"jlite.dev/jlitec/internal/lexer"
	"jlite.dev/jlitec/internal/lower"
	"jlite.dev/jlitec/internal/parser"
	"jlite.dev/jlitec/internal/token"
)

// Result holds every intermediate artifact a caller might want, not just
// the final assembly text, so tools other than the CLI (tests, a future
// pretty-printer) can inspect a compilation without re-running it.
type Result struct {
	Cst *ast.CstNode
	Ast *ast.Program
	Asm []string
}

// Compile runs the full pipeline over src and returns a Result holding the
// CST, the AST and the generated assembly text as a sequence of lines.
// file is used only for diagnostic positions.
func Compile(src []byte, file string) (*Result, error) {
	lx := lexer.New(src, file)
	toks, err := lx.Tokenize()
	if err != nil {
		return nil, err
	}

	cst, prog, err := parser.ParseProgram(toks)
	if err != nil {
		return nil, err
	}

	ctx := compctx.New()
	desc, err := check.Check(prog, ctx)
	if err != nil {
		return nil, err
	}

	ir3prog, err := lower.Program(prog, desc, ctx)
	if err != nil {
		return nil, err
	}

	asm, err := emitGuarded(ir3prog, ctx)
	if err != nil {
		return nil, err
	}

	return &Result{Cst: cst, Ast: prog, Asm: asm}, nil
}

// emitGuarded calls backend.Emit behind a recover, converting any panic
// (an unanticipated shape the naive emitter's switches don't cover) into a
// diag.NotImplemented error instead of letting it cross the package
// boundary as an uncaught fault.
func emitGuarded(prog *ir3.Program, ctx *compctx.Context) (asm []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = diag.New(diag.NotImplemented, token.Position{}, "backend: internal error: %v", r)
		}
	}()
	return backend.Emit(prog, ctx)
}
