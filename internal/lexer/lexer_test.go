package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jlite.dev/jlitec/internal/diag"
	"jlite.dev/jlitec/internal/lexer"
	"jlite.dev/jlitec/internal/token"
)

func mustLex(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := lexer.New([]byte(src), "t.j").Tokenize()
	require.NoError(t, err)
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestLexSmallProgram(t *testing.T) {
	toks := mustLex(t, `class Main { Void main() { println(1); } }`)
	want := []token.Kind{
		token.KwClass, token.ClassName, token.LBrace,
		token.KwVoid, token.Ident, token.LParen, token.RParen,
		token.LBrace, token.KwPrintln, token.LParen, token.IntLit,
		token.RParen, token.Semi, token.RBrace, token.RBrace, token.EOF,
	}
	assert.Equal(t, want, kinds(toks))
}

func TestLexCaseFolding(t *testing.T) {
	toks := mustLex(t, "FooBar fooBAR INT int")
	require.Len(t, toks, 5)
	assert.Equal(t, token.ClassName, toks[0].Kind)
	assert.Equal(t, "Foobar", toks[0].Lit)
	assert.Equal(t, token.Ident, toks[1].Kind)
	assert.Equal(t, "foobar", toks[1].Lit)
	// "INT" folds to "Int", which is reserved as a type keyword.
	assert.Equal(t, token.KwInt, toks[2].Kind)
	// "int" is lowercase-initial, so it stays a plain identifier.
	assert.Equal(t, token.Ident, toks[3].Kind)
	assert.Equal(t, "int", toks[3].Lit)
}

func TestLexStringEscapeDecoding(t *testing.T) {
	// "a\n\x41" decodes to the value "a\nA".
	toks := mustLex(t, `"a\n\x41"`)
	require.Equal(t, token.StringLit, toks[0].Kind)
	assert.Equal(t, "a\nA", toks[0].Lit)
}

func TestLexDecimalEscape(t *testing.T) {
	toks := mustLex(t, `"\065"`)
	require.Equal(t, token.StringLit, toks[0].Kind)
	assert.Equal(t, "A", toks[0].Lit)
}

func TestLexSimpleEscapes(t *testing.T) {
	toks := mustLex(t, `"t\tb\bq\"s\\"`)
	require.Equal(t, token.StringLit, toks[0].Kind)
	assert.Equal(t, "t\tb\bq\"s\\", toks[0].Lit)
}

func TestLexEscapeOrdinalTooLarge(t *testing.T) {
	_, err := lexer.New([]byte(`"\x80"`), "t.j").Tokenize()
	require.Error(t, err)
	var derr *diag.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, diag.IllegalEscape, derr.Kind)
}

func TestLexUnknownEscapeRejected(t *testing.T) {
	_, err := lexer.New([]byte(`"\q"`), "t.j").Tokenize()
	require.Error(t, err)
	var derr *diag.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, diag.IllegalEscape, derr.Kind)
}

func TestLexNewlineInStringRejected(t *testing.T) {
	_, err := lexer.New([]byte("\"ab\ncd\""), "t.j").Tokenize()
	require.Error(t, err)
	var derr *diag.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, diag.InvalidSyntax, derr.Kind)
}

func TestLexUnterminatedBlockComment(t *testing.T) {
	_, err := lexer.New([]byte("/* never closed"), "t.j").Tokenize()
	require.Error(t, err)
	var derr *diag.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, diag.InvalidSyntax, derr.Kind)
}

func TestLexCommentsSkipped(t *testing.T) {
	toks := mustLex(t, "a // to end of line\nb /* and\nacross lines */ c")
	assert.Equal(t, []token.Kind{token.Ident, token.Ident, token.Ident, token.EOF}, kinds(toks))
}

func TestLexTerminalLineCommentWithoutNewline(t *testing.T) {
	toks := mustLex(t, "x // no trailing newline")
	assert.Equal(t, []token.Kind{token.Ident, token.EOF}, kinds(toks))
}

func TestLexBlockCommentDoesNotNest(t *testing.T) {
	// The first */ closes the comment; the rest must lex as tokens.
	toks := mustLex(t, "/* /* */ x")
	assert.Equal(t, []token.Kind{token.Ident, token.EOF}, kinds(toks))
}

func TestLexTwoCharOperators(t *testing.T) {
	toks := mustLex(t, "< <= > >= == != = ! && ||")
	want := []token.Kind{
		token.Lt, token.Le, token.Gt, token.Ge, token.EqEq, token.NotEq,
		token.Assign, token.Not, token.AndAnd, token.OrOr, token.EOF,
	}
	assert.Equal(t, want, kinds(toks))
}

func TestLexLoneAmpersandRejected(t *testing.T) {
	_, err := lexer.New([]byte("a & b"), "t.j").Tokenize()
	require.Error(t, err)
	var derr *diag.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, diag.InvalidSyntax, derr.Kind)
}

func TestLexIllegalCharacter(t *testing.T) {
	_, err := lexer.New([]byte("a @ b"), "t.j").Tokenize()
	require.Error(t, err)
	var derr *diag.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, diag.IllegalToken, derr.Kind)
}

func TestLexIntegerValue(t *testing.T) {
	toks := mustLex(t, "0 7 12345")
	require.Len(t, toks, 4)
	assert.Equal(t, 0, toks[0].IVal)
	assert.Equal(t, 7, toks[1].IVal)
	assert.Equal(t, 12345, toks[2].IVal)
}

func TestLexPositions(t *testing.T) {
	toks := mustLex(t, "a\n  b")
	require.Len(t, toks, 3)
	assert.Equal(t, 1, toks[0].Pos.Row)
	assert.Equal(t, 1, toks[0].Pos.Col)
	assert.Equal(t, 2, toks[1].Pos.Row)
	assert.Equal(t, 3, toks[1].Pos.Col)
	assert.Equal(t, "t.j", toks[0].Pos.File)
}
