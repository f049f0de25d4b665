// Package token defines the lexical tokens produced by the lexer and
// consumed by the parser.
package token

import "fmt"

// Kind is the closed set of token kinds.
type Kind int

const (
	EOF Kind = iota

	// Punctuation
	LBrace
	RBrace
	LParen
	RParen
	Semi
	Comma
	Dot

	// Arithmetic
	Plus
	Minus
	Star
	Slash

	// Relational
	Lt
	Gt
	Le
	Ge
	EqEq
	NotEq

	// Logical
	AndAnd
	OrOr
	Not

	// Assignment
	Assign

	// Literals
	IntLit
	StringLit

	Ident     // lowercase-initial identifier
	ClassName // class-name-ish identifier (uppercase-initial)

	// Keywords
	KwClass
	KwIf
	KwElse
	KwWhile
	KwReadln
	KwPrintln
	KwReturn
	KwTrue
	KwFalse
	KwThis
	KwNew
	KwNull

	// Type keywords
	KwInt
	KwBool
	KwString
	KwVoid
)

var names = map[Kind]string{
	EOF: "EOF", LBrace: "{", RBrace: "}", LParen: "(", RParen: ")",
	Semi: ";", Comma: ",", Dot: ".",
	Plus: "+", Minus: "-", Star: "*", Slash: "/",
	Lt: "<", Gt: ">", Le: "<=", Ge: ">=", EqEq: "==", NotEq: "!=",
	AndAnd: "&&", OrOr: "||", Not: "!",
	Assign:    "=",
	IntLit:    "int-literal",
	StringLit: "string-literal",
	Ident:     "identifier",
	ClassName: "class-name",
	KwClass:   "class", KwIf: "if", KwElse: "else", KwWhile: "while",
	KwReadln: "readln", KwPrintln: "println", KwReturn: "return",
	KwTrue: "true", KwFalse: "false", KwThis: "this", KwNew: "new", KwNull: "null",
	KwInt: "Int", KwBool: "Bool", KwString: "String", KwVoid: "Void",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "?"
}

// Keywords maps a lowercased spelling to its reserved-word kind.
var Keywords = map[string]Kind{
	"class": KwClass, "if": KwIf, "else": KwElse, "while": KwWhile,
	"readln": KwReadln, "println": KwPrintln, "return": KwReturn,
	"true": KwTrue, "false": KwFalse, "this": KwThis, "new": KwNew, "null": KwNull,
}

// TypeKeywords maps the case-folded spelling of a type-or-class-name token
// to its type-keyword kind, when it is in fact one of the four reserved
// type names. Any other class-name-ish token stays a ClassName.
var TypeKeywords = map[string]Kind{
	"Int": KwInt, "Bool": KwBool, "String": KwString, "Void": KwVoid,
}

// Position locates a token in the source file.
type Position struct {
	File   string
	Row    int
	Col    int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Row, p.Col)
}

// Token is a single lexed token.
type Token struct {
	Kind Kind
	// Lit is the decoded literal spelling: identifier/class name text, or
	// the decoded contents of a string literal.
	Lit string
	// IVal holds the decoded value for IntLit tokens.
	IVal int
	Pos  Position
}

func (t Token) String() string {
	if t.Lit != "" {
		return fmt.Sprintf("%s(%q)", t.Kind, t.Lit)
	}
	return t.Kind.String()
}
