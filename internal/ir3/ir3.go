// Package ir3 defines JLite3, the flat three-address intermediate
// representation lowering produces and the backend consumes. Like the
// AST, each node family is a single tagged struct rather
// than an interface hierarchy.
package ir3

import "jlite.dev/jlitec/internal/types"

// Program is a whole lowered compilation unit: every class's field layout
// plus every method's flattened body, main's method first.
type Program struct {
	Classes []ClassData
	Methods []Method
}

// ClassData is one class's field declarations, in the declaration order
// that determines its heap layout.
type ClassData struct {
	Name   string
	Fields []VarDecl
}

// VarDecl names a typed slot: a class field, a method parameter, a method
// local, or a compiler-introduced temporary with a known type.
type VarDecl struct {
	Type types.JLiteType
	Name string
}

// Method is one lowered method body. Name is already mangled
// (lower.Mangle). Params has the receiver ("this") prepended as its
// first entry for every method except the program's entry point, which
// has no receiver.
type Method struct {
	Ret    types.JLiteType
	Name   string
	Params []VarDecl
	Locals []VarDecl
	Stmts  []Stmt
}
