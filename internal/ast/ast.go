// Package ast defines the concrete and abstract syntax trees the parser
// builds in lockstep.
package ast

import (
	"jlite.dev/jlitec/internal/token"
	"jlite.dev/jlitec/internal/types"
)

// NodeKind is the closed set of AST node kinds.
type NodeKind int

const (
	NProgram NodeKind = iota
	NClassDecl
	NMethodDecl
	NVarDecl
	NParam
	NBlock

	// Statements
	NIfStmt
	NWhileStmt
	NReadlnStmt
	NPrintlnStmt
	NAssignStmt
	NCallStmt
	NReturnStmt

	// Expressions
	NBinaryExpr
	NUnaryExpr
	NIntLit
	NBoolLit
	NStringLit
	NThisExpr
	NNullExpr
	NIdentExpr
	NFieldAccess
	NMethodCall
	NNewExpr
)

// BinOp / UnOp name the operator of a NBinaryExpr / NUnaryExpr node.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpAnd
	OpOr
	OpLt
	OpGt
	OpLe
	OpGe
	OpEq
	OpNe
)

type UnOp int

const (
	OpNeg UnOp = iota // unary '-'
	OpNot             // unary '!'
)

// Node is the universal AST node. Which fields are populated
// is determined entirely by Kind; this mirrors the single-tagged-struct
// style used throughout this codebase's AST/IR node families instead of a
// class hierarchy with virtual dispatch, so adding a node kind is a
// compile-time-checked switch, not an interface to satisfy everywhere.
type Node struct {
	Kind NodeKind
	Tok  token.Token // token this node was parsed from, for diagnostics

	Name string // identifier / class name / method name payload
	IVal int     // NIntLit value
	BVal bool    // NBoolLit value
	SVal string  // NStringLit decoded value

	// StrLabel is the data-section label assigned to this specific
	// NStringLit occurrence during static checking (compctx.InternString).
	// Two textually identical literals at different source positions get
	// distinct labels; this field, not SVal, is what lowering/backend use
	// to address the right .data entry.
	StrLabel string

	BOp BinOp // NBinaryExpr
	UOp UnOp  // NUnaryExpr

	DeclType types.JLiteType // declared type: NVarDecl/NParam/NMethodDecl (return type)

	Left  *Node // binary/unary operand, field-access/call receiver
	Right *Node // binary operand, field-access field-name holder (Name used instead)

	Body *Node // NMethodDecl/NIfStmt/NWhileStmt body block; NBlock's own stmts live in Nodes

	// Nodes is the generic child-list slot: class decls (NProgram), fields+
	// methods (NClassDecl interleaved via separate slices below), params
	// (NMethodDecl), statements (NBlock), call/new arguments (NMethodCall).
	Nodes []*Node

	// Fields holds NClassDecl's field VarDecls, or NBlock's local VarDecls
	// (a class's field order defines object layout; a block's
	// local VarDecls simply precede its Nodes statements). Methods holds
	// only NClassDecl's MethodDecls. Kept distinct from Nodes so each
	// list's declaration order is independently preserved.
	Fields  []*Node
	Methods []*Node

	// Else is populated only on NIfStmt.
	Else *Node

	// ResolvedType is the checker-computed type of an expression node, or
	// (for a method-local NVarDecl) a copy of DeclType for convenience.
	ResolvedType types.JLiteType
	// ResolvedOwner is the class name owning the method matched for an
	// NMethodCall (used by lowering to mangle the call target), or the
	// class name of the object on the left of an NFieldAccess.
	ResolvedOwner string
}

// Program is the parsed unit: one main class plus zero or more auxiliary
// classes, each an NClassDecl node; the main class is held in its own
// field, apart from the auxiliary classes.
type Program struct {
	MainClass *Node // NClassDecl, Name == main class name, Fields empty
	Classes   []*Node
}
