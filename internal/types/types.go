// Package types implements JLite's closed type system.
package types

// Kind is the closed set of JLite type variants.
type Kind int

const (
	Int Kind = iota
	Bool
	String
	Void
	Class
	Null
)

// JLiteType is a closed sum: Int | Bool | String | Void | Class(name) | Null.
type JLiteType struct {
	Kind      Kind
	ClassName string // populated only when Kind == Class
}

func TInt() JLiteType    { return JLiteType{Kind: Int} }
func TBool() JLiteType   { return JLiteType{Kind: Bool} }
func TString() JLiteType { return JLiteType{Kind: String} }
func TVoid() JLiteType   { return JLiteType{Kind: Void} }
func TNull() JLiteType   { return JLiteType{Kind: Null} }
func TClass(name string) JLiteType {
	return JLiteType{Kind: Class, ClassName: name}
}

// Equal is JLite type equality: reflexive per variant, with
// two relaxations (String~Null, Class(x)~Null) and otherwise strict;
// notably Class(x) is NOT equal to Class(y) for x != y (no inheritance).
func (t JLiteType) Equal(o JLiteType) bool {
	if t.Kind == Null && (o.Kind == String || o.Kind == Class) {
		return true
	}
	if o.Kind == Null && (t.Kind == String || t.Kind == Class) {
		return true
	}
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind == Class {
		return t.ClassName == o.ClassName
	}
	return true
}

// IsPrintable reports whether a value of this type may be passed to
// println/readln (Int, Bool, String).
func (t JLiteType) IsPrintable() bool {
	return t.Kind == Int || t.Kind == Bool || t.Kind == String
}

func (t JLiteType) String() string {
	switch t.Kind {
	case Int:
		return "Int"
	case Bool:
		return "Bool"
	case String:
		return "String"
	case Void:
		return "Void"
	case Null:
		return "null"
	case Class:
		return t.ClassName
	default:
		return "?"
	}
}
