// Package backend lowers an ir3.Program into GNU-assembler ARM text:
// it computes per-method stack layouts and per-class
// field offsets, partitions each method body into basic blocks, and emits
// one naive ARM instruction sequence per IR3 statement.
package backend

import (
	"jlite.dev/jlitec/internal/ir3"
	"jlite.dev/jlitec/internal/orderedset"
	"jlite.dev/jlitec/internal/types"
)

// savedRegs are the callee-saved registers pushed in the prologue, in push
// order; their slots occupy the first 7 words below fp.
var savedRegs = []string{"_fp", "_lr", "_v1", "_v2", "_v3", "_v4", "_v5"}

// argRegs is the fixed argument-register order a call's operands load
// into, capping a call at 11 arguments.
var argRegs = []string{"a1", "a2", "a3", "a4", "v1", "v2", "v3", "v4", "v5", "v6", "v7"}

const slotSize = 4

// StackInfo is one named stack slot's layout.
type StackInfo struct {
	Name     string
	Type     types.JLiteType
	Size     int
	FPOffset int // positive distance below fp; emitted as a negated #imm
}

// MethodLayout is one method's full stack frame: every named slot (saved
// registers, params, locals, and every temporary ever assigned) plus the
// total frame size the prologue must reserve.
type MethodLayout struct {
	Name        string
	Slots       map[string]StackInfo
	order       *orderedset.Set[string]
	TotalOffset int
}

func newMethodLayout(name string) *MethodLayout {
	return &MethodLayout{Name: name, Slots: make(map[string]StackInfo), order: orderedset.New[string]()}
}

// Order returns every named slot in assignment order, the order simple
// code generation's callers rely on for deterministic output.
func (l *MethodLayout) Order() []string { return l.order.Values() }

// add assigns the next slot to name if it doesn't already have one
// (first-write wins).
func (l *MethodLayout) add(name string, t types.JLiteType) {
	if !l.order.Insert(name) {
		return
	}
	l.Slots[name] = StackInfo{Name: name, Type: t, Size: slotSize, FPOffset: l.TotalOffset}
	l.TotalOffset += slotSize
}

// Offset returns the fp-relative displacement (already negated) to load or
// store name's slot.
func (l *MethodLayout) Offset(name string) int {
	return -l.Slots[name].FPOffset
}

// Type returns name's declared type, used to resolve a field-access
// receiver's class.
func (l *MethodLayout) Type(name string) types.JLiteType {
	return l.Slots[name].Type
}

// BuildMethodLayout assigns stack slots in a fixed order: saved
// registers, then params, then locals, then every
// temporary in first-write order of appearance in the body.
func BuildMethodLayout(m ir3.Method) *MethodLayout {
	l := newMethodLayout(m.Name)
	for _, r := range savedRegs {
		l.add(r, types.JLiteType{})
	}
	for _, p := range m.Params {
		l.add(p.Name, p.Type)
	}
	for _, v := range m.Locals {
		l.add(v.Name, v.Type)
	}
	for _, s := range m.Stmts {
		if s.Kind == ir3.StmtAssign {
			l.add(s.AssignVar, s.AssignType)
		}
	}
	return l
}

// ClassLayout is one class's heap layout: each field's offset from the
// object's base pointer and the total allocation size.
//
// Offsets are assigned with a descending stride: field 0 at offset 0,
// field 1 at offset -4, and so on.
type ClassLayout struct {
	Name         string
	FieldOffsets map[string]int
	SizeBytes    int
}

// BuildClassLayout computes cd's field layout. A zero-field class is
// floored to one word so `malloc` is never called with a size of 0.
func BuildClassLayout(cd ir3.ClassData) *ClassLayout {
	cl := &ClassLayout{Name: cd.Name, FieldOffsets: make(map[string]int)}
	offset := 0
	for _, f := range cd.Fields {
		cl.FieldOffsets[f.Name] = offset
		offset -= slotSize
	}
	cl.SizeBytes = slotSize * len(cd.Fields)
	if cl.SizeBytes == 0 {
		cl.SizeBytes = slotSize
	}
	return cl
}

// SymbolTable holds every class's and method's layout, filled once up
// front from the whole IR3 program.
type SymbolTable struct {
	Classes map[string]*ClassLayout
	Methods map[string]*MethodLayout
}

// BuildSymbolTable walks prog once and computes every layout.
func BuildSymbolTable(prog *ir3.Program) *SymbolTable {
	st := &SymbolTable{
		Classes: make(map[string]*ClassLayout),
		Methods: make(map[string]*MethodLayout),
	}
	for _, cd := range prog.Classes {
		st.Classes[cd.Name] = BuildClassLayout(cd)
	}
	for _, m := range prog.Methods {
		st.Methods[m.Name] = BuildMethodLayout(m)
	}
	return st
}

// FieldOffset returns the byte offset of field on a variable of the given
// class; field offsets are purely a property of the class, not the
// method doing the access.
func (st *SymbolTable) FieldOffset(className, field string) int {
	return st.Classes[className].FieldOffsets[field]
}
