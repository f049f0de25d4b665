package check

import "jlite.dev/jlitec/internal/types"

// Frame is one link of the type environment's frame chain: a class-level
// frame (this's fields and methods) with a method-level frame as its child
// (return type, params, and locals). Lookups walk the whole chain; the
// checker's duplicate-local check needs to know whether a name is bound in
// the innermost frame alone, so that check is exposed separately from the
// walking lookups.
type Frame struct {
	parent *Frame
	fields map[string]types.JLiteType
	msigs  map[string]MethodSig
	ret    types.JLiteType
	hasRet bool
}

// NewFrame returns a new, empty frame chained to parent (nil for the root).
func NewFrame(parent *Frame) *Frame {
	return &Frame{
		parent: parent,
		fields: make(map[string]types.JLiteType),
		msigs:  make(map[string]MethodSig),
	}
}

// SetField binds name to t in this frame only.
func (f *Frame) SetField(name string, t types.JLiteType) {
	f.fields[name] = t
}

// SetMsig binds a method signature in this frame only.
func (f *Frame) SetMsig(name string, sig MethodSig) {
	f.msigs[name] = sig
}

// SetReturnType records the enclosing method's return type on this frame.
func (f *Frame) SetReturnType(t types.JLiteType) {
	f.ret = t
	f.hasRet = true
}

// ReturnType walks up to the nearest frame carrying a return type (the
// enclosing method's frame).
func (f *Frame) ReturnType() (types.JLiteType, bool) {
	for fr := f; fr != nil; fr = fr.parent {
		if fr.hasRet {
			return fr.ret, true
		}
	}
	return types.JLiteType{}, false
}

// LookupField walks the whole frame chain for a field or local variable
// binding.
func (f *Frame) LookupField(name string) (types.JLiteType, bool) {
	for fr := f; fr != nil; fr = fr.parent {
		if t, ok := fr.fields[name]; ok {
			return t, true
		}
	}
	return types.JLiteType{}, false
}

// LookupMsig walks the whole frame chain for a method signature binding.
func (f *Frame) LookupMsig(name string) (MethodSig, bool) {
	for fr := f; fr != nil; fr = fr.parent {
		if s, ok := fr.msigs[name]; ok {
			return s, true
		}
	}
	return MethodSig{}, false
}

// InCurrentLocalEnv reports whether name is bound in this frame alone
// (ignoring parents). The checker uses this to reject a local variable
// whose name repeats a parameter or an earlier local of the same method.
func (f *Frame) InCurrentLocalEnv(name string) bool {
	_, ok := f.fields[name]
	return ok
}
