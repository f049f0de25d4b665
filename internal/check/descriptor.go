// Package check implements JLite's static checker: a ClassDescriptor built
// from the parsed AST, followed by per-method type checking against a
// TypeEnvironment.
package check

import (
	"jlite.dev/jlitec/internal/ast"
	"jlite.dev/jlitec/internal/diag"
	"jlite.dev/jlitec/internal/types"
)

// FieldInfo is one class field, in declaration order.
type FieldInfo struct {
	Name string
	Type types.JLiteType
}

// Param is one method parameter.
type Param struct {
	Name string
	Type types.JLiteType
}

// MethodSig is one class method's signature, annotated with the class that
// declares it (there is no inheritance, so Owner is always the class whose
// ClassInfo holds this MethodSig).
type MethodSig struct {
	Name   string
	Owner  string
	Params []Param
	Ret    types.JLiteType
}

// ClassInfo is one class's descriptor: its fields (which define object
// layout, in declaration order) and its methods.
type ClassInfo struct {
	Name    string
	Fields  []FieldInfo
	Methods []MethodSig

	fieldIndex  map[string]int
	methodIndex map[string]int
}

func newClassInfo(name string) *ClassInfo {
	return &ClassInfo{
		Name:        name,
		fieldIndex:  make(map[string]int),
		methodIndex: make(map[string]int),
	}
}

func (c *ClassInfo) addField(f FieldInfo) bool {
	if _, dup := c.fieldIndex[f.Name]; dup {
		return false
	}
	c.fieldIndex[f.Name] = len(c.Fields)
	c.Fields = append(c.Fields, f)
	return true
}

func (c *ClassInfo) addMethod(m MethodSig) bool {
	if _, dup := c.methodIndex[m.Name]; dup {
		return false
	}
	c.methodIndex[m.Name] = len(c.Methods)
	c.Methods = append(c.Methods, m)
	return true
}

// FieldByName looks up a field declared directly on this class.
func (c *ClassInfo) FieldByName(name string) (FieldInfo, bool) {
	i, ok := c.fieldIndex[name]
	if !ok {
		return FieldInfo{}, false
	}
	return c.Fields[i], true
}

// MethodByName looks up a method declared directly on this class.
func (c *ClassInfo) MethodByName(name string) (MethodSig, bool) {
	i, ok := c.methodIndex[name]
	if !ok {
		return MethodSig{}, false
	}
	return c.Methods[i], true
}

// Descriptor is the whole program's class table: the main class plus every
// auxiliary class, built once up front so checking can resolve any class
// name regardless of declaration order.
type Descriptor struct {
	MainClassName string
	Classes       []*ClassInfo

	byName map[string]*ClassInfo
}

// ByName looks up a class by name.
func (d *Descriptor) ByName(name string) (*ClassInfo, bool) {
	c, ok := d.byName[name]
	return c, ok
}

// BuildDescriptor walks the parsed program once, rejecting duplicate class,
// field, method, or parameter names.
func BuildDescriptor(prog *ast.Program) (*Descriptor, error) {
	d := &Descriptor{byName: make(map[string]*ClassInfo)}

	allClasses := append([]*ast.Node{prog.MainClass}, prog.Classes...)
	for _, cls := range allClasses {
		if _, dup := d.byName[cls.Name]; dup {
			return nil, diag.New(diag.StaticCheck, cls.Tok.Pos, "duplicate class name %q", cls.Name)
		}
		ci := newClassInfo(cls.Name)
		for _, f := range cls.Fields {
			if !ci.addField(FieldInfo{Name: f.Name, Type: f.DeclType}) {
				return nil, diag.New(diag.StaticCheck, f.Tok.Pos, "duplicate field name %q in class %q", f.Name, cls.Name)
			}
		}
		for _, m := range cls.Methods {
			sig, err := methodSigFromDecl(cls.Name, m)
			if err != nil {
				return nil, err
			}
			if !ci.addMethod(sig) {
				return nil, diag.New(diag.StaticCheck, m.Tok.Pos, "duplicate method name %q in class %q", m.Name, cls.Name)
			}
		}
		d.byName[cls.Name] = ci
		d.Classes = append(d.Classes, ci)
	}
	d.MainClassName = prog.MainClass.Name
	return d, nil
}

func methodSigFromDecl(owner string, m *ast.Node) (MethodSig, error) {
	sig := MethodSig{Name: m.Name, Owner: owner, Ret: m.DeclType}
	seen := make(map[string]bool)
	for _, p := range m.Nodes {
		if seen[p.Name] {
			return MethodSig{}, diag.New(diag.StaticCheck, p.Tok.Pos, "duplicate parameter name %q in method %q", p.Name, m.Name)
		}
		seen[p.Name] = true
		sig.Params = append(sig.Params, Param{Name: p.Name, Type: p.DeclType})
	}
	return sig, nil
}
