package check

import (
	"jlite.dev/jlitec/internal/ast"
	"jlite.dev/jlitec/internal/compctx"
	"jlite.dev/jlitec/internal/diag"
	"jlite.dev/jlitec/internal/types"
)

// Check performs the whole program's static check: descriptor construction
// followed by per-method type checking, annotating ResolvedType/
// ResolvedOwner on every expression node in place. String literals
// encountered along the way are interned into ctx so the backend's data
// section can be built without walking the AST again.
func Check(prog *ast.Program, ctx *compctx.Context) (*Descriptor, error) {
	desc, err := BuildDescriptor(prog)
	if err != nil {
		return nil, err
	}

	allClasses := append([]*ast.Node{prog.MainClass}, prog.Classes...)
	for _, cls := range allClasses {
		ci, _ := desc.ByName(cls.Name)
		classFrame := NewFrame(nil)
		classFrame.SetField("this", types.TClass(cls.Name))
		for _, f := range ci.Fields {
			classFrame.SetField(f.Name, f.Type)
		}
		for _, m := range ci.Methods {
			classFrame.SetMsig(m.Name, m)
		}
		for _, m := range cls.Methods {
			if err := checkMethod(m, classFrame, desc, ctx); err != nil {
				return nil, err
			}
		}
	}
	return desc, nil
}

func checkMethod(m *ast.Node, classFrame *Frame, desc *Descriptor, ctx *compctx.Context) error {
	mf := NewFrame(classFrame)
	mf.SetReturnType(m.DeclType)
	for _, p := range m.Nodes {
		mf.SetField(p.Name, p.DeclType)
	}
	body := m.Body
	for _, v := range body.Fields {
		if mf.InCurrentLocalEnv(v.Name) {
			return diag.New(diag.StaticCheck, v.Tok.Pos, "duplicate local/parameter name %q in method %q", v.Name, m.Name)
		}
		mf.SetField(v.Name, v.DeclType)
		v.ResolvedType = v.DeclType
	}
	bodyT, err := checkStmtList(body.Nodes, mf, desc, ctx)
	if err != nil {
		return err
	}
	// The method type-checks only when its body's type (the type of the
	// final statement) matches the declared return type.
	if !bodyT.Equal(m.DeclType) {
		return diag.New(diag.TypeCheck, m.Tok.Pos, "body of method %q has type %s, declared return type is %s", m.Name, bodyT, m.DeclType)
	}
	return nil
}

// checkStmt type-checks one statement and returns its type: Void for the
// simple statement forms, the common branch type for an if, the body's
// type for a while, the callee's return type for a call statement, and
// the returned expression's type for a return.
func checkStmt(n *ast.Node, f *Frame, desc *Descriptor, ctx *compctx.Context) (types.JLiteType, error) {
	switch n.Kind {
	case ast.NIfStmt:
		condT, err := checkExpr(n.Left, f, desc, ctx)
		if err != nil {
			return types.JLiteType{}, err
		}
		if condT.Kind != types.Bool {
			return types.JLiteType{}, typeErr(n.Left, "if condition must be Bool, got %s", condT)
		}
		thenT, err := checkStmtList(n.Body.Nodes, f, desc, ctx)
		if err != nil {
			return types.JLiteType{}, err
		}
		elseT, err := checkStmtList(n.Else.Nodes, f, desc, ctx)
		if err != nil {
			return types.JLiteType{}, err
		}
		if !thenT.Equal(elseT) {
			return types.JLiteType{}, typeErr(n, "if branches have types %s and %s", thenT, elseT)
		}
		return thenT, nil

	case ast.NWhileStmt:
		condT, err := checkExpr(n.Left, f, desc, ctx)
		if err != nil {
			return types.JLiteType{}, err
		}
		if condT.Kind != types.Bool {
			return types.JLiteType{}, typeErr(n.Left, "while condition must be Bool, got %s", condT)
		}
		return checkStmtList(n.Body.Nodes, f, desc, ctx)

	case ast.NReadlnStmt:
		t, ok := f.LookupField(n.Name)
		if !ok {
			return types.JLiteType{}, diag.New(diag.StaticCheck, n.Tok.Pos, "undeclared identifier %q", n.Name)
		}
		// readln's target may be Int, Bool, or String; the narrower
		// Int-only restriction is an emission-time limitation of the
		// backend, not a type error.
		if !t.IsPrintable() {
			return types.JLiteType{}, typeErr(n, "readln target must be Int, Bool, or String, got %s", t)
		}
		n.ResolvedType = t
		return types.TVoid(), nil

	case ast.NPrintlnStmt:
		t, err := checkExpr(n.Left, f, desc, ctx)
		if err != nil {
			return types.JLiteType{}, err
		}
		if !t.IsPrintable() {
			return types.JLiteType{}, typeErr(n.Left, "println argument must be Int, Bool, or String, got %s", t)
		}
		return types.TVoid(), nil

	case ast.NAssignStmt:
		lhsT, err := checkAssignTarget(n.Left, f, desc, ctx)
		if err != nil {
			return types.JLiteType{}, err
		}
		rhsT, err := checkExpr(n.Right, f, desc, ctx)
		if err != nil {
			return types.JLiteType{}, err
		}
		if !rhsT.Equal(lhsT) {
			return types.JLiteType{}, typeErr(n.Right, "cannot assign %s to %s", rhsT, lhsT)
		}
		return types.TVoid(), nil

	case ast.NCallStmt:
		return checkExpr(n.Left, f, desc, ctx)

	case ast.NReturnStmt:
		retT, _ := f.ReturnType()
		actual := types.TVoid()
		if n.Left != nil {
			var err error
			actual, err = checkExpr(n.Left, f, desc, ctx)
			if err != nil {
				return types.JLiteType{}, err
			}
		}
		if !actual.Equal(retT) {
			return types.JLiteType{}, typeErr(n, "return type %s does not match declared return type %s", actual, retT)
		}
		n.ResolvedType = actual
		return actual, nil

	default:
		return types.JLiteType{}, diag.New(diag.StaticCheck, n.Tok.Pos, "unexpected statement kind")
	}
}

// checkStmtList type-checks a statement sequence and returns the block's
// type: the last statement's type, or Void when the sequence is empty.
func checkStmtList(stmts []*ast.Node, f *Frame, desc *Descriptor, ctx *compctx.Context) (types.JLiteType, error) {
	blockT := types.TVoid()
	for _, s := range stmts {
		t, err := checkStmt(s, f, desc, ctx)
		if err != nil {
			return types.JLiteType{}, err
		}
		blockT = t
	}
	return blockT, nil
}

// checkAssignTarget type-checks an assignment's LHS, which may be a bare
// identifier or a field access, but never a method call.
func checkAssignTarget(n *ast.Node, f *Frame, desc *Descriptor, ctx *compctx.Context) (types.JLiteType, error) {
	return checkExpr(n, f, desc, ctx)
}

func checkExpr(n *ast.Node, f *Frame, desc *Descriptor, ctx *compctx.Context) (types.JLiteType, error) {
	switch n.Kind {
	case ast.NIntLit:
		n.ResolvedType = types.TInt()
	case ast.NBoolLit:
		n.ResolvedType = types.TBool()
	case ast.NStringLit:
		n.StrLabel = ctx.InternString(n.SVal)
		n.ResolvedType = types.TString()
	case ast.NThisExpr:
		t, ok := f.LookupField("this")
		if !ok {
			return types.JLiteType{}, diag.New(diag.StaticCheck, n.Tok.Pos, "'this' used outside a method")
		}
		n.ResolvedType = t
	case ast.NNullExpr:
		n.ResolvedType = types.TNull()
	case ast.NIdentExpr:
		t, ok := f.LookupField(n.Name)
		if !ok {
			return types.JLiteType{}, diag.New(diag.StaticCheck, n.Tok.Pos, "undeclared identifier %q", n.Name)
		}
		n.ResolvedType = t
	case ast.NFieldAccess:
		recvT, err := checkExpr(n.Left, f, desc, ctx)
		if err != nil {
			return types.JLiteType{}, err
		}
		if recvT.Kind != types.Class {
			return types.JLiteType{}, typeErr(n.Left, "field access on non-class type %s", recvT)
		}
		cls, ok := desc.ByName(recvT.ClassName)
		if !ok {
			return types.JLiteType{}, diag.New(diag.StaticCheck, n.Tok.Pos, "unknown class %q", recvT.ClassName)
		}
		fld, ok := cls.FieldByName(n.Name)
		if !ok {
			return types.JLiteType{}, diag.New(diag.StaticCheck, n.Tok.Pos, "class %q has no field %q", recvT.ClassName, n.Name)
		}
		n.ResolvedType = fld.Type
		n.ResolvedOwner = recvT.ClassName
	case ast.NMethodCall:
		return checkMethodCall(n, f, desc, ctx)
	case ast.NNewExpr:
		if _, ok := desc.ByName(n.Name); !ok {
			return types.JLiteType{}, diag.New(diag.StaticCheck, n.Tok.Pos, "unknown class %q", n.Name)
		}
		n.ResolvedType = types.TClass(n.Name)
	case ast.NUnaryExpr:
		return checkUnary(n, f, desc, ctx)
	case ast.NBinaryExpr:
		return checkBinary(n, f, desc, ctx)
	default:
		return types.JLiteType{}, diag.New(diag.StaticCheck, n.Tok.Pos, "unexpected expression kind")
	}
	return n.ResolvedType, nil
}

func checkUnary(n *ast.Node, f *Frame, desc *Descriptor, ctx *compctx.Context) (types.JLiteType, error) {
	t, err := checkExpr(n.Left, f, desc, ctx)
	if err != nil {
		return types.JLiteType{}, err
	}
	switch n.UOp {
	case ast.OpNeg:
		if t.Kind != types.Int {
			return types.JLiteType{}, typeErr(n.Left, "unary '-' requires Int, got %s", t)
		}
		n.ResolvedType = types.TInt()
	case ast.OpNot:
		if t.Kind != types.Bool {
			return types.JLiteType{}, typeErr(n.Left, "unary '!' requires Bool, got %s", t)
		}
		n.ResolvedType = types.TBool()
	}
	return n.ResolvedType, nil
}

func checkBinary(n *ast.Node, f *Frame, desc *Descriptor, ctx *compctx.Context) (types.JLiteType, error) {
	lt, err := checkExpr(n.Left, f, desc, ctx)
	if err != nil {
		return types.JLiteType{}, err
	}
	rt, err := checkExpr(n.Right, f, desc, ctx)
	if err != nil {
		return types.JLiteType{}, err
	}
	switch n.BOp {
	case ast.OpAdd:
		switch {
		case lt.Kind == types.Int && rt.Kind == types.Int:
			n.ResolvedType = types.TInt()
		case (lt.Kind == types.String || lt.Kind == types.Null) && (rt.Kind == types.String || rt.Kind == types.Null):
			n.ResolvedType = types.TString()
		default:
			return types.JLiteType{}, typeErr(n, "'+' requires Int+Int or String/null operands, got %s and %s", lt, rt)
		}
	case ast.OpSub, ast.OpMul, ast.OpDiv:
		if lt.Kind != types.Int || rt.Kind != types.Int {
			return types.JLiteType{}, typeErr(n, "arithmetic operator requires Int operands, got %s and %s", lt, rt)
		}
		n.ResolvedType = types.TInt()
	case ast.OpAnd, ast.OpOr:
		if lt.Kind != types.Bool || rt.Kind != types.Bool {
			return types.JLiteType{}, typeErr(n, "logical operator requires Bool operands, got %s and %s", lt, rt)
		}
		n.ResolvedType = types.TBool()
	case ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		if lt.Kind != types.Int || rt.Kind != types.Int {
			return types.JLiteType{}, typeErr(n, "relational operator requires Int operands, got %s and %s", lt, rt)
		}
		n.ResolvedType = types.TBool()
	case ast.OpEq, ast.OpNe:
		if !lt.Equal(rt) {
			return types.JLiteType{}, typeErr(n, "cannot compare %s and %s", lt, rt)
		}
		n.ResolvedType = types.TBool()
	default:
		return types.JLiteType{}, diag.New(diag.StaticCheck, n.Tok.Pos, "unexpected binary operator")
	}
	return n.ResolvedType, nil
}

// checkMethodCall resolves the call target, which is either a bare
// identifier (a local call, resolved against the current class's own
// methods) or a field access (a call on another object, resolved against
// that object's class's methods; there is no inheritance, so the class of
// the receiver is exactly the class that must declare the method.
func checkMethodCall(n *ast.Node, f *Frame, desc *Descriptor, ctx *compctx.Context) (types.JLiteType, error) {
	var sig MethodSig
	switch n.Left.Kind {
	case ast.NIdentExpr:
		s, ok := f.LookupMsig(n.Left.Name)
		if !ok {
			return types.JLiteType{}, diag.New(diag.StaticCheck, n.Left.Tok.Pos, "undeclared method %q", n.Left.Name)
		}
		sig = s
	case ast.NFieldAccess:
		recvT, err := checkExpr(n.Left.Left, f, desc, ctx)
		if err != nil {
			return types.JLiteType{}, err
		}
		if recvT.Kind != types.Class {
			return types.JLiteType{}, typeErr(n.Left.Left, "method call receiver must be a class instance, got %s", recvT)
		}
		cls, ok := desc.ByName(recvT.ClassName)
		if !ok {
			return types.JLiteType{}, diag.New(diag.StaticCheck, n.Left.Tok.Pos, "unknown class %q", recvT.ClassName)
		}
		s, ok := cls.MethodByName(n.Left.Name)
		if !ok {
			return types.JLiteType{}, diag.New(diag.StaticCheck, n.Left.Tok.Pos, "class %q has no method %q", recvT.ClassName, n.Left.Name)
		}
		sig = s
		n.Left.ResolvedType = recvT
		n.Left.ResolvedOwner = recvT.ClassName
	default:
		return types.JLiteType{}, diag.New(diag.StaticCheck, n.Left.Tok.Pos, "invalid method call target")
	}

	if len(n.Nodes) != len(sig.Params) {
		return types.JLiteType{}, diag.New(diag.StaticCheck, n.Tok.Pos, "method %q expects %d arguments, got %d", sig.Name, len(sig.Params), len(n.Nodes))
	}
	for i, arg := range n.Nodes {
		at, err := checkExpr(arg, f, desc, ctx)
		if err != nil {
			return types.JLiteType{}, err
		}
		if !at.Equal(sig.Params[i].Type) {
			return types.JLiteType{}, typeErr(arg, "argument %d of %q: expected %s, got %s", i+1, sig.Name, sig.Params[i].Type, at)
		}
	}
	n.ResolvedType = sig.Ret
	n.ResolvedOwner = sig.Owner
	return sig.Ret, nil
}

func typeErr(n *ast.Node, format string, args ...any) error {
	return diag.New(diag.TypeCheck, n.Tok.Pos, format, args...)
}
