// Package lower implements IR3 lowering, the AST-to-three-address-code
// pass. It walks a type-checked AST (every
// expression node already carries its ResolvedType/ResolvedOwner from
// internal/check) and produces a flat ir3.Program, minting fresh labels
// and temporaries from a shared compctx.Context.
package lower

import (
	"fmt"

	"jlite.dev/jlitec/internal/ast"
	"jlite.dev/jlitec/internal/check"
	"jlite.dev/jlitec/internal/compctx"
	"jlite.dev/jlitec/internal/diag"
	"jlite.dev/jlitec/internal/ir3"
	"jlite.dev/jlitec/internal/types"
)

// Mangle returns a method's link-time name. The one belonging to the main
// class's main method is rewritten to plain "main" by the backend's
// postprocessing step, not here.
func Mangle(owner, method string) string {
	return fmt.Sprintf("_%s_%s", owner, method)
}

// Program lowers a fully checked program into IR3.
func Program(prog *ast.Program, desc *check.Descriptor, ctx *compctx.Context) (*ir3.Program, error) {
	out := &ir3.Program{}

	allClasses := append([]*ast.Node{prog.MainClass}, prog.Classes...)
	for _, cls := range allClasses {
		ci, _ := desc.ByName(cls.Name)
		cd := ir3.ClassData{Name: ci.Name}
		for _, f := range ci.Fields {
			cd.Fields = append(cd.Fields, ir3.VarDecl{Type: f.Type, Name: f.Name})
		}
		out.Classes = append(out.Classes, cd)

		isMainClass := cls.Name == desc.MainClassName
		for _, m := range cls.Methods {
			// Only the entry point itself goes without a receiver; any
			// other method of the main class takes `this` like the rest.
			isEntry := isMainClass && m.Name == "main"
			method, err := lowerMethod(cls.Name, m, isEntry, ctx)
			if err != nil {
				return nil, err
			}
			out.Methods = append(out.Methods, method)
		}
	}
	return out, nil
}

// mctx carries the per-method lowering state: the shared fresh-name
// context, the current class (for implicit-field and local-call
// resolution), and the set of names bound as a parameter or local in this
// method (everything else that resolves as an identifier is a field of
// the current class, reached implicitly through `this`).
type mctx struct {
	ctx       *compctx.Context
	className string
	locals    map[string]bool
}

func (m *mctx) isLocal(name string) bool { return m.locals[name] }

func lowerMethod(className string, m *ast.Node, isMain bool, ctx *compctx.Context) (ir3.Method, error) {
	mc := &mctx{ctx: ctx, className: className, locals: make(map[string]bool)}

	var params []ir3.VarDecl
	if !isMain {
		params = append(params, ir3.VarDecl{Type: types.TClass(className), Name: "this"})
		mc.locals["this"] = true
	}
	for _, p := range m.Nodes {
		params = append(params, ir3.VarDecl{Type: p.DeclType, Name: p.Name})
		mc.locals[p.Name] = true
	}

	var locals []ir3.VarDecl
	for _, v := range m.Body.Fields {
		locals = append(locals, ir3.VarDecl{Type: v.DeclType, Name: v.Name})
		mc.locals[v.Name] = true
	}

	var stmts []ir3.Stmt
	for _, s := range m.Body.Nodes {
		code, err := lowerStmt(s, mc)
		if err != nil {
			return ir3.Method{}, err
		}
		stmts = append(stmts, code...)
	}

	// The entry point keeps its mangled name through IR3; the literal
	// rewrite to "main" happens in the backend postprocessing pass.
	name := Mangle(className, m.Name)
	return ir3.Method{Ret: m.DeclType, Name: name, Params: params, Locals: locals, Stmts: stmts}, nil
}

func lowerStmtList(stmts []*ast.Node, mc *mctx) ([]ir3.Stmt, error) {
	var out []ir3.Stmt
	for _, s := range stmts {
		code, err := lowerStmt(s, mc)
		if err != nil {
			return nil, err
		}
		out = append(out, code...)
	}
	return out, nil
}

func lowerStmt(n *ast.Node, mc *mctx) ([]ir3.Stmt, error) {
	switch n.Kind {
	case ast.NIfStmt:
		return lowerIf(n, mc)
	case ast.NWhileStmt:
		return lowerWhile(n, mc)
	case ast.NReadlnStmt:
		return []ir3.Stmt{ir3.ReadlnStmt(n.Name)}, nil
	case ast.NPrintlnStmt:
		code, v, err := lowerExpr(n.Left, mc)
		if err != nil {
			return nil, err
		}
		return append(code, ir3.PrintlnStmt(v)), nil
	case ast.NAssignStmt:
		return lowerAssign(n, mc)
	case ast.NCallStmt:
		// Free-standing method call: emit the expression form and discard
		// the result.
		code, _, err := lowerExpr(n.Left, mc)
		return code, err
	case ast.NReturnStmt:
		return lowerReturn(n, mc)
	default:
		return nil, diag.New(diag.NotImplemented, n.Tok.Pos, "lowering: unexpected statement kind")
	}
}

// if (b) { s1 } else { s2 }:
//
//	<code for b>
//	if (bVal) goto LTrue;
//	<code for s2>
//	goto LNext;
//	LTrue:
//	<code for s1>
//	LNext:
func lowerIf(n *ast.Node, mc *mctx) ([]ir3.Stmt, error) {
	condCode, condIdc, err := lowerExpr(n.Left, mc)
	if err != nil {
		return nil, err
	}
	condVar, matCode := materialize(condIdc, types.TBool(), mc)
	thenCode, err := lowerStmtList(n.Body.Nodes, mc)
	if err != nil {
		return nil, err
	}
	elseCode, err := lowerStmtList(n.Else.Nodes, mc)
	if err != nil {
		return nil, err
	}

	lTrue := mc.ctx.NewLabel()
	lNext := mc.ctx.NewLabel()

	var out []ir3.Stmt
	out = append(out, condCode...)
	out = append(out, matCode...)
	out = append(out, ir3.IfGotoStmt(condVar, lTrue))
	out = append(out, elseCode...)
	out = append(out, ir3.GotoStmt(lNext))
	out = append(out, ir3.LabelStmt(lTrue))
	out = append(out, thenCode...)
	out = append(out, ir3.LabelStmt(lNext))
	return out, nil
}

// while (b) { s }:
//
//	LBegin:
//	<code for b>
//	if (bVal) goto LTrue;
//	goto LNext;
//	LTrue:
//	<code for s>
//	goto LBegin;
//	LNext:
func lowerWhile(n *ast.Node, mc *mctx) ([]ir3.Stmt, error) {
	lBegin := mc.ctx.NewLabel()
	lTrue := mc.ctx.NewLabel()
	lNext := mc.ctx.NewLabel()

	condCode, condIdc, err := lowerExpr(n.Left, mc)
	if err != nil {
		return nil, err
	}
	condVar, matCode := materialize(condIdc, types.TBool(), mc)
	bodyCode, err := lowerStmtList(n.Body.Nodes, mc)
	if err != nil {
		return nil, err
	}

	var out []ir3.Stmt
	out = append(out, ir3.LabelStmt(lBegin))
	out = append(out, condCode...)
	out = append(out, matCode...)
	out = append(out, ir3.IfGotoStmt(condVar, lTrue))
	out = append(out, ir3.GotoStmt(lNext))
	out = append(out, ir3.LabelStmt(lTrue))
	out = append(out, bodyCode...)
	out = append(out, ir3.GotoStmt(lBegin))
	out = append(out, ir3.LabelStmt(lNext))
	return out, nil
}

func lowerAssign(n *ast.Node, mc *mctx) ([]ir3.Stmt, error) {
	lhs := n.Left
	rhs := n.Right

	if lhs.Kind == ast.NFieldAccess {
		recvCode, recvIdc, err := lowerExpr(lhs.Left, mc)
		if err != nil {
			return nil, err
		}
		recvVar, recvMat := materialize(recvIdc, lhs.Left.ResolvedType, mc)
		rhsCode, rhsIdc, err := lowerExpr(rhs, mc)
		if err != nil {
			return nil, err
		}
		var out []ir3.Stmt
		out = append(out, recvCode...)
		out = append(out, recvMat...)
		out = append(out, rhsCode...)
		out = append(out, ir3.FieldAssignStmt(recvVar, lhs.Name, rhsIdc))
		return out, nil
	}

	if lhs.Kind != ast.NIdentExpr {
		return nil, diag.New(diag.NotImplemented, lhs.Tok.Pos, "lowering: invalid assignment target")
	}

	if mc.isLocal(lhs.Name) {
		if rhs.Kind == ast.NNewExpr {
			return []ir3.Stmt{ir3.AssignStmt(lhs.Name, ir3.NewExp(rhs.Name), lhs.ResolvedType)}, nil
		}
		rhsCode, rhsIdc, err := lowerExpr(rhs, mc)
		if err != nil {
			return nil, err
		}
		return append(rhsCode, ir3.AssignStmt(lhs.Name, ir3.IdcExp(rhsIdc), lhs.ResolvedType)), nil
	}

	// lhs is a bare identifier that is not a local/param: it names an
	// instance field, implicitly `this.<name>`.
	rhsCode, rhsIdc, err := lowerExpr(rhs, mc)
	if err != nil {
		return nil, err
	}
	return append(rhsCode, ir3.FieldAssignStmt("this", lhs.Name, rhsIdc)), nil
}

func lowerReturn(n *ast.Node, mc *mctx) ([]ir3.Stmt, error) {
	if n.Left == nil {
		return []ir3.Stmt{ir3.ReturnStmt("", false)}, nil
	}
	code, idc, err := lowerExpr(n.Left, mc)
	if err != nil {
		return nil, err
	}
	// The returned temporary's declared type travels with it via the
	// Assign that produced it (or, for a bare literal, via the materialize()
	// call below; a bare identifier is already a declared param or local);
	// nothing further needs recording here.
	retVar, matCode := materialize(idc, n.Left.ResolvedType, mc)
	var out []ir3.Stmt
	out = append(out, code...)
	out = append(out, matCode...)
	out = append(out, ir3.ReturnStmt(retVar, true))
	return out, nil
}

// materialize ensures idc names an addressable slot, emitting `t = idc` for
// a bare literal so statements that require a variable (IfGoto's tested
// temp, Return's result, a field assignment's receiver) always have one.
func materialize(idc ir3.Idc, t types.JLiteType, mc *mctx) (string, []ir3.Stmt) {
	if name, ok := idc.VarName(); ok {
		return name, nil
	}
	tmp := mc.ctx.NewTemp()
	return tmp, []ir3.Stmt{ir3.AssignStmt(tmp, ir3.IdcExp(idc), t)}
}

// lowerExpr lowers e to a (code, result) pair: code is the list of IR3
// statements that must run before result is valid, and result is either a
// bare name or a literal constant. Composite expressions
// always bind their value into a fresh temporary; leaves produce no code.
func lowerExpr(n *ast.Node, mc *mctx) ([]ir3.Stmt, ir3.Idc, error) {
	switch n.Kind {
	case ast.NIntLit:
		return nil, ir3.IntConst(n.IVal), nil
	case ast.NBoolLit:
		return nil, ir3.BoolConst(n.BVal), nil
	case ast.NStringLit:
		return nil, ir3.StrConst(n.SVal, n.StrLabel), nil
	case ast.NNullExpr:
		return nil, ir3.NullConst(), nil
	case ast.NThisExpr:
		return nil, ir3.Var("this"), nil
	case ast.NIdentExpr:
		return lowerIdent(n, mc)
	case ast.NFieldAccess:
		return lowerFieldAccess(n, mc)
	case ast.NMethodCall:
		return lowerMethodCall(n, mc)
	case ast.NNewExpr:
		tmp := mc.ctx.NewTemp()
		return []ir3.Stmt{ir3.AssignStmt(tmp, ir3.NewExp(n.Name), n.ResolvedType)}, ir3.Var(tmp), nil
	case ast.NUnaryExpr:
		return lowerUnary(n, mc)
	case ast.NBinaryExpr:
		return lowerBinary(n, mc)
	default:
		return nil, ir3.Idc{}, diag.New(diag.NotImplemented, n.Tok.Pos, "lowering: unexpected expression kind")
	}
}

func lowerIdent(n *ast.Node, mc *mctx) ([]ir3.Stmt, ir3.Idc, error) {
	if mc.isLocal(n.Name) {
		return nil, ir3.Var(n.Name), nil
	}
	// Not bound locally: it is a field of the current class, read through
	// an implicit `this`.
	tmp := mc.ctx.NewTemp()
	code := []ir3.Stmt{ir3.AssignStmt(tmp, ir3.FieldAccExp("this", n.Name), n.ResolvedType)}
	return code, ir3.Var(tmp), nil
}

func lowerFieldAccess(n *ast.Node, mc *mctx) ([]ir3.Stmt, ir3.Idc, error) {
	recvCode, recvIdc, err := lowerExpr(n.Left, mc)
	if err != nil {
		return nil, ir3.Idc{}, err
	}
	recvVar, matCode := materialize(recvIdc, n.Left.ResolvedType, mc)
	tmp := mc.ctx.NewTemp()
	var code []ir3.Stmt
	code = append(code, recvCode...)
	code = append(code, matCode...)
	code = append(code, ir3.AssignStmt(tmp, ir3.FieldAccExp(recvVar, n.Name), n.ResolvedType))
	return code, ir3.Var(tmp), nil
}

func lowerMethodCall(n *ast.Node, mc *mctx) ([]ir3.Stmt, ir3.Idc, error) {
	mangled := Mangle(n.ResolvedOwner, n.Name)

	var code []ir3.Stmt
	var args []ir3.Idc
	if n.Left.Kind == ast.NIdentExpr {
		// A bare-identifier call target is a local call: the current
		// method's own `this` is passed as the receiver implicitly.
		args = append(args, ir3.Var("this"))
	} else {
		recvCode, recvIdc, err := lowerExpr(n.Left.Left, mc)
		if err != nil {
			return nil, ir3.Idc{}, err
		}
		code = append(code, recvCode...)
		args = append(args, recvIdc)
	}
	for _, a := range n.Nodes {
		argCode, argIdc, err := lowerExpr(a, mc)
		if err != nil {
			return nil, ir3.Idc{}, err
		}
		code = append(code, argCode...)
		args = append(args, argIdc)
	}

	callExp := ir3.CallExp(mangled, args)
	if n.ResolvedType.Kind == types.Void {
		code = append(code, ir3.CallStmtOf(callExp))
		return code, ir3.Idc{}, nil
	}
	tmp := mc.ctx.NewTemp()
	code = append(code, ir3.AssignStmt(tmp, callExp, n.ResolvedType))
	return code, ir3.Var(tmp), nil
}

func lowerUnary(n *ast.Node, mc *mctx) ([]ir3.Stmt, ir3.Idc, error) {
	code, operand, err := lowerExpr(n.Left, mc)
	if err != nil {
		return nil, ir3.Idc{}, err
	}
	var op ir3.UOp
	switch n.UOp {
	case ast.OpNeg:
		op = ir3.UNegative
	case ast.OpNot:
		op = ir3.UComplement
	}
	tmp := mc.ctx.NewTemp()
	code = append(code, ir3.AssignStmt(tmp, ir3.UopExp(op, operand), n.ResolvedType))
	return code, ir3.Var(tmp), nil
}

func lowerBinary(n *ast.Node, mc *mctx) ([]ir3.Stmt, ir3.Idc, error) {
	if n.BOp == ast.OpAdd && n.ResolvedType.Kind == types.String {
		return nil, ir3.Idc{}, diag.New(diag.NotImplemented, n.Tok.Pos,
			"string concatenation is not supported at lowering time")
	}

	lCode, lIdc, err := lowerExpr(n.Left, mc)
	if err != nil {
		return nil, ir3.Idc{}, err
	}
	rCode, rIdc, err := lowerExpr(n.Right, mc)
	if err != nil {
		return nil, ir3.Idc{}, err
	}
	var code []ir3.Stmt
	code = append(code, lCode...)
	code = append(code, rCode...)

	tmp := mc.ctx.NewTemp()
	if relOp, ok := relOpOf(n.BOp); ok {
		code = append(code, ir3.AssignStmt(tmp, ir3.RelopExp(lIdc, relOp, rIdc), n.ResolvedType))
	} else {
		code = append(code, ir3.AssignStmt(tmp, ir3.BopExp(lIdc, bOpOf(n.BOp), rIdc), n.ResolvedType))
	}
	return code, ir3.Var(tmp), nil
}

func relOpOf(op ast.BinOp) (ir3.RelOp, bool) {
	switch op {
	case ast.OpLt:
		return ir3.RelLt, true
	case ast.OpGt:
		return ir3.RelGt, true
	case ast.OpLe:
		return ir3.RelLe, true
	case ast.OpGe:
		return ir3.RelGe, true
	case ast.OpEq:
		return ir3.RelEq, true
	case ast.OpNe:
		return ir3.RelNe, true
	default:
		return 0, false
	}
}

func bOpOf(op ast.BinOp) ir3.BOp {
	switch op {
	case ast.OpAnd:
		return ir3.BAnd
	case ast.OpOr:
		return ir3.BOr
	case ast.OpMul:
		return ir3.BMul
	case ast.OpDiv:
		return ir3.BDiv
	case ast.OpAdd:
		return ir3.BPlus
	case ast.OpSub:
		return ir3.BMinus
	default:
		return 0
	}
}
