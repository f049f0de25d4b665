package backend

import (
	"fmt"
	"strings"

	"jlite.dev/jlitec/internal/compctx"
	"jlite.dev/jlitec/internal/diag"
	"jlite.dev/jlitec/internal/ir3"
	"jlite.dev/jlitec/internal/token"
	"jlite.dev/jlitec/internal/types"
)

// mainMangledName is the literal mangled name of the program's entry
// point, postprocessed to "main" as the very last step.
const mainMangledName = "_Main_main"

// Emit lowers prog to GNU-assembler ARM text. ctx supplies the interned
// string-literal table built during static checking.
func Emit(prog *ir3.Program, ctx *compctx.Context) ([]string, error) {
	st := BuildSymbolTable(prog)

	var out []string
	out = append(out, ".data")
	out = append(out, "IntegerFormat:")
	out = append(out, `.asciz "%i"`)
	for _, lit := range ctx.StringLiterals() {
		out = append(out, lit.Label+":")
		out = append(out, fmt.Sprintf(".asciz \"%s\"", escapeAsciz(lit.Value)))
	}
	out = append(out, "")
	out = append(out, ".text")
	out = append(out, ".global main")
	out = append(out, ".type main, %function")

	var mainExit []string
	for i, m := range prog.Methods {
		out = append(out, "")
		layout := st.Methods[m.Name]

		out = append(out, m.Name+":")
		out = append(out, "stmfd sp!,{fp,lr,v1,v2,v3,v4,v5}")
		out = append(out, "add fp,sp,#24")
		out = append(out, fmt.Sprintf("sub sp,fp,#%d", layout.TotalOffset))

		if len(m.Params) > len(argRegs) {
			return nil, diag.New(diag.NotImplemented, token.Position{}, "method %q has %d parameters, more than the %d supported", m.Name, len(m.Params), len(argRegs))
		}
		for idx, p := range m.Params {
			out = append(out, fmt.Sprintf("str %s,[fp,#%d]", argRegs[idx], layout.Offset(p.Name)))
		}

		exitLabel := m.Name + "exit"
		g := BuildFlowGraph(m)
		body, err := emitBody(g, st, layout, m.Name, exitLabel)
		if err != nil {
			return nil, err
		}
		out = append(out, body...)
		out = append(out, "b "+exitLabel)

		epilogue := []string{"", exitLabel + ":", "sub sp,fp,#24", "ldmfd sp!,{fp,pc,v1,v2,v3,v4,v5}"}
		if i == 0 {
			mainExit = epilogue
		} else {
			out = append(out, epilogue...)
		}
	}
	out = append(out, mainExit...)
	out = append(out, "")

	return postprocess(out), nil
}

func postprocess(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.ReplaceAll(l, mainMangledName, "main")
	}
	return out
}

func escapeAsciz(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func emitBody(g *FlowGraph, st *SymbolTable, layout *MethodLayout, methodName, exitLabel string) ([]string, error) {
	var out []string
	for _, blk := range g.BlocksAscending() {
		for _, s := range blk.Stmts {
			lines, err := emitStmt(s, st, layout, methodName, exitLabel)
			if err != nil {
				return nil, err
			}
			out = append(out, lines...)
		}
	}
	return out, nil
}

func fpOff(layout *MethodLayout, name string) string {
	return fmt.Sprintf("[fp,#%d]", layout.Offset(name))
}

func emitStmt(s ir3.Stmt, st *SymbolTable, layout *MethodLayout, methodName, exitLabel string) ([]string, error) {
	switch s.Kind {
	case ir3.StmtLabel:
		return []string{"", s.Label + ":"}, nil

	case ir3.StmtIfGoto:
		return []string{
			fmt.Sprintf("ldr a1,%s", fpOff(layout, s.CondVar)),
			"cmp a1,#1",
			"beq " + s.Label,
		}, nil

	case ir3.StmtGoto:
		return []string{"b " + s.Label}, nil

	case ir3.StmtReadln:
		// The checker accepts Int/Bool/String readln targets, but this
		// naive emitter only knows the scanf "%i" format; anything else is
		// an explicit emission-time error rather than a silent miscompile.
		if t := layout.Type(s.ReadlnVar); t.Kind != types.Int {
			return nil, diag.New(diag.NotImplemented, token.Position{}, "readln: emitting a %s target is not supported", t)
		}
		return []string{
			"ldr a1,=IntegerFormat",
			fmt.Sprintf("add a2,fp,#%d", layout.Offset(s.ReadlnVar)),
			"bl scanf(PLT)",
		}, nil

	case ir3.StmtPrintln:
		return emitPrintln(s.PrintlnArg, layout)

	case ir3.StmtAssign:
		reg, code, err := emitExp(s.AssignExp, st, layout, "a1")
		if err != nil {
			return nil, err
		}
		code = append(code, fmt.Sprintf("str %s,%s", reg, fpOff(layout, s.AssignVar)))
		return code, nil

	case ir3.StmtFieldAssign:
		var code []string
		code = append(code, loadIdc(s.FieldValue, "a1", layout))
		code = append(code, fmt.Sprintf("ldr a2,%s", fpOff(layout, s.FieldRecv)))
		recvClass := layout.Type(s.FieldRecv).ClassName
		off := st.FieldOffset(recvClass, s.FieldName)
		code = append(code, fmt.Sprintf("str a1,[a2,#%d]", off))
		return code, nil

	case ir3.StmtCallStmt:
		_, code, err := emitExp(s.Call, st, layout, "a1")
		return code, err

	case ir3.StmtReturn:
		var code []string
		if s.HasReturnVar {
			code = append(code, fmt.Sprintf("ldr a1,%s", fpOff(layout, s.ReturnVar)))
		}
		code = append(code, "b "+exitLabel)
		return code, nil

	default:
		return nil, diag.New(diag.NotImplemented, token.Position{}, "backend: unhandled statement kind")
	}
}

func emitPrintln(arg ir3.Idc, layout *MethodLayout) ([]string, error) {
	switch arg.Kind {
	case ir3.IdcInt:
		return []string{"ldr a1,=IntegerFormat", loadConstInt("a2", arg.IVal), "bl printf(PLT)"}, nil
	case ir3.IdcBool:
		return []string{"ldr a1,=IntegerFormat", loadConstInt("a2", boolToInt(arg.BVal)), "bl printf(PLT)"}, nil
	case ir3.IdcStr:
		return []string{"ldr a1,=" + arg.Label, "bl printf(PLT)"}, nil
	case ir3.IdcVar:
		t := layout.Type(arg.Var)
		switch t.Kind {
		case types.Int, types.Bool:
			return []string{"ldr a1,=IntegerFormat", fmt.Sprintf("ldr a2,%s", fpOff(layout, arg.Var)), "bl printf(PLT)"}, nil
		case types.String:
			return []string{fmt.Sprintf("ldr a1,%s", fpOff(layout, arg.Var)), "bl printf(PLT)"}, nil
		default:
			return nil, diag.New(diag.NotImplemented, token.Position{}, "println: unsupported operand type %s", t)
		}
	default:
		return nil, diag.New(diag.NotImplemented, token.Position{}, "println: unsupported operand")
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func loadConstInt(reg string, v int) string {
	if v >= 0 && v <= 255 {
		return fmt.Sprintf("mov %s,#%d", reg, v)
	}
	return fmt.Sprintf("ldr %s,=#%d", reg, v)
}

// loadIdc is the lowered form of gen_load_idc3: load a literal, a named
// slot's value, or a string literal's data-section label address into reg
// (the pointer convention println/field-assignment pass around).
func loadIdc(idc ir3.Idc, reg string, layout *MethodLayout) string {
	switch idc.Kind {
	case ir3.IdcInt:
		return loadConstInt(reg, idc.IVal)
	case ir3.IdcBool:
		return loadConstInt(reg, boolToInt(idc.BVal))
	case ir3.IdcNull:
		return loadConstInt(reg, 0)
	case ir3.IdcVar:
		return fmt.Sprintf("ldr %s,%s", reg, fpOff(layout, idc.Var))
	case ir3.IdcStr:
		return fmt.Sprintf("ldr %s,=%s", reg, idc.Label)
	default:
		return ""
	}
}

func emitExp(e ir3.Exp, st *SymbolTable, layout *MethodLayout, resultReg string) (string, []string, error) {
	switch e.Kind {
	case ir3.ExpRelop:
		var code []string
		code = append(code, loadIdc(e.Left, "a1", layout))
		code = append(code, loadIdc(e.Right, "a2", layout))
		code = append(code, "cmp a1,a2")
		lt, ge := condFor(e.RelOp)
		code = append(code, fmt.Sprintf("mov%s a1,#1", lt))
		code = append(code, fmt.Sprintf("mov%s a1,#0", ge))
		return "a1", code, nil

	case ir3.ExpBop:
		if e.BOp == ir3.BDiv {
			return "", nil, diag.New(diag.NotImplemented, token.Position{}, "division is not implemented")
		}
		var code []string
		code = append(code, loadIdc(e.Left, "a2", layout))
		code = append(code, loadIdc(e.Right, "a3", layout))
		code = append(code, fmt.Sprintf("%s a1,a2,a3", armBOp(e.BOp)))
		return "a1", code, nil

	case ir3.ExpUop:
		var code []string
		code = append(code, loadIdc(e.Operand, "a2", layout))
		switch e.UOp {
		case ir3.UNegative:
			code = append(code, loadConstInt("a3", -1))
			code = append(code, "mul a1,a2,a3")
		case ir3.UComplement:
			code = append(code, "eor a1,a2,#1")
		}
		return "a1", code, nil

	case ir3.ExpFieldAcc:
		recvClass := layout.Type(e.Recv).ClassName
		off := st.FieldOffset(recvClass, e.Field)
		code := []string{
			fmt.Sprintf("ldr a1,%s", fpOff(layout, e.Recv)),
			fmt.Sprintf("ldr a1,[a1,#%d]", off),
		}
		return "a1", code, nil

	case ir3.ExpCall:
		if len(e.Args) > len(argRegs) {
			return "", nil, diag.New(diag.NotImplemented, token.Position{}, "call to %q has %d arguments, more than the %d supported", e.Callee, len(e.Args), len(argRegs))
		}
		var code []string
		for i, a := range e.Args {
			code = append(code, loadIdc(a, argRegs[i], layout))
		}
		code = append(code, "bl "+e.Callee)
		return "a1", code, nil

	case ir3.ExpNew:
		size := st.Classes[e.ClassName].SizeBytes
		code := []string{loadConstInt("a1", size), "bl malloc(PLT)"}
		return "a1", code, nil

	case ir3.ExpIdc:
		return "a1", []string{loadIdc(e.Value, "a1", layout)}, nil

	default:
		return "", nil, diag.New(diag.NotImplemented, token.Position{}, "backend: unhandled expression kind")
	}
}

// condFor returns the {true,false} condition-code suffixes for a relop,
// e.g. Lt -> ("lt", "ge").
func condFor(op ir3.RelOp) (string, string) {
	switch op {
	case ir3.RelLt:
		return "lt", "ge"
	case ir3.RelGt:
		return "gt", "le"
	case ir3.RelLe:
		return "le", "gt"
	case ir3.RelGe:
		return "ge", "lt"
	case ir3.RelEq:
		return "eq", "ne"
	case ir3.RelNe:
		return "ne", "eq"
	default:
		return "eq", "ne"
	}
}

func armBOp(op ir3.BOp) string {
	switch op {
	case ir3.BAnd:
		return "and"
	case ir3.BOr:
		return "orr"
	case ir3.BMul:
		return "mul"
	case ir3.BPlus:
		return "add"
	case ir3.BMinus:
		return "sub"
	default:
		return "?"
	}
}
