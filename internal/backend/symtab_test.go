package backend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"jlite.dev/jlitec/internal/backend"
	"jlite.dev/jlitec/internal/ir3"
	"jlite.dev/jlitec/internal/types"
)

func TestMethodLayoutOrdersSavedRegsParamsLocalsThenTemps(t *testing.T) {
	m := ir3.Method{
		Name:   "_Foo_bar",
		Params: []ir3.VarDecl{{Type: types.TClass("Foo"), Name: "this"}, {Type: types.TInt(), Name: "n"}},
		Locals: []ir3.VarDecl{{Type: types.TInt(), Name: "x"}},
		Stmts: []ir3.Stmt{
			ir3.AssignStmt("_t1", ir3.BopExp(ir3.Var("n"), ir3.BPlus, ir3.IntConst(1)), types.TInt()),
		},
	}
	layout := backend.BuildMethodLayout(m)

	want := []string{"_fp", "_lr", "_v1", "_v2", "_v3", "_v4", "_v5", "this", "n", "x", "_t1"}
	assert.Equal(t, want, layout.Order())

	// Offsets increase by one word per slot, fp-relative and negated.
	assert.Equal(t, 0, layout.Offset("_fp"))
	assert.Equal(t, -28, layout.Offset("this"))
	assert.Equal(t, -40, layout.Offset("_t1"))
}

func TestMethodLayoutTempFirstWriteWins(t *testing.T) {
	m := ir3.Method{
		Name: "_Foo_bar",
		Stmts: []ir3.Stmt{
			ir3.AssignStmt("_t1", ir3.IdcExp(ir3.IntConst(1)), types.TInt()),
			ir3.AssignStmt("_t1", ir3.IdcExp(ir3.IntConst(2)), types.TInt()),
		},
	}
	layout := backend.BuildMethodLayout(m)
	count := 0
	for _, n := range layout.Order() {
		if n == "_t1" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestClassLayoutDescendingStride(t *testing.T) {
	cd := ir3.ClassData{
		Name: "Point",
		Fields: []ir3.VarDecl{
			{Type: types.TInt(), Name: "x"},
			{Type: types.TInt(), Name: "y"},
		},
	}
	cl := backend.BuildClassLayout(cd)
	assert.Equal(t, 0, cl.FieldOffsets["x"])
	assert.Equal(t, -4, cl.FieldOffsets["y"])
	assert.Equal(t, 8, cl.SizeBytes)
}

func TestClassLayoutZeroFieldFlooredToOneWord(t *testing.T) {
	cd := ir3.ClassData{Name: "Empty"}
	cl := backend.BuildClassLayout(cd)
	assert.Equal(t, 4, cl.SizeBytes)
}
