package ir3_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"jlite.dev/jlitec/internal/ir3"
	"jlite.dev/jlitec/internal/types"
)

func TestOperatorStrings(t *testing.T) {
	assert.Equal(t, "<=", ir3.RelLe.String())
	assert.Equal(t, "!=", ir3.RelNe.String())
	assert.Equal(t, "+", ir3.BPlus.String())
	assert.Equal(t, "!", ir3.UComplement.String())
}

func TestIdcVarName(t *testing.T) {
	v := ir3.Var("_t1")
	name, ok := v.VarName()
	assert.True(t, ok)
	assert.Equal(t, "_t1", name)

	_, ok = ir3.IntConst(5).VarName()
	assert.False(t, ok)
}

func TestAssignStmtShape(t *testing.T) {
	s := ir3.AssignStmt("_t1", ir3.BopExp(ir3.Var("n"), ir3.BPlus, ir3.IntConst(1)), types.TInt())
	assert.Equal(t, ir3.StmtAssign, s.Kind)
	assert.Equal(t, "_t1", s.AssignVar)
	assert.Equal(t, ir3.ExpBop, s.AssignExp.Kind)
}
