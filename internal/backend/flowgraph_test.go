package backend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jlite.dev/jlitec/internal/backend"
	"jlite.dev/jlitec/internal/ir3"
	"jlite.dev/jlitec/internal/types"
)

// A tiny while-shaped body: LBegin -> cond -> IfGoto LTrue -> Goto LNext ->
// LTrue: body -> Goto LBegin -> LNext: return.
func whileShapedMethod() ir3.Method {
	return ir3.Method{
		Name: "_Main_main",
		Stmts: []ir3.Stmt{
			ir3.LabelStmt("L1"),
			ir3.AssignStmt("_t1", ir3.RelopExp(ir3.Var("x"), ir3.RelLt, ir3.IntConst(10)), types.TBool()),
			ir3.IfGotoStmt("_t1", "L2"),
			ir3.GotoStmt("L3"),
			ir3.LabelStmt("L2"),
			ir3.AssignStmt("x", ir3.BopExp(ir3.Var("x"), ir3.BPlus, ir3.IntConst(1)), types.TInt()),
			ir3.GotoStmt("L1"),
			ir3.LabelStmt("L3"),
			ir3.ReturnStmt("", false),
		},
	}
}

func TestFlowGraphPartitionsLeaders(t *testing.T) {
	g := backend.BuildFlowGraph(whileShapedMethod())
	blocks := g.BlocksAscending()
	// Leaders: idx0 (first stmt), idx3 (follows the IfGoto at idx2), idx4
	// (L2, a jump target), idx7 (L3, a jump target and the statement
	// after the Goto at idx6).
	require.Len(t, blocks, 4)
	assert.Equal(t, 3, len(blocks[0].Stmts)) // L1, assign, IfGoto
	assert.Equal(t, 1, len(blocks[1].Stmts)) // Goto L3
	assert.Equal(t, 3, len(blocks[2].Stmts)) // L2, assign, Goto L1
	assert.Equal(t, 2, len(blocks[3].Stmts)) // L3, return
}

func TestFlowGraphRewritesJumpAndTargetLabelsConsistently(t *testing.T) {
	g := backend.BuildFlowGraph(whileShapedMethod())
	blocks := g.BlocksAscending()

	// block 0's IfGoto jumps into block 2; block 2's own leader label must
	// have been rewritten to match exactly.
	var ifGotoLabel string
	for _, s := range blocks[0].Stmts {
		if s.Kind == ir3.StmtIfGoto {
			ifGotoLabel = s.Label
		}
	}
	require.NotEmpty(t, ifGotoLabel)
	assert.Equal(t, ifGotoLabel, blocks[2].Stmts[0].Label)

	// block 1's Goto jumps into block 3; same check.
	var gotoLabel string
	for _, s := range blocks[1].Stmts {
		if s.Kind == ir3.StmtGoto {
			gotoLabel = s.Label
		}
	}
	require.NotEmpty(t, gotoLabel)
	assert.Equal(t, gotoLabel, blocks[3].Stmts[0].Label)

	// block 2's Goto jumps back into block 0; its own leader label must
	// have been rewritten to match too.
	var loopGotoLabel string
	for _, s := range blocks[2].Stmts {
		if s.Kind == ir3.StmtGoto {
			loopGotoLabel = s.Label
		}
	}
	require.NotEmpty(t, loopGotoLabel)
	assert.Equal(t, loopGotoLabel, blocks[0].Stmts[0].Label)
}

func TestFlowGraphSuccessorsIncludeFallthroughAndJump(t *testing.T) {
	g := backend.BuildFlowGraph(whileShapedMethod())
	succs := g.Succs(0)
	assert.Len(t, succs, 2) // fallthrough to block 1, IfGoto jump to block 2
}
