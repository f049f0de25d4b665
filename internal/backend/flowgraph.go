package backend

import (
	"fmt"
	"sort"

	"jlite.dev/jlitec/internal/ir3"
)

// Synthetic block ids bracketing every real block, matching the source
// backend's FlowGraph.ENTRY_BID / EXIT_BID sentinels.
const (
	entryBID = -1
	exitBID  = 1<<31 - 1
)

// FormatLabel names the synthetic label a basic block is addressed by
// once IR3's original (now-discarded) label names are rewritten.
func FormatLabel(methodName string, bid int) string {
	return fmt.Sprintf("%s_Block%d", methodName, bid)
}

// Block is one basic block: a leader statement followed by every
// statement up to (but not including) the next leader.
type Block struct {
	ID    int
	Stmts []ir3.Stmt
}

// FlowGraph is a method's basic-block partition plus control-flow edges,
// bracketed by synthetic ENTRY/EXIT nodes. Simple code generation only
// needs ascending block order and rewritten jump targets; the adjacency
// lists are there for a liveness pass to consume, though this compiler
// performs none.
type FlowGraph struct {
	MethodName string
	blocks     map[int]*Block
	succs      map[int][]int
	order      []int // block ids in ascending/appearance order
}

func (g *FlowGraph) Block(bid int) *Block { return g.blocks[bid] }

// Succs returns bid's successor block ids (possibly including exitBID).
func (g *FlowGraph) Succs(bid int) []int { return g.succs[bid] }

// BlocksAscending returns the real (non-ENTRY/EXIT) blocks in ascending
// id order, the order simple code generation emits them in.
func (g *FlowGraph) BlocksAscending() []*Block {
	ids := make([]int, 0, len(g.blocks))
	for id := range g.blocks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*Block, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.blocks[id])
	}
	return out
}

// BuildFlowGraph partitions m's statement list into basic blocks by the
// standard leader rules (first statement; any branch target; any
// statement following a branch), then rewrites every Goto/IfGoto's label
// in place to the synthetic label of its target block.
func BuildFlowGraph(m ir3.Method) *FlowGraph {
	stmts := m.Stmts

	labelToIdx := make(map[string]int, len(stmts))
	for i, s := range stmts {
		if s.Kind == ir3.StmtLabel {
			labelToIdx[s.Label] = i
		}
	}

	isLeader := make([]bool, len(stmts))
	if len(stmts) > 0 {
		isLeader[0] = true
	}
	nextIsLeader := false
	for i, s := range stmts {
		if nextIsLeader {
			isLeader[i] = true
		}
		nextIsLeader = false
		if s.Kind == ir3.StmtIfGoto || s.Kind == ir3.StmtGoto {
			isLeader[labelToIdx[s.Label]] = true
			nextIsLeader = true
		}
	}

	g := &FlowGraph{
		MethodName: m.Name,
		blocks:     make(map[int]*Block),
		succs:      make(map[int][]int),
	}

	// idxToBID/idxToPos map an original statement index to the (block id,
	// position within that block's Stmts slice) it ended up at, so jump
	// rewriting below can mutate the exact copy emitted into the block.
	idxToBID := make([]int, len(stmts))
	idxToPos := make([]int, len(stmts))
	bid := -1
	for i, s := range stmts {
		if isLeader[i] {
			bid++
			g.blocks[bid] = &Block{ID: bid}
			g.order = append(g.order, bid)
		}
		blk := g.blocks[bid]
		idxToBID[i] = bid
		idxToPos[i] = len(blk.Stmts)
		blk.Stmts = append(blk.Stmts, s)
	}

	prev := entryBID
	for _, id := range g.order {
		g.succs[prev] = append(g.succs[prev], id)
		prev = id
	}
	g.succs[prev] = append(g.succs[prev], exitBID)

	for i, s := range stmts {
		if s.Kind != ir3.StmtIfGoto && s.Kind != ir3.StmtGoto {
			continue
		}
		targetIdx := labelToIdx[s.Label]
		targetBID := idxToBID[targetIdx]
		srcBID := idxToBID[i]
		g.succs[srcBID] = append(g.succs[srcBID], targetBID)

		newLabel := FormatLabel(m.Name, targetBID)
		g.blocks[srcBID].Stmts[idxToPos[i]].Label = newLabel
		// The target Label statement itself is renamed to match, so the
		// block's leader carries the same synthetic name every jump to it
		// now uses.
		g.blocks[targetBID].Stmts[idxToPos[targetIdx]].Label = newLabel
	}

	return g
}
