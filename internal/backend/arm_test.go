package backend_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"jlite.dev/jlitec/internal/backend"
	"jlite.dev/jlitec/internal/check"
	"jlite.dev/jlitec/internal/compctx"
	"jlite.dev/jlitec/internal/lexer"
	"jlite.dev/jlitec/internal/lower"
	"jlite.dev/jlitec/internal/parser"
)

func mustEmit(t *testing.T, src string) []string {
	t.Helper()
	toks, err := lexer.New([]byte(src), "t.j").Tokenize()
	require.NoError(t, err)
	_, prog, err := parser.ParseProgram(toks)
	require.NoError(t, err)
	ctx := compctx.New()
	desc, err := check.Check(prog, ctx)
	require.NoError(t, err)
	ir3prog, err := lower.Program(prog, desc, ctx)
	require.NoError(t, err)
	asm, err := backend.Emit(ir3prog, ctx)
	require.NoError(t, err)
	return asm
}

func TestEmitRewritesMainMangledName(t *testing.T) {
	asm := mustEmit(t, `
class Main {
	Void main() {
		println(1);
	}
}
`)
	joined := strings.Join(asm, "\n")
	assert.Contains(t, joined, "main:")
	assert.NotContains(t, joined, "_Main_main")

	// "main" is the entry label exactly once, declared global.
	var entryLabels int
	for _, line := range asm {
		if line == "main:" {
			entryLabels++
		}
	}
	assert.Equal(t, 1, entryLabels)
	assert.Contains(t, asm, ".global main")
}

func TestEmitPrintlnStringLiteralLoadsInternedLabel(t *testing.T) {
	asm := mustEmit(t, `
class Main {
	Void main() {
		println("yes");
	}
}
`)
	joined := strings.Join(asm, "\n")
	assert.Contains(t, joined, `.asciz "yes"`)
	assert.Contains(t, joined, "ldr a1,=L1")
	assert.Contains(t, joined, "bl printf(PLT)")
}

func TestEmitDataSectionHasIntegerFormat(t *testing.T) {
	asm := mustEmit(t, `
class Main {
	Void main() {
		println(42);
	}
}
`)
	assert.Equal(t, ".data", asm[0])
	assert.Contains(t, asm, "IntegerFormat:")
}

func TestEmitObjectAllocationCallsMalloc(t *testing.T) {
	asm := mustEmit(t, `
class Main {
	Void main() {
		Counter c;
		c = new Counter();
	}
}
class Counter {
	Int n;
}
`)
	joined := strings.Join(asm, "\n")
	assert.Contains(t, joined, "bl malloc(PLT)")
	assert.Contains(t, joined, "mov a1,#4")
}

func TestEmitPrologueAndEpilogueShape(t *testing.T) {
	asm := mustEmit(t, `
class Main {
	Void main() {
		println(1);
	}
}
`)
	joined := strings.Join(asm, "\n")
	assert.Contains(t, joined, "stmfd sp!,{fp,lr,v1,v2,v3,v4,v5}")
	assert.Contains(t, joined, "add fp,sp,#24")
	assert.Contains(t, joined, "ldmfd sp!,{fp,pc,v1,v2,v3,v4,v5}")
}
