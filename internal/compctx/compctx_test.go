package compctx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"jlite.dev/jlitec/internal/compctx"
)

func TestFreshLabelsAndTemps(t *testing.T) {
	ctx := compctx.New()
	assert.Equal(t, "Label1", ctx.NewLabel())
	assert.Equal(t, "Label2", ctx.NewLabel())
	assert.Equal(t, "_t1", ctx.NewTemp())
	assert.Equal(t, "_t2", ctx.NewTemp())
}

// Every InternString call is a new data-section entry, even for repeated
// content: labels are keyed by occurrence, not by value.
func TestInternStringNeverDedupes(t *testing.T) {
	ctx := compctx.New()
	first := ctx.InternString("hello")
	second := ctx.InternString("world")
	third := ctx.InternString("hello")

	assert.Equal(t, "L1", first)
	assert.Equal(t, "L2", second)
	assert.Equal(t, "L3", third)
	assert.NotEqual(t, first, third)

	want := []compctx.StrLit{
		{Value: "hello", Label: "L1"},
		{Value: "world", Label: "L2"},
		{Value: "hello", Label: "L3"},
	}
	assert.Equal(t, want, ctx.StringLiterals())
}
