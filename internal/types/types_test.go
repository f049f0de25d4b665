package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"jlite.dev/jlitec/internal/types"
)

func TestEqualReflexive(t *testing.T) {
	for _, ty := range []types.JLiteType{
		types.TInt(), types.TBool(), types.TString(), types.TVoid(),
		types.TNull(), types.TClass("C"),
	} {
		assert.True(t, ty.Equal(ty), "%s must equal itself", ty)
	}
}

func TestNullRelaxations(t *testing.T) {
	null := types.TNull()

	// null is assignable to String and to any class type, both ways round.
	assert.True(t, null.Equal(types.TString()))
	assert.True(t, types.TString().Equal(null))
	assert.True(t, null.Equal(types.TClass("C")))
	assert.True(t, types.TClass("C").Equal(null))

	// But never to Int, Bool, or Void.
	assert.False(t, null.Equal(types.TInt()))
	assert.False(t, types.TInt().Equal(null))
	assert.False(t, null.Equal(types.TBool()))
	assert.False(t, null.Equal(types.TVoid()))
}

func TestClassEqualityIsNominal(t *testing.T) {
	assert.True(t, types.TClass("A").Equal(types.TClass("A")))
	assert.False(t, types.TClass("A").Equal(types.TClass("B")))
}

func TestCrossVariantStrict(t *testing.T) {
	assert.False(t, types.TInt().Equal(types.TBool()))
	assert.False(t, types.TString().Equal(types.TClass("String")))
	assert.False(t, types.TVoid().Equal(types.TInt()))
}

func TestIsPrintable(t *testing.T) {
	assert.True(t, types.TInt().IsPrintable())
	assert.True(t, types.TBool().IsPrintable())
	assert.True(t, types.TString().IsPrintable())
	assert.False(t, types.TVoid().IsPrintable())
	assert.False(t, types.TClass("C").IsPrintable())
	assert.False(t, types.TNull().IsPrintable())
}

func TestStringRendering(t *testing.T) {
	assert.Equal(t, "Int", types.TInt().String())
	assert.Equal(t, "Counter", types.TClass("Counter").String())
	assert.Equal(t, "null", types.TNull().String())
}
