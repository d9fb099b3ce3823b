package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollSingle(t *testing.T) {
	r := New(&Config{Seed: 42})

	for i := 0; i < 100; i++ {
		result := r.Roll(ChoiceSingle)
		require.Len(t, result.Values, 1)
		assert.GreaterOrEqual(t, result.Values[0], 1)
		assert.LessOrEqual(t, result.Values[0], 6)
		assert.Equal(t, result.Values[0], result.Total)
	}
}

func TestRollDouble(t *testing.T) {
	r := New(&Config{Seed: 42})

	for i := 0; i < 100; i++ {
		result := r.Roll(ChoiceDouble)
		require.Len(t, result.Values, 2)
		assert.Equal(t, result.Values[0]+result.Values[1], result.Total)
	}
}

func TestRollIsDeterministicWithSeed(t *testing.T) {
	a := New(&Config{Seed: 7})
	b := New(&Config{Seed: 7})

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Roll(ChoiceDouble), b.Roll(ChoiceDouble))
	}
}

func TestRollRespectsSides(t *testing.T) {
	r := New(&Config{Seed: 1, Sides: 2})

	for i := 0; i < 50; i++ {
		result := r.Roll(ChoiceSingle)
		assert.LessOrEqual(t, result.Values[0], 2)
	}
}
