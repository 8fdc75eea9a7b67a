package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tee(image string) Line {
	return Line{
		LineKey:   LineKey{ProductID: "p1", SelectedImage: image},
		Name:      "Tee",
		UnitPrice: decimal.NewFromInt(1999),
		Stock:     5,
	}
}

func TestReduceAddSameKeyIncrementsQuantity(t *testing.T) {
	state := Reduce(State{}, Action{Kind: ActionAddLocal, Line: tee("a.png")})
	state = Reduce(state, Action{Kind: ActionAddLocal, Line: tee("a.png")})

	require.Len(t, state.Lines, 1)
	assert.Equal(t, 2, state.Lines[0].Quantity)
}

func TestReduceDifferentImageIsSeparateLine(t *testing.T) {
	state := Reduce(State{}, Action{Kind: ActionAddLocal, Line: tee("a.png")})
	state = Reduce(state, Action{Kind: ActionAddLocal, Line: tee("b.png")})

	require.Len(t, state.Lines, 2)
	assert.Equal(t, 2, state.ItemCount())
}

func TestReduceRemoveLastUnitDropsLine(t *testing.T) {
	state := Reduce(State{}, Action{Kind: ActionAddLocal, Line: tee("a.png")})
	state = Reduce(state, Action{Kind: ActionAddLocal, Line: tee("a.png")})

	state = Reduce(state, Action{Kind: ActionRemoveLocal, Line: tee("a.png")})
	require.Len(t, state.Lines, 1)
	assert.Equal(t, 1, state.Lines[0].Quantity)

	state = Reduce(state, Action{Kind: ActionRemoveLocal, Line: tee("a.png")})
	assert.Empty(t, state.Lines)
}

func TestReduceRemoveUnknownKeyIsNoop(t *testing.T) {
	state := Reduce(State{}, Action{Kind: ActionAddLocal, Line: tee("a.png")})
	state = Reduce(state, Action{Kind: ActionRemoveLocal, Line: tee("zzz.png")})

	require.Len(t, state.Lines, 1)
	assert.Equal(t, 1, state.Lines[0].Quantity)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := Reduce(State{}, Action{Kind: ActionAddLocal, Line: tee("a.png")})
	_ = Reduce(before, Action{Kind: ActionAddLocal, Line: tee("a.png")})

	assert.Equal(t, 1, before.Lines[0].Quantity)
}

func TestReduceReplaceAndClear(t *testing.T) {
	replaced := Reduce(State{}, Action{Kind: ActionReplace, Lines: []Line{{LineKey: LineKey{ProductID: "p2"}, Quantity: 3}}})
	require.Len(t, replaced.Lines, 1)
	assert.Equal(t, 3, replaced.ItemCount())

	assert.Empty(t, Reduce(replaced, Action{Kind: ActionClear}).Lines)
}
