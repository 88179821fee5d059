package targeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seating = []string{"A", "B", "C", "D"}

func TestResolveTargets_All(t *testing.T) {
	got, err := ResolveTargets("ALL", "B", seating)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "D", "A"}, got)
}

func TestResolveTargets_AllOther(t *testing.T) {
	got, err := ResolveTargets("ALL_OTHER", "B", seating)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "D", "A"}, got)

	got, err = ResolveTargets("ALL_OTHER", "A", []string{"A"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolveTargets_Unsupported(t *testing.T) {
	_, err := ResolveTargets("ANY", "A", seating)
	assert.ErrorIs(t, err, ErrUnsupportedTarget)

	_, err = ResolveTargets("2_OTHER", "A", seating)
	assert.ErrorIs(t, err, ErrUnsupportedTarget)
}

func TestResolveTargets_UnknownSpecifierIsEmpty(t *testing.T) {
	got, err := ResolveTargets("SOMEONE", "A", seating)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolveTargets_UnknownStart(t *testing.T) {
	_, err := ResolveTargets("ALL", "Z", seating)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestParseTarget(t *testing.T) {
	assert.Equal(t, TargetSpec{Type: TargetNOther, Count: 3}, ParseTarget("3_other"))
	assert.Equal(t, TargetSpec{Type: TargetAllOther}, ParseTarget(" ALL_OTHER "))
	assert.Equal(t, TargetSpec{}, ParseTarget("X_OTHER"))
}
