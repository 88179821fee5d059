package expansions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thraizz/dominion-server-go/internal/game/cards"
	"github.com/thraizz/dominion-server-go/internal/game/effects"
)

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	for _, key := range []string{"copper", "province", "moat", "throneRoom", "caravan", "haven", "page", "teacher"} {
		_, err := reg.Lookup(key)
		assert.NoError(t, err, key)
	}
}

func TestRegisterAll_Twice(t *testing.T) {
	reg := effects.NewRegistry()
	require.NoError(t, RegisterAll(reg))
	assert.Error(t, RegisterAll(reg))
}

func TestModulesAreComplete(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	for _, key := range reg.Keys() {
		m, err := reg.Lookup(key)
		require.NoError(t, err)
		assert.Equal(t, key, m.Definition.Key)
		assert.NotEmpty(t, m.Definition.Name, key)
		assert.NotEmpty(t, m.Definition.Types, key)
		assert.True(t, m.Play != nil || m.Score != nil, "%s neither plays nor scores", key)

		for _, next := range m.NonSupply {
			_, err := reg.Lookup(next)
			assert.NoError(t, err, "%s names non-supply pile %s", key, next)
		}
	}
}

func TestTravelerChains(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	chains := [][]string{
		{"page", "treasureHunter", "warrior", "hero", "champion"},
		{"peasant", "soldier", "fugitive", "disciple", "teacher"},
	}
	for _, chain := range chains {
		for i, key := range chain {
			m, err := reg.Lookup(key)
			require.NoError(t, err)
			if i == len(chain)-1 {
				assert.Empty(t, m.NonSupply, key)
				assert.False(t, hasType(m.Definition, cards.TypeTraveler), key)
				continue
			}
			assert.Equal(t, []string{chain[i+1]}, m.NonSupply, key)
			assert.True(t, hasType(m.Definition, cards.TypeTraveler), key)
			assert.NotNil(t, m.LifeCycle.OnDiscarded, key)
			assert.Less(t, m.Definition.Cost.Treasure, mustCost(t, reg, chain[i+1]), key)
		}
	}
}

func hasType(def cards.Definition, t cards.Type) bool {
	for _, have := range def.Types {
		if have == t {
			return true
		}
	}
	return false
}

func mustCost(t *testing.T, reg *effects.Registry, key string) int {
	t.Helper()
	m, err := reg.Lookup(key)
	require.NoError(t, err)
	return m.Definition.Cost.Treasure
}
