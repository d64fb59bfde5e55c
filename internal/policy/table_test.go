package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apobfuscate/internal/document"
)

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		pattern  string
		key      string
		expected bool
	}{
		{"start_inventory", "start_inventory", true},
		{"start_inventory", "start_inventory_from_pool", false},
		{"start_*", "start_inventory_from_pool", true},
		{"start_*", "starting_items", false},
		{"plando_*", "plando_items", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePattern(tt.pattern).Match(tt.key))
		})
	}
}

func TestDefaultIsIgnored(t *testing.T) {
	table := Default()

	for _, k := range []string{"start_inventory", "item_links", "plando_weakness", "exclude_locations"} {
		assert.True(t, table.IsIgnored(k), k)
	}

	for _, k := range []string{"progression_balancing", "accessibility", "goal"} {
		assert.False(t, table.IsIgnored(k), k)
	}
}

func TestDirectives(t *testing.T) {
	table := Default()

	for _, k := range []string{"name", "description", "requires", "game", "triggers"} {
		assert.True(t, table.IsTopLevelDirective(k), k)
	}

	assert.False(t, table.IsTopLevelDirective("A Link to the Past"))
	assert.True(t, table.IsGameDirective("triggers"))
	assert.False(t, table.IsGameDirective("goal"))
}

func TestIsPlando(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"plando items", "plando_items:\n  - item: Bow\n    location: Link's House\n", "plando_items"},
		{"plando texts", "plando_texts:\n  uncle: hello\n", "plando_texts"},
		{"requires plando", "requires:\n  version: 0.6.1\n  plando: bosses\n", "requires.plando"},
		{"empty plando list", "plando_items: []\n", ""},
		{"plando weakness is ignored", "plando_weakness: {Sword: 1}\n", ""},
		{"plain options", "goal: {ganon: 1}\n", ""},
		{"requires without plando", "requires:\n  version: 0.6.1\n", ""},
	}

	table := Default()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section, err := document.ParseOne([]byte(tt.src))
			require.NoError(t, err)

			key, ok := table.PlandoKey(section)
			assert.Equal(t, tt.expected != "", ok)
			assert.Equal(t, tt.expected, key)
			assert.Equal(t, ok, table.IsPlando(section))
		})
	}
}

func TestTableIsImmutable(t *testing.T) {
	ignore := []Pattern{Exact("a")}
	table := New(ignore, nil)

	ignore[0] = Exact("b")
	assert.True(t, table.IsIgnored("a"))
	assert.False(t, table.IsIgnored("b"))

	got := table.Ignored()
	got[0] = Exact("c")
	assert.True(t, table.IsIgnored("a"))
}
