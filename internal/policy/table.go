package policy

import (
	"slices"

	"apobfuscate/internal/common"
	"apobfuscate/internal/document"
)

// Key names with structural meaning in a profile.
const (
	KeyName        = "name"
	KeyDescription = "description"
	KeyRequires    = "requires"
	KeyGame        = "game"
	KeyTriggers    = "triggers"
	KeyPlando      = "plando"

	KeyOptionCategory = "option_category"
	KeyOptionName     = "option_name"
	KeyOptionResult   = "option_result"
	KeyOptions        = "options"
	KeyPercentage     = "percentage"
)

// DefaultIgnored lists options that assign items or locations in bulk.
var DefaultIgnored = []Pattern{
	Exact("local_items"),
	Exact("non_local_items"),
	Exact("start_inventory"),
	Exact("start_inventory_from_pool"),
	Exact("start_hints"),
	Exact("start_location_hints"),
	Exact("exclude_locations"),
	Exact("priority_locations"),
	Exact("item_links"),
	Exact("plando_weakness"),
}

// DefaultPlando lists explicit-placement sections. Ignored keys take
// precedence, so plando_weakness is not treated as plando.
var DefaultPlando = []Pattern{
	Exact("plando_items"),
	Exact("plando_texts"),
	Exact("plando_connections"),
	Exact("plando_bosses"),
	PrefixOf("plando_"),
}

var (
	defaultTopLevel  = []string{KeyName, KeyDescription, KeyRequires, KeyGame, KeyTriggers}
	defaultGameLevel = []string{KeyTriggers}
)

// Table is an immutable classification table.
type Table struct {
	ignore    []Pattern
	plando    []Pattern
	topLevel  map[string]struct{}
	gameLevel map[string]struct{}
}

// Default returns the built-in table.
func Default() *Table {
	return New(DefaultIgnored, DefaultPlando)
}

// New builds a table from the given patterns and the standard directives.
// The slices are copied.
func New(ignore, plando []Pattern) *Table {
	return &Table{
		ignore:    slices.Clone(ignore),
		plando:    slices.Clone(plando),
		topLevel:  common.Set(defaultTopLevel),
		gameLevel: common.Set(defaultGameLevel),
	}
}

// IsIgnored reports whether an option key must never be rewritten.
func (t *Table) IsIgnored(key string) bool {
	_, ok := t.IgnoredBy(key)
	return ok
}

// IgnoredBy returns the pattern that makes key ignored.
func (t *Table) IgnoredBy(key string) (Pattern, bool) {
	return matchAny(t.ignore, key)
}

// IsTopLevelDirective reports keys of the document root that are not games.
func (t *Table) IsTopLevelDirective(key string) bool {
	_, ok := t.topLevel[key]
	return ok
}

// IsGameDirective reports keys of a game section that are not options.
func (t *Table) IsGameDirective(key string) bool {
	_, ok := t.gameLevel[key]
	return ok
}

// IsPlando reports whether section holds an explicit-placement entry.
func (t *Table) IsPlando(section *document.Node) bool {
	_, ok := t.PlandoKey(section)
	return ok
}

// PlandoKey returns the first key of section that makes it plando. A
// non-empty requires.plando counts as well.
func (t *Table) PlandoKey(section *document.Node) (string, bool) {
	if !section.IsMapping() {
		return "", false
	}

	for _, p := range section.Pairs {
		key := p.Key.Value

		if key == KeyRequires {
			if v, ok := p.Value.Get(KeyPlando); ok && !isEmpty(v) {
				return KeyRequires + "." + KeyPlando, true
			}

			continue
		}

		if t.IsIgnored(key) || isEmpty(p.Value) {
			continue
		}

		if _, ok := matchAny(t.plando, key); ok {
			return key, true
		}
	}

	return "", false
}

// Ignored returns a copy of the ignore patterns.
func (t *Table) Ignored() []Pattern { return slices.Clone(t.ignore) }

// Plando returns a copy of the plando patterns.
func (t *Table) Plando() []Pattern { return slices.Clone(t.plando) }

func isEmpty(n *document.Node) bool {
	switch {
	case n == nil:
		return true
	case n.IsScalar():
		return n.Scalar == document.ScalarNull || (n.IsString() && n.Value == "")
	default:
		return n.Len() == 0
	}
}
