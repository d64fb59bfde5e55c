package indirect

import (
	"fmt"
	mathrand "math/rand"
	"slices"
	"strings"

	"apobfuscate/internal/diagnostic"
	"apobfuscate/internal/document"
	"apobfuscate/internal/policy"
)

// Result summarizes an Apply run.
type Result struct {
	// Seed is the name generator seed, so the run can be reproduced.
	Seed       int64
	Iterations int
	// Wrapped lists, per game section, the options whose weights were moved
	// into a trigger chain.
	Wrapped map[string][]string
	// TriggersAdded counts synthesized triggers.
	TriggersAdded int
	// TriggersRewritten counts existing triggers pointed at wrapper options.
	TriggersRewritten int
	// Conflicts holds ignored options that looked like weight tables.
	Conflicts   []*PolicyConflictError
	Diagnostics diagnostic.Diagnostics
}

// Engine moves option weights behind trigger chains.
type Engine struct {
	table *policy.Table
	cfg   Config
	rng   *mathrand.Rand
	seed  int64
}

// New creates an Engine. A nil table uses policy.Default.
func New(table *policy.Table, cfg Config) *Engine {
	if table == nil {
		table = policy.Default()
	}

	cfg = cfg.normalize()
	rng, seed := InitRNG(cfg.Seed, cfg.Seeded)

	return &Engine{
		table: table,
		cfg:   cfg,
		rng:   rng,
		seed:  seed,
	}
}

// Seed returns the seed the engine's name generator was started with.
func (e *Engine) Seed() int64 { return e.seed }

// section is a game section being rewritten.
type section struct {
	name string
	node *document.Node
	// synthetic holds wrapper options created by earlier rounds.
	synthetic map[string]struct{}
	// refs holds user options whose value now names their wrapper.
	refs map[string]struct{}
	// pending holds triggers created in the current round.
	pending []*document.Node
}

// wrapper is a synthesized option standing in for a weighted option.
type wrapper struct {
	section *section
	option  *document.Node
	name    string
	node    *document.Node
	// results maps a label's canonical value to its result name.
	results map[string]string
}

// userTrigger is a trigger written by the profile author.
type userTrigger struct {
	node *document.Node
	// owner is the section whose list holds the trigger, nil at the root.
	owner *section
}

type run struct {
	engine *Engine
	root   *document.Node
	res    *Result
	names  *namer
	// merges maps a section to the options that user triggers merge into
	// with "+" or "-" keys. The value is false when some merge could not
	// be translated to a wrapper.
	merges map[*section]map[string]bool
}

// Apply rewrites root in place. Every weighted option in every game section
// is replaced by a wrapper option with fresh result names, plus one trigger
// per result that sets the original option to the original label. The
// option keeps its key; its value names the wrapper and is overwritten when
// the chain fires.
//
// Apply fails with *UnsupportedStructureError before touching the tree if
// any section holds plando placements or malformed trigger lists.
func (e *Engine) Apply(root *document.Node) (*Result, error) {
	res := &Result{
		Seed:       e.seed,
		Iterations: e.cfg.Iterations,
		Wrapped:    map[string][]string{},
	}

	if !root.IsMapping() {
		res.Diagnostics.AddInfo("not_a_mapping", "document root is not a mapping; nothing to rewrite", "", "")
		return res, nil
	}

	sections, err := e.sections(root, res)
	if err != nil {
		return nil, err
	}

	r := &run{engine: e, root: root, res: res, names: newNamer(e.rng, e.cfg)}
	r.names.reserve(document.AllKeys(root))

	var userTriggers []userTrigger
	for _, t := range triggerItems(root) {
		userTriggers = append(userTriggers, userTrigger{node: t})
	}

	for _, s := range sections {
		for _, t := range triggerItems(s.node) {
			userTriggers = append(userTriggers, userTrigger{node: t, owner: s})
		}
	}

	r.lintTriggers(userTriggers, sections)
	r.merges = collectMerges(userTriggers, sections)

	for i := range e.cfg.Iterations {
		first := i == 0
		wrapped := make(map[string]map[string]*wrapper, len(sections))

		for _, s := range sections {
			ws, err := r.wrapSection(s, first)
			if err != nil {
				return nil, err
			}

			wrapped[s.name] = ws
		}

		// Triggers that run before the new chain must see the new wrappers.
		// The first round appends its chain after every user trigger. Later
		// rounds prepend theirs, so a section's own triggers already see the
		// old wrappers restored; everything else still needs rewriting.
		for _, t := range userTriggers {
			skip := t.owner
			if first {
				skip = nil
			}

			err := r.rewriteTrigger(t.node, wrapped, skip)
			if err != nil {
				return nil, err
			}
		}

		for _, s := range sections {
			s.flush(first)
		}

		e.cfg.Logger.Printf("debug: round %d done, %d triggers so far", i+1, res.TriggersAdded)
	}

	return res, nil
}

// sections validates the document and returns its game sections. Nothing
// is modified, so a failure leaves the document as it was.
func (e *Engine) sections(root *document.Node, res *Result) ([]*section, error) {
	if key, ok := e.table.PlandoKey(root); ok {
		return nil, &UnsupportedStructureError{Key: key, Reason: "plando section"}
	}

	if err := checkTriggerList(root, ""); err != nil {
		return nil, err
	}

	var out []*section

	for _, p := range root.Pairs {
		name := p.Key.Value
		if e.table.IsTopLevelDirective(name) {
			continue
		}

		if !p.Value.IsMapping() {
			res.Diagnostics.AddInfo("not_a_section",
				fmt.Sprintf("%s value is not a mapping; left untouched", p.Value.Kind), name, "")

			continue
		}

		if key, ok := e.table.PlandoKey(p.Value); ok {
			return nil, &UnsupportedStructureError{Section: name, Key: key, Reason: "plando section"}
		}

		if err := checkTriggerList(p.Value, name); err != nil {
			return nil, err
		}

		out = append(out, &section{
			name:      name,
			node:      p.Value,
			synthetic: map[string]struct{}{},
			refs:      map[string]struct{}{},
		})
	}

	return out, nil
}

func (r *run) wrapSection(s *section, first bool) (map[string]*wrapper, error) {
	table := r.engine.table
	ws := map[string]*wrapper{}

	// A section's own triggers run after a prepended chain, too late to
	// merge into a wrapper it reads.
	var held map[string]struct{}
	if !first {
		held = ownMerges(s)
	}

	for _, p := range slices.Clone(s.node.Pairs) {
		key := p.Key.Value

		if table.IsGameDirective(key) {
			continue
		}

		if _, ok := s.refs[key]; ok {
			continue
		}

		if _, ok := held[key]; ok {
			continue
		}

		if pattern, ok := table.IgnoredBy(key); ok {
			if first && looksWeighted(p.Value) {
				conflict := &PolicyConflictError{Section: s.name, Key: key, Pattern: pattern.String()}
				r.res.Conflicts = append(r.res.Conflicts, conflict)
				r.res.Diagnostics.AddWarning("policy_conflict", conflict.Error(), s.name, key)
			}

			continue
		}

		if !p.Key.IsString() || strings.HasPrefix(key, "+") || strings.HasPrefix(key, "-") {
			if first {
				r.res.Diagnostics.AddInfo("unsupported_key", "option key is not a plain string", s.name, key)
			}

			continue
		}

		w, reason, ok := classify(p.Value)
		if !ok {
			if first {
				r.res.Diagnostics.AddInfo("not_weighted", reason, s.name, key)
			}

			continue
		}

		if clean, merged := r.merges[s][key]; merged && (!clean || !p.Value.IsMapping()) {
			if first {
				r.res.Diagnostics.AddInfo("merge_target",
					"a trigger merges a value into this option that cannot be carried by a wrapper", s.name, key)
			}

			continue
		}

		wr, err := r.wrap(s, p.Key, w)
		if err != nil {
			return nil, fmt.Errorf("wrapping %q in %q: %w", key, s.name, err)
		}

		ws[key] = wr
	}

	return ws, nil
}

func (r *run) wrap(s *section, keyNode *document.Node, w weightedOption) (*wrapper, error) {
	name, err := r.names.next()
	if err != nil {
		return nil, err
	}

	wr := &wrapper{
		section: s,
		option:  keyNode,
		name:    name,
		node:    document.NewMapping(),
		results: make(map[string]string, len(w.choices)),
	}

	for _, c := range w.choices {
		result, err := r.names.next()
		if err != nil {
			return nil, err
		}

		wr.node.Set(result, document.NewInt(c.weight))
		wr.results[c.label.Canonical()] = result
		s.pending = append(s.pending, newTrigger(s.name, name, result, keyNode, c.label))
	}

	r.res.TriggersAdded += len(w.choices)

	key := keyNode.Value
	if _, ok := s.synthetic[key]; ok {
		s.node.Delete(key)
		delete(s.synthetic, key)
	} else {
		s.node.Set(key, document.NewString(name))
		s.refs[key] = struct{}{}
		r.res.Wrapped[s.name] = append(r.res.Wrapped[s.name], key)
		r.engine.cfg.Logger.Printf("debug: %s/%s: %d choices moved behind a trigger chain", s.name, key, len(w.choices))
	}

	s.node.InsertBefore(policy.KeyTriggers, name, wr.node)
	s.synthetic[name] = struct{}{}

	return wr, nil
}

// resultFor returns the result name standing for label, adding a
// zero-weight result and its trigger when the label is not a choice of
// the wrapped option.
func (r *run) resultFor(wr *wrapper, label *document.Node) (string, error) {
	if result, ok := wr.results[label.Canonical()]; ok {
		return result, nil
	}

	result, err := r.names.next()
	if err != nil {
		return "", err
	}

	wr.node.Set(result, document.NewInt(0))
	wr.results[label.Canonical()] = result
	wr.section.pending = append(wr.section.pending,
		newTrigger(wr.section.name, wr.name, result, wr.option, label))
	r.res.TriggersAdded++

	return result, nil
}

// flush moves the round's triggers into the section's trigger list.
func (s *section) flush(appendAtEnd bool) {
	if len(s.pending) == 0 {
		return
	}

	list, ok := s.node.Get(policy.KeyTriggers)
	if !ok || !list.IsSequence() {
		list = document.NewSequence()
		s.node.Set(policy.KeyTriggers, list)
	}

	if appendAtEnd {
		list.Items = append(list.Items, s.pending...)
	} else {
		list.Items = append(s.pending, list.Items...)
	}

	s.pending = nil
}
