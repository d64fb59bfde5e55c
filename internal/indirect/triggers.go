package indirect

import (
	"fmt"
	"strings"

	"apobfuscate/internal/document"
	"apobfuscate/internal/match"
	"apobfuscate/internal/policy"
)

// newTrigger builds a trigger that, when option in category rolls result,
// sets target to label.
func newTrigger(category, option, result string, target, label *document.Node) *document.Node {
	assign := document.NewMapping()
	assign.SetNode(target.Clone(), label.Clone())

	options := document.NewMapping()
	options.Set(category, assign)

	t := document.NewMapping()
	t.Set(policy.KeyOptionCategory, document.NewString(category))
	t.Set(policy.KeyOptionName, document.NewString(option))
	t.Set(policy.KeyOptionResult, document.NewString(result))
	t.Set(policy.KeyOptions, options)

	return t
}

// triggerItems returns the entries of n's trigger list.
func triggerItems(n *document.Node) []*document.Node {
	list, ok := n.Get(policy.KeyTriggers)
	if !ok || !list.IsSequence() {
		return nil
	}

	return list.Items
}

func checkTriggerList(n *document.Node, sectionName string) error {
	list, ok := n.Get(policy.KeyTriggers)
	if !ok || list.IsSequence() || (list.IsScalar() && list.Scalar == document.ScalarNull) {
		return nil
	}

	return &UnsupportedStructureError{
		Section: sectionName,
		Key:     policy.KeyTriggers,
		Reason:  "trigger list is a " + list.Kind.String() + ", not a sequence",
	}
}

// rewriteTrigger points an existing trigger at this round's wrappers. A
// trigger reading a wrapped option reads the wrapper instead, with its
// result translated; a trigger writing a wrapped option writes the wrapper.
// Merge keys keep their "+" or "-" prefix and merge into the wrapper's
// weights. Wrappers of skip are left alone.
func (r *run) rewriteTrigger(t *document.Node, wrapped map[string]map[string]*wrapper, skip *section) error {
	if !t.IsMapping() {
		return nil
	}

	changed := false

	if wr := lookupRead(t, wrapped); wr != nil && wr.section != skip {
		t.Set(policy.KeyOptionName, document.NewString(wr.name))

		if result, ok := t.Get(policy.KeyOptionResult); ok {
			renamed, err := r.renameLabels(wr, result)
			if err != nil {
				return err
			}

			t.Set(policy.KeyOptionResult, renamed)
		}

		changed = true
	}

	if options, ok := t.Get(policy.KeyOptions); ok && options.IsMapping() {
		for _, p := range options.Pairs {
			ws, ok := wrapped[p.Key.Value]
			if !ok || !p.Key.IsString() || !p.Value.IsMapping() {
				continue
			}

			for i := range p.Value.Pairs {
				q := &p.Value.Pairs[i]
				if !q.Key.IsString() {
					continue
				}

				prefix, name := splitMerge(q.Key.Value)

				wr, ok := ws[name]
				if !ok || wr.section == skip || (prefix != "" && !q.Value.IsMapping()) {
					continue
				}

				renamed, err := r.renameLabels(wr, q.Value)
				if err != nil {
					return err
				}

				q.Key = document.NewString(prefix + wr.name)
				q.Value = renamed
				changed = true
			}
		}
	}

	if changed {
		r.res.TriggersRewritten++
	}

	return nil
}

// splitMerge separates a "+" or "-" merge prefix from an option name.
func splitMerge(key string) (prefix, name string) {
	if strings.HasPrefix(key, "+") || strings.HasPrefix(key, "-") {
		return key[:1], key[1:]
	}

	return "", key
}

// collectMerges records every option a user trigger merges into.
func collectMerges(triggers []userTrigger, sections []*section) map[*section]map[string]bool {
	byName := make(map[string]*section, len(sections))
	for _, s := range sections {
		byName[s.name] = s
	}

	out := map[*section]map[string]bool{}

	for _, t := range triggers {
		options, ok := t.node.Get(policy.KeyOptions)
		if !t.node.IsMapping() || !ok || !options.IsMapping() {
			continue
		}

		for _, p := range options.Pairs {
			s, known := byName[p.Key.Value]
			if !known || !p.Value.IsMapping() {
				continue
			}

			for _, q := range p.Value.Pairs {
				prefix, name := splitMerge(q.Key.Value)
				if prefix == "" {
					continue
				}

				if out[s] == nil {
					out[s] = map[string]bool{}
				}

				clean, seen := out[s][name]
				out[s][name] = q.Value.IsMapping() && (clean || !seen)
			}
		}
	}

	return out
}

// ownMerges returns the options that triggers in s's own list merge into.
func ownMerges(s *section) map[string]struct{} {
	out := map[string]struct{}{}

	for _, t := range triggerItems(s.node) {
		options, ok := t.Get(policy.KeyOptions)
		if !ok || !options.IsMapping() {
			continue
		}

		own, ok := options.Get(s.name)
		if !ok || !own.IsMapping() {
			continue
		}

		for _, q := range own.Pairs {
			if prefix, name := splitMerge(q.Key.Value); prefix != "" {
				out[name] = struct{}{}
			}
		}
	}

	return out
}

// renameLabels translates a value meant for the original option into one
// for its wrapper. A scalar becomes the matching result name; a weight
// table keeps its weights under result-name keys.
func (r *run) renameLabels(wr *wrapper, v *document.Node) (*document.Node, error) {
	switch {
	case v.IsScalar():
		result, err := r.resultFor(wr, v)
		if err != nil {
			return nil, err
		}

		return document.NewString(result), nil

	case v.IsMapping():
		out := document.NewMapping()

		for _, p := range v.Pairs {
			result, err := r.resultFor(wr, p.Key)
			if err != nil {
				return nil, err
			}

			out.Set(result, p.Value.Clone())
		}

		return out, nil

	default:
		return v, nil
	}
}

// lintTriggers warns about user triggers naming options that their game
// section does not define.
func (r *run) lintTriggers(triggers []userTrigger, sections []*section) {
	byName := make(map[string]*section, len(sections))
	for _, s := range sections {
		byName[s.name] = s
	}

	for _, ut := range triggers {
		t := ut.node
		if !t.IsMapping() {
			continue
		}

		category, ok := t.Get(policy.KeyOptionCategory)
		if ok && category.IsString() {
			name, named := t.Get(policy.KeyOptionName)
			if s, known := byName[category.Value]; known && named && name.IsString() {
				r.checkOption(s, name.Value)
			}
		}

		options, ok := t.Get(policy.KeyOptions)
		if !ok || !options.IsMapping() {
			continue
		}

		for _, p := range options.Pairs {
			s, known := byName[p.Key.Value]
			if !known || !p.Value.IsMapping() {
				continue
			}

			for _, q := range p.Value.Pairs {
				r.checkOption(s, strings.TrimLeft(q.Key.Value, "+-"))
			}
		}
	}
}

func (r *run) checkOption(s *section, option string) {
	if s.node.Has(option) {
		return
	}

	msg := fmt.Sprintf("trigger refers to option %q, which the section does not define", option)
	if suggestion, ok := match.Suggest(option, s.node.Keys(), match.DefaultMinScore); ok {
		msg += fmt.Sprintf("; did you mean %q?", suggestion)
	}

	r.res.Diagnostics.AddWarning("unknown_option", msg, s.name, option)
}
