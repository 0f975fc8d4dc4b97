// Package argdown parses graph-syntax snippets into argument graphs.
//
// The dialect covered here is the one verification artifacts use:
//
//	[claim]: text {data}
//	<Title>: gist
//	    <+ <Other>: supporting gist
//	(1) premise text {formalization: "p", declarations: {p: "..."}}
//	-- {from: ["1"]} --
//	(2) [claim]
//
// The parser is deliberately forgiving: structural defects (an argument
// without premises, a dangling inference reference) are left in the graph
// for the rule engine to report, not rejected here.
package argdown

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arglint/arglint/internal/model"
)

var (
	argumentRe = regexp.MustCompile(`^<([^<>:]+)>(?::\s*(.*))?$`)
	claimRe    = regexp.MustCompile(`^\[([^\[\]:]+)\](?::\s*(.*))?$`)
	pcsItemRe  = regexp.MustCompile(`^\((\w+)\)\s*(.*)$`)
	relationRe = regexp.MustCompile(`^(<\+|<-|\+>|->|><|\+|-)\s+(.*)$`)
)

// Parse builds an argument graph from a graph-syntax snippet.
func Parse(code string) (*model.ArgumentGraph, error) {
	p := &docParser{graph: &model.ArgumentGraph{}}
	if err := p.run(code); err != nil {
		return nil, err
	}
	return p.graph, nil
}

// stackEntry is one node on the indentation stack relation lines attach to.
type stackEntry struct {
	indent  int
	label   string
	isClaim bool
}

type docParser struct {
	graph *model.ArgumentGraph

	current   *model.Argument // argument whose sequence is being read
	pending   map[string]any  // inference data waiting for its conclusion
	inference []string        // lines of an open multi-line inference block
	stack     []stackEntry
	anonSeq   int
}

func (p *docParser) run(code string) error {
	for n, raw := range strings.Split(code, "\n") {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if err := p.line(indent, trimmed); err != nil {
			return fmt.Errorf("line %d: %w", n+1, err)
		}
	}
	if p.inference != nil {
		return fmt.Errorf("inference block is never closed")
	}
	return nil
}

func (p *docParser) line(indent int, trimmed string) error {
	if p.inference != nil {
		// Inside a multi-line inference block.
		if strings.HasSuffix(trimmed, "--") {
			p.inference = append(p.inference, strings.TrimSuffix(trimmed, "--"))
			return p.closeInference()
		}
		p.inference = append(p.inference, trimmed)
		return nil
	}

	switch {
	case strings.HasPrefix(trimmed, "--"):
		body := strings.TrimPrefix(trimmed, "--")
		if rest := strings.TrimSuffix(body, "--"); len(rest) < len(body) {
			p.inference = []string{rest}
			return p.closeInference()
		}
		p.inference = []string{body}
		return nil

	case pcsItemRe.MatchString(trimmed):
		return p.pcsItem(trimmed)

	case relationRe.MatchString(trimmed):
		return p.relation(indent, trimmed)

	default:
		return p.statement(indent, trimmed)
	}
}

// statement handles a top-level argument or claim line.
func (p *docParser) statement(indent int, trimmed string) error {
	text, data, err := splitInlineData(trimmed)
	if err != nil {
		return err
	}
	if m := argumentRe.FindStringSubmatch(text); m != nil {
		arg := p.ensureArgument(m[1])
		if gist := strings.TrimSpace(m[2]); gist != "" {
			arg.Gists = append(arg.Gists, gist)
		}
		arg.Data = mergeData(arg.Data, data)
		p.current = arg
		p.pending = nil
		p.setStack(indent, stackEntry{indent: indent, label: arg.Label})
		return nil
	}
	if m := claimRe.FindStringSubmatch(text); m != nil {
		prop := p.ensureProposition(m[1], strings.TrimSpace(m[2]))
		prop.Data = mergeData(prop.Data, data)
		p.current = nil
		p.pending = nil
		p.setStack(indent, stackEntry{indent: indent, label: prop.Label, isClaim: true})
		return nil
	}
	return fmt.Errorf("cannot parse statement %q", trimmed)
}

// pcsItem handles one numbered line of a premise-conclusion sequence.
func (p *docParser) pcsItem(trimmed string) error {
	m := pcsItemRe.FindStringSubmatch(trimmed)
	itemLabel, rest := m[1], m[2]
	text, data, err := splitInlineData(rest)
	if err != nil {
		return err
	}

	if p.current == nil {
		// Sequence without a preceding argument header. Attach it to an
		// unlabeled argument so the structural rules can report it.
		p.current = &model.Argument{}
		p.graph.Arguments = append(p.graph.Arguments, p.current)
	}

	var prop *model.Proposition
	if cm := claimRe.FindStringSubmatch(text); cm != nil {
		prop = p.ensureProposition(cm[1], strings.TrimSpace(cm[2]))
	} else {
		prop = p.propositionForText(text)
	}
	prop.Data = mergeData(prop.Data, data)

	item := model.PCSItem{
		Label:     itemLabel,
		PropLabel: prop.Label,
	}
	if p.pending != nil {
		item.Conclusion = true
		item.Inference = p.pending
		p.pending = nil
	}
	p.current.PCS = append(p.current.PCS, item)
	return nil
}

// closeInference parses an accumulated inference block's metadata and
// holds it for the next sequence item.
func (p *docParser) closeInference() error {
	joined := strings.TrimSpace(strings.Join(p.inference, " "))
	p.inference = nil
	data := map[string]any{}
	if start := strings.Index(joined, "{"); start >= 0 {
		if err := yaml.Unmarshal([]byte(joined[start:]), &data); err != nil {
			return fmt.Errorf("invalid inference metadata %q: %w", joined[start:], err)
		}
	}
	p.pending = data
	return nil
}

// relation handles an indented dialectical relation line. The partner node
// is the nearest stack entry with smaller indentation.
func (p *docParser) relation(indent int, trimmed string) error {
	m := relationRe.FindStringSubmatch(trimmed)
	symbol, rest := m[1], m[2]
	// Relation metadata is tolerated but carries no model content.
	text, _, err := splitInlineData(rest)
	if err != nil {
		return err
	}

	var child stackEntry
	if am := argumentRe.FindStringSubmatch(text); am != nil {
		arg := p.ensureArgument(am[1])
		if gist := strings.TrimSpace(am[2]); gist != "" {
			arg.Gists = append(arg.Gists, gist)
		}
		child = stackEntry{indent: indent, label: arg.Label}
	} else if cm := claimRe.FindStringSubmatch(text); cm != nil {
		prop := p.ensureProposition(cm[1], strings.TrimSpace(cm[2]))
		child = stackEntry{indent: indent, label: prop.Label, isClaim: true}
	} else {
		return fmt.Errorf("cannot parse relation target %q", text)
	}

	parent, ok := p.parentFor(indent)
	if !ok {
		return fmt.Errorf("relation %q has no parent node", trimmed)
	}

	var rel model.DialecticalRelation
	switch symbol {
	case "<+", "+":
		rel = model.DialecticalRelation{Source: child.label, Target: parent.label, Valence: model.Support}
	case "<-", "-":
		rel = model.DialecticalRelation{Source: child.label, Target: parent.label, Valence: model.Attack}
	case "+>":
		rel = model.DialecticalRelation{Source: parent.label, Target: child.label, Valence: model.Support}
	case "->":
		rel = model.DialecticalRelation{Source: parent.label, Target: child.label, Valence: model.Attack}
	case "><":
		rel = model.DialecticalRelation{Source: parent.label, Target: child.label, Valence: model.Contradict}
	}
	// A relation declared between two claims holds on its own authority;
	// anything involving an argument is a sketch to be backed by
	// reconstructions.
	if parent.isClaim && child.isClaim {
		rel.Grounding = model.Axiomatic
	} else {
		rel.Grounding = model.Sketched
	}
	p.graph.Relations = append(p.graph.Relations, rel)

	p.setStack(indent, child)
	return nil
}

// parentFor returns the deepest stack entry above the given indentation.
func (p *docParser) parentFor(indent int) (stackEntry, bool) {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].indent < indent {
			return p.stack[i], true
		}
	}
	return stackEntry{}, false
}

// setStack trims entries at or below the given indentation and pushes the
// new node.
func (p *docParser) setStack(indent int, e stackEntry) {
	for len(p.stack) > 0 && p.stack[len(p.stack)-1].indent >= indent {
		p.stack = p.stack[:len(p.stack)-1]
	}
	p.stack = append(p.stack, e)
}

func (p *docParser) ensureArgument(label string) *model.Argument {
	label = strings.TrimSpace(label)
	if arg := p.graph.Argument(label); arg != nil {
		return arg
	}
	arg := &model.Argument{Label: label}
	p.graph.Arguments = append(p.graph.Arguments, arg)
	return arg
}

func (p *docParser) ensureProposition(label, text string) *model.Proposition {
	label = strings.TrimSpace(label)
	prop := p.graph.Proposition(label)
	if prop == nil {
		prop = &model.Proposition{Label: label}
		p.graph.Propositions = append(p.graph.Propositions, prop)
	}
	if text != "" && !containsText(prop.Texts, text) {
		prop.Texts = append(prop.Texts, text)
	}
	return prop
}

// propositionForText resolves an unlabeled statement: identical wording
// refers to the same proposition, new wording mints an anonymous one.
func (p *docParser) propositionForText(text string) *model.Proposition {
	canonical := model.CanonicalText(text)
	for _, prop := range p.graph.Propositions {
		for _, t := range prop.Texts {
			if model.CanonicalText(t) == canonical {
				return prop
			}
		}
	}
	p.anonSeq++
	prop := &model.Proposition{Label: fmt.Sprintf("~prop_%03d", p.anonSeq)}
	if text != "" {
		prop.Texts = append(prop.Texts, text)
	}
	p.graph.Propositions = append(p.graph.Propositions, prop)
	return prop
}

// splitInlineData splits a trailing {...} YAML flow map off a statement.
func splitInlineData(s string) (string, map[string]any, error) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "}") {
		return s, nil, nil
	}
	depth := 0
	start := -1
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case '}':
			depth++
		case '{':
			depth--
			if depth == 0 {
				start = i
			}
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return s, nil, nil
	}
	var data map[string]any
	if err := yaml.Unmarshal([]byte(s[start:]), &data); err != nil {
		return s, nil, fmt.Errorf("invalid inline metadata %q: %w", s[start:], err)
	}
	return strings.TrimSpace(s[:start]), data, nil
}

func mergeData(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func containsText(texts []string, text string) bool {
	for _, t := range texts {
		if t == text {
			return true
		}
	}
	return false
}
