// Package rules is the structural rule engine for argument
// reconstructions. Every rule is a named check over a parsed argument
// graph with a three-valued outcome: it passes, it fails with a message,
// or it does not apply (because the material it would inspect is absent
// or an earlier stage left nothing usable). Rules are registered
// explicitly and grouped into named dimensions; the dimension tables are
// the single place a check is wired into a verification profile.
package rules

import (
	"context"
	"fmt"
	"sort"

	"github.com/arglint/arglint/internal/logic"
	"github.com/arglint/arglint/internal/model"
)

// Status is the three-valued result of one rule application.
type Status int

const (
	Pass Status = iota
	Fail
	NotApplicable
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	default:
		return "not applicable"
	}
}

// Outcome is a status plus the failure message, empty unless failing.
type Outcome struct {
	Status  Status
	Message string
}

// Passed is the passing outcome.
func Passed() Outcome { return Outcome{Status: Pass} }

// Failed builds a failing outcome.
func Failed(format string, args ...any) Outcome {
	return Outcome{Status: Fail, Message: fmt.Sprintf(format, args...)}
}

// Skipped is the not-applicable outcome.
func Skipped() Outcome { return Outcome{Status: NotApplicable} }

// Scope states what a rule inspects: one argument at a time, or the
// snippet as a whole.
type Scope int

const (
	ScopeArgument Scope = iota
	ScopeGraph
)

// Config carries the metadata key names rules read. Plain data; callers
// decide the conventions.
type Config struct {
	Keys logic.Keys

	// Cache, when set, memoizes collected formalizations so every rule
	// in a battery run works from the same parse.
	Cache *logic.Cache
}

// Formalize collects the argument's formalizations, through the cache
// when one is set.
func (c Config) Formalize(g *model.ArgumentGraph, arg *model.Argument) *logic.ArgumentFormalization {
	if c.Cache != nil {
		return c.Cache.Collect(g, arg)
	}
	return logic.Collect(g, arg, c.Keys)
}

// DefaultConfig uses the conventional key names.
func DefaultConfig() Config { return Config{Keys: logic.DefaultKeys()} }

// CheckFunc evaluates one rule. arg is nil for graph-scoped rules.
type CheckFunc func(ctx context.Context, g *model.ArgumentGraph, arg *model.Argument, cfg Config) Outcome

// Rule is one registered check.
type Rule struct {
	ID    string
	Scope Scope
	Check CheckFunc
}

// Registry maps rule ids to rules. Registration is explicit; looking up
// an unregistered id is an error, not a silent skip.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds a rule. Re-registering an id is a wiring bug.
func (r *Registry) Register(rule Rule) error {
	if rule.ID == "" {
		return fmt.Errorf("rule has no id")
	}
	if rule.Check == nil {
		return fmt.Errorf("rule %s has no check function", rule.ID)
	}
	if _, exists := r.rules[rule.ID]; exists {
		return fmt.Errorf("rule %s registered twice", rule.ID)
	}
	r.rules[rule.ID] = rule
	return nil
}

// MustRegister registers rules and panics on a wiring bug. Used for the
// built-in rule sets, which are assembled at startup.
func (r *Registry) MustRegister(rules ...Rule) {
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			panic(err)
		}
	}
}

// Rule returns the rule with the given id.
func (r *Registry) Rule(id string) (Rule, bool) {
	rule, ok := r.rules[id]
	return rule, ok
}

// IDs returns all registered rule ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
