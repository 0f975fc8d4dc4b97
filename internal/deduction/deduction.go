// Package deduction provides the prover-backed rules: deductive validity
// of an argument globally and per sub-inference, premise relevance,
// premise consistency, and formal grounding of declared dialectical
// relations. Each check renders an SMT-LIB program and asks an external
// prover whether its refutation is satisfiable; failure messages carry
// the program text so a reader can replay the query.
package deduction

import (
	"context"
	"fmt"
	"strings"

	"github.com/arglint/arglint/internal/logic"
	"github.com/arglint/arglint/internal/model"
	"github.com/arglint/arglint/internal/rules"
	"github.com/arglint/arglint/internal/solver"
)

// Rules returns the logical rule set, closed over the given prover. The
// rule ids match the entries of the logical dimension tables.
func Rules(p solver.Prover) []rules.Rule {
	return []rules.Rule{
		{ID: "is_globally_deductively_valid", Scope: rules.ScopeArgument, Check: globallyValid(p)},
		{ID: "is_locally_deductively_valid", Scope: rules.ScopeArgument, Check: locallyValid(p)},
		{ID: "all_premises_relevant", Scope: rules.ScopeArgument, Check: premisesRelevant(p)},
		{ID: "premises_consistent", Scope: rules.ScopeArgument, Check: premisesConsistent(p)},
		{ID: "relations_formally_grounded", Scope: rules.ScopeGraph, Check: relationsGrounded(p)},
	}
}

// entails asks the prover whether the premises deductively entail the
// conclusion. The rendered program is returned either way so failing
// rules can include it in their message.
func entails(ctx context.Context, p solver.Prover, premises []logic.LabeledExpr, conclusion logic.LabeledExpr, decls []logic.Declaration) (bool, string, error) {
	program := logic.Program(premises, conclusion, decls)
	res, err := p.Prove(ctx, program)
	if err != nil {
		return false, program, err
	}
	// An unknown verdict does not establish entailment.
	return res.Outcome == solver.Unsat, program, nil
}

func globallyValid(p solver.Prover) rules.CheckFunc {
	return func(ctx context.Context, g *model.ArgumentGraph, arg *model.Argument, cfg rules.Config) rules.Outcome {
		if len(arg.PCS) == 0 {
			return rules.Skipped()
		}
		af := cfg.Formalize(g, arg)
		if !af.HasExpressions() {
			// Nothing parsed at all; the formalization check reports that.
			return rules.Skipped()
		}
		premises := af.Premises()
		conclusion, ok := af.FinalConclusion()
		if len(premises) == 0 || !ok {
			return rules.Failed("Failed to evaluate global deductive validity due to missing or flawed formalizations.")
		}
		valid, program, err := entails(ctx, p, premises, conclusion, af.Declarations)
		if err != nil {
			return rules.Failed("Failed to evaluate global deductive validity: %v.", err)
		}
		if !valid {
			return rules.Failed(
				"According to the provided formalizations, the argument is not deductively valid. "+
					"SMT program used to check validity:\n %s\n", program)
		}
		return rules.Passed()
	}
}

func locallyValid(p solver.Prover) rules.CheckFunc {
	return func(ctx context.Context, g *model.ArgumentGraph, arg *model.Argument, cfg rules.Config) rules.Outcome {
		if len(arg.PCS) == 0 {
			return rules.Skipped()
		}
		af := cfg.Formalize(g, arg)
		if !af.HasExpressions() {
			return rules.Skipped()
		}
		var msgs []string
		for _, item := range arg.PCS {
			if !item.Conclusion {
				continue
			}
			var premises []logic.LabeledExpr
			for _, label := range item.From(cfg.Keys.From) {
				if expr, ok := af.ItemExpr(label); ok {
					premises = append(premises, logic.LabeledExpr{Label: label, Expr: expr})
				}
			}
			conclExpr, ok := af.ItemExpr(item.Label)
			if len(premises) == 0 || !ok {
				msgs = append(msgs, fmt.Sprintf(
					"Failed to evaluate deductive validity of sub-inference to (%s) "+
						"due to missing or flawed formalizations or inference info.", item.Label))
				continue
			}
			conclusion := logic.LabeledExpr{Label: item.Label, Expr: conclExpr}
			valid, program, err := entails(ctx, p, premises, conclusion, af.Declarations)
			if err != nil {
				msgs = append(msgs, fmt.Sprintf(
					"Failed to evaluate deductive validity of sub-inference to (%s): %v.", item.Label, err))
				continue
			}
			if !valid {
				msgs = append(msgs, fmt.Sprintf(
					"According to the provided formalizations and inference info, the sub-inference "+
						"to conclusion (%s) is not deductively valid. "+
						"SMT program used to check validity of this sub-inference:\n %s\n", item.Label, program))
			}
		}
		if len(msgs) > 0 {
			return rules.Failed("%s", strings.Join(msgs, "\n"))
		}
		return rules.Passed()
	}
}

func premisesRelevant(p solver.Prover) rules.CheckFunc {
	return func(ctx context.Context, g *model.ArgumentGraph, arg *model.Argument, cfg rules.Config) rules.Outcome {
		if len(arg.PCS) == 0 {
			return rules.Skipped()
		}
		af := cfg.Formalize(g, arg)
		if !af.HasExpressions() {
			return rules.Skipped()
		}
		premises := af.Premises()
		conclusion, ok := af.FinalConclusion()
		if len(premises) == 0 || !ok {
			return rules.Failed("Failed to evaluate logical relevance of premises due to missing or flawed formalizations.")
		}
		if len(premises) == 1 {
			// A single premise is relevant unless the conclusion is a
			// tautology, which we give the benefit of the doubt.
			return rules.Passed()
		}
		var msgs []string
		for i := range premises {
			subset := make([]logic.LabeledExpr, 0, len(premises)-1)
			subset = append(subset, premises[:i]...)
			subset = append(subset, premises[i+1:]...)
			valid, program, err := entails(ctx, p, subset, conclusion, af.Declarations)
			if err != nil {
				msgs = append(msgs, fmt.Sprintf(
					"Failed to evaluate relevance of premise (%s): %v.", premises[i].Label, err))
				continue
			}
			if valid {
				msgs = append(msgs, fmt.Sprintf(
					"According to the provided formalizations, premise (%s) is not required to logically "+
						"infer the final conclusion. SMT program used to check validity:\n %s\n", premises[i].Label, program))
			}
		}
		if len(msgs) > 0 {
			return rules.Failed("%s", strings.Join(msgs, "\n"))
		}
		return rules.Passed()
	}
}

func premisesConsistent(p solver.Prover) rules.CheckFunc {
	return func(ctx context.Context, g *model.ArgumentGraph, arg *model.Argument, cfg rules.Config) rules.Outcome {
		if len(arg.PCS) == 0 {
			return rules.Skipped()
		}
		af := cfg.Formalize(g, arg)
		if !af.HasExpressions() {
			return rules.Skipped()
		}
		premises := af.Premises()
		if len(premises) == 0 {
			return rules.Passed()
		}
		// The premises are inconsistent exactly if they entail the
		// negation of any one of them; the first will do.
		first := premises[0]
		negated := logic.LabeledExpr{Label: first.Label + "_neg", Expr: logic.Negated(first.Expr)}
		inconsistent, _, err := entails(ctx, p, premises, negated, af.Declarations)
		if err != nil {
			return rules.Failed("Failed to evaluate consistency of premises: %v.", err)
		}
		if inconsistent {
			return rules.Failed("According to the provided formalizations, the argument's premises are NOT logically consistent.")
		}
		return rules.Passed()
	}
}

// documentExpressions builds the document-wide proposition-label index of
// parsed formulas, plus the merged declarations, across every
// reconstructed argument. First declaration of a symbol wins; the
// per-argument collectors have already flagged conflicts.
func documentExpressions(g *model.ArgumentGraph, cfg rules.Config) (map[string]logic.Expr, []logic.Declaration) {
	exprs := make(map[string]logic.Expr)
	seen := make(map[string]bool)
	var decls []logic.Declaration
	for _, arg := range g.Arguments {
		if len(arg.PCS) == 0 {
			continue
		}
		af := cfg.Formalize(g, arg)
		for _, item := range af.Items {
			if item.Expr == nil {
				continue
			}
			if _, ok := exprs[item.Item.PropLabel]; !ok {
				exprs[item.Item.PropLabel] = item.Expr
			}
		}
		for _, d := range af.Declarations {
			if !seen[d.Symbol] {
				seen[d.Symbol] = true
				decls = append(decls, d)
			}
		}
	}
	return exprs, decls
}

func relationsGrounded(p solver.Prover) rules.CheckFunc {
	return func(ctx context.Context, g *model.ArgumentGraph, _ *model.Argument, cfg rules.Config) rules.Outcome {
		if len(g.Relations) == 0 {
			return rules.Passed()
		}
		exprs, decls := documentExpressions(g, cfg)
		if len(exprs) == 0 {
			return rules.Skipped()
		}
		var msgs []string
		for _, rel := range g.Relations {
			if rel.Grounding != model.Axiomatic {
				continue
			}
			src, okSrc := exprs[rel.Source]
			tgt, okTgt := exprs[rel.Target]
			if !okSrc || !okTgt {
				// Propositions outside any reconstruction are not checkable.
				continue
			}
			switch rel.Valence {
			case model.Support:
				entailed, program, err := entails(ctx, p,
					[]logic.LabeledExpr{{Label: "1", Expr: src}},
					logic.LabeledExpr{Label: "2", Expr: tgt}, decls)
				if err != nil {
					msgs = append(msgs, fmt.Sprintf("Failed to check support relation %s -> %s: %v.", rel.Source, rel.Target, err))
					continue
				}
				if !entailed {
					msgs = append(msgs, fmt.Sprintf(
						"According to the provided formalizations, proposition '%s' does not entail "+
							"the supported proposition '%s'. (SMT program used to check entailment:\n %s)",
						rel.Source, rel.Target, program))
				}
			case model.Attack:
				entailed, program, err := entails(ctx, p,
					[]logic.LabeledExpr{{Label: "1", Expr: src}},
					logic.LabeledExpr{Label: "2", Expr: logic.Negated(tgt)}, decls)
				if err != nil {
					msgs = append(msgs, fmt.Sprintf("Failed to check attack relation %s -> %s: %v.", rel.Source, rel.Target, err))
					continue
				}
				if !entailed {
					msgs = append(msgs, fmt.Sprintf(
						"According to the provided formalizations, proposition '%s' does not entail "+
							"the negation of the attacked proposition '%s'. (SMT program used to check contradiction:\n %s)",
						rel.Source, rel.Target, program))
				}
			case model.Contradict:
				forward, progForward, err := entails(ctx, p,
					[]logic.LabeledExpr{{Label: "1", Expr: src}},
					logic.LabeledExpr{Label: "2", Expr: logic.Negated(tgt)}, decls)
				if err != nil {
					msgs = append(msgs, fmt.Sprintf("Failed to check contradiction relation %s <-> %s: %v.", rel.Source, rel.Target, err))
					continue
				}
				backward, progBackward, err := entails(ctx, p,
					[]logic.LabeledExpr{{Label: "1", Expr: tgt}},
					logic.LabeledExpr{Label: "2", Expr: logic.Negated(src)}, decls)
				if err != nil {
					msgs = append(msgs, fmt.Sprintf("Failed to check contradiction relation %s <-> %s: %v.", rel.Source, rel.Target, err))
					continue
				}
				if !forward || !backward {
					msgs = append(msgs, fmt.Sprintf(
						"According to the provided formalizations, proposition '%s' is not the negation "+
							"of the proposition '%s', despite both being declared as contradictory. "+
							"(SMT programs used to check contradiction:\n%s\n-----\n%s)",
						rel.Source, rel.Target, progForward, progBackward))
				}
			}
		}
		if len(msgs) > 0 {
			return rules.Failed("%s", strings.Join(msgs, " "))
		}
		return rules.Passed()
	}
}
