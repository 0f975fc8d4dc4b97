package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arglint/arglint/internal/model"
)

// AnnoCheckFunc evaluates one annotation rule against a parsed annotation
// tree and the unannotated source text.
type AnnoCheckFunc func(tree *model.AnnotationTree, source string) Outcome

// AnnoRule is one registered annotation check.
type AnnoRule struct {
	ID    string
	Check AnnoCheckFunc
}

// AnnotationRules returns the checks on argumentative annotations.
func AnnotationRules() []AnnoRule {
	return []AnnoRule{
		{ID: "source_text_unaltered", Check: sourceTextUnaltered},
		{ID: "no_nested_propositions", Check: noNestedPropositions},
		{ID: "proposition_ids_present", Check: propositionIDsPresent},
		{ID: "proposition_ids_unique", Check: propositionIDsUnique},
		{ID: "support_refs_exist", Check: supportRefsExist},
		{ID: "attack_refs_exist", Check: attackRefsExist},
		{ID: "no_unknown_attributes", Check: noUnknownAttributes},
		{ID: "no_unknown_elements", Check: noUnknownElements},
	}
}

// AnnotationDimensions maps annotation rules onto report dimensions,
// one rule per dimension.
func AnnotationDimensions() []Dimension {
	return []Dimension{
		{ID: "altered_source_text", RuleIDs: []string{"source_text_unaltered"}},
		{ID: "nested_propositions", RuleIDs: []string{"no_nested_propositions"}},
		{ID: "missing_id", RuleIDs: []string{"proposition_ids_present"}},
		{ID: "duplicate_id", RuleIDs: []string{"proposition_ids_unique"}},
		{ID: "invalid_support_ids", RuleIDs: []string{"support_refs_exist"}},
		{ID: "invalid_attack_ids", RuleIDs: []string{"attack_refs_exist"}},
		{ID: "unknown_attributes", RuleIDs: []string{"no_unknown_attributes"}},
		{ID: "unknown_elements", RuleIDs: []string{"no_unknown_elements"}},
	}
}

// RunAnnotationBattery evaluates the annotation dimension table. Each
// dimension lists annotation rule ids; the rule set is passed explicitly
// so profiles can trim or extend it.
func RunAnnotationBattery(annoRules []AnnoRule, dims []Dimension, tree *model.AnnotationTree, source string) ([]DimensionResult, error) {
	byID := make(map[string]AnnoRule, len(annoRules))
	for _, r := range annoRules {
		byID[r.ID] = r
	}
	results := make([]DimensionResult, 0, len(dims))
	for _, dim := range dims {
		var msgs []string
		for _, id := range dim.RuleIDs {
			rule, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("dimension %s references unknown annotation rule %s", dim.ID, id)
			}
			if out := rule.Check(tree, source); out.Status == Fail {
				msgs = append(msgs, failureMessage(out, id))
			}
		}
		results = append(results, DimensionResult{
			Dimension: dim.ID,
			Passed:    len(msgs) == 0,
			Message:   strings.Join(msgs, " "),
		})
	}
	return results, nil
}

// sourceTextUnaltered checks that stripping the annotations reproduces
// the source text, whitespace aside.
func sourceTextUnaltered(tree *model.AnnotationTree, source string) Outcome {
	if source == "" {
		return Skipped()
	}
	got := model.CanonicalText(tree.Text)
	want := model.CanonicalText(source)
	if got != want {
		return Failed("Source text was altered. Expected %q, got %q.", truncate(want, 120), truncate(got, 120))
	}
	return Passed()
}

func noNestedPropositions(tree *model.AnnotationTree, _ string) Outcome {
	var nested []string
	for _, seg := range tree.AllSegments() {
		if len(seg.Children) > 0 {
			nested = append(nested, fmt.Sprintf("'%s'", segmentRef(seg)))
		}
	}
	if len(nested) > 0 {
		return Failed("Nested annotations in proposition(s) %s.", strings.Join(nested, ", "))
	}
	return Passed()
}

func propositionIDsPresent(tree *model.AnnotationTree, _ string) Outcome {
	var missing []string
	for _, seg := range tree.AllSegments() {
		if seg.ID == "" {
			missing = append(missing, fmt.Sprintf("'%s'", truncate(seg.Text, 64)))
		}
	}
	if len(missing) > 0 {
		return Failed("Missing id in proposition(s) %s.", strings.Join(missing, ", "))
	}
	return Passed()
}

func propositionIDsUnique(tree *model.AnnotationTree, _ string) Outcome {
	counts := make(map[string]int)
	for _, id := range tree.SegmentIDs() {
		counts[id]++
	}
	var dups []string
	for _, id := range tree.SegmentIDs() {
		if counts[id] > 1 {
			counts[id] = 0
			dups = append(dups, id)
		}
	}
	if len(dups) > 0 {
		return Failed("Duplicate ids: %s.", strings.Join(dups, ", "))
	}
	return Passed()
}

func supportRefsExist(tree *model.AnnotationTree, _ string) Outcome {
	return refsExist(tree, "Supported", func(s *model.Segment) []string { return s.Supports })
}

func attackRefsExist(tree *model.AnnotationTree, _ string) Outcome {
	return refsExist(tree, "Attacked", func(s *model.Segment) []string { return s.Attacks })
}

func refsExist(tree *model.AnnotationTree, role string, refs func(*model.Segment) []string) Outcome {
	known := make(map[string]bool)
	for _, id := range tree.SegmentIDs() {
		known[id] = true
	}
	var msgs []string
	for _, seg := range tree.AllSegments() {
		for _, ref := range refs(seg) {
			if !known[ref] {
				msgs = append(msgs, fmt.Sprintf(
					"%s proposition with id '%s' in proposition '%s' does not exist.",
					role, ref, segmentRef(seg)))
			}
		}
	}
	if len(msgs) > 0 {
		return Failed("%s", strings.Join(msgs, " "))
	}
	return Passed()
}

func noUnknownAttributes(tree *model.AnnotationTree, _ string) Outcome {
	var msgs []string
	for _, seg := range tree.AllSegments() {
		attrs := make([]string, 0, len(seg.ExtraAttrs))
		for attr := range seg.ExtraAttrs {
			attrs = append(attrs, attr)
		}
		sort.Strings(attrs)
		for _, attr := range attrs {
			msgs = append(msgs, fmt.Sprintf("Unknown attribute '%s' in proposition '%s'.", attr, segmentRef(seg)))
		}
	}
	if len(msgs) > 0 {
		return Failed("%s", strings.Join(msgs, " "))
	}
	return Passed()
}

func noUnknownElements(tree *model.AnnotationTree, _ string) Outcome {
	if len(tree.ForeignElements) > 0 {
		return Failed("Unknown element(s): %s.", strings.Join(tree.ForeignElements, ", "))
	}
	return Passed()
}

func segmentRef(seg *model.Segment) string {
	if seg.ID != "" {
		return seg.ID
	}
	return truncate(seg.Text, 64)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
