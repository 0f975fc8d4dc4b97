package coherence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arglint/arglint/internal/anno"
	"github.com/arglint/arglint/internal/argdown"
	"github.com/arglint/arglint/internal/model"
	"github.com/arglint/arglint/internal/verify"
)

// segmentIndex resolves annotation segments into the reconstruction:
// which argument each segment is assigned to, which sequence item it
// references, and which proposition that item denotes.
type segmentIndex struct {
	ids           []string
	argumentLabel map[string]string
	refRecoLabel  map[string]string
	propLabel     map[string]string
}

func indexSegments(recoG *model.ArgumentGraph, tree *model.AnnotationTree) segmentIndex {
	idx := segmentIndex{
		ids:           tree.SegmentIDs(),
		argumentLabel: map[string]string{},
		refRecoLabel:  map[string]string{},
		propLabel:     map[string]string{},
	}
	for _, seg := range tree.AllSegments() {
		if seg.ID == "" || seg.ArgumentLabel == "" {
			continue
		}
		arg := recoG.Argument(seg.ArgumentLabel)
		if arg == nil {
			continue
		}
		idx.argumentLabel[seg.ID] = seg.ArgumentLabel
		if seg.RefRecoLabel == "" {
			continue
		}
		idx.refRecoLabel[seg.ID] = seg.RefRecoLabel
		if it, ok := arg.Item(seg.RefRecoLabel); ok {
			idx.propLabel[seg.ID] = it.PropLabel
		}
	}
	return idx
}

// AnnoRecoElems checks the element-level correspondence between an
// annotation and the reconstructions: argument_label and ref_reco_label
// references must resolve, every argument must be annotated somewhere,
// and the propositions' annotation_ids must point back at existing,
// consistently assigned segments.
func AnnoRecoElems(recoFilter, annoFilter verify.ArtifactFilter) *PairHandler {
	return &PairHandler{
		id:        "anno_reco_elem_coherence",
		first:     recoFilter,
		second:    annoFilter,
		separator: " - ",
		check: func(first, second *verify.Artifact) []string {
			return annoRecoElems(argdown.Graph(first), anno.Tree(second))
		},
	}
}

func annoRecoElems(recoG *model.ArgumentGraph, tree *model.AnnotationTree) []string {
	if recoG == nil || tree == nil {
		return nil
	}
	idx := indexSegments(recoG, tree)
	var msgs []string

	for _, seg := range tree.AllSegments() {
		if seg.ArgumentLabel == "" || recoG.Argument(seg.ArgumentLabel) == nil {
			msgs = append(msgs, fmt.Sprintf(
				"Illegal 'argument_label' reference of proposition element with id=%s: "+
					"No argument with label '%s' in the Argdown snippet.", seg.ID, seg.ArgumentLabel))
			continue
		}
		if seg.ID == "" || seg.RefRecoLabel == "" {
			continue
		}
		arg := recoG.Argument(seg.ArgumentLabel)
		it, ok := arg.Item(seg.RefRecoLabel)
		if !ok {
			msgs = append(msgs, fmt.Sprintf(
				"Illegal 'ref_reco_label' reference of proposition element with id=%s: "+
					"No premise or conclusion with label '%s' in argument '%s'.",
				seg.ID, seg.RefRecoLabel, seg.ArgumentLabel))
			continue
		}
		prop := recoG.ItemProposition(it)
		if prop == nil {
			continue
		}
		refs, _ := annotationIDs(prop.Data)
		if !containsString(refs, seg.ID) {
			msgs = append(msgs, fmt.Sprintf(
				"Label reference mismatch: proposition element with id=%s in the annotation "+
					"references (via ref_reco) the proposition '%s' of argument '%s', but the "+
					"annotation_ids=%v of that proposition do not include the id=%s.",
				seg.ID, it.Label, arg.Label, refs, seg.ID))
		}
	}

	assigned := map[string]bool{}
	for _, label := range idx.argumentLabel {
		assigned[label] = true
	}
	for _, arg := range recoG.Arguments {
		if !assigned[arg.Label] {
			msgs = append(msgs, fmt.Sprintf(
				"Free floating argument: Argument '%s' does not have any corresponding elements in the annotation.", arg.Label))
		}
		for _, it := range arg.PCS {
			prop := recoG.ItemProposition(it)
			if prop == nil {
				continue
			}
			refs, present := annotationIDs(prop.Data)
			if !present {
				msgs = append(msgs, fmt.Sprintf(
					"Missing 'annotation_ids' attribute in proposition '%s' of argument '%s'.", it.Label, arg.Label))
				continue
			}
			for _, ref := range refs {
				if !containsString(idx.ids, ref) {
					msgs = append(msgs, fmt.Sprintf(
						"Illegal 'annotation_ids' reference in proposition '%s' of argument '%s': "+
							"No proposition element with id='%s' in the annotation.", it.Label, arg.Label, ref))
				}
			}
		}
	}

	// One text segment must not be claimed by two distinct propositions.
	for i := 0; i < len(recoG.Propositions); i++ {
		for j := i + 1; j < len(recoG.Propositions); j++ {
			refs1, _ := annotationIDs(recoG.Propositions[i].Data)
			refs2, _ := annotationIDs(recoG.Propositions[j].Data)
			var shared []string
			for _, r := range refs1 {
				if containsString(refs2, r) {
					shared = append(shared, "'"+r+"'")
				}
			}
			if len(shared) > 0 {
				sort.Strings(shared)
				msgs = append(msgs, fmt.Sprintf(
					"Label reference mismatch: annotation text segment(s) %s are referenced by distinct "+
						"propositions in the Argdown argument reconstruction ('%s', '%s').",
					strings.Join(shared, ", "), recoG.Propositions[i].Label, recoG.Propositions[j].Label))
			}
		}
	}
	return msgs
}

// AnnoRecoRelations checks that annotated support and attack links are
// mirrored by the reconstructions: across arguments by a declared
// dialectical relation between the corresponding nodes, within one
// argument by the inference chain. Segments of the same argument cannot
// attack each other.
func AnnoRecoRelations(recoFilter, annoFilter verify.ArtifactFilter, fromKey string) *PairHandler {
	return &PairHandler{
		id:        "anno_reco_relation_coherence",
		first:     recoFilter,
		second:    annoFilter,
		separator: " - ",
		check: func(first, second *verify.Artifact) []string {
			return annoRecoRelations(argdown.Graph(first), anno.Tree(second), fromKey)
		},
	}
}

func annoRecoRelations(recoG *model.ArgumentGraph, tree *model.AnnotationTree, fromKey string) []string {
	if recoG == nil || tree == nil {
		return nil
	}
	idx := indexSegments(recoG, tree)
	var msgs []string

	for _, seg := range tree.AllSegments() {
		for _, to := range seg.Supports {
			if !containsString(idx.ids, to) {
				continue
			}
			msgs = append(msgs, checkAnnotatedSupport(recoG, idx, seg.ID, to, fromKey)...)
		}
		for _, to := range seg.Attacks {
			if !containsString(idx.ids, to) {
				continue
			}
			msgs = append(msgs, checkAnnotatedAttack(recoG, idx, seg.ID, to)...)
		}
	}
	return msgs
}

func checkAnnotatedSupport(recoG *model.ArgumentGraph, idx segmentIndex, fromID, toID, fromKey string) []string {
	argFrom, okFrom := idx.argumentLabel[fromID]
	argTo, okTo := idx.argumentLabel[toID]
	if !okFrom || !okTo {
		return []string{fmt.Sprintf(
			"Annotated support relation %s -> %s is not matched by any relation in the reconstruction (illegal argument_labels).",
			fromID, toID)}
	}
	if argFrom != argTo {
		if !relationMatches(recoG, idx, fromID, toID, model.Support) {
			return []string{fmt.Sprintf(
				"Proposition elements %s and %s are annotated to support each other, but none of the "+
					"corresponding Argdown elements <%s>/[%s] supports <%s> or [%s].",
				fromID, toID, argFrom, idx.propLabel[fromID], argTo, idx.propLabel[toID])}
		}
		return nil
	}
	arg := recoG.Argument(argFrom)
	refFrom, okFrom := idx.refRecoLabel[fromID]
	refTo, okTo := idx.refRecoLabel[toID]
	if arg == nil || !okFrom || !okTo {
		return nil
	}
	if !model.InferenceClosure(arg, refTo, fromKey)[refFrom] {
		return []string{fmt.Sprintf(
			"Annotated support relation %s -> %s is not matched by the inferential relations in the argument '%s'.",
			fromID, toID, arg.Label)}
	}
	return nil
}

func checkAnnotatedAttack(recoG *model.ArgumentGraph, idx segmentIndex, fromID, toID string) []string {
	argFrom, okFrom := idx.argumentLabel[fromID]
	argTo, okTo := idx.argumentLabel[toID]
	if !okFrom || !okTo {
		return []string{fmt.Sprintf(
			"Annotated attack relation from %s to %s is not matched by any relation in the reconstruction (illegal argument_labels).",
			fromID, toID)}
	}
	if argFrom == argTo {
		return []string{fmt.Sprintf(
			"Text segments assigned to the same argument cannot attack each other (%s attacks %s while both are assigned to %s).",
			fromID, toID, argFrom)}
	}
	if !relationMatches(recoG, idx, fromID, toID, model.Attack) {
		return []string{fmt.Sprintf(
			"Proposition elements %s and %s are annotated to attack each other, but none of the "+
				"corresponding Argdown elements <%s>/[%s] attacks <%s> or [%s].",
			fromID, toID, argFrom, idx.propLabel[fromID], argTo, idx.propLabel[toID])}
	}
	return nil
}

// relationMatches looks for a declared relation of the wanted valence
// between any combination of the two segments' argument and proposition
// counterparts.
func relationMatches(recoG *model.ArgumentGraph, idx segmentIndex, fromID, toID string, valence model.Valence) bool {
	sources := []string{idx.argumentLabel[fromID], idx.propLabel[fromID]}
	targets := []string{idx.argumentLabel[toID], idx.propLabel[toID]}
	for _, src := range sources {
		if src == "" {
			continue
		}
		for _, tgt := range targets {
			if tgt == "" {
				continue
			}
			for _, rel := range recoG.RelationsBetween(src, tgt) {
				if rel.Valence == valence {
					return true
				}
				if valence == model.Attack && rel.Valence == model.Contradict {
					return true
				}
			}
		}
	}
	return false
}
