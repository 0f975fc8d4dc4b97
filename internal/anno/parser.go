// Package anno parses annotated source texts into annotation trees. An
// annotated text is prose with inline segment tags:
//
//	<proposition id="1" supports="2">Animals suffer.</proposition> Hence
//	<proposition id="2" argument_label="A1" ref_reco_label="2">we should
//	stop eating meat.</proposition>
//
// The markup is tag soup rather than a well-formed document, so parsing
// wraps the snippet in a synthetic root and decodes leniently.
package anno

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/arglint/arglint/internal/model"
)

// segmentElement is the one element the annotation schema defines.
const segmentElement = "proposition"

// schemaAttrs are the attributes a segment may legally carry. Anything
// else lands in ExtraAttrs for the rules to flag.
var schemaAttrs = map[string]bool{
	"id":             true,
	"supports":       true,
	"attacks":        true,
	"argument_label": true,
	"ref_reco_label": true,
}

// Parse builds an annotation tree from a tree-syntax snippet.
func Parse(code string) (*model.AnnotationTree, error) {
	dec := xml.NewDecoder(strings.NewReader("<doc>" + code + "</doc>"))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	tree := &model.AnnotationTree{}
	var text strings.Builder
	var stack []*model.Segment

	appendSegment := func(s *model.Segment) {
		if len(stack) == 0 {
			tree.Segments = append(tree.Segments, s)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, s)
		}
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed annotation markup: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(t.Name.Local)
			if name == "doc" {
				continue
			}
			if name != segmentElement {
				tree.ForeignElements = append(tree.ForeignElements, name)
				continue
			}
			seg := segmentFromAttrs(t.Attr)
			appendSegment(seg)
			stack = append(stack, seg)
		case xml.EndElement:
			if strings.ToLower(t.Name.Local) == segmentElement && len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			chunk := string(t)
			text.WriteString(chunk)
			for _, seg := range stack {
				seg.Text += chunk
			}
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("segment %q is never closed", stack[len(stack)-1].ID)
	}
	tree.Text = text.String()
	return tree, nil
}

// segmentFromAttrs builds a segment from its tag attributes. The supports
// and attacks attributes are whitespace-separated id lists.
func segmentFromAttrs(attrs []xml.Attr) *model.Segment {
	seg := &model.Segment{}
	for _, a := range attrs {
		switch strings.ToLower(a.Name.Local) {
		case "id":
			seg.ID = a.Value
		case "supports":
			seg.Supports = strings.Fields(a.Value)
		case "attacks":
			seg.Attacks = strings.Fields(a.Value)
		case "argument_label":
			seg.ArgumentLabel = a.Value
		case "ref_reco_label":
			seg.RefRecoLabel = a.Value
		default:
			if seg.ExtraAttrs == nil {
				seg.ExtraAttrs = make(map[string]string)
			}
			seg.ExtraAttrs[a.Name.Local] = a.Value
		}
	}
	return seg
}
