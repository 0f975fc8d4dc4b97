// Package extract pulls fenced code snippets out of an analyzed document
// and registers them as verification artifacts. A snippet's fence info
// line names its language and, optionally, a YAML flow map of metadata:
//
//	```argdown {filename: "reconstructions.ad"}
//	...
//	```
package extract

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arglint/arglint/internal/verify"
)

// languageKinds maps fence languages to artifact kinds. Unlisted
// languages are ignored; documents may contain unrelated snippets.
var languageKinds = map[string]verify.ArtifactKind{
	"argdown": verify.KindArgdown,
	"xml":     verify.KindXML,
}

// Handler extracts fenced snippets from the request source. Artifact IDs
// are deterministic per kind (argdown_001, xml_001, ...), so re-running
// extraction on the same source yields the same artifacts.
type Handler struct{}

func (Handler) Name() string { return "fenced_code_extractor" }

func (Handler) Handle(_ context.Context, req *verify.Request) error {
	artifacts, err := Blocks(req.Source)
	if err != nil {
		return err
	}
	req.Artifacts = append(req.Artifacts, artifacts...)
	return nil
}

// Blocks extracts every recognized fenced snippet from the document.
func Blocks(source string) ([]*verify.Artifact, error) {
	var artifacts []*verify.Artifact
	counters := make(map[verify.ArtifactKind]int)

	lines := strings.Split(source, "\n")
	i := 0
	for i < len(lines) {
		lang, meta := parseFence(lines[i])
		if lang == "" {
			i++
			continue
		}
		openLine := i
		var body []string
		i++
		closed := false
		for i < len(lines) {
			if strings.TrimSpace(lines[i]) == "```" {
				closed = true
				i++
				break
			}
			body = append(body, lines[i])
			i++
		}
		if !closed {
			return nil, fmt.Errorf("fence at line %d is never closed", openLine+1)
		}
		kind, ok := languageKinds[lang]
		if !ok {
			continue
		}
		counters[kind]++
		artifacts = append(artifacts, &verify.Artifact{
			ID:       fmt.Sprintf("%s_%03d", kind, counters[kind]),
			Kind:     kind,
			Code:     strings.Join(body, "\n"),
			Metadata: meta,
		})
	}
	return artifacts, nil
}

// parseFence reads a fence opening line. Returns the language ("" when the
// line opens no fence; "```" for an unlabeled fence) and the decoded
// metadata map. Metadata that decodes to nothing usable is dropped, not an
// error: snippet authors get fence metadata wrong routinely and the
// snippet itself is still worth verifying.
func parseFence(line string) (string, map[string]any) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "```") {
		return "", nil
	}
	info := strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
	if info == "" {
		return "```", nil
	}
	lang := info
	var metaRaw string
	if idx := strings.IndexAny(info, " \t{"); idx >= 0 {
		lang = strings.TrimSpace(info[:idx])
		metaRaw = strings.TrimSpace(info[idx:])
	}
	return lang, parseMetadata(metaRaw)
}

// parseMetadata decodes fence metadata, accepting a YAML flow map
// ({filename: "map.ad"}) as well as the attribute style some authors use
// ({filename="map.ad"}).
func parseMetadata(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var meta map[string]any
	if err := yaml.Unmarshal([]byte(raw), &meta); err == nil && meta != nil {
		return meta
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(raw, "{"), "}")
	meta = make(map[string]any)
	for _, part := range strings.Split(inner, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if key != "" {
			meta[key] = value
		}
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
