package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CanonicalText normalizes statement text for identity comparison:
// NFC normalization, whitespace folded to single spaces, surrounding
// whitespace dropped. Two propositions phrased with different line breaks
// or composed/decomposed code points compare equal after this.
func CanonicalText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// canonicalEach maps CanonicalText over a slice.
func canonicalEach(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = CanonicalText(t)
	}
	return out
}
