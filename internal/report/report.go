// Package report turns the findings of a verification run into the
// dimension result schema and renders it deterministically for the CLI,
// the run log, and golden tests.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arglint/arglint/internal/verify"
)

// Entry is one checked dimension or checker with its verdict.
type Entry struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}

// Report is the complete outcome of one verification run.
type Report struct {
	Token   string  `json:"token"`
	Profile string  `json:"profile"`
	Valid   bool    `json:"valid"`
	Entries []Entry `json:"entries"`
}

// FromRequest aggregates a request's findings in recording order.
// Multiple findings by the same checker collapse into one entry; the
// entry fails if any of them failed, and failure messages concatenate.
func FromRequest(req *verify.Request, profile string) *Report {
	r := &Report{Token: req.Token, Profile: profile, Valid: true}
	index := map[string]int{}
	for _, f := range req.Findings {
		i, seen := index[f.Checker]
		if !seen {
			index[f.Checker] = len(r.Entries)
			r.Entries = append(r.Entries, Entry{Name: f.Checker, Passed: f.Valid, Message: f.Message})
			i = index[f.Checker]
		} else {
			e := &r.Entries[i]
			if !f.Valid {
				e.Passed = false
				if e.Message == "" {
					e.Message = f.Message
				} else if f.Message != "" {
					e.Message += " " + f.Message
				}
			}
		}
		if !r.Entries[i].Passed {
			r.Valid = false
		}
	}
	return r
}

// Text renders the report as aligned plain text, one line per entry.
func (r *Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s (%s)\n", r.Token, r.Profile)
	for _, e := range r.Entries {
		verdict := "PASS"
		if !e.Passed {
			verdict = "FAIL"
		}
		fmt.Fprintf(&b, "  [%s] %s", verdict, e.Name)
		if e.Message != "" {
			fmt.Fprintf(&b, ": %s", e.Message)
		}
		b.WriteString("\n")
	}
	if r.Valid {
		b.WriteString("result: valid\n")
	} else {
		b.WriteString("result: invalid\n")
	}
	return b.String()
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
