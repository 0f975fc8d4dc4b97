package solver

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single solver query.
const DefaultTimeout = 10 * time.Second

// Z3 is a Prover backed by the z3 binary. Programs are fed on stdin; the
// verdict is the first sat/unsat/unknown line of the output.
type Z3 struct {
	// Path is the solver executable. Defaults to "z3" on PATH.
	Path string

	// Timeout bounds each query. Zero means DefaultTimeout.
	Timeout time.Duration
}

// NewZ3 returns a Z3 prover with default binary path and timeout.
func NewZ3() *Z3 {
	return &Z3{}
}

// Prove runs the program through z3 and parses the verdict.
func (z *Z3) Prove(ctx context.Context, program string) (Result, error) {
	path := z.Path
	if path == "" {
		path = "z3"
	}
	timeout := z.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "-smt2", "-in")
	cmd.Stdin = strings.NewReader(program)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	raw := out.String()
	slog.Debug("solver query finished",
		"solver", path,
		"duration", time.Since(start),
		"output_bytes", len(raw))

	if ctx.Err() != nil {
		return Result{Raw: raw}, &SolverError{
			Code:    ErrCodeTimeout,
			Message: "query exceeded time budget",
			Output:  raw,
			Err:     ctx.Err(),
		}
	}
	if err != nil {
		// z3 exits non-zero on malformed programs but still prints a
		// verdict line for partially usable input; trust the verdict
		// when one is present.
		if outcome, ok := parseVerdict(raw); ok {
			return Result{Outcome: outcome, Raw: raw}, nil
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return Result{Raw: raw}, &SolverError{
				Code:    ErrCodeUnavailable,
				Message: "solver binary could not be run",
				Output:  raw,
				Err:     err,
			}
		}
		return Result{Raw: raw}, &SolverError{
			Code:    ErrCodeBadOutput,
			Message: "solver failed without verdict",
			Output:  raw,
			Err:     err,
		}
	}

	outcome, ok := parseVerdict(raw)
	if !ok {
		return Result{Raw: raw}, &SolverError{
			Code:    ErrCodeBadOutput,
			Message: "no sat/unsat/unknown line in solver output",
			Output:  raw,
		}
	}
	return Result{Outcome: outcome, Raw: raw}, nil
}

// parseVerdict scans the output for the first verdict line.
func parseVerdict(raw string) (Outcome, bool) {
	for _, line := range strings.Split(raw, "\n") {
		switch strings.TrimSpace(line) {
		case "unsat":
			return Unsat, true
		case "sat":
			return Sat, true
		case "unknown":
			return Unknown, true
		}
	}
	return "", false
}
