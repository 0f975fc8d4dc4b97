package solver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   Outcome
		wantOK bool
	}{
		{"unsat", "unsat\n", Unsat, true},
		{"sat", "sat\n", Sat, true},
		{"unknown", "unknown\n", Unknown, true},
		{"verdict after diagnostics", "(error \"line 3\")\nsat\n", Sat, true},
		{"first verdict wins", "unsat\nsat\n", Unsat, true},
		{"whitespace tolerated", "  unsat  \n", Unsat, true},
		{"no verdict", "(error \"parser error\")\n", "", false},
		{"empty output", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseVerdict(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// fakeSolver writes an executable that ignores its input and prints the
// given output, so the exec path can be tested without a real z3.
func fakeSolver(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake solver scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fakez3")
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755)
	require.NoError(t, err)
	return path
}

func TestZ3_Prove_Unsat(t *testing.T) {
	z := &Z3{Path: fakeSolver(t, "cat >/dev/null\necho unsat\n")}

	res, err := z.Prove(context.Background(), "(check-sat)\n")
	require.NoError(t, err)
	assert.Equal(t, Unsat, res.Outcome)
	assert.Contains(t, res.Raw, "unsat")
}

func TestZ3_Prove_VerdictDespiteNonZeroExit(t *testing.T) {
	z := &Z3{Path: fakeSolver(t, "cat >/dev/null\necho sat\nexit 1\n")}

	res, err := z.Prove(context.Background(), "(check-sat)\n")
	require.NoError(t, err)
	assert.Equal(t, Sat, res.Outcome)
}

func TestZ3_Prove_BinaryMissing(t *testing.T) {
	z := &Z3{Path: filepath.Join(t.TempDir(), "no-such-solver")}

	_, err := z.Prove(context.Background(), "(check-sat)\n")
	require.Error(t, err)
	var serr *SolverError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, ErrCodeUnavailable, serr.Code)
}

func TestZ3_Prove_NoVerdict(t *testing.T) {
	z := &Z3{Path: fakeSolver(t, "cat >/dev/null\necho '(error \"boom\")'\n")}

	_, err := z.Prove(context.Background(), "(check-sat)\n")
	require.Error(t, err)
	var serr *SolverError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, ErrCodeBadOutput, serr.Code)
}

func TestZ3_Prove_Timeout(t *testing.T) {
	z := &Z3{
		Path:    fakeSolver(t, "sleep 5\necho unsat\n"),
		Timeout: 50 * time.Millisecond,
	}

	_, err := z.Prove(context.Background(), "(check-sat)\n")
	require.Error(t, err)
	var serr *SolverError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, ErrCodeTimeout, serr.Code)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
