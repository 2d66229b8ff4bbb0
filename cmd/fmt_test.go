// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unformatted = "(define (sq x)\n(* x   x))\n"
const formatted = "(define (sq x)\n  (* x x))\n"

func TestFmtCommand(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		cmd := FmtCommand()
		cmd.SetIn(strings.NewReader(unformatted))
		stdout, _, err := executeCommand(t, cmd)
		require.NoError(t, err)
		assert.Equal(t, formatted, stdout)
	})
	t.Run("print", func(t *testing.T) {
		path := writeLisp(t, t.TempDir(), "sq.lisp", unformatted)
		stdout, _, err := executeCommand(t, FmtCommand(), path)
		require.NoError(t, err)
		assert.Equal(t, formatted, stdout)
	})
	t.Run("list", func(t *testing.T) {
		dir := t.TempDir()
		bad := writeLisp(t, dir, "bad.lisp", unformatted)
		writeLisp(t, dir, "good.lisp", formatted)
		stdout, _, err := executeCommand(t, FmtCommand(), "-l", dir+"/...")
		assert.ErrorIs(t, err, errReported)
		assert.Equal(t, bad+"\n", stdout)
	})
	t.Run("write", func(t *testing.T) {
		path := writeLisp(t, t.TempDir(), "sq.lisp", unformatted)
		stdout, _, err := executeCommand(t, FmtCommand(), "-w", path)
		require.NoError(t, err)
		assert.Empty(t, stdout)
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, formatted, string(b))
	})
	t.Run("diff", func(t *testing.T) {
		path := writeLisp(t, t.TempDir(), "sq.lisp", unformatted)
		stdout, _, err := executeCommand(t, FmtCommand(), "-d", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, "--- "+path)
		assert.Contains(t, stdout, "-(* x   x))")
		assert.Contains(t, stdout, "+  (* x x))")
	})
	t.Run("indent size", func(t *testing.T) {
		cmd := FmtCommand()
		cmd.SetIn(strings.NewReader(unformatted))
		stdout, _, err := executeCommand(t, cmd, "--indent-size", "4")
		require.NoError(t, err)
		assert.Equal(t, "(define (sq x)\n    (* x x))\n", stdout)
	})
	t.Run("syntax error", func(t *testing.T) {
		path := writeLisp(t, t.TempDir(), "bad.lisp", "(+ 1")
		stdout, stderr, err := executeCommand(t, FmtCommand(), path)
		assert.ErrorIs(t, err, errReported)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "unmatched (")
	})
}
