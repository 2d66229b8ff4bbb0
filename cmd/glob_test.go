// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o700))
	for _, name := range []string{"a.lisp", "sub/b.lisp", "sub/notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("1"), 0o600))
	}
	files, err := expandArgs([]string{dir + "/...", "other.lisp"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.lisp"),
		filepath.Join(dir, "sub", "b.lisp"),
		"other.lisp",
	}, files)

	_, err = expandArgs([]string{filepath.Join(dir, "missing") + "/..."})
	assert.Error(t, err)
}

func TestFilterExcludes_ByName(t *testing.T) {
	paths := []string{
		"src/main.lisp",
		"src/prelude.lisp",
		"lib/utils.lisp",
	}
	result := filterExcludes(paths, []string{"prelude.lisp"})
	assert.Equal(t, []string{"src/main.lisp", "lib/utils.lisp"}, result)
}

func TestFilterExcludes_ByDirectory(t *testing.T) {
	paths := []string{
		"src/main.lisp",
		"build/output.lisp",
		"build/sub/deep.lisp",
		"lib/utils.lisp",
	}
	result := filterExcludes(paths, []string{"build"})
	assert.Equal(t, []string{"src/main.lisp", "lib/utils.lisp"}, result)
}

func TestFilterExcludes_GlobPattern(t *testing.T) {
	paths := []string{
		"src/main.lisp",
		"src/generated_foo.lisp",
		"src/generated_bar.lisp",
		"lib/utils.lisp",
	}
	result := filterExcludes(paths, []string{"generated_*"})
	assert.Equal(t, []string{"src/main.lisp", "lib/utils.lisp"}, result)
}

func TestFilterExcludes_MultiplePatterns(t *testing.T) {
	paths := []string{
		"src/main.lisp",
		"build/output.lisp",
		"src/prelude.lisp",
		"lib/utils.lisp",
	}
	result := filterExcludes(paths, []string{"build", "prelude.lisp"})
	assert.Equal(t, []string{"src/main.lisp", "lib/utils.lisp"}, result)
}

func TestFilterExcludes_NoMatches(t *testing.T) {
	paths := []string{
		"src/main.lisp",
		"lib/utils.lisp",
	}
	result := filterExcludes(paths, []string{"nonexistent"})
	assert.Equal(t, []string{"src/main.lisp", "lib/utils.lisp"}, result)
}

func TestFilterExcludes_EmptyExcludes(t *testing.T) {
	paths := []string{"src/main.lisp"}
	result := filterExcludes(paths, nil)
	assert.Equal(t, []string{"src/main.lisp"}, result)
}

func TestMatchesAny_FullPath(t *testing.T) {
	// filepath.Match on the full path
	assert.True(t, matchesAny("src/main.lisp", []string{"src/*.lisp"}))
	assert.False(t, matchesAny("lib/main.lisp", []string{"src/*.lisp"}))
}

func TestMatchesAny_BaseName(t *testing.T) {
	assert.True(t, matchesAny("deep/nested/prelude.lisp", []string{"prelude.lisp"}))
}

func TestMatchesAny_Component(t *testing.T) {
	assert.True(t, matchesAny("project/build/output.lisp", []string{"build"}))
	assert.False(t, matchesAny("project/src/output.lisp", []string{"build"}))
}

func TestSplitPath(t *testing.T) {
	components := splitPath("a/b/c.lisp")
	assert.Contains(t, components, "c.lisp")
	assert.Contains(t, components, "b")
	assert.Contains(t, components, "a")
}
