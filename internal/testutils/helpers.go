// Package testutils provides pack-directory fixtures for tests.
package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupPackRepo initializes a Loam repository in a temporary directory and
// returns its absolute path.
func SetupPackRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// PackDoc renders a pack document: front matter with path, version and the
// optional title ids, and no description.
func PackDoc(path string, version int, titleIDs ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "---\npath: %s\nversion: %d\n", path, version)
	if len(titleIDs) > 0 {
		fmt.Fprintf(&b, "title_ids: [\"%s\"]\n", strings.Join(titleIDs, `", "`))
	}
	b.WriteString("---\n")
	return b.String()
}

// WriteFiles writes each name/content pair under dir, creating parent directories.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}
