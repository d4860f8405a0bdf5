package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"textdrop/pkg/types"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
}

// CreateDropFiles writes one file per content into dir and returns their
// addresses in the same order, ready to be dropped.
func CreateDropFiles(t *testing.T, dir string, contents ...string) []types.Address {
	t.Helper()
	addrs := make([]types.Address, len(contents))
	for i, content := range contents {
		path := filepath.Join(dir, fmt.Sprintf("item-%d.txt", i))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		addrs[i] = types.Address(path)
	}
	return addrs
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	return ansi.Strip(str)
}

// Chdir switches the working directory to dir for the rest of the test
func Chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
