package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertEdgeListed checks that a dry run listed the edge as one that would run.
func AssertEdgeListed(t *testing.T, result *HarnessResult, edgeID string) {
	t.Helper()

	require.True(t,
		strings.Contains(result.Output, edgeID+"\n"),
		"expected edge %q in dry-run listing:\n%s", edgeID, result.Output,
	)
}

// AssertFileExists checks that rel exists under the harness directory.
func AssertFileExists(t *testing.T, result *HarnessResult, rel string) {
	t.Helper()

	_, err := os.Lstat(filepath.Join(result.Dir, rel))
	require.NoError(t, err, "expected %s to exist", rel)
}
