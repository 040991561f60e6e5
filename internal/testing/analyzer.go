// Package testing provides shared test helpers for histodriver.
package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// FakeAnalyzer writes an executable shell script standing in for the real
// analyzer binary. Each invocation appends its argument list as one line to
// the file at recordPath, so tests can assert on what was dispatched.
// Returns the script path.
func FakeAnalyzer(t *testing.T, recordPath string) string {
	t.Helper()

	script := fmt.Sprintf(`#!/bin/sh
echo "$@" >> %q
`, recordPath)
	return writeScript(t, script)
}

// FailingAnalyzer writes an executable shell script that exits with code.
func FailingAnalyzer(t *testing.T, code int) string {
	t.Helper()

	return writeScript(t, fmt.Sprintf("#!/bin/sh\nexit %d\n", code))
}

func writeScript(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "RunSimpleAnalyzer")
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("Failed to write fake analyzer script: %v", err)
	}
	return path
}
