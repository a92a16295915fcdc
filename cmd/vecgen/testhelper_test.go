package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCommand executes a Cobra command with the given args and returns output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err = execute(root)
	return buf.String(), err
}

// resetFlags restores every flag of cmd and its subcommands to its default,
// since package-level commands keep flag state between executions.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("failed to reset flag %s: %v", f.Name, err)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(t, c)
	}
}

// testContext holds test resources.
type testContext struct {
	t       *testing.T
	tempDir string
}

// newTestContext creates a new test context with a temp directory and
// clean global command state.
func newTestContext(t *testing.T) *testContext {
	t.Helper()
	dir, err := os.MkdirTemp("", "vecgen-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	t.Setenv("VECGEN_AUDIT_LOG", "")
	resetFlags(t, rootCmd)

	return &testContext{t: t, tempDir: dir}
}

// path returns a path within the temp directory.
func (tc *testContext) path(name string) string {
	return filepath.Join(tc.tempDir, name)
}

// writeFile writes content to a file in the temp directory.
func (tc *testContext) writeFile(name, content string) string {
	tc.t.Helper()
	path := tc.path(name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		tc.t.Fatalf("Failed to write file %s: %v", name, err)
	}
	return path
}

// readFile returns the contents of a file.
func (tc *testContext) readFile(path string) string {
	tc.t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tc.t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(data)
}

// assertNoError fails the test if err is not nil.
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertError fails the test if err is nil.
func assertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// assertContains fails the test if s does not contain substr.
func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected output to contain %q, got:\n%s", substr, s)
	}
}

// =============================================================================
// Test Vector Fixtures
// =============================================================================

const p256Vectors = `[
  // two records, emitted in document order
  {
    test_case_id: 1
    x: 1
    y: 2
    r: 3
    s: 4
    msg: 0x00
    msg_len: 1
    valid: true
    comment: first
  }
  {
    test_case_id: 2
    x: 5
    y: 6
    r: 7
    s: 8
    msg: 0x4142
    msg_len: 2
    valid: false
    comment: second
  }
]
`

const fieldTemplate = `{{range .tests -}}
{{.test_case_id}} x={ {{- cwords .x_hexwords -}} } msg={ {{- cbytes .msg_bytes -}} }
{{end}}`

const p384Families = `families:
  - name: ecdsa-p384
    description: ECDSA P-384 signature verification
    bits: 384
    fields:
      - name: x
      - name: y
      - name: r
      - name: s
    template: ecdsa_p384.h.tpl
    output: ecdsa_p384.h
`
