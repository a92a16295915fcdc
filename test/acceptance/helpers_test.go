//go:build acceptance

// Package acceptance contains black-box CLI acceptance tests (TestA_*).
// Run with: go test -tags=acceptance ./test/acceptance/...
package acceptance

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vecgenBinary is the path to the vecgen binary.
// Set via VECGEN_BINARY env var or default to ./bin/vecgen in the repo root.
var vecgenBinary string

func init() {
	if bin := os.Getenv("VECGEN_BINARY"); bin != "" {
		vecgenBinary = bin
	} else {
		vecgenBinary = "../../bin/vecgen"
	}
}

// runVecgen executes a vecgen binary with the given arguments and returns stdout.
// Fails the test if the command returns a non-zero exit code.
func runVecgen(t *testing.T, bin string, args ...string) string {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Env = append(os.Environ(), "VECGEN_AUDIT_LOG=")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Fatalf("vecgen %s failed: %v\nstderr: %s\nstdout: %s",
			strings.Join(args, " "), err, stderr.String(), stdout.String())
	}
	return stdout.String()
}

// runVecgenExpectError executes vecgen, expects exit code 1 and returns stderr.
func runVecgenExpectError(t *testing.T, bin string, args ...string) string {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Env = append(os.Environ(), "VECGEN_AUDIT_LOG=")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	require.ErrorAsf(t, err, &exitErr, "vecgen %s expected to exit non-zero\nstdout: %s",
		strings.Join(args, " "), stdout.String())
	assert.Equal(t, 1, exitErr.ExitCode(), "exit code")
	return stderr.String()
}

// installBinary copies the vecgen binary into a fresh directory so that
// defaults resolved next to the executable land in a test-owned place.
func installBinary(t *testing.T) (bin, dir string) {
	t.Helper()
	dir = t.TempDir()
	bin = filepath.Join(dir, "vecgen")

	src, err := os.Open(vecgenBinary)
	require.NoError(t, err, "vecgen binary (set VECGEN_BINARY)")
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(bin, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	require.NoError(t, err)
	_, err = io.Copy(dst, src)
	require.NoError(t, errors.Join(err, dst.Close()))
	return bin, dir
}

// writeTestFile creates a temporary file with the given content.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
