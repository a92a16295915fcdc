package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remiblancher/vecgen/internal/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log management",
	Long: `Commands for verifying and reading the generation audit log.

The audit log records every loaded vector file and every header write
with SHA-256 digests. Each event is chained to the previous one.

Examples:
  # Verify audit log integrity
  vecgen audit verify --log build/vecgen-audit.jsonl

  # Show last 10 events
  vecgen audit tail --log build/vecgen-audit.jsonl -n 10`,
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify audit log integrity",
	Long: `Verify the hash chain of an audit log file.

Each event in the log contains:
  - hash_prev: SHA-256 hash of the previous event
  - hash: SHA-256 hash of the current event

The chain starts with hash_prev="sha256:genesis" for the first event.`,
	Args: cobra.NoArgs,
	RunE: runAuditVerify,
}

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show recent audit events",
	Args:  cobra.NoArgs,
	RunE:  runAuditTail,
}

var (
	auditLogFile  string
	auditTailNum  int
	auditShowJSON bool
)

func init() {
	auditVerifyCmd.Flags().StringVar(&auditLogFile, "log", "", "Path to audit log file (required)")
	_ = auditVerifyCmd.MarkFlagRequired("log")

	auditTailCmd.Flags().StringVar(&auditLogFile, "log", "", "Path to audit log file (required)")
	_ = auditTailCmd.MarkFlagRequired("log")
	auditTailCmd.Flags().IntVarP(&auditTailNum, "num", "n", 10, "Number of events to show")
	auditTailCmd.Flags().BoolVar(&auditShowJSON, "json", false, "Output as JSON")

	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditTailCmd)
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Verifying audit log: %s\n\n", auditLogFile)

	count, err := audit.VerifyChain(auditLogFile)
	if err != nil {
		fmt.Fprintf(out, "VERIFICATION FAILED\n")
		fmt.Fprintf(out, "  Valid events: %d\n", count)
		fmt.Fprintf(out, "  Error: %s\n", err)
		return fmt.Errorf("audit log verification failed: %w", err)
	}

	fmt.Fprintf(out, "VERIFICATION PASSED\n")
	fmt.Fprintf(out, "  Total events: %d\n", count)
	fmt.Fprintf(out, "  Hash chain: VALID\n")
	return nil
}

func runAuditTail(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	data, err := os.ReadFile(auditLogFile)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}
	if len(data) == 0 {
		fmt.Fprintln(out, "Audit log is empty")
		return nil
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	if auditTailNum >= 0 && len(lines) > auditTailNum {
		lines = lines[len(lines)-auditTailNum:]
	}

	if auditShowJSON {
		fmt.Fprintln(out, "[")
		for i, line := range lines {
			if i > 0 {
				fmt.Fprintln(out, ",")
			}
			fmt.Fprint(out, line)
		}
		fmt.Fprintln(out, "\n]")
		return nil
	}

	for _, line := range lines {
		var event audit.Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			fmt.Fprintf(out, "  [ERROR] %s\n", err)
			continue
		}
		printEvent(out, &event)
	}
	return nil
}

func printEvent(w io.Writer, e *audit.Event) {
	resultIcon := "✓"
	if e.Result == audit.ResultFailure {
		resultIcon = "✗"
	}

	fmt.Fprintf(w, "[%s] %s %s\n", e.Timestamp, resultIcon, e.EventType)
	fmt.Fprintf(w, "    Actor:  %s@%s\n", e.Actor.ID, e.Actor.Host)

	if e.Object.Type != "" {
		fmt.Fprintf(w, "    Object: %s", e.Object.Type)
		if e.Object.Path != "" {
			fmt.Fprintf(w, " path=%s", e.Object.Path)
		}
		if e.Object.Digest != "" {
			fmt.Fprintf(w, " digest=%s", e.Object.Digest)
		}
		fmt.Fprintln(w)
	}

	c := e.Context
	if c.Family != "" || c.Records != 0 || c.Reason != "" {
		fmt.Fprint(w, "    Context:")
		if c.Family != "" {
			fmt.Fprintf(w, " family=%s", c.Family)
		}
		if c.Records != 0 {
			fmt.Fprintf(w, " records=%d", c.Records)
		}
		if c.Reason != "" {
			fmt.Fprintf(w, " reason=%s", c.Reason)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
}
