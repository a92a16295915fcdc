// Command vecgen turns ECDSA-P256 and RSA-3072 test-vector documents into
// C headers for firmware test harnesses.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/remiblancher/vecgen/internal/audit"
)

// Build-time variables (injected by GoReleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	auditLogPath string
	verbose      bool

	logger = zap.NewNop()
)

func main() {
	if err := execute(rootCmd); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs root, then flushes the logger and closes the audit log
// whether or not the command succeeded.
func execute(root *cobra.Command) error {
	err := root.Execute()
	_ = logger.Sync()
	return errors.Join(err, audit.Close())
}

var rootCmd = &cobra.Command{
	Use:   "vecgen",
	Short: "Generate C test-vector headers from HJSON test vectors",
	Long: `vecgen reads a list of cryptographic test vectors and renders them into a
C header through a template. Big integers are split into 32-bit words in
little-endian word order, and messages are expanded into byte arrays.

Supported families:
  ecdsa-p256  x, y, r, s as 8 words each (values must fit in 256 bits)
  rsa-3072    n as 96 words (checked), signature as 96 words (truncated)

Input files are HJSON (JSON accepted) or YAML, selected by extension.
Default templates and outputs live next to the vecgen binary; the
templates are also built in.

Examples:
  # Render the P-256 header next to the binary
  vecgen ecdsa-p256 wycheproof_p256.hjson

  # Explicit template and output
  vecgen rsa-3072 rsa.hjson out/rsa_3072_verify_testvectors.h --template rsa.h.tpl

  # Family declared in a YAML file
  vecgen generate --family ecdsa-p384 --family-file families.yaml p384.hjson p384.h`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l

		// Check for audit log path from environment if not set via flag
		if auditLogPath == "" {
			auditLogPath = os.Getenv("VECGEN_AUDIT_LOG")
		}
		if auditLogPath != "" {
			if err := audit.InitFile(auditLogPath); err != nil {
				return fmt.Errorf("failed to initialize audit log: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&auditLogPath, "audit-log", "",
		"Path to audit log file (or set VECGEN_AUDIT_LOG env var)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	// One command per built-in family: vecgen ecdsa-p256 ..., vecgen rsa-3072 ...
	for _, cmd := range familyCommands() {
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(familiesCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(auditCmd)
}
