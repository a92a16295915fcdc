package main

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/remiblancher/vecgen/internal/generate"
	"github.com/remiblancher/vecgen/internal/loader"
	"github.com/remiblancher/vecgen/internal/vector"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Print the enriched records a template receives",
	Long: `Load a test-vector file, add the encoded fields for --family and print
the records as JSON. Every key shown is available to templates through
the "tests" list. Integers are printed in hexadecimal, message bytes as
a list of 0x-prefixed bytes.

Examples:
  vecgen inspect --family ecdsa-p256 vectors.hjson`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var (
	inspectFamily     string
	inspectFamilyFile string
	inspectFormat     string
)

func init() {
	inspectCmd.Flags().StringVarP(&inspectFamily, "family", "f", "", "Family name (required)")
	_ = inspectCmd.MarkFlagRequired("family")
	inspectCmd.Flags().StringVar(&inspectFamilyFile, "family-file", "", "YAML file declaring additional families")
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "", "Input format: hjson, json, yaml (default: from file extension)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry(inspectFamilyFile)
	if err != nil {
		return err
	}
	family, err := reg.Lookup(inspectFamily)
	if err != nil {
		return err
	}

	var format loader.Format
	if inspectFormat != "" {
		if format, err = loader.ParseFormat(inspectFormat); err != nil {
			return err
		}
	}

	records, err := generate.LoadAndEnrich(family, args[0], format)
	if err != nil {
		return err
	}

	out := make([]map[string]any, len(records))
	for i, r := range records {
		out[i] = displayRecord(r)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// displayRecord converts values that JSON would render unreadably.
func displayRecord(r vector.Record) map[string]any {
	m := make(map[string]any, len(r))
	for k, v := range r {
		switch v := v.(type) {
		case *big.Int:
			m[k] = fmt.Sprintf("%#x", v)
		case []byte:
			bs := make([]string, len(v))
			for i, b := range v {
				bs[i] = fmt.Sprintf("0x%02x", b)
			}
			m[k] = bs
		default:
			m[k] = v
		}
	}
	return m
}
