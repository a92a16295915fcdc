package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/remiblancher/vecgen/internal/vector"
	"github.com/remiblancher/vecgen/internal/words"
)

var familiesCmd = &cobra.Command{
	Use:   "families",
	Short: "List available test-vector families",
	Long: `List the built-in families and any declared in --family-file, with
their word width and per-field overflow policy.`,
	Args: cobra.NoArgs,
	RunE: runFamilies,
}

var familiesFile string

func init() {
	familiesCmd.Flags().StringVar(&familiesFile, "family-file", "", "YAML file declaring additional families")
}

func runFamilies(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry(familiesFile)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBITS\tWORDS\tFIELDS\tDESCRIPTION")
	for _, f := range reg.Families() {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", f.Name, f.Bits, f.WordCount(), describeFields(f), f.Description)
	}
	return w.Flush()
}

// describeFields renders "x, y, signature->sig_hexwords (truncate)".
func describeFields(f *vector.Family) string {
	parts := make([]string, 0, len(f.Fields))
	for _, fs := range f.Fields {
		s := fs.Name
		if fs.Derived != fs.Name+vector.HexWordsSuffix {
			s += "->" + fs.Derived
		}
		if fs.Policy != words.Checked {
			s += " (" + fs.Policy.String() + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

func zapFamily(f *vector.Family) []zap.Field {
	return []zap.Field{
		zap.String("family", f.Name),
		zap.Int("bits", f.Bits),
		zap.Int("fields", len(f.Fields)),
	}
}
