package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/akozhin/epiboost/internal/pipeline"
)

var inspectJSON bool

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <dataset.csv>",
	Short: "Print per-column statistics for a dataset",
	Long: `Inspect parses the dataset and prints one line per column: inferred
kind (numeric or string), null count, and either mean/std/min/max for
numeric columns or the distinct-value count for string columns.

Example:
  epiboost inspect outbreaks.csv
  epiboost inspect outbreaks.csv --json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "emit JSON instead of a table")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	p := pipeline.New(cfg)
	summaries, err := p.Inspect(path)
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}

	if inspectJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tKIND\tROWS\tNULLS\tDETAIL")
	for _, s := range summaries {
		detail := fmt.Sprintf("distinct=%d", s.Distinct)
		if s.Kind == "numeric" {
			detail = fmt.Sprintf("mean=%.3f std=%.3f min=%.3f max=%.3f", s.Mean, s.StdDev, s.Min, s.Max)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", s.Name, s.Kind, s.Rows, s.Nulls, detail)
	}
	return w.Flush()
}
