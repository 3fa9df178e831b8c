package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/akozhin/epiboost/internal/model"
	"github.com/akozhin/epiboost/internal/pipeline"
)

var (
	tuneWorkers int
	tuneJSON    string
	tuneNoCache bool
)

// tuneCmd represents the tune command
var tuneCmd = &cobra.Command{
	Use:   "tune <dataset.csv>",
	Short: "Run a grid of hyperparameter trials concurrently",
	Long: `Tune trains one model per configured trial on the same dataset and
ranks the trials by held-out error rate. The dataset is parsed once and
shared across trials; trials run on a bounded worker pool.

The trial grid comes from the "tune.trials" section of the config file.
Without a config file a built-in grid of six trials is used.

Example:
  epiboost tune outbreaks.csv
  epiboost tune outbreaks.csv --workers 4
  epiboost tune outbreaks.csv --json best.json`,
	Args: cobra.ExactArgs(1),
	RunE: runTune,
}

func init() {
	rootCmd.AddCommand(tuneCmd)

	tuneCmd.Flags().IntVar(&tuneWorkers, "workers", 0, "concurrent trials (0 = config default)")
	tuneCmd.Flags().StringVar(&tuneJSON, "json", "", "write the best trial's report to this JSON path")
	tuneCmd.Flags().BoolVar(&tuneNoCache, "no-cache", false, "disable the parsed-frame cache")
}

func runTune(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := context.Background()

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !tuneNoCache
	// Summaries are per-report noise at grid scale.
	cfg.LLM.Provider = ""

	workers := cfg.Tune.Workers
	if tuneWorkers > 0 {
		workers = tuneWorkers
	}

	trials := cfg.Tune.Trials
	if len(trials) == 0 {
		trials = model.DefaultTrials()
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Dataset:  %s\n", path)
		fmt.Fprintf(os.Stderr, "Trials:   %d\n", len(trials))
		fmt.Fprintf(os.Stderr, "Workers:  %d\n", workers)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.New(cfg)
	results, err := p.Tune(ctx, path, trials, workers)
	if err != nil {
		return fmt.Errorf("tune failed: %w", err)
	}

	if len(results) == 0 {
		return fmt.Errorf("no trial results")
	}

	printTrialTable(results)

	best := results[0]
	if best.Err != nil {
		return fmt.Errorf("all trials failed, first error: %w", best.Err)
	}

	fmt.Printf("\nBest trial: %s (error rate %.4f, %d rounds, best round %d)\n",
		best.Trial.Name, best.Report.Metrics.ErrorRate, best.Report.Rounds, best.Report.BestRound)

	if tuneJSON != "" {
		if err := p.RenderReport(best.Report, tuneJSON, "", "", verbose); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}
	return nil
}

func printTrialTable(results []pipeline.TrialResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tERROR\tACCURACY\tF1\tLOG LOSS\tROUNDS\tSTATUS")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t-\tfailed: %v\n", r.Trial.Name, r.Err)
			continue
		}
		m := r.Report.Metrics
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%d\tok\n",
			r.Trial.Name, m.ErrorRate, m.Accuracy, m.F1, m.LogLoss, r.Report.Rounds)
	}
	w.Flush()
}
