package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akozhin/epiboost/internal/model"
	"github.com/akozhin/epiboost/internal/pipeline"
)

var (
	outJSON        string
	outMD          string
	outPlot        string
	splitFraction  float64
	shuffleRows    bool
	shuffleSeed    int64
	rounds         int
	maxDepth       int
	learningRate   float64
	lambda         float64
	scalePosWeight float64
	earlyStopping  int
	noCache        bool
	noFooter       bool
	llmEnabled     bool
	llmProvider    string
	llmModel       string
)

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train <dataset.csv>",
	Short: "Train a boosted-tree model on an outbreak dataset",
	Long: `Train runs the full modeling pipeline on a CSV of outbreak records:
- Derive the label from presence of the humansAffected count
- Drop leakage (human*) and identifier/coordinate columns
- One-hot encode country and the trailing species token, flag domestic species
- Split train/test by a contiguous fraction (no shuffling by default)
- Train gradient-boosted trees with early stopping on the test partition
- Report the held-out error rate and gain-based feature importance

Example:
  epiboost train outbreaks.csv
  epiboost train outbreaks.csv --json report.json --md report.md --plot importance.png
  epiboost train outbreaks.csv --rounds 200 --max-depth 6 --scale-pos-weight 5
  epiboost train outbreaks.csv --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)

	// Output flags
	trainCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	trainCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	trainCmd.Flags().StringVar(&outPlot, "plot", "", "output feature-importance chart path (.png/.svg/.pdf, optional)")
	trainCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Split flags
	trainCmd.Flags().Float64Var(&splitFraction, "split", 0.7, "train fraction (contiguous prefix)")
	trainCmd.Flags().BoolVar(&shuffleRows, "shuffle", false, "shuffle rows before building the matrix")
	trainCmd.Flags().Int64Var(&shuffleSeed, "seed", 42, "shuffle seed")

	// Hyperparameter flags
	trainCmd.Flags().IntVar(&rounds, "rounds", 0, "boosting rounds (0 = config default)")
	trainCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "tree depth limit (0 = config default)")
	trainCmd.Flags().Float64Var(&learningRate, "learning-rate", 0, "shrinkage per tree (0 = config default)")
	trainCmd.Flags().Float64Var(&lambda, "lambda", -1, "L2 regularization on leaf weights (-1 = config default)")
	trainCmd.Flags().Float64Var(&scalePosWeight, "scale-pos-weight", 0, "positive-class loss weight (0 = config default)")
	trainCmd.Flags().IntVar(&earlyStopping, "early-stopping", -1, "rounds without eval improvement before stopping (-1 = config default)")

	// Cache flags
	trainCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the parsed-frame cache")

	// LLM flags
	trainCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM summary generation")
	trainCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	trainCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runTrain(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := context.Background()

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	applyTrainFlags(cfg, cmd)

	if verbose {
		fmt.Fprintf(os.Stderr, "Dataset:  %s\n", path)
		fmt.Fprintf(os.Stderr, "Split:    %.0f%% train\n", cfg.Split.Fraction*100)
		fmt.Fprintf(os.Stderr, "Cache:    %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.New(cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Training...\n")
	}
	report, err := p.Train(ctx, path)
	if err != nil {
		return fmt.Errorf("train failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %d rows, %d features\n", report.Dataset.Rows, report.Dataset.FeatureCount)
		fmt.Fprintf(os.Stderr, "✓ Held-out error rate: %.4f\n", report.Metrics.ErrorRate)
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON, outMD, outPlot, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

// applyTrainFlags overlays explicitly set flags onto the resolved config.
func applyTrainFlags(cfg *model.Config, cmd *cobra.Command) {
	if cmd.Flags().Changed("split") {
		cfg.Split.Fraction = splitFraction
	}
	if cmd.Flags().Changed("shuffle") {
		cfg.Split.Shuffle = shuffleRows
	}
	if cmd.Flags().Changed("seed") {
		cfg.Split.Seed = shuffleSeed
	}
	cfg.Cache.Enabled = cfg.Cache.Enabled && !noCache
	cfg.Output.IncludeFooter = !noFooter

	if rounds > 0 {
		cfg.Train.Rounds = rounds
	}
	if maxDepth > 0 {
		cfg.Train.MaxDepth = maxDepth
	}
	if learningRate > 0 {
		cfg.Train.LearningRate = learningRate
	}
	if lambda >= 0 && cmd.Flags().Changed("lambda") {
		cfg.Train.Lambda = lambda
	}
	if scalePosWeight > 0 {
		cfg.Train.ScalePosWeight = scalePosWeight
	}
	if earlyStopping >= 0 && cmd.Flags().Changed("early-stopping") {
		cfg.Train.EarlyStopping = earlyStopping
	}

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.Provider == "ollama" {
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}
}
