package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/akozhin/epiboost/internal/model"
)

// Renderer writes report artifacts to disk and a short summary to stdout.
type Renderer struct {
	includeFooter bool
	topFeatures   int
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool, topFeatures int) *Renderer {
	if topFeatures <= 0 {
		topFeatures = 20
	}
	return &Renderer{includeFooter: includeFooter, topFeatures: topFeatures}
}

// RenderJSON writes the full report as indented JSON.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Outbreak Model Report\n\n")
	fmt.Fprintf(&b, "Trained: %s\n\n", report.TrainedAt.Format("2006-01-02 15:04:05 UTC"))

	fmt.Fprintf(&b, "## Dataset\n\n")
	fmt.Fprintf(&b, "- Path: `%s`\n", report.Dataset.Path)
	fmt.Fprintf(&b, "- Rows: %d (%d raw columns, %d engineered features)\n",
		report.Dataset.Rows, report.Dataset.Columns, report.Dataset.FeatureCount)
	fmt.Fprintf(&b, "- Positive label rate: %.3f\n", report.Dataset.PositiveRate)
	fmt.Fprintf(&b, "- Split: %.0f%% train → %d train / %d test rows",
		report.Split.Fraction*100, report.Split.TrainRows, report.Split.TestRows)
	if report.Split.Shuffled {
		fmt.Fprintf(&b, " (shuffled, seed %d)", report.Split.Seed)
	}
	fmt.Fprintf(&b, "\n\n")

	fmt.Fprintf(&b, "## Hyperparameters\n\n")
	fmt.Fprintf(&b, "| Param | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| rounds | %d |\n", report.Params.Rounds)
	fmt.Fprintf(&b, "| max_depth | %d |\n", report.Params.MaxDepth)
	fmt.Fprintf(&b, "| learning_rate | %g |\n", report.Params.LearningRate)
	fmt.Fprintf(&b, "| lambda | %g |\n", report.Params.Lambda)
	fmt.Fprintf(&b, "| scale_pos_weight | %g |\n", report.Params.ScalePosWeight)
	fmt.Fprintf(&b, "| early_stopping | %d |\n", report.Params.EarlyStopping)
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "## Held-out metrics (threshold 0.5)\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| error rate | %.4f |\n", report.Metrics.ErrorRate)
	fmt.Fprintf(&b, "| accuracy | %.4f |\n", report.Metrics.Accuracy)
	fmt.Fprintf(&b, "| precision | %.4f |\n", report.Metrics.Precision)
	fmt.Fprintf(&b, "| recall | %.4f |\n", report.Metrics.Recall)
	fmt.Fprintf(&b, "| f1 | %.4f |\n", report.Metrics.F1)
	fmt.Fprintf(&b, "| log loss | %.4f |\n", report.Metrics.LogLoss)
	fmt.Fprintf(&b, "\nTrees kept: %d (best round %d)\n\n", report.Rounds, report.BestRound)

	fmt.Fprintf(&b, "## Feature importance (gain)\n\n")
	fmt.Fprintf(&b, "| Feature | Gain | Share |\n|---|---|---|\n")
	for i, imp := range report.Importance {
		if i >= r.topFeatures {
			fmt.Fprintf(&b, "\n… and %d more features\n", len(report.Importance)-r.topFeatures)
			break
		}
		fmt.Fprintf(&b, "| %s | %.4f | %.1f%% |\n", imp.Feature, imp.Gain, imp.Share*100)
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "\n---\n\nGenerated by epiboost. Error rate is mean mismatch against held-out labels; it says nothing about causal or epidemiological validity.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderLLMMarkdown writes the optional LLM narrative to its own file.
func (r *Renderer) RenderLLMMarkdown(summary *model.LLMSummary, path string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# LLM Summary\n\n")
	fmt.Fprintf(&b, "> Generated by %s/%s. Advisory narrative only; all figures come from the report.\n\n",
		summary.Provider, summary.Model)
	if summary.SummaryMD != "" {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}
	for _, w := range summary.Warnings {
		fmt.Fprintf(&b, "\n**Warning:** %s\n", w)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write LLM summary: %w", err)
	}
	return nil
}

// RenderSummary prints a short run summary to stdout.
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Printf("\n")
	fmt.Printf("  Dataset:     %s (%d rows)\n", report.Dataset.Path, report.Dataset.Rows)
	fmt.Printf("  Features:    %d\n", report.Dataset.FeatureCount)
	fmt.Printf("  Train/Test:  %d / %d\n", report.Split.TrainRows, report.Split.TestRows)
	fmt.Printf("  Error rate:  %.4f\n", report.Metrics.ErrorRate)
	fmt.Printf("  Trees:       %d (best round %d)\n", report.Rounds, report.BestRound)
	if len(report.Importance) > 0 {
		fmt.Printf("  Top feature: %s (%.1f%% of gain)\n",
			report.Importance[0].Feature, report.Importance[0].Share*100)
	}
	fmt.Printf("\n")
}
