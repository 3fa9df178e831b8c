// Package pipeline orchestrates the complete modeling run: load the outbreak
// CSV, engineer features, split, train the booster, evaluate, and render
// report artifacts.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/akozhin/epiboost/internal/boost"
	"github.com/akozhin/epiboost/internal/cache"
	"github.com/akozhin/epiboost/internal/dataset"
	"github.com/akozhin/epiboost/internal/features"
	"github.com/akozhin/epiboost/internal/llm"
	"github.com/akozhin/epiboost/internal/model"
)

// Pipeline wires the loading, feature-engineering, training and rendering
// stages together.
type Pipeline struct {
	loader     *dataset.Loader
	builder    *features.Builder
	renderer   *Renderer
	summarizer *llm.Summarizer // nil if disabled
	config     *model.Config
}

// New creates a pipeline from configuration.
func New(cfg *model.Config) *Pipeline {
	var frameCache cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Dir != "" {
		frameCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Printf("Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		loader: dataset.NewLoader(frameCache, cfg.Cache.TTL),
		builder: features.NewBuilder(features.Config{
			LabelColumn:     cfg.Dataset.LabelColumn,
			LeakagePrefix:   cfg.Dataset.LeakagePrefix,
			DropColumns:     cfg.Dataset.DropColumns,
			CountryColumn:   cfg.Dataset.CountryColumn,
			SpeciesColumn:   cfg.Dataset.SpeciesColumn,
			DomesticKeyword: cfg.Dataset.DomesticKeyword,
		}),
		renderer:   NewRenderer(cfg.Output.IncludeFooter, cfg.Output.TopFeatures),
		summarizer: summarizer,
		config:     cfg,
	}
}

// Train runs the full pipeline on the dataset at path.
func (p *Pipeline) Train(ctx context.Context, path string) (*model.Report, error) {
	frame, err := p.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return p.TrainFrame(ctx, path, frame, p.config.Train)
}

// TrainFrame trains with explicit hyperparameters on an already loaded frame.
// Tune trials share one cached frame through this entry point.
func (p *Pipeline) TrainFrame(ctx context.Context, path string, frame *dataset.Frame, params boost.Params) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Optional row shuffle, applied to the frame itself so the permutation
	// propagates into the matrix and labels alike.
	if p.config.Split.Shuffle {
		frame = frame.ShuffleRows(p.config.Split.Seed)
	}

	matrix, labels, err := p.builder.Build(frame)
	if err != nil {
		return nil, fmt.Errorf("build features: %w", err)
	}

	split, err := features.HeadSplit(matrix.X, labels, p.config.Split.Fraction)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}

	booster := boost.NewBooster(params)
	if err := booster.Fit(split.XTrain, split.YTrain, split.XTest, split.YTest); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	proba := booster.PredictProba(split.XTest)
	preds := boost.PredictFromProba(proba, 0.5)
	prec, rec, f1 := boost.PrecisionRecallF1(split.YTest, preds)

	report := &model.Report{
		Dataset: model.DatasetInfo{
			Path:         path,
			Rows:         frame.Rows(),
			Columns:      len(frame.Columns()),
			FeatureCount: matrix.Cols(),
			PositiveRate: positiveRate(labels),
		},
		Split: model.SplitInfo{
			Fraction:  p.config.Split.Fraction,
			TrainRows: len(split.YTrain),
			TestRows:  len(split.YTest),
			Shuffled:  p.config.Split.Shuffle,
			Seed:      p.config.Split.Seed,
		},
		Params: booster.Params(),
		Metrics: model.Metrics{
			ErrorRate: boost.ErrorRate(split.YTest, preds),
			Accuracy:  boost.Accuracy(split.YTest, preds),
			Precision: prec,
			Recall:    rec,
			F1:        f1,
			LogLoss:   boost.LogLoss(split.YTest, proba),
		},
		BestRound:  booster.BestRound(),
		Rounds:     booster.Rounds(),
		Importance: rankImportance(matrix.Names, booster.GainImportance()),
		TrainedAt:  time.Now().UTC(),
	}

	// LLM narrative comes last and never feeds back into metrics.
	if p.summarizer != nil && p.summarizer.IsEnabled() {
		summary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			fmt.Printf("Warning: LLM summary generation failed: %v\n", err)
		} else if summary != nil {
			report.LLM = summary
		}
	}

	return report, nil
}

// Inspect loads the dataset and returns per-column summaries.
func (p *Pipeline) Inspect(path string) ([]dataset.ColumnSummary, error) {
	frame, err := p.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return dataset.Summarize(frame), nil
}

// RenderReport renders the report to the configured outputs.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath, plotPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	if plotPath != "" {
		if err := RenderImportanceChart(report.Importance, p.config.Output.TopFeatures, plotPath); err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote chart: %s\n", plotPath)
		}
	}

	// LLM summary lands in its own file, clearly separated from metrics.
	if report.LLM != nil && report.LLM.Enabled && mdPath != "" {
		llmPath := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
		if err := p.renderer.RenderLLMMarkdown(report.LLM, llmPath); err != nil {
			fmt.Printf("Warning: Failed to write LLM summary: %v\n", err)
		} else if verbose {
			fmt.Printf("✓ Wrote LLM Summary: %s\n", llmPath)
		}
	}

	p.renderer.RenderSummary(report)
	return nil
}

func positiveRate(labels []int) float64 {
	if len(labels) == 0 {
		return 0
	}
	pos := 0
	for _, v := range labels {
		pos += v
	}
	return float64(pos) / float64(len(labels))
}

// rankImportance maps per-index gains onto feature names, sorted by gain
// descending, with shares normalized over the total.
func rankImportance(names []string, gains []float64) []model.FeatureImportance {
	total := floats.Sum(gains)
	out := make([]model.FeatureImportance, 0, len(gains))
	for i, g := range gains {
		if g == 0 {
			continue
		}
		share := 0.0
		if total > 0 {
			share = g / total
		}
		out = append(out, model.FeatureImportance{Feature: names[i], Gain: g, Share: share})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Gain != out[b].Gain {
			return out[a].Gain > out[b].Gain
		}
		return out[a].Feature < out[b].Feature
	})
	return out
}
