package llm

import (
	"context"
	"fmt"

	"github.com/akozhin/epiboost/internal/model"
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Summarize generates a narrative summary of a training report.
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible.
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization.
type SummarizeRequest struct {
	// Report is the training report to summarize.
	Report model.Report

	// Prompt is an optional custom prompt (if empty, use default).
	Prompt string

	// Model is the specific model to use (provider-specific).
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output.
type SummarizeResponse struct {
	// Summary is the generated summary text.
	Summary string

	// Model is the model that generated the response.
	Model string

	// TokensUsed tracks token consumption.
	TokensUsed int
}

// Config holds LLM provider configuration.
type Config struct {
	// Provider name: "openai", "ollama", "".
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for OpenAI.
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama).
	BaseURL string

	// Timeout for API requests, in seconds.
	Timeout int

	// MaxTokens for response generation.
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "", // disabled by default
		Model:     "",
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		MaxTokens: mc.MaxTokens,
	}
}

// BuildPrompt constructs the default summarization prompt. The narrative must
// stay grounded in the report figures and never invent new numbers.
func BuildPrompt(report model.Report) string {
	prompt := fmt.Sprintf(`You are summarizing a gradient-boosted-tree training report over disease-outbreak records.

CRITICAL RULES:
1. Use ONLY the figures given below. DO NOT invent or extrapolate numbers.
2. If a figure is missing, say so explicitly.
3. Describe model quality in terms of the held-out error rate; do not claim real-world validity.

Run summary:
- Dataset: %s (%d rows, %d engineered features)
- Positive label rate: %.3f
- Split: %.0f%% train (%d rows) / %d test rows
- Boosting: %d rounds kept (best round %d), depth %d, learning rate %g
- Held-out error rate: %.4f (accuracy %.4f)
- Precision %.4f / Recall %.4f / F1 %.4f

Most important features:
`,
		report.Dataset.Path, report.Dataset.Rows, report.Dataset.FeatureCount,
		report.Dataset.PositiveRate,
		report.Split.Fraction*100, report.Split.TrainRows, report.Split.TestRows,
		report.Rounds, report.BestRound, report.Params.MaxDepth, report.Params.LearningRate,
		report.Metrics.ErrorRate, report.Metrics.Accuracy,
		report.Metrics.Precision, report.Metrics.Recall, report.Metrics.F1)

	for i, imp := range report.Importance {
		if i >= 5 {
			break
		}
		prompt += fmt.Sprintf("- %s (gain share %.1f%%)\n", imp.Feature, imp.Share*100)
	}

	prompt += "\nProvide a 3-4 sentence summary of model quality and which features drive it."
	return prompt
}
