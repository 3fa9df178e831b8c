package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akozhin/epiboost/internal/model"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	response  *SummarizeResponse
	err       error
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func testReport() model.Report {
	return model.Report{
		Dataset: model.DatasetInfo{
			Path:         "outbreaks.csv",
			Rows:         1000,
			FeatureCount: 42,
			PositiveRate: 0.12,
		},
		Split:     model.SplitInfo{Fraction: 0.7, TrainRows: 700, TestRows: 300},
		Metrics:   model.Metrics{ErrorRate: 0.08, Accuracy: 0.92, Precision: 0.7, Recall: 0.6, F1: 0.65},
		Rounds:    37,
		BestRound: 36,
		Importance: []model.FeatureImportance{
			{Feature: "country=Mexico", Gain: 12.5, Share: 0.4},
			{Feature: "is_domestic", Gain: 8.1, Share: 0.26},
		},
	}
}

func TestNewSummarizer_DisabledProvider(t *testing.T) {
	config := Config{
		Provider: "", // Empty = disabled
	}

	summarizer, err := NewSummarizer(config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summarizer.provider != nil {
		t.Error("Expected provider to be nil when disabled")
	}

	if summarizer.IsEnabled() {
		t.Error("Expected summarizer to be disabled")
	}

	if summarizer.ProviderName() != "" {
		t.Error("Expected empty provider name when disabled")
	}
}

func TestNewSummarizer_UnknownProvider(t *testing.T) {
	_, err := NewSummarizer(Config{Provider: "carrier-pigeon"})
	if err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestSummarizer_GenerateSummary_Disabled(t *testing.T) {
	summarizer := &Summarizer{
		provider: nil,
		config:   Config{},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), testReport())

	if err != nil {
		t.Errorf("Expected no error when disabled, got %v", err)
	}

	if summary != nil {
		t.Error("Expected nil summary when provider disabled")
	}
}

func TestSummarizer_GenerateSummary_ProviderUnavailable(t *testing.T) {
	mockProvider := &MockProvider{
		name:      "mock",
		available: false,
	}
	summarizer := &Summarizer{
		provider: mockProvider,
		config:   Config{Model: "mock-model"},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), testReport())
	if err != nil {
		t.Fatalf("Expected no error for unavailable provider, got %v", err)
	}
	if summary == nil {
		t.Fatal("Expected a summary block with a warning, got nil")
	}
	if summary.SummaryMD != "" {
		t.Error("Expected empty summary text for unavailable provider")
	}
	if len(summary.Warnings) == 0 {
		t.Error("Expected a warning explaining the skipped summary")
	}
}

func TestSummarizer_GenerateSummary_Success(t *testing.T) {
	mockProvider := &MockProvider{
		name:      "mock",
		available: true,
		response: &SummarizeResponse{
			Summary: "The model reached an 8% held-out error rate.",
			Model:   "mock-model",
		},
	}
	summarizer := &Summarizer{
		provider: mockProvider,
		config:   Config{Model: "mock-model"},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), testReport())
	if err != nil {
		t.Fatalf("GenerateSummary failed: %v", err)
	}
	if !summary.Enabled {
		t.Error("Expected summary marked enabled")
	}
	if summary.Provider != "mock" {
		t.Errorf("Expected provider mock, got %q", summary.Provider)
	}
	if summary.SummaryMD == "" {
		t.Error("Expected non-empty summary text")
	}
}

func TestSummarizer_GenerateSummary_ProviderError(t *testing.T) {
	mockProvider := &MockProvider{
		name:      "mock",
		available: true,
		err:       errors.New("api exploded"),
	}
	summarizer := &Summarizer{
		provider: mockProvider,
		config:   Config{},
	}

	_, err := summarizer.GenerateSummary(context.Background(), testReport())
	if err == nil {
		t.Error("Expected provider error to propagate")
	}
}

func TestBuildPrompt_GroundedInReportFigures(t *testing.T) {
	prompt := BuildPrompt(testReport())

	for _, want := range []string{
		"outbreaks.csv",
		"0.0800", // error rate
		"country=Mexico",
		"DO NOT invent",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}
