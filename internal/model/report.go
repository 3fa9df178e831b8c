package model

import (
	"time"

	"github.com/akozhin/epiboost/internal/boost"
)

// Report is the complete artifact of one training run.
type Report struct {
	Dataset   DatasetInfo  `json:"dataset"`
	Split     SplitInfo    `json:"split"`
	Params    boost.Params `json:"params"`
	Metrics   Metrics      `json:"metrics"`
	BestRound int          `json:"best_round"` // 0-based round with lowest eval loss
	Rounds    int          `json:"rounds"`     // trees kept after early stopping

	Importance []FeatureImportance `json:"importance"`

	TrainedAt time.Time `json:"trained_at"`

	LLM *LLMSummary `json:"llm,omitempty"` // optional narrative, never affects metrics
}

// DatasetInfo describes the input table after feature engineering.
type DatasetInfo struct {
	Path         string  `json:"path"`
	Rows         int     `json:"rows"`
	Columns      int     `json:"columns"`       // raw CSV columns
	FeatureCount int     `json:"feature_count"` // engineered matrix width
	PositiveRate float64 `json:"positive_rate"` // share of rows with the label present
}

// SplitInfo records how rows were partitioned.
type SplitInfo struct {
	Fraction  float64 `json:"fraction"`
	TrainRows int     `json:"train_rows"`
	TestRows  int     `json:"test_rows"`
	Shuffled  bool    `json:"shuffled"`
	Seed      int64   `json:"seed,omitempty"`
}

// Metrics holds held-out evaluation results at the 0.5 threshold.
type Metrics struct {
	ErrorRate float64 `json:"error_rate"`
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	LogLoss   float64 `json:"log_loss"`
}

// FeatureImportance is one feature's accumulated split gain.
type FeatureImportance struct {
	Feature string  `json:"feature"`
	Gain    float64 `json:"gain"`
	Share   float64 `json:"share"` // gain normalized over all features
}

// LLMSummary contains the optional LLM-generated narrative.
type LLMSummary struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	SummaryMD string   `json:"summary_md,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
