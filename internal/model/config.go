package model

import (
	"runtime"
	"time"

	"github.com/akozhin/epiboost/internal/boost"
)

// Config is the full epiboost configuration, resolved from flags, EPIBOOST_*
// environment variables, ~/.epiboost/config.yaml, and defaults in that order.
type Config struct {
	Dataset DatasetConfig `json:"dataset" yaml:"dataset" mapstructure:"dataset"`
	Split   SplitConfig   `json:"split" yaml:"split" mapstructure:"split"`
	Train   boost.Params  `json:"train" yaml:"train" mapstructure:"train"`
	Tune    TuneConfig    `json:"tune" yaml:"tune" mapstructure:"tune"`
	Cache   CacheConfig   `json:"cache" yaml:"cache" mapstructure:"cache"`
	Output  OutputConfig  `json:"output" yaml:"output" mapstructure:"output"`
	LLM     LLMConfig     `json:"llm" yaml:"llm" mapstructure:"llm"`
}

// DatasetConfig names the schema assumptions of the outbreak CSV.
type DatasetConfig struct {
	LabelColumn     string   `json:"label_column" yaml:"label_column" mapstructure:"label_column"`
	LeakagePrefix   string   `json:"leakage_prefix" yaml:"leakage_prefix" mapstructure:"leakage_prefix"`
	DropColumns     []string `json:"drop_columns" yaml:"drop_columns" mapstructure:"drop_columns"`
	CountryColumn   string   `json:"country_column" yaml:"country_column" mapstructure:"country_column"`
	SpeciesColumn   string   `json:"species_column" yaml:"species_column" mapstructure:"species_column"`
	DomesticKeyword string   `json:"domestic_keyword" yaml:"domestic_keyword" mapstructure:"domestic_keyword"`
}

// SplitConfig controls the train/test partition.
type SplitConfig struct {
	// Fraction of rows forming the contiguous training prefix.
	Fraction float64 `json:"fraction" yaml:"fraction" mapstructure:"fraction"`
	// Shuffle permutes rows before matrix construction (off by default; the
	// canonical path is the deterministic head split).
	Shuffle bool  `json:"shuffle" yaml:"shuffle" mapstructure:"shuffle"`
	Seed    int64 `json:"seed" yaml:"seed" mapstructure:"seed"`
}

// TuneConfig controls the concurrent hyperparameter trial grid.
type TuneConfig struct {
	Workers int           `json:"workers" yaml:"workers" mapstructure:"workers"`
	Trials  []TrialConfig `json:"trials,omitempty" yaml:"trials,omitempty" mapstructure:"trials"`
}

// TrialConfig is one named hyperparameter trial.
type TrialConfig struct {
	Name   string       `json:"name" yaml:"name" mapstructure:"name"`
	Params boost.Params `json:"params" yaml:"params" mapstructure:"params"`
}

// CacheConfig controls the parsed-frame cache.
type CacheConfig struct {
	Enabled bool          `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `json:"dir" yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool   `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	JSONPath      string `json:"json_path" yaml:"json_path" mapstructure:"json_path"`
	MarkdownPath  string `json:"markdown_path" yaml:"markdown_path" mapstructure:"markdown_path"`
	PlotPath      string `json:"plot_path" yaml:"plot_path" mapstructure:"plot_path"`
	IncludeFooter bool   `json:"include_footer" yaml:"include_footer" mapstructure:"include_footer"`
	// TopFeatures limits importance entries in Markdown and chart output.
	TopFeatures int `json:"top_features" yaml:"top_features" mapstructure:"top_features"`
}

// LLMConfig configures the optional narrative summary. Never affects metrics.
type LLMConfig struct {
	Provider  string `json:"provider" yaml:"provider" mapstructure:"provider"`
	Model     string `json:"model" yaml:"model" mapstructure:"model"`
	APIKey    string `json:"-" yaml:"-" mapstructure:"api_key"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `json:"timeout" yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns the built-in defaults for the outbreak dataset.
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			LabelColumn:     "humansAffected",
			LeakagePrefix:   "human",
			DropColumns:     []string{"Id", "longitude", "latitude"},
			CountryColumn:   "country",
			SpeciesColumn:   "speciesDescription",
			DomesticKeyword: "domestic",
		},
		Split: SplitConfig{
			Fraction: 0.7,
			Shuffle:  false,
			Seed:     42,
		},
		Train: boost.DefaultParams(),
		Tune: TuneConfig{
			Workers: runtime.NumCPU(),
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "", // resolved to ~/.epiboost/cache by the CLI
			TTL:     24 * time.Hour,
		},
		Output: OutputConfig{
			JSONPath:      "report.json",
			IncludeFooter: true,
			TopFeatures:   20,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 1000,
		},
	}
}

// DefaultTrials is the built-in trial grid used when the config file does not
// define one: the manual trials of the original analysis, codified.
func DefaultTrials() []TrialConfig {
	base := boost.DefaultParams()

	shallow := base
	shallow.MaxDepth = 2

	deep := base
	deep.MaxDepth = 6

	long := base
	long.Rounds = 200
	long.LearningRate = 0.1

	weighted := base
	weighted.ScalePosWeight = 5

	regularized := base
	regularized.Lambda = 10

	return []TrialConfig{
		{Name: "baseline", Params: base},
		{Name: "shallow", Params: shallow},
		{Name: "deep", Params: deep},
		{Name: "slow-long", Params: long},
		{Name: "pos-weighted", Params: weighted},
		{Name: "l2-heavy", Params: regularized},
	}
}
