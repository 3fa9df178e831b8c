package features

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/akozhin/epiboost/internal/dataset"
)

// Config names the schema assumptions of the feature builder. Zero values
// fall back to the outbreak dataset defaults.
type Config struct {
	// LabelColumn is the nullable count whose presence becomes the label.
	LabelColumn string
	// LeakagePrefix drops every column carrying human-impact data.
	LeakagePrefix string
	// DropColumns removes identifier and raw-coordinate columns.
	DropColumns []string
	// CountryColumn is one-hot encoded across the full dataset.
	CountryColumn string
	// SpeciesColumn is the free-text species description.
	SpeciesColumn string
	// DomesticKeyword is substring-matched against the species description.
	DomesticKeyword string
}

// DefaultConfig returns the outbreak-record schema.
func DefaultConfig() Config {
	return Config{
		LabelColumn:     "humansAffected",
		LeakagePrefix:   "human",
		DropColumns:     []string{"Id", "longitude", "latitude"},
		CountryColumn:   "country",
		SpeciesColumn:   "speciesDescription",
		DomesticKeyword: "domestic",
	}
}

// Builder turns a raw frame into an aligned (matrix, labels) pair.
type Builder struct {
	cfg  Config
	drop map[string]struct{}
}

// NewBuilder creates a builder for the given schema.
func NewBuilder(cfg Config) *Builder {
	def := DefaultConfig()
	if cfg.LabelColumn == "" {
		cfg.LabelColumn = def.LabelColumn
	}
	if cfg.LeakagePrefix == "" {
		cfg.LeakagePrefix = def.LeakagePrefix
	}
	if cfg.DropColumns == nil {
		cfg.DropColumns = def.DropColumns
	}
	if cfg.CountryColumn == "" {
		cfg.CountryColumn = def.CountryColumn
	}
	if cfg.SpeciesColumn == "" {
		cfg.SpeciesColumn = def.SpeciesColumn
	}
	if cfg.DomesticKeyword == "" {
		cfg.DomesticKeyword = def.DomesticKeyword
	}

	drop := make(map[string]struct{}, len(cfg.DropColumns))
	for _, name := range cfg.DropColumns {
		drop[name] = struct{}{}
	}
	return &Builder{cfg: cfg, drop: drop}
}

// Build derives labels and assembles the feature matrix. The frame is not
// mutated; cached frames may be shared across concurrent trials. Column
// order: numeric features, is_domestic, country indicators, species
// indicators. Returns a schema error when a required column is absent.
func (b *Builder) Build(frame *dataset.Frame) (*Matrix, []int, error) {
	labelCol, err := frame.Column(b.cfg.LabelColumn)
	if err != nil {
		return nil, nil, fmt.Errorf("label column: %w", err)
	}
	countryCol, err := frame.Column(b.cfg.CountryColumn)
	if err != nil {
		return nil, nil, fmt.Errorf("country column: %w", err)
	}
	speciesCol, err := frame.Column(b.cfg.SpeciesColumn)
	if err != nil {
		return nil, nil, fmt.Errorf("species column: %w", err)
	}
	if countryCol.Kind != dataset.KindString {
		return nil, nil, fmt.Errorf("country column %q is not categorical", b.cfg.CountryColumn)
	}
	if speciesCol.Kind != dataset.KindString {
		return nil, nil, fmt.Errorf("species column %q is not text", b.cfg.SpeciesColumn)
	}

	y := PresenceLabels(labelCol)

	m := NewMatrix(frame.Rows())

	// Numeric columns that survive the leakage and identifier drops.
	prefix := strings.ToLower(b.cfg.LeakagePrefix)
	for _, c := range frame.Columns() {
		if strings.HasPrefix(strings.ToLower(c.Name), prefix) {
			continue
		}
		if _, dropped := b.drop[c.Name]; dropped {
			continue
		}
		if c.Kind != dataset.KindNumeric {
			continue
		}
		if err := m.AddColumn(c.Name, c.Nums); err != nil {
			return nil, nil, err
		}
	}

	// Boolean flag from substring match on the free-text description.
	flag := make([]float64, speciesCol.Len())
	keyword := strings.ToLower(b.cfg.DomesticKeyword)
	for i, s := range speciesCol.Strs {
		if strings.Contains(strings.ToLower(s), keyword) {
			flag[i] = 1
		}
	}
	if err := m.AddColumn("is_"+keyword, flag); err != nil {
		return nil, nil, err
	}

	// Country indicators, category set fixed by the full dataset.
	country := FitOneHot(b.cfg.CountryColumn, countryCol.Strs)
	if err := m.AddBlock(country.Names(), country.Transform(countryCol.Strs)); err != nil {
		return nil, nil, err
	}

	// Species token indicators; unresolved extractions become the missing
	// category (zero row) rather than dropping the record.
	tokens := make([]string, speciesCol.Len())
	for i, s := range speciesCol.Strs {
		tokens[i] = SpeciesToken(s)
	}
	species := FitOneHot("species", tokens)
	if err := m.AddBlock(species.Names(), species.Transform(tokens)); err != nil {
		return nil, nil, err
	}

	if len(y) != m.Rows() {
		return nil, nil, fmt.Errorf("%w: %d labels for %d rows", ErrShapeMismatch, len(y), m.Rows())
	}
	return m, y, nil
}

var alphaRun = regexp.MustCompile(`[A-Za-z]+`)

// SpeciesToken extracts the trailing alphabetic token of a species
// description, with surrounding punctuation stripped:
// "Columba livia (domestic)" yields "domestic",
// "Anas platyrhynchos" yields "platyrhynchos".
// Descriptions with no alphabetic run yield "".
func SpeciesToken(description string) string {
	runs := alphaRun.FindAllString(description, -1)
	if len(runs) == 0 {
		return ""
	}
	return runs[len(runs)-1]
}
