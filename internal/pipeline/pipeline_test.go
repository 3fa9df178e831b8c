package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akozhin/epiboost/internal/model"
)

// writeOutbreakCSV generates a synthetic outbreak dataset where high
// sumAtRisk rows carry a humansAffected count, so the label is learnable.
func writeOutbreakCSV(t *testing.T, rows int) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("Id,longitude,latitude,sumAtRisk,sumDeaths,humansAffected,humansDeaths,country,speciesDescription\n")

	countries := []string{"Mexico", "Algeria", "Zimbabwe"}
	species := []string{"Columba livia (domestic)", "Anas platyrhynchos", "Sus scrofa (wild boar)"}

	for i := 0; i < rows; i++ {
		risk := float64(i%100) * 10
		affected := ""
		deaths := ""
		if risk >= 500 {
			affected = fmt.Sprintf("%d", i%7+1)
			deaths = fmt.Sprintf("%d", i%3)
		}
		fmt.Fprintf(&b, "%d,%.1f,%.1f,%.1f,%d,%s,%s,%s,%s\n",
			i, float64(i%360)-180, float64(i%180)-90, risk, i%5,
			affected, deaths,
			countries[i%len(countries)], species[i%len(species)])
	}

	path := filepath.Join(t.TempDir(), "outbreaks.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Train.Rounds = 20
	return cfg
}

func TestPipeline_Train_EndToEnd(t *testing.T) {
	path := writeOutbreakCSV(t, 200)
	p := New(testConfig(t))

	report, err := p.Train(context.Background(), path)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	if report.Dataset.Rows != 200 {
		t.Errorf("Expected 200 rows, got %d", report.Dataset.Rows)
	}
	if report.Split.TrainRows != 140 || report.Split.TestRows != 60 {
		t.Errorf("Expected 140/60 split, got %d/%d", report.Split.TrainRows, report.Split.TestRows)
	}

	// The label is a clean threshold on sumAtRisk; the booster must beat
	// guessing by a wide margin.
	if report.Metrics.ErrorRate > 0.1 {
		t.Errorf("Expected error rate below 0.1 on learnable data, got %v", report.Metrics.ErrorRate)
	}

	// Leakage columns must never reach the feature matrix.
	for _, imp := range report.Importance {
		if strings.HasPrefix(strings.ToLower(imp.Feature), "human") {
			t.Errorf("Leakage feature %q in importance", imp.Feature)
		}
		if imp.Feature == "Id" || imp.Feature == "longitude" || imp.Feature == "latitude" {
			t.Errorf("Dropped column %q in importance", imp.Feature)
		}
	}

	if len(report.Importance) == 0 {
		t.Fatalf("Expected non-empty importance")
	}
	if report.Importance[0].Feature != "sumAtRisk" {
		t.Errorf("Expected sumAtRisk to dominate importance, got %q", report.Importance[0].Feature)
	}
	for i := 1; i < len(report.Importance); i++ {
		if report.Importance[i].Gain > report.Importance[i-1].Gain {
			t.Errorf("Importance not sorted by gain at index %d", i)
		}
	}
}

func TestPipeline_Train_MissingColumnFailsLoudly(t *testing.T) {
	// No humansAffected column at all.
	csvData := "Id,sumAtRisk,country,speciesDescription\n1,10,Mexico,cattle\n"
	path := filepath.Join(t.TempDir(), "drifted.csv")
	if err := os.WriteFile(path, []byte(csvData), 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	p := New(testConfig(t))
	_, err := p.Train(context.Background(), path)
	if err == nil {
		t.Fatalf("Expected schema error for missing label column")
	}
	if !strings.Contains(err.Error(), "humansAffected") {
		t.Errorf("Expected error naming the missing column, got %v", err)
	}
}

func TestPipeline_Train_WithCacheAndShuffle(t *testing.T) {
	path := writeOutbreakCSV(t, 150)

	cfg := testConfig(t)
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = t.TempDir()
	cfg.Split.Shuffle = true
	cfg.Split.Seed = 7
	p := New(cfg)

	first, err := p.Train(context.Background(), path)
	if err != nil {
		t.Fatalf("first Train failed: %v", err)
	}
	if !first.Split.Shuffled {
		t.Errorf("Expected report to record the shuffle")
	}

	// Second run hits the frame cache and must agree exactly (same seed).
	second, err := p.Train(context.Background(), path)
	if err != nil {
		t.Fatalf("second Train failed: %v", err)
	}
	if first.Metrics.ErrorRate != second.Metrics.ErrorRate {
		t.Errorf("Expected identical metrics from cached frame: %v vs %v",
			first.Metrics.ErrorRate, second.Metrics.ErrorRate)
	}
}

func TestPipeline_Train_CancelledContext(t *testing.T) {
	path := writeOutbreakCSV(t, 50)
	p := New(testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Train(ctx, path); err == nil {
		t.Errorf("Expected error for cancelled context")
	}
}

func TestPipeline_Inspect(t *testing.T) {
	path := writeOutbreakCSV(t, 60)
	p := New(testConfig(t))

	summaries, err := p.Inspect(path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if len(summaries) != 9 {
		t.Fatalf("Expected 9 column summaries, got %d", len(summaries))
	}

	byName := make(map[string]string)
	for _, s := range summaries {
		byName[s.Name] = s.Kind
	}
	if byName["sumAtRisk"] != "numeric" {
		t.Errorf("Expected sumAtRisk numeric, got %q", byName["sumAtRisk"])
	}
	if byName["country"] != "string" {
		t.Errorf("Expected country string, got %q", byName["country"])
	}
}

func TestPipeline_Tune_RanksTrials(t *testing.T) {
	path := writeOutbreakCSV(t, 200)
	p := New(testConfig(t))

	trials := model.DefaultTrials()[:3]
	results, err := p.Tune(context.Background(), path, trials, 2)
	if err != nil {
		t.Fatalf("Tune failed: %v", err)
	}
	if len(results) != len(trials) {
		t.Fatalf("Expected %d results, got %d", len(trials), len(results))
	}

	for i, r := range results {
		if r.Err != nil {
			t.Errorf("Trial %s failed: %v", r.Trial.Name, r.Err)
			continue
		}
		if i > 0 && results[i-1].Err == nil &&
			r.Report.Metrics.ErrorRate < results[i-1].Report.Metrics.ErrorRate {
			t.Errorf("Results not sorted by error rate at index %d", i)
		}
	}
}

func TestPipeline_Tune_CancelledContext(t *testing.T) {
	path := writeOutbreakCSV(t, 50)
	p := New(testConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Depending on dispatch timing either nothing runs (Tune errors instead
	// of returning an empty slice) or dispatched trials fail on the context.
	results, err := p.Tune(ctx, path, model.DefaultTrials(), 2)
	if err != nil {
		return
	}
	if len(results) == 0 {
		t.Fatalf("Expected an error for zero results, got an empty slice")
	}
	for _, r := range results {
		if r.Err == nil {
			t.Errorf("Trial %s succeeded under a cancelled context", r.Trial.Name)
		}
	}
}

func TestPipeline_RenderReport_WritesArtifacts(t *testing.T) {
	path := writeOutbreakCSV(t, 120)
	p := New(testConfig(t))

	report, err := p.Train(context.Background(), path)
	if err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "report.json")
	mdPath := filepath.Join(dir, "report.md")

	if err := p.RenderReport(report, jsonPath, mdPath, "", false); err != nil {
		t.Fatalf("RenderReport failed: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read JSON report: %v", err)
	}
	var parsed model.Report
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("JSON report does not parse: %v", err)
	}
	if parsed.Metrics.ErrorRate != report.Metrics.ErrorRate {
		t.Errorf("JSON round-trip changed the error rate")
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read Markdown report: %v", err)
	}
	for _, want := range []string{"# Outbreak Model Report", "## Held-out metrics", "error rate"} {
		if !strings.Contains(string(md), want) {
			t.Errorf("Markdown report missing %q", want)
		}
	}
}
