package boost

import (
	"math"
	"testing"
)

// separable builds a one-feature dataset where x < 0.5 is class 0 and
// x >= 0.5 is class 1.
func separable(n int) ([][]float64, []int) {
	x := make([][]float64, n)
	y := make([]int, n)
	for i := range x {
		v := float64(i) / float64(n)
		x[i] = []float64{v}
		if v >= 0.5 {
			y[i] = 1
		}
	}
	return x, y
}

func TestBooster_Fit_LearnsSeparableData(t *testing.T) {
	x, y := separable(100)

	b := NewBooster(Params{Rounds: 20, MaxDepth: 3, LearningRate: 0.5, Lambda: 1.0})
	if err := b.Fit(x, y, nil, nil); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	pred := b.Predict(x, 0.5)
	if r := ErrorRate(y, pred); r > 0.02 {
		t.Errorf("Expected near-zero training error on separable data, got %v", r)
	}

	proba := b.PredictProba([][]float64{{0.05}, {0.95}})
	if proba[0] >= 0.5 {
		t.Errorf("Expected low probability for x=0.05, got %v", proba[0])
	}
	if proba[1] <= 0.5 {
		t.Errorf("Expected high probability for x=0.95, got %v", proba[1])
	}
}

func TestBooster_Fit_ValidatesInput(t *testing.T) {
	b := NewBooster(DefaultParams())

	if err := b.Fit(nil, nil, nil, nil); err == nil {
		t.Errorf("Expected error for empty training set")
	}
	if err := b.Fit([][]float64{{1}, {2}}, []int{0}, nil, nil); err == nil {
		t.Errorf("Expected error for row/label mismatch")
	}
	if err := b.Fit([][]float64{{1}, {2, 3}}, []int{0, 1}, nil, nil); err == nil {
		t.Errorf("Expected error for ragged rows")
	}
	if err := b.Fit([][]float64{{1}, {2}}, []int{0, 2}, nil, nil); err == nil {
		t.Errorf("Expected error for non-binary label")
	}
	if err := b.Fit([][]float64{{1}, {2}}, []int{0, 1}, [][]float64{{1}}, nil); err == nil {
		t.Errorf("Expected error for eval row/label mismatch")
	}
}

func TestBooster_Fit_EarlyStoppingTruncates(t *testing.T) {
	x, y := separable(140)

	// Eval partition carries label noise so the eval loss bottoms out and
	// rises once the model overcommits to the training pattern.
	evalX, evalY := separable(60)
	for i := 0; i < len(evalY); i += 5 {
		evalY[i] = 1 - evalY[i]
	}

	b := NewBooster(Params{
		Rounds:        200,
		MaxDepth:      3,
		LearningRate:  0.5,
		Lambda:        1.0,
		EarlyStopping: 5,
	})
	if err := b.Fit(x, y, evalX, evalY); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if b.Rounds() == 200 {
		t.Errorf("Expected early stopping to cut training short of 200 rounds")
	}
	if b.Rounds() != b.BestRound()+1 {
		t.Errorf("Expected ensemble truncated to best round: %d trees, best round %d",
			b.Rounds(), b.BestRound())
	}
	if len(b.EvalLoss()) < b.Rounds() {
		t.Errorf("Expected eval-loss history to cover every kept round")
	}
}

func TestBooster_Fit_HandlesMissingValues(t *testing.T) {
	// Informative feature in column 0; column 1 is mostly NaN.
	x := [][]float64{
		{0.1, math.NaN()},
		{0.2, 1},
		{0.3, math.NaN()},
		{0.7, math.NaN()},
		{0.8, 2},
		{0.9, math.NaN()},
	}
	y := []int{0, 0, 0, 1, 1, 1}

	b := NewBooster(Params{Rounds: 10, MaxDepth: 2, LearningRate: 0.5, Lambda: 1.0, MinChildWeight: 0})
	if err := b.Fit(x, y, nil, nil); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	pred := b.Predict(x, 0.5)
	if r := ErrorRate(y, pred); r > 0.0 {
		t.Errorf("Expected perfect fit with NaN cells present, got error rate %v", r)
	}

	proba := b.PredictProba([][]float64{{math.NaN(), math.NaN()}})
	if math.IsNaN(proba[0]) {
		t.Errorf("Prediction on an all-NaN row must not be NaN")
	}
}

func TestBooster_GainImportance(t *testing.T) {
	// Column 0 decides the label, column 1 is constant noise.
	x := make([][]float64, 100)
	y := make([]int, 100)
	for i := range x {
		v := float64(i) / 100
		x[i] = []float64{v, 1.0}
		if v >= 0.5 {
			y[i] = 1
		}
	}

	b := NewBooster(Params{Rounds: 10, MaxDepth: 3, LearningRate: 0.3, Lambda: 1.0})
	if err := b.Fit(x, y, nil, nil); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	gain := b.GainImportance()
	if len(gain) != 2 {
		t.Fatalf("Expected gain per feature, got %d entries", len(gain))
	}
	if gain[0] <= 0 {
		t.Errorf("Expected positive gain for the informative feature, got %v", gain[0])
	}
	if gain[1] != 0 {
		t.Errorf("Expected zero gain for the constant feature, got %v", gain[1])
	}
}

func TestBooster_GainImportance_ExcludesTruncatedRounds(t *testing.T) {
	x, y := separable(140)

	evalX, evalY := separable(60)
	for i := 0; i < len(evalY); i += 5 {
		evalY[i] = 1 - evalY[i]
	}

	params := Params{
		Rounds:        200,
		MaxDepth:      3,
		LearningRate:  0.5,
		Lambda:        1.0,
		EarlyStopping: 5,
	}
	truncated := NewBooster(params)
	if err := truncated.Fit(x, y, evalX, evalY); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if truncated.Rounds() == params.Rounds {
		t.Fatalf("Expected early stopping to truncate the ensemble")
	}

	// Training is deterministic, so a booster run for exactly the kept
	// number of rounds builds the same trees; importance must agree.
	exact := NewBooster(Params{
		Rounds:       truncated.Rounds(),
		MaxDepth:     3,
		LearningRate: 0.5,
		Lambda:       1.0,
	})
	if err := exact.Fit(x, y, nil, nil); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	got := truncated.GainImportance()
	want := exact.GainImportance()
	if len(got) != len(want) {
		t.Fatalf("Importance width mismatch: %d vs %d", len(got), len(want))
	}
	for f := range got {
		if got[f] != want[f] {
			t.Errorf("Feature %d: importance %v includes discarded rounds (want %v)", f, got[f], want[f])
		}
	}
}

func TestNewBooster_SanitizesParams(t *testing.T) {
	b := NewBooster(Params{Rounds: -1, MaxDepth: 0, LearningRate: 0, ScalePosWeight: -2})
	p := b.Params()

	def := DefaultParams()
	if p.Rounds != def.Rounds {
		t.Errorf("Expected default rounds, got %d", p.Rounds)
	}
	if p.MaxDepth != def.MaxDepth {
		t.Errorf("Expected default depth, got %d", p.MaxDepth)
	}
	if p.LearningRate != def.LearningRate {
		t.Errorf("Expected default learning rate, got %v", p.LearningRate)
	}
	if p.ScalePosWeight != 1.0 {
		t.Errorf("Expected scale_pos_weight sanitized to 1, got %v", p.ScalePosWeight)
	}
}
