// Package boost implements binary classification with gradient-boosted
// regression trees: Newton boosting on the logistic loss, exact greedy
// splits, learned missing-value directions, and gain-based feature
// importance.
package boost

import (
	"errors"
	"fmt"
	"math"
)

// Params are the booster hyperparameters.
type Params struct {
	// Rounds is the number of boosting rounds (trees).
	Rounds int `json:"rounds" yaml:"rounds" mapstructure:"rounds"`
	// MaxDepth limits tree depth; root is depth 0.
	MaxDepth int `json:"max_depth" yaml:"max_depth" mapstructure:"max_depth"`
	// LearningRate shrinks each tree's contribution.
	LearningRate float64 `json:"learning_rate" yaml:"learning_rate" mapstructure:"learning_rate"`
	// Lambda is the L2 regularization term on leaf weights.
	Lambda float64 `json:"lambda" yaml:"lambda" mapstructure:"lambda"`
	// ScalePosWeight multiplies the loss weight of positive rows to counter
	// class imbalance.
	ScalePosWeight float64 `json:"scale_pos_weight" yaml:"scale_pos_weight" mapstructure:"scale_pos_weight"`
	// EarlyStopping stops after this many rounds without eval-set
	// improvement. 0 disables early stopping.
	EarlyStopping int `json:"early_stopping" yaml:"early_stopping" mapstructure:"early_stopping"`
	// MinChildWeight is the minimum hessian sum per child.
	MinChildWeight float64 `json:"min_child_weight" yaml:"min_child_weight" mapstructure:"min_child_weight"`
}

// DefaultParams returns the baseline hyperparameters.
func DefaultParams() Params {
	return Params{
		Rounds:         60,
		MaxDepth:       4,
		LearningRate:   0.3,
		Lambda:         1.0,
		ScalePosWeight: 1.0,
		EarlyStopping:  10,
		MinChildWeight: 1.0,
	}
}

// Booster is a gradient-boosted tree binary classifier.
type Booster struct {
	params    Params
	trees     []*regressionTree
	nFeatures int
	bestRound int
	evalLoss  []float64
}

// NewBooster creates an untrained booster.
func NewBooster(p Params) *Booster {
	if p.Rounds <= 0 {
		p.Rounds = DefaultParams().Rounds
	}
	if p.MaxDepth <= 0 {
		p.MaxDepth = DefaultParams().MaxDepth
	}
	if p.LearningRate <= 0 {
		p.LearningRate = DefaultParams().LearningRate
	}
	if p.ScalePosWeight <= 0 {
		p.ScalePosWeight = 1.0
	}
	return &Booster{params: p}
}

// Params returns the effective hyperparameters.
func (b *Booster) Params() Params { return b.params }

// Fit trains on x/y. When evalX/evalY are non-empty the eval log-loss is
// tracked per round and early stopping truncates the ensemble at the best
// round. Labels must be 0 or 1 and rows must be NaN-for-missing floats.
func (b *Booster) Fit(x [][]float64, y []int, evalX [][]float64, evalY []int) error {
	if len(x) == 0 {
		return errors.New("boost: empty training set")
	}
	if len(x) != len(y) {
		return fmt.Errorf("boost: %d rows, %d labels", len(x), len(y))
	}
	width := len(x[0])
	for i := range x {
		if len(x[i]) != width {
			return fmt.Errorf("boost: row %d has %d features, expected %d", i, len(x[i]), width)
		}
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("boost: label %d at row %d is not binary", v, i)
		}
	}
	if len(evalX) != len(evalY) {
		return fmt.Errorf("boost: %d eval rows, %d eval labels", len(evalX), len(evalY))
	}

	b.trees = nil
	b.nFeatures = width
	b.bestRound = -1
	b.evalLoss = nil

	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}

	tp := treeParams{
		maxDepth:       b.params.MaxDepth,
		lambda:         b.params.Lambda,
		minChildWeight: b.params.MinChildWeight,
	}

	margins := make([]float64, len(x))
	evalMargins := make([]float64, len(evalX))
	grad := make([]float64, len(x))
	hess := make([]float64, len(x))

	bestLoss := math.Inf(1)
	for round := 0; round < b.params.Rounds; round++ {
		for i := range x {
			p := sigmoid(margins[i])
			w := 1.0
			if y[i] == 1 {
				w = b.params.ScalePosWeight
			}
			grad[i] = w * (p - float64(y[i]))
			hess[i] = w * p * (1 - p)
		}

		tree := buildTree(x, grad, hess, idx, tp, width)
		b.trees = append(b.trees, tree)

		for i := range x {
			margins[i] += b.params.LearningRate * tree.predict(x[i])
		}

		if len(evalX) == 0 {
			continue
		}
		for i := range evalX {
			evalMargins[i] += b.params.LearningRate * tree.predict(evalX[i])
		}
		loss := logLossFromMargins(evalY, evalMargins)
		b.evalLoss = append(b.evalLoss, loss)
		if loss < bestLoss {
			bestLoss = loss
			b.bestRound = round
		}
		if b.params.EarlyStopping > 0 && round-b.bestRound >= b.params.EarlyStopping {
			break
		}
	}

	if len(evalX) > 0 && b.params.EarlyStopping > 0 && b.bestRound >= 0 {
		b.trees = b.trees[:b.bestRound+1]
	} else {
		b.bestRound = len(b.trees) - 1
	}
	return nil
}

// PredictProba returns the positive-class probability per row.
func (b *Booster) PredictProba(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		var margin float64
		for _, t := range b.trees {
			margin += b.params.LearningRate * t.predict(row)
		}
		out[i] = sigmoid(margin)
	}
	return out
}

// Predict thresholds the raw score at threshold.
func (b *Booster) Predict(x [][]float64, threshold float64) []int {
	return PredictFromProba(b.PredictProba(x), threshold)
}

// Rounds returns the number of trees kept after training.
func (b *Booster) Rounds() int { return len(b.trees) }

// BestRound returns the round with the lowest eval loss (0-based).
func (b *Booster) BestRound() int { return b.bestRound }

// EvalLoss returns the per-round eval log-loss history.
func (b *Booster) EvalLoss() []float64 { return b.evalLoss }

// GainImportance returns the accumulated split gain per feature index over
// the trees kept after early stopping; truncated rounds do not contribute.
func (b *Booster) GainImportance() []float64 {
	out := make([]float64, b.nFeatures)
	for _, t := range b.trees {
		for f, g := range t.gain {
			out[f] += g
		}
	}
	return out
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

func logLossFromMargins(y []int, margins []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	var sum float64
	for i, m := range margins {
		p := sigmoid(m)
		p = math.Min(math.Max(p, 1e-15), 1-1e-15)
		if y[i] == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(len(y))
}
