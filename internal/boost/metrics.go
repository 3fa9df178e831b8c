package boost

import "math"

// PredictFromProba thresholds probabilities into 0/1 class labels.
func PredictFromProba(proba []float64, threshold float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		if p >= threshold {
			out[i] = 1
		}
	}
	return out
}

// ErrorRate is the mean mismatch between true and predicted labels: 0.0 for a
// fully correct vector, 1.0 for an all-wrong one.
func ErrorRate(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	wrong := 0
	for i := range yTrue {
		if yTrue[i] != yPred[i] {
			wrong++
		}
	}
	return float64(wrong) / float64(len(yTrue))
}

// Accuracy is the complement of ErrorRate.
func Accuracy(yTrue, yPred []int) float64 {
	return 1 - ErrorRate(yTrue, yPred)
}

// PrecisionRecallF1 computes the positive-class precision, recall and F1.
func PrecisionRecallF1(yTrue, yPred []int) (prec, rec, f1 float64) {
	tp, fp, fn := 0, 0, 0
	for i := range yTrue {
		switch {
		case yPred[i] == 1 && yTrue[i] == 1:
			tp++
		case yPred[i] == 1 && yTrue[i] == 0:
			fp++
		case yPred[i] == 0 && yTrue[i] == 1:
			fn++
		}
	}
	if tp+fp > 0 {
		prec = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		rec = float64(tp) / float64(tp+fn)
	}
	if prec+rec > 0 {
		f1 = 2 * prec * rec / (prec + rec)
	}
	return
}

// LogLoss computes the mean negative log-likelihood of binary labels under
// the predicted probabilities, clamped away from 0 and 1.
func LogLoss(yTrue []int, proba []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	var sum float64
	for i, p := range proba {
		p = math.Min(math.Max(p, 1e-15), 1-1e-15)
		if yTrue[i] == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(len(yTrue))
}
