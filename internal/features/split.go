package features

import (
	"fmt"
	"math"
)

// Split holds train/test partitions with aligned labels.
type Split struct {
	XTrain [][]float64
	YTrain []int
	XTest  [][]float64
	YTest  []int
}

// HeadSplit partitions rows into a contiguous training prefix and a test
// remainder. No shuffling happens here; callers wanting randomized rows must
// permute the frame before building the matrix. The train size is
// floor(frac*n), clamped so it never exceeds the available rows.
func HeadSplit(x [][]float64, y []int, frac float64) (Split, error) {
	if len(x) != len(y) {
		return Split{}, fmt.Errorf("%w: %d rows, %d labels", ErrShapeMismatch, len(x), len(y))
	}
	if frac <= 0 || frac > 1 {
		return Split{}, fmt.Errorf("split fraction %v outside (0, 1]", frac)
	}

	n := len(x)
	nTrain := int(math.Floor(frac * float64(n)))
	if nTrain > n {
		nTrain = n
	}

	return Split{
		XTrain: x[:nTrain],
		YTrain: y[:nTrain],
		XTest:  x[nTrain:],
		YTest:  y[nTrain:],
	}, nil
}
