package features

import "testing"

func makeRows(n int) ([][]float64, []int) {
	x := make([][]float64, n)
	y := make([]int, n)
	for i := range x {
		x[i] = []float64{float64(i)}
		y[i] = i % 2
	}
	return x, y
}

func TestHeadSplit_SeventyOfHundred(t *testing.T) {
	x, y := makeRows(100)

	s, err := HeadSplit(x, y, 0.7)
	if err != nil {
		t.Fatalf("HeadSplit failed: %v", err)
	}

	if len(s.XTrain) != 70 || len(s.YTrain) != 70 {
		t.Errorf("Expected 70 train rows, got %d/%d", len(s.XTrain), len(s.YTrain))
	}
	if len(s.XTest) != 30 || len(s.YTest) != 30 {
		t.Errorf("Expected 30 test rows, got %d/%d", len(s.XTest), len(s.YTest))
	}

	// Contiguous: the first test row is row 70 of the input.
	if s.XTest[0][0] != 70 {
		t.Errorf("Expected test partition to start at row 70, got %v", s.XTest[0][0])
	}
}

func TestHeadSplit_FloorNotRound(t *testing.T) {
	x, y := makeRows(9)

	s, err := HeadSplit(x, y, 0.7)
	if err != nil {
		t.Fatalf("HeadSplit failed: %v", err)
	}
	// floor(0.7*9) = 6, not 7.
	if len(s.XTrain) != 6 {
		t.Errorf("Expected 6 train rows, got %d", len(s.XTrain))
	}
}

func TestHeadSplit_FullFraction(t *testing.T) {
	x, y := makeRows(5)

	s, err := HeadSplit(x, y, 1.0)
	if err != nil {
		t.Fatalf("HeadSplit failed: %v", err)
	}
	if len(s.XTrain) != 5 || len(s.XTest) != 0 {
		t.Errorf("Expected 5/0 split, got %d/%d", len(s.XTrain), len(s.XTest))
	}
}

func TestHeadSplit_InvalidInputs(t *testing.T) {
	x, y := makeRows(10)

	if _, err := HeadSplit(x, y[:5], 0.7); err == nil {
		t.Errorf("Expected error for row/label mismatch")
	}
	if _, err := HeadSplit(x, y, 0); err == nil {
		t.Errorf("Expected error for zero fraction")
	}
	if _, err := HeadSplit(x, y, 1.5); err == nil {
		t.Errorf("Expected error for fraction above 1")
	}
}
