package features

import "github.com/akozhin/epiboost/internal/dataset"

// PresenceLabels derives a binary label per row: 1 when the value is present,
// 0 when it is null. All-null and all-present columns yield valid degenerate
// vectors.
func PresenceLabels(col *dataset.Column) []int {
	y := make([]int, col.Len())
	for i := range y {
		if !col.IsNull(i) {
			y[i] = 1
		}
	}
	return y
}
