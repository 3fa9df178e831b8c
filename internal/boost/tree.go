package boost

import (
	"math"
	"sort"
)

// treeNode is a node of a regression tree fit to per-row gradients and
// hessians. Leaf values are Newton steps, -G/(H+lambda).
type treeNode struct {
	leaf        bool
	value       float64
	feature     int
	threshold   float64
	missingLeft bool // rows with NaN in feature follow this direction
	left        *treeNode
	right       *treeNode
}

type treeParams struct {
	maxDepth       int
	lambda         float64
	minChildWeight float64
}

type regressionTree struct {
	root *treeNode
	gain []float64 // realized split gain per feature, this tree only
}

// valuePair couples a feature value with its row index for threshold scans.
type valuePair struct {
	v float64
	i int
}

type treeSplit struct {
	gain        float64
	feature     int
	threshold   float64
	missingLeft bool
	leftIdx     []int
	rightIdx    []int
}

// buildTree grows a tree greedily, recording realized split gain per feature
// on the tree itself so importance can be summed over kept trees only.
func buildTree(x [][]float64, grad, hess []float64, idx []int, params treeParams, nFeatures int) *regressionTree {
	t := &regressionTree{gain: make([]float64, nFeatures)}
	t.root = buildNode(x, grad, hess, idx, 0, params, t.gain)
	return t
}

func buildNode(x [][]float64, grad, hess []float64, idx []int, depth int, params treeParams, gainAcc []float64) *treeNode {
	var sumG, sumH float64
	for _, i := range idx {
		sumG += grad[i]
		sumH += hess[i]
	}
	leaf := &treeNode{leaf: true, value: -sumG / (sumH + params.lambda)}

	if depth >= params.maxDepth || len(idx) < 2 {
		return leaf
	}

	best := findBestSplit(x, grad, hess, idx, sumG, sumH, params)
	if best.feature < 0 || best.gain <= 0 {
		return leaf
	}

	if gainAcc != nil {
		gainAcc[best.feature] += best.gain
	}

	return &treeNode{
		feature:     best.feature,
		threshold:   best.threshold,
		missingLeft: best.missingLeft,
		left:        buildNode(x, grad, hess, best.leftIdx, depth+1, params, gainAcc),
		right:       buildNode(x, grad, hess, best.rightIdx, depth+1, params, gainAcc),
	}
}

func findBestSplit(x [][]float64, grad, hess []float64, idx []int, sumG, sumH float64, params treeParams) treeSplit {
	best := treeSplit{feature: -1}
	if len(idx) == 0 {
		return best
	}
	parentScore := sumG * sumG / (sumH + params.lambda)

	for f := range x[idx[0]] {
		valid := make([]valuePair, 0, len(idx))
		var nans []int
		var nanG, nanH float64
		for _, i := range idx {
			v := x[i][f]
			if math.IsNaN(v) {
				nans = append(nans, i)
				nanG += grad[i]
				nanH += hess[i]
				continue
			}
			valid = append(valid, valuePair{v: v, i: i})
		}
		if len(valid) < 2 {
			continue
		}
		sort.Slice(valid, func(a, b int) bool { return valid[a].v < valid[b].v })

		var leftG, leftH float64
		for s := 1; s < len(valid); s++ {
			leftG += grad[valid[s-1].i]
			leftH += hess[valid[s-1].i]
			if valid[s].v == valid[s-1].v {
				continue
			}
			thr := (valid[s-1].v + valid[s].v) / 2

			// Missing rows try both directions; keep whichever scores higher.
			for _, missingLeft := range []bool{true, false} {
				gl, hl := leftG, leftH
				gr, hr := sumG-nanG-leftG, sumH-nanH-leftH
				if missingLeft {
					gl += nanG
					hl += nanH
				} else {
					gr += nanG
					hr += nanH
				}
				if hl < params.minChildWeight || hr < params.minChildWeight {
					continue
				}
				gain := 0.5 * (gl*gl/(hl+params.lambda) + gr*gr/(hr+params.lambda) - parentScore)
				if gain > best.gain {
					best = treeSplit{
						gain:        gain,
						feature:     f,
						threshold:   thr,
						missingLeft: missingLeft,
					}
				}
			}
		}
	}

	if best.feature < 0 {
		return best
	}

	// Materialize partitions for the winning split only.
	for _, i := range idx {
		v := x[i][best.feature]
		toLeft := false
		if math.IsNaN(v) {
			toLeft = best.missingLeft
		} else {
			toLeft = v <= best.threshold
		}
		if toLeft {
			best.leftIdx = append(best.leftIdx, i)
		} else {
			best.rightIdx = append(best.rightIdx, i)
		}
	}
	return best
}

// predict walks the tree for a single row.
func (t *regressionTree) predict(row []float64) float64 {
	node := t.root
	for !node.leaf {
		v := row[node.feature]
		if math.IsNaN(v) {
			if node.missingLeft {
				node = node.left
			} else {
				node = node.right
			}
			continue
		}
		if v <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}
