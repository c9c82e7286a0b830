package artifact

import (
	"fmt"

	"github.com/Veraticus/fraudwatch/internal/common"
	"github.com/Veraticus/fraudwatch/internal/model"
)

const leafNode = -1

// Tree is one decision tree in scikit-learn's flat array layout.
// Node i is a leaf when ChildrenLeft[i] == -1; otherwise samples with
// x[Feature[i]] <= Threshold[i] go left.
type Tree struct {
	ChildrenLeft  []int        `json:"children_left"`
	ChildrenRight []int        `json:"children_right"`
	Feature       []int        `json:"feature"`
	Threshold     []float64    `json:"threshold"`
	Value         [][2]float64 `json:"value"`
}

// RandomForest averages the class probabilities of its trees.
type RandomForest struct {
	columns columnMap
	trees   []Tree
}

type forestDoc struct {
	Kind         string   `json:"kind"`
	FeatureNames []string `json:"feature_names"`
	Trees        []Tree   `json:"trees"`
}

func decodeForest(data []byte) (*RandomForest, error) {
	var doc forestDoc
	if err := decodeJSON(data, &doc); err != nil {
		return nil, err
	}
	return NewRandomForest(doc.FeatureNames, doc.Trees)
}

// NewRandomForest validates trees and builds a forest.
func NewRandomForest(featureNames []string, trees []Tree) (*RandomForest, error) {
	cols, err := newColumnMap(featureNames)
	if err != nil {
		return nil, err
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: forest has no trees", common.ErrArtifactInvalid)
	}
	for i := range trees {
		if err := trees[i].validate(len(cols)); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return &RandomForest{columns: cols, trees: trees}, nil
}

// Predict returns the majority class for rec. Ties go to safe.
func (f *RandomForest) Predict(rec model.Record) (model.Label, error) {
	proba, err := f.PredictProba(rec)
	if err != nil {
		return model.LabelSafe, err
	}
	if proba[1] > proba[0] {
		return model.LabelFraud, nil
	}
	return model.LabelSafe, nil
}

// PredictProba returns the mean [P(safe), P(fraud)] over all trees.
func (f *RandomForest) PredictProba(rec model.Record) ([2]float64, error) {
	x := f.columns.gather(rec)

	var sum [2]float64
	for i := range f.trees {
		p, err := f.trees[i].proba(x)
		if err != nil {
			return [2]float64{}, fmt.Errorf("tree %d: %w", i, err)
		}
		sum[0] += p[0]
		sum[1] += p[1]
	}

	n := float64(len(f.trees))
	return [2]float64{sum[0] / n, sum[1] / n}, nil
}

func (t *Tree) validate(features int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("%w: empty tree", common.ErrArtifactInvalid)
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("%w: tree arrays must all have %d nodes", common.ErrArtifactInvalid, n)
	}

	for i := range n {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == leafNode {
			if right != leafNode {
				return fmt.Errorf("%w: node %d has one child", common.ErrArtifactInvalid, i)
			}
			if t.Value[i][0] < 0 || t.Value[i][1] < 0 || t.Value[i][0]+t.Value[i][1] <= 0 {
				return fmt.Errorf("%w: leaf %d has no class weight", common.ErrArtifactInvalid, i)
			}
			continue
		}
		// Children always follow their parent in scikit-learn's layout,
		// which also rules out cycles.
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("%w: node %d has out-of-range children", common.ErrArtifactInvalid, i)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= features {
			return fmt.Errorf("%w: node %d splits on feature %d", common.ErrArtifactInvalid, i, t.Feature[i])
		}
	}
	return nil
}

func (t *Tree) proba(x []float64) ([2]float64, error) {
	node := 0
	for t.ChildrenLeft[node] != leafNode {
		f := t.Feature[node]
		if f >= len(x) {
			return [2]float64{}, fmt.Errorf("feature %d out of range for %d inputs", f, len(x))
		}
		if x[f] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}

	v := t.Value[node]
	total := v[0] + v[1]
	return [2]float64{v[0] / total, v[1] / total}, nil
}
