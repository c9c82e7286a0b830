package artifact

import (
	"fmt"

	"github.com/Veraticus/fraudwatch/internal/common"
	"github.com/Veraticus/fraudwatch/internal/model"
)

// columnMap maps the artifact's feature order onto record column positions.
// An empty feature list means the artifact was fit on the record order.
type columnMap []int

func newColumnMap(names []string) (columnMap, error) {
	if len(names) == 0 {
		cols := make(columnMap, model.FeatureCount)
		for i := range cols {
			cols[i] = i
		}
		return cols, nil
	}

	if len(names) != model.FeatureCount {
		return nil, fmt.Errorf("%w: model expects %d features, record has %d",
			common.ErrArtifactInvalid, len(names), model.FeatureCount)
	}

	seen := make(map[string]bool, len(names))
	cols := make(columnMap, len(names))
	for i, name := range names {
		idx, ok := model.FeatureIndex(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown feature %q", common.ErrArtifactInvalid, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate feature %q", common.ErrArtifactInvalid, name)
		}
		seen[name] = true
		cols[i] = idx
	}
	return cols, nil
}

// gather returns the record's values in artifact order.
func (c columnMap) gather(rec model.Record) []float64 {
	values := rec.Values()
	out := make([]float64, len(c))
	for i, idx := range c {
		out[i] = values[idx]
	}
	return out
}
