package artifact

import (
	"fmt"
	"math"

	"github.com/Veraticus/fraudwatch/internal/common"
	"github.com/Veraticus/fraudwatch/internal/model"
)

// Scaler is a fitted per-feature affine transform over the (Time, Amount) pair.
// Every kind reduces to out = (x - offset) / scale.
type Scaler struct {
	Kind   string
	offset [2]float64
	scale  [2]float64
}

type scalerDoc struct {
	Kind         string    `json:"kind"`
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Center       []float64 `json:"center"`
	Min          []float64 `json:"min"`
	Scale        []float64 `json:"scale"`
}

// DecodeScaler builds a scaler from its JSON form.
func DecodeScaler(data []byte) (*Scaler, error) {
	var doc scalerDoc
	if err := decodeJSON(data, &doc); err != nil {
		return nil, err
	}

	want := []string{model.FieldTime, model.FieldAmount}
	if len(doc.FeatureNames) != 0 && !equalNames(doc.FeatureNames, want) {
		return nil, fmt.Errorf("%w: scaler features %v, want %v", common.ErrArtifactInvalid, doc.FeatureNames, want)
	}

	if len(doc.Scale) != 2 {
		return nil, fmt.Errorf("%w: scaler needs 2 scale values, got %d", common.ErrArtifactInvalid, len(doc.Scale))
	}

	s := &Scaler{Kind: doc.Kind}
	for i := range 2 {
		s.scale[i] = handleZeroScale(doc.Scale[i])
	}

	switch doc.Kind {
	case KindStandardScaler:
		if err := fillPair(&s.offset, doc.Mean, "mean"); err != nil {
			return nil, err
		}
	case KindRobustScaler:
		if err := fillPair(&s.offset, doc.Center, "center"); err != nil {
			return nil, err
		}
	case KindMinMaxScaler:
		// MinMaxScaler stores out = x*scale + min; rewrite as (x - offset) / (1/scale).
		if err := fillPair(&s.offset, doc.Min, "min"); err != nil {
			return nil, err
		}
		for i := range 2 {
			if doc.Scale[i] == 0 {
				return nil, fmt.Errorf("%w: minmax scale must be non-zero", common.ErrArtifactInvalid)
			}
			s.offset[i] = -doc.Min[i] / doc.Scale[i]
			s.scale[i] = 1 / doc.Scale[i]
		}
	case "":
		return nil, fmt.Errorf("%w: missing kind", common.ErrArtifactInvalid)
	default:
		return nil, fmt.Errorf("%w: unsupported scaler kind %q", common.ErrArtifactInvalid, doc.Kind)
	}

	for i := range 2 {
		if !isFinite(s.offset[i]) || !isFinite(s.scale[i]) {
			return nil, fmt.Errorf("%w: scaler parameters must be finite", common.ErrArtifactInvalid)
		}
	}

	return s, nil
}

// NewStandardScaler builds a standard scaler from fitted means and scales.
func NewStandardScaler(mean, scale [2]float64) *Scaler {
	return &Scaler{
		Kind:   KindStandardScaler,
		offset: mean,
		scale:  [2]float64{handleZeroScale(scale[0]), handleZeroScale(scale[1])},
	}
}

// Transform rescales the (Time, Amount) pair.
func (s *Scaler) Transform(pair [2]float64) ([2]float64, error) {
	var out [2]float64
	for i := range 2 {
		out[i] = (pair[i] - s.offset[i]) / s.scale[i]
	}
	return out, nil
}

// handleZeroScale mirrors scikit-learn: constant features keep a unit scale.
func handleZeroScale(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func fillPair(dst *[2]float64, src []float64, field string) error {
	if len(src) != 2 {
		return fmt.Errorf("%w: scaler needs 2 %s values, got %d", common.ErrArtifactInvalid, field, len(src))
	}
	dst[0], dst[1] = src[0], src[1]
	return nil
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
