package artifact

import (
	"fmt"
	"math"

	"github.com/Veraticus/fraudwatch/internal/common"
	"github.com/Veraticus/fraudwatch/internal/model"
)

const defaultThreshold = 0.5

// LogisticRegression is a fitted linear model with a sigmoid link.
type LogisticRegression struct {
	columns      columnMap
	coefficients []float64
	intercept    float64
	threshold    float64
}

type logisticDoc struct {
	Threshold    *float64  `json:"threshold"`
	Kind         string    `json:"kind"`
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func decodeLogistic(data []byte) (*LogisticRegression, error) {
	var doc logisticDoc
	if err := decodeJSON(data, &doc); err != nil {
		return nil, err
	}

	threshold := defaultThreshold
	if doc.Threshold != nil {
		threshold = *doc.Threshold
	}

	return NewLogisticRegression(doc.FeatureNames, doc.Coefficients, doc.Intercept, threshold)
}

// NewLogisticRegression builds a model from fitted parameters.
// featureNames may be nil when coefficients follow record column order.
func NewLogisticRegression(featureNames []string, coefficients []float64, intercept, threshold float64) (*LogisticRegression, error) {
	cols, err := newColumnMap(featureNames)
	if err != nil {
		return nil, err
	}
	if len(coefficients) != len(cols) {
		return nil, fmt.Errorf("%w: %d coefficients for %d features",
			common.ErrArtifactInvalid, len(coefficients), len(cols))
	}
	for _, c := range coefficients {
		if !isFinite(c) {
			return nil, fmt.Errorf("%w: coefficients must be finite", common.ErrArtifactInvalid)
		}
	}
	if !isFinite(intercept) {
		return nil, fmt.Errorf("%w: intercept must be finite", common.ErrArtifactInvalid)
	}
	if threshold <= 0 || threshold >= 1 {
		return nil, fmt.Errorf("%w: threshold must be in (0,1), got %g", common.ErrArtifactInvalid, threshold)
	}

	coef := make([]float64, len(coefficients))
	copy(coef, coefficients)

	return &LogisticRegression{
		columns:      cols,
		coefficients: coef,
		intercept:    intercept,
		threshold:    threshold,
	}, nil
}

// Predict returns the class label for rec.
func (m *LogisticRegression) Predict(rec model.Record) (model.Label, error) {
	p := m.fraudProbability(rec)
	if p > m.threshold {
		return model.LabelFraud, nil
	}
	return model.LabelSafe, nil
}

// PredictProba returns [P(safe), P(fraud)] for rec.
func (m *LogisticRegression) PredictProba(rec model.Record) ([2]float64, error) {
	p := m.fraudProbability(rec)
	return [2]float64{1 - p, p}, nil
}

func (m *LogisticRegression) fraudProbability(rec model.Record) float64 {
	z := m.intercept
	for i, x := range m.columns.gather(rec) {
		z += m.coefficients[i] * x
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
