package inference

import "github.com/Veraticus/fraudwatch/internal/model"

// Scaler rescales the (Time, Amount) pair of a record.
// Implementations must be safe for concurrent use.
type Scaler interface {
	Transform(pair [2]float64) ([2]float64, error)
}

// Classifier is a fitted binary fraud model.
// Implementations must be safe for concurrent use.
type Classifier interface {
	Predict(rec model.Record) (model.Label, error)
	PredictProba(rec model.Record) ([2]float64, error)
}
