// Package model defines the core domain models used throughout the application.
package model

import "fmt"

// Feature vector layout.
const (
	// FeatureCount is the number of values in one feature vector.
	FeatureCount = 30
	// PCACount is the number of anonymized components V1..V28.
	PCACount = 28

	// TimeIndex is the position of Time in a feature vector.
	TimeIndex = 28
	// AmountIndex is the position of Amount in a feature vector.
	AmountIndex = 29

	FieldTime   = "Time"
	FieldAmount = "Amount"
)

var featureNames = func() []string {
	names := make([]string, 0, FeatureCount)
	for i := 1; i <= PCACount; i++ {
		names = append(names, fmt.Sprintf("V%d", i))
	}
	return append(names, FieldTime, FieldAmount)
}()

// FeatureNames returns the record column names in order: V1..V28, Time, Amount.
func FeatureNames() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}

// FeatureIndex returns the column position of a named field.
func FeatureIndex(name string) (int, bool) {
	for i, n := range featureNames {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// FeatureVector is the raw ordered input for one transaction.
type FeatureVector []float64

// Record is the named tabular form of one feature vector.
type Record struct {
	V      [PCACount]float64
	Time   float64
	Amount float64
}

// NewRecord builds a record from a vector of exactly FeatureCount values.
func NewRecord(vec FeatureVector) (Record, error) {
	if len(vec) != FeatureCount {
		return Record{}, fmt.Errorf("expected %d values, got %d", FeatureCount, len(vec))
	}

	var r Record
	copy(r.V[:], vec[:PCACount])
	r.Time = vec[TimeIndex]
	r.Amount = vec[AmountIndex]
	return r, nil
}

// Values returns the record as a slice in column order.
func (r Record) Values() []float64 {
	out := make([]float64, 0, FeatureCount)
	out = append(out, r.V[:]...)
	return append(out, r.Time, r.Amount)
}

// ScaledPair returns the (Time, Amount) sub-vector.
func (r Record) ScaledPair() [2]float64 {
	return [2]float64{r.Time, r.Amount}
}

// WithScaledPair returns a copy of the record with Time and Amount replaced.
func (r Record) WithScaledPair(pair [2]float64) Record {
	r.Time = pair[0]
	r.Amount = pair[1]
	return r
}
