package inference

import (
	"errors"
	"fmt"
	"math"

	"github.com/Veraticus/fraudwatch/internal/common"
	"github.com/Veraticus/fraudwatch/internal/model"
)

// Display text for verdicts.
const (
	fraudHeadline = "🚨 FRAUD DETECTED 🚨"
	safeHeadline  = "✅ Transaction Appears Safe ✅"
)

// Result is the outcome of one request: a verdict or a tagged error.
// Text and Severity are always set and are what the front-end renders.
type Result struct {
	Err      error
	Text     string
	Severity model.Severity
	Verdict  model.Verdict
}

// OK reports whether the request produced a verdict.
func (r Result) OK() bool {
	return r.Err == nil
}

// Handler scores raw feature strings. It holds no mutable state and is safe
// for concurrent use when its scaler and classifier are.
type Handler struct {
	scaler     Scaler
	classifier Classifier
}

// NewHandler creates a handler over loaded artifacts.
func NewHandler(scaler Scaler, classifier Classifier) (*Handler, error) {
	if scaler == nil {
		return nil, fmt.Errorf("scaler is required")
	}
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	return &Handler{scaler: scaler, classifier: classifier}, nil
}

// Handle parses, validates, rescales and classifies one input string.
// It never panics; every failure is returned as a Result with the alert tag.
func (h *Handler) Handle(input string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failure(&UnexpectedError{Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	vec, err := ParseFeatureVector(input)
	if err != nil {
		return failure(err)
	}

	rec, err := model.NewRecord(vec)
	if err != nil {
		return failure(&UnexpectedError{Err: err})
	}

	verdict, err := h.Score(rec)
	if err != nil {
		return failure(err)
	}

	common.LogDebug("Scored transaction", common.Fields{
		"label":       verdict.Label.String(),
		"probability": verdict.Probability,
	})

	return Result{
		Text:     verdict.Text,
		Severity: verdict.Severity,
		Verdict:  verdict,
	}
}

// Score rescales Time and Amount and classifies an already-built record.
func (h *Handler) Score(rec model.Record) (model.Verdict, error) {
	scaled, err := h.scaler.Transform(rec.ScaledPair())
	if err != nil {
		return model.Verdict{}, &InferenceError{Stage: StageScale, Err: err}
	}
	if !finite(scaled[0]) || !finite(scaled[1]) {
		return model.Verdict{}, &InferenceError{
			Stage: StageScale,
			Err:   fmt.Errorf("non-finite output %v", scaled),
		}
	}
	rec = rec.WithScaledPair(scaled)

	label, err := h.classifier.Predict(rec)
	if err != nil {
		return model.Verdict{}, &InferenceError{Stage: StageClassify, Err: err}
	}
	if !label.Valid() {
		return model.Verdict{}, &InferenceError{
			Stage: StageClassify,
			Err:   fmt.Errorf("unknown class %s", label),
		}
	}

	proba, err := h.classifier.PredictProba(rec)
	if err != nil {
		return model.Verdict{}, &InferenceError{Stage: StageClassify, Err: err}
	}
	p := proba[1]
	if !finite(p) || p < 0 || p > 1 {
		return model.Verdict{}, &InferenceError{
			Stage: StageClassify,
			Err:   fmt.Errorf("fraud probability %v outside [0,1]", p),
		}
	}

	return newVerdict(label, p), nil
}

func newVerdict(label model.Label, p float64) model.Verdict {
	v := model.Verdict{Label: label, Probability: p}
	if label == model.LabelFraud {
		v.Text = fmt.Sprintf("%s\nProbability: %s", fraudHeadline, model.FormatPercent(p))
		v.Severity = model.SeverityAlert
	} else {
		v.Text = fmt.Sprintf("%s\nProbability of Fraud: %s", safeHeadline, model.FormatPercent(p))
		v.Severity = model.SeverityNormal
	}
	return v
}

func failure(err error) Result {
	common.LogDebug("Request failed", common.Fields{"error": err.Error()})
	return Result{
		Err:      err,
		Text:     ErrorText(err),
		Severity: model.SeverityAlert,
	}
}

// ErrorText renders err the way the front-end shows it.
func ErrorText(err error) string {
	var validationErr *ValidationError
	var inferenceErr *InferenceError
	switch {
	case errors.As(err, &validationErr), errors.As(err, &inferenceErr):
		return "Error: " + err.Error()
	default:
		return "An error occurred: " + err.Error()
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
