package model

import "fmt"

// Label is the classifier's decision for a transaction.
type Label int

// Label constants.
const (
	LabelSafe  Label = 0
	LabelFraud Label = 1
)

// Valid reports whether the label is one of the known classes.
func (l Label) Valid() bool {
	return l == LabelSafe || l == LabelFraud
}

func (l Label) String() string {
	switch l {
	case LabelSafe:
		return "safe"
	case LabelFraud:
		return "fraud"
	default:
		return fmt.Sprintf("label(%d)", int(l))
	}
}

// Severity tags how a result should be styled.
type Severity string

// Severity constants.
const (
	SeverityAlert  Severity = "alert"
	SeverityNormal Severity = "normal"
)

// Verdict is the outcome of scoring one transaction.
type Verdict struct {
	Text        string
	Severity    Severity
	Label       Label
	Probability float64 // probability of the fraud class
}

// IsFraud reports whether the verdict flags the transaction.
func (v Verdict) IsFraud() bool {
	return v.Label == LabelFraud
}

// FormatPercent renders a probability with two decimals, e.g. 0.87 -> "87.00%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}
