// Package inference turns a raw comma-separated feature string into a fraud
// verdict using a pre-fit scaler and classifier.
package inference

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/fraudwatch/internal/model"
)

// ParseFeatureVector parses a comma-separated list of exactly
// model.FeatureCount finite numbers.
func ParseFeatureVector(input string) (model.FeatureVector, error) {
	if strings.TrimSpace(input) == "" {
		return nil, &ValidationError{Err: ErrMissingInput, Detail: "please provide transaction data"}
	}

	tokens := strings.Split(input, ",")
	vec := make(model.FeatureVector, 0, len(tokens))
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || isHex(tok) || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ValidationError{
				Err:    ErrMalformedNumber,
				Detail: fmt.Sprintf("%q at position %d", tok, i+1),
			}
		}
		vec = append(vec, v)
	}

	if len(vec) != model.FeatureCount {
		return nil, &ValidationError{
			Err:    ErrWrongFeatureCount,
			Detail: fmt.Sprintf("expected %d, got %d", model.FeatureCount, len(vec)),
		}
	}

	return vec, nil
}

// isHex reports whether tok uses the hexadecimal float form (0x1p3), which
// ParseFloat accepts but plain decimal input never contains.
func isHex(tok string) bool {
	tok = strings.TrimLeft(tok, "+-")
	return len(tok) > 1 && tok[0] == '0' && (tok[1] == 'x' || tok[1] == 'X')
}
