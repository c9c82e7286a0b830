// Package artifact loads the pre-fit scaler and classifier exported from the
// training environment. Artifacts are JSON documents with a "kind" field that
// selects the concrete implementation.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/Veraticus/fraudwatch/internal/common"
	"github.com/Veraticus/fraudwatch/internal/inference"
)

// Artifact kinds.
const (
	KindStandardScaler     = "standard"
	KindRobustScaler       = "robust"
	KindMinMaxScaler       = "minmax"
	KindLogisticRegression = "logistic_regression"
	KindRandomForest       = "random_forest"
)

type header struct {
	Kind string `json:"kind"`
}

// LoadScaler reads a scaler artifact from path.
func LoadScaler(path string) (*Scaler, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	s, err := DecodeScaler(data)
	if err != nil {
		return nil, fmt.Errorf("scaler %s: %w", path, err)
	}

	slog.Debug("Loaded scaler", "path", path, "kind", s.Kind)
	return s, nil
}

// LoadClassifier reads a classifier artifact from path.
func LoadClassifier(path string) (inference.Classifier, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	c, err := DecodeClassifier(data)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}

	slog.Debug("Loaded classifier", "path", path, "type", fmt.Sprintf("%T", c))
	return c, nil
}

// DecodeClassifier builds a classifier from its JSON form.
func DecodeClassifier(data []byte) (inference.Classifier, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrArtifactInvalid, err)
	}

	switch h.Kind {
	case KindLogisticRegression:
		m, err := decodeLogistic(data)
		if err != nil {
			return nil, err
		}
		return m, nil
	case KindRandomForest:
		m, err := decodeForest(data)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "":
		return nil, fmt.Errorf("%w: missing kind", common.ErrArtifactInvalid)
	default:
		return nil, fmt.Errorf("%w: unsupported classifier kind %q", common.ErrArtifactInvalid, h.Kind)
	}
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close artifact", "path", path, "error", closeErr)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	return data, nil
}

func decodeJSON(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrArtifactInvalid, err)
	}
	return nil
}
