package predictor

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	ClassifierFile   = "classifier.json"
	RegressorFile    = "regressor.json"
	PreprocessorFile = "preprocessor.json"

	defaultThreshold = 0.5
)

var ErrSchemaMismatch = errors.New("feature schema mismatch")

// Classifier is a fitted logistic regression.
type Classifier struct {
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Threshold    float64   `json:"threshold,omitempty"`
}

// Regressor is a fitted linear regression predicting delay minutes.
type Regressor struct {
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

type NumericColumn struct {
	Name  string  `json:"name"`
	Mean  float64 `json:"mean"`
	Scale float64 `json:"scale"`
}

type CategoricalColumn struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Preprocessor standardises numeric columns and one-hot encodes categorical
// ones. Output order is numeric columns first, then COLUMN=category entries.
type Preprocessor struct {
	Numeric     []NumericColumn     `json:"numeric"`
	Categorical []CategoricalColumn `json:"categorical"`
}

// Artifacts is the full set of fitted objects read from a model directory.
type Artifacts struct {
	Classifier   Classifier
	Regressor    Regressor
	Preprocessor *Preprocessor
}

// LoadDir reads classifier.json, regressor.json and, when present,
// preprocessor.json from dir.
func LoadDir(dir string) (*Artifacts, error) {
	var a Artifacts

	if err := readJSON(filepath.Join(dir, ClassifierFile), &a.Classifier); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, RegressorFile), &a.Regressor); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, PreprocessorFile)
	if _, err := os.Stat(path); err == nil {
		var p Preprocessor
		if err := readJSON(path, &p); err != nil {
			return nil, err
		}
		a.Preprocessor = &p
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return &a, nil
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func checkLinear(name string, features []string, coefficients []float64) error {
	if len(features) == 0 {
		return fmt.Errorf("%w: %s has no features", ErrSchemaMismatch, name)
	}
	if len(features) != len(coefficients) {
		return fmt.Errorf("%w: %s has %d features and %d coefficients",
			ErrSchemaMismatch, name, len(features), len(coefficients))
	}
	return nil
}
