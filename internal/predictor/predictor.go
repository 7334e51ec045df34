package predictor

import (
	"fmt"
	"math"

	"github.com/dharmasatrya/flightdelays/internal/models"
)

// Predictor runs the preprocess, classify, regress pipeline over artifacts
// loaded once. It holds no mutable state and is safe for concurrent use.
type Predictor struct {
	classifier Classifier
	regressor  Regressor
	encoder    encoder
}

func New(a *Artifacts) (*Predictor, error) {
	if err := checkLinear("classifier", a.Classifier.Features, a.Classifier.Coefficients); err != nil {
		return nil, err
	}
	if err := checkLinear("regressor", a.Regressor.Features, a.Regressor.Coefficients); err != nil {
		return nil, err
	}

	p := &Predictor{classifier: a.Classifier, regressor: a.Regressor}
	if p.classifier.Threshold <= 0 || p.classifier.Threshold >= 1 {
		p.classifier.Threshold = defaultThreshold
	}

	if a.Preprocessor != nil {
		if err := a.Preprocessor.validate(); err != nil {
			return nil, err
		}
		p.encoder = a.Preprocessor
	} else {
		raw, err := newRawEncoder(union(a.Classifier.Features, a.Regressor.Features))
		if err != nil {
			return nil, err
		}
		p.encoder = raw
	}

	outputs := make(map[string]struct{})
	for _, name := range p.encoder.Outputs() {
		outputs[name] = struct{}{}
	}
	for _, features := range [][]string{a.Classifier.Features, a.Regressor.Features} {
		for _, name := range features {
			if _, ok := outputs[name]; !ok {
				return nil, fmt.Errorf("%w: model expects %s which the preprocessor does not produce", ErrSchemaMismatch, name)
			}
		}
	}

	return p, nil
}

// Load reads the artifacts in dir and builds a Predictor.
func Load(dir string) (*Predictor, error) {
	a, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return New(a)
}

func (p *Predictor) Predict(q models.FlightQuery) (models.PredictionResponse, error) {
	encoded := p.encoder.Encode(q)

	z, err := linear(encoded, p.classifier.Features, p.classifier.Coefficients, p.classifier.Intercept)
	if err != nil {
		return models.PredictionResponse{}, err
	}
	prob := sigmoid(z)

	if prob < p.classifier.Threshold {
		return models.PredictionResponse{
			Status:      models.PredictionOnTime,
			Duration:    0,
			Probability: prob,
		}, nil
	}

	minutes, err := linear(encoded, p.regressor.Features, p.regressor.Coefficients, p.regressor.Intercept)
	if err != nil {
		return models.PredictionResponse{}, err
	}

	return models.PredictionResponse{
		Status:      models.PredictionDelayed,
		Duration:    delayMinutes(minutes),
		Probability: prob,
	}, nil
}

func linear(values map[string]float64, features []string, coefficients []float64, intercept float64) (float64, error) {
	sum := intercept
	for i, name := range features {
		v, ok := values[name]
		if !ok {
			return 0, fmt.Errorf("%w: missing feature %s", ErrSchemaMismatch, name)
		}
		sum += coefficients[i] * v
	}
	return sum, nil
}

// delayMinutes rounds up and floors at one minute, so a delayed flight never
// reports zero.
func delayMinutes(v float64) int {
	if math.IsNaN(v) || v < 1 {
		return 1
	}
	if math.IsInf(v, 1) {
		return math.MaxInt32
	}
	return int(math.Ceil(v))
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, name := range list {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
