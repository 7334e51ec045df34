package predictor

import (
	"fmt"
	"strings"

	"github.com/dharmasatrya/flightdelays/internal/models"
)

// encoder turns a flight query into named feature values.
type encoder interface {
	Outputs() []string
	Encode(q models.FlightQuery) map[string]float64
}

func (p *Preprocessor) Outputs() []string {
	var out []string
	for _, col := range p.Numeric {
		out = append(out, col.Name)
	}
	for _, col := range p.Categorical {
		for _, cat := range col.Categories {
			out = append(out, oneHotName(col.Name, cat))
		}
	}
	return out
}

// Encode applies the fitted transforms. Unknown categories encode as all zeros.
func (p *Preprocessor) Encode(q models.FlightQuery) map[string]float64 {
	numeric := q.NumericFields()
	categorical := q.CategoricalFields()

	out := make(map[string]float64, len(p.Numeric))
	for _, col := range p.Numeric {
		v := numeric[col.Name]
		scale := col.Scale
		if scale == 0 {
			scale = 1
		}
		out[col.Name] = (v - col.Mean) / scale
	}
	for _, col := range p.Categorical {
		value := categorical[col.Name]
		for _, cat := range col.Categories {
			name := oneHotName(col.Name, cat)
			if value == cat {
				out[name] = 1
			} else {
				out[name] = 0
			}
		}
	}
	return out
}

func (p *Preprocessor) validate() error {
	known := models.FlightQuery{}.NumericFields()
	for _, col := range p.Numeric {
		if _, ok := known[col.Name]; !ok {
			return fmt.Errorf("%w: preprocessor column %s is not a numeric flight field", ErrSchemaMismatch, col.Name)
		}
	}
	for _, col := range p.Categorical {
		if !isCategoricalColumn(col.Name) {
			return fmt.Errorf("%w: preprocessor column %s is not a categorical flight field", ErrSchemaMismatch, col.Name)
		}
	}
	return nil
}

// rawEncoder is used when no preprocessor is shipped: features are read by
// name, and COLUMN=value features become 0/1 indicators.
type rawEncoder struct {
	features []string
}

func newRawEncoder(features []string) (*rawEncoder, error) {
	known := models.FlightQuery{}.NumericFields()
	for _, name := range features {
		if col, _, ok := strings.Cut(name, "="); ok {
			if !isCategoricalColumn(col) {
				return nil, fmt.Errorf("%w: feature %s has no categorical source column", ErrSchemaMismatch, name)
			}
			continue
		}
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: feature %s is not a flight field", ErrSchemaMismatch, name)
		}
	}
	return &rawEncoder{features: features}, nil
}

func (r *rawEncoder) Outputs() []string {
	return r.features
}

func (r *rawEncoder) Encode(q models.FlightQuery) map[string]float64 {
	numeric := q.NumericFields()
	categorical := q.CategoricalFields()

	out := make(map[string]float64, len(r.features))
	for _, name := range r.features {
		if col, value, ok := strings.Cut(name, "="); ok {
			if categorical[col] == value {
				out[name] = 1
			} else {
				out[name] = 0
			}
			continue
		}
		out[name] = numeric[name]
	}
	return out
}

func oneHotName(column, category string) string {
	return column + "=" + category
}

func isCategoricalColumn(name string) bool {
	switch name {
	case "CARRIER_NAME", "ORIGIN", "DEST":
		return true
	}
	return false
}
