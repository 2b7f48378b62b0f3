package core

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v2"
)

// WellFeatures are the predictor columns of a single well. It is the row type
// consumed by the pipeline both at fit time and at inference time.
type WellFeatures struct {
	MdM              float64
	TvdM             float64
	ProppantTonnes   float64
	PrimaryFormation string
	Operator         string
	SpudMonth        float64
}

// Categorical returns the value of the named categorical column.
func (f WellFeatures) Categorical(column string) (string, error) {
	switch column {
	case "primary_formation":
		return f.PrimaryFormation, nil
	case "operator":
		return f.Operator, nil
	default:
		return "", fmt.Errorf("unknown categorical column '%s'", column)
	}
}

// Numeric returns the value of the named numeric column.
func (f WellFeatures) Numeric(column string) (float64, error) {
	switch column {
	case "md_m":
		return f.MdM, nil
	case "tvd_m":
		return f.TvdM, nil
	case "proppant_tonnes":
		return f.ProppantTonnes, nil
	case "spud_month":
		return f.SpudMonth, nil
	default:
		return 0, fmt.Errorf("unknown numeric column '%s'", column)
	}
}

type RegressorParams struct {
	NEstimators     int     `yaml:"n_estimators" json:"n_estimators"`
	MaxDepth        int     `yaml:"max_depth" json:"max_depth"`
	LearningRate    float64 `yaml:"learning_rate" json:"learning_rate"`
	MinSamplesSplit int     `yaml:"min_samples_split" json:"min_samples_split"`
	MinSamplesLeaf  int     `yaml:"min_samples_leaf" json:"min_samples_leaf"`
}

// FeatureSpec declares which columns are one-hot encoded, which pass through
// unchanged, and which column holds the label.
type FeatureSpec struct {
	Label       string          `yaml:"label"`
	Categorical []string        `yaml:"categorical"`
	Numeric     []string        `yaml:"numeric"`
	Regressor   RegressorParams `yaml:"regressor"`
}

// Columns returns every column the dataset must provide, label last.
func (s FeatureSpec) Columns() []string {
	cols := make([]string, 0, len(s.Categorical)+len(s.Numeric)+1)
	cols = append(cols, s.Categorical...)
	cols = append(cols, s.Numeric...)
	return append(cols, s.Label)
}

//go:embed features.yaml
var featuresYAML []byte

func LoadFeatureSpec() (FeatureSpec, error) {
	var spec FeatureSpec
	if err := yaml.Unmarshal(featuresYAML, &spec); err != nil {
		return FeatureSpec{}, fmt.Errorf("error parsing feature spec: %w", err)
	}

	if spec.Label == "" {
		return FeatureSpec{}, fmt.Errorf("feature spec is missing a label column")
	}
	for _, col := range spec.Categorical {
		if _, err := (WellFeatures{}).Categorical(col); err != nil {
			return FeatureSpec{}, fmt.Errorf("invalid feature spec: %w", err)
		}
	}
	for _, col := range spec.Numeric {
		if _, err := (WellFeatures{}).Numeric(col); err != nil {
			return FeatureSpec{}, fmt.Errorf("invalid feature spec: %w", err)
		}
	}

	return spec, nil
}

// FeatureMode selects how a serving request is turned into pipeline input.
type FeatureMode string

const (
	// FeaturesPipeline feeds the full record, categoricals included, through
	// the fitted encoder.
	FeaturesPipeline FeatureMode = "pipeline"
	// FeaturesNumeric only keeps md_m, tvd_m, proppant_tonnes and spud_month.
	// Categorical values are blanked so they encode as all-zero.
	FeaturesNumeric FeatureMode = "numeric"
)

func ParseFeatureMode(mode string) (FeatureMode, error) {
	switch FeatureMode(mode) {
	case FeaturesPipeline, FeaturesNumeric:
		return FeatureMode(mode), nil
	default:
		return "", fmt.Errorf("invalid feature mode '%s': must be '%s' or '%s'", mode, FeaturesPipeline, FeaturesNumeric)
	}
}

func (m FeatureMode) Project(f WellFeatures) WellFeatures {
	if m == FeaturesNumeric {
		return WellFeatures{
			MdM:            f.MdM,
			TvdM:           f.TvdM,
			ProppantTonnes: f.ProppantTonnes,
			SpudMonth:      f.SpudMonth,
		}
	}
	return f
}
