package core

import (
	"errors"
	"fmt"
)

// OneHotEncoder maps each category of one column to its own indicator
// position. An empty value is a category of its own, the same as a missing
// cell. Values not seen during Fit encode as all-zero.
type OneHotEncoder struct {
	Column     string
	Categories []string

	index map[string]int
}

func NewOneHotEncoder(column string) *OneHotEncoder {
	return &OneHotEncoder{Column: column}
}

// Fit builds the vocabulary in first-seen order.
func (e *OneHotEncoder) Fit(values []string) {
	e.Categories = nil
	e.index = make(map[string]int)
	for _, v := range values {
		if _, ok := e.index[v]; !ok {
			e.index[v] = len(e.Categories)
			e.Categories = append(e.Categories, v)
		}
	}
}

func (e *OneHotEncoder) Width() int {
	return len(e.Categories)
}

// EncodeInto writes the indicator block for value into dst, which must have
// length Width(). The encoder is only read here, so it is safe to share
// between goroutines once fitted or loaded.
func (e *OneHotEncoder) EncodeInto(dst []float64, value string) {
	for i := range dst {
		dst[i] = 0
	}
	if i, ok := e.index[value]; ok {
		dst[i] = 1
	}
}

func (e *OneHotEncoder) rebuildIndex() {
	e.index = make(map[string]int, len(e.Categories))
	for i, c := range e.Categories {
		e.index[c] = i
	}
}

// ColumnTransformer one-hot encodes the categorical columns and passes the
// numeric columns through. The output layout is every categorical block in
// declared order followed by the numeric columns in declared order.
type ColumnTransformer struct {
	Encoders []*OneHotEncoder
	Numeric  []string
}

func NewColumnTransformer(spec FeatureSpec) *ColumnTransformer {
	t := &ColumnTransformer{Numeric: append([]string(nil), spec.Numeric...)}
	for _, col := range spec.Categorical {
		t.Encoders = append(t.Encoders, NewOneHotEncoder(col))
	}
	return t
}

func (t *ColumnTransformer) Fit(rows []WellFeatures) error {
	if len(rows) == 0 {
		return errors.New("cannot fit column transformer on empty data")
	}
	for _, enc := range t.Encoders {
		values := make([]string, len(rows))
		for i, row := range rows {
			v, err := row.Categorical(enc.Column)
			if err != nil {
				return err
			}
			values[i] = v
		}
		enc.Fit(values)
	}
	return nil
}

// Width is the number of output features.
func (t *ColumnTransformer) Width() int {
	w := len(t.Numeric)
	for _, enc := range t.Encoders {
		w += enc.Width()
	}
	return w
}

// FeatureNames lists output columns as "<column>=<category>" for encoded
// blocks and the plain column name for numeric ones.
func (t *ColumnTransformer) FeatureNames() []string {
	names := make([]string, 0, t.Width())
	for _, enc := range t.Encoders {
		for _, c := range enc.Categories {
			names = append(names, fmt.Sprintf("%s=%s", enc.Column, c))
		}
	}
	return append(names, t.Numeric...)
}

func (t *ColumnTransformer) TransformRow(row WellFeatures) ([]float64, error) {
	out := make([]float64, t.Width())
	offset := 0
	for _, enc := range t.Encoders {
		v, err := row.Categorical(enc.Column)
		if err != nil {
			return nil, err
		}
		enc.EncodeInto(out[offset:offset+enc.Width()], v)
		offset += enc.Width()
	}
	for _, col := range t.Numeric {
		v, err := row.Numeric(col)
		if err != nil {
			return nil, err
		}
		out[offset] = v
		offset++
	}
	return out, nil
}

func (t *ColumnTransformer) Transform(rows []WellFeatures) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		x, err := t.TransformRow(row)
		if err != nil {
			return nil, fmt.Errorf("error transforming row %d: %w", i, err)
		}
		out[i] = x
	}
	return out, nil
}
