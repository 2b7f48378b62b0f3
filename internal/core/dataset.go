package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gorilla/schema"
)

// datasetRow is the typed shape of one CSV line. Every column is required and
// numeric columns must parse as numbers.
type datasetRow struct {
	MdM              float64 `schema:"md_m,required"`
	TvdM             float64 `schema:"tvd_m,required"`
	ProppantTonnes   float64 `schema:"proppant_tonnes,required"`
	PrimaryFormation string  `schema:"primary_formation"`
	Operator         string  `schema:"operator"`
	SpudMonth        float64 `schema:"spud_month,required"`
	CumOil12m        float64 `schema:"cum_oil_12m,required"`
}

// nonFinite reports the first numeric column holding NaN or an infinity, which
// strconv accepts but the trees cannot split on.
func (r datasetRow) nonFinite() (string, bool) {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"md_m", r.MdM},
		{"tvd_m", r.TvdM},
		{"proppant_tonnes", r.ProppantTonnes},
		{"spud_month", r.SpudMonth},
		{"cum_oil_12m", r.CumOil12m},
	} {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return c.name, true
		}
	}
	return "", false
}

// Dataset holds predictor rows and their labels (12 month cumulative oil).
type Dataset struct {
	Rows   []WellFeatures
	Labels []float64
}

func (d *Dataset) Len() int {
	return len(d.Rows)
}

// ErrMissingColumn is returned when the CSV header lacks a required column.
var ErrMissingColumn = errors.New("dataset is missing required column")

// ParseDataset reads a CSV with a header line. Columns may appear in any order
// and extra columns are ignored.
func ParseDataset(r io.Reader, spec FeatureSpec) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dataset is empty")
		}
		return nil, fmt.Errorf("error reading dataset header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}
	for _, col := range spec.Columns() {
		if !present[col] {
			return nil, fmt.Errorf("%w '%s'", ErrMissingColumn, col)
		}
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	ds := &Dataset{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading dataset line %d: %w", line, err)
		}

		values := make(map[string][]string, len(header))
		for i, col := range header {
			if i < len(record) {
				values[col] = []string{strings.TrimSpace(record[i])}
			}
		}

		var row datasetRow
		if err := decoder.Decode(&row, values); err != nil {
			return nil, fmt.Errorf("invalid dataset line %d: %w", line, err)
		}
		if col, ok := row.nonFinite(); ok {
			return nil, fmt.Errorf("invalid dataset line %d: column '%s' is not a finite number", line, col)
		}

		ds.Rows = append(ds.Rows, WellFeatures{
			MdM:              row.MdM,
			TvdM:             row.TvdM,
			ProppantTonnes:   row.ProppantTonnes,
			PrimaryFormation: row.PrimaryFormation,
			Operator:         row.Operator,
			SpudMonth:        row.SpudMonth,
		})
		ds.Labels = append(ds.Labels, row.CumOil12m)
	}

	if ds.Len() == 0 {
		return nil, errors.New("dataset has no rows")
	}

	return ds, nil
}
