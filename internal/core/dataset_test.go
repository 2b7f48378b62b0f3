package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const syntheticCSV = `md_m,tvd_m,proppant_tonnes,primary_formation,operator,spud_month,cum_oil_12m
3200,1800,250,Montney,Acme,3,12000
4100,2100,410,Duvernay,Borealis,7,18500
2800,1650,180,Montney,Borealis,11,9000
`

func mustSpec(t *testing.T) FeatureSpec {
	t.Helper()
	spec, err := LoadFeatureSpec()
	require.NoError(t, err)
	return spec
}

func TestParseDataset(t *testing.T) {
	ds, err := ParseDataset(strings.NewReader(syntheticCSV), mustSpec(t))
	require.NoError(t, err)

	require.Equal(t, 3, ds.Len())
	assert.Equal(t, WellFeatures{
		MdM: 3200, TvdM: 1800, ProppantTonnes: 250,
		PrimaryFormation: "Montney", Operator: "Acme", SpudMonth: 3,
	}, ds.Rows[0])
	assert.Equal(t, []float64{12000, 18500, 9000}, ds.Labels)
}

func TestParseDatasetColumnOrderAndExtras(t *testing.T) {
	csv := "\ufeffwell_id, cum_oil_12m,operator,spud_month,md_m,tvd_m,primary_formation,proppant_tonnes,surface_lat\n" +
		"W-1,500,Acme,2,1000,900,Montney,50,55.1\n"

	ds, err := ParseDataset(strings.NewReader(csv), mustSpec(t))
	require.NoError(t, err)

	require.Equal(t, 1, ds.Len())
	assert.Equal(t, WellFeatures{
		MdM: 1000, TvdM: 900, ProppantTonnes: 50,
		PrimaryFormation: "Montney", Operator: "Acme", SpudMonth: 2,
	}, ds.Rows[0])
	assert.Equal(t, []float64{500}, ds.Labels)
}

func TestParseDatasetEmptyCategorical(t *testing.T) {
	csv := "md_m,tvd_m,proppant_tonnes,primary_formation,operator,spud_month,cum_oil_12m\n" +
		"1000,900,50,,Acme,2,500\n"

	ds, err := ParseDataset(strings.NewReader(csv), mustSpec(t))
	require.NoError(t, err)
	assert.Equal(t, "", ds.Rows[0].PrimaryFormation)
}

func TestParseDatasetNonFinite(t *testing.T) {
	header := "md_m,tvd_m,proppant_tonnes,primary_formation,operator,spud_month,cum_oil_12m\n"

	for _, tc := range []struct {
		line   string
		column string
	}{
		{"1000,900,NaN,Montney,Acme,2,500", "proppant_tonnes"},
		{"inf,900,50,Montney,Acme,2,500", "md_m"},
		{"1000,-Inf,50,Montney,Acme,2,500", "tvd_m"},
		{"1000,900,50,Montney,Acme,2,nan", "cum_oil_12m"},
	} {
		csv := header + "1000,900,50,Montney,Acme,2,500\n" + tc.line + "\n"

		_, err := ParseDataset(strings.NewReader(csv), mustSpec(t))
		require.Error(t, err, tc.line)
		assert.Contains(t, err.Error(), "line 3")
		assert.Contains(t, err.Error(), tc.column)
	}
}

func TestParseDatasetMissingColumn(t *testing.T) {
	csv := "md_m,tvd_m,primary_formation,operator,spud_month,cum_oil_12m\n" +
		"1000,900,Montney,Acme,2,500\n"

	_, err := ParseDataset(strings.NewReader(csv), mustSpec(t))
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "proppant_tonnes")
}

func TestParseDatasetMissingLabel(t *testing.T) {
	csv := "md_m,tvd_m,proppant_tonnes,primary_formation,operator,spud_month\n" +
		"1000,900,50,Montney,Acme,2\n"

	_, err := ParseDataset(strings.NewReader(csv), mustSpec(t))
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "cum_oil_12m")
}

func TestParseDatasetNonNumeric(t *testing.T) {
	csv := "md_m,tvd_m,proppant_tonnes,primary_formation,operator,spud_month,cum_oil_12m\n" +
		"1000,900,50,Montney,Acme,2,500\n" +
		"1000,deep,50,Montney,Acme,2,500\n"

	_, err := ParseDataset(strings.NewReader(csv), mustSpec(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestParseDatasetEmptyNumeric(t *testing.T) {
	csv := "md_m,tvd_m,proppant_tonnes,primary_formation,operator,spud_month,cum_oil_12m\n" +
		"1000,,50,Montney,Acme,2,500\n"

	_, err := ParseDataset(strings.NewReader(csv), mustSpec(t))
	assert.Error(t, err)
}

func TestParseDatasetNoRows(t *testing.T) {
	_, err := ParseDataset(strings.NewReader(""), mustSpec(t))
	assert.Error(t, err)

	_, err = ParseDataset(strings.NewReader("md_m,tvd_m,proppant_tonnes,primary_formation,operator,spud_month,cum_oil_12m\n"), mustSpec(t))
	assert.Error(t, err)
}
