package integrationtests

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	backend "wellprod-backend/internal/api"
	"wellprod-backend/internal/core"
	"wellprod-backend/internal/database"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticWells builds a dataset whose label depends on the numeric columns
// and on the formation.
func syntheticWells(n int) string {
	formations := []string{"Montney", "Duvernay", "Cardium"}
	operators := []string{"Acme", "Borealis", "Coldlake", "Dunvegan"}
	rng := rand.New(rand.NewSource(7))

	var b strings.Builder
	b.WriteString("well_id,md_m,tvd_m,proppant_tonnes,primary_formation,operator,spud_month,cum_oil_12m\n")
	for i := 0; i < n; i++ {
		md := 2000 + rng.Float64()*3000
		tvd := 1200 + rng.Float64()*1500
		proppant := 100 + rng.Float64()*500
		formation := formations[i%len(formations)]
		operator := operators[rng.Intn(len(operators))]
		month := 1 + rng.Intn(12)

		label := 2*md + 10*proppant - 0.5*tvd
		if formation == "Duvernay" {
			label += 3000
		}
		fmt.Fprintf(&b, "W-%d,%.1f,%.1f,%.1f,%s,%s,%d,%.1f\n", i, md, tvd, proppant, formation, operator, month, label)
	}
	return b.String()
}

func TestTrainAndServeWorkflow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	provider := setupS3Provider(t, ctx)

	db, err := database.NewDatabase(setupPostgresContainer(t, ctx))
	require.NoError(t, err)

	dataset := core.ObjectLocation{Bucket: bucketName, Key: "aer_wells.csv"}
	artifact := core.ObjectLocation{Bucket: "models", Key: "model.gob"}

	require.NoError(t, provider.PutObject(ctx, dataset.Bucket, dataset.Key, bytes.NewReader([]byte(syntheticWells(300)))))

	spec, err := core.LoadFeatureSpec()
	require.NoError(t, err)

	summary, err := core.NewTrainer(db, provider, spec, dataset, artifact, core.WithNEstimators(50)).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300, summary.Rows)

	run, err := database.LatestTrainingRun(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, database.JobCompleted, run.Status)
	assert.Equal(t, summary.RunId, run.Id)

	pipeline, err := core.LoadArtifact(ctx, provider, artifact)
	require.NoError(t, err)

	router := chi.NewRouter()
	backend.NewPredictionService(pipeline, core.FeaturesPipeline, false).AddRoutes(router)

	record := map[string]any{
		"md_m":              3500.0,
		"tvd_m":             1900.0,
		"proppant_tonnes":   300.0,
		"primary_formation": "Duvernay",
		"operator":          "Acme",
		"spud_month":        6,
		"horizontal_flag":   true,
		"surface_lat":       55.2,
		"surface_lon":       -118.8,
		"field":             nil,
	}

	res := predict(t, router, record)

	assert.Greater(t, res.P50, 0.0)
	assert.InDelta(t, 0.85*res.P50, res.P10, 1e-6)
	assert.InDelta(t, 1.15*res.P50, res.P90, 1e-6)

	record["primary_formation"] = "Unknown Formation"
	unseen := predict(t, router, record)
	assert.InDelta(t, 1.15*unseen.P50, unseen.P90, 1e-6)
}

func TestTrainingFailureIsRecorded(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	provider := setupS3Provider(t, ctx)

	db, err := database.NewDatabase(setupPostgresContainer(t, ctx))
	require.NoError(t, err)

	dataset := core.ObjectLocation{Bucket: bucketName, Key: "broken.csv"}
	csv := "md_m,tvd_m,proppant_tonnes,primary_formation,operator,spud_month,cum_oil_12m\n" +
		"3200,shallow,250,Montney,Acme,3,12000\n"
	require.NoError(t, provider.PutObject(ctx, dataset.Bucket, dataset.Key, strings.NewReader(csv)))

	spec, err := core.LoadFeatureSpec()
	require.NoError(t, err)

	_, err = core.NewTrainer(db, provider, spec, dataset, core.ObjectLocation{Bucket: "models", Key: "model.gob"}).Run(ctx)
	require.Error(t, err)

	run, err := database.LatestTrainingRun(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, database.JobFailed, run.Status)
	assert.Contains(t, run.Error.String, "line 2")
}
