package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"wellprod-backend/pkg/api"
	"wellprod-backend/pkg/client"
)

func main() {
	var (
		url       string
		mdM       float64
		tvdM      float64
		proppant  float64
		formation string
		operator  string
		spudMonth int
		horiz     bool
		lat       float64
		lon       float64
		field     string
	)

	flag.StringVar(&url, "url", "http://localhost:8000", "base url of the prediction service")
	flag.Float64Var(&mdM, "md", 0, "measured depth (m)")
	flag.Float64Var(&tvdM, "tvd", 0, "true vertical depth (m)")
	flag.Float64Var(&proppant, "proppant", 0, "proppant placed (tonnes)")
	flag.StringVar(&formation, "formation", "", "primary formation")
	flag.StringVar(&operator, "operator", "", "operator name")
	flag.IntVar(&spudMonth, "spud-month", 1, "spud month (1-12)")
	flag.BoolVar(&horiz, "horizontal", true, "horizontal well")
	flag.Float64Var(&lat, "lat", 0, "surface latitude")
	flag.Float64Var(&lon, "lon", 0, "surface longitude")
	flag.StringVar(&field, "field", "", "field name (optional)")
	flag.Parse()

	record := api.WellRecord{
		MdM:              &mdM,
		TvdM:             &tvdM,
		ProppantTonnes:   &proppant,
		PrimaryFormation: &formation,
		Operator:         &operator,
		SpudMonth:        &spudMonth,
		HorizontalFlag:   &horiz,
		SurfaceLat:       &lat,
		SurfaceLon:       &lon,
	}
	if field != "" {
		record.Field = &field
	}

	res, err := client.New(url).Predict(context.Background(), record)
	if err != nil {
		log.Fatalf("prediction failed: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(res); err != nil {
		log.Fatalf("error writing result: %v", err)
	}
}
