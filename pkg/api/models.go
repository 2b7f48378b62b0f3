package api

// WellRecord is the body of POST /predict. Fields are pointers so that a
// missing key can be told apart from a zero value.
type WellRecord struct {
	MdM              *float64 `json:"md_m" validate:"required"`
	TvdM             *float64 `json:"tvd_m" validate:"required"`
	ProppantTonnes   *float64 `json:"proppant_tonnes" validate:"required"`
	PrimaryFormation *string  `json:"primary_formation" validate:"required"`
	Operator         *string  `json:"operator" validate:"required"`
	SpudMonth        *int     `json:"spud_month" validate:"required"`
	HorizontalFlag   *bool    `json:"horizontal_flag" validate:"required"`
	SurfaceLat       *float64 `json:"surface_lat" validate:"required"`
	SurfaceLon       *float64 `json:"surface_lon" validate:"required"`
	Field            *string  `json:"field"`
}

type PredictResponse struct {
	P50 float64 `json:"p50"`
	P10 float64 `json:"p10"`
	P90 float64 `json:"p90"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Detail []FieldError `json:"detail"`
}
