package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"wellprod-backend/pkg/api"

	"github.com/go-resty/resty/v2"
)

// Client talks to a running prediction service.
type Client struct {
	client *resty.Client
}

func New(baseURL string) *Client {
	return &Client{
		client: resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")),
	}
}

// RequestError is returned for any non 2xx response.
type RequestError struct {
	StatusCode int
	Body       string
	Detail     []api.FieldError
}

func (e *RequestError) Error() string {
	if len(e.Detail) > 0 {
		msgs := make([]string, 0, len(e.Detail))
		for _, d := range e.Detail {
			msgs = append(msgs, d.Field+": "+d.Message)
		}
		return fmt.Sprintf("prediction request rejected (%d): %s", e.StatusCode, strings.Join(msgs, "; "))
	}
	return fmt.Sprintf("prediction request failed (%d): %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func (c *Client) Predict(ctx context.Context, record api.WellRecord) (api.PredictResponse, error) {
	var out api.PredictResponse

	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(record).
		Post("/predict")
	if err != nil {
		return out, fmt.Errorf("error sending prediction request: %w", err)
	}

	if !res.IsSuccess() {
		reqErr := &RequestError{StatusCode: res.StatusCode(), Body: res.String()}
		var verr api.ValidationErrorResponse
		if json.Unmarshal(res.Body(), &verr) == nil {
			reqErr.Detail = verr.Detail
		}
		return out, reqErr
	}

	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return out, fmt.Errorf("error parsing prediction response: %w", err)
	}

	return out, nil
}
