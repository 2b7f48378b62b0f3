package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"wellprod-backend/pkg/api"
)

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func CodedError(code int, err error) error {
	return &codedError{err: err, code: code}
}

func CodedErrorf(code int, format string, args ...any) error {
	return &codedError{err: fmt.Errorf(format, args...), code: code}
}

// validationError is reported to the caller as a 422 with per field detail.
type validationError struct {
	detail []api.FieldError
}

func (e *validationError) Error() string {
	msgs := make([]string, 0, len(e.detail))
	for _, d := range e.detail {
		msgs = append(msgs, d.Field+": "+d.Message)
	}
	return "invalid request: " + strings.Join(msgs, "; ")
}

func fieldError(field, format string, args ...any) error {
	return &validationError{detail: []api.FieldError{{Field: field, Message: fmt.Sprintf(format, args...)}}}
}

// ParseRequest decodes a JSON body. Malformed JSON is a 400, a well formed body
// whose values have the wrong type (or, when strict, carry unknown fields) is a
// validation error.
func ParseRequest[T any](r *http.Request, strict bool) (T, error) {
	var data T

	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("error reading request body", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to read request body")
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	if strict {
		decoder.DisallowUnknownFields()
	}

	if err := decoder.Decode(&data); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "body"
			}
			return data, fieldError(field, "expected %s, got %s", typeErr.Type.String(), typeErr.Value)
		}
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return data, fieldError(strings.Trim(field, `"`), "extra fields not permitted")
		}
		slog.Error("error parsing request body", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request body")
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return data, CodedErrorf(http.StatusBadRequest, "request body must contain a single JSON object")
	}

	return data, nil
}

func RestHandler(handler func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := handler(r)
		if err != nil {
			var verr *validationError
			var cerr *codedError
			if errors.As(err, &verr) {
				writeJson(w, http.StatusUnprocessableEntity, api.ValidationErrorResponse{Detail: verr.detail})
			} else if errors.As(err, &cerr) {
				http.Error(w, err.Error(), cerr.code)
				if cerr.code == http.StatusInternalServerError {
					slog.Error("internal server error received in endpoint", "error", err)
				}
			} else {
				slog.Error("recieved non coded error from endpoint", "error", err)
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}

		if res == nil {
			res = struct{}{}
		}

		WriteJsonResponse(w, res)
	}
}

func WriteJsonResponse(w http.ResponseWriter, data interface{}) {
	writeJson(w, http.StatusOK, data)
}

func writeJson(w http.ResponseWriter, code int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("error serializing response body", "error", err)
		http.Error(w, fmt.Sprintf("error serializing response body: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Error("error writing response body", "error", err)
	}
}
