package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"freela/internal/core"
	"freela/internal/log"
	"freela/internal/services"
)

const (
	maxBodyBytes   = 1 << 20
	maxBackupBytes = 32 << 20
)

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidState):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode response", "error", err, "path", r.URL.Path)
	}
}

// writeResult writes res with okStatus on success and the mapped status otherwise.
func writeResult[T any](w http.ResponseWriter, r *http.Request, res services.Result[T], okStatus int) {
	status := okStatus
	if !res.Success {
		status = statusFor(res.Err)
	}
	writeJSON(w, r, status, res)
}

// writeError writes a failed Result for errors raised before a use case ran.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log.FromContext(r.Context()).LogFields(r.Context(), slog.LevelDebug, "Request rejected",
		log.NewFields().WithOperation(r.Pattern).WithError(err))
	writeJSON(w, r, statusFor(err), services.Result[struct{}]{Error: err.Error(), Err: err})
}

// decodeJSON reads a JSON body into v, rejecting unknown fields. An empty
// body leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return core.Validation("request body larger than %d bytes", tooLarge.Limit)
		}
		return &core.Error{Kind: core.ErrValidation, Msg: "invalid request body", Err: err}
	}
	if dec.More() {
		return core.Validation("invalid request body: trailing data")
	}
	return nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, core.Validation("%s must be a number, got %q", name, v)
	}
	return n, nil
}

func queryPeriod(r *http.Request) (services.PeriodInput, error) {
	year, err := queryInt(r, "year")
	if err != nil {
		return services.PeriodInput{}, err
	}
	month, err := queryInt(r, "month")
	if err != nil {
		return services.PeriodInput{}, err
	}
	return services.PeriodInput{Year: year, Month: month}, nil
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
