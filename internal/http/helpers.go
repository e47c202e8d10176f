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

	"fintrack/internal/core"
)

const maxBodyBytes = 1 << 20 // 1MB

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

type idBody struct {
	ID int64 `json:"id"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError classifies err into the API's error taxonomy: validation
// errors name the offending field, not-found and conflict keep their
// distinct statuses, and anything else surfaces as an opaque
// infrastructure failure.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case core.IsValidation(err):
		respondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, core.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, core.ErrEmailTaken):
		respondJSON(w, http.StatusConflict, errorBody{Error: "email already exists"})
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err,
			"method", r.Method,
			"url", r.URL.Path)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer io.Copy(io.Discard, body)

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return core.Invalid("body", "malformed JSON")
	}
	return nil
}

// userIDParam extracts the mandatory userId query parameter. Per-user
// queries never fall back to a default identity; the caller must say
// who is asking.
func userIDParam(r *http.Request) (int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get("userId"))
	if v == "" {
		return 0, core.Invalid("userId", "required")
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, core.Invalid("userId", "must be a positive identifier")
	}
	return id, nil
}

// pathID extracts the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.Invalid("id", "must be a positive identifier")
	}
	return id, nil
}

// parseAmountField parses a JSON number field into Money, tagging
// failures with the field name.
func parseAmountField(field string, n json.Number) (core.Money, error) {
	if n == "" {
		return core.Money{}, core.Invalid(field, "required")
	}
	m, err := core.ParseAmount(n.String())
	if err != nil {
		return core.Money{}, core.Invalid(field, "must be a positive amount")
	}
	return m, nil
}

// parseDateField parses a YYYY-MM-DD JSON string field.
func parseDateField(field, v string) (core.Date, error) {
	if strings.TrimSpace(v) == "" {
		return core.Date{}, core.Invalid(field, "required")
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, core.Invalid(field, fmt.Sprintf("%q is not a valid YYYY-MM-DD date", v))
	}
	return d, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
