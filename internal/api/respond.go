package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/shopcore/internal/domain"
	"github.com/rs/zerolog"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps err to a status and a client safe message. Server errors
// are logged with the request id and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	status, msg := statusFor(err)

	if status >= http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("request_id", RequestIDFromContext(r.Context())).
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Msg("request failed")
	}

	writeJSON(w, status, errorResponse{Error: msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusBadRequest, domain.ErrProductNotFound.Error()
	case errors.Is(err, domain.ErrCategoryNotFound):
		return http.StatusBadRequest, domain.ErrCategoryNotFound.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.ErrNotFound.Error()
	case errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict, domain.ErrVersionConflict.Error()
	case errors.Is(err, domain.ErrUniqueViolation):
		return http.StatusConflict, domain.ErrUniqueViolation.Error()
	case errors.Is(err, domain.ErrHasDependents):
		return http.StatusConflict, domain.ErrHasDependents.Error()
	case errors.Is(err, domain.ErrOrderClosed):
		return http.StatusConflict, domain.ErrOrderClosed.Error()
	}

	return http.StatusInternalServerError, "internal server error"
}

// validationMessage drops the call chain prefix: "repo.X: validation failed: page must be >= 1"
// becomes "validation failed: page must be >= 1".
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, domain.ErrValidation.Error()); i >= 0 {
		return msg[i:]
	}
	return domain.ErrValidation.Error()
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return invalidInput("invalid request body: %s", err)
	}
	return nil
}

func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, invalidInput("id must be a positive integer, got %q", raw)
	}

	return id, nil
}

// pageQuery reads q, sort_by, order_direction, page and limit. Absent values
// take defaults, present ones are validated downstream, never clamped.
func pageQuery(r *http.Request) (domain.PageQuery, error) {
	query := domain.DefaultPageQuery()
	values := r.URL.Query()

	query.Q = strings.TrimSpace(values.Get("q"))

	if v := values.Get("sort_by"); v != "" {
		query.SortBy = v
	}

	direction, err := domain.ToSortDirection(values.Get("order_direction"))
	if err != nil {
		return query, err
	}
	query.Direction = direction

	if v := values.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return query, invalidInput("page must be an integer, got %q", v)
		}
		query.Page = page
	}

	if v := values.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return query, invalidInput("limit must be an integer, got %q", v)
		}
		query.Limit = limit
	}

	return query, query.Validate()
}
