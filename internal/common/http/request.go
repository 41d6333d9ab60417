package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	commonerrors "github.com/AlibekovAA/qa-llm/backend/internal/common/errors"
)

var (
	ErrInvalidJSON = commonerrors.NewDomainError(
		CodeInvalidJSON,
		commonerrors.CategoryValidation,
		http.StatusUnprocessableEntity,
		"request body must be valid JSON",
	)

	ErrInvalidForm = commonerrors.NewDomainError(
		CodeInvalidForm,
		commonerrors.CategoryValidation,
		http.StatusUnprocessableEntity,
		"request body must be a valid form",
	)

	ErrInvalidQuery = commonerrors.NewDomainError(
		CodeInvalidQuery,
		commonerrors.CategoryValidation,
		http.StatusUnprocessableEntity,
		"invalid query parameter",
	)

	ErrBodyTooLarge = commonerrors.NewDomainError(
		CodeBodyTooLarge,
		commonerrors.CategoryValidation,
		http.StatusRequestEntityTooLarge,
		"request body too large",
	)
)

// DecodeJSON reads a single JSON value from the body into v.
func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if IsBodyTooLarge(err) {
			return ErrBodyTooLarge.WithCause(err)
		}
		if errors.Is(err, io.EOF) {
			return commonerrors.WithMessage(ErrInvalidJSON, "request body is empty")
		}
		return ErrInvalidJSON.WithCause(err)
	}
	return nil
}

// IsForm reports whether the request body is url-encoded or multipart form data.
func IsForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

func ParseForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		if IsBodyTooLarge(err) {
			return ErrBodyTooLarge.WithCause(err)
		}
		return ErrInvalidForm.WithCause(err)
	}
	return nil
}

// QueryInt parses an optional integer query parameter and checks it against [min, max].
// hi < lo means no upper bound.
func QueryInt(r *http.Request, name string, fallback, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, commonerrors.WithMessage(ErrInvalidQuery, name+" must be an integer")
	}
	if v < lo {
		return 0, commonerrors.WithMessage(ErrInvalidQuery, name+" must be greater than or equal to "+strconv.Itoa(lo))
	}
	if hi >= lo && v > hi {
		return 0, commonerrors.WithMessage(ErrInvalidQuery, name+" must be less than or equal to "+strconv.Itoa(hi))
	}
	return v, nil
}

func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteErrorEnvelope(w, http.StatusNotFound, CodeNotFound, "not found", nil, TraceIDFromContext(r.Context()))
}
