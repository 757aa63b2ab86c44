package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tienda-labs/tienda/internal/apperr"
	"github.com/tienda-labs/tienda/internal/http/apierr"
	"github.com/tienda-labs/tienda/pkg/jsonapi"
)

// responder writes envelope documents and maps errors at the handler
// boundary.
type responder struct {
	logger *slog.Logger
}

func (rp responder) writeDocument(w http.ResponseWriter, r *http.Request, status int, doc jsonapi.Document) {
	if err := jsonapi.Write(w, status, doc); err != nil {
		rp.logger.ErrorContext(r.Context(), "error encoding response", slog.Any("error", err))
	}
}

func (rp responder) writeError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	rp.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := jsonapi.Write(w, res.StatusCode, jsonapi.Document{Errors: res.Errors}); err != nil {
		rp.logger.ErrorContext(r.Context(), "error encoding error response", slog.Any("error", err))
	}
}

// idParam parses an integer path parameter. A non-numeric value is a
// validation failure, not a storage lookup.
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.ValidationErr.WrapParent(fmt.Errorf("parse %s %q: %w", name, raw, err))
	}
	return id, nil
}
