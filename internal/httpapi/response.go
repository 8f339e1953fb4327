package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-storefront/storefront"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// respond writes out as JSON, or the error response for err. Readers return
// nil or empty values for missing entities, which render as null or [].
func (a *api) respond(w http.ResponseWriter, r *http.Request, out any, err error) {
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *api) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{Error: http.StatusText(status)}
	if status >= http.StatusInternalServerError {
		a.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		body.Message = err.Error()
		a.logger.DebugContext(r.Context(), "request rejected",
			"method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, storefront.ErrCartUnsupported):
		return http.StatusNotImplemented
	case storefront.IsNotFound(err):
		return http.StatusNotFound
	case goerrors.IsCategory(err, goerrors.CategoryValidation):
		return http.StatusBadRequest
	case goerrors.IsCategory(err, goerrors.CategoryExternal):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
