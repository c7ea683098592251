package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/llanteria/llanteria/internal/admin"
	"github.com/llanteria/llanteria/internal/tire"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps a domain error onto the HTTP taxonomy: validation 400, no-match
// 401, not-found 404, anything else is a store failure.
func fail(w http.ResponseWriter, err error) {
	var verr *tire.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, admin.ErrMissingCredentials):
		writeError(w, http.StatusBadRequest, admin.ErrMissingCredentials.Error())
	case errors.Is(err, admin.ErrNoMatch):
		writeError(w, http.StatusUnauthorized, admin.ErrNoMatch.Error())
	case errors.Is(err, admin.ErrNotFound):
		writeError(w, http.StatusNotFound, admin.ErrNotFound.Error())
	case errors.Is(err, tire.ErrNotFound):
		writeError(w, http.StatusNotFound, tire.ErrNotFound.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Error en el servidor: "+err.Error())
	}
}
