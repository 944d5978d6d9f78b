package endpoints

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/openhiking/trailhub/pkg/authn"
	"github.com/openhiking/trailhub/pkg/entity"
	"github.com/openhiking/trailhub/pkg/registry"
	"github.com/openhiking/trailhub/pkg/relation"
	"github.com/openhiking/trailhub/pkg/server/store"
)

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// writeError maps the engine/manager error taxonomy to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var missing *registry.MissingAttributeError
	var invalid *registry.InvalidAttributeError

	switch {
	case errors.As(err, &missing), errors.As(err, &invalid):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrBadCursor):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, authn.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, entity.ErrForbidden),
		errors.Is(err, relation.ErrAlreadyLinked),
		errors.Is(err, relation.ErrNotLinked):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, entity.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("endpoints: internal error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "internal error")
	}
}
