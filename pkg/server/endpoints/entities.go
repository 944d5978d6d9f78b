package endpoints

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/openhiking/trailhub/pkg/audit"
	"github.com/openhiking/trailhub/pkg/entity"
	"github.com/openhiking/trailhub/pkg/identity"
	"github.com/openhiking/trailhub/pkg/registry"
	"github.com/openhiking/trailhub/pkg/server"
)

// Shared descriptor-driven handlers behind the per-resource routes. Each
// closure captures the server and the descriptor; the engine applies the
// authorization and validation rules.

func handleListEntities(s *server.Server, desc *registry.Descriptor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claim, _ := identity.Get(r.Context())
		cursor := r.URL.Query().Get("cursor")

		page, err := s.Engine.Page(r.Context(), desc, claim, cursor)
		if err != nil {
			writeError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK,
			formatPage(desc, page.Items, page.Count, page.Self, page.Next, s.Config.BaseURL))
	}
}

func handleCreateEntity(s *server.Server, desc *registry.Descriptor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claim, _ := identity.Get(r.Context())

		attrs, ok := decodeBody(w, r)
		if !ok {
			return
		}

		ent, err := s.Engine.Create(r.Context(), desc, claim, attrs)
		if err != nil {
			auditEntity(claim, desc, 0, "create", err)
			writeError(w, err)
			return
		}
		auditEntity(claim, desc, ent.ID, "create", nil)
		respondWithJSON(w, http.StatusCreated, formatEntity(desc, ent, s.Config.BaseURL))
	}
}

func handleGetEntity(s *server.Server, desc *registry.Descriptor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claim, _ := identity.Get(r.Context())
		id, ok := entityID(w, r, desc)
		if !ok {
			return
		}

		ent, err := s.Engine.Get(r.Context(), desc, claim, id)
		if err != nil {
			writeError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, formatEntity(desc, ent, s.Config.BaseURL))
	}
}

func handleReplaceEntity(s *server.Server, desc *registry.Descriptor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claim, _ := identity.Get(r.Context())
		id, ok := entityID(w, r, desc)
		if !ok {
			return
		}

		attrs, ok := decodeBody(w, r)
		if !ok {
			return
		}

		ent, err := s.Engine.Replace(r.Context(), desc, claim, id, attrs)
		auditEntity(claim, desc, id, "replace", err)
		if err != nil {
			writeError(w, err)
			return
		}
		// Full representation with 200 rather than a bare 204; the Location
		// of the entity is already its self link.
		respondWithJSON(w, http.StatusOK, formatEntity(desc, ent, s.Config.BaseURL))
	}
}

func handlePatchEntity(s *server.Server, desc *registry.Descriptor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claim, _ := identity.Get(r.Context())
		id, ok := entityID(w, r, desc)
		if !ok {
			return
		}

		attrs, ok := decodeBody(w, r)
		if !ok {
			return
		}

		ent, err := s.Engine.Patch(r.Context(), desc, claim, id, attrs)
		auditEntity(claim, desc, id, "patch", err)
		if err != nil {
			writeError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, formatEntity(desc, ent, s.Config.BaseURL))
	}
}

func handleDeleteEntity(s *server.Server, desc *registry.Descriptor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claim, _ := identity.Get(r.Context())
		id, ok := entityID(w, r, desc)
		if !ok {
			return
		}

		err := s.Engine.Delete(r.Context(), desc, claim, id)
		auditEntity(claim, desc, id, "delete", err)
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func auditEntity(claim *identity.Claim, desc *registry.Descriptor, id int64, operation string, err error) {
	event := audit.EntityEvent{
		Kind:      string(desc.Kind),
		EntityID:  id,
		Operation: operation,
		Success:   err == nil,
	}
	if claim != nil {
		event.Subject = claim.Subject
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)
}

func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	var attrs map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&attrs); err != nil {
		respondWithError(w, http.StatusBadRequest, "request body must be a JSON object")
		return nil, false
	}
	return attrs, true
}

// entityID parses the id path variable. An unparseable id gets the same
// response as a miss, so malformed ids leak nothing a nonexistent one
// wouldn't.
func entityID(w http.ResponseWriter, r *http.Request, desc *registry.Descriptor) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		if desc.Protected {
			writeError(w, entity.ErrForbidden)
		} else {
			writeError(w, entity.ErrNotFound)
		}
		return 0, false
	}
	return id, true
}

// methodNotAllowed responds 405 with an Allow header listing the verbs the
// route supports, distinguishing the collection path from item paths.
func methodNotAllowed(prefix, collectionAllow, itemAllow string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allow := itemAllow
		if strings.TrimSuffix(r.URL.Path, "/") == prefix {
			allow = collectionAllow
		}
		w.Header().Set("Allow", allow)
		respondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}
