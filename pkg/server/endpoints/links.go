package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/openhiking/trailhub/pkg/audit"
	"github.com/openhiking/trailhub/pkg/entity"
	"github.com/openhiking/trailhub/pkg/identity"
	"github.com/openhiking/trailhub/pkg/server"
	"github.com/openhiking/trailhub/pkg/server/middleware"
)

// RegisterLinkEndpoints registers the Trail↔Trailhead link routes. Both
// require the caller to own the trail; linking twice or unlinking a missing
// edge is a conflict, not a no-op.
func RegisterLinkEndpoints(s *server.Server) {
	claims := middleware.NewClaimExtractor(s.Verifier)

	linkRouter := s.Router.PathPrefix("/trails/{tid}/trailheads/{hid}").Subrouter()
	linkRouter.Use(claims.Middleware)
	linkRouter.MethodNotAllowedHandler = methodNotAllowed("", "PUT, DELETE", "PUT, DELETE")

	linkRouter.HandleFunc("", handleAssign(s)).Methods("PUT")
	linkRouter.HandleFunc("", handleRemove(s)).Methods("DELETE")
}

func handleAssign(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claim, _ := identity.Get(r.Context())
		trailID, trailheadID, ok := linkIDs(w, r)
		if !ok {
			return
		}

		err := s.Relations.Assign(r.Context(), trailID, trailheadID, claim)
		auditLink(claim, trailID, trailheadID, "assign", err)
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleRemove(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claim, _ := identity.Get(r.Context())
		trailID, trailheadID, ok := linkIDs(w, r)
		if !ok {
			return
		}

		err := s.Relations.Remove(r.Context(), trailID, trailheadID, claim)
		auditLink(claim, trailID, trailheadID, "remove", err)
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func auditLink(claim *identity.Claim, trailID, trailheadID int64, operation string, err error) {
	event := audit.LinkEvent{
		TrailID:     trailID,
		TrailheadID: trailheadID,
		Operation:   operation,
		Success:     err == nil,
	}
	if claim != nil {
		event.Subject = claim.Subject
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)
}

func linkIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	vars := mux.Vars(r)
	trailID, err := strconv.ParseInt(vars["tid"], 10, 64)
	if err != nil {
		writeError(w, entity.ErrForbidden)
		return 0, 0, false
	}
	trailheadID, err := strconv.ParseInt(vars["hid"], 10, 64)
	if err != nil {
		writeError(w, entity.ErrNotFound)
		return 0, 0, false
	}
	return trailID, trailheadID, true
}
