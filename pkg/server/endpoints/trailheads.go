package endpoints

import (
	"github.com/openhiking/trailhub/pkg/registry"
	"github.com/openhiking/trailhub/pkg/server"
	"github.com/openhiking/trailhub/pkg/server/middleware"
)

// RegisterTrailheadEndpoints registers the unprotected /trailheads CRUD
// routes. The shape mirrors /trails minus ownership: no claim is consulted
// and misses are plain 404s.
func RegisterTrailheadEndpoints(s *server.Server) {
	desc := registry.ByKind(registry.KindTrailhead)

	trailheadsRouter := s.Router.PathPrefix("/trailheads").Subrouter()
	trailheadsRouter.Use(middleware.AcceptJSON)
	trailheadsRouter.MethodNotAllowedHandler = methodNotAllowed("/trailheads", "GET, POST", "GET, PUT, PATCH, DELETE")

	trailheadsRouter.HandleFunc("", handleListEntities(s, desc)).Methods("GET")
	trailheadsRouter.HandleFunc("", handleCreateEntity(s, desc)).Methods("POST")
	trailheadsRouter.HandleFunc("/{id}", handleGetEntity(s, desc)).Methods("GET")
	trailheadsRouter.HandleFunc("/{id}", handleReplaceEntity(s, desc)).Methods("PUT")
	trailheadsRouter.HandleFunc("/{id}", handlePatchEntity(s, desc)).Methods("PATCH")
	trailheadsRouter.HandleFunc("/{id}", handleDeleteEntity(s, desc)).Methods("DELETE")
}
