package endpoints

import (
	"github.com/openhiking/trailhub/pkg/registry"
	"github.com/openhiking/trailhub/pkg/server"
	"github.com/openhiking/trailhub/pkg/server/middleware"
)

// RegisterTrailEndpoints registers the protected /trails CRUD routes.
func RegisterTrailEndpoints(s *server.Server) {
	desc := registry.ByKind(registry.KindTrail)
	claims := middleware.NewClaimExtractor(s.Verifier)

	trailsRouter := s.Router.PathPrefix("/trails").Subrouter()
	trailsRouter.Use(middleware.AcceptJSON, claims.Middleware)
	trailsRouter.MethodNotAllowedHandler = methodNotAllowed("/trails", "GET, POST", "GET, PUT, PATCH, DELETE")

	trailsRouter.HandleFunc("", handleListEntities(s, desc)).Methods("GET")
	trailsRouter.HandleFunc("", handleCreateEntity(s, desc)).Methods("POST")
	trailsRouter.HandleFunc("/{id}", handleGetEntity(s, desc)).Methods("GET")
	trailsRouter.HandleFunc("/{id}", handleReplaceEntity(s, desc)).Methods("PUT")
	trailsRouter.HandleFunc("/{id}", handlePatchEntity(s, desc)).Methods("PATCH")
	trailsRouter.HandleFunc("/{id}", handleDeleteEntity(s, desc)).Methods("DELETE")
}
