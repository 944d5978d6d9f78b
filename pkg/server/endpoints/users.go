package endpoints

import (
	"github.com/openhiking/trailhub/pkg/registry"
	"github.com/openhiking/trailhub/pkg/server"
	"github.com/openhiking/trailhub/pkg/server/middleware"
)

// RegisterUserEndpoints registers the read-only /users roster route. Entries
// are created by the OAuth callback, never through this surface.
func RegisterUserEndpoints(s *server.Server) {
	desc := registry.ByKind(registry.KindUser)

	usersRouter := s.Router.PathPrefix("/users").Subrouter()
	usersRouter.Use(middleware.AcceptJSON)
	usersRouter.MethodNotAllowedHandler = methodNotAllowed("/users", "GET", "GET")

	usersRouter.HandleFunc("", handleListEntities(s, desc)).Methods("GET")
}
