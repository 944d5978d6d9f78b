package endpoints

import (
	"github.com/openhiking/trailhub/pkg/server"
)

// RegisterAll registers all API endpoints on the server. Link routes are
// registered before the trail item routes so gorilla mux matches the longer
// paths first.
func RegisterAll(srv *server.Server) {
	RegisterLinkEndpoints(srv)
	RegisterTrailEndpoints(srv)
	RegisterTrailheadEndpoints(srv)
	RegisterUserEndpoints(srv)

	if srv.Exchanger != nil {
		RegisterAuthEndpoints(srv)
	}
}
