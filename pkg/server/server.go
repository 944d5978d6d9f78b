package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/openhiking/trailhub/pkg/authn"
	"github.com/openhiking/trailhub/pkg/config"
	"github.com/openhiking/trailhub/pkg/entity"
	"github.com/openhiking/trailhub/pkg/relation"
	"github.com/openhiking/trailhub/pkg/server/store"
)

type Server struct {
	Router    *mux.Router
	Store     store.EntityStore
	Engine    *entity.Engine
	Relations *relation.Manager
	Verifier  authn.Verifier
	Exchanger authn.Exchanger
	Config    *config.Config
	srv       *http.Server
}

func NewServer(
	cfg *config.Config,
	entityStore store.EntityStore,
	verifier authn.Verifier,
	exchanger authn.Exchanger,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    cfg.BindAddress + ":" + cfg.Port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	relations := relation.NewManager(entityStore)
	engine := entity.NewEngine(entityStore, cfg.BaseURL, cfg.PageSize, relations)

	return &Server{
		Router:    router,
		Store:     entityStore,
		Engine:    engine,
		Relations: relations,
		Verifier:  verifier,
		Exchanger: exchanger,
		Config:    cfg,
		srv:       srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}
