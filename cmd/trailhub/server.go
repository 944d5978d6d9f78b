package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/openhiking/trailhub/pkg/authn"
	"github.com/openhiking/trailhub/pkg/config"
	"github.com/openhiking/trailhub/pkg/server"
	"github.com/openhiking/trailhub/pkg/server/endpoints"
	"github.com/openhiking/trailhub/pkg/server/store"
	dsstore "github.com/openhiking/trailhub/pkg/server/store/datastore"
	"github.com/openhiking/trailhub/pkg/server/store/memory"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the trailhub application server",
	Long: `Run the trailhub application server.

Configuration comes from /etc/trailhub/trailhub.yml (or TRAILHUB_CONFIG_PATH)
overridden by TRAILHUB_* environment variables. The datastore backend requires
TRAILHUB_PROJECT; the google verifier requires TRAILHUB_OAUTH_CLIENT_ID.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		applyFlags(cmd, cfg)

		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		ctx := context.Background()

		entityStore, err := buildStore(ctx, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to store:", err)
			os.Exit(1)
		}

		verifier, err := buildVerifier(ctx, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to initiate verifier:", err)
			os.Exit(1)
		}

		var exchanger authn.Exchanger
		if cfg.OAuthClientID != "" && cfg.OAuthClientSecret != "" {
			exchanger = authn.NewGoogleExchanger(
				cfg.OAuthClientID, cfg.OAuthClientSecret, cfg.OAuthRedirectURL)
		}

		s := server.NewServer(cfg, entityStore, verifier, exchanger)
		endpoints.RegisterAll(s)

		watch, _ := cmd.Flags().GetBool("watch-config")
		if watch {
			go func() {
				if err := config.Watch(nil, func(c *config.Config) {
					log.Printf("config reloaded from %s", c.ConfigFilePath())
				}); err != nil {
					log.Printf("config watch stopped: %v", err)
				}
			}()
		}

		log.Printf("Running server at http://%s:%s...\n", cfg.BindAddress, cfg.Port)
		log.Fatal(s.Start())
	},
}

func buildStore(ctx context.Context, cfg *config.Config) (store.EntityStore, error) {
	switch cfg.Store {
	case "memory":
		return memory.New(), nil
	default:
		return dsstore.New(ctx, cfg.Project)
	}
}

func buildVerifier(ctx context.Context, cfg *config.Config) (authn.Verifier, error) {
	switch cfg.Verifier {
	case "local":
		return authn.NewLocalVerifier([]byte(cfg.LocalSecret)), nil
	default:
		return authn.NewGoogleVerifier(ctx, cfg.OAuthClientID)
	}
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("bind-address"); v != "" {
		cfg.BindAddress = v
	}
	if v, _ := cmd.Flags().GetString("port"); v != "" {
		cfg.Port = v
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.Store = v
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().String("bind-address", "", "Address to bind the server to")
	serverCmd.Flags().String("port", "", "Port to run the server on")
	serverCmd.Flags().String("store", "", "Entity store backend (datastore or memory)")
	serverCmd.Flags().Bool("watch-config", false, "Reload configuration when the config file changes")
}
