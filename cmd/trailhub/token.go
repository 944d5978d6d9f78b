package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openhiking/trailhub/pkg/authn"
	"github.com/openhiking/trailhub/pkg/config"
	"github.com/openhiking/trailhub/pkg/identity"
)

// tokenCmd mints a bearer token for the local verifier, for exercising the
// API without the Google sign-in flow.
var tokenCmd = &cobra.Command{
	Use:   "token SUBJECT",
	Short: "Mint a local-verifier bearer token for a subject",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if cfg.LocalSecret == "" {
			fmt.Fprintln(os.Stderr, "local_secret is not configured")
			os.Exit(1)
		}

		givenName, _ := cmd.Flags().GetString("given-name")
		familyName, _ := cmd.Flags().GetString("family-name")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		verifier := authn.NewLocalVerifier([]byte(cfg.LocalSecret))
		token, err := verifier.Mint(&identity.Claim{
			Subject:    args[0],
			GivenName:  givenName,
			FamilyName: familyName,
		}, ttl)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(token)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().String("given-name", "", "Given name claim")
	tokenCmd.Flags().String("family-name", "", "Family name claim")
	tokenCmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
}
