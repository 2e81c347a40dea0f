package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aegis-idp/aegis/internal/interfaces/cli/migrate"
	"github.com/aegis-idp/aegis/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aegis",
		Short: "Aegis - authorization and token trust service",
		Long:  `Aegis layers resource-scoped authorization, token trust verification and a revocation registry on top of an OAuth2/OIDC identity provider.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
