// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/risda/internal/logging"
	"github.com/pdiddy/risda/internal/secrets"
	"github.com/pdiddy/risda/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON HTTP API",
	Long: `Serve loads the corpus and both model artifacts and answers search,
recommendation, problem and record requests over HTTP. Admin routes need a
bearer token issued with risda admin-token; without one they are disabled.
Prometheus metrics are served at /metrics.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, appNeeds{engine: true, classifier: true})
	if err != nil {
		return err
	}
	defer a.Close()

	hash, err := secrets.AdminTokenHash(cfg.Server.SecretsDir)
	switch {
	case errors.Is(err, secrets.ErrNoAdminToken):
		logging.Warn().Err(err).Msg("admin routes disabled")
	case err != nil:
		return err
	}

	logging.Info().
		Int("records", a.engine.Snapshot().Len()).
		Strs("classes", a.model.Classes()).
		Msg("models loaded")

	srv := server.New(server.Deps{
		Engine:         a.engine,
		Records:        a.records,
		Problems:       a.problems,
		AdminTokenHash: hash,
	}, cfg)
	return srv.ListenAndServe(ctx)
}

var adminTokenCmd = &cobra.Command{
	Use:   "admin-token",
	Short: "Issue a new admin API token",
	Long: `Admin-token generates a random admin token, stores its bcrypt hash in
the secrets directory and prints the token once. Issuing a new token
replaces the previous one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := secrets.IssueAdminToken(cfg.Server.SecretsDir)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, token)
		fmt.Fprintln(os.Stderr, "Store this token now; only its hash is kept.")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(adminTokenCmd)
}
