package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/researchscope/internal/server"
)

var (
	serveAddress string
	servePort    int
	serveModel   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI",
	Long:  `Start an HTTP server with the analysis form, report pages and a JSON API.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "Address to bind (default localhost)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8501)")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "Use this Gemini model for every stage")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(serveModel)
	if err != nil {
		return err
	}
	if serveAddress != "" {
		cfg.Address = serveAddress
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	ctx := cmd.Context()
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	searcher, err := newSearcher(ctx, cfg)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Addr:          cfg.ListenAddr(),
		Client:        client,
		Searcher:      searcher,
		MaxQueryTerms: cfg.MaxQueryTerms,
		Verbose:       cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
