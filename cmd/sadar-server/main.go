// Package main provides the SADAR API server entrypoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sabrisig-create/sadar/internal/auth"
	"github.com/sabrisig-create/sadar/internal/config"
	"github.com/sabrisig-create/sadar/internal/llm"
	"github.com/sabrisig-create/sadar/internal/logging"
	"github.com/sabrisig-create/sadar/internal/runtime"
	"github.com/sabrisig-create/sadar/internal/server"
	"github.com/sabrisig-create/sadar/internal/store"
)

var version = "0.1.0"

func main() {
	var dataDir string
	var port string

	rootCmd := &cobra.Command{
		Use:   "sadar-server",
		Short: "SADAR API server",
		Long: `SADAR API server: accounts, reflection generation, transcription
and reflection history, backed by a local SQLite database.

Set SADAR_JWT_SECRET before starting. With OPENAI_API_KEY unset the
server answers generation requests with a fixed offline scaffold and
transcription is disabled.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := run(dataDir, port); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},
	}
	rootCmd.Version = version
	rootCmd.Flags().StringVar(&dataDir, "data", "", "Data directory (default ~/.sadar/data)")
	rootCmd.Flags().StringVar(&port, "port", "", "Listen port (default SADAR_PORT or 8787)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(dataDir, port string) error {
	env := config.Env()
	log := logging.New("server")

	if dataDir == "" {
		dataDir = config.GetPaths().Data
	}
	if port == "" {
		port = env.Port
	}

	tokens, err := auth.NewTokenManager(env.JWTSecret, auth.DefaultTokenTTL)
	if err != nil {
		return err
	}

	st, err := store.New(dataDir)
	if err != nil {
		return err
	}

	var chat llm.Generator
	var stt server.Transcriber
	if env.OpenAIKey != "" {
		chat = llm.NewOpenAI(env.OpenAIKey, env.OpenAIBaseURL, env.Model)
		stt = llm.NewWhisper(env.OpenAIKey, env.OpenAIBaseURL)
	} else {
		log.Warn("openai_key_missing", map[string]any{
			"effect": "offline generation, no transcription",
		}, nil)
		chat = llm.Offline{}
	}

	handler := server.New(st, tokens, chat, stt, log)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := runtime.NewShutdownManager(runtime.DefaultShutdownTimeout, log)
	shutdown.Register("store", func(ctx context.Context) error {
		return st.Close()
	})
	shutdown.Register("http", func(ctx context.Context) error {
		return srv.Shutdown(ctx)
	})
	shutdown.ListenForSignals()

	log.Info("server_started", map[string]any{
		"addr": srv.Addr,
		"data": st.Path(),
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		shutdown.Shutdown()
		return err
	case <-shutdown.Context().Done():
		shutdown.Wait()
		log.Info("server_stopped", nil)
		return nil
	}
}
