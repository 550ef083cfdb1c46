package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/softwarewrighter/scan3data/internal/scanset"
)

var servePort int

// shutdownTimeout is the drain window granted to in-flight requests.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for scan set inspection and processing",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newServeMux(ctx, env),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownServer(srv, shutdownTimeout)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newServeMux builds the API routes. Pipeline runs triggered over HTTP use
// ctx, so a server shutdown signal also cancels them.
func newServeMux(ctx context.Context, env *pipelineEnv) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/scansets", func(w http.ResponseWriter, r *http.Request) {
		dir := r.URL.Query().Get("dir")
		if dir == "" {
			http.Error(w, `{"error":"dir is required"}`, http.StatusBadRequest)
			return
		}
		set, err := scanset.Load(dir)
		if err != nil {
			http.Error(w, `{"error":"scan set not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"manifest":  set.Manifest,
			"artifacts": set.Artifacts,
		})
	})

	mux.HandleFunc("POST /api/process", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Dir string `json:"dir"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Dir == "" {
			http.Error(w, `{"error":"dir is required"}`, http.StatusBadRequest)
			return
		}

		// Run asynchronously; progress lands in the run history.
		go func() {
			result, err := env.Pipeline.Run(ctx, req.Dir)
			if err != nil {
				zap.L().Error("api: pipeline run failed",
					zap.String("dir", req.Dir),
					zap.Error(err),
				)
				return
			}
			zap.L().Info("api: pipeline run complete",
				zap.String("dir", req.Dir),
				zap.Int("processed", result.Processed),
			)
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "accepted",
			"dir":    req.Dir,
		})
	})

	return mux
}

// shutdownServer drains in-flight requests for up to timeout. The signal
// context is already canceled when this runs, so the drain gets its own
// deadline.
func shutdownServer(srv *http.Server, timeout time.Duration) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Warn("server shutdown", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
