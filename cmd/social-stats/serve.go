package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	sshttp "github.com/cathysarisky/api-with-activitypub/internal/http"
	"github.com/cathysarisky/api-with-activitypub/internal/tracing"
)

func serveCmd(configPath *string) *cobra.Command {
	var basePath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the notes report over HTTP",
		Long: `Start the HTTP responder.

Routes:
  GET     /notes             notes report {success, timestamp, summary, notes}
  OPTIONS /notes             CORS preflight
  GET     /notes/replies     replies to a note (?url=)
  POST    /sync/analytics    push article stats to the analytics endpoint
  GET     /livez /healthz /metrics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configPath, basePath)
		},
	}

	cmd.Flags().StringVar(&basePath, "base-path", "", "mount API routes under this prefix")

	return cmd
}

func runServe(rootCtx context.Context, configPath, basePath string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := bootstrap(configPath, os.Stdout, reg)
	if err != nil {
		return err
	}

	log := a.log
	log.Info("starting social-stats", "env", a.cfg.Env, "version", Version)

	shutdownTracing, err := tracing.Setup(rootCtx, a.cfg.Tracing, a.cfg.Env, Version)
	if err != nil {
		log.Error("tracing_init_failed", slog.String("err", err.Error()))
		return err
	}
	if a.cfg.Tracing.Enabled() {
		log.Info("tracing_enabled", slog.String("endpoint", a.cfg.Tracing.Endpoint))
	}

	apiHandler := sshttp.NewRouter(a.svc, sshttp.Options{
		Logger:   log,
		Timeout:  a.cfg.Timeouts.Service,
		BasePath: basePath,
	})

	var ready int32 // 0 - not ready; 1 - ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	mux.Handle("/", apiHandler)

	httpAddr := a.cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		return err
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("service_ready")

	var serveErr error
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case serveErr = <-serveErrCh:
		if serveErr != nil {
			log.Error("http_serve_failed", slog.String("err", serveErr.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing_shutdown_incomplete", slog.String("err", err.Error()))
	}

	log.Info("service_stopped")
	return serveErr
}
