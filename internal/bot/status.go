package bot

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tg-warn/internal/config"
	"tg-warn/internal/handler"
	"tg-warn/internal/logger"
)

// StatusServer serves the prometheus metrics and the handler counters
type StatusServer struct {
	server *http.Server
}

// NewStatusServer builds the metrics server, nil when metrics are disabled
func NewStatusServer(cfg config.MetricsConfig, debugPath string) *StatusServer {
	if !cfg.Enabled || cfg.Listen == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())
	if debugPath != "" && debugPath != cfg.Path {
		mux.HandleFunc(debugPath, StatusHandler)
	}

	return &StatusServer{server: &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// StatusHandler writes the handler counters as plain text
func StatusHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(handler.GetDetailedStatus()))
}

func (s *StatusServer) Start() error {
	logger.Infof("Serving metrics on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *StatusServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
