// Package webhook is the ingestion boundary for inbound chat-platform
// events. Structural and authorization rejections happen here; once a
// payload is accepted, downstream failures are logged and the platform is
// always acknowledged with 200 so it does not retry-storm the same event.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yenege/ticketbot/internal/messaging"
	"github.com/yenege/ticketbot/internal/messaging/telegram"
	"github.com/yenege/ticketbot/internal/metrics"
)

const (
	secretHeader    = "X-Telegram-Bot-Api-Secret-Token"
	maxBodyBytes    = 1 << 20
	dedupWindowSize = 1024
)

// Handler is the downstream consumer of accepted updates.
type Handler interface {
	Dispatch(msg *messaging.Message) error
	HandleNewMembers(msg *messaging.Message) error
	HandleCallback(cb *messaging.Callback) error
}

// Server accepts webhook deliveries and routes them to the bot core.
type Server struct {
	handler Handler
	secret  string
	verbose bool
	seen    *seenSet
	httpSrv *http.Server
}

func NewServer(addr, path string, secret string, verbose bool, handler Handler) *Server {
	s := &Server{
		handler: handler,
		secret:  secret,
		verbose: verbose,
		seen:    newSeenSet(dedupWindowSize),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(path, s.handleUpdate)
	mux.HandleFunc("/healthz", handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	slog.Info("webhook server listening", "addr", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Authorization check comes first and is distinct from the structural
	// one: a wrong secret is 401, a broken payload is 400.
	if s.secret != "" && r.Header.Get(secretHeader) != s.secret {
		metrics.RejectsTotal.WithLabelValues("unauthorized").Inc()
		slog.Warn("webhook rejected: bad secret", "remote", r.RemoteAddr)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		metrics.RejectsTotal.WithLabelValues("unreadable").Inc()
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if s.verbose {
		slog.Debug("inbound update", "body", string(body))
	}

	update, err := telegram.ParseUpdate(body)
	if err != nil {
		metrics.RejectsTotal.WithLabelValues("malformed").Inc()
		slog.Warn("webhook rejected: malformed payload", "error", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// Past this point the platform always gets an acknowledgment; handler
	// failures must not trigger a redelivery of the same update.
	if s.seen.Seen(update.UpdateID) {
		slog.Info("duplicate update dropped", "update_id", update.UpdateID)
	} else {
		s.route(update)
	}

	acknowledge(w)
}

func (s *Server) route(update *messaging.Update) {
	if msg := update.Message; msg != nil {
		if len(msg.NewMembers) > 0 {
			metrics.UpdatesTotal.WithLabelValues("membership").Inc()
			if err := s.handler.HandleNewMembers(msg); err != nil {
				slog.Error("membership handler failed", "update_id", update.UpdateID, "error", err)
			}
		}
		if msg.Text != "" {
			metrics.UpdatesTotal.WithLabelValues("message").Inc()
			if err := s.handler.Dispatch(msg); err != nil {
				slog.Error("dispatch failed", "update_id", update.UpdateID, "error", err)
			}
		}
	}

	if update.Callback != nil {
		metrics.UpdatesTotal.WithLabelValues("callback").Inc()
		if err := s.handler.HandleCallback(update.Callback); err != nil {
			slog.Error("callback handler failed", "update_id", update.UpdateID, "error", err)
		}
	}
}

func acknowledge(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Warn("failed to write acknowledgment", "error", err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
