package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/foxerapp/foxer/internal/config"
	"github.com/foxerapp/foxer/internal/errors"
	"github.com/foxerapp/foxer/internal/store"
	"github.com/foxerapp/foxer/internal/stt"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// NewServer creates and configures the HTTP server.
func NewServer(st *store.Store, cfg *config.Config, sttClient *stt.Client, version, bind string, port int) *http.Server {
	// Create sub-FS for templates (strip "templates/" prefix)
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		log.Fatalf("failed to create template sub-FS: %v", err)
	}

	// Create sub-FS for static files (strip "static/" prefix)
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatalf("failed to create static sub-FS: %v", err)
	}

	renderer := NewRenderer(templateSub, version)
	h := NewHandlers(st, cfg, sttClient, renderer)

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/tasks", http.StatusFound)
	})
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /tasks", h.HandleListPage)
	mux.HandleFunc("GET /tasks/{id}", h.HandleDetailPage)

	mux.HandleFunc("GET /api/tasks", h.HandleTasks)
	mux.HandleFunc("POST /api/tasks", h.HandleCreateTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", h.HandlePatchTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", h.HandleDeleteTask)
	mux.HandleFunc("POST /api/tasks/{id}/duplicate", h.HandleDuplicateTask)
	mux.HandleFunc("POST /api/tasks/reorder", h.HandleReorder)
	mux.HandleFunc("POST /api/tasks/move", h.HandleMove)
	mux.Handle("POST /api/transcribe", corsAllowList(cfg, renderer, http.HandlerFunc(h.HandleTranscribe)))
	mux.Handle("OPTIONS /api/transcribe", corsAllowList(cfg, renderer, nil))

	// Static file server
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	// Wrap with security headers
	handler := securityHeaders(mux)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: handler,
	}
}

// corsAllowList enforces the origin allow-list for the transcription proxy
// and answers preflight requests. A nil next handles OPTIONS only.
func corsAllowList(cfg *config.Config, renderer *Renderer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if !cfg.OriginAllowed(origin) {
			renderer.renderError(w, r, errors.NewOriginForbidden(origin))
			return
		}
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
// onShutdown runs after the listener stops; the caller uses it to flush the
// final snapshot.
func Run(srv *http.Server, onShutdown func()) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("Foxer running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Printf("WARNING: Server is binding to all interfaces and may be accessible from the network")
	}

	var err error
	select {
	case err = <-errCh:
	case <-sigCh:
		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = srv.Shutdown(ctx)
	}

	if onShutdown != nil {
		onShutdown()
	}
	return err
}
