package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"imgforge/internal/core/port"
)

type Config struct {
	// MaxUploadBytes caps a single uploaded file.
	MaxUploadBytes int64
	// MaxMergeFiles caps how many files a merge request may carry.
	MaxMergeFiles int
	// RatePerMinute is the per-client request budget.
	RatePerMinute int
}

// Server is the HTTP adapter. It owns no business state; everything is
// delegated through the core ports.
type Server struct {
	store     port.ArtifactStore
	tools     port.ToolRegistry
	assembler port.DocumentAssembler
	issuer    port.TokenIssuer
	cfg       Config
	limiter   *clientLimiter
}

func NewServer(store port.ArtifactStore, tools port.ToolRegistry, assembler port.DocumentAssembler,
	issuer port.TokenIssuer, cfg Config) *Server {
	return &Server{
		store:     store,
		tools:     tools,
		assembler: assembler,
		issuer:    issuer,
		cfg:       cfg,
		limiter:   newClientLimiter(cfg.RatePerMinute),
	}
}

// Limiter exposes the rate limiter's idle-client sweep so the periodic
// reaper can prune it alongside the stores.
func (s *Server) Limiter() port.Reapable {
	return s.limiter
}

// Serve blocks until the context is cancelled or the listener fails.
func (s *Server) Serve(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	log.Info().Str("addr", addr).Msg("http server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("GET /api/status/{id}", s.handleStatus)
	mux.HandleFunc("GET /api/download/{id}", s.handleDownload)
	mux.HandleFunc("POST /api/process", s.handleProcess)
	mux.HandleFunc("POST /api/merge-to-pdf", s.handleMerge)
	mux.HandleFunc("POST /api/share", s.handleShare)
	mux.HandleFunc("GET /api/public/{id}", s.handlePublic)
	mux.HandleFunc("DELETE /api/file/{id}", s.handleDelete)

	return requestLogger(cors(s.limiter.middleware(mux)))
}
