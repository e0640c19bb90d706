// Package http serves the expense dashboard: an HTML page backed by a JSON
// API over the aggregated statement data.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/DanielSkala/gold-price-scraper/internal/cache"
	"github.com/DanielSkala/gold-price-scraper/internal/core"
	appweb "github.com/DanielSkala/gold-price-scraper/web"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

const txCacheKey = "all"

type Server struct {
	http.Server
	source      TransactionSource
	rules       core.Ruleset
	templates   *template.Template
	rateLimiter *rateLimiter

	// Short-TTL cache in front of the transaction source. Derived data is
	// recomputed per request; only the source read is cached.
	txCache *cache.LRU[[]core.Transaction]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, source TransactionSource, rules core.Ruleset) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		source:           source,
		rules:            rules,
		rateLimiter:      newRateLimiter(),
		txCache:          cache.New[[]core.Transaction](4, time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/{$}", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("GET /api/monthly-data", s.withSecurityHeaders(s.handleMonthlyData))
	mux.HandleFunc("GET /api/category-totals", s.withSecurityHeaders(s.handleCategoryTotals))
	mux.HandleFunc("GET /api/category-averages", s.withSecurityHeaders(s.handleCategoryAverages))
	mux.HandleFunc("GET /api/trends", s.withSecurityHeaders(s.handleTrends))
	mux.HandleFunc("GET /api/transactions", s.withSecurityHeaders(s.handleTransactions))
	mux.HandleFunc("GET /api/categories", s.withSecurityHeaders(s.handleCategories))
	mux.HandleFunc("GET /api/current-month-details", s.withSecurityHeaders(s.handleMonthDetails))
	mux.HandleFunc("GET /api/current-month-details/{month}", s.withSecurityHeaders(s.handleMonthDetails))
	mux.HandleFunc("GET /api/category-transactions/{category}", s.withSecurityHeaders(s.handleCategoryTransactions))
	mux.HandleFunc("GET /api/current-month-category-transactions/{category}", s.withSecurityHeaders(s.handleMonthCategoryTransactions))
	mux.HandleFunc("GET /api/current-month-category-transactions/{category}/{month}", s.withSecurityHeaders(s.handleMonthCategoryTransactions))

	return s
}

// startCacheCleanup runs periodic cleanup of the transaction cache.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.txCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		if !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://cdn.jsdelivr.net 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once the transaction source answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if _, err := s.getTransactions(ctx); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		http.Error(w, "transaction source unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	data := struct {
		Categories []string
	}{
		Categories: s.rules.Categories(),
	}
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// getTransactions reads from the source through the short-TTL cache.
func (s *Server) getTransactions(ctx context.Context) ([]core.Transaction, error) {
	if txs, found := s.txCache.Get(txCacheKey); found {
		slog.DebugContext(ctx, "Transaction cache hit", "count", len(txs))
		return txs, nil
	}

	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	txs, err := s.source.ListTransactions(cctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	s.txCache.Set(txCacheKey, txs)
	slog.DebugContext(ctx, "Transactions cached", "count", len(txs))
	return txs, nil
}

// summaries loads transactions and aggregates them per request.
func (s *Server) summaries(ctx context.Context) ([]core.MonthlySummary, []core.Transaction, error) {
	txs, err := s.getTransactions(ctx)
	if err != nil {
		return nil, nil, err
	}
	return core.Aggregate(txs), txs, nil
}
