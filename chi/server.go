// Package chi serves crawls over HTTP using the go-chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/pagesnap"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Defaults for Server options.
const (
	DefaultAddr            = ":10000"
	DefaultCrawlRate       = rate.Limit(1.0 / 10)
	DefaultCrawlBurst      = 2
	DefaultShutdownTimeout = 10 * time.Second
)

// ReadyMessage is the message returned by the root endpoint.
const ReadyMessage = "Crawler API is ready!"

// Crawler crawls an explicit list of URLs.
type Crawler interface {
	Crawl(ctx context.Context, urls []string) (pagesnap.Snapshot, error)
}

// Server exposes a Crawler over HTTP.
type Server struct {
	addr            string
	crawler         Crawler
	limiter         *ClientLimiter
	logger          *slog.Logger
	shutdownTimeout time.Duration
	router          *chi.Mux
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. Defaults to DefaultAddr.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLogger sets the request and lifecycle logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCrawlRate limits how often each client may trigger a crawl.
func WithCrawlRate(r rate.Limit, burst int) Option {
	return func(s *Server) {
		s.limiter = NewClientLimiter(r, burst)
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

// NewServer creates a Server that crawls with c.
func NewServer(c Crawler, opts ...Option) *Server {
	s := &Server{
		addr:            DefaultAddr,
		crawler:         c,
		limiter:         NewClientLimiter(DefaultCrawlRate, DefaultCrawlBurst),
		logger:          slog.New(slog.DiscardHandler),
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleHome)
	r.Get("/run-crawl", s.handleRunCrawl)
	s.router = r
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("http server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type response struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Count    *int   `json:"count,omitempty"`
	URLCount *int   `json:"url_count,omitempty"`
	Data     any    `json:"data,omitempty"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Status: "running", Message: ReadyMessage})
}

func (s *Server) handleRunCrawl(w http.ResponseWriter, r *http.Request) {
	urls := pagesnap.SplitURLs(r.URL.Query().Get("urls"))
	if len(urls) == 0 {
		writeError(w, http.StatusBadRequest, "urls query parameter is required")
		return
	}
	if !s.limiter.Allow(clientKey(r)) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	snap, err := s.crawler.Crawl(r.Context(), urls)
	if err != nil {
		s.logger.Error("crawl failed", "urls", len(urls), "err", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	n := len(snap)
	if snap == nil {
		snap = pagesnap.Snapshot{}
	}
	writeJSON(w, http.StatusOK, response{Status: "success", Count: &n, URLCount: &n, Data: snap})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, response{Status: "error", Message: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// clientKey identifies the caller for rate limiting.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func(begin time.Time) {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(begin),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}(time.Now())
			next.ServeHTTP(ww, r)
		})
	}
}
