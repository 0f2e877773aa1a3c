package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"smartpay/internal/log"
	"smartpay/internal/services"
)

// Options wires the server to the repository and policies.
type Options struct {
	Service  *services.PaymentService
	Reminder *services.Reminder
	// Access gates creation; nil selects services.DefaultFreeLimit.
	Access   *services.AccessPolicy
	Board    services.BoardOptions
	Logger   *log.Logger
	// RateLimit caps mutating requests per client per minute; 0 uses the default.
	RateLimit int
	// Clock returns the current time; defaults to time.Now.
	Clock func() time.Time
}

type Server struct {
	http.Server
	svc         *services.PaymentService
	reminder    *services.Reminder
	access      services.AccessPolicy
	board       services.BoardOptions
	rateLimiter *rateLimiter
	now         func() time.Time
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default(log.ComponentHTTP)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	access := services.NewAccessPolicy(services.DefaultFreeLimit)
	if opts.Access != nil {
		access = *opts.Access
	}
	if opts.Board.Labels.Overdue == nil {
		opts.Board = services.DefaultBoardOptions()
	}

	s := &Server{
		svc:         opts.Service,
		reminder:    opts.Reminder,
		access:      access,
		board:       opts.Board,
		rateLimiter: newRateLimiter(opts.RateLimit, time.Minute),
		now:         opts.Clock,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(log.Middleware(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)
	r.Get("/notification", s.handleNotification)

	r.Route("/payments", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/", s.handleCreate)
			r.Put("/{id}", s.handleUpdate)
			r.Post("/{id}/paid", s.handleMarkPaid)
			r.Delete("/{id}", s.handleDelete)
		})
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}
	return s
}

// Shutdown stops background goroutines and drains connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.stop()
	return s.Server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
