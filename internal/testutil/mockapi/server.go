package mockapi

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/sipico/staff-console/internal/logging"
	"github.com/sipico/staff-console/internal/metrics"
	"github.com/sipico/staff-console/internal/middleware"
)

// Server is a fake of the remote admin API.
type Server struct {
	state      *State
	router     chi.Router
	httpServer *httptest.Server

	logger     *slog.Logger
	latency    time.Duration
	bcryptCost int
	emptyData  bool
}

// Option configures a Server.
type Option func(*Server)

// WithLatency delays every API response by d, as a slow network would.
func WithLatency(d time.Duration) Option {
	return func(s *Server) {
		s.latency = d
	}
}

// WithLogger enables debug request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithBcryptCost sets the password hashing cost. Tests keep the default
// minimum; a standalone server should use bcrypt.DefaultCost.
func WithBcryptCost(cost int) Option {
	return func(s *Server) {
		s.bcryptCost = cost
	}
}

// WithEmptyData seeds only the administrator, without sample records.
func WithEmptyData() Option {
	return func(s *Server) {
		s.emptyData = true
	}
}

// NewServer builds a server without listening. Serve it through Handler.
func NewServer(opts ...Option) *Server {
	s := &Server{
		bcryptCost: bcrypt.MinCost,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state = NewState()
	s.seed(s.state)
	s.router = s.routes()

	return s
}

// New starts a server on a loopback httptest listener.
func New(opts ...Option) *Server {
	s := NewServer(opts...)
	s.httpServer = httptest.NewServer(s.router)
	return s
}

// URL returns the base URL of a server started with New.
func (s *Server) URL() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.URL
}

// Client returns an HTTP client for a server started with New.
func (s *Server) Client() *http.Client {
	if s.httpServer == nil {
		return http.DefaultClient
	}
	return s.httpServer.Client()
}

// Close shuts down a server started with New.
func (s *Server) Close() {
	if s.httpServer != nil {
		s.httpServer.Close()
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(metrics.Middleware)
	r.Use(middleware.MaxBodySize(middleware.DefaultMaxBodyBytes))
	if s.logger != nil {
		r.Use(middleware.HTTPLogging(s.logger, logging.SensitiveFields))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Test-control endpoints bypass latency, failure injection and recording.
	r.Route("/admin", func(r chi.Router) {
		r.Get("/state", s.handleAdminState)
		r.Delete("/reset", s.handleAdminReset)
		r.Post("/next-error", s.handleAdminNextError)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.recordRequests)
		r.Use(s.simulateLatency)
		r.Use(s.injectFailures)

		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/auth/me", s.handleMe)

			mountCollection(r, s, s.usersCollection())
			mountCollection(r, s, blogsCollection())
			mountCollection(r, s, portfoliosCollection())
			mountCollection(r, s, testimonialsCollection())
		})
	})

	return r
}

// recordRequests keeps a copy of every API request for assertions.
func (s *Server) recordRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			var err error
			body, err = io.ReadAll(r.Body)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
					return
				}
				writeError(w, http.StatusBadRequest, "Failed to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.state.mu.Lock()
		s.state.requests = append(s.state.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get(middleware.RequestIDHeader),
			Body:          body,
		})
		s.state.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// simulateLatency delays the request, giving up early if the client goes away.
func (s *Server) simulateLatency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.state.mu.RLock()
		latency := s.latency
		s.state.mu.RUnlock()

		if latency > 0 {
			timer := time.NewTimer(latency)
			select {
			case <-timer.C:
			case <-r.Context().Done():
				timer.Stop()
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// injectFailures answers with the scheduled error while one is pending.
func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.state.mu.Lock()
		fi := &s.state.failureInjection
		if fi.remaining > 0 {
			fi.remaining--
			status, message := fi.status, fi.message
			s.state.mu.Unlock()
			if message == "" {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(status)
				return
			}
			writeError(w, status, message)
			return
		}
		s.state.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func mustHash(password string, cost int) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		panic("mockapi: hashing seed password: " + err.Error())
	}
	return hash
}
