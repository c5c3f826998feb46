// Package main implements a standalone mock admin API for trying the console
// and for end-to-end runs.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"github.com/sipico/staff-console/internal/logging"
	"github.com/sipico/staff-console/internal/metrics"
	"github.com/sipico/staff-console/internal/testutil/mockapi"
)

const defaultAddr = ":8000"

// getAddr returns the listen address from MOCKAPI_ADDR or the default.
func getAddr() string {
	addr := os.Getenv("MOCKAPI_ADDR")
	if addr == "" {
		addr = defaultAddr
	}
	return addr
}

// getLatency parses MOCKAPI_LATENCY, e.g. "250ms". Empty means none.
func getLatency() (time.Duration, error) {
	raw := os.Getenv("MOCKAPI_LATENCY")
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid MOCKAPI_LATENCY %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("MOCKAPI_LATENCY must not be negative, got %s", d)
	}
	return d, nil
}

// createServer creates a mock API seeded with the sample records.
func createServer(logger *slog.Logger, latency time.Duration) *mockapi.Server {
	return mockapi.NewServer(
		mockapi.WithLogger(logger),
		mockapi.WithLatency(latency),
		mockapi.WithBcryptCost(bcrypt.DefaultCost),
	)
}

// createHandler mounts the API and the metrics endpoint side by side.
func createHandler(server *mockapi.Server, reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	mux.Handle("/", server.Handler())
	return mux
}

// createHTTPServer creates an http.Server with the given address and handler.
func createHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// setupShutdownHandler sets up graceful shutdown handling.
func setupShutdownHandler(httpServer *http.Server, logger *slog.Logger) <-chan bool {
	done := make(chan bool)
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("shutting down mock API")
		//nolint:errcheck
		httpServer.Close()
		close(done)
	}()
	return done
}

// healthURL is the state endpoint probed by the health subcommand.
func healthURL(addr string) string {
	host := addr
	if len(host) > 0 && host[0] == ':' {
		host = "localhost" + host
	}
	return "http://" + host + "/admin/state"
}

// runHealthCheck performs an HTTP health check against the local server.
// Returns 0 on success, 1 on failure.
func runHealthCheck() int {
	return doHealthCheck(healthURL(getAddr()))
}

// doHealthCheck performs the actual health check HTTP request.
func doHealthCheck(url string) int {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return 1
	}
	//nolint:errcheck // Response body close errors are unrecoverable in health check
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 1
	}
	return 0
}

func run() error {
	level, err := logging.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return err
	}
	logLevel := new(slog.LevelVar)
	logLevel.Set(level)
	logger := logging.New(os.Stderr, logLevel)

	latency, err := getLatency()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	if err := metrics.Init(reg, "mockapi"); err != nil {
		return err
	}

	addr := getAddr()
	server := createServer(logger, latency)
	httpServer := createHTTPServer(addr, createHandler(server, reg))
	done := setupShutdownHandler(httpServer, logger)

	logger.Info("mock API listening", "addr", addr, "latency", latency.String(),
		"admin_email", mockapi.AdminEmail)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	<-done
	logger.Info("mock API stopped")
	return nil
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "health" {
		os.Exit(runHealthCheck())
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mockapi: %v\n", err)
		os.Exit(1)
	}
}
