// Package main provides the entry point for the staff console.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/sipico/staff-console/internal/api"
	"github.com/sipico/staff-console/internal/auth"
	"github.com/sipico/staff-console/internal/config"
	"github.com/sipico/staff-console/internal/console"
	"github.com/sipico/staff-console/internal/logging"
	"github.com/sipico/staff-console/internal/metrics"
	"github.com/sipico/staff-console/internal/storage"
	"github.com/sipico/staff-console/internal/tui"
)

var version = "0.1.0"

// flags are the command-line overrides.
type flags struct {
	apiURL      string
	logLevel    string
	statePath   string
	logFile     string
	logout      bool
	showVersion bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, error) {
	f := &flags{}
	fs := pflag.NewFlagSet("staff-console", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.apiURL, "api-url", "", "base URL of the admin API (overrides API_URL)")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	fs.StringVar(&f.statePath, "state", "", "SQLite file holding the signed-in credential (overrides STATE_PATH)")
	fs.StringVar(&f.logFile, "log-file", "", "log destination (overrides LOG_FILE)")
	fs.BoolVar(&f.logout, "logout", false, "forget the stored credential and exit")
	fs.BoolVar(&f.showVersion, "version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// apply copies the flags that were given onto cfg.
func (f *flags) apply(cfg *config.Config) {
	if f.apiURL != "" {
		cfg.APIURL = f.apiURL
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFile != "" {
		cfg.SetLogFile(f.logFile)
	}
	if f.statePath != "" {
		cfg.SetStatePath(f.statePath)
	}
}

// components holds the wired application.
type components struct {
	logger    *slog.Logger
	logLevel  *slog.LevelVar
	store     *storage.SQLiteStorage
	client    *api.Client
	session   *auth.Session
	notifier  *console.Notifier
	confirmer *console.ChannelConfirmer
	screens   map[string]console.Screen
	registry  *prometheus.Registry
}

// initializeComponents builds everything the console needs from cfg.
// Logs go to logOut.
func initializeComponents(cfg *config.Config, logOut io.Writer) (*components, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logLevel := new(slog.LevelVar)
	logLevel.Set(level)
	logger := logging.New(logOut, logLevel)

	registry := prometheus.NewRegistry()
	if err := metrics.Init(registry, version); err != nil {
		return nil, fmt.Errorf("metrics initialization failed: %w", err)
	}

	if cfg.StatePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.StatePath), 0o700); err != nil {
			return nil, fmt.Errorf("storage initialization failed: %w", err)
		}
	}
	store, err := storage.New(cfg.StatePath, cfg.TokenKey)
	if err != nil {
		return nil, fmt.Errorf("storage initialization failed: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		//nolint:errcheck
		store.Close()
		return nil, fmt.Errorf("storage initialization failed: %w", err)
	}

	// The session authenticates with its own client so that the credential it
	// verifies on restore is never taken from itself.
	authClient := api.NewClient(cfg.APIURL,
		api.WithHTTPClient(&http.Client{Transport: api.NewTransport(logger, nil)}),
		api.WithLogger(logger))
	session := auth.NewSession(authClient, store, logger)

	client := api.NewClient(cfg.APIURL,
		api.WithHTTPClient(&http.Client{Transport: api.NewTransport(logger, nil)}),
		api.WithTokenSource(session),
		api.WithLogger(logger))

	notifier := console.NewNotifier(cfg.NoticeTTL)
	confirmer := console.NewChannelConfirmer()
	screens := console.NewScreens(client, session,
		console.WithNotifier(notifier),
		console.WithConfirmer(confirmer),
		console.WithLogger(logger))

	return &components{
		logger:    logger,
		logLevel:  logLevel,
		store:     store,
		client:    client,
		session:   session,
		notifier:  notifier,
		confirmer: confirmer,
		screens:   screens,
		registry:  registry,
	}, nil
}

// startMetricsServer serves /metrics on addr until ctx is done.
// logout ends the session and fails when the credential is still on disk,
// so the next start would not silently sign back in.
func logout(ctx context.Context, session *auth.Session, store storage.TokenStore, stdout io.Writer) error {
	session.Logout(ctx)
	if _, err := store.LoadToken(ctx); !errors.Is(err, storage.ErrNotFound) {
		if err == nil {
			err = errors.New("credential still present")
		}
		return fmt.Errorf("stored credential could not be removed: %w", err)
	}
	fmt.Fprintln(stdout, "Signed out.")
	return nil
}

func startMetricsServer(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		//nolint:errcheck
		srv.Close()
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())
	return ln.Addr(), nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// run is separated from main() to enable testing.
func run(args []string, stdin *os.File, stdout, stderr io.Writer) error {
	f, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if f.showVersion {
		fmt.Fprintf(stdout, "staff-console %s\n", version)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logFile, err := openLogFile(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() {
		//nolint:errcheck
		logFile.Close()
	}()

	c, err := initializeComponents(cfg, logFile)
	if err != nil {
		return err
	}
	defer func() {
		//nolint:errcheck
		c.store.Close()
	}()
	c.logger.Info("staff console starting", "version", version, "api_url", cfg.APIURL, "encrypted_state", cfg.TokenKey != nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if f.logout {
		return logout(ctx, c.session, c.store, stdout)
	}

	if !term.IsTerminal(int(stdin.Fd())) {
		return errors.New("staff-console needs an interactive terminal")
	}

	if cfg.MetricsListenAddr != "" {
		if _, err := startMetricsServer(ctx, cfg.MetricsListenAddr, c.registry, c.logger); err != nil {
			return err
		}
	}

	model := tui.New(ctx, tui.Config{
		Session:   c.session,
		Screens:   c.screens,
		Notifier:  c.notifier,
		Confirmer: c.confirmer,
		Logger:    c.logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithInput(stdin))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("console: %w", err)
	}
	c.logger.Info("staff console stopped")
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "staff-console: %v\n", err)
		os.Exit(1)
	}
}
