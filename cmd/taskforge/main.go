// Package main provides the entry point for the TaskForge server, a local
// developer dashboard that authenticates to GitHub via the OAuth device
// grant and relays chat instructions to a local coding-agent CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/taskforge-dev/taskforge/internal/api"
	"github.com/taskforge-dev/taskforge/internal/api/handlers"
	githubauth "github.com/taskforge-dev/taskforge/internal/auth/github"
	"github.com/taskforge-dev/taskforge/internal/buildinfo"
	"github.com/taskforge-dev/taskforge/internal/cli"
	"github.com/taskforge-dev/taskforge/internal/config"
	"github.com/taskforge-dev/taskforge/internal/executor"
	"github.com/taskforge-dev/taskforge/internal/logging"
	"github.com/taskforge-dev/taskforge/internal/reporting"
	"github.com/taskforge-dev/taskforge/internal/store"
	"github.com/taskforge-dev/taskforge/internal/telemetry"
)

// init initializes the shared logger setup.
func init() {
	logging.SetupBaseLogger()
}

func main() {
	var configPath string
	var portOverride int
	var githubLogin bool
	var noBrowser bool
	var showVersion bool

	flag.StringVar(&configPath, "config", "config.yaml", "Configuration file path")
	flag.IntVar(&portOverride, "port", 0, "Override the configured server port")
	flag.BoolVar(&githubLogin, "github-login", false, "Log in to GitHub via the device flow and exit")
	flag.BoolVar(&noBrowser, "no-browser", false, "Don't open the browser automatically during login")
	flag.BoolVar(&showVersion, "version", false, "Show version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("TaskForge %s (%s, built %s)\n", buildinfo.Version, buildinfo.Commit, buildinfo.BuildDate)
		return
	}

	if err := godotenv.Load(); err == nil {
		log.Debug("loaded environment from .env")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if portOverride > 0 {
		cfg.Port = portOverride
	}
	logging.ConfigureFileOutput(cfg.Logging.File, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups)

	st := store.New(cfg, configPath)
	gh := githubauth.NewClient(cfg)
	tracker := telemetry.NewTracker(cfg)
	scope := reporting.NewScope(st)
	scope.Install()
	finalizer := githubauth.NewFinalizer(st, scope, tracker)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if githubLogin {
		if err = cli.RunGitHubLogin(ctx, gh, finalizer, !noBrowser); err != nil {
			log.Fatalf("github login failed: %v", err)
		}
		return
	}

	if err = st.Watch(ctx); err != nil {
		log.Warnf("config hot-reload disabled: %v", err)
	}

	handler := handlers.New(st, gh, finalizer, executor.New(cfg))
	server := api.NewServer(st, handler, scope)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			log.Errorf("shutdown error: %v", errShutdown)
		}
	}()

	log.Infof("TaskForge %s listening on :%d", buildinfo.Version, cfg.Port)
	if err = server.Start(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
