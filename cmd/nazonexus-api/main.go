// Command nazonexus-api runs the authentication and account service.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nazonexus/identity/auth"
	"github.com/nazonexus/identity/config"
	"github.com/nazonexus/identity/database"
	"github.com/nazonexus/identity/identity"
	"github.com/nazonexus/identity/keys"
	"github.com/nazonexus/identity/logger"
	"github.com/nazonexus/identity/password"
	"github.com/nazonexus/identity/server"
	"github.com/nazonexus/identity/token"
	"github.com/nazonexus/identity/user"
	"github.com/nazonexus/identity/version"
)

func main() {
	configFile := flag.String("config", "", "path to config file")
	envFile := flag.String("env-file", "", "path to .env file")
	flag.Parse()

	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		logger.NewDefault("nazonexus-api").Fatal("Failed to load configuration",
			logger.ErrorFields("config.load", err))
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	log.Info("Starting", logger.Fields(
		"environment", cfg.Environment,
		"version", version.Get().Version,
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, dialectorFor(cfg.Database.DSN), cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", logger.ErrorFields("database.open", err))
	}
	defer database.Close(db)

	store := user.NewGormStore(db)
	if err := store.Migrate(); err != nil {
		log.Fatal("Failed to migrate schema", logger.ErrorFields("database.migrate", err))
	}

	// A signing key that cannot be loaded or created is fatal: issuing
	// unverifiable tokens is worse than not starting.
	km := keys.NewManager(cfg.JWT.KeyPath, log)
	if err := km.Load(); err != nil {
		log.Fatal("Failed to load signing key", logger.ErrorFields("keys.load", err))
	}

	svc, err := auth.NewService(
		store,
		password.FromConfig(cfg.Password),
		token.NewCodec(cfg.JWT, km),
		identity.FromConfig(cfg.Cache),
		log,
	)
	if err != nil {
		log.Fatal("Failed to build auth service", logger.ErrorFields("auth.init", err))
	}

	srv := server.New(cfg.Server, svc, log, cfg.Debug)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("HTTP server failed", logger.ErrorFields("server.listen", err))
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Shutdown did not finish cleanly", logger.ErrorFields("server.shutdown", err))
		}
	}
	log.Info("Stopped")
}

// dialectorFor picks the GORM driver from the DSN. Postgres for anything that
// looks like a connection string, an embedded sqlite file otherwise.
func dialectorFor(dsn string) gorm.Dialector {
	switch {
	case dsn == "":
		return sqlite.Open("nazonexus.db")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"),
		strings.Contains(dsn, "host="):
		return postgres.Open(dsn)
	default:
		return sqlite.Open(dsn)
	}
}
