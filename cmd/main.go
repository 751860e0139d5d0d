// @title           ColdSpec quality-check API
// @version         1.0
// @description     Temperature readings, non-conformance reports and SKU lookups for cold-chain quality checks.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "coldspec/docs"
	"coldspec/internal/config"
	"coldspec/internal/csvtable"
	"coldspec/internal/handlers"
	"coldspec/internal/logger"
	"coldspec/internal/repository"
	"coldspec/internal/repository/db"
	"coldspec/internal/server"
	"coldspec/internal/service"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var configDir string

// rootCmd runs the HTTP server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:           "coldspec",
	Short:         "Cold-chain quality-check service",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory holding config.yml (default ./configs)")
	rootCmd.AddCommand(serveCmd, readingsCmd, lookupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds everything a command needs once config is loaded.
type app struct {
	cfg      config.Config
	log      *logger.Logger
	db       *sql.DB
	services *service.Service
}

// bootstrap loads config, logger, DB and wires repositories into services.
func bootstrap() (*app, error) {
	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}
	cfg, found, err := config.Load(paths...)
	if err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	// init logger
	log := logger.Get(cfg.LogLevel)
	if !found {
		log.Warnw("config file not found; using defaults and environment")
	}

	// open DB
	conn, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init sqlite: %w", err)
	}

	// wire dependencies
	repos := repository.NewRepository(conn, csvtable.NewStore(nil), repository.Files{
		Users:       cfg.UsersFile,
		Skus:        cfg.SkusFile,
		Temperature: cfg.TemperatureFile,
		NC:          cfg.NCFile,
	})
	services := service.NewService(repos, service.Options{
		SigningKey: cfg.SigningKey,
		TokenTTL:   cfg.TokenTTL,
	}, log)

	return &app{cfg: cfg, log: log, db: conn, services: services}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.log.Errorw("failed to close sqlite", "err", err)
	}
	_ = a.log.Sync()
}

func runServe() error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.SigningKey == "" {
		a.log.Warnw("auth.signing_key not set; using built-in development key")
	}

	apiHandler := handlers.NewHandler(a.services, a.log,
		handlers.WithChartWindow(a.cfg.ChartWindow),
		handlers.WithStreamInterval(a.cfg.StreamInterval),
	)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// drop expired sessions
	go a.services.Sweeper.Run(ctx, a.cfg.SweepInterval)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, a.cfg.Port, apiHandler, a.log)
	a.log.Infow("listening", "port", a.cfg.Port, "users", a.cfg.UsersFile, "skus", a.cfg.SkusFile)

	// graceful shutdown
	waitForShutdown(cancel, srv, a.log)
	return nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
