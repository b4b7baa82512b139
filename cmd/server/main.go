package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"datadoc-go/internal/config"
	"datadoc-go/internal/handler"
	"datadoc-go/internal/service"
	"datadoc-go/pkg/logger"
)

type Application struct {
	configPath string
	debug      bool
}

func main() {
	// A missing .env is fine; real environment values win anyway.
	_ = godotenv.Load()

	app := &Application{}
	flag.StringVar(&app.configPath, "config", "config/datadoc.yaml", "Configuration file path")
	flag.BoolVar(&app.debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if err := app.Run(); err != nil {
		logger.GetLogger().WithError(err).Error("Catalog server failed")
		os.Exit(1)
	}
}

func (app *Application) Run() error {
	cfg, err := config.NewManager().Load(app.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Logger.Level
	if app.debug {
		level = "debug"
	}
	logger.SetLogger(logger.New(logger.Config{
		Level:      level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
	}))
	log := logger.GetLogger().WithField("component", "server")

	store := service.NewStore()
	if err := store.LoadArtifact(cfg.Output.JSONPath); err != nil {
		return fmt.Errorf("cannot serve without a run artifact: %w", err)
	}

	fiberApp := fiber.New(fiber.Config{
		AppName:               "datadoc-go",
		DisableStartupMessage: true,
	})
	handler.NewController(store, cfg.Output.CSVPath).RegisterRoutes(fiberApp)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errChan := make(chan error, 1)
	go func() {
		errChan <- fiberApp.Listen(addr)
	}()

	log.WithFields(map[string]interface{}{
		"addr":    addr,
		"run_id":  store.RunID(),
		"records": store.Count(),
	}).Info("Catalog server listening")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server stopped: %w", err)
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	if err := fiberApp.ShutdownWithTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("Catalog server stopped")
	return nil
}
