package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/ignatzorin/freelance-web/internal/api"
	"github.com/ignatzorin/freelance-web/internal/config"
	httpHandlers "github.com/ignatzorin/freelance-web/internal/http/handlers"
	httpRouter "github.com/ignatzorin/freelance-web/internal/http/router"
	"github.com/ignatzorin/freelance-web/internal/logger"
	"github.com/ignatzorin/freelance-web/internal/workspace"
)

// setup читает конфигурацию и настраивает логгер.
func setup(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("env"))
	if err != nil {
		return nil, fmt.Errorf("main: ошибка загрузки конфигурации: %w", err)
	}
	logger.Init(cfg.LogLevel, cfg.Env)
	return cfg, nil
}

// backendClient клиент без пользовательской сессии: health и probe.
func backendClient(cfg *config.Config) (*api.Client, error) {
	return api.NewClient(api.Options{
		BaseURL:        cfg.BackendURL,
		Timeout:        cfg.BackendTimeout,
		CSRFCookieName: cfg.CSRFCookieName,
		Log:            logger.Component("health"),
	})
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	backend, err := backendClient(cfg)
	if err != nil {
		return fmt.Errorf("main: клиент бэкенда: %w", err)
	}

	// Рабочие пространства браузерных сессий.
	opts := workspace.Options{
		BackendURL:     cfg.BackendURL,
		BackendTimeout: cfg.BackendTimeout,
		CSRFCookieName: cfg.CSRFCookieName,
		NoticeTTL:      cfg.NoticeTTL,
		SearchDebounce: cfg.SearchDebounce,
	}
	store := workspace.NewStore(cfg.SessionTTL, func(id string) (*workspace.Workspace, error) {
		return workspace.New(id, opts)
	})
	defer store.Close()
	tokens := workspace.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL)

	// HTTP хэндлеры.
	engine := httpRouter.SetupRouter(cfg, store, tokens,
		httpHandlers.NewPageHandler(),
		httpHandlers.NewSearchHandler(),
		httpHandlers.NewAuthHandler(store),
		httpHandlers.NewFormHandler(),
		httpHandlers.NewApplicationHandler(),
		httpHandlers.NewUIHandler(),
		httpHandlers.NewHealthHandler(backend),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	logger.Log.WithField("port", cfg.HTTPPort).WithField("backend", cfg.BackendURL).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("main: сервер завершился с ошибкой: %w", err)
	}
	return nil
}

func probeAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	backend, err := backendClient(cfg)
	if err != nil {
		return fmt.Errorf("main: клиент бэкенда: %w", err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, cfg.BackendTimeout)
	defer cancel()
	if err := httpHandlers.Probe(probeCtx, backend); err != nil {
		return fmt.Errorf("main: бэкенд %s недоступен: %w", cfg.BackendURL, err)
	}

	fmt.Fprintf(os.Stdout, "backend %s: healthy\n", cfg.BackendURL)
	return nil
}
