package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	logger_adapter "apt-trade-map/internal/adapters/logger"
	"apt-trade-map/internal/adapters/memcache"
	molit_adapter "apt-trade-map/internal/adapters/molit"
	"apt-trade-map/internal/adapters/refdata"
	"apt-trade-map/internal/adapters/rest"
	sessions_adapter "apt-trade-map/internal/adapters/sessions"
	vworld_adapter "apt-trade-map/internal/adapters/vworld"
	"apt-trade-map/internal/configs"
	"apt-trade-map/internal/core/port"
	"apt-trade-map/internal/core/usecase"

	"github.com/fluent/fluent-logger-golang/fluent"
)

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = logger_adapter.NewFluentClient(logger_adapter.FluentConfig{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName, // Используем имя приложения как префикс
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	// Создаем наш композитный логгер
	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. СОЗДАЕМ БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ С КОНТЕКСТОМ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. АДАПТЕРЫ ---
	regionCatalog, err := refdata.NewCatalog()
	if err != nil {
		appLogger.Error("Failed to load region catalog", err, nil)
		return nil, fmt.Errorf("failed to load region catalog: %w", err)
	}

	tradeSource := molit_adapter.NewClient(appConfig.Molit.URL, appConfig.Molit.ServiceKey, appConfig.Molit.PageSize)
	placeSearch := vworld_adapter.NewClient(appConfig.VWorld.URL, appConfig.VWorld.APIKey)
	geocodeCache := memcache.NewGeocodeCache()
	sessionStore := sessions_adapter.NewStore()
	appLogger.Info("All data and service adapters initialized.", nil)

	// --- 4. USE CASES ---
	geocoder := usecase.NewGeocodeService(placeSearch, geocodeCache,
		time.Duration(appConfig.Geocode.TimeoutMs)*time.Millisecond, appConfig.Geocode.BatchSize)
	placeMarkers := usecase.NewPlaceMarkersUseCase(geocoder, regionCatalog)

	searchTrades := usecase.NewSearchTradesUseCase(tradeSource, placeMarkers, regionCatalog, sessionStore)
	searchVisibleArea := usecase.NewSearchVisibleAreaUseCase(tradeSource, placeMarkers, regionCatalog,
		sessionStore, appConfig.Search.VisibleRegionLimit)

	openTab := usecase.NewOpenTabUseCase(sessionStore)
	closeTab := usecase.NewCloseTabUseCase(sessionStore)
	updateViewOptions := usecase.NewUpdateViewOptionsUseCase(sessionStore)
	resetSession := usecase.NewResetSessionUseCase(sessionStore, regionCatalog)
	getSessionView := usecase.NewGetSessionViewUseCase(sessionStore)

	// --- 5. REST API Server ---
	searchHandler := rest.NewSearchHandler(searchTrades, searchVisibleArea)
	sessionHandler := rest.NewSessionHandler(getSessionView, openTab, closeTab, updateViewOptions, resetSession)
	referenceHandler := rest.NewReferenceHandler(regionCatalog)

	apiServer := rest.NewServer(appConfig.Rest.PORT, appConfig.Rest.AllowedOrigins,
		searchHandler, sessionHandler, referenceHandler, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	application := &App{
		config:    appConfig,
		apiServer: apiServer,

		fluentClient: fluentClient,
		logger:       appLogger,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	// Создаем единый контекст для всего приложения для управления graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	case err := <-serverErrors:
		a.logger.Error("Server failed to start, shutting down", err, nil)
	}

	// Инициируем graceful shutdown, отменяя главный контекст
	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// Возвращаем безопасное значение по умолчанию и логируем предупреждение
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
