// Package membershipdues собирает приложение учёта членских взносов:
// подключение к базе данных и Redis, миграции, сервисы и HTTP-сервер.
package membershipdues

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/membership-dues/internal/cache"
	"github.com/magabrotheeeer/membership-dues/internal/config"
	"github.com/magabrotheeeer/membership-dues/internal/lib/jwt"
	"github.com/magabrotheeeer/membership-dues/internal/migrations"
	authservice "github.com/magabrotheeeer/membership-dues/internal/services/auth"
	balanceservice "github.com/magabrotheeeer/membership-dues/internal/services/balance"
	contributionservice "github.com/magabrotheeeer/membership-dues/internal/services/contribution"
	dashboardservice "github.com/magabrotheeeer/membership-dues/internal/services/dashboard"
	summaryservice "github.com/magabrotheeeer/membership-dues/internal/services/summary"
	"github.com/magabrotheeeer/membership-dues/internal/storage"
)

// App инкапсулирует HTTP-сервер и подключения приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
}

// New создает приложение: открывает подключения, прогоняет миграции,
// собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	balanceService := balanceservice.NewBalanceService(db, cacheRedis, logger)
	summaryService := summaryservice.NewSummaryService(db, balanceService, cacheRedis, logger)
	contributionService := contributionservice.NewContributionService(db, cacheRedis, logger)
	dashboardService := dashboardservice.NewDashboardService(db, balanceService, summaryService, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, &Services{
		Auth:         authService,
		Balance:      balanceService,
		Summary:      summaryService,
		Contribution: contributionService,
		Dashboard:    dashboardService,
		Storage:      db,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
