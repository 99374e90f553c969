// Package membershipdues предоставляет маршруты приложения.
package membershipdues

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/membership-dues/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/membership-dues/internal/http/handlers/auth/register"
	balanceread "github.com/magabrotheeeer/membership-dues/internal/http/handlers/balance/read"
	categorylist "github.com/magabrotheeeer/membership-dues/internal/http/handlers/category/list"
	contributioncreate "github.com/magabrotheeeer/membership-dues/internal/http/handlers/contribution/create"
	contributionlist "github.com/magabrotheeeer/membership-dues/internal/http/handlers/contribution/list"
	contributionlistall "github.com/magabrotheeeer/membership-dues/internal/http/handlers/contribution/listall"
	contributionread "github.com/magabrotheeeer/membership-dues/internal/http/handlers/contribution/read"
	contributionremove "github.com/magabrotheeeer/membership-dues/internal/http/handlers/contribution/remove"
	dashboardread "github.com/magabrotheeeer/membership-dues/internal/http/handlers/dashboard/read"
	"github.com/magabrotheeeer/membership-dues/internal/http/handlers/health"
	memberlist "github.com/magabrotheeeer/membership-dues/internal/http/handlers/member/list"
	summaryread "github.com/magabrotheeeer/membership-dues/internal/http/handlers/summary/read"
	"github.com/magabrotheeeer/membership-dues/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-dues/internal/models"
	authservice "github.com/magabrotheeeer/membership-dues/internal/services/auth"
	balanceservice "github.com/magabrotheeeer/membership-dues/internal/services/balance"
	contributionservice "github.com/magabrotheeeer/membership-dues/internal/services/contribution"
	dashboardservice "github.com/magabrotheeeer/membership-dues/internal/services/dashboard"
	summaryservice "github.com/magabrotheeeer/membership-dues/internal/services/summary"
	"github.com/magabrotheeeer/membership-dues/internal/storage"
)

// Services объединяет сервисы, которыми пользуются маршруты.
type Services struct {
	Auth         *authservice.AuthService
	Balance      *balanceservice.BalanceService
	Summary      *summaryservice.SummaryService
	Contribution *contributionservice.ContributionService
	Dashboard    *dashboardservice.DashboardService
	Storage      *storage.Storage
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/dashboard", dashboardread.New(logger, s.Dashboard).ServeHTTP)
			r.Get("/balance", balanceread.New(logger, s.Balance).ServeHTTP)
			r.Get("/contributions", contributionlist.New(logger, s.Contribution, s.Balance).ServeHTTP)
			r.Get("/contributions/{id}", contributionread.New(logger, s.Contribution).ServeHTTP)

			// Операции финансового секретаря
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRoleMiddleware(logger, models.RoleFinancialSecretary))

				r.Post("/admin/contributions", contributioncreate.New(logger, s.Contribution).ServeHTTP)
				r.Get("/admin/contributions", contributionlistall.New(logger, s.Contribution).ServeHTTP)
				r.Delete("/admin/contributions/{id}", contributionremove.New(logger, s.Contribution).ServeHTTP)
				r.Get("/admin/summary", summaryread.New(logger, s.Summary).ServeHTTP)
				r.Get("/admin/members", memberlist.New(logger, s.Balance).ServeHTTP)
				r.Get("/admin/categories", categorylist.New(logger, s.Storage).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
