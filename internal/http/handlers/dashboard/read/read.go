// Package read реализует HTTP-обработчик главной страницы пользователя.
//
// Для обычного участника возвращаются его баланс и последние взносы,
// для финансового секретаря — дополнительно сводка, последние взносы всех
// участников и список участников без взноса в текущем месяце.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-dues/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-dues/internal/http/response"
	"github.com/magabrotheeeer/membership-dues/internal/lib/sl"
	"github.com/magabrotheeeer/membership-dues/internal/models"
)

// Handler обрабатывает запросы главной страницы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс сборки данных главной страницы.
type Service interface {
	Compute(ctx context.Context, userUID string, isSecretary bool) (*models.DashboardReport, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Главная страница пользователя
// @Description Возвращает баланс и последние взносы. Финансовый секретарь дополнительно получает сводку и список должников.
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} map[string]any "Данные главной страницы"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	report, err := h.service.Compute(r.Context(), userUID, role == models.RoleFinancialSecretary)
	if err != nil {
		log.Error("failed to compute dashboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build dashboard"))
		return
	}

	log.Info("success to build dashboard", slog.Bool("admin", report.Admin != nil))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"dashboard": report,
	}))
}
