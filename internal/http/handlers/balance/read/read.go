// Package read реализует HTTP-обработчик получения баланса текущего участника.
//
// Handler извлекает UID пользователя из контекста, принимает опциональный
// query-параметр as_of (дата отчёта) и возвращает отчёт о состоянии взносов.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-dues/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-dues/internal/http/response"
	"github.com/magabrotheeeer/membership-dues/internal/lib/sl"
	"github.com/magabrotheeeer/membership-dues/internal/models"
)

// Handler обрабатывает запросы на получение отчёта о балансе участника.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис расчёта баланса
}

// Service описывает интерфейс расчёта баланса участника.
type Service interface {
	ComputeForUID(ctx context.Context, userUID string, asOf *time.Time) (*models.BalanceReport, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Баланс текущего участника
// @Description Возвращает отчёт о состоянии взносов: ожидаемая сумма, оплачено, долг и статус.
// @Tags Balance
// @Produce  json
// @Param as_of query string false "Дата отчёта в формате 2006-01-02"
// @Success 200 {object} map[string]any "Отчёт о балансе"
// @Failure 400 {object} response.ErrorResponse "Некорректная дата"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /balance [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.balance.read"

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

	var asOf *time.Time
	if asOfStr := r.URL.Query().Get("as_of"); asOfStr != "" {
		parsed, err := time.Parse("2006-01-02", asOfStr)
		if err != nil {
			log.Error("invalid as_of date", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid as_of date, expected format 2006-01-02"))
			return
		}
		asOf = &parsed
	}

	report, err := h.service.ComputeForUID(r.Context(), userUID, asOf)
	if err != nil {
		log.Error("failed to compute balance", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute balance"))
		return
	}

	log.Info("success to compute balance", slog.String("status", report.Status))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"balance": report,
	}))
}
