// Package read реализует HTTP-обработчик сводки по сборам для финансового
// секретаря. Период отчёта задаётся query-параметрами start_date и end_date,
// по умолчанию используется текущий календарный месяц.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-dues/internal/http/response"
	"github.com/magabrotheeeer/membership-dues/internal/lib/sl"
	"github.com/magabrotheeeer/membership-dues/internal/models"
)

// Handler обрабатывает запросы на построение сводки по сборам.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс построения сводки.
type Service interface {
	Compute(ctx context.Context, start, end *time.Time) (*models.SummaryReport, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводка по сборам
// @Description Возвращает собранные суммы, общий долг, месячную цель и разбивку по категориям.
// @Tags Summary
// @Produce  json
// @Param start_date query string false "Начало периода в формате 2006-01-02"
// @Param end_date query string false "Конец периода в формате 2006-01-02"
// @Success 200 {object} map[string]any "Сводка по сборам"
// @Failure 400 {object} response.ErrorResponse "Некорректная дата"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/summary [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.summary.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	start, ok := parseDate(w, r, log, "start_date")
	if !ok {
		return
	}
	end, ok := parseDate(w, r, log, "end_date")
	if !ok {
		return
	}

	report, err := h.service.Compute(r.Context(), start, end)
	if err != nil {
		log.Error("failed to compute summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute summary"))
		return
	}

	log.Info("success to compute summary",
		slog.String("start", report.Period.Start),
		slog.String("end", report.Period.End))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"summary": report,
	}))
}

// parseDate читает опциональный query-параметр с датой. Возвращает false,
// если дата задана, но некорректна; ответ с ошибкой уже записан.
func parseDate(w http.ResponseWriter, r *http.Request, log *slog.Logger, param string) (*time.Time, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return nil, true
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		log.Error("invalid date param", slog.String("param", param), sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid "+param+", expected format 2006-01-02"))
		return nil, false
	}
	return &parsed, true
}
