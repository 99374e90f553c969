// Package list реализует HTTP-обработчик списка взносов текущего участника.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-dues/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-dues/internal/http/response"
	"github.com/magabrotheeeer/membership-dues/internal/lib/sl"
	"github.com/magabrotheeeer/membership-dues/internal/models"
)

// Handler обрабатывает запросы на получение взносов текущего участника.
type Handler struct {
	log     *slog.Logger
	service Service
	balance BalanceService
}

// Service описывает интерфейс получения взносов участника.
type Service interface {
	ListOwn(ctx context.Context, userUID string, limit, offset int) ([]*models.ContributionInfo, error)
}

// BalanceService описывает интерфейс расчета текущего баланса участника.
type BalanceService interface {
	ComputeForUID(ctx context.Context, userUID string, asOf *time.Time) (*models.BalanceReport, error)
}

// New создает новый Handler с переданным логгером и сервисами.
func New(log *slog.Logger, service Service, balance BalanceService) *Handler {
	return &Handler{
		log:     log,
		service: service,
		balance: balance,
	}
}

// ServeHTTP godoc
// @Summary Список взносов текущего участника
// @Description Возвращает взносы участника от новых к старым с пагинацией и его текущий баланс.
// @Tags Contributions
// @Produce  json
// @Param limit query int false "Размер страницы (по умолчанию 10)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} map[string]any "Список взносов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /contributions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contribution.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.ListOwn(r.Context(), userUID, limit, offset)
	if err != nil {
		log.Error("failed to list contributions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list contributions"))
		return
	}

	balance, err := h.balance.ComputeForUID(r.Context(), userUID, nil)
	if err != nil {
		log.Error("failed to compute balance", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to compute balance"))
		return
	}

	log.Info("list contributions", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count":    len(res),
		"contributions": res,
		"balance":       balance,
	}))
}
