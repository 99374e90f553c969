// Package listall реализует HTTP-обработчик административного списка взносов
// всех участников с фильтрами по категории и участнику.
package listall

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/membership-dues/internal/http/response"
	"github.com/magabrotheeeer/membership-dues/internal/lib/sl"
	"github.com/magabrotheeeer/membership-dues/internal/models"
)

// Handler обрабатывает запросы на получение взносов всех участников.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения взносов всех участников.
type Service interface {
	ListAll(ctx context.Context, filter models.ContributionFilter, limit, offset int) ([]*models.ContributionInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список взносов всех участников
// @Description Возвращает взносы всех участников от новых к старым с фильтрами и пагинацией.
// @Tags Contributions
// @Produce  json
// @Param category_id query int false "Фильтр по категории"
// @Param member_uid query string false "Фильтр по участнику"
// @Param limit query int false "Размер страницы (по умолчанию 25)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} map[string]any "Список взносов"
// @Failure 400 {object} response.ErrorResponse "Некорректный фильтр"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/contributions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contribution.listall"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 25
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	var filter models.ContributionFilter
	if categoryStr := r.URL.Query().Get("category_id"); categoryStr != "" {
		categoryID, err := strconv.Atoi(categoryStr)
		if err != nil {
			log.Error("invalid category_id filter", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid category_id"))
			return
		}
		filter.CategoryID = &categoryID
	}
	if memberUID := r.URL.Query().Get("member_uid"); memberUID != "" {
		if _, err := uuid.Parse(memberUID); err != nil {
			log.Error("invalid member_uid filter", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid member_uid"))
			return
		}
		filter.UserUID = &memberUID
	}

	res, err := h.service.ListAll(r.Context(), filter, limit, offset)
	if err != nil {
		log.Error("failed to list contributions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list contributions"))
		return
	}

	log.Info("list contributions", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count":    len(res),
		"contributions": res,
	}))
}
