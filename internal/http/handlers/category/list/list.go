// Package list реализует HTTP-обработчик списка активных категорий членства.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-dues/internal/http/response"
	"github.com/magabrotheeeer/membership-dues/internal/lib/sl"
	"github.com/magabrotheeeer/membership-dues/internal/models"
)

// Handler обрабатывает запросы на получение категорий членства.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения категорий. Реализуется хранилищем напрямую.
type Service interface {
	ListActiveCategories(ctx context.Context) ([]*models.Category, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список категорий членства
// @Description Возвращает активные категории с размерами ежемесячных взносов.
// @Tags Categories
// @Produce  json
// @Success 200 {object} map[string]any "Список категорий"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/categories [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	categories, err := h.service.ListActiveCategories(r.Context())
	if err != nil {
		log.Error("failed to list categories", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list categories"))
		return
	}

	views := make([]models.CategoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, category.View())
	}

	log.Info("list categories", slog.Int("count", len(views)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"categories": views,
	}))
}
