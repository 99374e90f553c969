// Package read реализует HTTP-обработчик получения конкретного взноса по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику чтения взноса
// и возвращает данные вместе с именами участника, категории и автора записи.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/membership-dues/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-dues/internal/http/response"
	"github.com/magabrotheeeer/membership-dues/internal/lib/sl"
	"github.com/magabrotheeeer/membership-dues/internal/models"
	"github.com/magabrotheeeer/membership-dues/internal/storage"
)

// Handler обрабатывает запросы на получение взноса по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения взноса.
type Service interface {
	Read(ctx context.Context, id int) (*models.ContributionInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить взнос по ID
// @Description Возвращает данные взноса с именами участника, категории и автора записи. Участник без роли секретаря видит только собственные взносы.
// @Tags Contributions
// @Produce  json
// @Param id path int true "Идентификатор взноса"
// @Success 200 {object} map[string]any "Данные взноса"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Взнос не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /contributions/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contribution.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	res, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrContributionNotFound) {
			log.Error("contribution not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("contribution not found"))
			return
		}
		log.Error("failed to read contribution", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read contribution"))
		return
	}

	// Участник без роли секретаря может читать только свои взносы.
	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if role != models.RoleFinancialSecretary {
		userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
		if !ok || userUID != res.MemberUID {
			log.Error("contribution does not belong to requester", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("contribution not found"))
			return
		}
	}

	log.Info("success to read contribution", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"contribution": res,
	}))
}
