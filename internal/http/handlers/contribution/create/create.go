// Package create реализует HTTP-обработчик записи нового взноса.
//
// Handler принимает JSON-запрос с данными взноса, валидирует их, извлекает
// UID финансового секретаря из контекста, вызывает бизнес-логику создания
// взноса и возвращает ID созданной записи в JSON-формате.
//
// Нарушения данных (несуществующий участник, неположительная сумма,
// некорректная дата) возвращаются с кодом 422 и указанием поля.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/membership-dues/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-dues/internal/http/response"
	"github.com/magabrotheeeer/membership-dues/internal/lib/sl"
	"github.com/magabrotheeeer/membership-dues/internal/models"
	services "github.com/magabrotheeeer/membership-dues/internal/services/contribution"
)

// Handler управляет HTTP-запросами на запись новых взносов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики для записи взносов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики записи взноса.
type Service interface {
	Create(ctx context.Context, recordedByUID string, req models.DummyContribution) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Записать новый взнос
// @Description Записывает взнос участника. Автором записи становится текущий финансовый секретарь.
// @Tags Contributions
// @Accept  json
// @Produce  json
// @Param request body models.DummyContribution true "Данные нового взноса"
// @Success 200 {object} map[string]any "Успешная запись взноса"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при записи взноса"
// @Router /admin/contributions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contribution.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyContribution
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	recordedByUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || recordedByUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Create(r.Context(), recordedByUID, req)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			log.Error("contribution rejected", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.FieldError(vErr.Field, vErr.Message))
			return
		}
		log.Error("failed to create contribution", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create contribution"))
		return
	}

	log.Info("success to create contribution", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"last_added_id": id,
	}))
}
