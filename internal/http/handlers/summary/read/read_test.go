package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/membership-dues/internal/models"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Compute(ctx context.Context, start, end *time.Time) (*models.SummaryReport, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SummaryReport), args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "сводка за текущий месяц",
			url:  "/admin/summary",
			setupMock: func(m *MockService) {
				m.On("Compute", mock.Anything, (*time.Time)(nil), (*time.Time)(nil)).
					Return(&models.SummaryReport{
						TotalCollected: 125,
						Period:         models.Period{Start: "2024-02-01", End: "2024-02-29"},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"total_collected":125`,
		},
		{
			name: "сводка за заданный период",
			url:  "/admin/summary?start_date=2024-01-01&end_date=2024-01-31",
			setupMock: func(m *MockService) {
				m.On("Compute", mock.Anything, &start, &end).
					Return(&models.SummaryReport{
						Period: models.Period{Start: "2024-01-01", End: "2024-01-31"},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"start":"2024-01-01"`,
		},
		{
			name:           "некорректная дата начала",
			url:            "/admin/summary?start_date=01.01.2024",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid start_date`,
		},
		{
			name: "ошибка сервиса",
			url:  "/admin/summary",
			setupMock: func(m *MockService) {
				m.On("Compute", mock.Anything, (*time.Time)(nil), (*time.Time)(nil)).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not compute summary"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
