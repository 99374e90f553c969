package read

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/membership-dues/internal/http/middlewarectx"
	"github.com/magabrotheeeer/membership-dues/internal/models"
	"github.com/magabrotheeeer/membership-dues/internal/storage"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context, id int) (*models.ContributionInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContributionInfo), args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	info := &models.ContributionInfo{
		ID:         42,
		MemberUID:  "11111111-1111-1111-1111-111111111111",
		MemberName: "Test Member",
		Amount:     50,
		Date:       "2024-02-10",
	}

	tests := []struct {
		name           string
		id             string
		role           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "секретарь читает любой взнос",
			id:      "42",
			role:    models.RoleFinancialSecretary,
			userUID: "99999999-9999-9999-9999-999999999999",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, 42).Return(info, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"member_name":"Test Member"`,
		},
		{
			name:    "участник читает собственный взнос",
			id:      "42",
			role:    models.RoleMember,
			userUID: "11111111-1111-1111-1111-111111111111",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, 42).Return(info, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":42`,
		},
		{
			name:    "участник не видит чужой взнос",
			id:      "42",
			role:    models.RoleMember,
			userUID: "99999999-9999-9999-9999-999999999999",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, 42).Return(info, nil)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"contribution not found"}`,
		},
		{
			name:           "некорректный id в url",
			id:             "abc",
			role:           models.RoleFinancialSecretary,
			userUID:        "99999999-9999-9999-9999-999999999999",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid id"}`,
		},
		{
			name:    "взнос не найден",
			id:      "404",
			role:    models.RoleFinancialSecretary,
			userUID: "99999999-9999-9999-9999-999999999999",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, 404).Return(nil, storage.ErrContributionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"contribution not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/contributions/"+tt.id, nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			ctx = context.WithValue(ctx, middlewarectx.Role, tt.role)
			ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			req = req.WithContext(ctx)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
