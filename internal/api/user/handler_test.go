package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hkinventory/internal/api/user"
	"hkinventory/internal/domain"
	apperror "hkinventory/internal/errors"
	"hkinventory/internal/pkg/logger"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.LoginResponse), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, in domain.UserInput) (domain.User, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.User)
	return list, args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id string, in domain.UserInput) (domain.User, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestLoginUserHandler(t *testing.T) {
	svc := new(MockUserService)
	h := user.NewHandler(svc, logger.NewNop())

	ok := domain.LoginRequest{Username: "maria", Password: "segredo1"}
	svc.On("Login", mock.Anything, ok).
		Return(domain.LoginResponse{Token: "jwt-abc", User: domain.User{ID: "u1", Username: "maria", PasswordHash: "hash"}}, nil).Once()
	bad := domain.LoginRequest{Username: "maria", Password: "errada"}
	svc.On("Login", mock.Anything, bad).
		Return(domain.LoginResponse{}, apperror.NewUnauthorizedError("Credenciais inválidas.")).Once()

	rec := httptest.NewRecorder()
	h.LoginUserHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(`{"username":"maria","password":"segredo1"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"jwt-abc"`)
	assert.NotContains(t, rec.Body.String(), "hash")

	rec = httptest.NewRecorder()
	h.LoginUserHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(`{"username":"maria","password":"errada"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	svc.AssertExpectations(t)
}
