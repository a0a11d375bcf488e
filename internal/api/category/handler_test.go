package category_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hkinventory/internal/api/category"
	"hkinventory/internal/domain"
	apperror "hkinventory/internal/errors"
	"hkinventory/internal/pkg/logger"
)

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *MockCategoryService) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *MockCategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.Category)
	return list, args.Error(1)
}

func (m *MockCategoryService) UpdateCategory(ctx context.Context, id string, c domain.Category) (domain.Category, error) {
	args := m.Called(ctx, id, c)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *MockCategoryService) DeleteCategory(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) domain.Result {
	t.Helper()
	var res domain.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestCreateCategoryHandler(t *testing.T) {
	svc := new(MockCategoryService)
	h := category.NewHandler(svc, logger.NewNop())

	in := domain.Category{Code: "LIN", Name: "Linen"}
	svc.On("CreateCategory", mock.Anything, in).Return(domain.Category{ID: "c1", Code: "LIN", Name: "Linen"}, nil).Once()

	rec := httptest.NewRecorder()
	h.CreateCategoryHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/categories",
		strings.NewReader(`{"code":"LIN","name":"Linen"}`)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	res := decode(t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "Categoria criada com sucesso.", res.Message)
	svc.AssertExpectations(t)
}

func TestCreateCategoryHandler_Conflict(t *testing.T) {
	svc := new(MockCategoryService)
	h := category.NewHandler(svc, logger.NewNop())

	svc.On("CreateCategory", mock.Anything, mock.Anything).
		Return(domain.Category{}, apperror.NewConflictError("Já existe uma categoria com este código.")).Once()

	rec := httptest.NewRecorder()
	h.CreateCategoryHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/categories",
		strings.NewReader(`{"code":"LIN","name":"Linen"}`)))

	assert.Equal(t, http.StatusConflict, rec.Code)
	res := decode(t, rec)
	assert.False(t, res.Success)
	assert.Equal(t, "Já existe uma categoria com este código.", res.Message)
}

func TestCreateCategoryHandler_UnknownField(t *testing.T) {
	svc := new(MockCategoryService)
	h := category.NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.CreateCategoryHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/categories",
		strings.NewReader(`{"code":"LIN","color":"blue"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec).Category)
	svc.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
}

func TestDeleteCategoryHandler(t *testing.T) {
	svc := new(MockCategoryService)
	h := category.NewHandler(svc, logger.NewNop())

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /v1/categories/{id}", h.DeleteCategoryHandler)

	svc.On("DeleteCategory", mock.Anything, "c1").Return(nil).Once()
	svc.On("DeleteCategory", mock.Anything, "c2").
		Return(apperror.NewHasDependentsError("Não é possível excluir a categoria: existem itens vinculados.", "category", "items")).Once()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/categories/c1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/categories/c2", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "HAS_DEPENDENTS", decode(t, rec).Category)

	svc.AssertExpectations(t)
}

func TestGetCategoryHandler_NotFound(t *testing.T) {
	svc := new(MockCategoryService)
	h := category.NewHandler(svc, logger.NewNop())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/categories/{id}", h.GetCategoryHandler)

	svc.On("GetCategory", mock.Anything, "nope").
		Return(domain.Category{}, apperror.NewNotFoundError("Categoria não encontrada.")).Once()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/categories/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec).Category)
	svc.AssertExpectations(t)
}
