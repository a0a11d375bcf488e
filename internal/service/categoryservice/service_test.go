package categoryservice_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hkinventory/internal/domain"
	apperror "hkinventory/internal/errors"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/validation"
	"hkinventory/internal/service/categoryservice"
)

// MockCategoryRepository é uma implementação mock da interface CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, c domain.Category) (domain.Category, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id string) (domain.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c domain.Category) (domain.Category, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newService(repo *MockCategoryRepository) *categoryservice.Service {
	return categoryservice.NewService(repo, validation.New(), logger.NewNop())
}

// --- Testes para CreateCategory ---

func TestCreateCategory_Success(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newService(mockRepo)

	input := domain.Category{Code: "LIN", Name: "Linen"}
	toSave := input
	toSave.Status = domain.StatusActive
	expected := toSave
	expected.ID = uuid.New().String()
	expected.CreatedAt = time.Now()

	mockRepo.On("Create", mock.Anything, toSave).Return(expected, nil)

	result, err := svc.CreateCategory(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, expected.ID, result.ID)
	assert.Equal(t, domain.StatusActive, result.Status)
	mockRepo.AssertExpectations(t)
}

func TestCreateCategory_Fail_MissingName(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newService(mockRepo)

	_, err := svc.CreateCategory(context.Background(), domain.Category{Code: "LIN"})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "'name'")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCreateCategory_Fail_DuplicateCode(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("domain.Category")).
		Return(domain.Category{}, apperror.NewConflictError("Já existe uma categoria com este código."))

	_, err := svc.CreateCategory(context.Background(), domain.Category{Code: "LIN", Name: "Linen"})

	assert.IsType(t, &apperror.ConflictError{}, err)
	mockRepo.AssertExpectations(t)
}

// --- Testes para GetCategory ---

func TestGetCategory_Fail_InvalidID(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newService(mockRepo)

	_, err := svc.GetCategory(context.Background(), "invalid-uuid")

	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "UUID válido")
	mockRepo.AssertNotCalled(t, "FindByID")
}

func TestGetCategory_Fail_NotFound(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newService(mockRepo)

	id := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, id).Return(domain.Category{}, apperror.NewNotFoundError("Categoria não encontrada."))

	_, err := svc.GetCategory(context.Background(), id)

	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertExpectations(t)
}

// --- Testes para UpdateCategory ---

func TestUpdateCategory_SetsID(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newService(mockRepo)

	id := uuid.New().String()
	expected := domain.Category{ID: id, Code: "AMN", Name: "Amenities", Status: domain.StatusInactive}
	mockRepo.On("Update", mock.Anything, expected).Return(expected, nil)

	result, err := svc.UpdateCategory(context.Background(), id,
		domain.Category{ID: "ignorado", Code: "AMN", Name: "Amenities", Status: domain.StatusInactive})

	assert.NoError(t, err)
	assert.Equal(t, id, result.ID)
	mockRepo.AssertExpectations(t)
}

// --- Testes para DeleteCategory ---

func TestDeleteCategory_Fail_HasItems(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newService(mockRepo)

	id := uuid.New().String()
	mockRepo.On("Delete", mock.Anything, id).Return(
		apperror.NewHasDependentsError("Não é possível excluir a categoria: existem itens vinculados.", "category", "items"))

	err := svc.DeleteCategory(context.Background(), id)

	var hasDeps *apperror.HasDependentsError
	assert.ErrorAs(t, err, &hasDeps)
	assert.Equal(t, "items", hasDeps.Dependent)
	mockRepo.AssertExpectations(t)
}

func TestListCategories_Success(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	svc := newService(mockRepo)

	expected := []domain.Category{{ID: uuid.New().String(), Name: "Linen"}, {ID: uuid.New().String(), Name: "Amenities"}}
	mockRepo.On("FindAll", mock.Anything).Return(expected, nil)

	results, err := svc.ListCategories(context.Background())

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	mockRepo.AssertExpectations(t)
}
