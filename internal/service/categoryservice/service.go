package categoryservice

import (
	"context"

	"github.com/google/uuid"

	"hkinventory/internal/domain"
	apperror "hkinventory/internal/errors"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/validation"
)

// CategoryRepository define o contrato que o Serviço de Categorias espera da camada de Persistência.
type CategoryRepository interface {
	Create(ctx context.Context, c domain.Category) (domain.Category, error)
	FindByID(ctx context.Context, id string) (domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, c domain.Category) (domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa as regras de negócio de categorias.
type Service struct {
	repo     CategoryRepository
	validate *validation.Validator
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Categorias.
func NewService(repo CategoryRepository, validate *validation.Validator, logger logger.Logger) *Service {
	return &Service{repo: repo, validate: validate, logger: logger}
}

func (s *Service) checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		s.logger.Warn("ID de categoria inválido fornecido.", map[string]interface{}{"id": id, "error": err.Error()})
		return apperror.NewValidationError("O ID da categoria deve ser um UUID válido.")
	}
	return nil
}

// CreateCategory cria uma nova categoria após validações de negócio.
func (s *Service) CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	s.logger.Debug("Iniciando criação de categoria no serviço.", map[string]interface{}{"code": c.Code})

	if err := s.validate.Struct(c); err != nil {
		s.logger.Warn("Falha na validação da categoria.", map[string]interface{}{"code": c.Code, "error": err.Error()})
		return domain.Category{}, err
	}
	c.ID = ""
	if c.Status == "" {
		c.Status = domain.StatusActive
	}
	return s.repo.Create(ctx, c)
}

// GetCategory busca uma categoria pelo ID.
func (s *Service) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	if err := s.checkID(id); err != nil {
		return domain.Category{}, err
	}
	return s.repo.FindByID(ctx, id)
}

// ListCategories lista todas as categorias.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.FindAll(ctx)
}

// UpdateCategory atualiza uma categoria existente.
func (s *Service) UpdateCategory(ctx context.Context, id string, c domain.Category) (domain.Category, error) {
	if err := s.checkID(id); err != nil {
		return domain.Category{}, err
	}
	if err := s.validate.Struct(c); err != nil {
		return domain.Category{}, err
	}
	c.ID = id
	if c.Status == "" {
		c.Status = domain.StatusActive
	}
	return s.repo.Update(ctx, c)
}

// DeleteCategory remove uma categoria sem itens vinculados.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.checkID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("Exclusão de categoria recusada.", map[string]interface{}{"id": id, "error": err.Error()})
		return err
	}
	return nil
}
