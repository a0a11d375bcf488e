package supplierservice

import (
	"context"

	"github.com/google/uuid"

	"hkinventory/internal/domain"
	apperror "hkinventory/internal/errors"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/validation"
)

// SupplierRepository define o contrato que o Serviço de Fornecedores espera da camada de Persistência.
type SupplierRepository interface {
	Create(ctx context.Context, sup domain.Supplier) (domain.Supplier, error)
	FindByID(ctx context.Context, id string) (domain.Supplier, error)
	FindAll(ctx context.Context) ([]domain.Supplier, error)
	Update(ctx context.Context, sup domain.Supplier) (domain.Supplier, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa as regras de negócio de fornecedores.
type Service struct {
	repo     SupplierRepository
	validate *validation.Validator
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Fornecedores.
func NewService(repo SupplierRepository, validate *validation.Validator, logger logger.Logger) *Service {
	return &Service{repo: repo, validate: validate, logger: logger}
}

func (s *Service) checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		s.logger.Warn("ID de fornecedor inválido fornecido.", map[string]interface{}{"id": id, "error": err.Error()})
		return apperror.NewValidationError("O ID do fornecedor deve ser um UUID válido.")
	}
	return nil
}

// CreateSupplier cria um novo fornecedor após validações de negócio.
func (s *Service) CreateSupplier(ctx context.Context, sup domain.Supplier) (domain.Supplier, error) {
	s.logger.Debug("Iniciando criação de fornecedor no serviço.", map[string]interface{}{"code": sup.Code})

	if err := s.validate.Struct(sup); err != nil {
		s.logger.Warn("Falha na validação do fornecedor.", map[string]interface{}{"code": sup.Code, "error": err.Error()})
		return domain.Supplier{}, err
	}
	sup.ID = ""
	if sup.Status == "" {
		sup.Status = domain.StatusActive
	}
	return s.repo.Create(ctx, sup)
}

// GetSupplier busca um fornecedor pelo ID.
func (s *Service) GetSupplier(ctx context.Context, id string) (domain.Supplier, error) {
	if err := s.checkID(id); err != nil {
		return domain.Supplier{}, err
	}
	return s.repo.FindByID(ctx, id)
}

// ListSuppliers lista todos os fornecedores.
func (s *Service) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.repo.FindAll(ctx)
}

// UpdateSupplier atualiza um fornecedor existente.
func (s *Service) UpdateSupplier(ctx context.Context, id string, sup domain.Supplier) (domain.Supplier, error) {
	if err := s.checkID(id); err != nil {
		return domain.Supplier{}, err
	}
	if err := s.validate.Struct(sup); err != nil {
		return domain.Supplier{}, err
	}
	sup.ID = id
	if sup.Status == "" {
		sup.Status = domain.StatusActive
	}
	return s.repo.Update(ctx, sup)
}

// DeleteSupplier remove um fornecedor sem itens nem transações vinculados.
func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	if err := s.checkID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("Exclusão de fornecedor recusada.", map[string]interface{}{"id": id, "error": err.Error()})
		return err
	}
	return nil
}

// ImportSuppliers cadastra os fornecedores linha a linha; falhas não interrompem as linhas seguintes.
func (s *Service) ImportSuppliers(ctx context.Context, rows []domain.Supplier) (domain.ImportResult, error) {
	result := domain.ImportResult{Rows: make([]domain.ImportRowResult, 0, len(rows))}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, apperror.NewInternalError("Importação interrompida.", err)
		}
		sup, err := s.CreateSupplier(ctx, row)
		result.Add(i+1, sup.ID, err, "Fornecedor importado.")
	}

	s.logger.Info("Importação de fornecedores concluída.", map[string]interface{}{
		"success_count": result.SuccessCount,
		"error_count":   result.ErrorCount,
	})
	return result, nil
}
