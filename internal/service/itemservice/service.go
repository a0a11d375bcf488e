package itemservice

import (
	"context"

	"github.com/google/uuid"

	"hkinventory/internal/domain"
	apperror "hkinventory/internal/errors"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/validation"
)

// ItemRepository define o contrato que o Serviço de Itens espera da camada de Persistência.
type ItemRepository interface {
	FindAll(ctx context.Context) ([]domain.Item, error)
	FindByID(ctx context.Context, id string) (domain.Item, error)
	ListLowStock(ctx context.Context) ([]domain.Item, error)
	Create(ctx context.Context, item domain.Item) (domain.Item, error)
	Update(ctx context.Context, item domain.Item) (domain.Item, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa as regras de cadastro de itens. O saldo não é alterado aqui
// depois da criação: isso é trabalho do ledgerservice.
type Service struct {
	repo     ItemRepository
	validate *validation.Validator
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Itens.
func NewService(repo ItemRepository, validate *validation.Validator, logger logger.Logger) *Service {
	return &Service{repo: repo, validate: validate, logger: logger}
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do item deve ser um UUID válido.")
	}
	return nil
}

func fromInput(in domain.ItemInput) domain.Item {
	status := in.Status
	if status == "" {
		status = domain.StatusActive
	}
	return domain.Item{
		Code:         in.Code,
		Name:         in.Name,
		CategoryID:   in.CategoryID,
		Description:  in.Description,
		Unit:         in.Unit,
		MinStock:     in.MinStock,
		CurrentStock: in.CurrentStock,
		Location:     in.Location,
		SupplierID:   in.SupplierID,
		Price:        in.Price,
		Status:       status,
		ImageURL:     in.ImageURL,
	}
}

// ListItems lista todos os itens.
func (s *Service) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.repo.FindAll(ctx)
}

// ListLowStock lista os itens no estoque mínimo ou abaixo dele.
func (s *Service) ListLowStock(ctx context.Context) ([]domain.Item, error) {
	return s.repo.ListLowStock(ctx)
}

// GetItem busca um item pelo ID.
func (s *Service) GetItem(ctx context.Context, id string) (domain.Item, error) {
	if err := checkID(id); err != nil {
		s.logger.Warn("ID de item inválido fornecido.", map[string]interface{}{"id": id})
		return domain.Item{}, err
	}
	return s.repo.FindByID(ctx, id)
}

// CreateItem cadastra um item com o estoque inicial informado.
func (s *Service) CreateItem(ctx context.Context, in domain.ItemInput) (domain.Item, error) {
	if err := s.validate.Struct(in); err != nil {
		s.logger.Warn("Falha na validação do item.", map[string]interface{}{"code": in.Code, "error": err.Error()})
		return domain.Item{}, err
	}

	created, err := s.repo.Create(ctx, fromInput(in))
	if err != nil {
		return domain.Item{}, err
	}

	s.logger.Info("Item cadastrado.", map[string]interface{}{"id": created.ID, "initial_stock": created.CurrentStock})
	return created, nil
}

// UpdateItem altera os dados cadastrais de um item; current_stock do payload é ignorado.
func (s *Service) UpdateItem(ctx context.Context, id string, in domain.ItemInput) (domain.Item, error) {
	if err := checkID(id); err != nil {
		return domain.Item{}, err
	}
	if err := s.validate.Struct(in); err != nil {
		return domain.Item{}, err
	}

	it := fromInput(in)
	it.ID = id
	return s.repo.Update(ctx, it)
}

// DeleteItem remove um item sem transações nem baixas.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ImportItems cadastra os itens linha a linha; falhas não interrompem as linhas seguintes.
func (s *Service) ImportItems(ctx context.Context, rows []domain.ItemInput) (domain.ImportResult, error) {
	result := domain.ImportResult{Rows: make([]domain.ImportRowResult, 0, len(rows))}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, apperror.NewInternalError("Importação interrompida.", err)
		}
		it, err := s.CreateItem(ctx, row)
		result.Add(i+1, it.ID, err, "Item importado.")
	}

	s.logger.Info("Importação de itens concluída.", map[string]interface{}{
		"success_count": result.SuccessCount,
		"error_count":   result.ErrorCount,
	})
	return result, nil
}
