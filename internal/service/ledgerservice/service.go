package ledgerservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hkinventory/internal/domain"
	apperror "hkinventory/internal/errors"
	"hkinventory/internal/ledger"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/validation"
)

const dateLayout = "2006-01-02"

// Mensagens exibidas ao usuário final sem alteração.
const (
	msgInsufficientStock     = "Estoque insuficiente."
	msgInsufficientForEdit   = "Estoque insuficiente para esta alteração."
	msgInsufficientForDelete = "Estoque insuficiente para excluir este registro."
	msgInsufficientForDeprec = "Estoque insuficiente para a baixa."
	msgItemNotFound          = "Item não encontrado."
	msgTransactionNotFound   = "Transação não encontrada."
	msgBorrowNotFound        = "Transação de empréstimo não encontrada."
	msgAlreadyReturned       = "Empréstimo já foi devolvido."
	msgCancelledBorrow       = "Empréstimo cancelado não pode ser devolvido."
	msgDepreciationNotFound  = "Baixa não encontrada."
	msgTransactionImported   = "Transação importada."
	msgDepreciationImported  = "Baixa importada."
)

// Service orquestra as operações que alteram o estoque.
// Cada operação roda em uma única unidade do LedgerStore.
type Service struct {
	store         domain.LedgerStore
	validate      *validation.Validator
	logger        logger.Logger
	strictOrphans bool
	now           func() time.Time
}

// Option configura o Service.
type Option func(*Service)

// WithStrictOrphans faz reversões sobre itens inexistentes falharem em vez de só registrar um aviso.
func WithStrictOrphans(strict bool) Option {
	return func(s *Service) { s.strictOrphans = strict }
}

// WithClock troca o relógio usado para datas padrão e return_date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService cria e retorna uma nova instância do Serviço de Ledger.
func NewService(store domain.LedgerStore, validate *validation.Validator, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		validate: validate,
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// checkID rejeita ids que não são UUID antes de chegar ao banco, onde o cast falharia.
// Um id malformado nunca existe, então a resposta é o NotFound da operação.
func (s *Service) checkID(id, notFoundMsg string) error {
	if _, err := uuid.Parse(id); err != nil {
		s.logger.Debug("ID malformado recebido pelo ledger.", map[string]interface{}{"id": id})
		return apperror.NewNotFoundError(notFoundMsg)
	}
	return nil
}

func (s *Service) today() string {
	return s.now().Format(dateLayout)
}

// --- Transações ---

// CreateTransaction registra a transação e aplica seu efeito no item.
func (s *Service) CreateTransaction(ctx context.Context, userID string, in domain.TransactionInput) (domain.Transaction, error) {
	if err := s.validate.Struct(in); err != nil {
		return domain.Transaction{}, err
	}

	t := domain.Transaction{
		Type:       in.Type,
		ItemID:     in.ItemID,
		Quantity:   in.Quantity,
		UserID:     userID,
		SupplierID: in.SupplierID,
		BorrowerID: in.BorrowerID,
		Notes:      in.Notes,
		Status:     in.Status,
		Date:       in.Date,
		DueDate:    in.DueDate,
		ReturnDate: in.ReturnDate,
	}
	// Empréstimo nasce pendente; os demais tipos já entram concluídos
	if t.Status == "" {
		t.Status = domain.TransactionCompleted
		if t.Type == domain.TransactionBorrow {
			t.Status = domain.TransactionPending
		}
	}
	if t.Date == "" {
		t.Date = s.today()
	}

	err := s.store.WithinTx(ctx, func(tx domain.LedgerTx) error {
		plan := ledger.PlanCreate(t.ItemID, ledger.EffectOf(t))
		if err := s.applyPlan(ctx, tx, plan, msgInsufficientStock); err != nil {
			return err
		}
		// Estoque ajustado, grava o registro na mesma transação
		return tx.InsertTransaction(ctx, &t)
	})
	if err != nil {
		return domain.Transaction{}, s.fail("CreateTransaction", err)
	}

	s.logger.Info("Transação criada.", map[string]interface{}{
		"transaction_id": t.ID,
		"type":           t.Type,
		"item_id":        t.ItemID,
		"quantity":       t.Quantity,
	})
	return t, nil
}

// UpdateTransaction reverte o efeito gravado e aplica o efeito da versão editada.
// Status, Date, DueDate e ReturnDate vazios preservam os valores atuais.
func (s *Service) UpdateTransaction(ctx context.Context, id string, in domain.TransactionInput) (domain.Transaction, error) {
	if err := s.checkID(id, msgTransactionNotFound); err != nil {
		return domain.Transaction{}, err
	}
	if err := s.validate.Struct(in); err != nil {
		return domain.Transaction{}, err
	}

	var updated domain.Transaction
	err := s.store.WithinTx(ctx, func(tx domain.LedgerTx) error {
		old, err := tx.LockTransaction(ctx, id)
		if err != nil {
			return notFoundAs(err, msgTransactionNotFound)
		}

		updated = mergeTransaction(old, in)
		plan := ledger.PlanUpdate(old.ItemID, ledger.EffectOf(old), updated.ItemID, ledger.EffectOf(updated))
		if err := s.applyPlan(ctx, tx, plan, msgInsufficientForEdit); err != nil {
			return err
		}
		return tx.UpdateTransaction(ctx, &updated)
	})
	if err != nil {
		return domain.Transaction{}, s.fail("UpdateTransaction", err)
	}

	s.logger.Info("Transação atualizada.", map[string]interface{}{
		"transaction_id": updated.ID,
		"item_id":        updated.ItemID,
		"quantity":       updated.Quantity,
		"status":         updated.Status,
	})
	return updated, nil
}

func mergeTransaction(old domain.Transaction, in domain.TransactionInput) domain.Transaction {
	t := old
	t.Type = in.Type
	t.ItemID = in.ItemID
	t.Quantity = in.Quantity
	t.SupplierID = in.SupplierID
	t.BorrowerID = in.BorrowerID
	t.Notes = in.Notes
	if in.Status != "" {
		t.Status = in.Status
	}
	if in.Date != "" {
		t.Date = in.Date
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	if in.ReturnDate != nil {
		t.ReturnDate = in.ReturnDate
	}
	return t
}

// DeleteTransaction reverte o efeito (best-effort) e remove a transação.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.checkID(id, msgTransactionNotFound); err != nil {
		return err
	}
	err := s.store.WithinTx(ctx, func(tx domain.LedgerTx) error {
		old, err := tx.LockTransaction(ctx, id)
		if err != nil {
			return notFoundAs(err, msgTransactionNotFound)
		}
		if err := s.applyPlan(ctx, tx, ledger.PlanDelete(old.ItemID, ledger.EffectOf(old)), msgInsufficientForDelete); err != nil {
			return err
		}
		return tx.DeleteTransaction(ctx, id)
	})
	if err != nil {
		return s.fail("DeleteTransaction", err)
	}

	s.logger.Info("Transação excluída.", map[string]interface{}{"transaction_id": id})
	return nil
}

// ReturnBorrowing devolve ao estoque a quantidade de um empréstimo em aberto,
// marca o empréstimo como concluído e registra a data de devolução.
func (s *Service) ReturnBorrowing(ctx context.Context, id string) (domain.Transaction, error) {
	if err := s.checkID(id, msgBorrowNotFound); err != nil {
		return domain.Transaction{}, err
	}
	var t domain.Transaction
	err := s.store.WithinTx(ctx, func(tx domain.LedgerTx) error {
		var err error
		t, err = tx.LockTransaction(ctx, id)
		if err != nil {
			return notFoundAs(err, msgBorrowNotFound)
		}
		if t.Type != domain.TransactionBorrow {
			return apperror.NewNotFoundError(msgBorrowNotFound)
		}
		switch t.Status {
		case domain.TransactionCompleted:
			return apperror.NewAlreadyReturnedError(msgAlreadyReturned)
		case domain.TransactionCancelled:
			return apperror.NewValidationError(msgCancelledBorrow)
		}

		plan := []ledger.Change{{ItemID: t.ItemID, Delta: ledger.ReturnEffect(t.Quantity)}}
		if err := s.applyPlan(ctx, tx, plan, msgInsufficientStock); err != nil {
			return err
		}

		today := s.today()
		t.Status = domain.TransactionCompleted
		t.ReturnDate = &today
		return tx.UpdateTransaction(ctx, &t)
	})
	if err != nil {
		return domain.Transaction{}, s.fail("ReturnBorrowing", err)
	}

	s.logger.Info("Empréstimo devolvido.", map[string]interface{}{
		"transaction_id": t.ID,
		"item_id":        t.ItemID,
		"quantity":       t.Quantity,
	})
	return t, nil
}

// ListTransactions lista as transações, mais recentes primeiro.
func (s *Service) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	list, err := s.store.ListTransactions(ctx, filter)
	if err != nil {
		return nil, s.fail("ListTransactions", err)
	}
	return list, nil
}

// GetTransaction busca uma transação pelo id.
func (s *Service) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	if err := s.checkID(id, msgTransactionNotFound); err != nil {
		return domain.Transaction{}, err
	}
	t, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return domain.Transaction{}, s.fail("GetTransaction", notFoundAs(err, msgTransactionNotFound))
	}
	return t, nil
}

// ImportTransactions cria as transações linha a linha, cada uma em sua própria unidade.
// Linhas sem tipo são importadas como empréstimo.
func (s *Service) ImportTransactions(ctx context.Context, userID string, rows []domain.TransactionInput) (domain.ImportResult, error) {
	result := domain.ImportResult{Rows: make([]domain.ImportRowResult, 0, len(rows))}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, apperror.NewInternalError("Importação interrompida.", err)
		}
		if row.Type == "" {
			row.Type = domain.TransactionBorrow
		}
		t, err := s.CreateTransaction(ctx, userID, row)
		result.Add(i+1, t.ID, err, msgTransactionImported)
	}

	s.logger.Info("Importação de transações concluída.", map[string]interface{}{
		"success_count": result.SuccessCount,
		"error_count":   result.ErrorCount,
	})
	return result, nil
}

// --- Baixas ---

// CreateDepreciation registra a baixa e subtrai a quantidade do item.
func (s *Service) CreateDepreciation(ctx context.Context, userID string, in domain.DepreciationInput) (domain.Depreciation, error) {
	if err := s.validate.Struct(in); err != nil {
		return domain.Depreciation{}, err
	}

	d := domain.Depreciation{
		ItemID:   in.ItemID,
		Quantity: in.Quantity,
		Reason:   in.Reason,
		UserID:   userID,
		Status:   in.Status,
		Date:     in.Date,
	}
	if d.Status == "" {
		d.Status = domain.DepreciationCompleted
	}
	if d.Date == "" {
		d.Date = s.today()
	}

	err := s.store.WithinTx(ctx, func(tx domain.LedgerTx) error {
		plan := ledger.PlanCreate(d.ItemID, ledger.DepreciationEffect(d.Quantity))
		if err := s.applyPlan(ctx, tx, plan, msgInsufficientForDeprec); err != nil {
			return err
		}
		return tx.InsertDepreciation(ctx, &d)
	})
	if err != nil {
		return domain.Depreciation{}, s.fail("CreateDepreciation", err)
	}

	s.logger.Info("Baixa registrada.", map[string]interface{}{
		"depreciation_id": d.ID,
		"item_id":         d.ItemID,
		"quantity":        d.Quantity,
	})
	return d, nil
}

// UpdateDepreciation reverte a baixa gravada e aplica a editada.
func (s *Service) UpdateDepreciation(ctx context.Context, id string, in domain.DepreciationInput) (domain.Depreciation, error) {
	if err := s.checkID(id, msgDepreciationNotFound); err != nil {
		return domain.Depreciation{}, err
	}
	if err := s.validate.Struct(in); err != nil {
		return domain.Depreciation{}, err
	}

	var updated domain.Depreciation
	err := s.store.WithinTx(ctx, func(tx domain.LedgerTx) error {
		old, err := tx.LockDepreciation(ctx, id)
		if err != nil {
			return notFoundAs(err, msgDepreciationNotFound)
		}

		updated = old
		updated.ItemID = in.ItemID
		updated.Quantity = in.Quantity
		updated.Reason = in.Reason
		if in.Status != "" {
			updated.Status = in.Status
		}
		if in.Date != "" {
			updated.Date = in.Date
		}

		plan := ledger.PlanUpdate(old.ItemID, ledger.DepreciationEffect(old.Quantity),
			updated.ItemID, ledger.DepreciationEffect(updated.Quantity))
		if err := s.applyPlan(ctx, tx, plan, msgInsufficientForEdit); err != nil {
			return err
		}
		return tx.UpdateDepreciation(ctx, &updated)
	})
	if err != nil {
		return domain.Depreciation{}, s.fail("UpdateDepreciation", err)
	}

	s.logger.Info("Baixa atualizada.", map[string]interface{}{
		"depreciation_id": updated.ID,
		"item_id":         updated.ItemID,
		"quantity":        updated.Quantity,
	})
	return updated, nil
}

// DeleteDepreciation devolve a quantidade ao item (best-effort) e remove a baixa.
func (s *Service) DeleteDepreciation(ctx context.Context, id string) error {
	if err := s.checkID(id, msgDepreciationNotFound); err != nil {
		return err
	}
	err := s.store.WithinTx(ctx, func(tx domain.LedgerTx) error {
		old, err := tx.LockDepreciation(ctx, id)
		if err != nil {
			return notFoundAs(err, msgDepreciationNotFound)
		}
		plan := ledger.PlanDelete(old.ItemID, ledger.DepreciationEffect(old.Quantity))
		if err := s.applyPlan(ctx, tx, plan, msgInsufficientForDelete); err != nil {
			return err
		}
		return tx.DeleteDepreciation(ctx, id)
	})
	if err != nil {
		return s.fail("DeleteDepreciation", err)
	}

	s.logger.Info("Baixa excluída.", map[string]interface{}{"depreciation_id": id})
	return nil
}

// ListDepreciations lista as baixas, mais recentes primeiro.
func (s *Service) ListDepreciations(ctx context.Context) ([]domain.Depreciation, error) {
	list, err := s.store.ListDepreciations(ctx)
	if err != nil {
		return nil, s.fail("ListDepreciations", err)
	}
	return list, nil
}

// GetDepreciation busca uma baixa pelo id.
func (s *Service) GetDepreciation(ctx context.Context, id string) (domain.Depreciation, error) {
	if err := s.checkID(id, msgDepreciationNotFound); err != nil {
		return domain.Depreciation{}, err
	}
	d, err := s.store.GetDepreciation(ctx, id)
	if err != nil {
		return domain.Depreciation{}, s.fail("GetDepreciation", notFoundAs(err, msgDepreciationNotFound))
	}
	return d, nil
}

// ImportDepreciations cria as baixas linha a linha.
func (s *Service) ImportDepreciations(ctx context.Context, userID string, rows []domain.DepreciationInput) (domain.ImportResult, error) {
	result := domain.ImportResult{Rows: make([]domain.ImportRowResult, 0, len(rows))}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, apperror.NewInternalError("Importação interrompida.", err)
		}
		d, err := s.CreateDepreciation(ctx, userID, row)
		result.Add(i+1, d.ID, err, msgDepreciationImported)
	}

	s.logger.Info("Importação de baixas concluída.", map[string]interface{}{
		"success_count": result.SuccessCount,
		"error_count":   result.ErrorCount,
	})
	return result, nil
}

// --- Aplicação do plano ---

// applyPlan bloqueia os itens em ordem crescente de id e aplica as alterações na ordem do plano.
// insufficientMsg é a mensagem usada quando o saldo ficaria negativo.
func (s *Service) applyPlan(ctx context.Context, tx domain.LedgerTx, plan []ledger.Change, insufficientMsg string) error {
	// Trava os itens em ordem crescente de id para evitar deadlock
	locked := make(map[string]domain.ItemStock, len(plan))
	for _, id := range ledger.ItemIDs(plan) {
		st, err := tx.LockItem(ctx, id)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return err
		}
		locked[id] = st
	}

	for _, c := range plan {
		st, ok := locked[c.ItemID]
		if !ok {
			if c.BestEffort && !s.strictOrphans {
				s.logger.Warn("Item não encontrado ao reverter efeito; estoque pode estar inconsistente.", map[string]interface{}{
					"item_id": c.ItemID,
					"delta":   c.Delta,
				})
				continue
			}
			return apperror.NewNotFoundError(msgItemNotFound)
		}

		// Nenhum passo pode deixar o estoque negativo
		next, err := ledger.Apply(st.CurrentStock, c.Delta)
		if err != nil {
			return apperror.NewInsufficientStockError(insufficientMsg, c.ItemID, st.CurrentStock, -c.Delta)
		}
		if c.Delta == 0 {
			continue
		}
		// Grava com a versão lida; versão divergente é conflito
		if err := tx.SetItemStock(ctx, c.ItemID, next, st.Version); err != nil {
			return err
		}
		locked[c.ItemID] = domain.ItemStock{ID: st.ID, CurrentStock: next, Version: st.Version + 1}

		s.logger.Debug("Estoque ajustado.", map[string]interface{}{
			"item_id":   c.ItemID,
			"delta":     c.Delta,
			"new_stock": next,
		})
	}
	return nil
}

// --- Erros ---

func isNotFound(err error) bool {
	var nf *apperror.NotFoundError
	return errors.As(err, &nf)
}

// notFoundAs troca a mensagem genérica de NotFound do repositório pela mensagem da operação.
func notFoundAs(err error, msg string) error {
	if isNotFound(err) {
		return apperror.NewNotFoundError(msg)
	}
	return err
}

// fail registra falhas inesperadas e garante que todo erro devolvido seja um AppError.
func (s *Service) fail(op string, err error) error {
	var appErr apperror.AppError
	if errors.As(err, &appErr) {
		if _, internal := appErr.(*apperror.InternalError); internal {
			s.logger.Error("Falha no ledger ("+op+").", err)
		}
		return err
	}
	s.logger.Error("Falha inesperada no ledger ("+op+").", err)
	return apperror.NewInternalError("Falha interna ao processar o estoque.", err)
}
