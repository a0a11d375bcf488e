package transaction

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"hkinventory/internal/domain"
	apperror "hkinventory/internal/errors"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/middleware"
	"hkinventory/internal/pkg/response"
)

// LedgerService define as operações de transação que o Handler usa.
type LedgerService interface {
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (domain.Transaction, error)
	CreateTransaction(ctx context.Context, userID string, in domain.TransactionInput) (domain.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, in domain.TransactionInput) (domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	ReturnBorrowing(ctx context.Context, id string) (domain.Transaction, error)
	ImportTransactions(ctx context.Context, userID string, rows []domain.TransactionInput) (domain.ImportResult, error)
}

// Handler agrupa os handlers de movimentações de estoque.
type Handler struct {
	Service LedgerService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc LedgerService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, msg string, data interface{}, err error, successStatus int) {
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, successStatus, msg, data)
}

func parseFilter(r *http.Request) (domain.TransactionFilter, error) {
	q := r.URL.Query()
	f := domain.TransactionFilter{
		Type:   domain.TransactionType(q.Get("type")),
		Status: domain.TransactionStatus(q.Get("status")),
		ItemID: q.Get("item_id"),
	}
	if f.Type != "" && !f.Type.Valid() {
		return f, apperror.NewValidationError("Filtro 'type' inválido.")
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, apperror.NewValidationError("Filtro 'status' inválido.")
	}
	if f.ItemID != "" {
		if _, err := uuid.Parse(f.ItemID); err != nil {
			return f, apperror.NewValidationError("Filtro 'item_id' deve ser um UUID válido.")
		}
	}
	return f, nil
}

// ListTransactionsHandler lida com a requisição GET /v1/transactions.
// @Summary Lista as transações
// @Tags transactions
// @Produce json
// @Param type query string false "in, out, borrow ou return"
// @Param status query string false "pending, approved, completed ou cancelled"
// @Param item_id query string false "ID do item"
// @Success 200 {object} domain.Result{data=[]domain.Transaction}
// @Failure 400 {object} domain.Result "Filtro inválido"
// @Security ApiKeyAuth
// @Router /transactions [get]
func (h *Handler) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	list, err := h.Service.ListTransactions(r.Context(), filter)
	h.handleServiceResponse(w, r, "Transações listadas com sucesso.", list, err, http.StatusOK)
}

// GetTransactionHandler lida com a requisição GET /v1/transactions/{id}.
// @Summary Obtém uma transação por ID
// @Tags transactions
// @Produce json
// @Param id path string true "ID da transação"
// @Success 200 {object} domain.Result{data=domain.Transaction}
// @Failure 404 {object} domain.Result
// @Security ApiKeyAuth
// @Router /transactions/{id} [get]
func (h *Handler) GetTransactionHandler(w http.ResponseWriter, r *http.Request) {
	t, err := h.Service.GetTransaction(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, "Transação encontrada.", t, err, http.StatusOK)
}

// CreateTransactionHandler lida com a requisição POST /v1/transactions.
// @Summary Registra uma movimentação e aplica o efeito no estoque
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body domain.TransactionInput true "Dados da transação"
// @Success 201 {object} domain.Result{data=domain.Transaction}
// @Failure 400 {object} domain.Result
// @Failure 404 {object} domain.Result "Item não encontrado"
// @Failure 422 {object} domain.Result "Estoque insuficiente"
// @Security ApiKeyAuth
// @Router /transactions [post]
func (h *Handler) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ActingUserID(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}
	var in domain.TransactionInput
	if err := response.Decode(r, &in); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	t, err := h.Service.CreateTransaction(r.Context(), userID, in)
	h.handleServiceResponse(w, r, "Transação criada com sucesso.", t, err, http.StatusCreated)
}

// UpdateTransactionHandler lida com a requisição PUT /v1/transactions/{id}.
// @Summary Altera uma transação, revertendo o efeito antigo e aplicando o novo
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "ID da transação"
// @Param transaction body domain.TransactionInput true "Dados da transação"
// @Success 200 {object} domain.Result{data=domain.Transaction}
// @Failure 404 {object} domain.Result
// @Failure 422 {object} domain.Result "Estoque insuficiente"
// @Security ApiKeyAuth
// @Router /transactions/{id} [put]
func (h *Handler) UpdateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.TransactionInput
	if err := response.Decode(r, &in); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	t, err := h.Service.UpdateTransaction(r.Context(), r.PathValue("id"), in)
	h.handleServiceResponse(w, r, "Transação atualizada com sucesso.", t, err, http.StatusOK)
}

// DeleteTransactionHandler lida com a requisição DELETE /v1/transactions/{id}.
// @Summary Exclui uma transação e reverte seu efeito
// @Tags transactions
// @Produce json
// @Param id path string true "ID da transação"
// @Success 200 {object} domain.Result
// @Failure 404 {object} domain.Result
// @Failure 422 {object} domain.Result "Estoque insuficiente para excluir este registro (entrada já consumida)"
// @Security ApiKeyAuth
// @Router /transactions/{id} [delete]
func (h *Handler) DeleteTransactionHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteTransaction(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, "Transação excluída com sucesso.", nil, err, http.StatusOK)
}

// ReturnBorrowingHandler lida com a requisição POST /v1/transactions/{id}/return.
// @Summary Devolve um empréstimo
// @Description Marca o empréstimo como concluído, registra a data de devolução e repõe a quantidade.
// @Tags transactions
// @Produce json
// @Param id path string true "ID do empréstimo"
// @Success 200 {object} domain.Result{data=domain.Transaction}
// @Failure 404 {object} domain.Result
// @Failure 409 {object} domain.Result "Empréstimo já devolvido"
// @Security ApiKeyAuth
// @Router /transactions/{id}/return [post]
func (h *Handler) ReturnBorrowingHandler(w http.ResponseWriter, r *http.Request) {
	t, err := h.Service.ReturnBorrowing(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, "Item devolvido com sucesso.", t, err, http.StatusOK)
}

// ImportTransactionsHandler lida com a requisição POST /v1/transactions/import.
// @Summary Importa transações em lote
// @Description Linhas sem tipo viram empréstimo. Cada linha é aplicada isoladamente.
// @Tags transactions
// @Accept json
// @Produce json
// @Param rows body []domain.TransactionInput true "Linhas a importar"
// @Success 200 {object} domain.Result{data=domain.ImportResult}
// @Security ApiKeyAuth
// @Router /transactions/import [post]
func (h *Handler) ImportTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ActingUserID(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}
	var rows []domain.TransactionInput
	if err := response.Decode(r, &rows); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	res, err := h.Service.ImportTransactions(r.Context(), userID, rows)
	h.handleServiceResponse(w, r, "Importação de transações concluída.", res, err, http.StatusOK)
}
