package supplier

import (
	"context"
	"net/http"

	"hkinventory/internal/domain"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/response"
)

// SupplierService define o contrato que o Handler espera da camada de Serviço.
type SupplierService interface {
	CreateSupplier(ctx context.Context, sup domain.Supplier) (domain.Supplier, error)
	GetSupplier(ctx context.Context, id string) (domain.Supplier, error)
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, id string, sup domain.Supplier) (domain.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
	ImportSuppliers(ctx context.Context, rows []domain.Supplier) (domain.ImportResult, error)
}

// Handler agrupa os handlers de fornecedores.
type Handler struct {
	Service SupplierService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc SupplierService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, msg string, data interface{}, err error, successStatus int) {
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, successStatus, msg, data)
}

// ListSuppliersHandler lida com a requisição GET /v1/suppliers.
// @Summary Lista os fornecedores
// @Tags suppliers
// @Produce json
// @Success 200 {object} domain.Result{data=[]domain.Supplier}
// @Security ApiKeyAuth
// @Router /suppliers [get]
func (h *Handler) ListSuppliersHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListSuppliers(r.Context())
	h.handleServiceResponse(w, r, "Fornecedores listados com sucesso.", list, err, http.StatusOK)
}

// GetSupplierHandler lida com a requisição GET /v1/suppliers/{id}.
// @Summary Obtém um fornecedor por ID
// @Tags suppliers
// @Produce json
// @Param id path string true "ID do fornecedor"
// @Success 200 {object} domain.Result{data=domain.Supplier}
// @Failure 404 {object} domain.Result
// @Security ApiKeyAuth
// @Router /suppliers/{id} [get]
func (h *Handler) GetSupplierHandler(w http.ResponseWriter, r *http.Request) {
	sup, err := h.Service.GetSupplier(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, "Fornecedor encontrado.", sup, err, http.StatusOK)
}

// CreateSupplierHandler lida com a requisição POST /v1/suppliers.
// @Summary Cadastra um fornecedor
// @Tags suppliers
// @Accept json
// @Produce json
// @Param supplier body domain.Supplier true "Dados do fornecedor"
// @Success 201 {object} domain.Result{data=domain.Supplier}
// @Failure 400 {object} domain.Result
// @Security ApiKeyAuth
// @Router /suppliers [post]
func (h *Handler) CreateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	var sup domain.Supplier
	if err := response.Decode(r, &sup); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	created, err := h.Service.CreateSupplier(r.Context(), sup)
	h.handleServiceResponse(w, r, "Fornecedor criado com sucesso.", created, err, http.StatusCreated)
}

// UpdateSupplierHandler lida com a requisição PUT /v1/suppliers/{id}.
// @Summary Atualiza um fornecedor
// @Tags suppliers
// @Accept json
// @Produce json
// @Param id path string true "ID do fornecedor"
// @Param supplier body domain.Supplier true "Dados do fornecedor"
// @Success 200 {object} domain.Result{data=domain.Supplier}
// @Failure 404 {object} domain.Result
// @Security ApiKeyAuth
// @Router /suppliers/{id} [put]
func (h *Handler) UpdateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	var sup domain.Supplier
	if err := response.Decode(r, &sup); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	updated, err := h.Service.UpdateSupplier(r.Context(), r.PathValue("id"), sup)
	h.handleServiceResponse(w, r, "Fornecedor atualizado com sucesso.", updated, err, http.StatusOK)
}

// DeleteSupplierHandler lida com a requisição DELETE /v1/suppliers/{id}.
// @Summary Exclui um fornecedor sem itens nem transações vinculadas
// @Tags suppliers
// @Produce json
// @Param id path string true "ID do fornecedor"
// @Success 200 {object} domain.Result
// @Failure 409 {object} domain.Result
// @Security ApiKeyAuth
// @Router /suppliers/{id} [delete]
func (h *Handler) DeleteSupplierHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteSupplier(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, "Fornecedor excluído com sucesso.", nil, err, http.StatusOK)
}

// ImportSuppliersHandler lida com a requisição POST /v1/suppliers/import.
// @Summary Importa fornecedores em lote
// @Description Cada linha é processada isoladamente; o resultado traz o status por linha.
// @Tags suppliers
// @Accept json
// @Produce json
// @Param rows body []domain.Supplier true "Linhas a importar"
// @Success 200 {object} domain.Result{data=domain.ImportResult}
// @Failure 400 {object} domain.Result "Payload inválido"
// @Security ApiKeyAuth
// @Router /suppliers/import [post]
func (h *Handler) ImportSuppliersHandler(w http.ResponseWriter, r *http.Request) {
	var rows []domain.Supplier
	if err := response.Decode(r, &rows); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	res, err := h.Service.ImportSuppliers(r.Context(), rows)
	h.handleServiceResponse(w, r, "Importação de fornecedores concluída.", res, err, http.StatusOK)
}
