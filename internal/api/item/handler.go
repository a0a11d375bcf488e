package item

import (
	"context"
	"net/http"

	"hkinventory/internal/domain"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/response"
)

// ItemService define o contrato que o Handler espera da camada de Serviço.
type ItemService interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	ListLowStock(ctx context.Context) ([]domain.Item, error)
	GetItem(ctx context.Context, id string) (domain.Item, error)
	CreateItem(ctx context.Context, in domain.ItemInput) (domain.Item, error)
	UpdateItem(ctx context.Context, id string, in domain.ItemInput) (domain.Item, error)
	DeleteItem(ctx context.Context, id string) error
	ImportItems(ctx context.Context, rows []domain.ItemInput) (domain.ImportResult, error)
}

// Handler agrupa os handlers de itens de enxoval e amenities.
type Handler struct {
	Service ItemService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ItemService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, msg string, data interface{}, err error, successStatus int) {
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, successStatus, msg, data)
}

// ListItemsHandler lida com a requisição GET /v1/items.
// @Summary Lista os itens
// @Tags items
// @Produce json
// @Success 200 {object} domain.Result{data=[]domain.Item}
// @Security ApiKeyAuth
// @Router /items [get]
func (h *Handler) ListItemsHandler(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListItems(r.Context())
	h.handleServiceResponse(w, r, "Itens listados com sucesso.", items, err, http.StatusOK)
}

// ListLowStockHandler lida com a requisição GET /v1/items/low-stock.
// @Summary Lista os itens ativos no estoque mínimo ou abaixo dele
// @Tags items
// @Produce json
// @Success 200 {object} domain.Result{data=[]domain.Item}
// @Security ApiKeyAuth
// @Router /items/low-stock [get]
func (h *Handler) ListLowStockHandler(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListLowStock(r.Context())
	h.handleServiceResponse(w, r, "Itens com estoque baixo listados com sucesso.", items, err, http.StatusOK)
}

// GetItemHandler lida com a requisição GET /v1/items/{id}.
// @Summary Obtém um item por ID
// @Tags items
// @Produce json
// @Param id path string true "ID do item"
// @Success 200 {object} domain.Result{data=domain.Item}
// @Failure 404 {object} domain.Result "Item não encontrado"
// @Security ApiKeyAuth
// @Router /items/{id} [get]
func (h *Handler) GetItemHandler(w http.ResponseWriter, r *http.Request) {
	it, err := h.Service.GetItem(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, "Item encontrado.", it, err, http.StatusOK)
}

// CreateItemHandler lida com a requisição POST /v1/items.
// @Summary Cadastra um item
// @Description current_stock informado é o estoque inicial; depois disso só o ledger o altera.
// @Tags items
// @Accept json
// @Produce json
// @Param item body domain.ItemInput true "Dados do item"
// @Success 201 {object} domain.Result{data=domain.Item}
// @Failure 400 {object} domain.Result "Payload inválido"
// @Failure 409 {object} domain.Result "Código duplicado"
// @Security ApiKeyAuth
// @Router /items [post]
func (h *Handler) CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.ItemInput
	if err := response.Decode(r, &in); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	it, err := h.Service.CreateItem(r.Context(), in)
	h.handleServiceResponse(w, r, "Item criado com sucesso.", it, err, http.StatusCreated)
}

// UpdateItemHandler lida com a requisição PUT /v1/items/{id}.
// @Summary Atualiza o cadastro de um item
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "ID do item"
// @Param item body domain.ItemInput true "Dados do item"
// @Success 200 {object} domain.Result{data=domain.Item}
// @Failure 404 {object} domain.Result "Item não encontrado"
// @Security ApiKeyAuth
// @Router /items/{id} [put]
func (h *Handler) UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.ItemInput
	if err := response.Decode(r, &in); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	it, err := h.Service.UpdateItem(r.Context(), r.PathValue("id"), in)
	h.handleServiceResponse(w, r, "Item atualizado com sucesso.", it, err, http.StatusOK)
}

// DeleteItemHandler lida com a requisição DELETE /v1/items/{id}.
// @Summary Exclui um item sem transações nem baixas
// @Tags items
// @Produce json
// @Param id path string true "ID do item"
// @Success 200 {object} domain.Result
// @Failure 409 {object} domain.Result "Item possui dependentes"
// @Security ApiKeyAuth
// @Router /items/{id} [delete]
func (h *Handler) DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteItem(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, "Item excluído com sucesso.", nil, err, http.StatusOK)
}

// ImportItemsHandler lida com a requisição POST /v1/items/import.
// @Summary Importa itens em lote
// @Description Cada linha é processada isoladamente; o resultado traz o status por linha.
// @Tags items
// @Accept json
// @Produce json
// @Param rows body []domain.ItemInput true "Linhas a importar"
// @Success 200 {object} domain.Result{data=domain.ImportResult}
// @Security ApiKeyAuth
// @Router /items/import [post]
func (h *Handler) ImportItemsHandler(w http.ResponseWriter, r *http.Request) {
	var rows []domain.ItemInput
	if err := response.Decode(r, &rows); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	res, err := h.Service.ImportItems(r.Context(), rows)
	h.handleServiceResponse(w, r, "Importação de itens concluída.", res, err, http.StatusOK)
}
