package category

import (
	"context"
	"net/http"

	"hkinventory/internal/domain"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/response"
)

// CategoryService define o contrato que o Handler espera da camada de Serviço.
type CategoryService interface {
	CreateCategory(ctx context.Context, c domain.Category) (domain.Category, error)
	GetCategory(ctx context.Context, id string) (domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, id string, c domain.Category) (domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Handler agrupa os handlers de categorias.
type Handler struct {
	Service CategoryService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc CategoryService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, msg string, data interface{}, err error, successStatus int) {
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, successStatus, msg, data)
}

// ListCategoriesHandler lida com a requisição GET /v1/categories.
// @Summary Lista as categorias
// @Tags categories
// @Produce json
// @Success 200 {object} domain.Result{data=[]domain.Category}
// @Security ApiKeyAuth
// @Router /categories [get]
func (h *Handler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListCategories(r.Context())
	h.handleServiceResponse(w, r, "Categorias listadas com sucesso.", list, err, http.StatusOK)
}

// GetCategoryHandler lida com a requisição GET /v1/categories/{id}.
// @Summary Obtém uma categoria por ID
// @Tags categories
// @Produce json
// @Param id path string true "ID da categoria"
// @Success 200 {object} domain.Result{data=domain.Category}
// @Failure 404 {object} domain.Result
// @Security ApiKeyAuth
// @Router /categories/{id} [get]
func (h *Handler) GetCategoryHandler(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.GetCategory(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, "Categoria encontrada.", c, err, http.StatusOK)
}

// CreateCategoryHandler lida com a requisição POST /v1/categories.
// @Summary Cria uma categoria
// @Tags categories
// @Accept json
// @Produce json
// @Param category body domain.Category true "Dados da categoria"
// @Success 201 {object} domain.Result{data=domain.Category}
// @Failure 400 {object} domain.Result
// @Failure 409 {object} domain.Result "Código duplicado"
// @Security ApiKeyAuth
// @Router /categories [post]
func (h *Handler) CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var c domain.Category
	if err := response.Decode(r, &c); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	created, err := h.Service.CreateCategory(r.Context(), c)
	h.handleServiceResponse(w, r, "Categoria criada com sucesso.", created, err, http.StatusCreated)
}

// UpdateCategoryHandler lida com a requisição PUT /v1/categories/{id}.
// @Summary Atualiza uma categoria
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "ID da categoria"
// @Param category body domain.Category true "Dados da categoria"
// @Success 200 {object} domain.Result{data=domain.Category}
// @Failure 404 {object} domain.Result
// @Security ApiKeyAuth
// @Router /categories/{id} [put]
func (h *Handler) UpdateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var c domain.Category
	if err := response.Decode(r, &c); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	updated, err := h.Service.UpdateCategory(r.Context(), r.PathValue("id"), c)
	h.handleServiceResponse(w, r, "Categoria atualizada com sucesso.", updated, err, http.StatusOK)
}

// DeleteCategoryHandler lida com a requisição DELETE /v1/categories/{id}.
// @Summary Exclui uma categoria sem itens vinculados
// @Tags categories
// @Produce json
// @Param id path string true "ID da categoria"
// @Success 200 {object} domain.Result
// @Failure 409 {object} domain.Result "Categoria possui itens"
// @Security ApiKeyAuth
// @Router /categories/{id} [delete]
func (h *Handler) DeleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteCategory(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, "Categoria excluída com sucesso.", nil, err, http.StatusOK)
}
