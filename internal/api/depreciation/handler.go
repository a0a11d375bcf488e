package depreciation

import (
	"context"
	"net/http"

	"hkinventory/internal/domain"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/middleware"
	"hkinventory/internal/pkg/response"
)

// LedgerService define as operações de baixa que o Handler usa.
type LedgerService interface {
	ListDepreciations(ctx context.Context) ([]domain.Depreciation, error)
	GetDepreciation(ctx context.Context, id string) (domain.Depreciation, error)
	CreateDepreciation(ctx context.Context, userID string, in domain.DepreciationInput) (domain.Depreciation, error)
	UpdateDepreciation(ctx context.Context, id string, in domain.DepreciationInput) (domain.Depreciation, error)
	DeleteDepreciation(ctx context.Context, id string) error
	ImportDepreciations(ctx context.Context, userID string, rows []domain.DepreciationInput) (domain.ImportResult, error)
}

// Handler agrupa os handlers de baixas (perdas, avarias, descarte).
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

// ListDepreciationsHandler lida com a requisição GET /v1/depreciations.
// @Summary Lista as baixas
// @Tags depreciations
// @Produce json
// @Success 200 {object} domain.Result{data=[]domain.Depreciation}
// @Security ApiKeyAuth
// @Router /depreciations [get]
func (h *Handler) ListDepreciationsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListDepreciations(r.Context())
	h.handleServiceResponse(w, r, "Baixas listadas com sucesso.", list, err, http.StatusOK)
}

// GetDepreciationHandler lida com a requisição GET /v1/depreciations/{id}.
// @Summary Obtém uma baixa por ID
// @Tags depreciations
// @Produce json
// @Param id path string true "ID da baixa"
// @Success 200 {object} domain.Result{data=domain.Depreciation}
// @Failure 404 {object} domain.Result
// @Security ApiKeyAuth
// @Router /depreciations/{id} [get]
func (h *Handler) GetDepreciationHandler(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.GetDepreciation(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, "Baixa encontrada.", d, err, http.StatusOK)
}

// CreateDepreciationHandler lida com a requisição POST /v1/depreciations.
// @Summary Registra uma baixa e subtrai a quantidade do item
// @Tags depreciations
// @Accept json
// @Produce json
// @Param depreciation body domain.DepreciationInput true "Dados da baixa"
// @Success 201 {object} domain.Result{data=domain.Depreciation}
// @Failure 400 {object} domain.Result
// @Failure 422 {object} domain.Result "Estoque insuficiente"
// @Security ApiKeyAuth
// @Router /depreciations [post]
func (h *Handler) CreateDepreciationHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ActingUserID(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}
	var in domain.DepreciationInput
	if err := response.Decode(r, &in); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	d, err := h.Service.CreateDepreciation(r.Context(), userID, in)
	h.handleServiceResponse(w, r, "Baixa registrada com sucesso.", d, err, http.StatusCreated)
}

// UpdateDepreciationHandler lida com a requisição PUT /v1/depreciations/{id}.
// @Summary Altera uma baixa
// @Tags depreciations
// @Accept json
// @Produce json
// @Param id path string true "ID da baixa"
// @Param depreciation body domain.DepreciationInput true "Dados da baixa"
// @Success 200 {object} domain.Result{data=domain.Depreciation}
// @Failure 404 {object} domain.Result
// @Failure 422 {object} domain.Result "Estoque insuficiente"
// @Security ApiKeyAuth
// @Router /depreciations/{id} [put]
func (h *Handler) UpdateDepreciationHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.DepreciationInput
	if err := response.Decode(r, &in); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	d, err := h.Service.UpdateDepreciation(r.Context(), r.PathValue("id"), in)
	h.handleServiceResponse(w, r, "Baixa atualizada com sucesso.", d, err, http.StatusOK)
}

// DeleteDepreciationHandler lida com a requisição DELETE /v1/depreciations/{id}.
// @Summary Exclui uma baixa e devolve a quantidade ao item
// @Tags depreciations
// @Produce json
// @Param id path string true "ID da baixa"
// @Success 200 {object} domain.Result
// @Failure 404 {object} domain.Result
// @Security ApiKeyAuth
// @Router /depreciations/{id} [delete]
func (h *Handler) DeleteDepreciationHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteDepreciation(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, "Baixa excluída com sucesso.", nil, err, http.StatusOK)
}

// ImportDepreciationsHandler lida com a requisição POST /v1/depreciations/import.
// @Summary Importa baixas em lote
// @Tags depreciations
// @Accept json
// @Produce json
// @Param rows body []domain.DepreciationInput true "Linhas a importar"
// @Success 200 {object} domain.Result{data=domain.ImportResult}
// @Security ApiKeyAuth
// @Router /depreciations/import [post]
func (h *Handler) ImportDepreciationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ActingUserID(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}
	var rows []domain.DepreciationInput
	if err := response.Decode(r, &rows); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	res, err := h.Service.ImportDepreciations(r.Context(), userID, rows)
	h.handleServiceResponse(w, r, "Importação de baixas concluída.", res, err, http.StatusOK)
}
