package user

import (
	"context"
	"net/http"

	"hkinventory/internal/domain"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/response"
)

// UserService define o contrato para login e administração de operadores.
type UserService interface {
	Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
	CreateUser(ctx context.Context, in domain.UserInput) (domain.User, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id string, in domain.UserInput) (domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
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

// LoginUserHandler lida com a requisição POST /v1/login.
// @Summary Autentica um operador e retorna um JWT
// @Tags users
// @Accept json
// @Produce json
// @Param login body domain.LoginRequest true "Credenciais (username e senha)"
// @Success 200 {object} domain.Result{data=domain.LoginResponse} "Token JWT emitido"
// @Failure 400 {object} domain.Result "Payload inválido"
// @Failure 401 {object} domain.Result "Credenciais inválidas"
// @Failure 403 {object} domain.Result "Usuário inativo"
// @Router /login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := response.Decode(r, &req); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	res, err := h.Service.Login(r.Context(), req)
	h.handleServiceResponse(w, r, "Login realizado com sucesso.", res, err, http.StatusOK)
}

// ListUsersHandler lida com a requisição GET /v1/users.
// @Summary Lista os operadores
// @Tags users
// @Produce json
// @Success 200 {object} domain.Result{data=[]domain.User}
// @Security ApiKeyAuth
// @Router /users [get]
func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsers(r.Context())
	h.handleServiceResponse(w, r, "Usuários listados com sucesso.", users, err, http.StatusOK)
}

// GetUserHandler lida com a requisição GET /v1/users/{id}.
// @Summary Obtém um operador por ID
// @Tags users
// @Produce json
// @Param id path string true "ID do usuário"
// @Success 200 {object} domain.Result{data=domain.User}
// @Failure 404 {object} domain.Result
// @Security ApiKeyAuth
// @Router /users/{id} [get]
func (h *Handler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.GetUser(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, "Usuário encontrado.", u, err, http.StatusOK)
}

// CreateUserHandler lida com a requisição POST /v1/users.
// @Summary Cadastra um operador
// @Description A senha é obrigatória e armazenada com bcrypt.
// @Tags users
// @Accept json
// @Produce json
// @Param user body domain.UserInput true "Dados do usuário"
// @Success 201 {object} domain.Result{data=domain.User}
// @Failure 400 {object} domain.Result
// @Failure 409 {object} domain.Result "Username ou e-mail já cadastrado"
// @Security ApiKeyAuth
// @Router /users [post]
func (h *Handler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.UserInput
	if err := response.Decode(r, &in); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	created, err := h.Service.CreateUser(r.Context(), in)
	h.handleServiceResponse(w, r, "Usuário criado com sucesso.", created, err, http.StatusCreated)
}

// UpdateUserHandler lida com a requisição PUT /v1/users/{id}.
// @Summary Atualiza um operador
// @Description Senha vazia mantém a senha atual.
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "ID do usuário"
// @Param user body domain.UserInput true "Dados do usuário"
// @Success 200 {object} domain.Result{data=domain.User}
// @Failure 404 {object} domain.Result
// @Security ApiKeyAuth
// @Router /users/{id} [put]
func (h *Handler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.UserInput
	if err := response.Decode(r, &in); err != nil {
		h.handleServiceResponse(w, r, "", nil, err, 0)
		return
	}

	updated, err := h.Service.UpdateUser(r.Context(), r.PathValue("id"), in)
	h.handleServiceResponse(w, r, "Usuário atualizado com sucesso.", updated, err, http.StatusOK)
}

// DeleteUserHandler lida com a requisição DELETE /v1/users/{id}.
// @Summary Exclui um operador sem transações nem baixas registradas
// @Tags users
// @Produce json
// @Param id path string true "ID do usuário"
// @Success 200 {object} domain.Result
// @Failure 409 {object} domain.Result
// @Security ApiKeyAuth
// @Router /users/{id} [delete]
func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteUser(r.Context(), r.PathValue("id"))
	h.handleServiceResponse(w, r, "Usuário excluído com sucesso.", nil, err, http.StatusOK)
}
