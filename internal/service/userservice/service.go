package userservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hkinventory/internal/domain"
	apperror "hkinventory/internal/errors"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/validation"
)

// UserRepository define o contrato que o Serviço de Usuários espera da camada de Persistência.
type UserRepository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// TokenService é o contrato da camada de token (internal/pkg/token)
type TokenService interface {
	GenerateToken(userID, username, role string) (string, error)
}

// UserService define o serviço de lógica de negócio para a entidade User.
type UserService struct {
	UserRepo UserRepository
	TokenSvc TokenService
	validate *validation.Validator
	logger   logger.Logger
}

// NewService cria uma nova instância do UserService, injetando o Repositório.
func NewService(repo UserRepository, tokenSvc TokenService, validate *validation.Validator, logger logger.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		validate: validate,
		logger:   logger,
	}
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do usuário deve ser um UUID válido.")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}
	return string(hashed), nil
}

// CreateUser cadastra um novo operador. A senha é obrigatória na criação.
func (s *UserService) CreateUser(ctx context.Context, in domain.UserInput) (domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return domain.User{}, err
	}
	if in.Password == "" {
		return domain.User{}, apperror.NewValidationError("O campo 'password' é obrigatório.")
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	status := in.Status
	if status == "" {
		status = domain.StatusActive
	}
	user, err := s.UserRepo.Save(ctx, domain.User{
		Username:     in.Username,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashed,
		Role:         in.Role,
		Status:       status,
	})
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário criado.", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return user, nil
}

// GetUser busca um usuário pelo ID.
func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	if err := checkID(id); err != nil {
		return domain.User{}, err
	}
	return s.UserRepo.FindByID(ctx, id)
}

// ListUsers lista todos os usuários.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.UserRepo.FindAll(ctx)
}

// UpdateUser altera os dados do usuário; senha vazia mantém a atual.
func (s *UserService) UpdateUser(ctx context.Context, id string, in domain.UserInput) (domain.User, error) {
	if err := checkID(id); err != nil {
		return domain.User{}, err
	}
	if err := s.validate.Struct(in); err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:       id,
		Username: in.Username,
		Name:     in.Name,
		Email:    in.Email,
		Role:     in.Role,
		Status:   in.Status,
	}
	if user.Status == "" {
		user.Status = domain.StatusActive
	}
	if in.Password != "" {
		hashed, err := hashPassword(in.Password)
		if err != nil {
			return domain.User{}, err
		}
		user.PasswordHash = hashed
	}
	return s.UserRepo.Update(ctx, user)
}

// DeleteUser remove um usuário sem transações nem baixas registradas.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.UserRepo.Delete(ctx, id)
}

// Login autentica um usuário, verifica a senha e gera um JWT.
func (s *UserService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return domain.LoginResponse{}, apperror.NewUnauthorizedError("Usuário e senha são obrigatórios.")
	}

	user, err := s.UserRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		// NotFound vira Unauthorized para não revelar quais usuários existem.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return domain.LoginResponse{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}
	if user.Status == domain.StatusInactive {
		return domain.LoginResponse{}, apperror.NewForbiddenError("Usuário inativo.")
	}

	tokenString, err := s.TokenSvc.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return domain.LoginResponse{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	now := time.Now().UTC()
	if err := s.UserRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("Não foi possível registrar o último login.", map[string]interface{}{"user_id": user.ID})
	} else {
		user.LastLogin = &now
	}

	s.logger.Info("Login realizado.", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return domain.LoginResponse{Token: tokenString, User: user}, nil
}
