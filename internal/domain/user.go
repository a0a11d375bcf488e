package domain

import "time"

// User representa um operador do sistema (governanta, supervisor, camareira...).
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole   `json:"role"`
	Status       Status     `json:"status"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"
)

// Valid informa se a role é conhecida.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// UserInput é o payload de criação/edição de usuário. Password é opcional na edição.
type UserInput struct {
	Username string   `json:"username" validate:"required,min=3,max=50"`
	Name     string   `json:"name" validate:"required,max=100"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"omitempty,min=6"`
	Role     UserRole `json:"role" validate:"required,oneof=admin manager staff"`
	Status   Status   `json:"status" validate:"omitempty,oneof=active inactive"`
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse é devolvido no login bem-sucedido.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
