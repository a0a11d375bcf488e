package domain

import "time"

// Status é o estado cadastral compartilhado por categorias, fornecedores, usuários e itens.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid informa se o status é um dos valores aceitos. Vazio é tratado como "active" pelos serviços.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Category agrupa itens da governança (e.g., "Linen", "Amenities").
type Category struct {
	ID          string    `json:"id"`
	Code        string    `json:"code" validate:"required,max=30"`
	Name        string    `json:"name" validate:"required,min=2,max=100"`
	Description string    `json:"description"`
	Status      Status    `json:"status" validate:"omitempty,oneof=active inactive"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
