package domain

import "time"

// Supplier representa um fornecedor de itens de governança.
type Supplier struct {
	ID        string    `json:"id"`
	Code      string    `json:"code" validate:"required,max=30"`
	Name      string    `json:"name" validate:"required,min=2,max=150"`
	Contact   string    `json:"contact"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email" validate:"omitempty,email"`
	Address   string    `json:"address"`
	Status    Status    `json:"status" validate:"omitempty,oneof=active inactive"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
