package domain

import "time"

// Item é um artigo controlado pela governança (toalhas, lençóis, amenities...).
// CurrentStock só é alterado pelo ledger depois da criação; Version sustenta o OCC.
type Item struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	CategoryID   string    `json:"category_id"`
	Description  string    `json:"description"`
	Unit         string    `json:"unit"`
	MinStock     int       `json:"min_stock"`
	CurrentStock int       `json:"current_stock"`
	Location     string    `json:"location"`
	SupplierID   string    `json:"supplier_id"`
	Price        float64   `json:"price"`
	Status       Status    `json:"status"`
	ImageURL     string    `json:"image_url,omitempty"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ItemInput é o payload de criação e edição de itens.
// CurrentStock só é lido na criação (estoque inicial); na edição é ignorado.
type ItemInput struct {
	Code         string  `json:"code" validate:"required,max=30"`
	Name         string  `json:"name" validate:"required,min=2,max=150"`
	CategoryID   string  `json:"category_id" validate:"required,uuid"`
	Description  string  `json:"description" validate:"max=1000"`
	Unit         string  `json:"unit" validate:"required,max=20"`
	MinStock     int     `json:"min_stock" validate:"gte=0"`
	CurrentStock int     `json:"current_stock" validate:"gte=0"`
	Location     string  `json:"location" validate:"max=100"`
	SupplierID   string  `json:"supplier_id" validate:"required,uuid"`
	Price        float64 `json:"price" validate:"gte=0"`
	Status       Status  `json:"status" validate:"omitempty,oneof=active inactive"`
	ImageURL     string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

// IsLowStock indica se o item está no mínimo ou abaixo dele.
func (i Item) IsLowStock() bool {
	return i.CurrentStock <= i.MinStock
}
