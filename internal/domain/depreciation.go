package domain

import "time"

// DepreciationStatus é o ciclo de vida de uma baixa.
type DepreciationStatus string

const (
	DepreciationPending   DepreciationStatus = "pending"
	DepreciationCompleted DepreciationStatus = "completed"
)

// Depreciation registra itens baixados do estoque (rasgados, manchados, extraviados).
// Sempre diminui o estoque.
type Depreciation struct {
	ID        string             `json:"id"`
	ItemID    string             `json:"item_id"`
	Quantity  int                `json:"quantity"`
	Reason    string             `json:"reason"`
	UserID    string             `json:"user_id"`
	Status    DepreciationStatus `json:"status"`
	Date      string             `json:"date"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// DepreciationInput é o payload de criação e edição de baixas.
type DepreciationInput struct {
	ItemID   string             `json:"item_id" validate:"required,uuid"`
	Quantity int                `json:"quantity" validate:"required,gt=0"`
	Reason   string             `json:"reason" validate:"required,max=500"`
	Status   DepreciationStatus `json:"status,omitempty" validate:"omitempty,oneof=pending completed"`
	Date     string             `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
