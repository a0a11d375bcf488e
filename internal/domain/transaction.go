package domain

import "time"

// TransactionType identifica a natureza do movimento de estoque.
type TransactionType string

const (
	TransactionIn     TransactionType = "in"
	TransactionOut    TransactionType = "out"
	TransactionBorrow TransactionType = "borrow"
	TransactionReturn TransactionType = "return"
)

// Valid informa se o tipo é conhecido.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionIn, TransactionOut, TransactionBorrow, TransactionReturn:
		return true
	}
	return false
}

// TransactionStatus é o ciclo de vida de uma transação.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionApproved  TransactionStatus = "approved"
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Valid informa se o status é conhecido.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionApproved, TransactionCompleted, TransactionCancelled:
		return true
	}
	return false
}

// Transaction é um evento que afeta (ou registra) o estoque de um item.
// Date, DueDate e ReturnDate usam o formato "2006-01-02".
type Transaction struct {
	ID         string            `json:"id"`
	Type       TransactionType   `json:"type"`
	ItemID     string            `json:"item_id"`
	Quantity   int               `json:"quantity"`
	UserID     string            `json:"user_id"`
	SupplierID *string           `json:"supplier_id,omitempty"`
	BorrowerID string            `json:"borrower_id,omitempty"`
	Notes      string            `json:"notes"`
	Status     TransactionStatus `json:"status"`
	Date       string            `json:"date"`
	DueDate    *string           `json:"due_date,omitempty"`
	ReturnDate *string           `json:"return_date,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// TransactionInput é o payload de criação e edição de transações.
// Em uma edição, Status e Date vazios preservam os valores atuais.
type TransactionInput struct {
	Type       TransactionType   `json:"type" validate:"required,oneof=in out borrow return"`
	ItemID     string            `json:"item_id" validate:"required,uuid"`
	Quantity   int               `json:"quantity" validate:"required,gt=0"`
	SupplierID *string           `json:"supplier_id,omitempty" validate:"omitempty,uuid"`
	BorrowerID string            `json:"borrower_id,omitempty" validate:"max=100"`
	Notes      string            `json:"notes" validate:"max=500"`
	Status     TransactionStatus `json:"status,omitempty" validate:"omitempty,oneof=pending approved completed cancelled"`
	Date       string            `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate    *string           `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ReturnDate *string           `json:"return_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// TransactionFilter define os filtros da listagem.
type TransactionFilter struct {
	Type   TransactionType
	Status TransactionStatus
	ItemID string
}
