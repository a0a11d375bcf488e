package domain

import "context"

// ItemStock é a visão do item que o ledger precisa: saldo e versão para o OCC.
type ItemStock struct {
	ID           string
	CurrentStock int
	Version      int
}

// LedgerStore é a persistência transacional do ledger de estoque.
// Tudo que acontece dentro de WithinTx é confirmado junto ou desfeito junto.
type LedgerStore interface {
	WithinTx(ctx context.Context, fn func(tx LedgerTx) error) error

	ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error)
	GetTransaction(ctx context.Context, id string) (Transaction, error)
	ListDepreciations(ctx context.Context) ([]Depreciation, error)
	GetDepreciation(ctx context.Context, id string) (Depreciation, error)
}

// LedgerTx são as operações disponíveis dentro de uma unidade do ledger.
// Os métodos Lock* bloqueiam a linha (SELECT ... FOR UPDATE) até o fim da unidade
// e devolvem NotFoundError quando ela não existe.
type LedgerTx interface {
	LockItem(ctx context.Context, id string) (ItemStock, error)
	// SetItemStock grava o saldo se a versão ainda for expectedVersion; senão ConflictError.
	SetItemStock(ctx context.Context, id string, stock, expectedVersion int) error

	LockTransaction(ctx context.Context, id string) (Transaction, error)
	InsertTransaction(ctx context.Context, t *Transaction) error
	UpdateTransaction(ctx context.Context, t *Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	LockDepreciation(ctx context.Context, id string) (Depreciation, error)
	InsertDepreciation(ctx context.Context, d *Depreciation) error
	UpdateDepreciation(ctx context.Context, d *Depreciation) error
	DeleteDepreciation(ctx context.Context, id string) error
}
