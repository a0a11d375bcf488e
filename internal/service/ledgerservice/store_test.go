package ledgerservice_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hkinventory/internal/domain"
	apperror "hkinventory/internal/errors"
)

// memStore é um LedgerStore em memória: cada WithinTx trabalha numa cópia
// do estado, descartada se a função devolver erro.
type memStore struct {
	mu        sync.Mutex
	items     map[string]domain.ItemStock
	txs       map[string]domain.Transaction
	deps      map[string]domain.Depreciation
	lockOrder []string
}

func newMemStore() *memStore {
	return &memStore{
		items: map[string]domain.ItemStock{},
		txs:   map[string]domain.Transaction{},
		deps:  map[string]domain.Depreciation{},
	}
}

func (m *memStore) addItem(id string, stock int) {
	m.items[id] = domain.ItemStock{ID: id, CurrentStock: stock, Version: 1}
}

func (m *memStore) stock(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id].CurrentStock
}

func (m *memStore) WithinTx(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := &memTx{
		store: m,
		items: make(map[string]domain.ItemStock, len(m.items)),
		txs:   make(map[string]domain.Transaction, len(m.txs)),
		deps:  make(map[string]domain.Depreciation, len(m.deps)),
	}
	for k, v := range m.items {
		w.items[k] = v
	}
	for k, v := range m.txs {
		w.txs[k] = v
	}
	for k, v := range m.deps {
		w.deps[k] = v
	}

	if err := fn(w); err != nil {
		return err
	}
	m.items, m.txs, m.deps = w.items, w.txs, w.deps
	return nil
}

func (m *memStore) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Transaction
	for _, t := range m.txs {
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.ItemID != "" && t.ItemID != filter.ItemID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.txs[id]
	if !ok {
		return domain.Transaction{}, apperror.NewNotFoundError("transação não encontrada")
	}
	return t, nil
}

func (m *memStore) ListDepreciations(ctx context.Context) ([]domain.Depreciation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Depreciation
	for _, d := range m.deps {
		out = append(out, d)
	}
	return out, nil
}

func (m *memStore) GetDepreciation(ctx context.Context, id string) (domain.Depreciation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deps[id]
	if !ok {
		return domain.Depreciation{}, apperror.NewNotFoundError("baixa não encontrada")
	}
	return d, nil
}

type memTx struct {
	store *memStore
	items map[string]domain.ItemStock
	txs   map[string]domain.Transaction
	deps  map[string]domain.Depreciation
}

func (w *memTx) LockItem(ctx context.Context, id string) (domain.ItemStock, error) {
	w.store.lockOrder = append(w.store.lockOrder, id)
	st, ok := w.items[id]
	if !ok {
		return domain.ItemStock{}, apperror.NewNotFoundError("item não encontrado")
	}
	return st, nil
}

func (w *memTx) SetItemStock(ctx context.Context, id string, stock, expectedVersion int) error {
	st, ok := w.items[id]
	if !ok || st.Version != expectedVersion {
		return apperror.NewConflictError("O estoque foi modificado por outra operação. Tente novamente.")
	}
	w.items[id] = domain.ItemStock{ID: id, CurrentStock: stock, Version: expectedVersion + 1}
	return nil
}

func (w *memTx) LockTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	t, ok := w.txs[id]
	if !ok {
		return domain.Transaction{}, apperror.NewNotFoundError("transação não encontrada")
	}
	return t, nil
}

func (w *memTx) InsertTransaction(ctx context.Context, t *domain.Transaction) error {
	t.ID = uuid.New().String()
	w.txs[t.ID] = *t
	return nil
}

func (w *memTx) UpdateTransaction(ctx context.Context, t *domain.Transaction) error {
	w.txs[t.ID] = *t
	return nil
}

func (w *memTx) DeleteTransaction(ctx context.Context, id string) error {
	delete(w.txs, id)
	return nil
}

func (w *memTx) LockDepreciation(ctx context.Context, id string) (domain.Depreciation, error) {
	d, ok := w.deps[id]
	if !ok {
		return domain.Depreciation{}, apperror.NewNotFoundError("baixa não encontrada")
	}
	return d, nil
}

func (w *memTx) InsertDepreciation(ctx context.Context, d *domain.Depreciation) error {
	d.ID = uuid.New().String()
	w.deps[d.ID] = *d
	return nil
}

func (w *memTx) UpdateDepreciation(ctx context.Context, d *domain.Depreciation) error {
	w.deps[d.ID] = *d
	return nil
}

func (w *memTx) DeleteDepreciation(ctx context.Context, id string) error {
	delete(w.deps, id)
	return nil
}

// MockLedgerStore é um mock testify do LedgerStore, usado nos caminhos de erro de infraestrutura.
type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) WithinTx(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func (m *MockLedgerStore) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]domain.Transaction)
	return list, args.Error(1)
}

func (m *MockLedgerStore) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *MockLedgerStore) ListDepreciations(ctx context.Context) ([]domain.Depreciation, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]domain.Depreciation)
	return list, args.Error(1)
}

func (m *MockLedgerStore) GetDepreciation(ctx context.Context, id string) (domain.Depreciation, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Depreciation), args.Error(1)
}
