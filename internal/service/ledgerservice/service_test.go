package ledgerservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hkinventory/internal/domain"
	apperror "hkinventory/internal/errors"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/validation"
	"hkinventory/internal/service/ledgerservice"
)

const (
	towelID = "1b6f1c9e-0c1f-4b8a-9f43-5a9c2b1d0a01"
	sheetID = "7d2e8a41-5c3b-4e9f-8a10-3f6b2c9d4e02"
	userID  = "c0ffee00-1111-4222-8333-444455556666"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newService(store domain.LedgerStore, opts ...ledgerservice.Option) *ledgerservice.Service {
	opts = append([]ledgerservice.Option{ledgerservice.WithClock(func() time.Time { return fixedNow })}, opts...)
	return ledgerservice.NewService(store, validation.New(), logger.NewNop(), opts...)
}

// baseline devolve um store com 10 toalhas e 20 lençóis.
func baseline() *memStore {
	store := newMemStore()
	store.addItem(towelID, 10)
	store.addItem(sheetID, 20)
	return store
}

func movement(t domain.TransactionType, itemID string, qty int) domain.TransactionInput {
	return domain.TransactionInput{Type: t, ItemID: itemID, Quantity: qty}
}

func TestCreateTransaction_InAddsStock(t *testing.T) {
	store := baseline()
	svc := newService(store)

	tx, err := svc.CreateTransaction(context.Background(), userID, movement(domain.TransactionIn, towelID, 4))

	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, domain.TransactionCompleted, tx.Status)
	assert.Equal(t, "2026-03-14", tx.Date)
	assert.Equal(t, userID, tx.UserID)
	assert.Equal(t, 14, store.stock(towelID))
}

func TestCreateTransaction_OutBeyondStockIsRejected(t *testing.T) {
	store := baseline()
	svc := newService(store)

	_, err := svc.CreateTransaction(context.Background(), userID, movement(domain.TransactionOut, towelID, 11))

	require.Error(t, err)
	var insufficient *apperror.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Estoque insuficiente.", insufficient.Error())
	assert.Equal(t, 10, insufficient.Available)
	assert.Equal(t, 11, insufficient.Requested)
	assert.Equal(t, 10, store.stock(towelID))
	assert.Empty(t, store.txs)
}

func TestCreateTransaction_OutOfExactStockReachesZero(t *testing.T) {
	store := baseline()
	svc := newService(store)

	_, err := svc.CreateTransaction(context.Background(), userID, movement(domain.TransactionOut, towelID, 10))

	require.NoError(t, err)
	assert.Zero(t, store.stock(towelID))
}

func TestCreateTransaction_ReturnOnlyRecords(t *testing.T) {
	store := baseline()
	svc := newService(store)

	_, err := svc.CreateTransaction(context.Background(), userID, movement(domain.TransactionReturn, towelID, 3))

	require.NoError(t, err)
	assert.Equal(t, 10, store.stock(towelID))
	assert.Len(t, store.txs, 1)
}

func TestCreateTransaction_UnknownItem(t *testing.T) {
	store := baseline()
	svc := newService(store)

	_, err := svc.CreateTransaction(context.Background(), userID,
		movement(domain.TransactionIn, "9a9a9a9a-0000-4000-8000-000000000000", 1))

	require.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	assert.Equal(t, "Item não encontrado.", err.Error())
}

func TestCreateTransaction_InvalidPayload(t *testing.T) {
	svc := newService(baseline())

	_, err := svc.CreateTransaction(context.Background(), userID, movement(domain.TransactionOut, towelID, 0))

	require.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

func TestBorrowThenDeleteRestoresStock(t *testing.T) {
	store := baseline()
	svc := newService(store)
	ctx := context.Background()

	borrow, err := svc.CreateTransaction(ctx, userID, movement(domain.TransactionBorrow, towelID, 3))
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionPending, borrow.Status)
	assert.Equal(t, 7, store.stock(towelID))

	require.NoError(t, svc.DeleteTransaction(ctx, borrow.ID))
	assert.Equal(t, 10, store.stock(towelID))
	assert.Empty(t, store.txs)
}

func TestUpdateTransaction_NoopKeepsStock(t *testing.T) {
	store := baseline()
	svc := newService(store)
	ctx := context.Background()

	in := movement(domain.TransactionOut, towelID, 4)
	out, err := svc.CreateTransaction(ctx, userID, in)
	require.NoError(t, err)
	require.Equal(t, 6, store.stock(towelID))

	_, err = svc.UpdateTransaction(ctx, out.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 6, store.stock(towelID))
}

func TestUpdateTransaction_BorrowReducedFromFiveToTwo(t *testing.T) {
	store := baseline()
	svc := newService(store)
	ctx := context.Background()

	borrow, err := svc.CreateTransaction(ctx, userID, movement(domain.TransactionBorrow, towelID, 5))
	require.NoError(t, err)
	require.Equal(t, 5, store.stock(towelID))

	updated, err := svc.UpdateTransaction(ctx, borrow.ID, movement(domain.TransactionBorrow, towelID, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Quantity)
	assert.Equal(t, domain.TransactionPending, updated.Status)
	assert.Equal(t, 8, store.stock(towelID))
}

func TestUpdateTransaction_IncreaseChecksPostReversionStock(t *testing.T) {
	store := baseline()
	svc := newService(store)
	ctx := context.Background()

	out, err := svc.CreateTransaction(ctx, userID, movement(domain.TransactionOut, towelID, 6))
	require.NoError(t, err)
	require.Equal(t, 4, store.stock(towelID))

	// revertido o saldo volta a 10, então 10 cabe e 11 não
	_, err = svc.UpdateTransaction(ctx, out.ID, movement(domain.TransactionOut, towelID, 10))
	require.NoError(t, err)
	assert.Zero(t, store.stock(towelID))

	_, err = svc.UpdateTransaction(ctx, out.ID, movement(domain.TransactionOut, towelID, 11))
	require.Error(t, err)
	assert.Equal(t, "Estoque insuficiente para esta alteração.", err.Error())
	assert.Zero(t, store.stock(towelID))
	assert.Equal(t, 10, store.txs[out.ID].Quantity)
}

func TestUpdateTransaction_ReversionCannotGoNegative(t *testing.T) {
	store := baseline()
	svc := newService(store)
	ctx := context.Background()

	in, err := svc.CreateTransaction(ctx, userID, movement(domain.TransactionIn, towelID, 10))
	require.NoError(t, err)
	_, err = svc.CreateTransaction(ctx, userID, movement(domain.TransactionOut, towelID, 18))
	require.NoError(t, err)
	require.Equal(t, 2, store.stock(towelID))

	_, err = svc.UpdateTransaction(ctx, in.ID, movement(domain.TransactionIn, towelID, 3))

	var insufficient *apperror.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, store.stock(towelID))
}

func TestUpdateTransaction_MoveToAnotherItem(t *testing.T) {
	store := baseline()
	svc := newService(store)
	ctx := context.Background()

	borrow, err := svc.CreateTransaction(ctx, userID, movement(domain.TransactionBorrow, towelID, 5))
	require.NoError(t, err)

	store.lockOrder = nil
	_, err = svc.UpdateTransaction(ctx, borrow.ID, movement(domain.TransactionBorrow, sheetID, 2))
	require.NoError(t, err)

	assert.Equal(t, 10, store.stock(towelID))
	assert.Equal(t, 18, store.stock(sheetID))
	assert.Equal(t, []string{towelID, sheetID}, store.lockOrder, "itens bloqueados em ordem crescente de id")
}

func TestUpdateTransaction_MoveFromVanishedItem(t *testing.T) {
	store := baseline()
	ctx := context.Background()

	borrow, err := newService(store).CreateTransaction(ctx, userID, movement(domain.TransactionBorrow, towelID, 5))
	require.NoError(t, err)
	delete(store.items, towelID)

	t.Run("best-effort segue com aviso", func(t *testing.T) {
		_, err := newService(store).UpdateTransaction(ctx, borrow.ID, movement(domain.TransactionBorrow, sheetID, 2))
		require.NoError(t, err)
		assert.Equal(t, 18, store.stock(sheetID))
	})

	t.Run("modo estrito desfaz tudo", func(t *testing.T) {
		strict := newService(store, ledgerservice.WithStrictOrphans(true))
		before := store.txs[borrow.ID]
		before.ItemID = towelID
		store.txs[borrow.ID] = before

		_, err := strict.UpdateTransaction(ctx, borrow.ID, movement(domain.TransactionBorrow, sheetID, 4))
		require.Error(t, err)
		assert.IsType(t, &apperror.NotFoundError{}, err)
		assert.Equal(t, 18, store.stock(sheetID))
		assert.Equal(t, towelID, store.txs[borrow.ID].ItemID)
	})
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	svc := newService(baseline())

	_, err := svc.UpdateTransaction(context.Background(), "nope", movement(domain.TransactionIn, towelID, 1))

	require.Error(t, err)
	assert.Equal(t, "Transação não encontrada.", err.Error())
}

func TestDeleteTransaction_VanishedItemStillDeletes(t *testing.T) {
	store := baseline()
	ctx := context.Background()
	svc := newService(store)

	out, err := svc.CreateTransaction(ctx, userID, movement(domain.TransactionOut, towelID, 2))
	require.NoError(t, err)
	delete(store.items, towelID)

	require.NoError(t, svc.DeleteTransaction(ctx, out.ID))
	assert.Empty(t, store.txs)
}

func TestReturnBorrowing(t *testing.T) {
	store := baseline()
	svc := newService(store)
	ctx := context.Background()

	borrow, err := svc.CreateTransaction(ctx, userID, movement(domain.TransactionBorrow, towelID, 3))
	require.NoError(t, err)
	require.Equal(t, 7, store.stock(towelID))

	returned, err := svc.ReturnBorrowing(ctx, borrow.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionCompleted, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, "2026-03-14", *returned.ReturnDate)
	assert.Equal(t, 10, store.stock(towelID))

	_, err = svc.ReturnBorrowing(ctx, borrow.ID)
	require.Error(t, err)
	assert.IsType(t, &apperror.AlreadyReturnedError{}, err)
	assert.Equal(t, "Empréstimo já foi devolvido.", err.Error())
	assert.Equal(t, 10, store.stock(towelID))

	// excluir o empréstimo já devolvido não mexe no estoque
	require.NoError(t, svc.DeleteTransaction(ctx, borrow.ID))
	assert.Equal(t, 10, store.stock(towelID))
}

func TestReturnBorrowing_OnlyBorrows(t *testing.T) {
	store := baseline()
	svc := newService(store)
	ctx := context.Background()

	out, err := svc.CreateTransaction(ctx, userID, movement(domain.TransactionOut, towelID, 1))
	require.NoError(t, err)

	_, err = svc.ReturnBorrowing(ctx, out.ID)
	require.Error(t, err)
	assert.Equal(t, "Transação de empréstimo não encontrada.", err.Error())
	assert.Equal(t, 9, store.stock(towelID))

	_, err = svc.ReturnBorrowing(ctx, "inexistente")
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestDepreciationLifecycle(t *testing.T) {
	store := baseline()
	svc := newService(store)
	ctx := context.Background()

	in := domain.DepreciationInput{ItemID: towelID, Quantity: 2, Reason: "manchada"}
	d, err := svc.CreateDepreciation(ctx, userID, in)
	require.NoError(t, err)
	assert.Equal(t, domain.DepreciationCompleted, d.Status)
	assert.Equal(t, 8, store.stock(towelID))

	in.Quantity = 5
	_, err = svc.UpdateDepreciation(ctx, d.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 5, store.stock(towelID))

	in.ItemID = sheetID
	_, err = svc.UpdateDepreciation(ctx, d.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 10, store.stock(towelID))
	assert.Equal(t, 15, store.stock(sheetID))

	require.NoError(t, svc.DeleteDepreciation(ctx, d.ID))
	assert.Equal(t, 20, store.stock(sheetID))
	assert.Empty(t, store.deps)
}

func TestCreateDepreciation_Insufficient(t *testing.T) {
	store := baseline()
	svc := newService(store)

	_, err := svc.CreateDepreciation(context.Background(), userID,
		domain.DepreciationInput{ItemID: towelID, Quantity: 11, Reason: "extraviada"})

	require.Error(t, err)
	assert.Equal(t, "Estoque insuficiente para a baixa.", err.Error())
	assert.Equal(t, 10, store.stock(towelID))
	assert.Empty(t, store.deps)
}

func TestImportTransactions_RowByRow(t *testing.T) {
	store := baseline()
	svc := newService(store)

	rows := []domain.TransactionInput{
		{ItemID: towelID, Quantity: 4}, // sem tipo: empréstimo
		movement(domain.TransactionOut, towelID, 50),
		movement(domain.TransactionIn, sheetID, 5),
	}
	result, err := svc.ImportTransactions(context.Background(), userID, rows)

	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Rows, 3)
	assert.True(t, result.Rows[0].Success)
	assert.False(t, result.Rows[1].Success)
	assert.Equal(t, 2, result.Rows[1].Row)
	assert.Equal(t, 6, store.stock(towelID))
	assert.Equal(t, 25, store.stock(sheetID))

	imported := store.txs[result.Rows[0].ID]
	assert.Equal(t, domain.TransactionBorrow, imported.Type)
}

func TestImportDepreciations_RowByRow(t *testing.T) {
	store := baseline()
	svc := newService(store)

	rows := []domain.DepreciationInput{
		{ItemID: towelID, Quantity: 1, Reason: "rasgada"},
		{ItemID: towelID, Quantity: 1},
	}
	result, err := svc.ImportDepreciations(context.Background(), userID, rows)

	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 9, store.stock(towelID))
}

func TestCreateTransaction_StoreFailureIsInternal(t *testing.T) {
	mockStore := new(MockLedgerStore)
	svc := newService(mockStore)

	mockStore.On("WithinTx", mock.Anything, mock.Anything).Return(errors.New("conexão perdida"))

	_, err := svc.CreateTransaction(context.Background(), userID, movement(domain.TransactionIn, towelID, 1))

	require.Error(t, err)
	assert.IsType(t, &apperror.InternalError{}, err)
	mockStore.AssertExpectations(t)
}

func TestCreateTransaction_OCCConflictPropagates(t *testing.T) {
	mockStore := new(MockLedgerStore)
	svc := newService(mockStore)

	mockStore.On("WithinTx", mock.Anything, mock.Anything).
		Return(apperror.NewConflictError("O estoque foi modificado por outra operação. Tente novamente."))

	_, err := svc.CreateTransaction(context.Background(), userID, movement(domain.TransactionOut, towelID, 1))

	assert.IsType(t, &apperror.ConflictError{}, err)
	mockStore.AssertExpectations(t)
}

func TestGetTransaction_NotFound(t *testing.T) {
	mockStore := new(MockLedgerStore)
	svc := newService(mockStore)

	const missing = "9a1d3c5e-7f00-4b11-8c22-d33e44f55a66"
	mockStore.On("GetTransaction", mock.Anything, missing).
		Return(domain.Transaction{}, apperror.NewNotFoundError("sem linhas"))

	_, err := svc.GetTransaction(context.Background(), missing)

	require.Error(t, err)
	assert.Equal(t, "Transação não encontrada.", err.Error())
	mockStore.AssertExpectations(t)
}

func TestMalformedIDsNeverReachTheStore(t *testing.T) {
	mockStore := new(MockLedgerStore)
	svc := newService(mockStore)
	ctx := context.Background()
	const badID = "abc"

	dep := domain.DepreciationInput{ItemID: towelID, Quantity: 1, Reason: "Rasgada"}
	tests := []struct {
		name string
		call func() error
		msg  string
	}{
		{"GetTransaction", func() error { _, err := svc.GetTransaction(ctx, badID); return err }, "Transação não encontrada."},
		{"UpdateTransaction", func() error {
			_, err := svc.UpdateTransaction(ctx, badID, movement(domain.TransactionIn, towelID, 1))
			return err
		}, "Transação não encontrada."},
		{"DeleteTransaction", func() error { return svc.DeleteTransaction(ctx, badID) }, "Transação não encontrada."},
		{"ReturnBorrowing", func() error { _, err := svc.ReturnBorrowing(ctx, badID); return err }, "Transação de empréstimo não encontrada."},
		{"GetDepreciation", func() error { _, err := svc.GetDepreciation(ctx, badID); return err }, "Baixa não encontrada."},
		{"UpdateDepreciation", func() error { _, err := svc.UpdateDepreciation(ctx, badID, dep); return err }, "Baixa não encontrada."},
		{"DeleteDepreciation", func() error { return svc.DeleteDepreciation(ctx, badID) }, "Baixa não encontrada."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.IsType(t, &apperror.NotFoundError{}, err)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
	mockStore.AssertNotCalled(t, "WithinTx", mock.Anything, mock.Anything)
	mockStore.AssertNotCalled(t, "GetTransaction", mock.Anything, mock.Anything)
	mockStore.AssertNotCalled(t, "GetDepreciation", mock.Anything, mock.Anything)
}

func TestDeleteTransaction_ConsumedEntryIsRejected(t *testing.T) {
	store := baseline()
	svc := newService(store)
	ctx := context.Background()

	in, err := svc.CreateTransaction(ctx, userID, movement(domain.TransactionIn, towelID, 5))
	require.NoError(t, err)
	_, err = svc.CreateTransaction(ctx, userID, movement(domain.TransactionOut, towelID, 15))
	require.NoError(t, err)
	require.Equal(t, 0, store.stock(towelID))

	err = svc.DeleteTransaction(ctx, in.ID)

	require.Error(t, err)
	assert.IsType(t, &apperror.InsufficientStockError{}, err)
	assert.Equal(t, "Estoque insuficiente para excluir este registro.", err.Error())
	assert.Equal(t, 0, store.stock(towelID))
	_, err = svc.GetTransaction(ctx, in.ID)
	assert.NoError(t, err)
}
