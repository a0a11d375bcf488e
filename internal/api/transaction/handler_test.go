package transaction_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hkinventory/internal/api/transaction"
	"hkinventory/internal/domain"
	apperror "hkinventory/internal/errors"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/middleware"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]domain.Transaction)
	return list, args.Error(1)
}

func (m *MockLedgerService) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) CreateTransaction(ctx context.Context, userID string, in domain.TransactionInput) (domain.Transaction, error) {
	args := m.Called(ctx, userID, in)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) UpdateTransaction(ctx context.Context, id string, in domain.TransactionInput) (domain.Transaction, error) {
	args := m.Called(ctx, id, in)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) DeleteTransaction(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLedgerService) ReturnBorrowing(ctx context.Context, id string) (domain.Transaction, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) ImportTransactions(ctx context.Context, userID string, rows []domain.TransactionInput) (domain.ImportResult, error) {
	args := m.Called(ctx, userID, rows)
	return args.Get(0).(domain.ImportResult), args.Error(1)
}

func authenticated(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserClaimsKey, middleware.UserClaims{UserID: userID, Role: domain.RoleStaff})
	return req.WithContext(ctx)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) domain.Result {
	t.Helper()
	var res domain.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestCreateTransactionHandler_UsesActingUser(t *testing.T) {
	svc := new(MockLedgerService)
	h := transaction.NewHandler(svc, logger.NewNop())

	in := domain.TransactionInput{Type: domain.TransactionOut, ItemID: "1b6f0f0e-8c4a-4d4e-9a7e-0f5b2d1c3a01", Quantity: 3}
	svc.On("CreateTransaction", mock.Anything, "u-42", in).
		Return(domain.Transaction{ID: "t1", Type: domain.TransactionOut, Quantity: 3}, nil).Once()

	body := `{"type":"out","item_id":"1b6f0f0e-8c4a-4d4e-9a7e-0f5b2d1c3a01","quantity":3}`
	req := authenticated(httptest.NewRequest(http.MethodPost, "/v1/transactions", strings.NewReader(body)), "u-42")
	rec := httptest.NewRecorder()

	h.CreateTransactionHandler(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	res := decode(t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "Transação criada com sucesso.", res.Message)
	svc.AssertExpectations(t)
}

func TestCreateTransactionHandler_InsufficientStock(t *testing.T) {
	svc := new(MockLedgerService)
	h := transaction.NewHandler(svc, logger.NewNop())

	svc.On("CreateTransaction", mock.Anything, "u-42", mock.Anything).
		Return(domain.Transaction{}, apperror.NewInsufficientStockError("Estoque insuficiente.", "i1", 2, 5)).Once()

	req := authenticated(httptest.NewRequest(http.MethodPost, "/v1/transactions",
		strings.NewReader(`{"type":"out","item_id":"i1","quantity":5}`)), "u-42")
	rec := httptest.NewRecorder()

	h.CreateTransactionHandler(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	res := decode(t, rec)
	assert.False(t, res.Success)
	assert.Equal(t, "INSUFFICIENT_STOCK", res.Category)
}

func TestCreateTransactionHandler_WithoutClaims(t *testing.T) {
	svc := new(MockLedgerService)
	h := transaction.NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.CreateTransactionHandler(rec, httptest.NewRequest(http.MethodPost, "/v1/transactions", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTransactionHandler_MalformedJSON(t *testing.T) {
	svc := new(MockLedgerService)
	h := transaction.NewHandler(svc, logger.NewNop())

	req := authenticated(httptest.NewRequest(http.MethodPost, "/v1/transactions", strings.NewReader(`{"type":`)), "u-42")
	rec := httptest.NewRecorder()

	h.CreateTransactionHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, rec).Category)
}

func TestListTransactionsHandler_Filter(t *testing.T) {
	svc := new(MockLedgerService)
	h := transaction.NewHandler(svc, logger.NewNop())

	const itemID = "1b6f0f0e-8c4a-4d4e-9a7e-0f5b2d1c3a01"
	want := domain.TransactionFilter{Type: domain.TransactionBorrow, Status: domain.TransactionPending, ItemID: itemID}
	svc.On("ListTransactions", mock.Anything, want).Return([]domain.Transaction{{ID: "t1"}}, nil).Once()

	rec := httptest.NewRecorder()
	h.ListTransactionsHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/transactions?type=borrow&status=pending&item_id="+itemID, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)

	rec = httptest.NewRecorder()
	h.ListTransactionsHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/transactions?type=gift", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.ListTransactionsHandler(rec, httptest.NewRequest(http.MethodGet, "/v1/transactions?item_id=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "item_id")
	svc.AssertNumberOfCalls(t, "ListTransactions", 1)
}

func TestReturnBorrowingHandler(t *testing.T) {
	svc := new(MockLedgerService)
	h := transaction.NewHandler(svc, logger.NewNop())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/transactions/{id}/return", h.ReturnBorrowingHandler)

	svc.On("ReturnBorrowing", mock.Anything, "t1").
		Return(domain.Transaction{ID: "t1", Status: domain.TransactionCompleted}, nil).Once()
	svc.On("ReturnBorrowing", mock.Anything, "t2").
		Return(domain.Transaction{}, apperror.NewAlreadyReturnedError("Empréstimo já foi devolvido.")).Once()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/transactions/t1/return", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/transactions/t2/return", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_COMPLETED", decode(t, rec).Category)

	svc.AssertExpectations(t)
}

func TestImportTransactionsHandler(t *testing.T) {
	svc := new(MockLedgerService)
	h := transaction.NewHandler(svc, logger.NewNop())

	result := domain.ImportResult{SuccessCount: 1, ErrorCount: 1}
	svc.On("ImportTransactions", mock.Anything, "u-42", mock.MatchedBy(func(rows []domain.TransactionInput) bool {
		return len(rows) == 2
	})).Return(result, nil).Once()

	body := `[{"item_id":"i1","quantity":1},{"item_id":"i2","quantity":0}]`
	req := authenticated(httptest.NewRequest(http.MethodPost, "/v1/transactions/import", strings.NewReader(body)), "u-42")
	rec := httptest.NewRecorder()

	h.ImportTransactionsHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success_count":1`)
	svc.AssertExpectations(t)
}
