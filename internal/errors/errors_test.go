package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapToHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		category string
	}{
		{"validação", NewValidationError("x"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"não encontrado", NewNotFoundError("x"), http.StatusNotFound, "NOT_FOUND"},
		{"conflito", NewConflictError("x"), http.StatusConflict, "CONFLICT"},
		{"não autorizado", NewUnauthorizedError("x"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"proibido", NewForbiddenError("x"), http.StatusForbidden, "FORBIDDEN"},
		{"rate limit", NewRateLimitError("x"), http.StatusTooManyRequests, "RATE_LIMITED"},
		{"estoque insuficiente", NewInsufficientStockError("x", "i1", 1, 2), http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"já devolvido", NewAlreadyReturnedError("x"), http.StatusConflict, "ALREADY_COMPLETED"},
		{"dependentes", NewHasDependentsError("x", "category", "items"), http.StatusConflict, "HAS_DEPENDENTS"},
		{"db", NewDBError("x", assert.AnError), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"embrulhado", fmt.Errorf("contexto: %w", NewNotFoundError("x")), http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, category, _ := MapToHTTPStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.category, category)
		})
	}
}

func TestMapToHTTPStatus_UntypedError(t *testing.T) {
	status, category, msg := MapToHTTPStatus(assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "UNKNOWN_ERROR", category)
	assert.Equal(t, "Ocorreu um erro inesperado.", msg)
}

func TestNewDBError_KeepsCause(t *testing.T) {
	err := NewDBError("Falha ao listar itens", assert.AnError)

	assert.Equal(t, "Falha ao listar itens (DB)", err.Error())
	assert.ErrorIs(t, err, assert.AnError)
}
