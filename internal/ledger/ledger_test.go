package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hkinventory/internal/domain"
)

func TestTransactionEffect(t *testing.T) {
	cases := []struct {
		name   string
		typ    domain.TransactionType
		status domain.TransactionStatus
		want   int
	}{
		{"entrada soma", domain.TransactionIn, domain.TransactionCompleted, 4},
		{"saida subtrai", domain.TransactionOut, domain.TransactionCompleted, -4},
		{"emprestimo pendente subtrai", domain.TransactionBorrow, domain.TransactionPending, -4},
		{"emprestimo aprovado subtrai", domain.TransactionBorrow, domain.TransactionApproved, -4},
		{"emprestimo devolvido nao conta", domain.TransactionBorrow, domain.TransactionCompleted, 0},
		{"devolucao so registra", domain.TransactionReturn, domain.TransactionCompleted, 0},
		{"cancelada nao conta", domain.TransactionOut, domain.TransactionCancelled, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TransactionEffect(tc.typ, tc.status, 4))
		})
	}
	assert.Equal(t, -3, DepreciationEffect(3))
	assert.Equal(t, 3, ReturnEffect(3))
}

func TestPlanUpdate_SameItemFolds(t *testing.T) {
	// empréstimo de 5 editado para 2 no mesmo item
	plan := PlanUpdate("a", -5, "a", -2)
	require.Len(t, plan, 1)
	assert.Equal(t, Change{ItemID: "a", Delta: 3}, plan[0])

	noop := PlanUpdate("a", -5, "a", -5)
	require.Len(t, noop, 1)
	assert.Zero(t, noop[0].Delta)
}

func TestPlanUpdate_ItemChanged(t *testing.T) {
	plan := PlanUpdate("a", -5, "b", -2)
	assert.Equal(t, []Change{
		{ItemID: "a", Delta: 5, BestEffort: true},
		{ItemID: "b", Delta: -2},
	}, plan)

	// sem efeito antigo não há o que reverter
	plan = PlanUpdate("a", 0, "b", 7)
	assert.Equal(t, []Change{{ItemID: "b", Delta: 7}}, plan)
}

func TestPlanDelete(t *testing.T) {
	assert.Equal(t, []Change{{ItemID: "a", Delta: 3, BestEffort: true}}, PlanDelete("a", -3))
	assert.Empty(t, PlanDelete("a", 0))
}

func TestApply(t *testing.T) {
	got, err := Apply(10, -3)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	got, err = Apply(2, -3)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2, got)

	got, err = Apply(3, -3)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestItemIDs_SortedAndDistinct(t *testing.T) {
	plan := []Change{{ItemID: "c"}, {ItemID: "a"}, {ItemID: "c"}, {ItemID: "b"}}
	assert.Equal(t, []string{"a", "b", "c"}, ItemIDs(plan))
}
