// Package ledger concentra as regras de efeito de estoque das transações e baixas.
// Nada aqui acessa banco: o ledgerservice monta os planos e os aplica dentro de uma transação.
package ledger

import (
	"errors"
	"sort"

	"hkinventory/internal/domain"
)

// ErrInsufficientStock indica que aplicar o delta deixaria o estoque negativo.
var ErrInsufficientStock = errors.New("estoque insuficiente")

// Change é uma alteração de estoque sobre um item.
// BestEffort marca reversões sobre itens que podem ter sido removidos.
type Change struct {
	ItemID     string
	Delta      int
	BestEffort bool
}

// TransactionEffect devolve o efeito com sinal de uma transação sobre o estoque.
// Devoluções ("return") são apenas registradas; empréstimos concluídos já
// tiveram a quantidade restituída e transações canceladas não contam.
func TransactionEffect(t domain.TransactionType, status domain.TransactionStatus, quantity int) int {
	if status == domain.TransactionCancelled {
		return 0
	}
	switch t {
	case domain.TransactionIn:
		return quantity
	case domain.TransactionOut:
		return -quantity
	case domain.TransactionBorrow:
		if status == domain.TransactionCompleted {
			return 0
		}
		return -quantity
	}
	return 0
}

// EffectOf é o atalho de TransactionEffect para uma transação gravada.
func EffectOf(t domain.Transaction) int {
	return TransactionEffect(t.Type, t.Status, t.Quantity)
}

// DepreciationEffect sempre diminui o estoque.
func DepreciationEffect(quantity int) int {
	return -quantity
}

// ReturnEffect é o crédito aplicado quando um empréstimo é devolvido.
func ReturnEffect(quantity int) int {
	return quantity
}

// PlanCreate aplica o efeito do novo registro.
// Mesmo com efeito zero o item é exigido, para validar que existe.
func PlanCreate(itemID string, effect int) []Change {
	return []Change{{ItemID: itemID, Delta: effect}}
}

// PlanUpdate reverte o efeito antigo e aplica o novo.
// No mesmo item os dois passos viram uma única escrita; em itens diferentes
// a reversão no item antigo é best-effort.
func PlanUpdate(oldItemID string, oldEffect int, newItemID string, newEffect int) []Change {
	if oldItemID == newItemID {
		return []Change{{ItemID: newItemID, Delta: newEffect - oldEffect}}
	}
	plan := make([]Change, 0, 2)
	if oldEffect != 0 {
		plan = append(plan, Change{ItemID: oldItemID, Delta: -oldEffect, BestEffort: true})
	}
	return append(plan, Change{ItemID: newItemID, Delta: newEffect})
}

// PlanDelete reverte o efeito do registro removido.
func PlanDelete(itemID string, effect int) []Change {
	if effect == 0 {
		return nil
	}
	return []Change{{ItemID: itemID, Delta: -effect, BestEffort: true}}
}

// Apply devolve o novo saldo ou ErrInsufficientStock se ele ficaria negativo.
func Apply(stock, delta int) (int, error) {
	next := stock + delta
	if next < 0 {
		return stock, ErrInsufficientStock
	}
	return next, nil
}

// ItemIDs devolve os ids distintos do plano em ordem crescente, a ordem de lock das linhas.
func ItemIDs(plan []Change) []string {
	seen := make(map[string]struct{}, len(plan))
	ids := make([]string, 0, len(plan))
	for _, c := range plan {
		if _, ok := seen[c.ItemID]; ok {
			continue
		}
		seen[c.ItemID] = struct{}{}
		ids = append(ids, c.ItemID)
	}
	sort.Strings(ids)
	return ids
}
