package database

import (
	"context"
	"database/sql"
	"fmt"

	apperror "hkinventory/internal/errors"
)

// Guard é uma tabela dependente que impede a exclusão enquanto tiver linhas apontando para o registro.
type Guard struct {
	Table     string // e.g. "transactions"
	Column    string // e.g. "item_id"
	Dependent string // nome exposto no HasDependentsError
	Msg       string
}

// DeleteSpec descreve uma exclusão protegida por integridade referencial.
type DeleteSpec struct {
	Table       string
	Entity      string
	ID          string
	NotFoundMsg string
	Guards      []Guard
}

// DeleteGuarded bloqueia a linha, confere os dependentes na ordem dos guards e só então exclui,
// tudo na mesma transação. A trava FOR UPDATE impede que um dependente novo seja inserido
// entre a contagem e o DELETE.
func DeleteGuarded(ctx context.Context, db *sql.DB, spec DeleteSpec) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	var id string
	lockSQL := fmt.Sprintf(`SELECT id FROM %s WHERE id = $1 FOR UPDATE`, spec.Table)
	err = tx.QueryRowContext(ctx, lockSQL, spec.ID).Scan(&id)
	if err == sql.ErrNoRows {
		return apperror.NewNotFoundError(spec.NotFoundMsg)
	}
	if err != nil {
		return apperror.NewDBError("Falha ao buscar registro para exclusão", err)
	}

	if err := CheckGuards(ctx, queryerCounter{q: tx}, spec); err != nil {
		return err
	}

	deleteSQL := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, spec.Table)
	if _, err := tx.ExecContext(ctx, deleteSQL, spec.ID); err != nil {
		if IsForeignKeyViolation(err) {
			return apperror.NewHasDependentsError("Registro possui dependentes e não pode ser excluído.", spec.Entity, "")
		}
		return apperror.NewDBError("Falha ao excluir registro", err)
	}

	if err := tx.Commit(); err != nil {
		return apperror.NewDBError("Falha ao commitar transação", err)
	}
	return nil
}

// Counter conta as linhas de table cuja coluna column é igual a value.
type Counter interface {
	Count(ctx context.Context, table, column, value string) (int, error)
}

type queryerCounter struct{ q Queryer }

func (c queryerCounter) Count(ctx context.Context, table, column, value string) (int, error) {
	return CountWhere(ctx, c.q, table, column, value)
}

// CheckGuards percorre os guards na ordem declarada e para no primeiro que encontrar dependentes.
func CheckGuards(ctx context.Context, c Counter, spec DeleteSpec) error {
	for _, g := range spec.Guards {
		n, err := c.Count(ctx, g.Table, g.Column, spec.ID)
		if err != nil {
			return apperror.NewDBError("Falha ao verificar dependências", err)
		}
		if n > 0 {
			return apperror.NewHasDependentsError(g.Msg, spec.Entity, g.Dependent)
		}
	}
	return nil
}

// WriteError traduz falhas de INSERT/UPDATE: unicidade vira Conflict e
// chave estrangeira inválida vira NotFound.
func WriteError(msg, conflictMsg, fkMsg string, err error) error {
	switch {
	case IsUniqueViolation(err):
		return apperror.NewConflictError(conflictMsg)
	case IsForeignKeyViolation(err):
		return apperror.NewNotFoundError(fkMsg)
	}
	return apperror.NewDBError(msg, err)
}
