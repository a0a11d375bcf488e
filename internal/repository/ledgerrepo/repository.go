package ledgerrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hkinventory/internal/domain"
	"hkinventory/internal/errors"
	"hkinventory/internal/pkg/cache"
	"hkinventory/internal/pkg/database"
	"hkinventory/internal/pkg/logger"
)

// LedgerRepository implementa domain.LedgerStore sobre PostgreSQL.
// Depois de cada commit invalida no cache os itens cujo estoque mudou.
type LedgerRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewLedgerRepository cria e retorna uma nova instância do Repositório do Ledger.
func NewLedgerRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, logger logger.Logger) *LedgerRepository {
	return &LedgerRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// WithinTx abre uma transação, executa fn e faz commit se fn não devolver erro.
// Qualquer erro (inclusive de commit) desfaz tudo.
func (r *LedgerRepository) WithinTx(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	sqlTx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação do ledger.", err)
		return errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer sqlTx.Rollback() // no-op depois do Commit

	w := &pgTx{tx: sqlTx, logger: r.logger}
	if err := fn(w); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transação do ledger.", err)
		return errors.NewDBError("Falha ao commitar transação", err)
	}

	r.invalidate(ctx, w.touched)
	return nil
}

func (r *LedgerRepository) invalidate(ctx context.Context, itemIDs []string) {
	if r.Cache == nil || len(itemIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		keys = append(keys, cache.ItemKey(id))
	}
	if err := r.Cache.Delete(ctx, keys...); err != nil {
		r.logger.Warn("Falha ao invalidar cache de itens.", map[string]interface{}{"keys": keys, "error": err.Error()})
	}
}

const transactionColumns = `
        id, type, item_id, quantity, user_id, supplier_id, borrower_id, notes, status,
        to_char(date, 'YYYY-MM-DD'), to_char(due_date, 'YYYY-MM-DD'), to_char(return_date, 'YYYY-MM-DD'),
        created_at, updated_at`

const depreciationColumns = `
        id, item_id, quantity, reason, user_id, status, to_char(date, 'YYYY-MM-DD'), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		t                             domain.Transaction
		supplierID, dueDate, returned sql.NullString
	)
	err := row.Scan(
		&t.ID, &t.Type, &t.ItemID, &t.Quantity, &t.UserID, &supplierID, &t.BorrowerID, &t.Notes, &t.Status,
		&t.Date, &dueDate, &returned, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return domain.Transaction{}, err
	}
	t.SupplierID = fromNull(supplierID)
	t.DueDate = fromNull(dueDate)
	t.ReturnDate = fromNull(returned)
	return t, nil
}

func scanDepreciation(row rowScanner) (domain.Depreciation, error) {
	var d domain.Depreciation
	err := row.Scan(&d.ID, &d.ItemID, &d.Quantity, &d.Reason, &d.UserID, &d.Status, &d.Date, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func toNull(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// ListTransactions lista as transações filtradas, mais recentes primeiro.
func (r *LedgerRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var (
		conds []string
		args  []interface{}
	)
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.ItemID != "" {
		args = append(args, filter.ItemID)
		conds = append(conds, fmt.Sprintf("item_id = $%d", len(args)))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar transações.", err)
		return nil, errors.NewDBError("Falha ao listar transações", err)
	}
	defer rows.Close()

	list := []domain.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			r.logger.Error("Falha ao ler transação.", err)
			return nil, errors.NewDBError("Falha ao ler transação", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar transações", err)
	}
	return list, nil
}

// GetTransaction busca uma transação pelo id.
func (r *LedgerRepository) GetTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	t, err := scanTransaction(r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return domain.Transaction{}, errors.NewNotFoundError(fmt.Sprintf("Transação %s não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar transação.", err)
		return domain.Transaction{}, errors.NewDBError("Falha ao buscar transação", err)
	}
	return t, nil
}

// ListDepreciations lista as baixas, mais recentes primeiro.
func (r *LedgerRepository) ListDepreciations(ctx context.Context) ([]domain.Depreciation, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT `+depreciationColumns+` FROM depreciations ORDER BY date DESC, created_at DESC`)
	if err != nil {
		r.logger.Error("Falha ao listar baixas.", err)
		return nil, errors.NewDBError("Falha ao listar baixas", err)
	}
	defer rows.Close()

	list := []domain.Depreciation{}
	for rows.Next() {
		d, err := scanDepreciation(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao ler baixa", err)
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar baixas", err)
	}
	return list, nil
}

// GetDepreciation busca uma baixa pelo id.
func (r *LedgerRepository) GetDepreciation(ctx context.Context, id string) (domain.Depreciation, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	d, err := scanDepreciation(r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+depreciationColumns+` FROM depreciations WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return domain.Depreciation{}, errors.NewNotFoundError(fmt.Sprintf("Baixa %s não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar baixa.", err)
		return domain.Depreciation{}, errors.NewDBError("Falha ao buscar baixa", err)
	}
	return d, nil
}

// --- Operações dentro da transação ---

type pgTx struct {
	tx      *sql.Tx
	logger  logger.Logger
	touched []string
}

// LockItem bloqueia a linha do item até o fim da transação.
func (w *pgTx) LockItem(ctx context.Context, id string) (domain.ItemStock, error) {
	var st domain.ItemStock
	err := w.tx.QueryRowContext(ctx,
		`SELECT id, current_stock, version FROM items WHERE id = $1 FOR UPDATE`, id,
	).Scan(&st.ID, &st.CurrentStock, &st.Version)
	if err == sql.ErrNoRows {
		return domain.ItemStock{}, errors.NewNotFoundError(fmt.Sprintf("Item %s não encontrado.", id))
	}
	if err != nil {
		w.logger.Error("Falha ao bloquear item para ajuste de estoque.", err)
		return domain.ItemStock{}, errors.NewDBError("Falha ao buscar estoque para atualização", err)
	}
	return st, nil
}

// SetItemStock grava o novo saldo com controle de concorrência otimista (OCC).
func (w *pgTx) SetItemStock(ctx context.Context, id string, stock, expectedVersion int) error {
	result, err := w.tx.ExecContext(ctx, `
        UPDATE items
        SET current_stock = $1, version = $2, updated_at = $3
        WHERE id = $4 AND version = $5`,
		stock, expectedVersion+1, time.Now().UTC(), id, expectedVersion,
	)
	if err != nil {
		w.logger.Error("Falha ao atualizar estoque do item.", err)
		return errors.NewDBError("Falha ao atualizar estoque", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		w.logger.Warn("Falha no controle de concorrência otimista (OCC). Versão do item desatualizada.", map[string]interface{}{
			"item_id":          id,
			"expected_version": expectedVersion,
		})
		return errors.NewConflictError("O estoque foi modificado por outra operação. Tente novamente.")
	}

	w.touched = append(w.touched, id)
	return nil
}

// writeErr traduz erros de escrita: chave estrangeira inválida vira NotFound.
func writeErr(msg string, err error) error {
	if database.IsForeignKeyViolation(err) {
		return errors.NewNotFoundError("Registro relacionado (item, usuário ou fornecedor) não encontrado.")
	}
	return errors.NewDBError(msg, err)
}

func (w *pgTx) LockTransaction(ctx context.Context, id string) (domain.Transaction, error) {
	t, err := scanTransaction(w.tx.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return domain.Transaction{}, errors.NewNotFoundError(fmt.Sprintf("Transação %s não encontrada.", id))
	}
	if err != nil {
		w.logger.Error("Falha ao bloquear transação.", err)
		return domain.Transaction{}, errors.NewDBError("Falha ao buscar transação", err)
	}
	return t, nil
}

func (w *pgTx) InsertTransaction(ctx context.Context, t *domain.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	_, err := w.tx.ExecContext(ctx, `
        INSERT INTO transactions (id, type, item_id, quantity, user_id, supplier_id, borrower_id, notes, status,
                                  date, due_date, return_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		t.ID, t.Type, t.ItemID, t.Quantity, t.UserID, toNull(t.SupplierID), t.BorrowerID, t.Notes, t.Status,
		t.Date, toNull(t.DueDate), toNull(t.ReturnDate), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		w.logger.Error("Falha ao inserir transação.", err)
		return writeErr("Falha ao criar transação", err)
	}
	return nil
}

func (w *pgTx) UpdateTransaction(ctx context.Context, t *domain.Transaction) error {
	t.UpdatedAt = time.Now().UTC()
	_, err := w.tx.ExecContext(ctx, `
        UPDATE transactions
        SET type = $1, item_id = $2, quantity = $3, supplier_id = $4, borrower_id = $5, notes = $6,
            status = $7, date = $8, due_date = $9, return_date = $10, updated_at = $11
        WHERE id = $12`,
		t.Type, t.ItemID, t.Quantity, toNull(t.SupplierID), t.BorrowerID, t.Notes,
		t.Status, t.Date, toNull(t.DueDate), toNull(t.ReturnDate), t.UpdatedAt, t.ID,
	)
	if err != nil {
		w.logger.Error("Falha ao atualizar transação.", err)
		return writeErr("Falha ao atualizar transação", err)
	}
	return nil
}

func (w *pgTx) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := w.tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		w.logger.Error("Falha ao excluir transação.", err)
		return errors.NewDBError("Falha ao excluir transação", err)
	}
	return nil
}

func (w *pgTx) LockDepreciation(ctx context.Context, id string) (domain.Depreciation, error) {
	d, err := scanDepreciation(w.tx.QueryRowContext(ctx,
		`SELECT `+depreciationColumns+` FROM depreciations WHERE id = $1 FOR UPDATE`, id))
	if err == sql.ErrNoRows {
		return domain.Depreciation{}, errors.NewNotFoundError(fmt.Sprintf("Baixa %s não encontrada.", id))
	}
	if err != nil {
		w.logger.Error("Falha ao bloquear baixa.", err)
		return domain.Depreciation{}, errors.NewDBError("Falha ao buscar baixa", err)
	}
	return d, nil
}

func (w *pgTx) InsertDepreciation(ctx context.Context, d *domain.Depreciation) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now

	_, err := w.tx.ExecContext(ctx, `
        INSERT INTO depreciations (id, item_id, quantity, reason, user_id, status, date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		d.ID, d.ItemID, d.Quantity, d.Reason, d.UserID, d.Status, d.Date, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		w.logger.Error("Falha ao inserir baixa.", err)
		return writeErr("Falha ao criar baixa", err)
	}
	return nil
}

func (w *pgTx) UpdateDepreciation(ctx context.Context, d *domain.Depreciation) error {
	d.UpdatedAt = time.Now().UTC()
	_, err := w.tx.ExecContext(ctx, `
        UPDATE depreciations
        SET item_id = $1, quantity = $2, reason = $3, status = $4, date = $5, updated_at = $6
        WHERE id = $7`,
		d.ItemID, d.Quantity, d.Reason, d.Status, d.Date, d.UpdatedAt, d.ID,
	)
	if err != nil {
		w.logger.Error("Falha ao atualizar baixa.", err)
		return writeErr("Falha ao atualizar baixa", err)
	}
	return nil
}

func (w *pgTx) DeleteDepreciation(ctx context.Context, id string) error {
	if _, err := w.tx.ExecContext(ctx, `DELETE FROM depreciations WHERE id = $1`, id); err != nil {
		w.logger.Error("Falha ao excluir baixa.", err)
		return errors.NewDBError("Falha ao excluir baixa", err)
	}
	return nil
}
