package supplierrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hkinventory/internal/domain"
	"hkinventory/internal/errors"
	"hkinventory/internal/pkg/database"
	"hkinventory/internal/pkg/logger"
)

// SupplierRepository implementa as operações CRUD de fornecedores.
type SupplierRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewSupplierRepository cria e retorna uma nova instância do Repositório de Fornecedores.
func NewSupplierRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *SupplierRepository {
	return &SupplierRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const supplierColumns = `id, code, name, contact, phone, email, address, status, created_at, updated_at`

func scanSupplier(row interface{ Scan(...interface{}) error }) (domain.Supplier, error) {
	var s domain.Supplier
	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.Contact, &s.Phone, &s.Email, &s.Address, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create insere um novo fornecedor.
func (r *SupplierRepository) Create(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now().UTC()

	created, err := scanSupplier(r.DB.QueryRowContext(ctxTimeout, `
        INSERT INTO suppliers (id, code, name, contact, phone, email, address, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING `+supplierColumns,
		s.ID, s.Code, s.Name, s.Contact, s.Phone, s.Email, s.Address, s.Status, now, now,
	))
	if err != nil {
		r.logger.Error("Falha ao inserir fornecedor no DB.", err)
		return domain.Supplier{}, database.WriteError("Falha ao criar fornecedor",
			"Já existe um fornecedor com este código.", "Registro relacionado não encontrado.", err)
	}

	r.logger.Info("Fornecedor criado com sucesso.", map[string]interface{}{"id": created.ID, "code": created.Code})
	return created, nil
}

// FindByID busca um fornecedor pelo ID.
func (r *SupplierRepository) FindByID(ctx context.Context, id string) (domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	s, err := scanSupplier(r.DB.QueryRowContext(ctxTimeout, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return domain.Supplier{}, errors.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar fornecedor no DB.", err)
		return domain.Supplier{}, errors.NewDBError("Falha ao buscar fornecedor", err)
	}
	return s, nil
}

// FindAll busca todos os fornecedores.
func (r *SupplierRepository) FindAll(ctx context.Context) ([]domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
	if err != nil {
		r.logger.Error("Falha ao executar FindAll de fornecedores.", err)
		return nil, errors.NewDBError("Falha ao buscar todos os fornecedores", err)
	}
	defer rows.Close()

	suppliers := []domain.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, errors.NewDBError("Falha ao mapear fornecedores do DB", err)
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de fornecedores", err)
	}
	return suppliers, nil
}

// Update atualiza um fornecedor existente.
func (r *SupplierRepository) Update(ctx context.Context, s domain.Supplier) (domain.Supplier, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	updated, err := scanSupplier(r.DB.QueryRowContext(ctxTimeout, `
        UPDATE suppliers
        SET code = $1, name = $2, contact = $3, phone = $4, email = $5, address = $6, status = $7, updated_at = $8
        WHERE id = $9
        RETURNING `+supplierColumns,
		s.Code, s.Name, s.Contact, s.Phone, s.Email, s.Address, s.Status, time.Now().UTC(), s.ID,
	))
	if err == sql.ErrNoRows {
		return domain.Supplier{}, errors.NewNotFoundError(fmt.Sprintf("Fornecedor com ID %s não encontrado para atualização.", s.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar fornecedor no DB.", err)
		return domain.Supplier{}, database.WriteError("Falha ao atualizar fornecedor",
			"Já existe um fornecedor com este código.", "Registro relacionado não encontrado.", err)
	}

	r.logger.Info("Fornecedor atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// Delete remove o fornecedor se não houver itens nem transações vinculados.
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.DeleteGuarded(ctxTimeout, r.DB, database.DeleteSpec{
		Table:       "suppliers",
		Entity:      "supplier",
		ID:          id,
		NotFoundMsg: "Fornecedor não encontrado.",
		Guards: []database.Guard{
			{Table: "items", Column: "supplier_id", Dependent: "items",
				Msg: "Não é possível excluir o fornecedor: existem itens vinculados."},
			{Table: "transactions", Column: "supplier_id", Dependent: "transactions",
				Msg: "Não é possível excluir o fornecedor: existem transações vinculadas."},
		},
	})
	if err != nil {
		return err
	}

	r.logger.Info("Fornecedor excluído com sucesso.", map[string]interface{}{"id": id})
	return nil
}
