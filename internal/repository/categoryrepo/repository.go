package categoryrepo

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

// CategoryRepository implementa as operações CRUD de categorias.
type CategoryRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewCategoryRepository cria e retorna uma nova instância do Repositório de Categorias.
func NewCategoryRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *CategoryRepository {
	return &CategoryRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const categoryColumns = `id, code, name, description, status, created_at, updated_at`

func scanCategory(row interface{ Scan(...interface{}) error }) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// Create insere uma nova categoria no banco de dados.
func (r *CategoryRepository) Create(ctx context.Context, c domain.Category) (domain.Category, error) {
	r.logger.Debug("Iniciando Create de categoria no repositório.", map[string]interface{}{"code": c.Code})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()

	created, err := scanCategory(r.DB.QueryRowContext(ctxTimeout, `
        INSERT INTO categories (id, code, name, description, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING `+categoryColumns,
		c.ID, c.Code, c.Name, c.Description, c.Status, now, now,
	))
	if err != nil {
		r.logger.Error("Falha ao inserir categoria no DB.", err)
		return domain.Category{}, database.WriteError("Falha ao criar categoria",
			"Já existe uma categoria com este código.", "Registro relacionado não encontrado.", err)
	}

	r.logger.Info("Categoria criada com sucesso.", map[string]interface{}{"id": created.ID, "code": created.Code})
	return created, nil
}

// FindByID busca uma categoria pelo ID.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	c, err := scanCategory(r.DB.QueryRowContext(ctxTimeout, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		r.logger.Info("Categoria não encontrada.", map[string]interface{}{"id": id})
		return domain.Category{}, errors.NewNotFoundError(fmt.Sprintf("Categoria com ID %s não encontrada.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar categoria no DB.", err)
		return domain.Category{}, errors.NewDBError("Falha ao buscar categoria", err)
	}
	return c, nil
}

// FindAll busca todas as categorias.
func (r *CategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		r.logger.Error("Falha ao executar FindAll de categorias.", err)
		return nil, errors.NewDBError("Falha ao buscar todas as categorias", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear categoria na iteração.", err)
			return nil, errors.NewDBError("Falha ao mapear categorias do DB", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de categorias", err)
	}

	r.logger.Debug("FindAll de categorias concluído.", map[string]interface{}{"total": len(categories)})
	return categories, nil
}

// Update atualiza uma categoria existente.
func (r *CategoryRepository) Update(ctx context.Context, c domain.Category) (domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	updated, err := scanCategory(r.DB.QueryRowContext(ctxTimeout, `
        UPDATE categories
        SET code = $1, name = $2, description = $3, status = $4, updated_at = $5
        WHERE id = $6
        RETURNING `+categoryColumns,
		c.Code, c.Name, c.Description, c.Status, time.Now().UTC(), c.ID,
	))
	if err == sql.ErrNoRows {
		return domain.Category{}, errors.NewNotFoundError(fmt.Sprintf("Categoria com ID %s não encontrada para atualização.", c.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar categoria no DB.", err)
		return domain.Category{}, database.WriteError("Falha ao atualizar categoria",
			"Já existe uma categoria com este código.", "Registro relacionado não encontrado.", err)
	}

	r.logger.Info("Categoria atualizada com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// Delete remove a categoria se nenhum item pertencer a ela.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.DeleteGuarded(ctxTimeout, r.DB, database.DeleteSpec{
		Table:       "categories",
		Entity:      "category",
		ID:          id,
		NotFoundMsg: "Categoria não encontrada.",
		Guards: []database.Guard{
			{Table: "items", Column: "category_id", Dependent: "items",
				Msg: "Não é possível excluir a categoria: existem itens vinculados."},
		},
	})
	if err != nil {
		return err
	}

	r.logger.Info("Categoria excluída com sucesso.", map[string]interface{}{"id": id})
	return nil
}
