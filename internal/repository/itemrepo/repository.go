package itemrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hkinventory/internal/domain"
	"hkinventory/internal/errors"
	"hkinventory/internal/pkg/cache"
	"hkinventory/internal/pkg/database"
	"hkinventory/internal/pkg/logger"
)

// ItemRepository implementa a persistência de itens, com cache-aside no Redis para leituras por id.
type ItemRepository struct {
	DB        *sql.DB      // Conexão principal com o banco de dados (PostgreSQL)
	Cache     cache.Client // Cliente para operações de cache (Redis)
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewItemRepository cria e retorna uma nova instância do Repositório de Itens.
func NewItemRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *ItemRepository {
	return &ItemRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

const itemColumns = `
        id, code, name, category_id, description, unit, min_stock, current_stock, location,
        supplier_id, price, status, image_url, version, created_at, updated_at`

func scanItem(row interface{ Scan(...interface{}) error }) (domain.Item, error) {
	var it domain.Item
	err := row.Scan(
		&it.ID, &it.Code, &it.Name, &it.CategoryID, &it.Description, &it.Unit, &it.MinStock, &it.CurrentStock,
		&it.Location, &it.SupplierID, &it.Price, &it.Status, &it.ImageURL, &it.Version, &it.CreatedAt, &it.UpdatedAt,
	)
	return it, err
}

func (r *ItemRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Item, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar itens no DB.", err)
		return nil, errors.NewDBError("Falha ao listar itens", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			r.logger.Error("Falha ao ler item.", err)
			return nil, errors.NewDBError("Falha ao ler item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar itens", err)
	}
	return items, nil
}

// FindAll lista todos os itens em ordem de nome.
func (r *ItemRepository) FindAll(ctx context.Context) ([]domain.Item, error) {
	return r.list(ctx, `SELECT `+itemColumns+` FROM items ORDER BY name`)
}

// ListLowStock lista os itens ativos no estoque mínimo ou abaixo dele.
func (r *ItemRepository) ListLowStock(ctx context.Context) ([]domain.Item, error) {
	return r.list(ctx, `SELECT `+itemColumns+` FROM items
        WHERE status = 'active' AND current_stock <= min_stock
        ORDER BY current_stock - min_stock, name`)
}

// FindByID busca um item pelo ID, utilizando a estratégia Cache-Aside.
func (r *ItemRepository) FindByID(ctx context.Context, id string) (domain.Item, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := cache.ItemKey(id)

	// --- Cache-Aside (READ) ---
	if r.Cache != nil {
		cached, err := r.Cache.Get(ctxTimeout, key)
		if err == nil {
			var it domain.Item
			if json.Unmarshal([]byte(cached), &it) == nil {
				return it, nil
			}
			r.logger.Warn("Item inválido no cache, consultando o DB.", map[string]interface{}{"item_id": id})
		} else if err != cache.ErrCacheMiss {
			r.logger.Warn("Falha ao ler do cache Redis.", map[string]interface{}{"item_id": id, "error": err.Error()})
		}
	}

	it, err := scanItem(r.DB.QueryRowContext(ctxTimeout, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return domain.Item{}, errors.NewNotFoundError(fmt.Sprintf("Item com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar item no DB.", err)
		return domain.Item{}, errors.NewDBError("Falha ao buscar item no DB", err)
	}

	// --- Cache-Aside (WRITE) ---
	if r.Cache != nil {
		if data, marshalErr := json.Marshal(it); marshalErr == nil {
			if err := r.Cache.Set(ctxTimeout, key, data, r.CacheTTL); err != nil {
				r.logger.Warn("Falha ao gravar item no cache.", map[string]interface{}{"item_id": id, "error": err.Error()})
			}
		}
	}
	return it, nil
}

// Create insere um novo item. CurrentStock é o estoque inicial.
func (r *ItemRepository) Create(ctx context.Context, it domain.Item) (domain.Item, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	it.CreatedAt, it.UpdatedAt = now, now
	it.Version = 1

	_, err := r.DB.ExecContext(ctxTimeout, `
        INSERT INTO items (id, code, name, category_id, description, unit, min_stock, current_stock, location,
                           supplier_id, price, status, image_url, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		it.ID, it.Code, it.Name, it.CategoryID, it.Description, it.Unit, it.MinStock, it.CurrentStock, it.Location,
		it.SupplierID, it.Price, it.Status, it.ImageURL, it.Version, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir item no DB.", err)
		return domain.Item{}, database.WriteError("Falha ao criar item", "Já existe um item com este código.",
			"Categoria ou fornecedor não encontrado.", err)
	}

	r.logger.Info("Item criado com sucesso.", map[string]interface{}{"item_id": it.ID, "code": it.Code})
	return it, nil
}

// Update altera os dados cadastrais do item. current_stock e version pertencem ao ledger
// e não são tocados aqui.
func (r *ItemRepository) Update(ctx context.Context, it domain.Item) (domain.Item, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	updated, err := scanItem(r.DB.QueryRowContext(ctxTimeout, `
        UPDATE items
        SET code = $1, name = $2, category_id = $3, description = $4, unit = $5, min_stock = $6,
            location = $7, supplier_id = $8, price = $9, status = $10, image_url = $11, updated_at = $12
        WHERE id = $13
        RETURNING `+itemColumns,
		it.Code, it.Name, it.CategoryID, it.Description, it.Unit, it.MinStock,
		it.Location, it.SupplierID, it.Price, it.Status, it.ImageURL, time.Now().UTC(), it.ID,
	))
	if err == sql.ErrNoRows {
		return domain.Item{}, errors.NewNotFoundError(fmt.Sprintf("Item com ID %s não existe na base de dados.", it.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar item no DB.", err)
		return domain.Item{}, database.WriteError("Falha ao atualizar item", "Já existe um item com este código.",
			"Categoria ou fornecedor não encontrado.", err)
	}

	r.invalidate(ctx, it.ID)
	return updated, nil
}

// Delete remove o item se não houver transações nem baixas apontando para ele.
func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.DeleteGuarded(ctxTimeout, r.DB, database.DeleteSpec{
		Table:       "items",
		Entity:      "item",
		ID:          id,
		NotFoundMsg: "Item não encontrado.",
		Guards: []database.Guard{
			{Table: "transactions", Column: "item_id", Dependent: "transactions",
				Msg: "Não é possível excluir o item: existem transações vinculadas."},
			{Table: "depreciations", Column: "item_id", Dependent: "depreciations",
				Msg: "Não é possível excluir o item: existem baixas vinculadas."},
		},
	})
	if err != nil {
		return err
	}

	r.invalidate(ctx, id)
	r.logger.Info("Item excluído.", map[string]interface{}{"item_id": id})
	return nil
}

func (r *ItemRepository) invalidate(ctx context.Context, id string) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.Delete(ctx, cache.ItemKey(id)); err != nil {
		r.logger.Warn("Falha ao invalidar item no cache.", map[string]interface{}{"item_id": id, "error": err.Error()})
	}
}
