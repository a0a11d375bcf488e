package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hkinventory/internal/domain"
	apperror "hkinventory/internal/errors"
	"hkinventory/internal/pkg/database"
	"hkinventory/internal/pkg/logger"
)

// UserRepository implementa a persistência de usuários.
type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewUserRepository cria uma nova instância do UserRepository, injetando o DB.
func NewUserRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *UserRepository {
	return &UserRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const userColumns = `id, username, name, email, password_hash, role, status, last_login, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (domain.User, error) {
	var (
		u         domain.User
		lastLogin sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
		&lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

const (
	msgDuplicateUser = "Já existe um usuário com este username ou e-mail."
	msgFKUser        = "Registro relacionado não encontrado."
)

// Save insere um novo usuário no banco de dados.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	r.logger.Debug("Iniciando Save de usuário no repositório.", map[string]interface{}{"username": user.Username})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	user.ID = uuid.NewString()
	now := time.Now().UTC()

	saved, err := scanUser(r.DB.QueryRowContext(ctxTimeout, `
        INSERT INTO users (id, username, name, email, password_hash, role, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+userColumns,
		user.ID, user.Username, user.Name, user.Email, user.PasswordHash, user.Role, user.Status, now, now,
	))
	if err != nil {
		r.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, database.WriteError("Falha ao criar usuário", msgDuplicateUser, msgFKUser, err)
	}

	r.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": saved.ID, "username": saved.Username})
	return saved, nil
}

func (r *UserRepository) findOne(ctx context.Context, column, value string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)
	user, err := scanUser(r.DB.QueryRowContext(ctxTimeout, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Info("Usuário não encontrado no DB.", map[string]interface{}{column: value})
			return domain.User{}, apperror.NewNotFoundError("Usuário não encontrado.")
		}
		r.logger.Error("Falha ao buscar usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao buscar usuário", err)
	}
	return user, nil
}

// FindByID busca um usuário pelo id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	return r.findOne(ctx, "id", id)
}

// FindByUsername busca um usuário pelo username (usado no login).
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, "username", username)
}

// FindAll lista todos os usuários.
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+userColumns+` FROM users ORDER BY name`)
	if err != nil {
		r.logger.Error("Falha ao listar usuários no DB.", err)
		return nil, apperror.NewDBError("Falha ao listar usuários", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao mapear usuários do DB", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Erro após iteração de usuários", err)
	}
	return users, nil
}

// Update altera os dados do usuário. PasswordHash vazio preserva a senha atual.
func (r *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	updated, err := scanUser(r.DB.QueryRowContext(ctxTimeout, `
        UPDATE users
        SET username = $1, name = $2, email = $3, role = $4, status = $5,
            password_hash = COALESCE(NULLIF($6, ''), password_hash), updated_at = $7
        WHERE id = $8
        RETURNING `+userColumns,
		user.Username, user.Name, user.Email, user.Role, user.Status, user.PasswordHash, time.Now().UTC(), user.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperror.NewNotFoundError("Usuário não encontrado.")
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar usuário no DB.", err)
		return domain.User{}, database.WriteError("Falha ao atualizar usuário", msgDuplicateUser, msgFKUser, err)
	}
	return updated, nil
}

// TouchLastLogin registra o horário do último login bem-sucedido.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if _, err := r.DB.ExecContext(ctxTimeout, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id); err != nil {
		r.logger.Error("Falha ao registrar último login.", err)
		return apperror.NewDBError("Falha ao registrar último login", err)
	}
	return nil
}

// Delete remove o usuário se ele não tiver transações nem baixas registradas.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	err := database.DeleteGuarded(ctxTimeout, r.DB, database.DeleteSpec{
		Table:       "users",
		Entity:      "user",
		ID:          id,
		NotFoundMsg: "Usuário não encontrado.",
		Guards: []database.Guard{
			{Table: "transactions", Column: "user_id", Dependent: "transactions",
				Msg: "Não é possível excluir o usuário: existem transações registradas por este usuário."},
			{Table: "depreciations", Column: "user_id", Dependent: "depreciations",
				Msg: "Não é possível excluir o usuário: existem baixas registradas por este usuário."},
		},
	})
	if err != nil {
		return err
	}

	r.logger.Info("Usuário excluído.", map[string]interface{}{"user_id": id})
	return nil
}
