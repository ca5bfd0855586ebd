package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/dbx"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/softdelete"
)

var table = softdelete.Table[*models.User]{
	Name:    "users",
	Columns: []string{"id", "full_name", "username", "password", "gender", "balance", "role", "deleted", "created_at"},
	Scan:    scanUser,
}

func scanUser(row softdelete.Scanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.FullName, &u.UserName, &u.Password, &u.Gender, &u.Balance, &u.Role, &u.Deleted, &u.CreatedAt)
	return u, err
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (full_name, username, password, gender, balance, role)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.FullName, user.UserName, user.Password, user.Gender, user.Balance, user.Role).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, userName string) (*models.User, error) {
	query :=
		`SELECT id, full_name, username, password, gender, balance, role, deleted, created_at FROM users
		 WHERE username = $1 AND deleted = FALSE`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, userName))

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) ExistsByUsername(ctx context.Context, userName string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userName).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return softdelete.FindByID(ctx, r.db, table, id)
}

func (r *PostgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return softdelete.ExistsByID(ctx, r.db, table, id)
}

func (r *PostgresRepository) Trash(ctx context.Context, id int64) error {
	return softdelete.Trash(ctx, r.db, table, id)
}

func (r *PostgresRepository) List(ctx context.Context, f ListFilter, limit, offset int) ([]*models.User, int64, error) {
	var conds []softdelete.Cond
	if f.Search != "" {
		conds = append(conds, softdelete.Contains(f.Search, "username", "full_name"))
	}
	if f.Gender != "" {
		conds = append(conds, softdelete.Equals("gender", string(f.Gender)))
	}
	return softdelete.FindPage(ctx, r.db, table, conds, limit, offset)
}

func (r *PostgresRepository) ExistsByUsernameExcept(ctx context.Context, userName string, exceptID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND id <> $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userName, exceptID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET full_name = $2, username = $3
		 WHERE id = $1 AND deleted = FALSE`

	res, err := r.db.ExecContext(ctx, query, user.ID, user.FullName, user.UserName)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) AddBalance(ctx context.Context, id int64, amount int64) (int64, error) {
	query :=
		`UPDATE users SET balance = balance + $2
		 WHERE id = $1 AND deleted = FALSE
		 RETURNING balance`

	var balance int64
	err := r.db.QueryRowContext(ctx, query, id, amount).Scan(&balance)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return balance, nil
}

func (r *PostgresRepository) ReduceBalance(ctx context.Context, id int64, amount int64) (int64, error) {
	query :=
		`UPDATE users SET balance = balance - $2
		 WHERE id = $1 AND deleted = FALSE AND balance >= $2
		 RETURNING balance`

	var balance int64
	err := r.db.QueryRowContext(ctx, query, id, amount).Scan(&balance)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return balance, nil
}
