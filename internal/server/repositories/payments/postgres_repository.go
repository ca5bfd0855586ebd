package payments

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/dbx"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/softdelete"
)

var table = softdelete.Table[*models.Payment]{
	Name:    "payments",
	Columns: []string{"id", "user_id", "course_id", "paid_money", "status", "deleted", "created_at"},
	Scan:    scanPayment,
}

func scanPayment(row softdelete.Scanner) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(&p.ID, &p.UserID, &p.CourseID, &p.PaidMoney, &p.Status, &p.Deleted, &p.CreatedAt)
	return p, err
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	query :=
		`INSERT INTO payments (user_id, course_id, paid_money, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, payment.UserID, payment.CourseID, payment.PaidMoney, payment.Status).
		Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return payment, nil
}

func (r *PostgresRepository) ExistsByUserAndCourse(ctx context.Context, userID, courseID int64) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM payments WHERE user_id = $1 AND course_id = $2 AND deleted = FALSE)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Payment, error) {
	return softdelete.FindByID(ctx, r.db, table, id)
}

func (r *PostgresRepository) Trash(ctx context.Context, id int64) error {
	return softdelete.Trash(ctx, r.db, table, id)
}

func (r *PostgresRepository) List(ctx context.Context, p Period, limit, offset int) ([]*models.Payment, int64, error) {
	var conds []softdelete.Cond
	if !p.From.IsZero() {
		conds = append(conds, softdelete.Cond{SQL: "created_at >= ?", Args: []any{p.From}})
	}
	if !p.To.IsZero() {
		conds = append(conds, softdelete.Cond{SQL: "created_at < ?", Args: []any{p.To}})
	}
	return softdelete.FindPage(ctx, r.db, table, conds, limit, offset)
}

func (r *PostgresRepository) TopSelling(ctx context.Context, limit, offset int) ([]models.CourseSales, int64, error) {
	query :=
		`SELECT course_id, COUNT(*) AS sold FROM payments
		 WHERE deleted = FALSE
		 GROUP BY course_id
		 ORDER BY sold DESC, course_id
		 LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	items, err := softdelete.ScanAll(rows, func(row softdelete.Scanner) (models.CourseSales, error) {
		var s models.CourseSales
		err := row.Scan(&s.CourseID, &s.Sold)
		return s, err
	})
	if err != nil {
		return nil, 0, err
	}

	var total int64
	countQuery := `SELECT COUNT(DISTINCT course_id) FROM payments WHERE deleted = FALSE`
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return items, total, nil
}

func (r *PostgresRepository) CourseIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT course_id FROM payments WHERE user_id = $1 AND deleted = FALSE ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return softdelete.ScanAll(rows, func(row softdelete.Scanner) (int64, error) {
		var id int64
		err := row.Scan(&id)
		return id, err
	})
}
