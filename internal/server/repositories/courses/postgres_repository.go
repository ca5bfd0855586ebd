package courses

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/dbx"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/softdelete"
)

var table = softdelete.Table[*models.Course]{
	Name:    "courses",
	Columns: []string{"id", "name", "description", "price", "deleted", "created_at"},
	Scan:    scanCourse,
}

func scanCourse(row softdelete.Scanner) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Price, &c.Deleted, &c.CreatedAt)
	return c, err
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, course *models.Course) (*models.Course, error) {
	query :=
		`INSERT INTO courses (name, description, price)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, course.Name, course.Description, course.Price).
		Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return course, nil
}

func (r *PostgresRepository) ExistsByName(ctx context.Context, name string, exceptID int64) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM courses WHERE name = $1 AND id <> $2 AND deleted = FALSE)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name, exceptID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	return softdelete.FindByID(ctx, r.db, table, id)
}

func (r *PostgresRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return softdelete.ExistsByID(ctx, r.db, table, id)
}

func (r *PostgresRepository) Trash(ctx context.Context, id int64) error {
	return softdelete.Trash(ctx, r.db, table, id)
}

func (r *PostgresRepository) List(ctx context.Context, search string, limit, offset int) ([]*models.Course, int64, error) {
	var conds []softdelete.Cond
	if search != "" {
		conds = append(conds, softdelete.Contains(search, "name"))
	}
	return softdelete.FindPage(ctx, r.db, table, conds, limit, offset)
}

func (r *PostgresRepository) FindByIDs(ctx context.Context, ids []int64) ([]*models.Course, error) {
	if len(ids) == 0 {
		return []*models.Course{}, nil
	}
	return softdelete.FindAll(ctx, r.db, table, softdelete.In("id", ids))
}

func (r *PostgresRepository) RecordView(ctx context.Context, courseID, userID int64) error {
	query :=
		`INSERT INTO course_views (course_id, user_id) VALUES ($1, $2)
		 ON CONFLICT (course_id, user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, courseID, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ViewCount(ctx context.Context, courseID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM course_views WHERE course_id = $1`

	var n int64
	if err := r.db.QueryRowContext(ctx, query, courseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) MostViewed(ctx context.Context, limit, offset int) ([]*models.Course, int64, error) {
	query :=
		`SELECT c.id, c.name, c.description, c.price, c.deleted, c.created_at, COUNT(v.id) AS views
		 FROM courses c LEFT JOIN course_views v ON v.course_id = c.id
		 WHERE c.deleted = FALSE
		 GROUP BY c.id
		 ORDER BY views DESC, c.id
		 LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	items, err := softdelete.ScanAll(rows, func(row softdelete.Scanner) (*models.Course, error) {
		c := &models.Course{}
		err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Price, &c.Deleted, &c.CreatedAt, &c.Views)
		return c, err
	})
	if err != nil {
		return nil, 0, err
	}

	total, err := softdelete.CountNotDeleted(ctx, r.db, table)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update overwrites name, description and price of a live course.
func (r *PostgresRepository) Update(ctx context.Context, course *models.Course) error {
	query :=
		`UPDATE courses SET name = $2, description = $3, price = $4
		 WHERE id = $1 AND deleted = FALSE`

	res, err := r.db.ExecContext(ctx, query, course.ID, course.Name, course.Description, course.Price)
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
