// Package softdelete provides repository operations shared by every table
// that marks rows deleted instead of removing them.
//
// A table qualifies when it has a BIGINT "id" primary key and a BOOLEAN
// "deleted" column. Queries issued here never return deleted rows.
package softdelete

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/dbx"
)

// Entity is any record addressed by a numeric id.
type Entity interface {
	GetID() int64
}

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Table describes how to read T from a soft-deletable table. Columns are
// selected in order and handed to Scan.
type Table[T Entity] struct {
	Name    string
	Columns []string
	Scan    func(row Scanner) (T, error)
}

func (t Table[T]) selectFrom() string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(t.Columns, ", "), t.Name)
}

// FindByID returns the live row with the given id, or common.ErrorNotFound.
func FindByID[T Entity](ctx context.Context, db dbx.DBTX, t Table[T], id int64) (T, error) {
	query := t.selectFrom() + " WHERE id = $1 AND deleted = FALSE"

	v, err := t.Scan(db.QueryRowContext(ctx, query, id))
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, common.ErrorNotFound
		}
		return zero, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

// ExistsByID reports whether a live row with the given id exists.
func ExistsByID[T Entity](ctx context.Context, db dbx.DBTX, t Table[T], id int64) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1 AND deleted = FALSE)", t.Name)

	var exists bool
	if err := db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// Trash marks the live row with the given id deleted. It returns
// common.ErrorNotFound when there is no such live row.
func Trash[T Entity](ctx context.Context, db dbx.DBTX, t Table[T], id int64) error {
	query := fmt.Sprintf("UPDATE %s SET deleted = TRUE WHERE id = $1 AND deleted = FALSE", t.Name)

	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
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

// TrashList marks every listed live row deleted and returns the ids that were
// actually trashed. Unknown or already deleted ids are skipped.
func TrashList[T Entity](ctx context.Context, db dbx.DBTX, t Table[T], ids []int64) ([]int64, error) {
	trashed := make([]int64, 0, len(ids))
	for _, id := range ids {
		err := Trash(ctx, db, t, id)
		if errors.Is(err, common.ErrorNotFound) {
			continue
		}
		if err != nil {
			return trashed, err
		}
		trashed = append(trashed, id)
	}
	return trashed, nil
}

// FindAllNotDeleted returns one page of live rows ordered by id.
func FindAllNotDeleted[T Entity](ctx context.Context, db dbx.DBTX, t Table[T], limit, offset int) ([]T, error) {
	query := t.selectFrom() + " WHERE deleted = FALSE ORDER BY id LIMIT $1 OFFSET $2"

	rows, err := db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ScanAll(rows, t.Scan)
}

// Cond is an extra predicate ANDed to "deleted = FALSE". Placeholders are
// written as ? and numbered when the query is built, one per element of Args.
type Cond struct {
	SQL  string
	Args []any
}

// Equals matches rows whose column equals v.
func Equals(column string, v any) Cond {
	return Cond{SQL: column + " = ?", Args: []any{v}}
}

// Contains matches rows where any of columns contains text, ignoring case.
// LIKE wildcards in text match literally.
func Contains(text string, columns ...string) Cond {
	pattern := dbx.ContainsPattern(text)

	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE ? " + dbx.LikeEscape
		args[i] = pattern
	}
	return Cond{SQL: strings.Join(parts, " OR "), Args: args}
}

// In matches rows whose column is one of values. An empty list matches
// nothing.
func In(column string, values []int64) Cond {
	if len(values) == 0 {
		return Cond{SQL: "FALSE"}
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return Cond{SQL: column + " IN (" + strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ") + ")", Args: args}
}

func where(conds []Cond) (string, []any) {
	var b strings.Builder
	var args []any

	b.WriteString(" WHERE deleted = FALSE")
	for _, c := range conds {
		b.WriteString(" AND (")
		next := 0
		for _, r := range c.SQL {
			if r == '?' && next < len(c.Args) {
				args = append(args, c.Args[next])
				next++
				fmt.Fprintf(&b, "$%d", len(args))
				continue
			}
			b.WriteRune(r)
		}
		b.WriteString(")")
	}
	return b.String(), args
}

// FindAll returns every live row matching conds, ordered by id.
func FindAll[T Entity](ctx context.Context, db dbx.DBTX, t Table[T], conds ...Cond) ([]T, error) {
	w, args := where(conds)

	rows, err := db.QueryContext(ctx, t.selectFrom()+w+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ScanAll(rows, t.Scan)
}

// FindPage returns one page of live rows matching every cond, ordered by id,
// and the number of live rows matching them.
func FindPage[T Entity](ctx context.Context, db dbx.DBTX, t Table[T], conds []Cond, limit, offset int) ([]T, int64, error) {
	w, args := where(conds)

	query := t.selectFrom() + w + fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := db.QueryContext(ctx, query, append(args[:len(args):len(args)], limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	items, err := ScanAll(rows, t.Scan)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.Name+w, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return items, total, nil
}

// CountNotDeleted returns the number of live rows.
func CountNotDeleted[T Entity](ctx context.Context, db dbx.DBTX, t Table[T]) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE deleted = FALSE", t.Name)

	var n int64
	if err := db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// ScanAll drains rows through scan and closes them.
func ScanAll[T any](rows *sql.Rows, scan func(Scanner) (T, error)) ([]T, error) {
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}
