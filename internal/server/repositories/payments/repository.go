// Package payments declares and implements persistence for course purchases.
package payments

import (
	"context"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

// Period bounds created_at. From is inclusive and To exclusive; a zero
// bound is open.
type Period struct {
	From time.Time
	To   time.Time
}

// Repository defines persistence operations for payments. Only live
// (non-deleted) payments are visible.
type Repository interface {
	// Create inserts payment and fills its ID and creation time. A second
	// live payment for the same user and course yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)

	// ExistsByUserAndCourse reports whether the user already paid for the
	// course.
	ExistsByUserAndCourse(ctx context.Context, userID, courseID int64) (bool, error)

	FindByID(ctx context.Context, id int64) (*models.Payment, error)
	Trash(ctx context.Context, id int64) error

	// List returns one page of payments created within p, ordered by id,
	// plus the number of matches.
	List(ctx context.Context, p Period, limit, offset int) ([]*models.Payment, int64, error)

	// TopSelling returns one page of courses by number of payments, best
	// selling first, plus the number of distinct courses sold.
	TopSelling(ctx context.Context, limit, offset int) ([]models.CourseSales, int64, error)

	// CourseIDsByUser returns the ids of the courses the user paid for.
	CourseIDsByUser(ctx context.Context, userID int64) ([]int64, error)
}
