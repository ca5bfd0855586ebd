// Package courses declares and implements persistence for the course catalog.
package courses

import (
	"context"

	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

// Repository defines persistence operations for courses. Only live
// (non-deleted) courses are visible.
type Repository interface {
	// Create inserts course and fills its ID. A name already used by a live
	// course yields common.ErrorAlreadyExists.
	Create(ctx context.Context, course *models.Course) (*models.Course, error)

	// ExistsByName reports whether a live course other than exceptID has
	// the given name. Pass 0 to check all courses.
	ExistsByName(ctx context.Context, name string, exceptID int64) (bool, error)

	FindByID(ctx context.Context, id int64) (*models.Course, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, search string, limit, offset int) ([]*models.Course, int64, error)
	Update(ctx context.Context, course *models.Course) error
	Trash(ctx context.Context, id int64) error

	// FindByIDs returns the live courses among ids, ordered by id. Missing
	// ids are left out.
	FindByIDs(ctx context.Context, ids []int64) ([]*models.Course, error)

	// RecordView counts userID as a viewer of the course. Repeated views by
	// the same user count once.
	RecordView(ctx context.Context, courseID, userID int64) error

	// ViewCount returns the number of distinct viewers of the course.
	ViewCount(ctx context.Context, courseID int64) (int64, error)

	// MostViewed returns one page of live courses with Views filled, most
	// viewed first, plus the number of live courses.
	MostViewed(ctx context.Context, limit, offset int) ([]*models.Course, int64, error)
}
