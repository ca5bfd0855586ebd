package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

// UserDirectory is the user service as the other services see it.
type UserDirectory interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	ReduceBalance(ctx context.Context, id, amount int64) error
}

// CourseCatalog is the course service as the other services see it.
type CourseCatalog interface {
	Get(ctx context.Context, id int64) (*models.Course, error)
	GetMany(ctx context.Context, ids []int64) ([]*models.Course, error)
}

// PaymentLedger is the payment service as the other services see it.
type PaymentLedger interface {
	CourseIDs(ctx context.Context, userID int64) ([]int64, error)
	TopSelling(ctx context.Context, page, size int) ([]models.CourseSales, int64, error)
}

// classified returns err when it already says what went wrong to the
// client, and an internal error wrapping it otherwise.
func classified(err error) error {
	var kindErr *common.Error
	var upstream *common.UpstreamError
	if errors.As(err, &kindErr) || errors.As(err, &upstream) {
		return err
	}
	return common.Wrap(common.KindInternal, err)
}
