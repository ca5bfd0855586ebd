package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/dbx"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	paymentsrepo "github.com/dmitrijs2005/coursehub/internal/server/repositories/payments"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/repomanager"
)

// DateLayout is the dd-MM-yyyy form of the payment filter dates.
const DateLayout = "02-01-2006"

// PaymentInput is a purchase request: the course and the amount offered.
type PaymentInput struct {
	CourseID int64
	Money    int64
}

// PaymentDetails is a payment with its buyer and course resolved.
type PaymentDetails struct {
	Payment *models.Payment
	User    *models.User
	Course  *models.Course
}

// PaymentFilter selects payments by creation day. Dates use DateLayout;
// empty bounds are open. Both bounds are inclusive whole days.
type PaymentFilter struct {
	FromDate string
	ToDate   string
}

// PaymentService records course purchases. Users and courses live in their
// own services and are read through UserDirectory and CourseCatalog.
type PaymentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	users       UserDirectory
	courses     CourseCatalog
	location    *time.Location
}

func NewPaymentService(db *sql.DB, m repomanager.RepositoryManager, users UserDirectory, courses CourseCatalog) *PaymentService {
	return &PaymentService{db: db, repomanager: m, users: users, courses: courses, location: time.UTC}
}

// Create buys course in.CourseID for userID. The amount must equal the
// course price and be covered by the balance; the payment row and the
// balance reduction commit or fail together.
func (s *PaymentService) Create(ctx context.Context, userID int64, in PaymentInput) (*PaymentDetails, error) {
	course, err := s.courses.Get(ctx, in.CourseID)
	if err != nil {
		return nil, classified(err)
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, classified(err)
	}

	var payment *models.Payment
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Payments(tx)

		exists, err := repo.ExistsByUserAndCourse(ctx, user.ID, course.ID)
		if err != nil {
			return common.Wrap(common.KindInternal, err)
		}
		if exists {
			return common.NewError(common.KindPaymentExists, course.ID)
		}

		if err := validatePayment(user.Balance, course.Price, in.Money); err != nil {
			return err
		}

		payment, err = repo.Create(ctx, &models.Payment{
			UserID:    user.ID,
			CourseID:  course.ID,
			PaidMoney: in.Money,
			Status:    models.PaymentPaid,
		})
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.NewError(common.KindPaymentExists, course.ID)
			}
			return common.Wrap(common.KindInternal, err)
		}

		return s.users.ReduceBalance(ctx, user.ID, in.Money)
	})
	if err != nil {
		return nil, classified(err)
	}

	user.Balance -= in.Money
	return &PaymentDetails{Payment: payment, User: user, Course: course}, nil
}

// validatePayment checks an offered amount against the buyer's balance and
// the course price, in that order.
func validatePayment(balance, price, paid int64) error {
	switch {
	case balance < paid:
		return common.NewError(common.KindNotEnoughMoney, balance, paid)
	case price < paid:
		return common.NewError(common.KindBigMoney, paid, price)
	case paid < price:
		return common.NewError(common.KindLessMoney, paid, price)
	}
	return nil
}

func (s *PaymentService) List(ctx context.Context, req PageRequest) (*Page[*PaymentDetails], error) {
	return s.list(ctx, req, paymentsrepo.Period{})
}

// Filter lists payments created between f.FromDate and f.ToDate.
func (s *PaymentService) Filter(ctx context.Context, req PageRequest, f PaymentFilter) (*Page[*PaymentDetails], error) {
	period, err := s.period(f)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, req, period)
}

func (s *PaymentService) period(f PaymentFilter) (paymentsrepo.Period, error) {
	var p paymentsrepo.Period
	var from, to time.Time
	var err error

	if f.FromDate != "" {
		if from, err = time.ParseInLocation(DateLayout, f.FromDate, s.location); err != nil {
			return p, common.NewError(common.KindInvalidDateFormat, f.FromDate)
		}
		p.From = from
	}
	if f.ToDate != "" {
		if to, err = time.ParseInLocation(DateLayout, f.ToDate, s.location); err != nil {
			return p, common.NewError(common.KindInvalidDateFormat, f.ToDate)
		}
		p.To = to.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return p, common.NewError(common.KindInvalidDate, f.FromDate, f.ToDate)
	}
	return p, nil
}

func (s *PaymentService) list(ctx context.Context, req PageRequest, period paymentsrepo.Period) (*Page[*PaymentDetails], error) {
	req = req.normalize()

	items, total, err := s.repomanager.Payments(s.db).List(ctx, period, req.Size, req.offset())
	if err != nil {
		return nil, common.Wrap(common.KindInternal, err)
	}

	details, err := s.resolve(ctx, items)
	if err != nil {
		return nil, err
	}
	return &Page[*PaymentDetails]{Items: details, Total: total, Page: req.Page, Size: req.Size}, nil
}

// resolve fetches buyer and course of every payment, each distinct one once.
func (s *PaymentService) resolve(ctx context.Context, items []*models.Payment) ([]*PaymentDetails, error) {
	users := map[int64]*models.User{}
	courses := map[int64]*models.Course{}

	out := make([]*PaymentDetails, 0, len(items))
	for _, p := range items {
		u, ok := users[p.UserID]
		if !ok {
			var err error
			if u, err = s.users.Get(ctx, p.UserID); err != nil {
				return nil, classified(err)
			}
			users[p.UserID] = u
		}
		c, ok := courses[p.CourseID]
		if !ok {
			var err error
			if c, err = s.courses.Get(ctx, p.CourseID); err != nil {
				return nil, classified(err)
			}
			courses[p.CourseID] = c
		}
		out = append(out, &PaymentDetails{Payment: p, User: u, Course: c})
	}
	return out, nil
}

func (s *PaymentService) Get(ctx context.Context, id int64) (*PaymentDetails, error) {
	p, err := s.repomanager.Payments(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, paymentError(err, id)
	}
	details, err := s.resolve(ctx, []*models.Payment{p})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

// Delete soft-deletes the payment. The buyer's balance is not refunded.
func (s *PaymentService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Payments(s.db).Trash(ctx, id); err != nil {
		return paymentError(err, id)
	}
	return nil
}

// TopSelling pages through courses by number of live payments.
func (s *PaymentService) TopSelling(ctx context.Context, req PageRequest) (*Page[models.CourseSales], error) {
	req = req.normalize()

	items, total, err := s.repomanager.Payments(s.db).TopSelling(ctx, req.Size, req.offset())
	if err != nil {
		return nil, common.Wrap(common.KindInternal, err)
	}
	return &Page[models.CourseSales]{Items: items, Total: total, Page: req.Page, Size: req.Size}, nil
}

// CourseIDs returns the courses user id has live payments for.
func (s *PaymentService) CourseIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := s.repomanager.Payments(s.db).CourseIDsByUser(ctx, userID)
	if err != nil {
		return nil, common.Wrap(common.KindInternal, err)
	}
	return ids, nil
}

func paymentError(err error, id int64) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.NewError(common.KindPaymentNotFound, id)
	}
	return common.Wrap(common.KindInternal, err)
}
