package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/dbx"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/coursehub/internal/server/repositories/users"
)

// UserEdit changes a user's own profile; nil fields are left unchanged.
type UserEdit struct {
	FullName *string
	UserName *string
}

// UserCourses is what a user has bought and the total price of it.
type UserCourses struct {
	User         *models.User
	Courses      []*models.Course
	TotalPayment int64
}

// UserService manages user accounts on behalf of the user service endpoints.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	payments    PaymentLedger
	courses     CourseCatalog
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, payments PaymentLedger, courses CourseCatalog) *UserService {
	return &UserService{db: db, repomanager: m, payments: payments, courses: courses}
}

// List pages through live users. An empty gender matches everyone.
func (s *UserService) List(ctx context.Context, req PageRequest, gender models.Gender) (*Page[*models.User], error) {
	if gender != "" && !gender.Valid() {
		return nil, common.NewError(common.KindGenderEnum, gender)
	}
	req = req.normalize()

	f := usersrepo.ListFilter{Search: req.Search, Gender: gender}
	items, total, err := s.repomanager.Users(s.db).List(ctx, f, req.Size, req.offset())
	if err != nil {
		return nil, common.Wrap(common.KindInternal, err)
	}
	return &Page[*models.User]{Items: items, Total: total, Page: req.Page, Size: req.Size}, nil
}

// Edit updates the profile of user id. A new username must not belong to
// any other account, deleted ones included.
func (s *UserService) Edit(ctx context.Context, id int64, in UserEdit) (*models.User, error) {
	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		u, err := repo.FindByID(ctx, id)
		if err != nil {
			return userError(err)
		}

		if in.UserName != nil && *in.UserName != u.UserName {
			taken, err := repo.ExistsByUsernameExcept(ctx, *in.UserName, id)
			if err != nil {
				return common.Wrap(common.KindInternal, err)
			}
			if taken {
				return common.NewError(common.KindDuplicateUsername, *in.UserName)
			}
			u.UserName = *in.UserName
		}
		if in.FullName != nil {
			u.FullName = *in.FullName
		}

		if err := repo.Update(ctx, u); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.NewError(common.KindDuplicateUsername, u.UserName)
			}
			return userError(err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, classified(err)
	}
	return user, nil
}

// Courses returns the courses user id has paid for. Purchases are read from
// the payment service and course details from the course service.
func (s *UserService) Courses(ctx context.Context, id int64) (*UserCourses, error) {
	user, err := s.repomanager.Users(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, userError(err)
	}

	ids, err := s.payments.CourseIDs(ctx, id)
	if err != nil {
		return nil, classified(err)
	}
	courses, err := s.courses.GetMany(ctx, ids)
	if err != nil {
		return nil, classified(err)
	}

	out := &UserCourses{User: user, Courses: courses}
	for _, c := range courses {
		out.TotalPayment += c.Price
	}
	return out, nil
}

// ReduceBalance takes amount off the balance of user id and returns the new
// balance. The balance never goes negative.
func (s *UserService) ReduceBalance(ctx context.Context, id int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, common.ErrValidation
	}

	repo := s.repomanager.Users(s.db)

	balance, err := repo.ReduceBalance(ctx, id, amount)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return 0, common.Wrap(common.KindInternal, err)
	}

	user, err := repo.FindByID(ctx, id)
	if err != nil {
		return 0, userError(err)
	}
	return 0, common.NewError(common.KindNotEnoughMoney, user.Balance, amount)
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, userError(err)
	}
	return user, nil
}

func (s *UserService) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repomanager.Users(s.db).ExistsByID(ctx, id)
	if err != nil {
		return false, common.Wrap(common.KindInternal, err)
	}
	return ok, nil
}

// Delete soft-deletes the user.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Users(s.db).Trash(ctx, id); err != nil {
		return userError(err)
	}
	return nil
}

// Pay tops up the balance of user id by amount (minor units) and returns the
// new balance.
func (s *UserService) Pay(ctx context.Context, id int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, common.ErrValidation
	}

	balance, err := s.repomanager.Users(s.db).AddBalance(ctx, id, amount)
	if err != nil {
		return 0, userError(err)
	}
	return balance, nil
}

func userError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrUserNotFound
	}
	return common.Wrap(common.KindInternal, err)
}
