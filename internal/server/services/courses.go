package services

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/dbx"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/repomanager"
)

// CourseInput carries the fields of a new course.
type CourseInput struct {
	Name        string
	Description string
	Price       int64
}

// CoursePatch is a partial update; nil fields are left unchanged.
type CoursePatch struct {
	Name        *string
	Description *string
	Price       *int64
}

// CourseSold pairs a course with its number of sales.
type CourseSold struct {
	Course *models.Course
	Sold   int64
}

// CourseService manages the course catalog.
type CourseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	payments    PaymentLedger
}

func NewCourseService(db *sql.DB, m repomanager.RepositoryManager, payments PaymentLedger) *CourseService {
	return &CourseService{db: db, repomanager: m, payments: payments}
}

// Create adds a course. Names are unique among live courses.
func (s *CourseService) Create(ctx context.Context, in CourseInput) (*models.Course, error) {
	repo := s.repomanager.Courses(s.db)

	exists, err := repo.ExistsByName(ctx, in.Name, 0)
	if err != nil {
		return nil, common.Wrap(common.KindInternal, err)
	}
	if exists {
		return nil, common.NewError(common.KindCourseNameExists, in.Name)
	}

	course, err := repo.Create(ctx, &models.Course{Name: in.Name, Description: in.Description, Price: in.Price})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewError(common.KindCourseNameExists, in.Name)
		}
		return nil, common.Wrap(common.KindInternal, err)
	}
	return course, nil
}

func (s *CourseService) List(ctx context.Context, req PageRequest) (*Page[*models.Course], error) {
	req = req.normalize()

	items, total, err := s.repomanager.Courses(s.db).List(ctx, req.Search, req.Size, req.offset())
	if err != nil {
		return nil, common.Wrap(common.KindInternal, err)
	}
	return &Page[*models.Course]{Items: items, Total: total, Page: req.Page, Size: req.Size}, nil
}

// Get returns the live course with its view count.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	repo := s.repomanager.Courses(s.db)

	course, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, courseError(err, id)
	}
	if course.Views, err = repo.ViewCount(ctx, id); err != nil {
		return nil, common.Wrap(common.KindInternal, err)
	}
	return course, nil
}

// View is Get on behalf of a viewer. A viewer counts once per course; a nil
// viewer is not counted.
func (s *CourseService) View(ctx context.Context, id int64, viewerID *int64) (*models.Course, error) {
	if viewerID != nil {
		exists, err := s.repomanager.Courses(s.db).ExistsByID(ctx, id)
		if err != nil {
			return nil, common.Wrap(common.KindInternal, err)
		}
		if !exists {
			return nil, common.NewError(common.KindCourseNotFound, id)
		}
		if err := s.repomanager.Courses(s.db).RecordView(ctx, id, *viewerID); err != nil {
			return nil, common.Wrap(common.KindInternal, err)
		}
	}
	return s.Get(ctx, id)
}

// GetMany returns the live courses with the given ids, ordered by id.
// Duplicate ids are read once. Any missing id fails the whole call with
// CourseNotFoundInList naming the missing ids.
func (s *CourseService) GetMany(ctx context.Context, ids []int64) ([]*models.Course, error) {
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	found, err := s.repomanager.Courses(s.db).FindByIDs(ctx, unique)
	if err != nil {
		return nil, common.Wrap(common.KindInternal, err)
	}
	if len(found) == len(unique) {
		return found, nil
	}

	for _, c := range found {
		delete(seen, c.ID)
	}
	missing := make([]string, 0, len(seen))
	for _, id := range unique {
		if _, ok := seen[id]; ok {
			missing = append(missing, strconv.FormatInt(id, 10))
		}
	}
	return nil, common.NewError(common.KindCourseNotFoundInList, strings.Join(missing, ", "))
}

// MostViewed lists live courses by number of distinct viewers, most viewed
// first.
func (s *CourseService) MostViewed(ctx context.Context, req PageRequest) (*Page[*models.Course], error) {
	req = req.normalize()

	items, total, err := s.repomanager.Courses(s.db).MostViewed(ctx, req.Size, req.offset())
	if err != nil {
		return nil, common.Wrap(common.KindInternal, err)
	}
	return &Page[*models.Course]{Items: items, Total: total, Page: req.Page, Size: req.Size}, nil
}

// MostSold lists courses by number of payments, best selling first. Sales
// figures come from the payment service; courses deleted since they were
// sold are left out of the page.
func (s *CourseService) MostSold(ctx context.Context, req PageRequest) (*Page[CourseSold], error) {
	req = req.normalize()

	sales, total, err := s.payments.TopSelling(ctx, req.Page, req.Size)
	if err != nil {
		return nil, classified(err)
	}

	ids := make([]int64, len(sales))
	for i, sale := range sales {
		ids[i] = sale.CourseID
	}
	found, err := s.repomanager.Courses(s.db).FindByIDs(ctx, ids)
	if err != nil {
		return nil, common.Wrap(common.KindInternal, err)
	}
	byID := make(map[int64]*models.Course, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	items := make([]CourseSold, 0, len(sales))
	for _, sale := range sales {
		if c, ok := byID[sale.CourseID]; ok {
			items = append(items, CourseSold{Course: c, Sold: sale.Sold})
		}
	}
	return &Page[CourseSold]{Items: items, Total: total, Page: req.Page, Size: req.Size}, nil
}

func (s *CourseService) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repomanager.Courses(s.db).ExistsByID(ctx, id)
	if err != nil {
		return false, common.Wrap(common.KindInternal, err)
	}
	return ok, nil
}

// Update applies patch to a live course inside one transaction. A new name
// must not be used by any other live course.
func (s *CourseService) Update(ctx context.Context, id int64, patch CoursePatch) (*models.Course, error) {
	var course *models.Course

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Courses(tx)

		c, err := repo.FindByID(ctx, id)
		if err != nil {
			return courseError(err, id)
		}

		if patch.Name != nil && *patch.Name != c.Name {
			exists, err := repo.ExistsByName(ctx, *patch.Name, id)
			if err != nil {
				return common.Wrap(common.KindInternal, err)
			}
			if exists {
				return common.NewError(common.KindCourseNameExists, *patch.Name)
			}
			c.Name = *patch.Name
		}
		if patch.Description != nil {
			c.Description = *patch.Description
		}
		if patch.Price != nil {
			c.Price = *patch.Price
		}

		if err := repo.Update(ctx, c); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return common.NewError(common.KindCourseNameExists, c.Name)
			}
			return courseError(err, id)
		}
		course = c
		return nil
	})
	if err != nil {
		return nil, classified(err)
	}
	return course, nil
}

// Delete soft-deletes the course.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Courses(s.db).Trash(ctx, id); err != nil {
		return courseError(err, id)
	}
	return nil
}

func courseError(err error, id int64) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.NewError(common.KindCourseNotFound, id)
	}
	return common.Wrap(common.KindInternal, err)
}
