package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/dbx"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/courses"
	paymentsrepo "github.com/dmitrijs2005/coursehub/internal/server/repositories/payments"
	refreshtokensrepo "github.com/dmitrijs2005/coursehub/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/coursehub/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeUsersRepo is an in-memory users.Repository. Create enforces username
// uniqueness under the lock, like the database constraint does.
type fakeUsersRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User

	existsOverride *bool
	err            error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[int64]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, existing := range f.byID {
		if existing.UserName == u.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	f.byID[cp.ID] = &cp
	u.ID = cp.ID
	return u, nil
}

func (f *fakeUsersRepo) FindByUsername(ctx context.Context, userName string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.UserName == userName && !u.Deleted {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) ExistsByUsername(ctx context.Context, userName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsOverride != nil {
		return *f.existsOverride, nil
	}
	for _, u := range f.byID {
		if u.UserName == userName {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok || u.Deleted {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, err := f.FindByID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeUsersRepo) List(ctx context.Context, lf usersrepo.ListFilter, limit, offset int) ([]*models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	var all []*models.User
	for id := int64(1); id <= f.nextID; id++ {
		u, ok := f.byID[id]
		if !ok || u.Deleted || !strings.Contains(strings.ToLower(u.UserName), strings.ToLower(lf.Search)) {
			continue
		}
		if lf.Gender != "" && u.Gender != lf.Gender {
			continue
		}
		all = append(all, u)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []*models.User{}, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (f *fakeUsersRepo) ExistsByUsernameExcept(ctx context.Context, userName string, exceptID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.byID {
		if u.UserName == userName && id != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	stored, ok := f.byID[u.ID]
	if !ok || stored.Deleted {
		return common.ErrorNotFound
	}
	for id, other := range f.byID {
		if id != u.ID && other.UserName == u.UserName {
			return common.ErrorAlreadyExists
		}
	}
	stored.FullName = u.FullName
	stored.UserName = u.UserName
	return nil
}

func (f *fakeUsersRepo) ReduceBalance(ctx context.Context, id int64, amount int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok || u.Deleted || u.Balance < amount {
		return 0, common.ErrorNotFound
	}
	u.Balance -= amount
	return u.Balance, nil
}

func (f *fakeUsersRepo) AddBalance(ctx context.Context, id int64, amount int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok || u.Deleted {
		return 0, common.ErrorNotFound
	}
	u.Balance += amount
	return u.Balance, nil
}

func (f *fakeUsersRepo) Trash(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok || u.Deleted {
		return common.ErrorNotFound
	}
	u.Deleted = true
	return nil
}

type fakeRefreshRepo struct {
	mu     sync.Mutex
	users  *fakeUsersRepo
	tokens map[string]*models.RefreshToken

	createErr error
	findErr   error
}

func newFakeRefreshRepo(users *fakeUsersRepo) *fakeRefreshRepo {
	return &fakeRefreshRepo{users: users, tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID int64, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{ID: int64(len(f.tokens) + 1), UserID: userID, Token: token}
	return nil
}

func (f *fakeRefreshRepo) FindActive(ctx context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	t, ok := f.tokens[token]
	if !ok || t.Deleted {
		return nil, common.ErrorNotFound
	}
	cp := *t
	f.users.mu.Lock()
	if u, ok := f.users.byID[t.UserID]; ok {
		cp.OwnerUserName = u.UserName
	}
	f.users.mu.Unlock()
	return &cp, nil
}

func (f *fakeRefreshRepo) Trash(ctx context.Context, token string, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok || t.Deleted || t.UserID != userID {
		return common.ErrorNotFound
	}
	t.Deleted = true
	return nil
}

type fakeCoursesRepo struct {
	nextID int64
	byID   map[int64]*models.Course
	views  map[int64]map[int64]bool

	err       error
	updateErr error
}

func newFakeCoursesRepo() *fakeCoursesRepo {
	return &fakeCoursesRepo{byID: map[int64]*models.Course{}, views: map[int64]map[int64]bool{}}
}

func (f *fakeCoursesRepo) Create(ctx context.Context, c *models.Course) (*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	c.ID = f.nextID
	cp := *c
	f.byID[c.ID] = &cp
	return c, nil
}

func (f *fakeCoursesRepo) ExistsByName(ctx context.Context, name string, exceptID int64) (bool, error) {
	for id, c := range f.byID {
		if c.Name == name && id != exceptID && !c.Deleted {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCoursesRepo) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.byID[id]
	if !ok || c.Deleted {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCoursesRepo) ExistsByID(ctx context.Context, id int64) (bool, error) {
	c, ok := f.byID[id]
	return ok && !c.Deleted, nil
}

func (f *fakeCoursesRepo) List(ctx context.Context, search string, limit, offset int) ([]*models.Course, int64, error) {
	var all []*models.Course
	for id := int64(1); id <= f.nextID; id++ {
		if c, ok := f.byID[id]; ok && !c.Deleted {
			all = append(all, c)
		}
	}
	if offset >= len(all) {
		return []*models.Course{}, int64(len(all)), nil
	}
	return all[offset:min(offset+limit, len(all))], int64(len(all)), nil
}

func (f *fakeCoursesRepo) Update(ctx context.Context, c *models.Course) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[c.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCoursesRepo) Trash(ctx context.Context, id int64) error {
	c, ok := f.byID[id]
	if !ok || c.Deleted {
		return common.ErrorNotFound
	}
	c.Deleted = true
	return nil
}

func (f *fakeCoursesRepo) FindByIDs(ctx context.Context, ids []int64) ([]*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*models.Course{}
	for id := int64(1); id <= f.nextID; id++ {
		c, ok := f.byID[id]
		if ok && !c.Deleted && slices.Contains(ids, id) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCoursesRepo) RecordView(ctx context.Context, courseID, userID int64) error {
	if f.views[courseID] == nil {
		f.views[courseID] = map[int64]bool{}
	}
	f.views[courseID][userID] = true
	return nil
}

func (f *fakeCoursesRepo) ViewCount(ctx context.Context, courseID int64) (int64, error) {
	return int64(len(f.views[courseID])), nil
}

func (f *fakeCoursesRepo) MostViewed(ctx context.Context, limit, offset int) ([]*models.Course, int64, error) {
	var all []*models.Course
	for id := int64(1); id <= f.nextID; id++ {
		if c, ok := f.byID[id]; ok && !c.Deleted {
			cp := *c
			cp.Views = int64(len(f.views[id]))
			all = append(all, &cp)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Views > all[j].Views })
	if offset >= len(all) {
		return []*models.Course{}, int64(len(all)), nil
	}
	return all[offset:min(offset+limit, len(all))], int64(len(all)), nil
}

type fakePaymentsRepo struct {
	nextID int64
	byID   map[int64]*models.Payment

	lastPeriod paymentsrepo.Period
	err        error
}

func newFakePaymentsRepo() *fakePaymentsRepo {
	return &fakePaymentsRepo{byID: map[int64]*models.Payment{}}
}

func (f *fakePaymentsRepo) Create(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	cp := *p
	f.byID[p.ID] = &cp
	return p, nil
}

func (f *fakePaymentsRepo) ExistsByUserAndCourse(ctx context.Context, userID, courseID int64) (bool, error) {
	for _, p := range f.byID {
		if p.UserID == userID && p.CourseID == courseID && !p.Deleted {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePaymentsRepo) FindByID(ctx context.Context, id int64) (*models.Payment, error) {
	p, ok := f.byID[id]
	if !ok || p.Deleted {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentsRepo) Trash(ctx context.Context, id int64) error {
	p, ok := f.byID[id]
	if !ok || p.Deleted {
		return common.ErrorNotFound
	}
	p.Deleted = true
	return nil
}

func (f *fakePaymentsRepo) live() []*models.Payment {
	var all []*models.Payment
	for id := int64(1); id <= f.nextID; id++ {
		if p, ok := f.byID[id]; ok && !p.Deleted {
			all = append(all, p)
		}
	}
	return all
}

func (f *fakePaymentsRepo) List(ctx context.Context, period paymentsrepo.Period, limit, offset int) ([]*models.Payment, int64, error) {
	f.lastPeriod = period
	if f.err != nil {
		return nil, 0, f.err
	}
	all := f.live()
	if offset >= len(all) {
		return []*models.Payment{}, int64(len(all)), nil
	}
	return all[offset:min(offset+limit, len(all))], int64(len(all)), nil
}

func (f *fakePaymentsRepo) TopSelling(ctx context.Context, limit, offset int) ([]models.CourseSales, int64, error) {
	counts := map[int64]int64{}
	for _, p := range f.live() {
		counts[p.CourseID]++
	}
	out := make([]models.CourseSales, 0, len(counts))
	for id, n := range counts {
		out = append(out, models.CourseSales{CourseID: id, Sold: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sold != out[j].Sold {
			return out[i].Sold > out[j].Sold
		}
		return out[i].CourseID < out[j].CourseID
	})
	total := int64(len(out))
	if offset >= len(out) {
		return []models.CourseSales{}, total, nil
	}
	return out[offset:min(offset+limit, len(out))], total, nil
}

func (f *fakePaymentsRepo) CourseIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	for _, p := range f.live() {
		if p.UserID == userID {
			ids = append(ids, p.CourseID)
		}
	}
	return ids, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	c *fakeCoursesRepo
	p *fakePaymentsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	u := newFakeUsersRepo()
	return &fakeRepoManager{u: u, r: newFakeRefreshRepo(u), c: newFakeCoursesRepo(), p: newFakePaymentsRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Courses(db dbx.DBTX) courses.Repository                 { return m.c }
func (m *fakeRepoManager) Payments(db dbx.DBTX) paymentsrepo.Repository           { return m.p }

// fakeUserDirectory stands in for the user service.
type fakeUserDirectory struct {
	users     map[int64]*models.User
	reduced   []int64
	getErr    error
	reduceErr error
}

func (f *fakeUserDirectory) Get(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, &common.UpstreamError{Code: 400, Message: "User not found"}
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserDirectory) ReduceBalance(ctx context.Context, id, amount int64) error {
	if f.reduceErr != nil {
		return f.reduceErr
	}
	f.users[id].Balance -= amount
	f.reduced = append(f.reduced, amount)
	return nil
}

// fakeCatalog stands in for the course service.
type fakeCatalog struct {
	courses map[int64]*models.Course
	err     error
}

func (f *fakeCatalog) Get(ctx context.Context, id int64) (*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.courses[id]
	if !ok {
		return nil, &common.UpstreamError{Code: 200, Message: fmt.Sprintf("Course not found: %d", id)}
	}
	return c, nil
}

func (f *fakeCatalog) GetMany(ctx context.Context, ids []int64) ([]*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*models.Course{}
	for _, id := range ids {
		c, err := f.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// fakeLedger stands in for the payment service.
type fakeLedger struct {
	byUser map[int64][]int64
	sales  []models.CourseSales
	err    error
}

func (f *fakeLedger) CourseIDs(ctx context.Context, userID int64) ([]int64, error) {
	return f.byUser[userID], f.err
}

func (f *fakeLedger) TopSelling(ctx context.Context, page, size int) ([]models.CourseSales, int64, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.sales, int64(len(f.sales)), nil
}
