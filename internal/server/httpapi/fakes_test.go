package httpapi

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/server/auth"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/services"
)

type fakeAuthService struct {
	mu       sync.Mutex
	calls    int
	register error
	pair     *services.TokenPair
	loginErr error
	refresh  string
	logout   error
	lastP    *auth.Principal
}

func (f *fakeAuthService) hit(p *auth.Principal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastP = p
}

func (f *fakeAuthService) Register(ctx context.Context, in services.RegisterInput) (*models.User, error) {
	f.hit(nil)
	if f.register != nil {
		return nil, f.register
	}
	return &models.User{ID: 1, UserName: in.UserName}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, userName, password string) (*services.TokenPair, error) {
	f.hit(nil)
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.pair, nil
}

func (f *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	f.hit(nil)
	return f.refresh, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, p *auth.Principal, refreshToken string) error {
	f.hit(p)
	return f.logout
}

func (f *fakeAuthService) Me(ctx context.Context, p *auth.Principal) (*models.User, error) {
	f.hit(p)
	return &models.User{ID: *p.UserID, UserName: p.Subject, Role: string(p.Role), Gender: models.GenderFemale}, nil
}

type fakeUserService struct {
	mu    sync.Mutex
	users map[int64]*models.User
	paid  map[int64]int64

	owned      []*models.Course
	coursesErr error
}

func newFakeUserService(users ...*models.User) *fakeUserService {
	f := &fakeUserService{users: map[int64]*models.User{}, paid: map[int64]int64{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserService) List(ctx context.Context, req services.PageRequest, gender models.Gender) (*services.Page[*models.User], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gender != "" && !gender.Valid() {
		return nil, common.NewError(common.KindGenderEnum, gender)
	}
	page := &services.Page[*models.User]{Page: req.Page, Size: req.Size}
	for _, u := range f.users {
		if gender == "" || u.Gender == gender {
			page.Items = append(page.Items, u)
		}
	}
	page.Total = int64(len(page.Items))
	return page, nil
}

func (f *fakeUserService) Get(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserService) Edit(ctx context.Context, id int64, in services.UserEdit) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	if in.UserName != nil {
		u.UserName = *in.UserName
	}
	if in.FullName != nil {
		u.FullName = *in.FullName
	}
	return u, nil
}

func (f *fakeUserService) Courses(ctx context.Context, id int64) (*services.UserCourses, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	if f.coursesErr != nil {
		return nil, f.coursesErr
	}
	out := &services.UserCourses{User: u, Courses: f.owned}
	for _, c := range f.owned {
		out.TotalPayment += c.Price
	}
	return out, nil
}

func (f *fakeUserService) ReduceBalance(ctx context.Context, id int64, amount int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return 0, common.ErrUserNotFound
	}
	if u.Balance < amount {
		return 0, common.NewError(common.KindNotEnoughMoney, u.Balance, amount)
	}
	u.Balance -= amount
	return u.Balance, nil
}

func (f *fakeUserService) Exists(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserService) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return common.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserService) Pay(ctx context.Context, id int64, amount int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paid[id] += amount
	return f.paid[id], nil
}

type fakeCourseService struct {
	mu      sync.Mutex
	courses map[int64]*models.Course
	nextID  int64
	viewers []*int64
	sold    []services.CourseSold
}

func newFakeCourseService(courses ...*models.Course) *fakeCourseService {
	f := &fakeCourseService{courses: map[int64]*models.Course{}}
	for _, c := range courses {
		f.courses[c.ID] = c
		if c.ID > f.nextID {
			f.nextID = c.ID
		}
	}
	return f
}

func (f *fakeCourseService) Create(ctx context.Context, in services.CourseInput) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.courses {
		if c.Name == in.Name {
			return nil, common.NewError(common.KindCourseNameExists, in.Name)
		}
	}
	f.nextID++
	c := &models.Course{ID: f.nextID, Name: in.Name, Description: in.Description, Price: in.Price}
	f.courses[c.ID] = c
	return c, nil
}

func (f *fakeCourseService) List(ctx context.Context, req services.PageRequest) (*services.Page[*models.Course], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page := &services.Page[*models.Course]{Page: req.Page, Size: req.Size}
	for _, c := range f.courses {
		page.Items = append(page.Items, c)
	}
	page.Total = int64(len(page.Items))
	return page, nil
}

func (f *fakeCourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok {
		return nil, common.NewError(common.KindCourseNotFound, id)
	}
	return c, nil
}

func (f *fakeCourseService) View(ctx context.Context, id int64, viewerID *int64) (*models.Course, error) {
	f.mu.Lock()
	f.viewers = append(f.viewers, viewerID)
	f.mu.Unlock()
	return f.Get(ctx, id)
}

func (f *fakeCourseService) GetMany(ctx context.Context, ids []int64) ([]*models.Course, error) {
	out := make([]*models.Course, 0, len(ids))
	for _, id := range ids {
		c, err := f.Get(ctx, id)
		if err != nil {
			return nil, common.NewError(common.KindCourseNotFoundInList, fmt.Sprint(id))
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCourseService) MostViewed(ctx context.Context, req services.PageRequest) (*services.Page[*models.Course], error) {
	return f.List(ctx, req)
}

func (f *fakeCourseService) MostSold(ctx context.Context, req services.PageRequest) (*services.Page[services.CourseSold], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &services.Page[services.CourseSold]{Items: f.sold, Total: int64(len(f.sold)), Page: req.Page, Size: req.Size}, nil
}

func (f *fakeCourseService) Exists(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.courses[id]
	return ok, nil
}

func (f *fakeCourseService) Update(ctx context.Context, id int64, patch services.CoursePatch) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok {
		return nil, common.NewError(common.KindCourseNotFound, id)
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Price != nil {
		c.Price = *patch.Price
	}
	return c, nil
}

func (f *fakeCourseService) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[id]; !ok {
		return common.NewError(common.KindCourseNotFound, id)
	}
	delete(f.courses, id)
	return nil
}

type fakePaymentService struct {
	mu       sync.Mutex
	payments map[int64]*services.PaymentDetails
	lastReq  services.PageRequest
	filter   services.PaymentFilter
	buyer    int64
	err      error
}

func newFakePaymentService(details ...*services.PaymentDetails) *fakePaymentService {
	f := &fakePaymentService{payments: map[int64]*services.PaymentDetails{}}
	for _, d := range details {
		f.payments[d.Payment.ID] = d
	}
	return f
}

func (f *fakePaymentService) page(req services.PageRequest) *services.Page[*services.PaymentDetails] {
	page := &services.Page[*services.PaymentDetails]{Page: req.Page, Size: req.Size}
	for id := int64(1); id <= int64(len(f.payments)); id++ {
		if d, ok := f.payments[id]; ok {
			page.Items = append(page.Items, d)
		}
	}
	page.Total = int64(len(page.Items))
	return page
}

func (f *fakePaymentService) Create(ctx context.Context, userID int64, in services.PaymentInput) (*services.PaymentDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buyer = userID
	if f.err != nil {
		return nil, f.err
	}
	d := &services.PaymentDetails{
		Payment: &models.Payment{ID: int64(len(f.payments) + 1), UserID: userID, CourseID: in.CourseID, PaidMoney: in.Money, Status: models.PaymentPaid},
		User:    &models.User{ID: userID},
		Course:  &models.Course{ID: in.CourseID, Price: in.Money},
	}
	f.payments[d.Payment.ID] = d
	return d, nil
}

func (f *fakePaymentService) List(ctx context.Context, req services.PageRequest) (*services.Page[*services.PaymentDetails], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReq = req
	return f.page(req), nil
}

func (f *fakePaymentService) Filter(ctx context.Context, req services.PageRequest, pf services.PaymentFilter) (*services.Page[*services.PaymentDetails], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReq = req
	f.filter = pf
	if f.err != nil {
		return nil, f.err
	}
	return f.page(req), nil
}

func (f *fakePaymentService) Get(ctx context.Context, id int64) (*services.PaymentDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.payments[id]
	if !ok {
		return nil, common.NewError(common.KindPaymentNotFound, id)
	}
	return d, nil
}

func (f *fakePaymentService) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.payments[id]; !ok {
		return common.NewError(common.KindPaymentNotFound, id)
	}
	delete(f.payments, id)
	return nil
}

func (f *fakePaymentService) TopSelling(ctx context.Context, req services.PageRequest) (*services.Page[models.CourseSales], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[int64]int64{}
	for _, d := range f.payments {
		counts[d.Payment.CourseID]++
	}
	page := &services.Page[models.CourseSales]{Page: req.Page, Size: req.Size}
	for id, n := range counts {
		page.Items = append(page.Items, models.CourseSales{CourseID: id, Sold: n})
	}
	page.Total = int64(len(page.Items))
	return page, nil
}

func (f *fakePaymentService) CourseIDs(ctx context.Context, userID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []int64{}
	for id := int64(1); id <= int64(len(f.payments)); id++ {
		if d, ok := f.payments[id]; ok && d.Payment.UserID == userID {
			ids = append(ids, d.Payment.CourseID)
		}
	}
	return ids, nil
}
