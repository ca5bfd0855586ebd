package httpapi

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/services"
)

type registerRequest struct {
	FullName string `json:"fullName" binding:"required,max=50"`
	UserName string `json:"username" binding:"required,max=20"`
	Password string `json:"password" binding:"required,max=20"`
	Gender   string `json:"gender" binding:"required"`
}

type loginRequest struct {
	UserName string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type payRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

type courseRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"gte=0"`
}

type courseUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Price       *int64  `json:"price" binding:"omitempty,gte=0"`
}

type idURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type pageQuery struct {
	Page   int    `form:"page" binding:"gte=0,lte=1000000"`
	Size   int    `form:"size" binding:"gte=0,max=100"`
	Search string `form:"search"`
}

func (q pageQuery) request() services.PageRequest {
	return services.PageRequest{Page: q.Page, Size: q.Size, Search: q.Search}
}

type userListQuery struct {
	pageQuery
	Gender string `form:"gender"`
}

type userEditRequest struct {
	FullName *string `json:"fullName" binding:"omitempty,min=1,max=50"`
	UserName *string `json:"username" binding:"omitempty,min=1,max=20"`
}

type reduceURI struct {
	ID    int64 `uri:"id" binding:"required,min=1"`
	Money int64 `uri:"money" binding:"required,gt=0"`
}

type paymentRequest struct {
	CourseID int64 `json:"courseId" binding:"required,min=1"`
	Money    int64 `json:"money" binding:"required,gt=0"`
}

type paymentFilterQuery struct {
	pageQuery
	FromDate string `form:"fromDate"`
	ToDate   string `form:"toDate"`
}

type pageResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	UserName  string    `json:"username"`
	Gender    string    `json:"gender"`
	Balance   int64     `json:"balance"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		UserName:  u.UserName,
		Gender:    string(u.Gender),
		Balance:   u.Balance,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type courseResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	ViewCount   int64     `json:"viewCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCourseResponse(c *models.Course) courseResponse {
	return courseResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Price:       c.Price,
		ViewCount:   c.Views,
		CreatedAt:   c.CreatedAt,
	}
}

type courseSoldResponse struct {
	Course courseResponse `json:"course"`
	Sold   int64          `json:"sold"`
}

func toCourseSoldResponse(s services.CourseSold) courseSoldResponse {
	return courseSoldResponse{Course: toCourseResponse(s.Course), Sold: s.Sold}
}

type userCoursesResponse struct {
	User         userResponse     `json:"user"`
	Courses      []courseResponse `json:"courses"`
	TotalPayment int64            `json:"totalPayment"`
}

type paymentResponse struct {
	ID        int64          `json:"id"`
	User      userResponse   `json:"user"`
	Course    courseResponse `json:"course"`
	PaidMoney int64          `json:"paidMoney"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
}

func toPaymentResponse(d *services.PaymentDetails) paymentResponse {
	return paymentResponse{
		ID:        d.Payment.ID,
		User:      toUserResponse(d.User),
		Course:    toCourseResponse(d.Course),
		PaidMoney: d.Payment.PaidMoney,
		Status:    string(d.Payment.Status),
		CreatedAt: d.Payment.CreatedAt,
	}
}

type courseSalesResponse struct {
	CourseID int64 `json:"courseId"`
	Sold     int64 `json:"sold"`
}

func toCourseSalesResponse(s models.CourseSales) courseSalesResponse {
	return courseSalesResponse{CourseID: s.CourseID, Sold: s.Sold}
}

func toPageResponse[T, R any](p *services.Page[T], f func(T) R) pageResponse[R] {
	return pageResponse[R]{Items: mapSlice(p.Items, f), Total: p.Total, Page: p.Page, Size: p.Size}
}

// parseIDs reads a comma separated list of positive ids.
func parseIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		if id < 1 {
			return nil, fmt.Errorf("id %d is not positive", id)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
