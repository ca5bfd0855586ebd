package peers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/client/api"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

type userDTO struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	UserName  string    `json:"username"`
	Gender    string    `json:"gender"`
	Balance   int64     `json:"balance"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (d userDTO) model() *models.User {
	return &models.User{
		ID:        d.ID,
		FullName:  d.FullName,
		UserName:  d.UserName,
		Gender:    models.Gender(d.Gender),
		Balance:   d.Balance,
		Role:      d.Role,
		CreatedAt: d.CreatedAt,
	}
}

// Users calls the user service.
type Users struct {
	caller *api.Caller
}

func NewUsers(baseURL string, timeout time.Duration) *Users {
	return &Users{caller: api.NewCaller(baseURL, timeout)}
}

// Get returns the live user with id, balance included.
func (u *Users) Get(ctx context.Context, id int64) (*models.User, error) {
	var dto userDTO
	if err := u.caller.Do(ctx, http.MethodGet, fmt.Sprintf("/internal/%d", id), nil, &dto); err != nil {
		return nil, translate(err)
	}
	return dto.model(), nil
}

// ReduceBalance takes amount off the user's balance.
func (u *Users) ReduceBalance(ctx context.Context, id, amount int64) error {
	err := u.caller.Do(ctx, http.MethodPut, fmt.Sprintf("/internal/%d/reduce/%d", id, amount), nil, nil)
	return translate(err)
}
