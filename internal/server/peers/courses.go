package peers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/client/api"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

type courseDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	ViewCount   int64     `json:"viewCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (d courseDTO) model() *models.Course {
	return &models.Course{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Views:       d.ViewCount,
		CreatedAt:   d.CreatedAt,
	}
}

// Courses calls the course service.
type Courses struct {
	caller *api.Caller
}

func NewCourses(baseURL string, timeout time.Duration) *Courses {
	return &Courses{caller: api.NewCaller(baseURL, timeout)}
}

// Get returns the live course with id.
func (c *Courses) Get(ctx context.Context, id int64) (*models.Course, error) {
	var dto courseDTO
	if err := c.caller.Do(ctx, http.MethodGet, fmt.Sprintf("/internal/one/%d", id), nil, &dto); err != nil {
		return nil, translate(err)
	}
	return dto.model(), nil
}

// GetMany returns the courses with the given ids. The course service
// fails the call when any of them is missing.
func (c *Courses) GetMany(ctx context.Context, ids []int64) ([]*models.Course, error) {
	if len(ids) == 0 {
		return []*models.Course{}, nil
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}

	var dtos []courseDTO
	if err := c.caller.Do(ctx, http.MethodGet, "/internal/"+strings.Join(parts, ","), nil, &dtos); err != nil {
		return nil, translate(err)
	}

	out := make([]*models.Course, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.model())
	}
	return out, nil
}
