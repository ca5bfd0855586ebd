package peers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/client/api"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
)

type courseSalesDTO struct {
	CourseID int64 `json:"courseId"`
	Sold     int64 `json:"sold"`
}

// Payments calls the payment service.
type Payments struct {
	caller *api.Caller
}

func NewPayments(baseURL string, timeout time.Duration) *Payments {
	return &Payments{caller: api.NewCaller(baseURL, timeout)}
}

// CourseIDs returns the ids of the courses the user paid for.
func (p *Payments) CourseIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	if err := p.caller.Do(ctx, http.MethodGet, fmt.Sprintf("/internal/%d", userID), nil, &ids); err != nil {
		return nil, translate(err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// TopSelling returns one page of courses by number of payments and the
// number of distinct courses sold.
func (p *Payments) TopSelling(ctx context.Context, page, size int) ([]models.CourseSales, int64, error) {
	var resp struct {
		Items []courseSalesDTO `json:"items"`
		Total int64            `json:"total"`
	}
	path := fmt.Sprintf("/internal/top-selling?page=%d&size=%d", page, size)
	if err := p.caller.Do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, 0, translate(err)
	}

	out := make([]models.CourseSales, 0, len(resp.Items))
	for _, it := range resp.Items {
		out = append(out, models.CourseSales{CourseID: it.CourseID, Sold: it.Sold})
	}
	return out, resp.Total, nil
}
