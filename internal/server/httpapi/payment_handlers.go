package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/server/auth"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/services"
	"github.com/gin-gonic/gin"
)

// PaymentService records purchases for the payment endpoints.
type PaymentService interface {
	Create(ctx context.Context, userID int64, in services.PaymentInput) (*services.PaymentDetails, error)
	List(ctx context.Context, req services.PageRequest) (*services.Page[*services.PaymentDetails], error)
	Filter(ctx context.Context, req services.PageRequest, f services.PaymentFilter) (*services.Page[*services.PaymentDetails], error)
	Get(ctx context.Context, id int64) (*services.PaymentDetails, error)
	Delete(ctx context.Context, id int64) error
	TopSelling(ctx context.Context, req services.PageRequest) (*services.Page[models.CourseSales], error)
	CourseIDs(ctx context.Context, userID int64) ([]int64, error)
}

type paymentHandler struct {
	s   *Server
	svc PaymentService
}

type userIDURI struct {
	UserID int64 `uri:"userId" binding:"required,min=1"`
}

// RegisterPaymentRoutes mounts the payment service endpoints.
func (s *Server) RegisterPaymentRoutes(svc PaymentService) {
	h := &paymentHandler{s: s, svc: svc}

	s.engine.POST("/", s.authorize(auth.HasAnyAuthority(auth.RoleUser)), h.create)
	s.engine.GET("/", s.authorize(auth.HasRole(auth.RoleAdmin)), h.list)
	s.engine.GET("/filter", s.authorize(auth.HasRole(auth.RoleAdmin)), h.filter)
	s.engine.GET("/:id", s.authorize(auth.HasRole(auth.RoleAdmin)), h.one)
	s.engine.DELETE("/:id", s.authorize(auth.HasRole(auth.RoleAdmin)), h.delete)

	s.engine.GET("/internal/top-selling", h.topSelling)
	s.engine.GET("/internal/:userId", h.courseIDs)
}

// create buys a course for the caller.
func (h *paymentHandler) create(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	p := principal(c)
	if p == nil || p.UserID == nil {
		h.s.writeError(c, common.ErrUserNotFound)
		return
	}

	d, err := h.svc.Create(c.Request.Context(), *p.UserID, services.PaymentInput{CourseID: req.CourseID, Money: req.Money})
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(d))
}

func (h *paymentHandler) list(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	page, err := h.svc.List(c.Request.Context(), q.request())
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPageResponse(page, toPaymentResponse))
}

// filter lists payments by creation day, fromDate and toDate in dd-MM-yyyy.
func (h *paymentHandler) filter(c *gin.Context) {
	var q paymentFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	page, err := h.svc.Filter(c.Request.Context(), q.request(), services.PaymentFilter{FromDate: q.FromDate, ToDate: q.ToDate})
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPageResponse(page, toPaymentResponse))
}

func (h *paymentHandler) one(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	d, err := h.svc.Get(c.Request.Context(), uri.ID)
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(d))
}

func (h *paymentHandler) delete(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), uri.ID); err != nil {
		h.s.writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *paymentHandler) topSelling(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	page, err := h.svc.TopSelling(c.Request.Context(), q.request())
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPageResponse(page, toCourseSalesResponse))
}

func (h *paymentHandler) courseIDs(c *gin.Context) {
	var uri userIDURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	ids, err := h.svc.CourseIDs(c.Request.Context(), uri.UserID)
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}
