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

// UserService manages user accounts for the user endpoints.
type UserService interface {
	List(ctx context.Context, req services.PageRequest, gender models.Gender) (*services.Page[*models.User], error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Edit(ctx context.Context, id int64, in services.UserEdit) (*models.User, error)
	Courses(ctx context.Context, id int64) (*services.UserCourses, error)
	ReduceBalance(ctx context.Context, id int64, amount int64) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	Pay(ctx context.Context, id int64, amount int64) (int64, error)
}

type userHandler struct {
	s   *Server
	svc UserService
}

// RegisterUserRoutes mounts the user service endpoints. The /internal
// routes are meant for sibling services and sit on the public allow-list.
func (s *Server) RegisterUserRoutes(svc UserService) {
	h := &userHandler{s: s, svc: svc}

	s.engine.GET("/list", s.authorize(auth.HasAnyAuthority(auth.RoleAdmin)), h.list)
	s.engine.GET("/one/:id", s.authorize(auth.OwnershipOrRole(auth.RoleAdmin)), h.one)
	s.engine.DELETE("/delete/:id", s.authorize(auth.HasRole(auth.RoleAdmin)), h.delete)
	s.engine.PUT("/pay", s.authorize(auth.HasAnyAuthority(auth.RoleUser)), h.pay)
	s.engine.PUT("/edit", s.authorize(auth.HasAnyAuthority(auth.RoleUser)), h.edit)
	s.engine.GET("/all", s.authorize(auth.HasAnyAuthority(auth.RoleUser)), h.courses)

	s.engine.GET("/internal/:id", h.one)
	s.engine.GET("/internal/exists/:id", h.exists)
	s.engine.PUT("/internal/:id/reduce/:money", h.reduce)
}

func (h *userHandler) list(c *gin.Context) {
	var q userListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	page, err := h.svc.List(c.Request.Context(), q.request(), models.Gender(q.Gender))
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPageResponse(page, toUserResponse))
}

// edit changes the caller's own profile.
func (h *userHandler) edit(c *gin.Context) {
	var req userEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	id, ok := h.callerID(c)
	if !ok {
		return
	}

	u, err := h.svc.Edit(c.Request.Context(), id, services.UserEdit{FullName: req.FullName, UserName: req.UserName})
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

// courses lists what the caller has bought.
func (h *userHandler) courses(c *gin.Context) {
	id, ok := h.callerID(c)
	if !ok {
		return
	}

	uc, err := h.svc.Courses(c.Request.Context(), id)
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userCoursesResponse{
		User:         toUserResponse(uc.User),
		Courses:      mapSlice(uc.Courses, toCourseResponse),
		TotalPayment: uc.TotalPayment,
	})
}

func (h *userHandler) reduce(c *gin.Context) {
	var uri reduceURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	balance, err := h.svc.ReduceBalance(c.Request.Context(), uri.ID, uri.Money)
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, balanceResponse{Balance: balance})
}

func (h *userHandler) callerID(c *gin.Context) (int64, bool) {
	p := principal(c)
	if p == nil || p.UserID == nil {
		h.s.writeError(c, common.ErrUserNotFound)
		return 0, false
	}
	return *p.UserID, true
}

func (h *userHandler) one(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	u, err := h.svc.Get(c.Request.Context(), uri.ID)
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *userHandler) exists(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	ok, err := h.svc.Exists(c.Request.Context(), uri.ID)
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ok)
}

func (h *userHandler) delete(c *gin.Context) {
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

// pay tops up the caller's own balance.
func (h *userHandler) pay(c *gin.Context) {
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	id, ok := h.callerID(c)
	if !ok {
		return
	}

	balance, err := h.svc.Pay(c.Request.Context(), id, req.Amount)
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, balanceResponse{Balance: balance})
}
