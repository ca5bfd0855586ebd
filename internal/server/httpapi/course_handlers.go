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

// CourseService manages the catalog for the course endpoints.
type CourseService interface {
	Create(ctx context.Context, in services.CourseInput) (*models.Course, error)
	List(ctx context.Context, req services.PageRequest) (*services.Page[*models.Course], error)
	Get(ctx context.Context, id int64) (*models.Course, error)
	View(ctx context.Context, id int64, viewerID *int64) (*models.Course, error)
	GetMany(ctx context.Context, ids []int64) ([]*models.Course, error)
	MostViewed(ctx context.Context, req services.PageRequest) (*services.Page[*models.Course], error)
	MostSold(ctx context.Context, req services.PageRequest) (*services.Page[services.CourseSold], error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, id int64, patch services.CoursePatch) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
}

type courseHandler struct {
	s   *Server
	svc CourseService
}

// RegisterCourseRoutes mounts the course service endpoints. /list, the
// rankings and the /internal routes are expected on the public allow-list.
func (s *Server) RegisterCourseRoutes(svc CourseService) {
	h := &courseHandler{s: s, svc: svc}

	s.engine.POST("/", s.authorize(auth.HasRole(auth.RoleAdmin)), h.create)
	s.engine.GET("/list", h.list)
	s.engine.GET("/one/:id", s.authorize(auth.HasAnyAuthority(auth.RoleUser, auth.RoleAdmin)), h.view)
	s.engine.GET("/most-sold", h.mostSold)
	s.engine.GET("/most-viewed", h.mostViewed)
	s.engine.PUT("/:id", s.authorize(auth.HasRole(auth.RoleAdmin)), h.update)
	s.engine.DELETE("/:id", s.authorize(auth.HasRole(auth.RoleAdmin)), h.delete)

	s.engine.GET("/internal/one/:id", h.one)
	s.engine.GET("/internal/exists/:id", h.exists)
	s.engine.GET("/internal/:ids", h.many)
}

func (h *courseHandler) create(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	course, err := h.svc.Create(c.Request.Context(), services.CourseInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCourseResponse(course))
}

func (h *courseHandler) list(c *gin.Context) {
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
	c.JSON(http.StatusOK, toPageResponse(page, toCourseResponse))
}

func (h *courseHandler) mostViewed(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	page, err := h.svc.MostViewed(c.Request.Context(), q.request())
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPageResponse(page, toCourseResponse))
}

func (h *courseHandler) mostSold(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	page, err := h.svc.MostSold(c.Request.Context(), q.request())
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPageResponse(page, toCourseSoldResponse))
}

// view is one on behalf of the caller, who is counted as a viewer.
func (h *courseHandler) view(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	var viewer *int64
	if p := principal(c); p != nil {
		viewer = p.UserID
	}

	course, err := h.svc.View(c.Request.Context(), uri.ID, viewer)
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCourseResponse(course))
}

// many serves /internal/1,2,3.
func (h *courseHandler) many(c *gin.Context) {
	ids, err := parseIDs(c.Param("ids"))
	if err != nil {
		h.s.writeError(c, common.Wrap(common.KindValidation, err))
		return
	}

	courses, err := h.svc.GetMany(c.Request.Context(), ids)
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(courses, toCourseResponse))
}

func (h *courseHandler) one(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	course, err := h.svc.Get(c.Request.Context(), uri.ID)
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCourseResponse(course))
}

func (h *courseHandler) exists(c *gin.Context) {
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

func (h *courseHandler) update(c *gin.Context) {
	var uri idURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.s.writeBindError(c, err)
		return
	}
	var req courseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	course, err := h.svc.Update(c.Request.Context(), uri.ID, services.CoursePatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCourseResponse(course))
}

func (h *courseHandler) delete(c *gin.Context) {
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
