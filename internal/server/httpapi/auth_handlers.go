package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/coursehub/internal/server/auth"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/services"
	"github.com/gin-gonic/gin"
)

// AuthService is the credential store and token issuer used by the auth
// endpoints.
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, userName, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, p *auth.Principal, refreshToken string) error
	Me(ctx context.Context, p *auth.Principal) (*models.User, error)
}

type authHandler struct {
	s   *Server
	svc AuthService
}

// RegisterAuthRoutes mounts the auth service endpoints. /register, /login
// and /refresh-token are expected on the public allow-list.
func (s *Server) RegisterAuthRoutes(svc AuthService) {
	h := &authHandler{s: s, svc: svc}

	s.engine.POST("/register", h.register)
	s.engine.POST("/login", h.login)
	s.engine.POST("/refresh-token", h.refresh)
	s.engine.POST("/logout", s.authorize(auth.AnyAuthenticated()), h.logout)
	s.engine.GET("/me", s.authorize(auth.AnyAuthenticated()), h.me)
}

func (h *authHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	_, err := h.svc.Register(c.Request.Context(), services.RegisterInput{
		FullName: req.FullName,
		UserName: req.UserName,
		Password: req.Password,
		Gender:   models.Gender(req.Gender),
	})
	if err != nil {
		h.s.writeError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (h *authHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		h.s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// refresh answers 403 when the refresh flow yields no token.
func (h *authHandler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	token, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	if token == "" {
		h.s.writeForbidden(c)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (h *authHandler) logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.s.writeBindError(c, err)
		return
	}

	if err := h.svc.Logout(c.Request.Context(), principal(c), req.RefreshToken); err != nil {
		h.s.writeError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

func (h *authHandler) me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), principal(c))
	if err != nil {
		h.s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}
