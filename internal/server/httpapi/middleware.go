package httpapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	bearerPrefix    = "Bearer "
)

// requestLogger tags each request with an id (reusing a client supplied
// X-Request-ID) and writes one access log line when it completes.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)

		c.Next()

		s.logger.Info(c.Request.Context(), "access",
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// recoverer turns handler panics into the uniform internal error body.
func (s *Server) recoverer() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error(c.Request.Context(), "panic", "path", c.Request.URL.Path, "panic", r)
				s.writeError(c, nil)
			}
		}()
		c.Next()
	}
}

// authenticate is the request authentication filter. Public paths pass
// through untouched. Any other request must carry a valid, unexpired bearer
// token; otherwise the filter answers 403 and the handler never runs.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.public.Match(c.Request.URL.Path) {
			c.Next()
			return
		}

		p, ok := s.principalFromRequest(c)
		if !ok {
			s.writeForbidden(c)
			return
		}

		s.logger.Debug(c.Request.Context(), "authenticated", "subject", p.Subject, "authorities", p.Authorities)

		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

func (s *Server) principalFromRequest(c *gin.Context) (p *auth.Principal, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn(c.Request.Context(), "token rejected", "path", c.Request.URL.Path, "panic", r)
			p, ok = nil, false
		}
	}()

	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, false
	}
	token := header[len(bearerPrefix):]
	if token == "" {
		return nil, false
	}

	claims, err := s.codec.Decode(token)
	if err != nil {
		s.logger.Warn(c.Request.Context(), "token rejected", "path", c.Request.URL.Path, "reason", err)
		return nil, false
	}
	if s.codec.IsExpired(claims) {
		s.logger.Warn(c.Request.Context(), "token rejected", "path", c.Request.URL.Path, "reason", "expired")
		return nil, false
	}

	return auth.NewPrincipal(claims), true
}

// authorize is the per-route authorization gate. For ownership rules the
// resource id is read from the :id path parameter.
func (s *Server) authorize(rule auth.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _ := auth.PrincipalFromContext(c.Request.Context())

		var resourceID *int64
		if raw := c.Param("id"); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				resourceID = &id
			}
		}

		if !rule.Allows(p, resourceID) {
			subject := ""
			if p != nil {
				subject = p.Subject
			}
			s.logger.Warn(c.Request.Context(), "access denied", "path", c.Request.URL.Path, "subject", subject)
			s.writeForbidden(c)
			return
		}
		c.Next()
	}
}

func principal(c *gin.Context) *auth.Principal {
	p, _ := auth.PrincipalFromContext(c.Request.Context())
	return p
}
