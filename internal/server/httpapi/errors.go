package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// errorBody is the error shape shared by every service.
type errorBody struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Fields  []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func statusOf(kind common.Kind) int {
	switch kind {
	case common.KindForbidden, common.KindInvalidToken:
		return http.StatusForbidden
	case common.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// writeError aborts the request with the localized body for err. Causes of
// internal errors are logged, never returned. Errors answered by another
// service are relayed with that service's code and message.
func (s *Server) writeError(c *gin.Context, err error) {
	var upstream *common.UpstreamError
	if errors.As(err, &upstream) {
		s.abortWith(c, http.StatusBadRequest, errorBody{Code: upstream.Code, Message: upstream.Message})
		return
	}

	kind := common.KindOf(err)
	switch kind {
	case common.KindInternal:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err)
	case common.KindGeneralAPI:
		s.logger.Warn(c.Request.Context(), "dependent service failed", "path", c.Request.URL.Path, "error", err)
	}
	s.abortWith(c, statusOf(kind), errorBody{
		Code:    kind.Code(),
		Message: s.message(c, kind.Key(), common.ArgsOf(err)),
	})
}

// writeForbidden is the uniform response of the authentication filter and
// the authorization gate.
func (s *Server) writeForbidden(c *gin.Context) {
	s.writeError(c, common.ErrForbidden)
}

// writeBindError reports a request that failed to bind or validate.
func (s *Server) writeBindError(c *gin.Context, err error) {
	body := errorBody{
		Code:    common.KindValidation.Code(),
		Message: s.message(c, common.KindValidation.Key(), nil),
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			body.Fields = append(body.Fields, fieldError{Field: fe.Field(), Message: describe(fe)})
		}
	}

	s.abortWith(c, http.StatusBadRequest, body)
}

func (s *Server) abortWith(c *gin.Context, status int, body errorBody) {
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.AbortWithStatusJSON(status, body)
}

func (s *Server) message(c *gin.Context, key string, args []any) string {
	tag := s.locales.Resolve(c.GetHeader("Accept-Language"))
	return s.messages.Get(key, args, tag)
}

var registerFieldNames sync.Once

// useWireFieldNames makes validation errors report json (or form) names
// instead of Go struct field names.
func useWireFieldNames() {
	registerFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form", "uri"} {
				name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
	})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be blank"
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
